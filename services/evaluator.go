package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"evalhub/config"
	"evalhub/models"
	"evalhub/utils"
)

// Archive is one batch input: a display name and a local zip path.
type Archive struct {
	TeamName string
	ZipPath  string
}

// ProgressFunc receives one event per batch step. May be nil.
type ProgressFunc func(models.ProgressEvent)

// Evaluator runs the submission pipeline: extract, compose, invoke, parse,
// normalize. It is built per run from the config and an optional credential
// override and holds no state across submissions.
type Evaluator struct {
	cfg    *config.Config
	client *ChatClient
}

func NewEvaluator(cfg *config.Config, apiKeyOverride string) *Evaluator {
	return &Evaluator{
		cfg:    cfg,
		client: NewChatClient(cfg, apiKeyOverride),
	}
}

// Client exposes the underlying chat client for variants that bypass the
// evaluation pipeline (plain chat, RAG).
func (e *Evaluator) Client() *ChatClient {
	return e.client
}

// ExtractSubmission unpacks the archive and returns the extracted blocks
// together with the concatenated submission text.
func (e *Evaluator) ExtractSubmission(zipPath, teamName string) (*models.Submission, string, error) {
	sub, err := ExtractArchive(zipPath, teamName, e.cfg.Eval.PdfMinTextLen)
	if err != nil {
		return nil, "", err
	}
	return sub, RenderSubmissionText(sub), nil
}

// Preview returns the leading slice of the extracted text shown to the user.
func (e *Evaluator) Preview(text string) string {
	return utils.TruncateRunes(text, e.cfg.Eval.PreviewChars)
}

// EvaluateText sends the composed rubric prompt for already-extracted text
// and returns the tolerantly parsed, normalized reply.
func (e *Evaluator) EvaluateText(ctx context.Context, rubric, submissionText string) (models.ModelReply, error) {
	prompt := ComposeEvaluationPrompt(rubric, submissionText, e.cfg.Eval.PromptCharBudget)
	raw, err := e.client.Chat(ctx, prompt)
	if err != nil {
		return models.ModelReply{}, err
	}
	reply := ParseEvaluation(raw)
	NormalizeScores(reply.Result)
	return reply, nil
}

// EvaluateArchive runs the full pipeline for one submission bundle.
func (e *Evaluator) EvaluateArchive(ctx context.Context, zipPath, teamName, rubric string) (models.ModelReply, error) {
	_, text, err := e.ExtractSubmission(zipPath, teamName)
	if err != nil {
		return models.ModelReply{}, err
	}
	return e.EvaluateText(ctx, rubric, text)
}

// EvaluateBatch processes archives strictly in sequence. A failed or
// unparseable submission becomes a zero-score placeholder carrying the error;
// submissions the model flags as invalid are reported separately and kept off
// the leaderboard. The pause between iterations only paces the progress
// feed.
func (e *Evaluator) EvaluateBatch(ctx context.Context, rubric string, archives []Archive, onProgress ProgressFunc) (results []models.TeamResult, invalid []models.TeamResult) {
	total := len(archives)
	pause := time.Duration(e.cfg.Eval.BatchPauseSeconds) * time.Second

	for i, archive := range archives {
		notify(onProgress, models.ProgressEvent{
			Type: "progress", Index: i + 1, Total: total,
			TeamName: archive.TeamName, Stage: "evaluating",
		})
		log.Printf("Evaluating submission %d/%d: %s", i+1, total, archive.TeamName)

		reply, err := e.EvaluateArchive(ctx, archive.ZipPath, archive.TeamName, rubric)
		switch {
		case err != nil:
			results = append(results, models.TeamResult{
				TeamName: archive.TeamName,
				Score:    0,
				Summary:  fmt.Sprintf("Error: %v", err),
				Err:      err.Error(),
			})
		case !reply.Parsed():
			results = append(results, models.TeamResult{
				TeamName: archive.TeamName,
				Score:    0,
				Summary:  "Error: model output was not valid JSON",
				Err:      "invalid JSON: " + utils.TruncateRunes(reply.Raw, 200),
			})
		case reply.Result.Status == models.StatusInvalid:
			reason := reply.Result.Reason
			if reason == "" {
				reason = "Not a valid hackathon project"
			}
			invalid = append(invalid, models.TeamResult{
				TeamName: archive.TeamName,
				Summary:  reason,
				Details:  reply.Result,
			})
		default:
			summary := reply.Result.Summary
			if summary == "" {
				summary = "No summary"
			}
			results = append(results, models.TeamResult{
				TeamName: archive.TeamName,
				Score:    reply.Result.TotalScore,
				Summary:  summary,
				Details:  reply.Result,
			})
		}

		if i < total-1 && pause > 0 {
			time.Sleep(pause)
		}
	}

	notify(onProgress, models.ProgressEvent{Type: "done", Index: total, Total: total})
	return results, invalid
}

func notify(fn ProgressFunc, ev models.ProgressEvent) {
	if fn != nil {
		fn(ev)
	}
}
