package services

import (
	"fmt"

	"evalhub/utils"
)

const evaluationPromptFormat = `You are an impartial AI evaluator for hackathon submissions.

Follow these guidelines before scoring:
1. Relevance Filter - Evaluate only if the content clearly represents a hackathon project (code, model, architecture, documentation, or demo).
2. Authenticity Check - Ignore resumes, certificates, or unrelated academic text.
3. Technical Substance - Evaluate only if it shows code, logic, or architecture for a real problem statement.
4. Evaluation Readiness - If not valid, output:
{
  "status": "Invalid Submission",
  "reason": "Submission does not appear to contain a hackathon solution or technical content."
}

If valid, evaluate it strictly according to this rubric:
%s

Submission:
%s

Return output strictly in JSON format:
{
  "status": "Valid Submission",
  "criteria": [
    {"name": "<criterion name from the rubric>", "score": <number>, "reason": "<why>"}
  ],
  "total_score": <sum_out_of_100>,
  "summary": "<1-2 line justification>"
}
Provide ONLY the JSON output without additional text or markdown formatting.`

// ComposeEvaluationPrompt builds the evaluation prompt: evaluator role and
// validity guidelines, the rubric verbatim, and the submission text truncated
// to charBudget. Truncation is a hard cutoff with no summarization.
func ComposeEvaluationPrompt(rubric, submissionText string, charBudget int) string {
	return fmt.Sprintf(evaluationPromptFormat, rubric, utils.TruncateRunes(submissionText, charBudget))
}

const summaryPromptFormat = `Please summarize this document based on the key topics and insights.
Use only the following excerpts from the document:

%s

Provide a concise summary covering the main points.`

// ComposeSummaryPrompt builds the RAG summarization prompt from retrieved
// document excerpts.
func ComposeSummaryPrompt(excerpts []string) string {
	var context string
	for i, e := range excerpts {
		context += fmt.Sprintf("[Excerpt %d]\n%s\n\n", i+1, e)
	}
	return fmt.Sprintf(summaryPromptFormat, context)
}
