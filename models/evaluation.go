package models

// Submission statuses reported by the model's validity pre-check.
const (
	StatusValid   = "Valid Submission"
	StatusInvalid = "Invalid Submission"
)

// Criterion is one scored rubric entry from the model's reply.
type Criterion struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// EvaluationResult is the structured outcome decoded from the model's reply.
// TotalScore is advertised on a 0-100 scale after normalization; the model is
// trusted, not validated, on the arithmetic.
type EvaluationResult struct {
	Status     string      `json:"status,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	Criteria   []Criterion `json:"criteria,omitempty"`
	TotalScore float64     `json:"total_score"`
	Summary    string      `json:"summary,omitempty"`
}

// ModelReply pairs a decode attempt with the raw reply text. Result is nil
// when no JSON object could be recovered; Raw is always the unmodified reply.
type ModelReply struct {
	Result *EvaluationResult `json:"result,omitempty"`
	Raw    string            `json:"raw"`
}

// Parsed reports whether a structured result was recovered.
func (r ModelReply) Parsed() bool {
	return r.Result != nil
}

// TeamResult is one submission's outcome inside a batch run. Err is set when
// processing failed before a result could be produced; such entries stay on
// the leaderboard with a zero score.
type TeamResult struct {
	TeamName string            `json:"teamName"`
	Score    float64           `json:"score"`
	Summary  string            `json:"summary"`
	Details  *EvaluationResult `json:"details,omitempty"`
	Err      string            `json:"error,omitempty"`
}

// LeaderboardEntry is one ranked row of the flat exportable table.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	TeamName string  `json:"teamName"`
	Score    float64 `json:"score"`
	Summary  string  `json:"summary"`
}
