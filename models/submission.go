package models

// File categories used in extraction markers.
const (
	CategoryCode     = "CODE"
	CategoryDocument = "DOCUMENT"
	CategorySlides   = "SLIDES"
	CategoryVideo    = "VIDEO"
	CategorySkipped  = "SKIPPED"
	CategoryError    = "ERROR"
)

// FileBlock is one file's contribution to the extracted submission text.
// Category is empty for plain notes (.txt/.md), matching the marker format
// [FILE: name] without a category suffix.
type FileBlock struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Text     string `json:"text"`
}

// Submission is one uploaded bundle, alive only for the duration of a run.
type Submission struct {
	TeamName    string      `json:"teamName"`
	ArchiveName string      `json:"archiveName"`
	Files       []FileBlock `json:"files,omitempty"`
}

// ProgressEvent describes one step of a batch evaluation run.
type ProgressEvent struct {
	Type     string `json:"type"`
	RunID    string `json:"runId"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	TeamName string `json:"teamName,omitempty"`
	Stage    string `json:"stage,omitempty"`
}
