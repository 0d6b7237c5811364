package model

// Fragment is one extracted piece of student work, produced by the upstream
// OCR/classification stage. Read-only input to this engine.
type Fragment struct {
	NumberHint   string `json:"number_hint,omitempty" yaml:"number_hint"` // e.g. "4", "12a", may be noisy
	QuestionText string `json:"question_text" yaml:"question_text"`
	StudentWork  string `json:"student_work,omitempty" yaml:"student_work"`
	Page         int    `json:"page" yaml:"page"` // source-page index
}

// Submission is the full set of fragments extracted from one piece of
// scanned work, plus an optional externally supplied paper hint.
type Submission struct {
	Fragments []Fragment `json:"fragments" yaml:"fragments"`
	PaperHint string     `json:"paper_hint,omitempty" yaml:"paper_hint"`
}
