package model

import "time"

// Snapshot is one immutable view of the reference corpus: every known past
// paper plus every marking-scheme entry. Snapshots are produced by a corpus
// source, validated once at load time, and never mutated afterwards.
type Snapshot struct {
	Papers   []Paper       `json:"papers"`
	Schemes  []SchemeEntry `json:"schemes"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// Paper is one past exam paper.
type Paper struct {
	Board         string     `json:"board"`                   // e.g. "Edexcel"
	Code          string     `json:"code"`                    // e.g. "1MA1/1H"
	Series        string     `json:"series"`                  // e.g. "June 2019"
	Tier          string     `json:"tier,omitempty"`          // e.g. "Higher"
	Qualification string     `json:"qualification,omitempty"` // e.g. "GCSE Mathematics"
	Title         string     `json:"title,omitempty"`
	Questions     []Question `json:"questions"`
}

// Metadata returns the concatenated descriptive fields used for free-text
// paper-hint filtering.
func (p Paper) Metadata() string {
	return p.Board + " " + p.Code + " " + p.Series + " " + p.Tier + " " + p.Qualification + " " + p.Title
}

// Key identifies the paper for consensus voting and output-map keys.
func (p Paper) Key() string {
	return p.Board + "|" + p.Code
}

// Question is one top-level question on a paper.
type Question struct {
	Number       string        `json:"number"` // may carry letters, e.g. "12"
	Text         string        `json:"text"`
	TotalMarks   int           `json:"total_marks,omitempty"`
	SubQuestions []SubQuestion `json:"sub_questions,omitempty"`
}

// SubQuestion is one part of a question. Parts may nest (e.g. "a" -> "i").
type SubQuestion struct {
	Label        string        `json:"label"` // "a", "i", ...
	Text         string        `json:"text"`
	Marks        int           `json:"marks,omitempty"`
	SubQuestions []SubQuestion `json:"sub_questions,omitempty"`
}
