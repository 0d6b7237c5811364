package model

// ScoreBreakdown carries the independent signals behind one candidate score,
// kept transparent so diagnostics can show exactly why a candidate won or
// lost.
type ScoreBreakdown struct {
	Text       float64 `json:"text"`       // normalized string similarity
	Numeric    float64 `json:"numeric"`    // numeric-fingerprint overlap
	Semantic   bool    `json:"semantic"`   // keyword-set agreement
	Structural float64 `json:"structural"` // question-number agreement (0, 0.5 or 1)
	Hybrid     float64 `json:"hybrid"`     // weighted text/numeric total
	Total      float64 `json:"total"`      // final blended score used for ranking
}

// CandidateAudit is one entry in a detection result's audit trail: a
// candidate that was scored, with its full breakdown.
type CandidateAudit struct {
	Board          string         `json:"board"`
	Code           string         `json:"code"`
	Series         string         `json:"series,omitempty"`
	QuestionNumber string         `json:"question_number"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
}

// ExamPaperMatch is an accepted candidate, denormalized with everything a
// downstream consumer needs without going back to the corpus.
type ExamPaperMatch struct {
	Board          string `json:"board"`
	Code           string `json:"code"`
	Series         string `json:"series"`
	Tier           string `json:"tier,omitempty"`
	Qualification  string `json:"qualification,omitempty"`
	Title          string `json:"title,omitempty"`
	QuestionNumber string `json:"question_number"`
	TotalMarks     int    `json:"total_marks,omitempty"`

	// SubMarks and SubTexts flatten the matched question's nested parts into
	// label -> value maps ("a", "ai", "b", ...).
	SubMarks map[string]int    `json:"sub_marks,omitempty"`
	SubTexts map[string]string `json:"sub_texts,omitempty"`

	Confidence       float64 `json:"confidence"`
	IsWeakMatch      bool    `json:"is_weak_match,omitempty"`      // accepted below 0.7
	ThresholdRelaxed bool    `json:"threshold_relaxed,omitempty"`  // accepted below the strict threshold
	IsGeneric        bool    `json:"is_generic,omitempty"`         // synthesized fallback, not a corpus match

	Scheme          *SchemeEntry `json:"scheme,omitempty"`
	SchemeComposite bool         `json:"scheme_composite,omitempty"` // scheme assembled from sibling sub-parts
}

// PaperKey identifies the matched paper for consensus voting.
func (m ExamPaperMatch) PaperKey() string {
	return m.Board + "|" + m.Code
}

// DetectionResult is the outcome of detecting one question group. A miss is
// a data outcome (Found=false), never an error.
type DetectionResult struct {
	Found bool            `json:"found"`
	Match *ExamPaperMatch `json:"match,omitempty"`

	// Diagnostics.
	HintUsed   string           `json:"hint_used,omitempty"`   // paper hint actually applied, if any
	NumberHint string           `json:"number_hint,omitempty"` // sanitized question-number hint
	PoolSize   int              `json:"pool_size"`             // papers scored after hint narrowing
	RescueMode bool             `json:"rescue_mode,omitempty"` // relaxed thresholds were in effect
	Audit      []CandidateAudit `json:"audit,omitempty"`       // top candidates with breakdowns
}
