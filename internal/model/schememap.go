package model

// SchemeMapEntry is the final per-group output handed to the downstream
// prompt-construction component. Exactly one entry per detected group.
type SchemeMapEntry struct {
	GroupKey       string `json:"group_key"` // base_board_code
	QuestionNumber string `json:"question_number"`

	// Points is the flat merged mark-point list. SubPoints carries the
	// per-part shape for composite and generic schemes.
	Points    []MarkPoint            `json:"points,omitempty"`
	SubPoints map[string][]MarkPoint `json:"sub_points,omitempty"`

	TotalMarks  int              `json:"total_marks"`
	Result      *DetectionResult `json:"result,omitempty"`
	IsGeneric   bool             `json:"is_generic,omitempty"`
	IsComposite bool             `json:"is_composite,omitempty"`
	Guidance    string           `json:"guidance,omitempty"`

	// GuidanceNote is the optional condensed examiner note produced by the
	// LLM condenser. Never consulted by detection or merging.
	GuidanceNote string `json:"guidance_note,omitempty"`
}

// DetectionStatistics summarizes one submission's detection pass. Used for
// logging and telemetry only, never for control flow.
type DetectionStatistics struct {
	Total         int `json:"total"`
	Detected      int `json:"detected"`
	NotDetected   int `json:"not_detected"`
	WithScheme    int `json:"with_scheme"`
	WithoutScheme int `json:"without_scheme"`

	// SimilarityHistogram buckets detected-match confidences, e.g.
	// "0.8-1.0" -> 3.
	SimilarityHistogram map[string]int `json:"similarity_histogram,omitempty"`

	// Hint diagnostics.
	HintSupplied      bool     `json:"hint_supplied,omitempty"`
	HintDiscarded     bool     `json:"hint_discarded,omitempty"`     // adherence rescue re-ran without the hint
	HintPapersMatched int      `json:"hint_papers_matched,omitempty"` // distinct papers matched while the hint applied
	ThresholdRelaxed  bool     `json:"threshold_relaxed,omitempty"`
	ConsensusPaper    string   `json:"consensus_paper,omitempty"`
	RescuedQuestions  []string `json:"rescued_questions,omitempty"`
}
