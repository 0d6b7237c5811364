package model

// MarkPoint is one awardable point in an official marking scheme.
type MarkPoint struct {
	Code     string `json:"code"`  // "M1", "A1", "B1", ... ("M0" etc for the zero variants)
	Value    int    `json:"value"` // marks awarded by this point
	Guidance string `json:"guidance,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// SchemeEntry is the official marking scheme for one question or
// sub-question, keyed by exam details plus a flat question key ("2", "2a").
type SchemeEntry struct {
	Board       string      `json:"board"`
	Code        string      `json:"code"`
	Series      string      `json:"series"`
	Tier        string      `json:"tier,omitempty"`
	QuestionKey string      `json:"question_key"`
	Points      []MarkPoint `json:"points"`
	Guidance    string      `json:"guidance,omitempty"`     // free-text general guidance
	AltPoints   []MarkPoint `json:"alt_points,omitempty"`   // alternative-method variant
}

// TotalMarks sums the point values of the primary mark points.
func (e SchemeEntry) TotalMarks() int {
	total := 0
	for _, p := range e.Points {
		total += p.Value
	}
	return total
}
