package similarity

import (
	"regexp"

	"github.com/dhowell/papermatch/internal/model"
)

// Mode selects which hybrid-score formula applies.
type Mode int

const (
	// ModeZone is the lenient formula used for locating the rough region a
	// fragment belongs to.
	ModeZone Mode = iota

	// ModeQuestion is the strict question-identity formula. It penalizes
	// candidates that only share numbers with the query, so a question is
	// never carried by numeric coincidence alone.
	ModeQuestion
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Hybrid scores a query against one candidate text. It combines three
// independent signals: normalized text similarity, numeric-fingerprint
// overlap, and keyword-set agreement. rescue relaxes the question-mode
// penalty when the search pool has already been narrowed to almost nothing.
func Hybrid(query, candidate string, mode Mode, rescue bool) model.ScoreBreakdown {
	text := Normalized(query, candidate, Options{})
	numeric := numericOverlap(query, candidate, mode)
	semantic := semanticAgreement(query, candidate)

	var total float64
	switch mode {
	case ModeZone:
		textWeight, numWeight := 0.6, 0.4
		if semantic && text > 0.4 {
			textWeight, numWeight = 0.7, 0.3
		}
		total = textWeight*text + numWeight*numeric
	default: // ModeQuestion
		total = 0.7*text + 0.3*numeric
		// Shared numbers with an unrelated question must not look like a
		// match, so failing the semantic check without strong text evidence
		// costs 80% of the score.
		if !rescue && !semantic && text < 0.8 {
			total *= 0.2
		}
	}

	return model.ScoreBreakdown{
		Text:     text,
		Numeric:  numeric,
		Semantic: semantic,
		Hybrid:   total,
		Total:    total,
	}
}

// numericOverlap compares the decimal numbers appearing on each side.
func numericOverlap(query, candidate string, mode Mode) float64 {
	qNums := numberSet(query)
	cNums := numberSet(candidate)

	switch {
	case len(qNums) == 0 && len(cNums) == 0:
		// No numbers anywhere: perfectly consistent in zone mode, only
		// weakly informative when establishing question identity.
		if mode == ModeZone {
			return 1.0
		}
		return 0.5
	case len(qNums) == 0 || len(cNums) == 0:
		return 0
	}

	common := 0
	for n := range qNums {
		if _, ok := cNums[n]; ok {
			common++
		}
	}

	if mode == ModeZone {
		denom := len(qNums)
		if len(cNums) > denom {
			denom = len(cNums)
		}
		return float64(common) / float64(denom)
	}
	return float64(common) / float64(len(cNums))
}

func numberSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, n := range numberPattern.FindAllString(s, -1) {
		set[n] = struct{}{}
	}
	return set
}

// semanticAgreement passes when either side has too few keywords to judge,
// or the two keyword sets share a token.
func semanticAgreement(query, candidate string) bool {
	qKeys := Keywords(query)
	cKeys := Keywords(candidate)
	if len(qKeys) < 2 || len(cKeys) < 2 {
		return true
	}
	return keywordsIntersect(qKeys, cKeys)
}
