package detect

import (
	"strings"

	"github.com/dhowell/papermatch/internal/model"
)

// sanitizeNumberHint cleans an OCR-derived question-number hint: trims
// punctuation and whitespace and repairs the common misread of a bare "l"
// (or "I") for "1".
func sanitizeNumberHint(hint string) string {
	hint = strings.TrimSpace(hint)
	hint = strings.Trim(hint, ".()[] ")
	if hint == "l" || hint == "I" {
		return "1"
	}
	if strings.HasPrefix(hint, "l") || strings.HasPrefix(hint, "I") {
		// "l2" for "12", "la" for "1a".
		hint = "1" + hint[1:]
	}
	return hint
}

// baseNumber extracts the leading digit run of a question identifier:
// "12a" -> "12", "4" -> "4", "General" -> "".
func baseNumber(number string) string {
	end := 0
	for end < len(number) && number[end] >= '0' && number[end] <= '9' {
		end++
	}
	return number[:end]
}

// subLabel returns whatever follows the leading digit run: "12a" -> "a".
func subLabel(number string) string {
	return number[len(baseNumber(number)):]
}

// normalizeSeries folds the "May" exam-series naming onto "June"; boards use
// both for the summer series.
func normalizeSeries(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "may", "june")
}

// narrowPool filters papers to those whose metadata contains every keyword
// of the free-text paper hint. A hint that matches nothing (or no hint at
// all) widens back to the full corpus — a deep search is always preferable
// to an empty pool. The second return reports whether the hint actually
// narrowed the pool.
func narrowPool(papers []model.Paper, paperHint string) ([]model.Paper, bool) {
	hint := strings.TrimSpace(paperHint)
	if hint == "" {
		return papers, false
	}

	keywords := strings.Fields(normalizeSeries(hint))
	var pool []model.Paper
	for _, p := range papers {
		meta := normalizeSeries(p.Metadata())
		matched := true
		for _, kw := range keywords {
			if !strings.Contains(meta, kw) {
				matched = false
				break
			}
		}
		if matched {
			pool = append(pool, p)
		}
	}

	if len(pool) == 0 {
		return papers, false
	}
	return pool, true
}
