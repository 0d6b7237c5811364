package similarity

import "strings"

// Options controls string normalization and matching.
type Options struct {
	// Strict disables the containment boost.
	Strict bool

	// StripNumerals removes decimal digits before comparing, so two
	// questions that differ only in their numbers still compare as equal.
	StripNumerals bool
}

// Normalized returns the similarity of two strings in [0,1]: 0.0 when
// either normalized string is shorter than two runes (even if the strings
// are equal), 1.0 on exact match after normalization, otherwise the bigram
// Dice coefficient. When not strict and both normalized strings exceed ten
// characters, a containment boost raises the score to at least 0.85 if one
// string contains the other.
func Normalized(a, b string, opts Options) float64 {
	na := normalize(a, opts.StripNumerals)
	nb := normalize(b, opts.StripNumerals)

	if na == nb {
		if len([]rune(na)) < 2 {
			return 0
		}
		return 1.0
	}
	if len([]rune(na)) < 2 || len([]rune(nb)) < 2 {
		return 0
	}

	score := dice(bigrams(na), bigrams(nb))

	if !opts.Strict && len(na) > 10 && len(nb) > 10 {
		if strings.Contains(na, nb) || strings.Contains(nb, na) {
			if score < 0.85 {
				score = 0.85
			}
		}
	}

	return score
}

// normalize case-folds, optionally strips digits, and collapses whitespace.
func normalize(s string, stripNumerals bool) string {
	s = strings.ToLower(s)
	if stripNumerals {
		s = strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return -1
			}
			return r
		}, s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// bigrams returns the multiset of adjacent rune pairs.
func bigrams(s string) map[string]int {
	runes := []rune(s)
	set := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])]++
	}
	return set
}

// dice computes the Dice coefficient over two bigram multisets:
// 2*|intersection| / (|a| + |b|).
func dice(a, b map[string]int) float64 {
	sizeA, sizeB, common := 0, 0, 0
	for _, n := range a {
		sizeA += n
	}
	for _, n := range b {
		sizeB += n
	}
	if sizeA+sizeB == 0 {
		return 0
	}
	for g, n := range a {
		if m, ok := b[g]; ok {
			if m < n {
				common += m
			} else {
				common += n
			}
		}
	}
	return 2 * float64(common) / float64(sizeA+sizeB)
}
