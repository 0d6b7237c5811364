package similarity

import "strings"

// latexWords maps LaTeX command names to the semantic word they stand for,
// so OCR'd maths notation contributes real keywords instead of noise.
var latexWords = map[string]string{
	`\frac`:    "fraction",
	`\sqrt`:    "root",
	`\int`:     "integral",
	`\sum`:     "sum",
	`\prod`:    "product",
	`\lim`:     "limit",
	`\sin`:     "sine",
	`\cos`:     "cosine",
	`\tan`:     "tangent",
	`\log`:     "logarithm",
	`\ln`:      "logarithm",
	`\pi`:      "pi",
	`\theta`:   "angle",
	`\alpha`:   "alpha",
	`\beta`:    "beta",
	`\times`:   "multiply",
	`\div`:     "divide",
	`\pm`:      "plusminus",
	`\angle`:   "angle",
	`\triangle`: "triangle",
	`\vec`:     "vector",
	`\binom`:   "binomial",
	`\infty`:   "infinity",
}

// stopwords are tokens too common in exam text to carry signal.
var stopwords = map[string]struct{}{
	"answer": {}, "below": {}, "between": {}, "calculate": {}, "complete": {},
	"correct": {}, "describe": {}, "diagram": {}, "down": {}, "each": {},
	"explain": {}, "figure": {}, "find": {}, "following": {}, "from": {},
	"give": {}, "given": {}, "hence": {}, "marks": {}, "must": {},
	"number": {}, "question": {}, "reason": {}, "show": {}, "shown": {},
	"solve": {}, "state": {}, "that": {}, "this": {}, "total": {},
	"using": {}, "value": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "with": {}, "work": {}, "working": {}, "write": {},
	"your": {},
}

// Keywords extracts the semantic token set of a piece of question text:
// lowercase, LaTeX commands mapped to words, punctuation stripped, tokens of
// length <= 3 and stopwords discarded.
func Keywords(text string) map[string]struct{} {
	s := strings.ToLower(text)

	for cmd, word := range latexWords {
		s = strings.ReplaceAll(s, cmd, " "+word+" ")
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, s)

	keywords := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		if len(tok) <= 3 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		keywords[tok] = struct{}{}
	}
	return keywords
}

// keywordsIntersect reports whether two keyword sets share a token.
func keywordsIntersect(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for tok := range a {
		if _, ok := b[tok]; ok {
			return true
		}
	}
	return false
}
