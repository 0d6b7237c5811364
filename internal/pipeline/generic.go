package pipeline

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/dhowell/papermatch/internal/model"
)

// defaultRubricSize is the per-family point count when no max mark can be
// parsed from the query text.
const defaultRubricSize = 10

// rubricHeadroom is added to a parsed max mark so the rubric always has
// spare points beyond the question's stated total.
const rubricHeadroom = 3

var markPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(\s*total\s+for\s+question\s+\d+\s+is\s+(\d+)\s+marks?\s*\)`),
	regexp.MustCompile(`(?i)\(\s*total\s+(\d+)\s+marks?\s*\)`),
	regexp.MustCompile(`(?i)\[\s*(\d+)\s+marks?\s*\]`),
	regexp.MustCompile(`(?i)\(\s*(\d+)\s+marks?\s*\)`),
}

// estimateMaxMark parses a question's stated total from phrases like
// "(Total for Question 1 is 5 marks)" or "[3 marks]".
func estimateMaxMark(text string) (int, bool) {
	for _, pattern := range markPhrasePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

var genericFamilies = []struct {
	code     string
	guidance string
	zero     string
}{
	{"M", "Method: correct approach or process toward the answer", "Method: no creditable approach shown"},
	{"A", "Accuracy: correct value or result from a valid method", "Accuracy: no correct value obtained"},
	{"B", "Independent: correct statement or value, independent of method", "Independent: no correct independent statement"},
}

// genericRubric synthesizes the fallback marking rubric: sequential
// M1..Mn, A1..An, B1..Bn points plus the fixed zero-point variants
// M0/A0/B0. Once synthesized for a group the rubric is never altered.
func genericRubric(maxMark int, haveEstimate bool) []model.MarkPoint {
	count := defaultRubricSize
	if haveEstimate {
		count = maxMark + rubricHeadroom
	}

	points := make([]model.MarkPoint, 0, len(genericFamilies)*(count+1))
	for _, family := range genericFamilies {
		for i := 1; i <= count; i++ {
			points = append(points, model.MarkPoint{
				Code:     fmt.Sprintf("%s%d", family.code, i),
				Value:    1,
				Guidance: family.guidance,
			})
		}
	}
	for _, family := range genericFamilies {
		points = append(points, model.MarkPoint{
			Code:     family.code + "0",
			Value:    0,
			Guidance: family.zero,
		})
	}
	return points
}

// genericResult builds the virtual match for a group no corpus entry could
// be found for, so grading always has a scheme to work from.
func genericResult(g *group) *model.DetectionResult {
	maxMark, ok := estimateMaxMark(g.anchor)

	questionNumber := g.base
	if questionNumber == generalGroup {
		questionNumber = "1"
	}

	totalMarks := maxMark
	if !ok {
		totalMarks = defaultRubricSize
	}

	return &model.DetectionResult{
		Found: true,
		Match: &model.ExamPaperMatch{
			Board:          "Unknown",
			Code:           "Generic Question",
			Series:         "Unknown",
			Qualification:  "Unknown",
			QuestionNumber: questionNumber,
			TotalMarks:     totalMarks,
			IsGeneric:      true,
			Scheme: &model.SchemeEntry{
				Board:       "Unknown",
				Code:        "Generic Question",
				Series:      "Unknown",
				QuestionKey: questionNumber,
				Points:      genericRubric(maxMark, ok),
			},
		},
	}
}
