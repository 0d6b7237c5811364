package detect

import (
	"strings"
	"testing"

	"github.com/dhowell/papermatch/internal/model"
)

func schemeSnapshot(entries ...model.SchemeEntry) *model.Snapshot {
	return &model.Snapshot{Schemes: entries}
}

func edexcelMatch(number string) *model.ExamPaperMatch {
	return &model.ExamPaperMatch{
		Board:          "Edexcel",
		Code:           "1MA1/1H",
		Series:         "June 2019",
		Qualification:  "GCSE Mathematics",
		QuestionNumber: number,
	}
}

func TestFindScheme_ExactKey(t *testing.T) {
	snap := schemeSnapshot(model.SchemeEntry{
		Board: "Edexcel", Code: "1MA1/1H", Series: "June 2019", QuestionKey: "4",
		Points: []model.MarkPoint{{Code: "M1", Value: 1}},
	})

	scheme, composite := findScheme(snap, edexcelMatch("4"))
	if scheme == nil {
		t.Fatal("no scheme resolved")
	}
	if composite {
		t.Error("composite = true for an exact key")
	}
}

// Papers with different codes never share schemes, regardless of how similar
// everything else is.
func TestFindScheme_CodeMismatchIsHardReject(t *testing.T) {
	snap := schemeSnapshot(model.SchemeEntry{
		Board: "Edexcel", Code: "1MA1/2H", Series: "June 2019", QuestionKey: "4",
		Points: []model.MarkPoint{{Code: "M1", Value: 1}},
	})

	if scheme, _ := findScheme(snap, edexcelMatch("4")); scheme != nil {
		t.Errorf("resolved a scheme across paper codes: %+v", scheme)
	}
}

func TestFindScheme_BoardMismatchRejected(t *testing.T) {
	snap := schemeSnapshot(model.SchemeEntry{
		Board: "AQA", Code: "1MA1/1H", Series: "June 2019", QuestionKey: "4",
		Points: []model.MarkPoint{{Code: "M1", Value: 1}},
	})

	if scheme, _ := findScheme(snap, edexcelMatch("4")); scheme != nil {
		t.Errorf("resolved a scheme from the wrong board: %+v", scheme)
	}
}

func TestFindScheme_MaySeriesFoldsToJune(t *testing.T) {
	snap := schemeSnapshot(model.SchemeEntry{
		Board: "Edexcel", Code: "1MA1/1H", Series: "May 2019", QuestionKey: "4",
		Points: []model.MarkPoint{{Code: "M1", Value: 1}},
	})

	if scheme, _ := findScheme(snap, edexcelMatch("4")); scheme == nil {
		t.Error("May/June series naming should resolve to the same scheme")
	}
}

func TestFindScheme_CompositeFromSiblings(t *testing.T) {
	snap := schemeSnapshot(
		model.SchemeEntry{
			Board: "Edexcel", Code: "1MA1/1H", Series: "June 2019", QuestionKey: "5b",
			Points:   []model.MarkPoint{{Code: "M1", Value: 1, Guidance: "substitutes correctly"}},
			Guidance: "accept equivalent forms",
		},
		model.SchemeEntry{
			Board: "Edexcel", Code: "1MA1/1H", Series: "June 2019", QuestionKey: "5a",
			Points: []model.MarkPoint{{Code: "B1", Value: 1, Answer: "y = 3"}},
		},
	)

	scheme, composite := findScheme(snap, edexcelMatch("5"))
	if scheme == nil {
		t.Fatal("no composite synthesized from sibling sub-parts")
	}
	if !composite {
		t.Error("composite flag not set")
	}
	if scheme.QuestionKey != "5" {
		t.Errorf("composite key = %q, want \"5\"", scheme.QuestionKey)
	}
	if len(scheme.Points) != 2 {
		t.Fatalf("composite points = %d, want 2", len(scheme.Points))
	}
	// Siblings ordered by part label, part labels prefixed.
	if scheme.Points[0].Answer != "(a) y = 3" {
		t.Errorf("first point answer = %q, want part-labelled \"(a) y = 3\"", scheme.Points[0].Answer)
	}
	if scheme.Points[1].Guidance != "(b) substitutes correctly" {
		t.Errorf("second point guidance = %q, want part-labelled", scheme.Points[1].Guidance)
	}
	if !strings.Contains(scheme.Guidance, "(b) accept equivalent forms") {
		t.Errorf("general guidance not carried over: %q", scheme.Guidance)
	}
}

// The original entries must not be mutated by composite synthesis.
func TestFindScheme_CompositeIsPure(t *testing.T) {
	entry := model.SchemeEntry{
		Board: "Edexcel", Code: "1MA1/1H", Series: "June 2019", QuestionKey: "5a",
		Points: []model.MarkPoint{{Code: "B1", Value: 1, Guidance: "plain"}},
	}
	snap := schemeSnapshot(entry)

	if scheme, _ := findScheme(snap, edexcelMatch("5")); scheme == nil {
		t.Fatal("no composite synthesized")
	}
	if snap.Schemes[0].Points[0].Guidance != "plain" {
		t.Errorf("composite synthesis mutated the source entry: %q", snap.Schemes[0].Points[0].Guidance)
	}
}
