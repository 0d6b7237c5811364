package pipeline

import (
	"strings"
	"testing"
)

func TestEstimateMaxMark(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
		ok   bool
	}{
		{"total for question", "Work out the value of x. (Total for Question 1 is 5 marks)", 5, true},
		{"bare total", "Explain your answer. (Total 8 marks)", 8, true},
		{"square brackets", "State one advantage. [3 marks]", 3, true},
		{"plain parens", "Give a reason. (2 marks)", 2, true},
		{"singular mark", "Name the process. [1 mark]", 1, true},
		{"no phrase", "Describe the trend shown in the graph.", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := estimateMaxMark(tc.text)
			if got != tc.want || ok != tc.ok {
				t.Errorf("estimateMaxMark(%q) = %d, %v; want %d, %v", tc.text, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestGenericRubricWithEstimate(t *testing.T) {
	points := genericRubric(5, true)

	// 3 families of (5+3) scored points plus the 3 zero variants.
	if len(points) != 27 {
		t.Fatalf("rubric has %d points, want 27", len(points))
	}

	codes := make(map[string]int)
	for _, p := range points {
		codes[p.Code] = p.Value
	}
	for _, code := range []string{"M1", "M8", "A1", "A8", "B1", "B8"} {
		if v, ok := codes[code]; !ok || v != 1 {
			t.Errorf("point %s missing or wrong value %d", code, v)
		}
	}
	for _, code := range []string{"M0", "A0", "B0"} {
		if v, ok := codes[code]; !ok || v != 0 {
			t.Errorf("zero point %s missing or wrong value %d", code, v)
		}
	}
	if _, ok := codes["M9"]; ok {
		t.Error("rubric overshoots the estimated size")
	}
}

func TestGenericRubricDefaultSize(t *testing.T) {
	points := genericRubric(0, false)
	if len(points) != 33 {
		t.Fatalf("default rubric has %d points, want 33", len(points))
	}
}

func TestGenericResult(t *testing.T) {
	g := group{base: "3", anchor: "Work out the area of the triangle. (Total for Question 3 is 4 marks)"}
	res := genericResult(&g)

	if !res.Found || res.Match == nil {
		t.Fatal("generic result must carry a virtual match")
	}
	m := res.Match
	if !m.IsGeneric {
		t.Error("virtual match not flagged generic")
	}
	if m.Board != "Unknown" || m.Code != "Generic Question" {
		t.Errorf("virtual paper = %s/%s", m.Board, m.Code)
	}
	if m.QuestionNumber != "3" {
		t.Errorf("question number = %q, want 3", m.QuestionNumber)
	}
	if m.TotalMarks != 4 {
		t.Errorf("total marks = %d, want the parsed 4", m.TotalMarks)
	}
	if m.Scheme == nil || len(m.Scheme.Points) != 24 {
		t.Fatalf("embedded rubric wrong: %+v", m.Scheme)
	}
	for _, p := range m.Scheme.Points {
		if p.Guidance == "" {
			t.Errorf("point %s has no guidance", p.Code)
		}
	}
}

func TestGenericResultGeneralGroup(t *testing.T) {
	g := group{base: generalGroup, anchor: "some unnumbered working"}
	res := genericResult(&g)

	if res.Match.QuestionNumber != "1" {
		t.Errorf("general group question number = %q, want 1", res.Match.QuestionNumber)
	}
	if res.Match.TotalMarks != defaultRubricSize {
		t.Errorf("total marks = %d, want %d", res.Match.TotalMarks, defaultRubricSize)
	}
	if strings.Contains(res.Match.Code, "Unknown") {
		t.Errorf("code should be the generic marker, got %q", res.Match.Code)
	}
}
