package corpus

import "testing"

func TestParseDocument_YAMLArrayShape(t *testing.T) {
	doc, err := parseDocument([]byte(`
papers:
  - board: Edexcel
    code: 1MA1/1H
    series: June 2019
    qualification: GCSE Mathematics
    questions:
      - number: 4
        text: Find the value of x when 2x+3=7
        total_marks: 2
        sub_questions:
          - label: a
            text: Write an equation
            marks: 1
          - label: b
            text: Solve it
            marks: 1
schemes:
  - board: Edexcel
    code: 1MA1/1H
    series: June 2019
    question: "4"
    points:
      - code: M1
        guidance: rearranges correctly
      - code: A1
        answer: x = 2
`), false)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}

	if len(doc.Papers) != 1 || len(doc.Schemes) != 1 {
		t.Fatalf("got %d papers, %d schemes, want 1 and 1", len(doc.Papers), len(doc.Schemes))
	}

	p := doc.Papers[0].normalize()
	if p.Questions[0].Number != "4" {
		t.Errorf("question number = %q, want int scalar coerced to \"4\"", p.Questions[0].Number)
	}
	if got := len(p.Questions[0].SubQuestions); got != 2 {
		t.Fatalf("sub-questions = %d, want 2", got)
	}
	if p.Questions[0].SubQuestions[0].Label != "a" {
		t.Errorf("first sub label = %q, want \"a\"", p.Questions[0].SubQuestions[0].Label)
	}

	s := doc.Schemes[0].normalize()
	if s.QuestionKey != "4" {
		t.Errorf("scheme key = %q, want \"4\"", s.QuestionKey)
	}
	if s.Points[0].Value != 1 {
		t.Errorf("M1 value = %d, want default 1", s.Points[0].Value)
	}
}

func TestParseDocument_YAMLMapShape(t *testing.T) {
	doc, err := parseDocument([]byte(`
papers:
  - exam_board: AQA
    paper_code: 8300/2H
    exam_series: June 2020
    subject: GCSE Mathematics
    questions:
      - question_number: "12"
        question_text: The diagram shows a prism
        sub_questions:
          a:
            question_text: Work out the volume
            marks: 3
          b:
            question_text: Work out the surface area
            marks: 4
`), false)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}

	p := doc.Papers[0].normalize()
	if p.Board != "AQA" || p.Code != "8300/2H" || p.Series != "June 2020" || p.Qualification != "GCSE Mathematics" {
		t.Errorf("alias fields not normalized: %+v", p)
	}

	q := p.Questions[0]
	if q.Number != "12" || q.Text != "The diagram shows a prism" {
		t.Errorf("question aliases not normalized: %+v", q)
	}
	if len(q.SubQuestions) != 2 {
		t.Fatalf("sub-questions = %d, want 2 from map shape", len(q.SubQuestions))
	}
	if q.SubQuestions[0].Label != "a" || q.SubQuestions[1].Label != "b" {
		t.Errorf("map labels = %q, %q, want a, b", q.SubQuestions[0].Label, q.SubQuestions[1].Label)
	}
	if q.SubQuestions[0].Marks != 3 {
		t.Errorf("sub marks = %d, want 3", q.SubQuestions[0].Marks)
	}
}

func TestParseDocument_JSONShapes(t *testing.T) {
	doc, err := parseDocument([]byte(`{
		"papers": [{
			"examBoard": "OCR",
			"paperCode": "J560/04",
			"examSeries": "November 2021",
			"subject": "GCSE Mathematics",
			"questions": [{
				"number": 7,
				"text": "A bag contains counters",
				"subQuestions": {
					"b": {"text": "second part", "marks": "2"},
					"a": {"text": "first part", "marks": 1}
				}
			}]
		}]
	}`), true)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}

	q := doc.Papers[0].normalize().Questions[0]
	if q.Number != "7" {
		t.Errorf("numeric JSON number = %q, want \"7\"", q.Number)
	}
	if len(q.SubQuestions) != 2 {
		t.Fatalf("sub-questions = %d, want 2", len(q.SubQuestions))
	}
	// Map-shaped JSON carries no order; labels come back sorted.
	if q.SubQuestions[0].Label != "a" || q.SubQuestions[1].Label != "b" {
		t.Errorf("labels = %q, %q, want sorted a, b", q.SubQuestions[0].Label, q.SubQuestions[1].Label)
	}
	if q.SubQuestions[1].Marks != 2 {
		t.Errorf("string-int marks = %d, want 2", q.SubQuestions[1].Marks)
	}
}

func TestParseDocument_NestedParts(t *testing.T) {
	doc, err := parseDocument([]byte(`
papers:
  - board: Edexcel
    code: 1MA1/2F
    series: June 2018
    qualification: GCSE Mathematics
    questions:
      - number: "3"
        text: Shape question
        parts:
          - part: a
            text: outer part
            parts:
              - part: i
                text: inner part
                marks: 2
`), false)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}

	q := doc.Papers[0].normalize().Questions[0]
	if len(q.SubQuestions) != 1 {
		t.Fatalf("parts alias not picked up: %+v", q)
	}
	inner := q.SubQuestions[0].SubQuestions
	if len(inner) != 1 || inner[0].Label != "i" || inner[0].Marks != 2 {
		t.Errorf("nested parts = %+v, want one part i with 2 marks", inner)
	}
}
