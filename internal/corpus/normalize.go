package corpus

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhowell/papermatch/internal/model"
)

// The corpus has accumulated several document generations: field aliases
// (board vs exam_board, code vs paper_code), sub-questions stored either as
// arrays or as label-keyed maps, and numbers serialized as strings or ints.
// All of that is resolved here, once, at load time. Everything downstream
// assumes the canonical model shapes.

type rawDocument struct {
	Papers  []rawPaper  `yaml:"papers" json:"papers"`
	Schemes []rawScheme `yaml:"schemes" json:"schemes"`
}

type rawPaper struct {
	Board         string        `yaml:"board" json:"board"`
	ExamBoard     string        `yaml:"exam_board" json:"examBoard"`
	Code          string        `yaml:"code" json:"code"`
	PaperCode     string        `yaml:"paper_code" json:"paperCode"`
	Series        string        `yaml:"series" json:"series"`
	ExamSeries    string        `yaml:"exam_series" json:"examSeries"`
	Tier          string        `yaml:"tier" json:"tier"`
	Qualification string        `yaml:"qualification" json:"qualification"`
	Subject       string        `yaml:"subject" json:"subject"`
	Title         string        `yaml:"title" json:"title"`
	Questions     []rawQuestion `yaml:"questions" json:"questions"`
}

type rawQuestion struct {
	Number         flexString `yaml:"number" json:"number"`
	QuestionNumber flexString `yaml:"question_number" json:"questionNumber"`
	Text           string     `yaml:"text" json:"text"`
	QuestionText   string     `yaml:"question_text" json:"questionText"`
	Marks          flexInt    `yaml:"marks" json:"marks"`
	TotalMarks     flexInt    `yaml:"total_marks" json:"totalMarks"`
	SubQuestions   rawSubList `yaml:"sub_questions" json:"subQuestions"`
	Parts          rawSubList `yaml:"parts" json:"parts"`
}

type rawSub struct {
	Label        flexString `yaml:"label" json:"label"`
	Part         flexString `yaml:"part" json:"part"`
	Text         string     `yaml:"text" json:"text"`
	QuestionText string     `yaml:"question_text" json:"questionText"`
	Marks        flexInt    `yaml:"marks" json:"marks"`
	SubQuestions rawSubList `yaml:"sub_questions" json:"subQuestions"`
	Parts        rawSubList `yaml:"parts" json:"parts"`
}

type rawScheme struct {
	Board       string    `yaml:"board" json:"board"`
	ExamBoard   string    `yaml:"exam_board" json:"examBoard"`
	Code        string    `yaml:"code" json:"code"`
	PaperCode   string    `yaml:"paper_code" json:"paperCode"`
	Series      string    `yaml:"series" json:"series"`
	ExamSeries  string    `yaml:"exam_series" json:"examSeries"`
	Tier        string    `yaml:"tier" json:"tier"`
	QuestionKey flexString `yaml:"question" json:"question"`
	Key         flexString `yaml:"key" json:"key"`
	Points      []rawMark `yaml:"points" json:"points"`
	Marks       []rawMark `yaml:"marks" json:"marks"`
	Guidance    string    `yaml:"guidance" json:"guidance"`
	General     string    `yaml:"general_guidance" json:"generalGuidance"`
	AltPoints   []rawMark `yaml:"alt_points" json:"altPoints"`
	Alt         []rawMark `yaml:"alt" json:"alt"`
}

type rawMark struct {
	Code     string  `yaml:"code" json:"code"`
	Mark     string  `yaml:"mark" json:"mark"`
	Value    flexInt `yaml:"value" json:"value"`
	Guidance string  `yaml:"guidance" json:"guidance"`
	Notes    string  `yaml:"notes" json:"notes"`
	Answer   string  `yaml:"answer" json:"answer"`
}

// flexString accepts scalars serialized as strings or numbers ("4" vs 4).
type flexString string

func (s *flexString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar, got %v", node.Kind)
	}
	*s = flexString(node.Value)
	return nil
}

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexInt accepts ints serialized as numbers or strings (3 vs "3").
type flexInt int

func (i *flexInt) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" || strings.TrimSpace(node.Value) == "" {
		*i = 0
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("expected integer, got %q", node.Value)
	}
	*i = flexInt(v)
	return nil
}

func (i *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", data)
	}
	*i = flexInt(v)
	return nil
}

// rawSubList accepts sub-questions as either a sequence of parts or a
// label-keyed map. Map-shaped documents carry no order, so their labels are
// sorted to keep ingestion deterministic.
type rawSubList []rawSub

func (l *rawSubList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var subs []rawSub
		if err := node.Decode(&subs); err != nil {
			return err
		}
		*l = subs
		return nil
	case yaml.MappingNode:
		var subs []rawSub
		for i := 0; i+1 < len(node.Content); i += 2 {
			var sub rawSub
			if err := node.Content[i+1].Decode(&sub); err != nil {
				return err
			}
			sub.Label = flexString(node.Content[i].Value)
			subs = append(subs, sub)
		}
		*l = subs
		return nil
	default:
		return fmt.Errorf("sub-questions must be a sequence or a map, got %v", node.Kind)
	}
}

func (l *rawSubList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		return nil
	}
	if trimmed[0] == '[' {
		var subs []rawSub
		if err := json.Unmarshal(data, &subs); err != nil {
			return err
		}
		*l = subs
		return nil
	}

	var byLabel map[string]rawSub
	if err := json.Unmarshal(data, &byLabel); err != nil {
		return err
	}
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	subs := make([]rawSub, 0, len(labels))
	for _, label := range labels {
		sub := byLabel[label]
		sub.Label = flexString(label)
		subs = append(subs, sub)
	}
	*l = subs
	return nil
}

// parseDocument decodes one corpus document in YAML or JSON form.
func parseDocument(data []byte, isJSON bool) (*rawDocument, error) {
	var doc rawDocument
	if isJSON {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode corpus document: %w", err)
		}
		return &doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode corpus document: %w", err)
	}
	return &doc, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (p rawPaper) normalize() model.Paper {
	questions := make([]model.Question, 0, len(p.Questions))
	for _, q := range p.Questions {
		questions = append(questions, q.normalize())
	}
	return model.Paper{
		Board:         firstOf(p.Board, p.ExamBoard),
		Code:          firstOf(p.Code, p.PaperCode),
		Series:        firstOf(p.Series, p.ExamSeries),
		Tier:          p.Tier,
		Qualification: firstOf(p.Qualification, p.Subject),
		Title:         p.Title,
		Questions:     questions,
	}
}

func (q rawQuestion) normalize() model.Question {
	subs := q.SubQuestions
	if len(subs) == 0 {
		subs = q.Parts
	}
	marks := int(q.TotalMarks)
	if marks == 0 {
		marks = int(q.Marks)
	}
	return model.Question{
		Number:       firstOf(string(q.Number), string(q.QuestionNumber)),
		Text:         firstOf(q.Text, q.QuestionText),
		TotalMarks:   marks,
		SubQuestions: normalizeSubs(subs),
	}
}

func normalizeSubs(subs rawSubList) []model.SubQuestion {
	if len(subs) == 0 {
		return nil
	}
	out := make([]model.SubQuestion, 0, len(subs))
	for _, s := range subs {
		nested := s.SubQuestions
		if len(nested) == 0 {
			nested = s.Parts
		}
		out = append(out, model.SubQuestion{
			Label:        firstOf(string(s.Label), string(s.Part)),
			Text:         firstOf(s.Text, s.QuestionText),
			Marks:        int(s.Marks),
			SubQuestions: normalizeSubs(nested),
		})
	}
	return out
}

func (s rawScheme) normalize() model.SchemeEntry {
	points := s.Points
	if len(points) == 0 {
		points = s.Marks
	}
	alt := s.AltPoints
	if len(alt) == 0 {
		alt = s.Alt
	}
	return model.SchemeEntry{
		Board:       firstOf(s.Board, s.ExamBoard),
		Code:        firstOf(s.Code, s.PaperCode),
		Series:      firstOf(s.Series, s.ExamSeries),
		Tier:        s.Tier,
		QuestionKey: firstOf(string(s.QuestionKey), string(s.Key)),
		Points:      normalizeMarks(points),
		Guidance:    firstOf(s.Guidance, s.General),
		AltPoints:   normalizeMarks(alt),
	}
}

func normalizeMarks(marks []rawMark) []model.MarkPoint {
	if len(marks) == 0 {
		return nil
	}
	out := make([]model.MarkPoint, 0, len(marks))
	for _, m := range marks {
		value := int(m.Value)
		code := firstOf(m.Code, m.Mark)
		if value == 0 && code != "" && !strings.HasSuffix(code, "0") {
			value = 1 // M1/A1/B1 style codes are worth one mark unless stated
		}
		out = append(out, model.MarkPoint{
			Code:     code,
			Value:    value,
			Guidance: firstOf(m.Guidance, m.Notes),
			Answer:   m.Answer,
		})
	}
	return out
}
