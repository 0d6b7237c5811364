// Package validate checks corpus snapshots for structural integrity before
// they are served to the detection engine. A broken snapshot is rejected
// whole: matching against a paper whose identity fields are missing risks
// awarding marks from the wrong scheme.
package validate

import (
	"fmt"

	"github.com/dhowell/papermatch/internal/model"
)

// Snapshot validates every paper and scheme entry in the snapshot. The first
// violation found is returned as a *model.IntegrityError.
func Snapshot(snap *model.Snapshot) error {
	for _, p := range snap.Papers {
		if err := paper(p); err != nil {
			return err
		}
	}
	for _, s := range snap.Schemes {
		if err := scheme(s); err != nil {
			return err
		}
	}
	return nil
}

func paper(p model.Paper) error {
	ref := p.Code
	if ref == "" {
		ref = p.Title
	}
	switch {
	case p.Board == "":
		return &model.IntegrityError{Entity: "paper", Ref: ref, Field: "board"}
	case p.Code == "":
		return &model.IntegrityError{Entity: "paper", Ref: p.Board + " " + p.Series, Field: "code"}
	case p.Series == "":
		return &model.IntegrityError{Entity: "paper", Ref: ref, Field: "series"}
	case p.Qualification == "":
		return &model.IntegrityError{Entity: "paper", Ref: ref, Field: "qualification"}
	}

	for _, q := range p.Questions {
		if q.Number == "" {
			return &model.IntegrityError{Entity: "question", Ref: p.Code, Field: "number"}
		}
		qRef := p.Code + " q" + q.Number
		if err := subQuestions(qRef, q.SubQuestions); err != nil {
			return err
		}
	}
	return nil
}

// subQuestions requires a label on every part and label uniqueness within
// each parent, recursively.
func subQuestions(ref string, subs []model.SubQuestion) error {
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if sub.Label == "" {
			return &model.IntegrityError{Entity: "question", Ref: ref, Field: "sub-question label"}
		}
		if _, dup := seen[sub.Label]; dup {
			return &model.IntegrityError{
				Entity: "question",
				Ref:    ref,
				Field:  fmt.Sprintf("unique sub-question label %q", sub.Label),
			}
		}
		seen[sub.Label] = struct{}{}

		if err := subQuestions(ref+sub.Label, sub.SubQuestions); err != nil {
			return err
		}
	}
	return nil
}

func scheme(s model.SchemeEntry) error {
	ref := s.Code + " " + s.QuestionKey
	switch {
	case s.Board == "":
		return &model.IntegrityError{Entity: "scheme", Ref: ref, Field: "board"}
	case s.Code == "":
		return &model.IntegrityError{Entity: "scheme", Ref: s.Board + " " + s.QuestionKey, Field: "code"}
	case s.Series == "":
		return &model.IntegrityError{Entity: "scheme", Ref: ref, Field: "series"}
	case s.QuestionKey == "":
		return &model.IntegrityError{Entity: "scheme", Ref: ref, Field: "question key"}
	}
	return nil
}
