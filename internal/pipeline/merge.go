package pipeline

import (
	"github.com/dhowell/papermatch/internal/model"
)

// mergeGroup folds one group's detection result into its scheme-map entry.
// Three shapes come out: a generic entry when nothing was found, a
// composite entry when the scheme was assembled from sibling sub-parts, and
// a plain entry otherwise. A group with no usable scheme still gets the
// generic rubric so grading never runs schemeless.
func mergeGroup(g *group) model.SchemeMapEntry {
	res := g.result
	if res == nil || !res.Found {
		return genericEntry(g)
	}

	match := res.Match
	entry := model.SchemeMapEntry{
		GroupKey:       groupKey(g.base, match.Board, match.Code),
		QuestionNumber: match.QuestionNumber,
		TotalMarks:     match.TotalMarks,
		Result:         res,
		IsComposite:    match.SchemeComposite,
	}

	scheme := match.Scheme
	if scheme == nil {
		generic := genericEntry(g)
		generic.GroupKey = entry.GroupKey
		generic.QuestionNumber = entry.QuestionNumber
		generic.Result = res
		if match.TotalMarks > 0 {
			generic.TotalMarks = match.TotalMarks
		}
		return generic
	}

	entry.Points = scheme.Points
	entry.Guidance = scheme.Guidance
	if entry.TotalMarks == 0 {
		entry.TotalMarks = scheme.TotalMarks()
	}
	return entry
}

// genericEntry synthesizes the fallback entry for a group with no corpus
// scheme, keyed under the virtual generic paper.
func genericEntry(g *group) model.SchemeMapEntry {
	res := genericResult(g)
	match := res.Match
	return model.SchemeMapEntry{
		GroupKey:       groupKey(g.base, match.Board, match.Code),
		QuestionNumber: match.QuestionNumber,
		SubPoints: map[string][]model.MarkPoint{
			match.QuestionNumber: match.Scheme.Points,
		},
		TotalMarks: match.TotalMarks,
		Result:     res,
		IsGeneric:  true,
	}
}

func groupKey(base, board, code string) string {
	return base + "_" + board + "_" + code
}
