package detect

import (
	"sort"
	"strings"

	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/similarity"
)

// schemeConfidence is the floor for accepting a scheme entry as belonging to
// the matched paper, after the exact paper-code gate.
const schemeConfidence = 0.7

// findScheme resolves the official marking scheme for a match. Papers with
// different codes never share schemes, however similar everything else looks
// — the code comparison is a hard gate, not a score. Board and series are
// scored leniently on top of it. When the exact question key is absent but
// sibling sub-question keys exist, a composite scheme is synthesized from
// the siblings; the second return reports that case.
func findScheme(snap *model.Snapshot, match *model.ExamPaperMatch) (*model.SchemeEntry, bool) {
	base := baseNumber(match.QuestionNumber)
	if base == "" {
		base = match.QuestionNumber
	}

	var exact *model.SchemeEntry
	var siblings []*model.SchemeEntry

	for i := range snap.Schemes {
		entry := &snap.Schemes[i]
		if entry.Code != match.Code {
			continue
		}
		if !schemeBelongs(entry, match) {
			continue
		}

		switch {
		case entry.QuestionKey == match.QuestionNumber || entry.QuestionKey == base:
			if exact == nil {
				exact = entry
			}
		case baseNumber(entry.QuestionKey) == base && subLabel(entry.QuestionKey) != "":
			siblings = append(siblings, entry)
		}
	}

	if exact != nil {
		scheme := *exact
		return &scheme, false
	}
	if len(siblings) == 0 {
		return nil, false
	}
	return compose(base, siblings), true
}

// schemeBelongs scores board/series agreement between a scheme entry and the
// matched paper.
func schemeBelongs(entry *model.SchemeEntry, match *model.ExamPaperMatch) bool {
	boardSim := similarity.Normalized(entry.Board, match.Board, similarity.Options{Strict: true})
	seriesSim := similarity.Normalized(
		normalizeSeries(entry.Series), normalizeSeries(match.Series), similarity.Options{Strict: true})

	conf := 0.5*boardSim + 0.5*seriesSim
	if strings.EqualFold(entry.Board, match.Board) &&
		normalizeSeries(entry.Series) == normalizeSeries(match.Series) {
		conf += 0.1
	}
	return conf > schemeConfidence
}

// compose synthesizes a parent-level scheme from per-sub-part entries, so a
// single merged marking pass can cover a question whose official scheme is
// only published per sub-part. Each sibling's mark points are carried over
// with the part label prefixed onto the guidance.
func compose(base string, siblings []*model.SchemeEntry) *model.SchemeEntry {
	sort.Slice(siblings, func(i, j int) bool {
		return siblings[i].QuestionKey < siblings[j].QuestionKey
	})

	first := siblings[0]
	composite := &model.SchemeEntry{
		Board:       first.Board,
		Code:        first.Code,
		Series:      first.Series,
		Tier:        first.Tier,
		QuestionKey: base,
	}

	var guidance []string
	for _, sib := range siblings {
		label := subLabel(sib.QuestionKey)
		for _, p := range sib.Points {
			point := p
			point.Guidance = partPrefix(label, p.Guidance)
			point.Answer = partPrefix(label, p.Answer)
			composite.Points = append(composite.Points, point)
		}
		for _, p := range sib.AltPoints {
			point := p
			point.Guidance = partPrefix(label, p.Guidance)
			point.Answer = partPrefix(label, p.Answer)
			composite.AltPoints = append(composite.AltPoints, point)
		}
		if sib.Guidance != "" {
			guidance = append(guidance, partPrefix(label, sib.Guidance))
		}
	}
	composite.Guidance = strings.Join(guidance, "\n")
	return composite
}

func partPrefix(label, text string) string {
	if text == "" {
		return ""
	}
	return "(" + label + ") " + text
}
