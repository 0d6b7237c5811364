package pipeline

import (
	"sort"
	"strings"

	"github.com/dhowell/papermatch/internal/model"
)

// generalGroup collects fragments with no parseable question number.
const generalGroup = "General"

// contextTail is how much of a context's trailing text must reappear in a
// fragment before the context counts as already present.
const contextTail = 40

// group is one base question number's worth of fragments plus the dense
// anchor query built from them. Every fragment in a group inherits the
// group's detection result; a sub-question's own weak signal never overrides
// a confirmed group-level match.
type group struct {
	base      string // "4", "12", or generalGroup
	fragments []model.Fragment
	anchor    string
	result    *model.DetectionResult
}

// buildGroups partitions fragments by base question number, injects parent
// context into sub-question fragments, and constructs each group's anchor.
// Group order follows first appearance in the submission.
func buildGroups(fragments []model.Fragment) []group {
	var order []string
	byBase := make(map[string][]model.Fragment)

	for _, frag := range fragments {
		base := fragmentBase(frag)
		if _, seen := byBase[base]; !seen {
			order = append(order, base)
		}
		byBase[base] = append(byBase[base], frag)
	}

	groups := make([]group, 0, len(order))
	for _, base := range order {
		frags := byBase[base]
		texts := injectParentContext(frags)
		groups = append(groups, group{
			base:      base,
			fragments: frags,
			anchor:    buildAnchor(texts),
		})
	}
	return groups
}

func fragmentBase(frag model.Fragment) string {
	base := leadingDigits(strings.TrimSpace(frag.NumberHint))
	if base == "" {
		return generalGroup
	}
	return base
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// injectParentContext prefixes sub-question fragments with the group's
// best-known parent question text, so a short fragment like "complete the
// diagram" is never detected without its context. The parent text is the
// longest text among base-only fragments; fragments that already carry the
// context's trailing text are left alone.
func injectParentContext(frags []model.Fragment) []string {
	parent := ""
	for _, frag := range frags {
		hint := strings.TrimSpace(frag.NumberHint)
		if hint != "" && leadingDigits(hint) == hint && len(frag.QuestionText) > len(parent) {
			parent = frag.QuestionText
		}
	}

	texts := make([]string, 0, len(frags))
	for _, frag := range frags {
		text := frag.QuestionText
		hint := strings.TrimSpace(frag.NumberHint)
		isSub := hint != "" && leadingDigits(hint) != hint

		if isSub && parent != "" && !containsTail(text, parent) {
			text = parent + " " + text
		}
		texts = append(texts, text)
	}
	return texts
}

// containsTail reports whether text already carries the trailing portion of
// context.
func containsTail(text, context string) bool {
	tail := context
	if len(tail) > contextTail {
		tail = tail[len(tail)-contextTail:]
	}
	if tail == "" {
		return true
	}
	return strings.Contains(text, tail)
}

// buildAnchor merges a group's fragment texts into one dense query:
// deduplicate, longest first, and append each further text only when its
// tail is not already present — shared preambles are never repeated.
func buildAnchor(texts []string) string {
	seen := make(map[string]struct{}, len(texts))
	var unique []string
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return len(unique[i]) > len(unique[j])
	})

	anchor := ""
	for _, t := range unique {
		if anchor == "" {
			anchor = t
			continue
		}
		tail := t
		if len(tail) > contextTail {
			tail = tail[len(tail)-contextTail:]
		}
		if !strings.Contains(anchor, tail) {
			anchor += " " + t
		}
	}
	return anchor
}
