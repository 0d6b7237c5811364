package pipeline

import (
	"context"
	"strings"

	"github.com/dhowell/papermatch/internal/detect"
)

// consensusShare is the vote share one paper must reach before it is forced
// onto outlier groups.
const consensusShare = 0.8

// consensus tallies which paper each detected group resolved to. When one
// paper holds at least 80% of the votes — and either more than one group
// agrees or it is the only candidate — outlier and undetected groups are
// re-detected against it. A rescued result is accepted only if it actually
// resolves to the dominant paper. Returns the dominant paper key ("" when
// there is no consensus) and the rescued groups' question numbers.
func (o *Orchestrator) consensus(ctx context.Context, groups []group) (string, []string, error) {
	votes := make(map[string]int)
	found := 0
	for _, g := range groups {
		if g.result != nil && g.result.Found {
			votes[g.result.Match.PaperKey()]++
			found++
		}
	}
	if found == 0 {
		return "", nil, nil
	}

	dominantKey, dominantVotes := "", 0
	for key, n := range votes {
		if n > dominantVotes {
			dominantKey, dominantVotes = key, n
		}
	}

	share := float64(dominantVotes) / float64(found)
	if share < consensusShare || (dominantVotes <= 1 && len(votes) > 1) {
		return "", nil, nil
	}

	// Build an explicit paper hint from any group that matched the dominant
	// paper.
	var hint string
	for _, g := range groups {
		if g.result != nil && g.result.Found && g.result.Match.PaperKey() == dominantKey {
			m := g.result.Match
			hint = strings.TrimSpace(m.Board + " " + m.Code + " " + m.Series + " " + m.Tier)
			break
		}
	}

	var rescued []string
	for i := range groups {
		g := &groups[i]
		if g.result != nil && g.result.Found && g.result.Match.PaperKey() == dominantKey {
			continue
		}

		numberHint := g.base
		if numberHint == generalGroup {
			numberHint = ""
		}
		res, err := o.detector.Detect(ctx, detect.Query{
			Text:       g.anchor,
			NumberHint: numberHint,
			PaperHint:  hint,
		})
		if err != nil {
			return "", nil, err
		}
		if res.Found && res.Match.PaperKey() == dominantKey {
			g.result = res
			rescued = append(rescued, g.base)
		} else if g.result != nil && g.result.Found {
			// The outlier could not be brought onto the dominant paper;
			// dropping its off-paper match beats emitting a Frankenstein
			// scheme map.
			g.result.Found = false
			g.result.Match = nil
		}
	}

	return dominantKey, rescued, nil
}
