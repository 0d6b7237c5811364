// Package detect matches free-text student work against the corpus of past
// exam-paper questions and resolves the official marking scheme for each
// match. Misses are data outcomes, never errors.
package detect

import (
	"context"
	"sort"
	"strings"

	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/similarity"
)

// Provider serves corpus snapshots; satisfied by *corpus.SnapshotCache and
// by fixture providers in tests.
type Provider interface {
	Get(ctx context.Context) (*model.Snapshot, error)
}

// Detector runs single-question detection against the corpus.
type Detector struct {
	corpus Provider
	cfg    model.DetectionConfig
}

// New creates a detector. Zero-valued thresholds fall back to the defaults.
func New(corpus Provider, cfg model.DetectionConfig) *Detector {
	if cfg == (model.DetectionConfig{}) {
		cfg = model.DefaultDetectionConfig()
	}
	return &Detector{corpus: corpus, cfg: cfg}
}

// Query is one detection request: the text to locate, an optional
// question-number hint and an optional free-text paper hint.
type Query struct {
	Text       string
	NumberHint string
	PaperHint  string
}

// candidate pairs a corpus question with its score breakdown during ranking.
type candidate struct {
	paper     *model.Paper
	question  *model.Question
	breakdown model.ScoreBreakdown
}

// Detect identifies the corpus question the query text corresponds to and
// resolves its marking scheme. A result with Found=false carries diagnostics
// but is not an error; errors are reserved for corpus access failures and
// integrity violations.
func (d *Detector) Detect(ctx context.Context, q Query) (*model.DetectionResult, error) {
	text := strings.TrimSpace(q.Text)
	numberHint := sanitizeNumberHint(q.NumberHint)
	hintBase := baseNumber(numberHint)
	paperHint := strings.TrimSpace(q.PaperHint)

	snap, err := d.corpus.Get(ctx)
	if err != nil {
		return nil, err
	}

	pool, hintApplied := narrowPool(snap.Papers, paperHint)
	rescue := hintApplied && len(pool) <= 2

	result := &model.DetectionResult{
		NumberHint: numberHint,
		PoolSize:   len(pool),
		RescueMode: rescue,
	}
	if hintApplied {
		result.HintUsed = paperHint
	}

	candidates := d.scorePool(pool, text, hintBase, rescue)
	result.Audit = auditTrail(candidates, 5)

	best, ok := d.accept(candidates, rescue)
	if !ok {
		return result, nil
	}

	match, err := materialize(best, hintBase)
	if err != nil {
		return nil, err
	}
	match.IsWeakMatch = best.breakdown.Total < d.cfg.WeakMatch
	match.ThresholdRelaxed = best.breakdown.Total < d.cfg.StrictThreshold

	if scheme, composite := findScheme(snap, match); scheme != nil {
		match.Scheme = scheme
		match.SchemeComposite = composite
	}

	result.Found = true
	result.Match = match
	return result, nil
}

// scorePool scores every top-level question in the pool against the query.
func (d *Detector) scorePool(pool []model.Paper, text, hintBase string, rescue bool) []candidate {
	var candidates []candidate
	for i := range pool {
		paper := &pool[i]
		for j := range paper.Questions {
			question := &paper.Questions[j]
			qBase := baseNumber(question.Number)

			// Hard gate: with a number hint and outside rescue mode, only
			// candidates on the hinted base number are considered at all.
			if hintBase != "" && !rescue && qBase != hintBase {
				continue
			}

			breakdown := d.scoreQuestion(text, question, hintBase, qBase, rescue)
			if breakdown.Total < d.cfg.AuditFloor {
				continue
			}
			candidates = append(candidates, candidate{paper: paper, question: question, breakdown: breakdown})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].breakdown.Total > candidates[j].breakdown.Total
	})
	return candidates
}

// scoreQuestion blends the hybrid text/numeric/semantic score with the
// structural question-number signal.
func (d *Detector) scoreQuestion(text string, question *model.Question, hintBase, qBase string, rescue bool) model.ScoreBreakdown {
	breakdown := similarity.Hybrid(text, aggregateText(question), similarity.ModeQuestion, rescue)

	// Structural agreement is hard binary when a hint exists, neutral
	// otherwise.
	switch {
	case hintBase == "":
		breakdown.Structural = 0.5
	case hintBase == qBase:
		breakdown.Structural = 1.0
	default:
		breakdown.Structural = 0.0
	}

	total := 0.7*breakdown.Hybrid + 0.3*breakdown.Structural

	// AND-gate: a matching question number must not carry a textually
	// unrelated candidate on its own.
	if breakdown.Structural > 0.8 && breakdown.Text < 0.4 {
		total *= 0.4
	}

	// A hint the candidate contradicts is near-fatal, softened to a 0.1
	// penalty in rescue mode where the hint itself is suspect.
	if hintBase != "" && breakdown.Structural < 0.8 {
		if rescue {
			total *= 0.1
		} else {
			total *= 0.01
		}
	}

	breakdown.Total = total
	return breakdown
}

// accept applies the adaptive acceptance rule to the ranked candidates.
func (d *Detector) accept(candidates []candidate, rescue bool) (candidate, bool) {
	if len(candidates) == 0 {
		return candidate{}, false
	}

	best := candidates[0]
	score := best.breakdown.Total

	accepted := score >= d.cfg.StrictThreshold
	if !accepted && len(candidates) > 1 {
		// Relative winner: clearly ahead of the runner-up.
		accepted = score >= d.cfg.RelativeWinner &&
			score-candidates[1].breakdown.Total > d.cfg.RelativeMargin
	}
	if !accepted && len(candidates) == 1 {
		accepted = score >= d.cfg.RelativeWinner
	}
	if !accepted && rescue {
		accepted = score >= d.cfg.RescueThreshold
	}
	if !accepted {
		return candidate{}, false
	}

	// Matches that won on numeric or structural grounds alone are rejected
	// by the raw text-similarity floor.
	textFloor := d.cfg.TextFloor
	if rescue {
		textFloor = d.cfg.RescueTextFloor
	}
	if best.breakdown.Text < textFloor {
		return candidate{}, false
	}

	return best, true
}

// materialize denormalizes an accepted candidate into an ExamPaperMatch. A
// matched paper missing identity metadata is corrupted reference data and
// fails hard.
func materialize(c candidate, hintBase string) (*model.ExamPaperMatch, error) {
	p := c.paper
	switch {
	case p.Board == "":
		return nil, &model.IntegrityError{Entity: "paper", Ref: p.Code, Field: "board"}
	case p.Code == "":
		return nil, &model.IntegrityError{Entity: "paper", Ref: p.Title, Field: "code"}
	case p.Series == "":
		return nil, &model.IntegrityError{Entity: "paper", Ref: p.Code, Field: "series"}
	case p.Qualification == "":
		return nil, &model.IntegrityError{Entity: "paper", Ref: p.Code, Field: "qualification"}
	}

	match := &model.ExamPaperMatch{
		Board:          p.Board,
		Code:           p.Code,
		Series:         p.Series,
		Tier:           p.Tier,
		Qualification:  p.Qualification,
		Title:          p.Title,
		QuestionNumber: c.question.Number,
		TotalMarks:     c.question.TotalMarks,
		Confidence:     confidence(c.breakdown, hintBase),
	}

	if len(c.question.SubQuestions) > 0 {
		match.SubMarks = make(map[string]int)
		match.SubTexts = make(map[string]string)
		flattenSubs("", c.question.SubQuestions, match.SubMarks, match.SubTexts)
		if match.TotalMarks == 0 {
			for _, m := range match.SubMarks {
				match.TotalMarks += m
			}
		}
	}
	return match, nil
}

// confidence reports the match confidence. Without a number hint the
// structural signal is a neutral placeholder, so the hybrid score alone is
// the honest confidence; with a hint the blended score is.
func confidence(b model.ScoreBreakdown, hintBase string) float64 {
	if hintBase == "" {
		return b.Hybrid
	}
	return b.Total
}

// flattenSubs walks the nested sub-question tree, concatenating labels into
// flat keys ("a", "ai", ...).
func flattenSubs(prefix string, subs []model.SubQuestion, marks map[string]int, texts map[string]string) {
	for _, sub := range subs {
		key := prefix + sub.Label
		marks[key] = sub.Marks
		texts[key] = sub.Text
		if len(sub.SubQuestions) > 0 {
			flattenSubs(key, sub.SubQuestions, marks, texts)
		}
	}
}

// aggregateText builds the comparison text for a question: its own text plus
// every nested sub-question text.
func aggregateText(q *model.Question) string {
	var b strings.Builder
	b.WriteString(q.Text)
	appendSubTexts(&b, q.SubQuestions)
	return b.String()
}

func appendSubTexts(b *strings.Builder, subs []model.SubQuestion) {
	for _, sub := range subs {
		if sub.Text != "" {
			b.WriteString(" ")
			b.WriteString(sub.Text)
		}
		appendSubTexts(b, sub.SubQuestions)
	}
}

// auditTrail copies the top n candidates into the diagnostic audit trail.
func auditTrail(candidates []candidate, n int) []model.CandidateAudit {
	if len(candidates) < n {
		n = len(candidates)
	}
	if n == 0 {
		return nil
	}
	audit := make([]model.CandidateAudit, 0, n)
	for _, c := range candidates[:n] {
		audit = append(audit, model.CandidateAudit{
			Board:          c.paper.Board,
			Code:           c.paper.Code,
			Series:         c.paper.Series,
			QuestionNumber: c.question.Number,
			Breakdown:      c.breakdown,
		})
	}
	return audit
}
