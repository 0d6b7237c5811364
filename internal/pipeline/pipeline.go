package pipeline

import (
	"context"
	"fmt"

	"github.com/dhowell/papermatch/internal/detect"
	"github.com/dhowell/papermatch/internal/model"
)

// QuestionDetector resolves one query against the corpus.
type QuestionDetector interface {
	Detect(ctx context.Context, q detect.Query) (*model.DetectionResult, error)
}

// Condenser rewrites a scheme's examiner guidance into a short note. The
// note is attached verbatim to the output entry and never feeds back into
// detection or merging.
type Condenser interface {
	Condense(ctx context.Context, scheme *model.SchemeEntry) (string, error)
	IsAvailable() bool
}

// Hint-adherence thresholds on the overall detection rate of a hinted
// pass. When the rate comes in under the threshold the whole pass is re-run
// once without the hint.
const (
	singlePaperAdherence = 0.8 // hint narrowed the pool to one paper
	multiPaperAdherence  = 0.5 // hint matched several papers
)

// Orchestrator runs the full per-submission flow: group fragments, detect
// each group, evaluate hint adherence, run consensus rescue, and merge every
// group into its scheme-map entry.
type Orchestrator struct {
	detector  QuestionDetector
	condenser Condenser
}

// Result is one processed submission: the scheme map plus the pass
// statistics.
type Result struct {
	Entries []model.SchemeMapEntry
	Stats   model.DetectionStatistics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCondenser attaches an optional guidance condenser.
func WithCondenser(c Condenser) Option {
	return func(o *Orchestrator) { o.condenser = c }
}

func NewOrchestrator(detector QuestionDetector, opts ...Option) *Orchestrator {
	o := &Orchestrator{detector: detector}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process resolves one submission into its scheme map. The paper hint is
// tried at most twice: once as supplied, and once discarded if the first
// pass adhered to it poorly. Detection misses are data outcomes; only
// corpus and integrity failures surface as errors.
func (o *Orchestrator) Process(ctx context.Context, sub model.Submission) (*Result, error) {
	groups := buildGroups(sub.Fragments)
	if len(groups) == 0 {
		return &Result{Stats: model.DetectionStatistics{}}, nil
	}

	stats := model.DetectionStatistics{
		Total:        len(groups),
		HintSupplied: sub.PaperHint != "",
	}

	hint := sub.PaperHint
	for attempt := 0; attempt < 2; attempt++ {
		if err := o.runPass(ctx, groups, hint); err != nil {
			return nil, err
		}
		if hint == "" || !o.poorAdherence(groups) {
			break
		}
		// Adherence rescue: the supplied hint steered detection somewhere
		// inconsistent, so retry the whole pass unhinted.
		hint = ""
		stats.HintDiscarded = true
		for i := range groups {
			groups[i].result = nil
		}
	}

	dominant, rescued, err := o.consensus(ctx, groups)
	if err != nil {
		return nil, err
	}
	stats.ConsensusPaper = dominant
	stats.RescuedQuestions = rescued

	entries := make([]model.SchemeMapEntry, 0, len(groups))
	for i := range groups {
		entry := mergeGroup(&groups[i])
		o.condense(ctx, &entry)
		entries = append(entries, entry)
	}

	o.fillStats(&stats, groups, entries)
	return &Result{Entries: entries, Stats: stats}, nil
}

// runPass detects every group that has no result yet.
func (o *Orchestrator) runPass(ctx context.Context, groups []group, hint string) error {
	for i := range groups {
		g := &groups[i]
		if g.result != nil {
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
			return fmt.Errorf("detecting group %s: %w", g.base, err)
		}
		g.result = res
	}
	return nil
}

// poorAdherence reports whether a hinted pass performed badly: the detected
// groups spread over several papers while the hint should have pinned them
// to one (a Frankenstein result), or the overall detection rate across all
// groups fell below the threshold for however many papers the hint narrowed
// the pool to. A hint that pins the pool to the wrong paper shows up as a
// low detection rate, not as spread, so both conditions are needed.
func (o *Orchestrator) poorAdherence(groups []group) bool {
	papers := make(map[string]struct{})
	found := 0
	hintPapers := 0
	for i := range groups {
		res := groups[i].result
		if res == nil {
			continue
		}
		if res.HintUsed != "" && res.PoolSize > hintPapers {
			hintPapers = res.PoolSize
		}
		if !res.Found {
			continue
		}
		found++
		papers[res.Match.PaperKey()] = struct{}{}
	}
	if len(papers) > 1 {
		return true
	}

	rate := float64(found) / float64(len(groups))
	if hintPapers > 1 {
		return rate < multiPaperAdherence
	}
	return rate < singlePaperAdherence
}

// condense attaches the optional LLM guidance note. A condenser failure
// never fails the pipeline.
func (o *Orchestrator) condense(ctx context.Context, entry *model.SchemeMapEntry) {
	if o.condenser == nil || !o.condenser.IsAvailable() {
		return
	}
	if entry.Result == nil || !entry.Result.Found || entry.Result.Match.Scheme == nil {
		return
	}
	if entry.IsGeneric {
		return
	}
	note, err := o.condenser.Condense(ctx, entry.Result.Match.Scheme)
	if err != nil {
		return
	}
	entry.GuidanceNote = note
}

func (o *Orchestrator) fillStats(stats *model.DetectionStatistics, groups []group, entries []model.SchemeMapEntry) {
	stats.SimilarityHistogram = make(map[string]int)
	hintPapers := make(map[string]struct{})
	for i := range groups {
		res := groups[i].result
		if res == nil || !res.Found {
			stats.NotDetected++
			continue
		}
		stats.Detected++
		if res.HintUsed != "" {
			hintPapers[res.Match.PaperKey()] = struct{}{}
		}
		if res.Match.ThresholdRelaxed {
			stats.ThresholdRelaxed = true
		}
		stats.SimilarityHistogram[confidenceBucket(res.Match.Confidence)]++
	}
	stats.HintPapersMatched = len(hintPapers)
	for _, e := range entries {
		if e.IsGeneric {
			stats.WithoutScheme++
		} else {
			stats.WithScheme++
		}
	}
}

func confidenceBucket(c float64) string {
	switch {
	case c >= 0.8:
		return "0.8-1.0"
	case c >= 0.6:
		return "0.6-0.8"
	case c >= 0.4:
		return "0.4-0.6"
	default:
		return "0.0-0.4"
	}
}
