package cli

import (
	"fmt"
	"os"

	"github.com/dhowell/papermatch/internal/cache"
	"github.com/dhowell/papermatch/internal/corpus"
	"github.com/dhowell/papermatch/internal/detect"
	"github.com/dhowell/papermatch/internal/llm"
	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/pipeline"
)

// newOrchestrator wires a full orchestrator from configuration: corpus
// source, snapshot cache, detector and the optional guidance condenser.
func newOrchestrator(cfg *model.Config) (*pipeline.Orchestrator, error) {
	source, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	snapshots := corpus.NewSnapshotCache(source, cfg.Corpus.TTL)
	detector := detect.New(snapshots, cfg.Detection)

	var opts []pipeline.Option
	if cfg.LLM.Provider != "" {
		condenser, err := llm.NewCondenser(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			opts = append(opts, pipeline.WithCondenser(condenser))
		}
	}

	return pipeline.NewOrchestrator(detector, opts...), nil
}

func newSource(cfg *model.Config) (corpus.Source, error) {
	switch {
	case cfg.Corpus.Dir != "":
		return corpus.NewFileSource(cfg.Corpus.Dir), nil

	case cfg.Corpus.URL != "":
		var byteCache cache.Cache
		if cfg.Cache.Enabled {
			if cfg.Cache.Dir != "" {
				byteCache = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
			} else {
				byteCache = cache.NewMemory(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
			}
		}
		return corpus.NewHTTPSource(cfg.Corpus.URL, corpus.HTTPOptions{
			Timeout:    cfg.HTTP.Timeout,
			UserAgent:  cfg.HTTP.UserAgent,
			MaxBytes:   cfg.HTTP.MaxBodyBytes,
			RatePerSec: cfg.HTTP.RatePerSec,
			Burst:      cfg.HTTP.Burst,
			Cache:      byteCache,
			CacheTTL:   cfg.Cache.MemoryTTL,
			HTTPProxy:  cfg.HTTP.HTTPProxy,
			HTTPSProxy: cfg.HTTP.HTTPSProxy,
			NoProxy:    cfg.HTTP.NoProxy,
		}), nil

	default:
		return nil, fmt.Errorf("no corpus source configured: set --corpus or --corpus-url")
	}
}
