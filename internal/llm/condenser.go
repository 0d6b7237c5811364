package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dhowell/papermatch/internal/model"
)

// Condenser wraps a Provider behind the interface the pipeline consumes. A
// nil provider means the condenser is disabled; Condense then returns an
// empty note without error.
type Condenser struct {
	provider Provider
	config   Config

	checkOnce sync.Once
	reachable bool
}

// NewCondenser builds a condenser from configuration. With no provider
// configured the condenser is created disabled rather than failing.
func NewCondenser(config Config) (*Condenser, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Condenser{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured.
func (c *Condenser) IsEnabled() bool {
	return c.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled.
func (c *Condenser) ProviderName() string {
	if c.provider == nil {
		return ""
	}
	return c.provider.Name()
}

// IsAvailable reports whether the provider is configured and reachable. The
// reachability probe runs once per process; a flaky provider mid-run fails
// per-call instead.
func (c *Condenser) IsAvailable() bool {
	if c.provider == nil {
		return false
	}
	c.checkOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.reachable = c.provider.IsAvailable(ctx)
	})
	return c.reachable
}

// Condense produces the condensed guidance note for one scheme.
func (c *Condenser) Condense(ctx context.Context, scheme *model.SchemeEntry) (string, error) {
	if c.provider == nil {
		return "", nil
	}
	if scheme == nil || len(scheme.Points) == 0 {
		return "", fmt.Errorf("nothing to condense")
	}

	resp, err := c.provider.Condense(ctx, CondenseRequest{Scheme: scheme})
	if err != nil {
		return "", err
	}
	return resp.Note, nil
}
