package corpus

import (
	"context"
	"sync"
	"time"

	"github.com/dhowell/papermatch/internal/model"
)

// SnapshotCache serves corpus snapshots with a TTL. Reads never block on a
// refresh: once a snapshot exists, expired reads are served the stale copy
// while a single background refresh runs. Only the very first load blocks.
// Explicitly constructed and injected, never a process singleton, so tests
// run against fixture sources.
type SnapshotCache struct {
	source Source
	ttl    time.Duration

	mu       sync.Mutex
	snap     *model.Snapshot
	loadedAt time.Time
	inflight chan struct{} // non-nil while a refresh is running
	loadErr  error         // error from the last completed refresh
}

// NewSnapshotCache wraps a source with a TTL cache. A zero ttl defaults to
// one hour.
func NewSnapshotCache(source Source, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SnapshotCache{source: source, ttl: ttl}
}

// Get returns the current snapshot, refreshing per the TTL policy.
func (c *SnapshotCache) Get(ctx context.Context) (*model.Snapshot, error) {
	c.mu.Lock()

	if c.snap != nil {
		if time.Since(c.loadedAt) < c.ttl {
			snap := c.snap
			c.mu.Unlock()
			return snap, nil
		}
		// Stale: serve it, refresh in the background. Single-flight — if a
		// refresh is already running, this read just rides on it.
		if c.inflight == nil {
			c.startRefresh()
		}
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}

	// No snapshot yet: join or start the initial load and wait for it.
	if c.inflight == nil {
		c.startRefresh()
	}
	done := c.inflight
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return nil, c.loadErr
	}
	return c.snap, nil
}

// Invalidate expires the current snapshot. The stale copy keeps serving
// until the next Get completes a refresh.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadedAt = time.Time{}
}

// startRefresh launches the single in-flight refresh. Caller must hold mu.
func (c *SnapshotCache) startRefresh() {
	done := make(chan struct{})
	c.inflight = done

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		snap, err := c.source.Load(ctx)

		c.mu.Lock()
		if err == nil {
			c.snap = snap
			c.loadedAt = time.Now()
			c.loadErr = nil
		} else {
			// Keep serving the stale snapshot, if any; surface the error
			// only when there is nothing to serve.
			c.loadErr = err
		}
		c.inflight = nil
		c.mu.Unlock()

		close(done)
	}()
}
