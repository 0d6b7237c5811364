package corpus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dhowell/papermatch/internal/model"
)

// stubSource counts loads and can be told to fail.
type stubSource struct {
	loads atomic.Int32
	fail  atomic.Bool
	delay time.Duration
}

func (s *stubSource) Load(ctx context.Context) (*model.Snapshot, error) {
	s.loads.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.fail.Load() {
		return nil, errors.New("source down")
	}
	return &model.Snapshot{LoadedAt: time.Now()}, nil
}

func TestSnapshotCache_FirstLoadBlocks(t *testing.T) {
	src := &stubSource{}
	c := NewSnapshotCache(src, time.Hour)

	snap, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if snap == nil {
		t.Fatal("Get returned nil snapshot")
	}
	if got := src.loads.Load(); got != 1 {
		t.Errorf("loads = %d, want 1", got)
	}
}

func TestSnapshotCache_FreshHitSkipsSource(t *testing.T) {
	src := &stubSource{}
	c := NewSnapshotCache(src, time.Hour)

	first, _ := c.Get(context.Background())
	second, _ := c.Get(context.Background())
	if first != second {
		t.Error("fresh Get returned a different snapshot")
	}
	if got := src.loads.Load(); got != 1 {
		t.Errorf("loads = %d, want 1", got)
	}
}

func TestSnapshotCache_ConcurrentFirstLoadSingleFlight(t *testing.T) {
	src := &stubSource{delay: 50 * time.Millisecond}
	c := NewSnapshotCache(src, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background()); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := src.loads.Load(); got != 1 {
		t.Errorf("loads = %d, want single-flight 1", got)
	}
}

func TestSnapshotCache_StaleServedDuringRefresh(t *testing.T) {
	src := &stubSource{}
	c := NewSnapshotCache(src, time.Hour)

	stale, _ := c.Get(context.Background())
	c.Invalidate()
	src.delay = 100 * time.Millisecond

	// Stale read must return immediately with the old snapshot.
	start := time.Now()
	got, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != stale {
		t.Error("stale read returned a new snapshot before refresh finished")
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("stale read blocked on the refresh")
	}

	// After the refresh lands, a new snapshot is served.
	time.Sleep(200 * time.Millisecond)
	fresh, _ := c.Get(context.Background())
	if fresh == stale {
		t.Error("refresh never replaced the stale snapshot")
	}
	if got := src.loads.Load(); got != 2 {
		t.Errorf("loads = %d, want 2", got)
	}
}

func TestSnapshotCache_FailedRefreshKeepsStale(t *testing.T) {
	src := &stubSource{}
	c := NewSnapshotCache(src, time.Hour)

	stale, _ := c.Get(context.Background())
	c.Invalidate()
	src.fail.Store(true)

	got, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get during failed refresh: %v", err)
	}
	if got != stale {
		t.Error("failed refresh should keep serving the stale snapshot")
	}
}

func TestSnapshotCache_FirstLoadFailureSurfaces(t *testing.T) {
	src := &stubSource{}
	src.fail.Store(true)
	c := NewSnapshotCache(src, time.Hour)

	if _, err := c.Get(context.Background()); err == nil {
		t.Fatal("Get returned nil error with no snapshot available")
	}
}
