package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dhowell/papermatch/internal/cache"
	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/util"
	"github.com/dhowell/papermatch/internal/validate"
	"github.com/dhowell/papermatch/internal/worker"
)

// HTTPSource fetches the corpus in bulk from a corpus service:
// GET {base}/papers and GET {base}/schemes, both JSON documents in the same
// shape the file source accepts. Responses are cached so repeated snapshot
// refreshes within the cache TTL never hit the network.
type HTTPSource struct {
	baseURL   string
	client    *http.Client
	limiter   *worker.Limiter
	cache     cache.Cache // nil disables payload caching
	cacheTTL  time.Duration
	userAgent string
	maxBytes  int64
}

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	Timeout    time.Duration
	UserAgent  string
	MaxBytes   int64
	RatePerSec float64
	Burst      int
	Cache      cache.Cache
	CacheTTL   time.Duration
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// NewHTTPSource creates a rate-limited corpus-service client.
func NewHTTPSource(baseURL string, opts HTTPOptions) *HTTPSource {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = 20_000_000
	}
	if opts.RatePerSec == 0 {
		opts.RatePerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}

	return &HTTPSource{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:   worker.NewLimiter(opts.RatePerSec, opts.Burst),
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
	}
}

// Load fetches and assembles a validated snapshot.
func (s *HTTPSource) Load(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{LoadedAt: time.Now()}

	for _, endpoint := range []string{"papers", "schemes"} {
		data, err := s.fetch(ctx, s.baseURL+"/"+endpoint)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
		}
		doc, err := parseDocument(data, true)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", endpoint, err)
		}
		for _, p := range doc.Papers {
			snap.Papers = append(snap.Papers, p.normalize())
		}
		for _, sch := range doc.Schemes {
			snap.Schemes = append(snap.Schemes, sch.normalize())
		}
	}

	if err := validate.Snapshot(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *HTTPSource) fetch(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key(url)
	if s.cache != nil {
		if data, ok := s.cache.Get(key); ok {
			return data, nil
		}
	}

	if err := s.limiter.Wait(ctx, url); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(key, data, s.cacheTTL)
	}
	return data, nil
}
