package httpclient

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Config controls pool behavior. Zero values fall back to conservative
// free-tier defaults.
type Config struct {
	MaxConcurrency int
	RequestTimeout time.Duration
	UserAgent      string
}

// Pool is a concurrency-bounded HTTP client shared by the outbound data
// sources. It deliberately performs a single attempt per request: the
// fallback chain owns failure handling, and a source retried internally
// would violate the one-attempt-per-cycle rule.
type Pool struct {
	config    Config
	semaphore chan struct{}
	client    *http.Client

	mu    sync.Mutex
	stats Stats
}

// Stats tracks aggregate request outcomes for health reporting.
type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalLatency    time.Duration
}

func NewPool(config Config) *Pool {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 10 * time.Second
	}
	return &Pool{
		config:    config,
		semaphore: make(chan struct{}, config.MaxConcurrency),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

// Do executes the request under the concurrency limit. Callers own the
// response body.
func (p *Pool) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	select {
	case p.semaphore <- struct{}{}:
		defer func() { <-p.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if p.config.UserAgent != "" {
		req.Header.Set("User-Agent", p.config.UserAgent)
	}

	start := time.Now()
	resp, err := p.client.Do(req.WithContext(ctx))
	p.record(err == nil, time.Since(start))
	return resp, err
}

func (p *Pool) record(success bool, latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.TotalRequests++
	if success {
		p.stats.SuccessRequests++
	} else {
		p.stats.FailedRequests++
	}
	p.stats.TotalLatency += latency
}

func (p *Pool) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
