package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
	}))
	defer server.Close()

	pool := NewPool(Config{MaxConcurrency: 2, RequestTimeout: time.Second})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
			resp, err := pool.Do(context.Background(), req)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))

	stats := pool.GetStats()
	assert.Equal(t, int64(8), stats.TotalRequests)
	assert.Equal(t, int64(8), stats.SuccessRequests)
}

func TestPool_SetsUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	pool := NewPool(Config{UserAgent: "tokenwatch/1.0"})
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := pool.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "tokenwatch/1.0", got)
}

func TestPool_ContextCancelled(t *testing.T) {
	pool := NewPool(Config{MaxConcurrency: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:1", nil)
	_, err := pool.Do(ctx, req)
	assert.Error(t, err)
}
