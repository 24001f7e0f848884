package snapshot

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/tokenwatch/internal/token"
)

// Fetcher produces one complete token collection per cycle. The fallback
// chain satisfies this; tests use stubs.
type Fetcher interface {
	Fetch(ctx context.Context) []token.Token
}

// ErrEmptyCycle is recorded when a cycle produces no tokens at all. The
// previous snapshot stays visible; the error clears on the next good cycle.
var ErrEmptyCycle = errors.New("fetch cycle produced no tokens")

// Config controls the controller's timers. TickInterval of zero disables
// intra-cycle simulated ticking.
type Config struct {
	RefreshInterval time.Duration
	TickInterval    time.Duration
}

// Controller owns the current snapshot. Refresh replaces it wholesale;
// Patch merges fields into one token in place. Both transitions happen
// under the lock, so consumers never observe a torn snapshot. A refresh
// that completes after Stop discards its result instead of applying it.
type Controller struct {
	fetcher Fetcher
	config  Config
	rng     *rand.Rand

	mu      sync.RWMutex
	tokens  []token.Token
	loading bool
	lastErr error
	stopped bool

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewController(fetcher Fetcher, config Config) *Controller {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = 10 * time.Second
	}
	return &Controller{
		fetcher: fetcher,
		config:  config,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		done:    make(chan struct{}),
	}
}

// Start launches the periodic refresh loop. The first cycle runs
// immediately so consumers are not empty for a full interval.
func (c *Controller) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.run(ctx)
}

func (c *Controller) run(ctx context.Context) {
	defer c.wg.Done()

	c.Refresh(ctx)

	refresh := time.NewTicker(c.config.RefreshInterval)
	defer refresh.Stop()

	var tick <-chan time.Time
	if c.config.TickInterval > 0 {
		ticker := time.NewTicker(c.config.TickInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-refresh.C:
			c.Refresh(ctx)
		case <-tick:
			c.simulateTick()
		}
	}
}

// Stop tears the controller down. Any in-flight cycle finishes but its
// result is dropped, and no timer fires afterward.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		close(c.done)
	})
	c.wg.Wait()
}

// Refresh runs one fetch cycle and installs the result. The snapshot is
// never cleared: an empty cycle keeps the stale tokens and records the
// error instead.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.loading = len(c.tokens) == 0
	c.mu.Unlock()

	tokens := c.fetcher.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		log.Debug().Msg("refresh completed after teardown, result discarded")
		return
	}
	c.loading = false
	if len(tokens) == 0 {
		c.lastErr = ErrEmptyCycle
		return
	}
	c.tokens = tokens
	c.lastErr = nil
}

// Patch merges the set fields into the token with the given id and stamps
// LastUpdated. Returns false when the id is not in the current snapshot.
func (c *Controller) Patch(id string, p token.Patch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.tokens {
		if c.tokens[i].ID != id {
			continue
		}
		p.Apply(&c.tokens[i])
		if now := time.Now(); now.After(c.tokens[i].LastUpdated) {
			c.tokens[i].LastUpdated = now
		}
		return true
	}
	return false
}

// Tokens returns a copy of the current snapshot in basket order.
func (c *Controller) Tokens() []token.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]token.Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// simulateTick nudges every token's price by a small random factor through
// the same Patch path external callers use.
func (c *Controller) simulateTick() {
	for _, t := range c.Tokens() {
		factor := 1 + (c.rng.Float64()-0.5)*0.02
		price := math.Max(0.0001, t.Price*factor)
		change := t.PriceChange24h + (factor-1)*100

		c.Patch(t.ID, token.Patch{
			Price:          &price,
			PriceChange24h: &change,
		})
	}
}
