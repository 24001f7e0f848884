package source

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/tokenwatch/internal/history"
	"github.com/sawpanic/tokenwatch/internal/metrics"
	"github.com/sawpanic/tokenwatch/internal/token"
)

// Enricher attaches fixed-length price histories keyed by display symbol.
// Batch-level failure shows up as an empty map, never an error.
type Enricher interface {
	FetchAll(ctx context.Context, assets []history.Asset, points int) map[string][]float64
}

// Chain is the fetch orchestrator: an ordered list of sources tried in
// sequence, short-circuiting on the first success. Each source gets exactly
// one attempt per cycle — persistent failures heal on the next scheduled
// cycle, not in a retry loop. With a terminal synthetic source the chain
// cannot fail, so Fetch returns no error.
type Chain struct {
	sources  []TokenSource
	enricher Enricher
	ids      map[string]string
	points   int
	metrics  *metrics.Set
}

func NewChain(sources []TokenSource, enricher Enricher, basket []BasketEntry, points int, m *metrics.Set) *Chain {
	if len(sources) == 0 {
		panic("fallback chain must have at least one source")
	}
	ids := make(map[string]string, len(basket))
	for _, entry := range basket {
		ids[entry.Symbol] = entry.ID
	}
	return &Chain{
		sources:  sources,
		enricher: enricher,
		ids:      ids,
		points:   points,
		metrics:  m,
	}
}

// Fetch runs one refresh cycle and always returns a usable collection.
func (c *Chain) Fetch(ctx context.Context) []token.Token {
	start := time.Now()
	defer func() {
		c.metrics.ObserveCycle(time.Since(start).Seconds())
	}()

	for depth, src := range c.sources {
		c.metrics.Attempt(src.Name())

		tokens, err := src.Fetch(ctx)
		if err != nil {
			c.metrics.Failure(src.Name(), errCode(err))
			log.Warn().Err(err).Str("source", src.Name()).Msg("token source failed, advancing fallback chain")
			continue
		}

		c.metrics.Success(src.Name(), depth)
		c.attachHistories(ctx, tokens)
		c.metrics.SetSnapshotSize(len(tokens))

		log.Debug().
			Str("source", src.Name()).
			Int("tokens", len(tokens)).
			Int("depth", depth).
			Dur("duration", time.Since(start)).
			Msg("fetch cycle served")
		return tokens
	}

	// Only reachable when the chain was built without a synthetic terminal.
	log.Error().Msg("every token source failed, serving empty collection")
	return []token.Token{}
}

// attachHistories enriches tokens that arrived without a history and whose
// symbol maps to a provider-native id. Enrichment failure of any scope
// degrades to absent histories, never to a failed cycle. Merging is keyed
// by symbol, so out-of-order lookup completion cannot reorder the basket.
func (c *Chain) attachHistories(ctx context.Context, tokens []token.Token) {
	if c.enricher == nil {
		return
	}

	var assets []history.Asset
	for _, t := range tokens {
		if t.PriceHistory != nil {
			continue
		}
		if id, ok := c.ids[t.Symbol]; ok {
			assets = append(assets, history.Asset{ID: id, Symbol: t.Symbol})
		}
	}
	if len(assets) == 0 {
		return
	}

	series := c.enricher.FetchAll(ctx, assets, c.points)
	c.metrics.HistoryResult("ok", len(series))
	c.metrics.HistoryResult("unavailable", len(assets)-len(series))

	for i := range tokens {
		if h, ok := series[tokens[i].Symbol]; ok {
			tokens[i].PriceHistory = h
		}
	}
}
