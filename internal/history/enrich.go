package history

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/tokenwatch/internal/httpclient"
)

// Asset pairs a provider-native identifier with the display symbol the
// result map is keyed by.
type Asset struct {
	ID     string
	Symbol string
}

// EnricherConfig holds the historical endpoint settings.
type EnricherConfig struct {
	BaseURL        string
	VsCurrency     string
	LookbackDays   int
	RequestTimeout time.Duration
	MaxConcurrency int
}

// Enricher fetches per-asset historical price series and resamples them to a
// fixed length. Lookups fan out concurrently and join on indexed result
// slots, so the caller always sees input-order results no matter which
// request finishes first.
type Enricher struct {
	config EnricherConfig
	client *httpclient.Pool
}

func NewEnricher(config EnricherConfig) *Enricher {
	if config.VsCurrency == "" {
		config.VsCurrency = "usd"
	}
	if config.LookbackDays <= 0 {
		config.LookbackDays = 1
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 8
	}
	return &Enricher{
		config: config,
		client: httpclient.NewPool(httpclient.Config{
			MaxConcurrency: config.MaxConcurrency,
			RequestTimeout: config.RequestTimeout,
		}),
	}
}

// marketChart is the subset of the market-chart payload we consume. Each
// entry is a [timestamp, price] pair; only the price column matters.
type marketChart struct {
	Prices [][]float64 `json:"prices"`
}

// FetchAll retrieves and resamples history for every asset concurrently.
// Each failure is isolated: the failed asset's symbol is simply absent from
// the returned map. FetchAll itself never fails.
func (e *Enricher) FetchAll(ctx context.Context, assets []Asset, points int) map[string][]float64 {
	results := make([][]float64, len(assets))

	var wg sync.WaitGroup
	for i, asset := range assets {
		wg.Add(1)
		go func(slot int, asset Asset) {
			defer wg.Done()

			series, err := e.fetchSeries(ctx, asset.ID)
			if err != nil {
				log.Debug().Err(err).Str("asset", asset.ID).Msg("history lookup degraded")
				return
			}
			if resampled, ok := Resample(series, points); ok {
				results[slot] = resampled
			}
		}(i, asset)
	}
	wg.Wait()

	out := make(map[string][]float64, len(assets))
	for i, asset := range assets {
		if results[i] != nil {
			out[asset.Symbol] = results[i]
		}
	}
	return out
}

func (e *Enricher) fetchSeries(ctx context.Context, id string) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=%s&days=%d",
		e.config.BaseURL, url.PathEscape(id), e.config.VsCurrency, e.config.LookbackDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var chart marketChart
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode market chart: %w", err)
	}

	series := make([]float64, 0, len(chart.Prices))
	for _, pair := range chart.Prices {
		if len(pair) < 2 {
			continue
		}
		series = append(series, pair[1])
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("market chart for %s has no price points", id)
	}
	return series, nil
}
