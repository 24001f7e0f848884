package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/sawpanic/tokenwatch/internal/httpclient"
	"github.com/sawpanic/tokenwatch/internal/net/breaker"
	"github.com/sawpanic/tokenwatch/internal/token"
)

// FreeCryptoConfig holds the primary market-data endpoint settings.
type FreeCryptoConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	RPS            float64
	Burst          int
}

// FreeCrypto is the primary token source. Its response shapes vary between
// plan tiers, so every metric is probed over multiple candidate key paths.
// A missing API key is not an error here: the request is still made and the
// provider's rejection fails the source, advancing the chain.
type FreeCrypto struct {
	config  FreeCryptoConfig
	basket  []BasketEntry
	client  *httpclient.Pool
	breaker *breaker.Breaker
	limiter *rate.Limiter
}

func NewFreeCrypto(config FreeCryptoConfig, basket []BasketEntry) *FreeCrypto {
	if config.RPS <= 0 {
		config.RPS = 2
	}
	if config.Burst <= 0 {
		config.Burst = 2
	}
	return &FreeCrypto{
		config: config,
		basket: basket,
		client: httpclient.NewPool(httpclient.Config{
			MaxConcurrency: 2,
			RequestTimeout: config.RequestTimeout,
		}),
		breaker: breaker.New("freecrypto"),
		limiter: rate.NewLimiter(rate.Limit(config.RPS), config.Burst),
	}
}

func (s *FreeCrypto) Name() string {
	return "freecrypto"
}

func (s *FreeCrypto) Fetch(ctx context.Context) ([]token.Token, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &SourceError{Source: s.Name(), Code: ErrCodeRateLimit, Message: "rate limiter wait aborted", Cause: err}
	}

	out, err := s.breaker.Execute(func() (any, error) {
		return s.fetchBasket(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &SourceError{Source: s.Name(), Code: ErrCodeBreakerOpen, Message: "circuit open", Cause: err}
		}
		return nil, err
	}
	return out.([]token.Token), nil
}

func (s *FreeCrypto) fetchBasket(ctx context.Context) ([]token.Token, error) {
	symbols := make([]string, 0, len(s.basket))
	for _, entry := range s.basket {
		symbols = append(symbols, entry.Symbol)
	}

	endpoint := fmt.Sprintf("%s/market?symbols=%s", s.config.BaseURL, url.QueryEscape(strings.Join(symbols, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Code: ErrCodeTransport, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{Source: s.Name(), Code: ErrCodeBadStatus, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &SourceError{Source: s.Name(), Code: ErrCodeDecode, Message: "malformed payload", Cause: err}
	}

	now := time.Now()
	tokens := make([]token.Token, 0, len(s.basket))
	for _, entry := range s.basket {
		record := lookupRecord(payload, entry.Symbol)

		price := probeNumber(record, "price", "quotes.USD.price", "last_price")
		if price < 0 {
			price = 0
		}
		change := probeNumber(record, "percent_change_24h", "change24h", "quotes.USD.percent_change_24h")

		tokens = append(tokens, token.Token{
			ID:             entry.Symbol,
			Name:           entry.Name,
			Symbol:         entry.Symbol,
			Price:          price,
			PriceChange24h: change,
			Volume24h:      probeNumber(record, "volume_24h", "quotes.USD.volume_24h"),
			MarketCap:      probeNumber(record, "market_cap", "quotes.USD.market_cap"),
			Age:            "N/A",
			Category:       token.CategoryTrending,
			Verified:       true,
			RiskScore:      rand.Intn(100),
			LastUpdated:    now,
			H24Change:      change,
		})
	}
	return tokens, nil
}

// lookupRecord probes the per-symbol entry under the containers FreeCrypto
// responses have been observed to use: data, result, then the root object.
func lookupRecord(payload map[string]any, symbol string) map[string]any {
	for _, container := range []string{"data", "result"} {
		if m, ok := payload[container].(map[string]any); ok {
			if record, ok := m[symbol].(map[string]any); ok {
				return record
			}
		}
	}
	if record, ok := payload[symbol].(map[string]any); ok {
		return record
	}
	return map[string]any{}
}
