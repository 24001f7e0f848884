package main

import (
	"time"

	"github.com/sawpanic/tokenwatch/internal/config"
	"github.com/sawpanic/tokenwatch/internal/history"
	"github.com/sawpanic/tokenwatch/internal/metrics"
	"github.com/sawpanic/tokenwatch/internal/source"
	"github.com/sawpanic/tokenwatch/internal/synthetic"
)

// buildChain wires the acquisition pipeline. In simulate mode the chain is
// pinned to the synthetic source with the richer category spread and no
// enricher, so no network call can ever fire.
func buildChain(cfg *config.Config, simulate bool, set *metrics.Set) *source.Chain {
	gen := synthetic.NewGenerator(time.Now().UnixNano())
	basket := source.DefaultBasket

	if simulate {
		sources := []source.TokenSource{
			source.NewSynthetic(gen, source.SimulationComposition),
		}
		return source.NewChain(sources, nil, basket, cfg.History.Points, set)
	}

	primary := source.NewFreeCrypto(source.FreeCryptoConfig{
		BaseURL:        cfg.Sources.Primary.BaseURL,
		APIKey:         cfg.Sources.Primary.APIKey,
		RequestTimeout: cfg.Sources.Primary.GetRequestTimeout(),
		RPS:            cfg.Sources.Primary.RPS,
		Burst:          cfg.Sources.Primary.Burst,
	}, basket)

	secondary := source.NewCoinGecko(source.CoinGeckoConfig{
		BaseURL:        cfg.Sources.Secondary.BaseURL,
		RequestTimeout: cfg.Sources.Secondary.GetRequestTimeout(),
		RPS:            cfg.Sources.Secondary.RPS,
		Burst:          cfg.Sources.Secondary.Burst,
	}, basket)

	enricher := history.NewEnricher(history.EnricherConfig{
		BaseURL:        cfg.History.BaseURL,
		LookbackDays:   cfg.History.LookbackDays,
		RequestTimeout: cfg.History.GetRequestTimeout(),
		MaxConcurrency: cfg.History.MaxConcurrency,
	})

	terminal := source.NewSynthetic(gen, source.FallbackComposition)

	sources := []source.TokenSource{primary, secondary, terminal}
	return source.NewChain(sources, enricher, basket, cfg.History.Points, set)
}
