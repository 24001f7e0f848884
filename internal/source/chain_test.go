package source

import (
	"context"
	"testing"

	"github.com/sawpanic/tokenwatch/internal/history"
	"github.com/sawpanic/tokenwatch/internal/synthetic"
	"github.com/sawpanic/tokenwatch/internal/token"
)

type stubSource struct {
	name   string
	tokens []token.Token
	err    error
	calls  int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) ([]token.Token, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]token.Token, len(s.tokens))
	copy(out, s.tokens)
	return out, nil
}

type stubEnricher struct {
	series map[string][]float64
	calls  int
	assets []history.Asset
}

func (e *stubEnricher) FetchAll(ctx context.Context, assets []history.Asset, points int) map[string][]float64 {
	e.calls++
	e.assets = assets
	if e.series == nil {
		return map[string][]float64{}
	}
	return e.series
}

func basketTokens(symbols ...string) []token.Token {
	out := make([]token.Token, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, token.Token{
			ID:       sym,
			Name:     sym,
			Symbol:   sym,
			Price:    1,
			Age:      "N/A",
			Category: token.CategoryTrending,
			Verified: true,
		})
	}
	return out
}

func TestChain_PrimaryServes(t *testing.T) {
	primary := &stubSource{name: "primary", tokens: basketTokens("BTC", "ETH")}
	secondary := &stubSource{name: "secondary", tokens: basketTokens("BTC", "ETH")}
	enricher := &stubEnricher{series: map[string][]float64{"BTC": {1, 2}, "ETH": {3, 4}}}

	chain := NewChain([]TokenSource{primary, secondary}, enricher, testBasket, 2, nil)
	tokens := chain.Fetch(context.Background())

	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not be called when primary succeeds, got %d calls", secondary.calls)
	}
	if enricher.calls != 1 {
		t.Errorf("expected one enrichment batch, got %d", enricher.calls)
	}
	if tokens[0].PriceHistory == nil || tokens[1].PriceHistory == nil {
		t.Error("expected histories attached to primary results")
	}
}

func TestChain_FallsBackToSecondary(t *testing.T) {
	primary := &stubSource{name: "primary", err: &SourceError{Source: "primary", Code: ErrCodeTransport, Message: "down"}}
	secondary := &stubSource{name: "secondary", tokens: basketTokens("BTC", "ETH", "SOL")}
	enricher := &stubEnricher{series: map[string][]float64{"ETH": {3, 4}}}

	chain := NewChain([]TokenSource{primary, secondary}, enricher, testBasket, 2, nil)
	tokens := chain.Fetch(context.Background())

	if primary.calls != 1 {
		t.Errorf("primary must be tried exactly once per cycle, got %d", primary.calls)
	}
	if secondary.calls != 1 {
		t.Errorf("secondary must be tried after primary failure, got %d", secondary.calls)
	}
	if len(tokens) != 3 {
		t.Fatalf("expected secondary's 3 tokens, got %d", len(tokens))
	}
	if enricher.calls != 1 {
		t.Error("enrichment must still be attempted against secondary results")
	}
	for _, tok := range tokens {
		if tok.Category != token.CategoryTrending {
			t.Errorf("token %s missing default category stamp", tok.Symbol)
		}
	}
	if tokens[1].PriceHistory == nil {
		t.Error("ETH history should be attached")
	}
	if tokens[0].PriceHistory != nil || tokens[2].PriceHistory != nil {
		t.Error("unavailable histories must stay absent, not zero-filled")
	}
}

func TestChain_FullFailureServesSynthetic(t *testing.T) {
	primary := &stubSource{name: "primary", err: &SourceError{Source: "primary", Code: ErrCodeTransport, Message: "down"}}
	secondary := &stubSource{name: "secondary", err: &SourceError{Source: "secondary", Code: ErrCodeBadStatus, Message: "HTTP 429"}}
	terminal := NewSynthetic(synthetic.NewGenerator(1), FallbackComposition)
	enricher := &stubEnricher{}

	chain := NewChain([]TokenSource{primary, secondary, terminal}, enricher, testBasket, 30, nil)
	tokens := chain.Fetch(context.Background())

	if len(tokens) != 10 {
		t.Fatalf("expected the synthetic fallback composition of 10 tokens, got %d", len(tokens))
	}
	for _, tok := range tokens {
		if tok.Category != token.CategoryTrending {
			t.Errorf("token %s: expected trending category, got %s", tok.ID, tok.Category)
		}
		if len(tok.PriceHistory) != synthetic.HistoryPoints {
			t.Errorf("token %s: expected %d history points, got %d", tok.ID, synthetic.HistoryPoints, len(tok.PriceHistory))
		}
		for _, p := range tok.PriceHistory {
			if p <= 0 {
				t.Errorf("token %s: non-positive history point %f", tok.ID, p)
			}
		}
	}

	// Synthetic symbols are not in the basket, so no enrichment request
	// fires — the fallback path is fully network-free.
	if enricher.calls != 0 {
		t.Errorf("synthetic fallback must not trigger enrichment, got %d calls", enricher.calls)
	}
}

func TestChain_EnrichmentFailureDegrades(t *testing.T) {
	primary := &stubSource{name: "primary", tokens: basketTokens("BTC", "ETH")}
	enricher := &stubEnricher{} // returns an empty map: whole batch failed

	chain := NewChain([]TokenSource{primary}, enricher, testBasket, 30, nil)
	tokens := chain.Fetch(context.Background())

	if len(tokens) != 2 {
		t.Fatalf("enrichment failure must not fail the cycle, got %d tokens", len(tokens))
	}
	for _, tok := range tokens {
		if tok.PriceHistory != nil {
			t.Errorf("token %s: expected absent history after batch failure", tok.Symbol)
		}
	}
}

func TestChain_SkipsEnrichmentForPrefilledHistories(t *testing.T) {
	prefilled := basketTokens("BTC")
	prefilled[0].PriceHistory = []float64{1, 2, 3}
	primary := &stubSource{name: "primary", tokens: prefilled}
	enricher := &stubEnricher{}

	chain := NewChain([]TokenSource{primary}, enricher, testBasket, 3, nil)
	chain.Fetch(context.Background())

	if enricher.calls != 0 {
		t.Errorf("tokens with histories must not be re-enriched, got %d calls", enricher.calls)
	}
}

func TestChain_MergesBySymbolNotCompletionOrder(t *testing.T) {
	primary := &stubSource{name: "primary", tokens: basketTokens("BTC", "ETH", "SOL")}
	// The map carries no ordering: the merge must key by symbol.
	enricher := &stubEnricher{series: map[string][]float64{
		"SOL": {30, 31},
		"BTC": {10, 11},
		"ETH": {20, 21},
	}}

	chain := NewChain([]TokenSource{primary}, enricher, testBasket, 2, nil)
	tokens := chain.Fetch(context.Background())

	if tokens[0].Symbol != "BTC" || tokens[1].Symbol != "ETH" || tokens[2].Symbol != "SOL" {
		t.Fatalf("basket order not preserved: %s %s %s", tokens[0].Symbol, tokens[1].Symbol, tokens[2].Symbol)
	}
	if tokens[0].PriceHistory[0] != 10 {
		t.Errorf("BTC got wrong history: %v", tokens[0].PriceHistory)
	}
	if tokens[1].PriceHistory[0] != 20 {
		t.Errorf("ETH got wrong history: %v", tokens[1].PriceHistory)
	}
	if tokens[2].PriceHistory[0] != 30 {
		t.Errorf("SOL got wrong history: %v", tokens[2].PriceHistory)
	}
}
