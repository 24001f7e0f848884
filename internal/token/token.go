package token

import (
	"fmt"
	"time"
)

// Category classifies how a token entered the screener universe.
type Category string

const (
	CategoryNew      Category = "new"
	CategoryTrending Category = "trending"
	CategoryMigrated Category = "migrated"
)

// Token is one tradable asset's current market snapshot. Fields a source
// cannot supply are zero-filled (Liquidity, Holders) or defaulted
// (Age "N/A", Verified true for exchange-listed assets).
type Token struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"`
	Price          float64   `json:"price"`
	PriceChange24h float64   `json:"priceChange24h"`
	Volume24h      float64   `json:"volume24h"`
	MarketCap      float64   `json:"marketCap"`
	Liquidity      float64   `json:"liquidity"`
	Holders        int64     `json:"holders"`
	Age            string    `json:"age"`
	Category       Category  `json:"category"`
	Verified       bool      `json:"verified"`
	RiskScore      int       `json:"riskScore"`
	LastUpdated    time.Time `json:"lastUpdated"`
	PriceHistory   []float64 `json:"priceHistory,omitempty"`
	TxnsBuys       int64     `json:"txnsBuys"`
	TxnsSells      int64     `json:"txnsSells"`
	M5Change       float64   `json:"m5Change"`
	H1Change       float64   `json:"h1Change"`
	H6Change       float64   `json:"h6Change"`
	H24Change      float64   `json:"h24Change"`
}

// MaxSymbolLen is the display ticker limit.
const MaxSymbolLen = 5

// Validate checks the invariants every token must hold regardless of which
// source produced it.
func (t *Token) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("token id cannot be empty")
	}
	if len(t.Symbol) == 0 || len(t.Symbol) > MaxSymbolLen {
		return fmt.Errorf("symbol %q must be 1-%d chars", t.Symbol, MaxSymbolLen)
	}
	if t.Price < 0 {
		return fmt.Errorf("price must be non-negative, got %f", t.Price)
	}
	if t.RiskScore < 0 || t.RiskScore > 100 {
		return fmt.Errorf("risk score must be in [0,100], got %d", t.RiskScore)
	}
	switch t.Category {
	case CategoryNew, CategoryTrending, CategoryMigrated:
	default:
		return fmt.Errorf("unknown category %q", t.Category)
	}
	return nil
}

// Patch carries a partial update for a single token. Nil fields are left
// untouched by Apply.
type Patch struct {
	Price          *float64   `json:"price,omitempty"`
	PriceChange24h *float64   `json:"priceChange24h,omitempty"`
	Volume24h      *float64   `json:"volume24h,omitempty"`
	MarketCap      *float64   `json:"marketCap,omitempty"`
	Liquidity      *float64   `json:"liquidity,omitempty"`
	Holders        *int64     `json:"holders,omitempty"`
	Verified       *bool      `json:"verified,omitempty"`
	RiskScore      *int       `json:"riskScore,omitempty"`
	TxnsBuys       *int64     `json:"txnsBuys,omitempty"`
	TxnsSells      *int64     `json:"txnsSells,omitempty"`
	M5Change       *float64   `json:"m5Change,omitempty"`
	H1Change       *float64   `json:"h1Change,omitempty"`
	H6Change       *float64   `json:"h6Change,omitempty"`
	H24Change      *float64   `json:"h24Change,omitempty"`
	PriceHistory   *[]float64 `json:"priceHistory,omitempty"`
}

// Apply merges the set fields into t. LastUpdated stamping is the owner's
// job, not Apply's, so pure merges stay testable.
func (p *Patch) Apply(t *Token) {
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.PriceChange24h != nil {
		t.PriceChange24h = *p.PriceChange24h
	}
	if p.Volume24h != nil {
		t.Volume24h = *p.Volume24h
	}
	if p.MarketCap != nil {
		t.MarketCap = *p.MarketCap
	}
	if p.Liquidity != nil {
		t.Liquidity = *p.Liquidity
	}
	if p.Holders != nil {
		t.Holders = *p.Holders
	}
	if p.Verified != nil {
		t.Verified = *p.Verified
	}
	if p.RiskScore != nil {
		t.RiskScore = *p.RiskScore
	}
	if p.TxnsBuys != nil {
		t.TxnsBuys = *p.TxnsBuys
	}
	if p.TxnsSells != nil {
		t.TxnsSells = *p.TxnsSells
	}
	if p.M5Change != nil {
		t.M5Change = *p.M5Change
	}
	if p.H1Change != nil {
		t.H1Change = *p.H1Change
	}
	if p.H6Change != nil {
		t.H6Change = *p.H6Change
	}
	if p.H24Change != nil {
		t.H24Change = *p.H24Change
	}
	if p.PriceHistory != nil {
		t.PriceHistory = *p.PriceHistory
	}
}
