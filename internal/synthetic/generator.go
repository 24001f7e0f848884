package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sawpanic/tokenwatch/internal/token"
)

var adjectives = []string{
	"Atomic", "Quantum", "Solar", "Lunar", "Neon", "Hyper", "Silent", "Rapid",
	"Crystal", "Iron", "Golden", "Cyber", "Polar", "Apex", "Echo",
}

var nouns = []string{
	"Tiger", "Phoenix", "Dragon", "Shark", "Wolf", "Falcon", "Comet", "Nova",
	"Panda", "Raven", "Orchid", "Saber", "Vortex", "Beacon", "Pulse",
}

// HistoryPoints is the length of every generated price history.
const HistoryPoints = 30

// Generator produces fully populated synthetic tokens. Names and symbols
// derive deterministically from the index so repeated calls within one run
// are stable; every numeric field is randomized within fixed ranges.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Token builds one synthetic token for the given category and index.
func (g *Generator) Token(category token.Category, index int) token.Token {
	g.mu.Lock()
	defer g.mu.Unlock()

	adj := adjectives[index%len(adjectives)]
	noun := nouns[(index/len(adjectives))%len(nouns)]
	name := fmt.Sprintf("%s %s %d", adj, noun, index)

	symbol := strings.ToUpper(fmt.Sprintf("%c%c%03d", adj[0], noun[0], index))
	if len(symbol) > token.MaxSymbolLen {
		symbol = symbol[:token.MaxSymbolLen]
	}

	return token.Token{
		ID:             fmt.Sprintf("%s-%d", category, index),
		Name:           name,
		Symbol:         symbol,
		Price:          round6(g.rng.Float64()*9.99 + 0.01),
		PriceChange24h: round2((g.rng.Float64() - 0.5) * 50),
		Volume24h:      float64(g.rng.Int63n(50_000_000)),
		MarketCap:      float64(g.rng.Int63n(5_000_000_000)),
		Liquidity:      float64(g.rng.Int63n(5_000_000)),
		Holders:        g.rng.Int63n(500_000),
		Age:            fmt.Sprintf("%dm", g.rng.Intn(60)+1),
		Category:       category,
		Verified:       g.rng.Float64() > 0.7,
		RiskScore:      g.rng.Intn(100),
		LastUpdated:    time.Now(),
		PriceHistory:   g.priceHistory(),
		TxnsBuys:       g.rng.Int63n(5000),
		TxnsSells:      g.rng.Int63n(3000),
		M5Change:       round2((g.rng.Float64() - 0.5) * 30),
		H1Change:       round2((g.rng.Float64() - 0.5) * 40),
		H6Change:       round2((g.rng.Float64() - 0.5) * 50),
		H24Change:      round2((g.rng.Float64() - 0.5) * 60),
	}
}

// Tokens builds n tokens of one category with indices offset..offset+n-1.
func (g *Generator) Tokens(category token.Category, n, offset int) []token.Token {
	out := make([]token.Token, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Token(category, offset+i))
	}
	return out
}

// priceHistory walks a lightly biased random walk with a strictly positive
// floor, so the series never touches zero.
func (g *Generator) priceHistory() []float64 {
	history := make([]float64, 0, HistoryPoints)
	price := g.rng.Float64()*50 + 0.1
	for i := 0; i < HistoryPoints; i++ {
		price = math.Max(0.0001, price*(1+(g.rng.Float64()-0.45)*0.06))
		history = append(history, round6(price))
	}
	return history
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func round2(v float64) float64 {
	return math.Round(v*1e2) / 1e2
}
