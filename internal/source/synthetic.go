package source

import (
	"context"

	"github.com/sawpanic/tokenwatch/internal/synthetic"
	"github.com/sawpanic/tokenwatch/internal/token"
)

// CategorySlice is one segment of a synthetic basket composition.
type CategorySlice struct {
	Category token.Category
	Count    int
}

// FallbackComposition is what the chain serves when every network source is
// down: a small trending-only set, matching the last-resort behavior of the
// live pipeline.
var FallbackComposition = []CategorySlice{
	{Category: token.CategoryTrending, Count: 10},
}

// SimulationComposition is the richer spread used when the pipeline runs
// network-free by choice rather than by failure.
var SimulationComposition = []CategorySlice{
	{Category: token.CategoryNew, Count: 10},
	{Category: token.CategoryTrending, Count: 10},
	{Category: token.CategoryMigrated, Count: 6},
}

// Synthetic is the terminal source: no network, never fails, and its tokens
// arrive with self-contained histories so the chain skips enrichment.
type Synthetic struct {
	gen         *synthetic.Generator
	composition []CategorySlice
}

func NewSynthetic(gen *synthetic.Generator, composition []CategorySlice) *Synthetic {
	if len(composition) == 0 {
		composition = FallbackComposition
	}
	return &Synthetic{gen: gen, composition: composition}
}

func (s *Synthetic) Name() string {
	return "synthetic"
}

func (s *Synthetic) Fetch(ctx context.Context) ([]token.Token, error) {
	var out []token.Token
	offset := 0
	for _, slice := range s.composition {
		out = append(out, s.gen.Tokens(slice.Category, slice.Count, offset)...)
		offset += slice.Count
	}
	return out, nil
}
