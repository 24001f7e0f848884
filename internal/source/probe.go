package source

import (
	"math"
	"strconv"
	"strings"
)

// probeNumber resolves one metric from a decoded provider record by trying
// candidate key paths in priority order, first-present-wins. Paths are
// dot-separated for nested quote objects ("quotes.USD.price"). Anything
// absent, non-numeric, or non-finite degrades to 0 — a single malformed
// field must never abort the basket.
func probeNumber(record map[string]any, paths ...string) float64 {
	for _, path := range paths {
		var cur any = record
		found := true
		for _, key := range strings.Split(path, ".") {
			m, ok := cur.(map[string]any)
			if !ok {
				found = false
				break
			}
			cur, ok = m[key]
			if !ok {
				found = false
				break
			}
		}
		if !found {
			continue
		}
		if v, ok := coerceNumber(cur); ok {
			return v
		}
	}
	return 0
}

func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
