package analysis

import (
	"sort"

	"acionista/internal/domain"
)

// Allocate distributes availableCash across the resolved buy set.
//
// Phase 1 splits the cash proportionally to weight and floors each slice
// to whole shares (a slice smaller than one share buys nothing). Phase 2
// ranks candidates by weight descending and hands the rounding remainder
// to each in turn — a single pass, matching the reference behavior, so a
// remainder can survive when only later candidates stay fundable.
//
// Total spend never exceeds availableCash. Σweight = 0 or non-positive
// cash yields an untouched plan with zero quantities.
func Allocate(buys []domain.Recommendation, availableCash float64) []domain.Recommendation {
	out := make([]domain.Recommendation, len(buys))
	copy(out, buys)

	if availableCash <= 0 {
		return out
	}
	totalWeight := 0.0
	for _, rec := range out {
		totalWeight += rec.Weight
	}
	if totalWeight <= 0 {
		return out
	}

	spent := 0.0
	for i := range out {
		quote := out[i].Row.Quote
		if quote <= 0 {
			continue
		}
		slice := out[i].Weight / totalWeight * availableCash
		if slice < quote {
			continue
		}
		qty := int(slice / quote)
		out[i].Quantity = qty
		out[i].Allocated = float64(qty) * quote
		spent += out[i].Allocated
	}

	remainder := availableCash - spent

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if out[order[a]].Weight != out[order[b]].Weight {
			return out[order[a]].Weight > out[order[b]].Weight
		}
		return out[order[a]].Ticker < out[order[b]].Ticker
	})

	for _, i := range order {
		if remainder <= 0 {
			break
		}
		quote := out[i].Row.Quote
		if quote <= 0 || remainder < quote {
			continue
		}
		extra := int(remainder / quote)
		out[i].Quantity += extra
		out[i].Allocated += float64(extra) * quote
		remainder -= float64(extra) * quote
	}

	return out
}
