package analysis

import "acionista/internal/domain"

// ThrottleSells caps aggregate recommended sell proceeds against the
// monthly budget that is still open. Recommendations are consumed in the
// resolver's output order, not re-ranked by urgency; each one may sell
// at most floor(min(position value, remaining) / quote) shares.
//
// remaining never goes negative: a month already over the cap throttles
// every quantity to zero.
func ThrottleSells(sells []domain.Recommendation, monthlyCap, soldThisMonth float64) ([]domain.Recommendation, float64) {
	remaining := monthlyCap - soldThisMonth
	if remaining < 0 {
		remaining = 0
	}

	out := make([]domain.Recommendation, len(sells))
	copy(out, sells)

	budget := remaining
	for i := range out {
		quote := out[i].Row.Quote
		if quote <= 0 {
			out[i].Quantity = 0
			continue
		}
		proceeds := quote * float64(out[i].Row.Quantity)
		if proceeds > budget {
			proceeds = budget
		}
		qty := int(proceeds / quote)
		out[i].Quantity = qty
		budget -= float64(qty) * quote
	}

	return out, remaining
}
