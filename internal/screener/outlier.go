package screener

import (
	"github.com/narumiruna/go-iforest/pkg/iforest"

	"acionista/internal/domain"
)

// minOutlierRows is the smallest result set worth fitting a forest on.
const minOutlierRows = 8

// MarkOutliers flags rows whose yield/valuation shape is isolated from
// the rest of the result set. A stock that only makes a screen because
// its price collapsed looks very different from its peers, and an
// isolation forest picks that up without hand-tuned thresholds. Small
// screens come back untouched.
func MarkOutliers(rows []domain.ScreenRow) []domain.ScreenRow {
	if len(rows) < minOutlierRows {
		return rows
	}

	samples := make([][]float64, len(rows))
	for i, r := range rows {
		samples[i] = []float64{r.Yield, r.PL, r.PVP, r.ROE, r.Liquidity}
	}

	forest := iforest.New()
	forest.Fit(samples)

	for i, pred := range forest.Predict(samples) {
		if pred == 1 {
			rows[i].Outlier = true
		}
	}
	return rows
}
