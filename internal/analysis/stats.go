package analysis

import (
	"math"
	"sort"

	"github.com/sells-group/lotcheck/internal/model"
	"github.com/sells-group/lotcheck/pkg/ebay"
)

// SummarizePrices computes count/min/median/max over the values the
// extractor successfully produces. Items without a finite price are skipped
// and never fail the summary.
func SummarizePrices[T any](items []T, price func(T) (float64, bool)) model.PriceStats {
	vals := make([]float64, 0, len(items))
	for _, it := range items {
		v, ok := price(it)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		vals = append(vals, v)
	}

	if len(vals) == 0 {
		return model.PriceStats{}
	}

	sort.Float64s(vals)
	n := len(vals)

	var median float64
	if n%2 == 1 {
		median = vals[n/2]
	} else {
		median = (vals[n/2-1] + vals[n/2]) / 2
	}

	return model.PriceStats{
		N:      n,
		Min:    vals[0],
		Median: median,
		Max:    vals[n-1],
	}
}

// CandidatePrice extracts the nested price.value of an eBay search hit.
func CandidatePrice(it ebay.ItemSummary) (float64, bool) {
	if it.Price == nil {
		return 0, false
	}
	return it.Price.Value.Float64()
}

// ResearchPrice extracts the flat price of a research listing.
func ResearchPrice(l model.ResearchListing) (float64, bool) {
	return l.Price.Float64()
}
