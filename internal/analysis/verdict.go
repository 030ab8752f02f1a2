package analysis

import "github.com/sells-group/lotcheck/internal/model"

// SimpleVerdict classifies the observed median against the lot's estimate
// range. Any zero input yields unknown: a zero estimate is treated the same
// as a missing one, so classification never errors. Medians exactly on a
// boundary are fair.
func SimpleVerdict(estMin, estMax float64, stats model.PriceStats) model.Verdict {
	med := stats.Median
	if med == 0 || estMin == 0 || estMax == 0 {
		return model.VerdictUnknown
	}
	if med < estMin {
		return model.VerdictUnderpriced
	}
	if med > estMax {
		return model.VerdictOverpriced
	}
	return model.VerdictFair
}

// Confidence is the coarse two-tier heuristic: 0.6 with five or more priced
// comparables, 0.4 otherwise. Not a statistical confidence level.
func Confidence(pricedCount int) float64 {
	if pricedCount >= 5 {
		return 0.6
	}
	return 0.4
}

// Recommend maps a verdict to a buy/skip/watch recommendation. Fair and
// unknown both map to watch.
func Recommend(v model.Verdict) string {
	switch v {
	case model.VerdictUnderpriced:
		return model.RecommendBuy
	case model.VerdictOverpriced:
		return model.RecommendSkip
	default:
		return model.RecommendWatch
	}
}
