package model

import "encoding/json"

// Verdict is the categorical price judgment for a lot.
type Verdict string

const (
	VerdictUnderpriced Verdict = "underpriced"
	VerdictFair        Verdict = "fair"
	VerdictOverpriced  Verdict = "overpriced"
	VerdictUnknown     Verdict = "unknown"
)

// Recommendation values derived from the verdict.
const (
	RecommendBuy   = "buy"
	RecommendWatch = "watch"
	RecommendSkip  = "skip"
)

// PriceStats summarizes a set of parsed numeric prices. N counts only values
// that parsed as finite numbers. When N is zero the other fields are
// meaningless and are omitted from the JSON encoding.
type PriceStats struct {
	N      int
	Min    float64
	Median float64
	Max    float64
}

type priceStatsJSON struct {
	N      int      `json:"n"`
	Min    *float64 `json:"min,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

func (s PriceStats) MarshalJSON() ([]byte, error) {
	if s.N == 0 {
		return []byte(`{"n":0}`), nil
	}
	return json.Marshal(priceStatsJSON{N: s.N, Min: &s.Min, Median: &s.Median, Max: &s.Max})
}

func (s *PriceStats) UnmarshalJSON(data []byte) error {
	var j priceStatsJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*s = PriceStats{N: j.N}
	if j.Min != nil {
		s.Min = *j.Min
	}
	if j.Median != nil {
		s.Median = *j.Median
	}
	if j.Max != nil {
		s.Max = *j.Max
	}
	return nil
}
