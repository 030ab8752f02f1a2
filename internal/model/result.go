package model

import (
	"github.com/sells-group/lotcheck/pkg/ebay"
)

// EstimateRange echoes the lot's Catawiki estimate range in the price
// summary. Nil means the estimate was absent from the scraped item.
type EstimateRange struct {
	EstimateMin *float64 `json:"estimateMin"`
	EstimateMax *float64 `json:"estimateMax"`
}

// PriceSummary nests the per-source price figures inside the analysis block.
type PriceSummary struct {
	Catawiki EstimateRange `json:"catawiki"`
	Ebay     PriceStats    `json:"ebay"`
	Research PriceStats    `json:"research"`
}

// Analysis is the heuristic judgment attached to one compared lot.
type Analysis struct {
	Verdict        Verdict      `json:"verdict"`
	Confidence     float64      `json:"confidence"`
	PriceSummary   PriceSummary `json:"price_summary"`
	KeyDifferences []string     `json:"key_differences"`
	Recommendation string       `json:"recommendation"`
	Notes          string       `json:"notes"`
}

// ComparisonResult is the per-lot output: the original scraped item, the
// top-matched eBay candidates, optional research listings, and the analysis.
// Error is set instead of Analysis when the lot failed and the batch ran
// with per-lot isolation.
type ComparisonResult struct {
	Source   map[string]any    `json:"source"`
	Ebay     []ebay.ItemSummary `json:"ebay"`
	Research []ResearchListing `json:"research"`
	Analysis *Analysis         `json:"analysis,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// CompareResponse is the full batch result for one compare request.
type CompareResponse struct {
	Items []ComparisonResult `json:"items"`
	Notes string             `json:"notes,omitempty"`
}
