package compare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lotcheck/internal/model"
	"github.com/sells-group/lotcheck/pkg/ebay"
)

func TestCompareLotAnalysisShape(t *testing.T) {
	ebayMock := new(mockEbay)
	ebayMock.On("Search", mock.Anything, "Rolex Submariner 16610", 20).
		Return([]ebay.ItemSummary{
			summaryWithPrice("Rolex Submariner 16610 full set", 8200),
			summaryWithPrice("Rolex Submariner 16610", 7900),
			summaryWithPrice("Omega Seamaster", 2100),
		}, nil)

	svc := New(testConfig(), nil, new(mockApify), ebayMock, nil)

	raw := map[string]any{
		"title":               "Rolex Submariner 16610",
		"category":            "watches",
		"estimatedPriceMin": 5000.0,
		"estimatedPriceMax": 7000.0,
	}

	res, err := svc.compareLot(context.Background(), raw, false)
	require.NoError(t, err)

	assert.Equal(t, raw, res.Source)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, model.VerdictOverpriced, res.Analysis.Verdict)
	assert.Equal(t, model.RecommendSkip, res.Analysis.Recommendation)
	assert.InDelta(t, 0.4, res.Analysis.Confidence, 1e-9)
	assert.Equal(t, "Heuristic verdict using eBay median vs Catawiki estimate.", res.Analysis.Notes)
	assert.NotNil(t, res.Analysis.KeyDifferences)

	require.NotNil(t, res.Analysis.PriceSummary.Catawiki.EstimateMin)
	assert.InDelta(t, 5000.0, *res.Analysis.PriceSummary.Catawiki.EstimateMin, 1e-9)

	stats := res.Analysis.PriceSummary.Ebay
	assert.Equal(t, 3, stats.N)
	assert.InDelta(t, 7900.0, stats.Median, 1e-9)
}

func TestCompareLotMissingEstimates(t *testing.T) {
	ebayMock := new(mockEbay)
	ebayMock.On("Search", mock.Anything, "Mystery lot", 20).
		Return([]ebay.ItemSummary{summaryWithPrice("Mystery lot", 50)}, nil)

	svc := New(testConfig(), nil, new(mockApify), ebayMock, nil)

	res, err := svc.compareLot(context.Background(), map[string]any{"title": "Mystery lot"}, false)
	require.NoError(t, err)

	assert.Equal(t, model.VerdictUnknown, res.Analysis.Verdict)
	assert.Equal(t, model.RecommendWatch, res.Analysis.Recommendation)
	assert.Nil(t, res.Analysis.PriceSummary.Catawiki.EstimateMin)
	assert.Nil(t, res.Analysis.PriceSummary.Catawiki.EstimateMax)
}

func TestCompareLotNoCandidates(t *testing.T) {
	ebayMock := new(mockEbay)
	ebayMock.On("Search", mock.Anything, "Obscure lot", 20).
		Return([]ebay.ItemSummary{}, nil)

	svc := New(testConfig(), nil, new(mockApify), ebayMock, nil)

	raw := map[string]any{
		"title":               "Obscure lot",
		"estimatedPriceMin": 10.0,
		"estimatedPriceMax": 20.0,
	}
	res, err := svc.compareLot(context.Background(), raw, false)
	require.NoError(t, err)

	assert.NotNil(t, res.Ebay)
	assert.Empty(t, res.Ebay)
	assert.Equal(t, model.VerdictUnknown, res.Analysis.Verdict)
	assert.Equal(t, 0, res.Analysis.PriceSummary.Ebay.N)
}
