package compare

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lotcheck/internal/analysis"
	"github.com/sells-group/lotcheck/internal/model"
	"github.com/sells-group/lotcheck/internal/retry"
	"github.com/sells-group/lotcheck/pkg/ebay"
)

const verdictNote = "Heuristic verdict using eBay median vs Catawiki estimate."

// compareLot runs the full pipeline for a single raw lot: parse, search,
// match, summarize, optionally research, then classify.
func (s *Service) compareLot(ctx context.Context, raw map[string]any, includeResearch bool) (*model.ComparisonResult, error) {
	lot, err := model.LotFromRaw(raw)
	if err != nil {
		return nil, err
	}

	candidates, err := retry.DoVal(ctx, retry.DefaultConfig(), "ebay search",
		func(ctx context.Context) ([]ebay.ItemSummary, error) {
			return s.ebay.Search(ctx, lot.Title, s.cfg.Ebay.SearchLimit)
		})
	if err != nil {
		return nil, eris.Wrapf(err, "compare: ebay search for %q", lot.Title)
	}

	top := analysis.MatchTop(lot.Title, candidates, s.cfg.Compare.TopMatches)
	if top == nil {
		top = []ebay.ItemSummary{}
	}
	ebayStats := analysis.SummarizePrices(top, analysis.CandidatePrice)

	research := []model.ResearchListing{}
	var researchStats model.PriceStats
	if includeResearch && s.research != nil {
		domains := SitesForCategory(lot.Category)
		if len(domains) > 0 {
			listings, err := s.research.Research(ctx, lot.Title, domains)
			if err != nil {
				return nil, eris.Wrapf(err, "compare: research for %q", lot.Title)
			}
			if listings != nil {
				research = listings
			}
			researchStats = analysis.SummarizePrices(research, analysis.ResearchPrice)
		}
	}

	verdict := analysis.SimpleVerdict(lot.EstimatedPriceMin, lot.EstimatedPriceMax, ebayStats)

	zap.L().Debug("compare: lot analyzed",
		zap.String("title", lot.Title),
		zap.String("verdict", string(verdict)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", len(top)),
		zap.Int("priced", ebayStats.N),
	)

	return &model.ComparisonResult{
		Source:   raw,
		Ebay:     top,
		Research: research,
		Analysis: &model.Analysis{
			Verdict:    verdict,
			Confidence: analysis.Confidence(ebayStats.N),
			PriceSummary: model.PriceSummary{
				Catawiki: model.EstimateRange{
					EstimateMin: estimatePtr(lot.EstimatedPriceMin),
					EstimateMax: estimatePtr(lot.EstimatedPriceMax),
				},
				Ebay:     ebayStats,
				Research: researchStats,
			},
			KeyDifferences: []string{},
			Recommendation: analysis.Recommend(verdict),
			Notes:          verdictNote,
		},
	}, nil
}

// estimatePtr treats a zero estimate as absent.
func estimatePtr(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
