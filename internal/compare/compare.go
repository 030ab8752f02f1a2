// Package compare implements the per-lot comparison pipeline and the batch
// orchestrator that fans it out across every lot of a compare request.
package compare

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lotcheck/internal/config"
	"github.com/sells-group/lotcheck/internal/model"
	"github.com/sells-group/lotcheck/internal/store"
	"github.com/sells-group/lotcheck/pkg/apify"
	"github.com/sells-group/lotcheck/pkg/ebay"
)

// emptyAcquisitionNote is returned when the scraper yields no lots.
const emptyAcquisitionNote = "No items found from Catawiki"

// Service orchestrates comparisons: one acquisition call, then a concurrent
// per-lot pipeline over the results.
type Service struct {
	cfg      *config.Config
	store    store.Store
	apify    apify.Client
	ebay     ebay.Client
	research Researcher
}

// New creates a Service with all collaborators. The store may be nil, in
// which case no run history is recorded.
func New(cfg *config.Config, st store.Store, apifyClient apify.Client, ebayClient ebay.Client, researcher Researcher) *Service {
	return &Service{
		cfg:      cfg,
		store:    st,
		apify:    apifyClient,
		ebay:     ebayClient,
		research: researcher,
	}
}

// Run executes one compare request: fetch the lots behind the Catawiki URL
// and compare each against live marketplace data. Results keep the input
// order. With fail_fast disabled (the default) a failed lot becomes an
// error-tagged entry instead of aborting the batch.
func (s *Service) Run(ctx context.Context, catawikiURL string, includeResearch bool) (*model.CompareResponse, error) {
	log := zap.L().With(zap.String("url", catawikiURL))
	start := time.Now()

	runID := s.createRun(ctx, catawikiURL, includeResearch)

	items, err := s.apify.FetchItems(ctx, catawikiURL)
	if err != nil {
		err = eris.Wrap(err, "compare: fetch catawiki items")
		s.failRun(ctx, runID, err)
		return nil, err
	}

	if len(items) == 0 {
		log.Info("compare: acquisition returned no items")
		s.completeRun(ctx, runID, model.RunSummary{DurationMS: time.Since(start).Milliseconds()})
		return &model.CompareResponse{Items: []model.ComparisonResult{}, Notes: emptyAcquisitionNote}, nil
	}

	log.Info("compare: starting batch",
		zap.Int("items", len(items)),
		zap.Bool("research", includeResearch),
	)

	results := make([]model.ComparisonResult, len(items))
	g, gCtx := errgroup.WithContext(ctx)
	if s.cfg.Compare.MaxConcurrent > 0 {
		g.SetLimit(s.cfg.Compare.MaxConcurrent)
	}

	for i, raw := range items {
		g.Go(func() error {
			res, lotErr := s.compareLot(gCtx, raw, includeResearch)
			if lotErr != nil {
				if s.cfg.Compare.FailFast {
					return lotErr
				}
				log.Warn("compare: lot failed", zap.Int("index", i), zap.Error(lotErr))
				results[i] = model.ComparisonResult{
					Source:   raw,
					Ebay:     []ebay.ItemSummary{},
					Research: []model.ResearchListing{},
					Error:    lotErr.Error(),
				}
				return nil
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.failRun(ctx, runID, err)
		return nil, err
	}

	verdicts := make(map[model.Verdict]int)
	for _, r := range results {
		if r.Analysis != nil {
			verdicts[r.Analysis.Verdict]++
		}
	}

	duration := time.Since(start)
	s.completeRun(ctx, runID, model.RunSummary{
		ItemCount:  len(results),
		Verdicts:   verdicts,
		DurationMS: duration.Milliseconds(),
	})

	log.Info("compare: batch complete",
		zap.Int("items", len(results)),
		zap.Int64("duration_ms", duration.Milliseconds()),
	)

	return &model.CompareResponse{Items: results}, nil
}

// Run records are best effort: a store failure is logged, never surfaced.

func (s *Service) createRun(ctx context.Context, url string, includeResearch bool) string {
	if s.store == nil {
		return ""
	}
	run, err := s.store.CreateRun(ctx, url, includeResearch)
	if err != nil {
		zap.L().Warn("compare: failed to create run record", zap.Error(err))
		return ""
	}
	return run.ID
}

func (s *Service) completeRun(ctx context.Context, runID string, summary model.RunSummary) {
	if s.store == nil || runID == "" {
		return
	}
	if err := s.store.CompleteRun(ctx, runID, summary); err != nil {
		zap.L().Warn("compare: failed to complete run record", zap.String("run_id", runID), zap.Error(err))
	}
}

func (s *Service) failRun(ctx context.Context, runID string, runErr error) {
	if s.store == nil || runID == "" {
		return
	}
	if err := s.store.FailRun(ctx, runID, runErr.Error()); err != nil {
		zap.L().Warn("compare: failed to mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
}
