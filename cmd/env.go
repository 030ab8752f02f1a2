package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lotcheck/internal/compare"
	"github.com/sells-group/lotcheck/internal/store"
	anthropicpkg "github.com/sells-group/lotcheck/pkg/anthropic"
	"github.com/sells-group/lotcheck/pkg/apify"
	"github.com/sells-group/lotcheck/pkg/ebay"
)

// serviceEnv holds the store and the compare service shared by the serve and
// compare commands.
type serviceEnv struct {
	Store   store.Store
	Service *compare.Service
}

// Close releases resources held by the environment.
func (e *serviceEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initService sets up the store and all API clients, then builds the compare
// service. Callers should defer env.Close().
func initService(ctx context.Context) (*serviceEnv, error) {
	if cfg.Apify.Token == "" {
		return nil, eris.New("apify token is required (LOTCHECK_APIFY_TOKEN)")
	}
	if cfg.Ebay.ClientID == "" || cfg.Ebay.ClientSecret == "" {
		return nil, eris.New("ebay credentials are required (LOTCHECK_EBAY_CLIENT_ID, LOTCHECK_EBAY_CLIENT_SECRET)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	apifyClient := apify.NewClient(cfg.Apify.Token, cfg.Apify.Actor, cfg.Apify.Username,
		apify.WithBaseURL(cfg.Apify.BaseURL))

	ebayOpts := []ebay.Option{ebay.WithMarketplace(cfg.Ebay.MarketplaceID)}
	if cfg.Ebay.Sandbox() {
		ebayOpts = append(ebayOpts, ebay.WithSandbox())
	}
	if cfg.Ebay.RateLimitRPS > 0 {
		ebayOpts = append(ebayOpts, ebay.WithRateLimit(cfg.Ebay.RateLimitRPS))
	}
	ebayClient := ebay.NewClient(cfg.Ebay.ClientID, cfg.Ebay.ClientSecret, ebayOpts...)

	// Research is skipped at request time when no key is configured.
	var researcher compare.Researcher
	if cfg.Anthropic.Key != "" {
		researcher = compare.NewResearcher(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	} else {
		zap.L().Debug("LOTCHECK_ANTHROPIC_KEY not set, research disabled")
	}

	return &serviceEnv{
		Store:   st,
		Service: compare.New(cfg, st, apifyClient, ebayClient, researcher),
	}, nil
}
