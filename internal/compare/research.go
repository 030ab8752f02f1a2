package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lotcheck/internal/config"
	"github.com/sells-group/lotcheck/internal/model"
	"github.com/sells-group/lotcheck/pkg/anthropic"
)

// Researcher finds comparable listings for a lot title on a restricted set
// of domains.
type Researcher interface {
	Research(ctx context.Context, title string, domains []string) ([]model.ResearchListing, error)
}

const researchSystemPrompt = `You are a pricing researcher for auction lots. ` +
	`Search ONLY the web domains provided by the user. ` +
	`For each comparable listing you find, extract: title, price (a number), currency, condition, url. ` +
	`Omit any field you cannot determine. ` +
	`Respond with a single JSON array of listing objects and nothing else.`

type llmResearcher struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewResearcher builds a Researcher backed by the Anthropic messages API.
func NewResearcher(client anthropic.Client, cfg config.AnthropicConfig) Researcher {
	return &llmResearcher{client: client, cfg: cfg}
}

func (r *llmResearcher) Research(ctx context.Context, title string, domains []string) ([]model.ResearchListing, error) {
	if len(domains) == 0 {
		return nil, nil
	}

	temp := 0.0
	resp, err := r.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     r.cfg.Model,
		MaxTokens: r.cfg.MaxTokens,
		System:    researchSystemPrompt,
		Messages: []anthropic.Message{
			{
				Role: "user",
				Content: fmt.Sprintf("Find comparable listings for: %s\nSearch only these sites: %s",
					title, strings.Join(domains, ", ")),
			},
		},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "research: create message")
	}

	listings, ok := parseListings(resp.Text())
	if !ok {
		zap.L().Warn("research: unparsable model response, treating as no listings",
			zap.String("title", title),
		)
		return []model.ResearchListing{}, nil
	}
	return listings, nil
}

// parseListings extracts the first top-level JSON array from the response
// text. Models tend to wrap the array in prose even when told not to.
func parseListings(text string) ([]model.ResearchListing, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	var listings []model.ResearchListing
	if err := json.Unmarshal([]byte(text[start:end+1]), &listings); err != nil {
		return nil, false
	}
	return listings, true
}
