// Package apify provides a client for running Apify actors synchronously and
// retrieving their dataset items.
package apify

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"context"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.apify.com/v2"

// Client defines the Apify operations used by the comparison pipeline.
type Client interface {
	// FetchItems runs the configured actor against the given marketplace URL
	// and returns the scraped dataset items.
	FetchItems(ctx context.Context, catawikiURL string) ([]map[string]any, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token    string
	actorRef string
	baseURL  string
	http     *http.Client
}

// NewClient creates an Apify client for the given actor. The actor is either
// a full ref ("username~name" or an actor ID) or a bare name combined with
// the username.
func NewClient(token, actor, username string, opts ...Option) Client {
	c := &httpClient{
		token:    token,
		actorRef: actorRef(actor, username),
		baseURL:  defaultBaseURL,
		http: &http.Client{
			// Actor runs block until the scrape completes, which can take
			// minutes for large auction pages.
			Timeout: 5 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// actorRef resolves the canonical actor reference usable in the REST path:
// either "username~name" or just the actor ID.
func actorRef(actor, username string) string {
	if strings.Contains(actor, "~") || strings.HasPrefix(actor, "act_") || strings.HasPrefix(actor, "P") {
		return actor
	}
	if username != "" {
		return username + "~" + actor
	}
	return actor
}

func (c *httpClient) FetchItems(ctx context.Context, catawikiURL string) ([]map[string]any, error) {
	payload, err := json.Marshal(map[string]string{"url": catawikiURL})
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal payload")
	}

	endpoint := c.baseURL + "/acts/" + c.actorRef + "/run-sync-get-dataset-items?format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "apify: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "apify: run actor")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apify: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("apify: actor run status %d: %s", resp.StatusCode, string(body))
	}

	return decodeItems(body)
}

// decodeItems normalizes the dataset response to a flat item list. The API
// usually returns a bare JSON array but can wrap it as {"items": [...]}.
func decodeItems(body []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var wrapped struct {
			Items []map[string]any `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, eris.Wrap(err, "apify: unmarshal wrapped items")
		}
		return wrapped.Items, nil
	}

	var items []map[string]any
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal items")
	}
	return items, nil
}
