// Package ebay provides an OAuth-authenticated client for the eBay Browse API.
package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/sells-group/lotcheck/internal/retry"
)

const (
	prodOAuthURL     = "https://api.ebay.com/identity/v1/oauth2/token"
	prodBrowseURL    = "https://api.ebay.com/buy/browse/v1"
	sandboxOAuthURL  = "https://api.sandbox.ebay.com/identity/v1/oauth2/token"
	sandboxBrowseURL = "https://api.sandbox.ebay.com/buy/browse/v1"

	oauthScope         = "https://api.ebay.com/oauth/api_scope"
	defaultMarketplace = "EBAY_US"

	// Refresh the cached token this long before its reported expiry.
	tokenSafetyMargin = 60 * time.Second
)

// Client defines the eBay Browse API operations used by the comparison pipeline.
type Client interface {
	// Search queries item summaries matching the given title.
	Search(ctx context.Context, title string, limit int) ([]ItemSummary, error)
}

// ItemSummary is a single Browse API search hit.
type ItemSummary struct {
	ItemID     string `json:"itemId,omitempty"`
	Title      string `json:"title"`
	Condition  string `json:"condition,omitempty"`
	ItemWebURL string `json:"itemWebUrl,omitempty"`
	Price      *Price `json:"price,omitempty"`
}

// Price is a monetary amount as returned by the Browse API.
type Price struct {
	Value    Number `json:"value"`
	Currency string `json:"currency,omitempty"`
}

// Number tolerates upstream amounts encoded as a JSON number, a numeric
// string, or null. Unparsable values decode as invalid rather than erroring,
// so one malformed listing cannot fail a whole response.
type Number struct {
	Value float64
	Valid bool
}

// Float64 returns the parsed amount and whether it is a finite number.
func (n Number) Float64() (float64, bool) {
	return n.Value, n.Valid
}

func (n *Number) UnmarshalJSON(data []byte) error {
	n.Value, n.Valid = 0, false

	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		n.Value, n.Valid = f, true
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.Value, n.Valid = f, true
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Option configures the client.
type Option func(*httpClient)

// WithSandbox points the client at the eBay sandbox environment.
func WithSandbox() Option {
	return func(c *httpClient) {
		c.oauthURL = sandboxOAuthURL
		c.browseURL = sandboxBrowseURL
	}
}

// WithMarketplace sets the X-EBAY-C-MARKETPLACE-ID header value.
func WithMarketplace(id string) Option {
	return func(c *httpClient) {
		if id != "" {
			c.marketplace = id
		}
	}
}

// WithBaseURLs overrides the OAuth and Browse endpoints (for testing).
func WithBaseURLs(oauthURL, browseURL string) Option {
	return func(c *httpClient) {
		c.oauthURL = oauthURL
		c.browseURL = browseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second rate limit for Browse API calls.
// A burst equal to the integer portion of rps is allowed.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	clientID     string
	clientSecret string
	oauthURL     string
	browseURL    string
	marketplace  string
	http         *http.Client
	limiter      *rate.Limiter

	group singleflight.Group

	mu          sync.Mutex
	accessToken string
	tokenExp    time.Time
}

// NewClient creates an eBay Browse API client using client-credentials OAuth.
func NewClient(clientID, clientSecret string, opts ...Option) Client {
	c := &httpClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		oauthURL:     prodOAuthURL,
		browseURL:    prodBrowseURL,
		marketplace:  defaultMarketplace,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// token returns a valid application token, refreshing it when the cached one
// is missing or within the safety margin of expiry. Concurrent callers during
// expiry share a single refresh via singleflight.
func (c *httpClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.accessToken != "" && time.Now().Before(c.tokenExp.Add(-tokenSafetyMargin)) {
		tok := c.accessToken
		c.mu.Unlock()
		return tok, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("token", func() (any, error) {
		return c.refreshToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *httpClient) refreshToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {oauthScope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", eris.Wrap(err, "ebay: create token request")
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "ebay: token request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "ebay: read token response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("ebay: oauth status %d: %s", resp.StatusCode, string(body))
		if retry.IsTransientStatus(resp.StatusCode) {
			return "", retry.MarkTransient(err, resp.StatusCode)
		}
		return "", err
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", eris.Wrap(err, "ebay: unmarshal token response")
	}
	if tok.AccessToken == "" {
		return "", eris.New("ebay: oauth response missing access_token")
	}
	if tok.ExpiresIn <= 0 {
		tok.ExpiresIn = 7200
	}

	c.mu.Lock()
	c.accessToken = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	c.mu.Unlock()

	return tok.AccessToken, nil
}

type searchResponse struct {
	Total         int           `json:"total"`
	ItemSummaries []ItemSummary `json:"itemSummaries"`
}

func (c *httpClient) Search(ctx context.Context, title string, limit int) ([]ItemSummary, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "ebay: rate limit")
		}
	}

	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	q := url.Values{
		"q":     {title},
		"limit": {strconv.Itoa(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.browseURL+"/item_summary/search?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "ebay: create search request")
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ebay: search request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ebay: read search response")
	}
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			// Token may have been revoked upstream; drop it so the next
			// call fetches a fresh one.
			c.mu.Lock()
			c.accessToken = ""
			c.mu.Unlock()
		}
		err := eris.Errorf("ebay: search status %d: %s", resp.StatusCode, string(body))
		if retry.IsTransientStatus(resp.StatusCode) {
			return nil, retry.MarkTransient(err, resp.StatusCode)
		}
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "ebay: unmarshal search response")
	}

	return result.ItemSummaries, nil
}
