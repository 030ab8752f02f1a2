package apify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorRef(t *testing.T) {
	tests := []struct {
		actor    string
		username string
		want     string
	}{
		{"someone~catawiki", "ignored", "someone~catawiki"},
		{"act_abc123", "user", "act_abc123"},
		{"P7gXyZ", "user", "P7gXyZ"},
		{"catawiki", "collector", "collector~catawiki"},
		{"catawiki", "", "catawiki"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, actorRef(tt.actor, tt.username), "actor=%s username=%s", tt.actor, tt.username)
	}
}

func TestFetchItems_BareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/acts/collector~catawiki/run-sync-get-dataset-items", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "https://www.catawiki.com/en/a/123", payload["url"])

		w.Write([]byte(`[{"title":"Rolex Submariner","estimatedPriceMin":5000}]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", "catawiki", "collector", WithBaseURL(srv.URL))
	items, err := c.FetchItems(context.Background(), "https://www.catawiki.com/en/a/123")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Rolex Submariner", items[0]["title"])
	assert.Equal(t, 5000.0, items[0]["estimatedPriceMin"])
}

func TestFetchItems_WrappedItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"title":"a"},{"title":"b"}]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", "collector~catawiki", "", WithBaseURL(srv.URL))
	items, err := c.FetchItems(context.Background(), "https://www.catawiki.com/en/a/123")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFetchItems_EmptyDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", "collector~catawiki", "", WithBaseURL(srv.URL))
	items, err := c.FetchItems(context.Background(), "https://www.catawiki.com/en/a/123")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchItems_ActorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"actor-failed"}}`, http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", "collector~catawiki", "", WithBaseURL(srv.URL))
	_, err := c.FetchItems(context.Background(), "https://www.catawiki.com/en/a/123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "actor run status 400")
}
