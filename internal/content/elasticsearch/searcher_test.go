package elasticsearch_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/content/elasticsearch"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearcher(t *testing.T, handler http.HandlerFunc) *elasticsearch.Searcher {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := es.NewClient(es.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return elasticsearch.NewSearcher(client, "pinnable", logger.NewNop())
}

func TestSearcher_Search(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"hits":{"hits":[
			{"_id":"12","_source":{"title":"Getting started","url":"https://example.com/start","content_type":"guide"}},
			{"_id":"abc","_source":{"title":"Bad id"}},
			{"_id":"7","_source":{"title":"Menu","url":"https://example.com/menu","content_type":"nav_menu_item"}},
			{"_id":"4","_source":{"title":"About","url":"https://example.com/about","content_type":"page"}}
		]}}`)
	})

	got, err := searcher.Search(context.Background(), domain.SearchQuery{
		Query: "start",
		Types: domain.PinnableTypes,
		Limit: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "/pinnable/_search", gotPath)
	assert.InDelta(t, 20, gotBody["size"], 0)
	assert.Contains(t, mustJSON(t, gotBody), `"multi_match"`)
	assert.Equal(t, []domain.Candidate{
		{ID: 12, Title: "Getting started", URL: "https://example.com/start", Type: domain.ContentTypeGuide},
		{ID: 4, Title: "About", URL: "https://example.com/about", Type: domain.ContentTypePage},
	}, got)
}

func TestSearcher_EmptyQuerySortsByDate(t *testing.T) {
	var raw string
	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		raw = string(body)
		_, _ = io.WriteString(w, `{"hits":{"hits":[]}}`)
	})

	got, err := searcher.Search(context.Background(), domain.SearchQuery{Types: domain.PinnableTypes})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, strings.Contains(raw, `"published_at"`))
	assert.False(t, strings.Contains(raw, `"multi_match"`))
}

func TestSearcher_ErrorResponse(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"}}`)
	})

	_, err := searcher.Search(context.Background(), domain.SearchQuery{Query: "x"})
	require.ErrorIs(t, err, elasticsearch.ErrSearchFailed)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
