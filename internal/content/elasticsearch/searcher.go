// Package elasticsearch searches pinnable content in an Elasticsearch index.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/content"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
)

const (
	DefaultIndex       = "content_items"
	searchQueryTimeout = 5 * time.Second
)

// ErrSearchFailed wraps error responses from the cluster.
var ErrSearchFailed = errors.New("elasticsearch search failed")

// Searcher implements content.Searcher against an Elasticsearch index whose
// documents carry title, url, content_type, status and published_at fields.
type Searcher struct {
	client *es.Client
	index  string
	log    logger.Logger
}

var _ content.Searcher = (*Searcher)(nil)

// NewSearcher creates a Searcher over index.
func NewSearcher(client *es.Client, index string, log logger.Logger) *Searcher {
	if index == "" {
		index = DefaultIndex
	}
	return &Searcher{client: client, index: index, log: log}
}

type contentDoc struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// Search returns published candidates in relevance order, or newest first for an empty query.
func (s *Searcher) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = content.DefaultSearchLimit
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(q, limit)); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, searchQueryTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.client.Search(
		s.client.Search.WithContext(queryCtx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	s.log.Debug("Elasticsearch query completed",
		logger.String("index_name", s.index),
		logger.Duration("query_duration", time.Since(start)),
		logger.String("status", res.Status()),
	)

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID     string     `json:"_id"`
				Source contentDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if decodeErr := json.NewDecoder(res.Body).Decode(&result); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	candidates := make([]domain.Candidate, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, parseErr := strconv.ParseInt(hit.ID, 10, 64)
		if parseErr != nil || id <= 0 {
			s.log.Warn("Skipping search hit with non-numeric id", logger.String("doc_id", hit.ID))
			continue
		}
		contentType := domain.ContentType(hit.Source.ContentType)
		if !domain.IsPinnable(contentType) {
			s.log.Warn("Skipping search hit with unpinnable type",
				logger.String("doc_id", hit.ID),
				logger.String("content_type", hit.Source.ContentType),
			)
			continue
		}
		candidates = append(candidates, domain.Candidate{
			ID:    id,
			Title: hit.Source.Title,
			URL:   hit.Source.URL,
			Type:  contentType,
		})
	}

	return candidates, nil
}

func buildQuery(q domain.SearchQuery, limit int) map[string]any {
	filter := []map[string]any{
		{"term": map[string]any{"status": string(domain.StatusPublish)}},
		{"terms": map[string]any{"content_type": q.TypeNames()}},
	}

	query := map[string]any{
		"size": limit,
	}

	if q.Query == "" {
		query["query"] = map[string]any{"bool": map[string]any{"filter": filter}}
		query["sort"] = []map[string]any{{"published_at": map[string]any{"order": "desc"}}}
		return query
	}

	query["query"] = map[string]any{
		"bool": map[string]any{
			"filter": filter,
			"must": []map[string]any{{
				"multi_match": map[string]any{
					"query":  q.Query,
					"fields": []string{"title^3", "body"},
					"type":   "best_fields",
				},
			}},
		},
	}
	return query
}
