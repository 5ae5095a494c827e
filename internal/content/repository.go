// Package content reads content items for resolution, validation and search.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/lib/pq"
)

// DefaultSearchLimit bounds a search when the query sets no limit.
const DefaultSearchLimit = 20

// Searcher finds published items matching a query.
type Searcher interface {
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error)
}

// Repository is the PostgreSQL content store.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the item with id in any status, or domain.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id int64) (*domain.ContentMeta, error) {
	meta := &domain.ContentMeta{}
	query := `
		SELECT id, title, url, content_type, status
		FROM content_items
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, meta, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("content %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get content %d: %w", id, err)
	}

	return meta, nil
}

// Exists reports whether an item with id exists in any status.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM content_items WHERE id = $1)`

	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check content %d: %w", id, err)
	}

	return exists, nil
}

// Search returns published items of the requested types.
// An empty query lists the most recently published items.
func (r *Repository) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var (
		query string
		args  []any
	)
	if q.Query == "" {
		query = `
			SELECT id, title, url, content_type
			FROM content_items
			WHERE status = 'publish' AND content_type = ANY($1)
			ORDER BY published_at DESC, id DESC
			LIMIT $2
		`
		args = []any{pq.Array(q.TypeNames()), limit}
	} else {
		query = `
			SELECT id, title, url, content_type
			FROM content_items
			WHERE status = 'publish' AND content_type = ANY($1)
			  AND (search_vector @@ plainto_tsquery('simple', $2) OR title ILIKE $3)
			ORDER BY ts_rank(search_vector, plainto_tsquery('simple', $2)) DESC, published_at DESC, id DESC
			LIMIT $4
		`
		args = []any{pq.Array(q.TypeNames()), q.Query, likePattern(q.Query), limit}
	}

	candidates := make([]domain.Candidate, 0)
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search content: %w", err)
	}

	return candidates, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
