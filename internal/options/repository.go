package options

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
)

// Repository stores options in the site_options table.
type Repository struct {
	db *sqlx.DB
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type optionRow struct {
	Value    string `db:"option_value"`
	Revision int64  `db:"revision"`
}

// Get loads the option stored under key.
func (r *Repository) Get(ctx context.Context, key string) (StoredValue, error) {
	var row optionRow
	query := `SELECT option_value, revision FROM site_options WHERE option_key = $1`

	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredValue{}, fmt.Errorf("option %q: %w", key, domain.ErrNotFound)
		}
		return StoredValue{}, fmt.Errorf("failed to get option %q: %w", key, err)
	}

	return StoredValue{Raw: []byte(row.Value), Revision: row.Revision}, nil
}

// Set upserts the option in a single statement.
func (r *Repository) Set(ctx context.Context, key string, raw []byte) (int64, error) {
	query := `
		INSERT INTO site_options (option_key, option_value, revision, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (option_key) DO UPDATE SET
			option_value = EXCLUDED.option_value,
			revision = site_options.revision + 1,
			updated_at = NOW()
		RETURNING revision
	`

	var revision int64
	if err := r.db.QueryRowxContext(ctx, query, key, string(raw)).Scan(&revision); err != nil {
		return 0, fmt.Errorf("failed to set option %q: %w", key, err)
	}

	return revision, nil
}

// CompareAndSet writes the option only when its revision is still expected.
func (r *Repository) CompareAndSet(ctx context.Context, key string, raw []byte, expected int64) (int64, error) {
	var (
		query string
		args  []any
	)
	if expected == 0 {
		query = `
			INSERT INTO site_options (option_key, option_value, revision, updated_at)
			VALUES ($1, $2, 1, NOW())
			ON CONFLICT (option_key) DO NOTHING
			RETURNING revision
		`
		args = []any{key, string(raw)}
	} else {
		query = `
			UPDATE site_options
			SET option_value = $2, revision = revision + 1, updated_at = NOW()
			WHERE option_key = $1 AND revision = $3
			RETURNING revision
		`
		args = []any{key, string(raw), expected}
	}

	var revision int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("option %q at revision %d: %w", key, expected, domain.ErrRevisionConflict)
		}
		return 0, fmt.Errorf("failed to update option %q: %w", key, err)
	}

	return revision, nil
}
