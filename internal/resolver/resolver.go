// Package resolver turns the stored pinned list into render entries.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ContentReader loads content items by id.
type ContentReader interface {
	Get(ctx context.Context, id int64) (*domain.ContentMeta, error)
}

// Resolver resolves references against the live content store.
type Resolver struct {
	content ContentReader
	log     logger.Logger
	tel     *telemetry.Provider
}

// New creates a Resolver. tel may be nil.
func New(content ContentReader, log logger.Logger, tel *telemetry.Provider) *Resolver {
	return &Resolver{content: content, log: log, tel: tel}
}

// Resolve returns one entry per reference whose target exists and is publicly
// visible, in list order. Entries use the override title when it is set.
// Missing, hidden and unreadable targets are skipped.
func (r *Resolver) Resolve(ctx context.Context, list domain.ReferenceList) []domain.RenderEntry {
	ctx, span := r.tel.StartSpan(ctx, "pinned.resolve", attribute.Int("pinned.refs", list.Len()))
	defer span.End()

	start := time.Now()
	defer func() { r.tel.ObserveResolve(time.Since(start)) }()

	entries := make([]domain.RenderEntry, 0, list.Len())
	for _, ref := range list {
		meta, err := r.content.Get(ctx, ref.ContentID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			r.log.Debug("Skipping pinned reference to missing content", logger.Int64("content_id", ref.ContentID))
			r.tel.RecordDrop(telemetry.DropNotFound)
			continue
		case err != nil:
			r.log.Warn("Skipping pinned reference after lookup failure",
				logger.Int64("content_id", ref.ContentID),
				logger.Error(err),
			)
			r.tel.RecordDrop(telemetry.DropStoreError)
			continue
		case !meta.Visible():
			r.tel.RecordDrop(telemetry.DropNotVisible)
			continue
		}

		title := meta.Title
		if ref.TitleOverride != "" {
			title = ref.TitleOverride
		}
		entries = append(entries, domain.RenderEntry{
			ContentID:    ref.ContentID,
			DisplayTitle: title,
			URL:          meta.URL,
		})
	}

	return entries
}
