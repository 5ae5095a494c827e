// Package curation implements the admin operations for searching, inspecting and
// saving the pinned navigation list.
package curation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/content"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/options"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/pinned"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	opSearch  = "search"
	opSave    = "save"
	opLookup  = "lookup"
	opCurrent = "current"

	outcomeOK           = "ok"
	outcomeUnauthorized = "unauthorized"
	outcomeDegraded     = "degraded"
	outcomeConflict     = "conflict"
	outcomeError        = "error"
)

// ContentStore is the part of the content store curation needs.
type ContentStore interface {
	Get(ctx context.Context, id int64) (*domain.ContentMeta, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Config holds curation settings.
type Config struct {
	OptionKey   string
	SearchLimit int
}

// Service implements the curation protocol.
type Service struct {
	content   ContentStore
	searcher  content.Searcher
	store     options.Store
	sanitizer *Sanitizer
	cfg       Config
	log       logger.Logger
	tel       *telemetry.Provider
}

// NewService creates a curation service. tel may be nil.
func NewService(
	contentStore ContentStore,
	searcher content.Searcher,
	store options.Store,
	cfg Config,
	log logger.Logger,
	tel *telemetry.Provider,
) *Service {
	if cfg.OptionKey == "" {
		cfg.OptionKey = DefaultOptionKey
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = content.DefaultSearchLimit
	}
	return &Service{
		content:   contentStore,
		searcher:  searcher,
		store:     store,
		sanitizer: NewSanitizer(),
		cfg:       cfg,
		log:       log,
		tel:       tel,
	}
}

// Search finds published items the caller may pin.
// Store failures are logged and answered with an empty result.
func (s *Service) Search(ctx context.Context, p Principal, query string) ([]domain.Candidate, error) {
	ctx, span := s.tel.StartSpan(ctx, "curation.search")
	defer span.End()

	if !p.Can(CapabilityEditNavigation) {
		s.tel.RecordCuration(opSearch, outcomeUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	q := domain.SearchQuery{
		Query: s.sanitizer.PlainText(query),
		Types: domain.PinnableTypes,
		Limit: s.cfg.SearchLimit,
	}
	candidates, err := s.searcher.Search(ctx, q)
	if err != nil {
		s.log.Error("Content search failed",
			logger.String("subject", p.Subject),
			logger.String("query", q.Query),
			logger.Error(err),
		)
		s.tel.RecordCuration(opSearch, outcomeDegraded)
		return []domain.Candidate{}, nil
	}

	if len(candidates) > s.cfg.SearchLimit {
		candidates = candidates[:s.cfg.SearchLimit]
	}

	s.tel.RecordCuration(opSearch, outcomeOK)
	s.tel.RecordSearchResults(len(candidates))
	return candidates, nil
}

// Save replaces the pinned list with the valid, distinct items of req.
// Nothing is written unless every item could be checked against the content store.
func (s *Service) Save(ctx context.Context, p Principal, req SaveRequest) (SaveAck, error) {
	ctx, span := s.tel.StartSpan(ctx, "curation.save", attribute.Int("pinned.submitted", len(req.Items)))
	defer span.End()

	if !p.Can(CapabilityEditNavigation) {
		s.tel.RecordCuration(opSave, outcomeUnauthorized)
		return SaveAck{}, domain.ErrUnauthorized
	}

	refs := make([]domain.ContentRef, 0, len(req.Items))
	for _, item := range req.Items {
		refs = append(refs, domain.ContentRef{
			ContentID:     int64(item.ID),
			TitleOverride: s.sanitizer.PlainText(item.CustomTitle),
		})
	}

	list, err := pinned.Validate(ctx, pinned.Normalize(refs), s.content)
	if err != nil {
		s.log.Error("Pinned list validation failed", logger.String("subject", p.Subject), logger.Error(err))
		s.tel.RecordCuration(opSave, outcomeError)
		return SaveAck{}, err
	}

	raw, err := pinned.Encode(list)
	if err != nil {
		s.tel.RecordCuration(opSave, outcomeError)
		return SaveAck{}, err
	}

	var revision int64
	if req.Revision != nil {
		revision, err = s.store.CompareAndSet(ctx, s.cfg.OptionKey, raw, *req.Revision)
	} else {
		revision, err = s.store.Set(ctx, s.cfg.OptionKey, raw)
	}
	if err != nil {
		if errors.Is(err, domain.ErrRevisionConflict) {
			s.tel.RecordCuration(opSave, outcomeConflict)
			return SaveAck{}, err
		}
		s.log.Error("Failed to persist pinned list", logger.String("subject", p.Subject), logger.Error(err))
		s.tel.RecordCuration(opSave, outcomeError)
		return SaveAck{}, fmt.Errorf("save pinned list: %w: %w", domain.ErrStoreUnavailable, err)
	}

	s.log.Info("Pinned navigation saved",
		logger.String("subject", p.Subject),
		logger.Int("saved_count", list.Len()),
		logger.Int("submitted", len(req.Items)),
		logger.Int64("revision", revision),
	)
	s.tel.RecordCuration(opSave, outcomeOK)
	s.tel.RecordSaved(list.Len())

	return SaveAck{SavedCount: list.Len(), Revision: revision}, nil
}

// Lookup returns the item with id in any status, for adding it by id.
func (s *Service) Lookup(ctx context.Context, p Principal, id int64) (domain.Candidate, error) {
	ctx, span := s.tel.StartSpan(ctx, "curation.lookup", attribute.Int64("content.id", id))
	defer span.End()

	if !p.Can(CapabilityEditNavigation) {
		s.tel.RecordCuration(opLookup, outcomeUnauthorized)
		return domain.Candidate{}, domain.ErrUnauthorized
	}
	if id <= 0 {
		return domain.Candidate{}, domain.ErrInvalidReference
	}

	meta, err := s.content.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.tel.RecordCuration(opLookup, outcomeOK)
			return domain.Candidate{}, err
		}
		s.log.Error("Content lookup failed", logger.Int64("content_id", id), logger.Error(err))
		s.tel.RecordCuration(opLookup, outcomeError)
		return domain.Candidate{}, fmt.Errorf("lookup content %d: %w: %w", id, domain.ErrStoreUnavailable, err)
	}

	s.tel.RecordCuration(opLookup, outcomeOK)
	return meta.Candidate(), nil
}

// Current returns the stored list with live item details and its revision.
// A list that has never been saved is empty at revision 0.
func (s *Service) Current(ctx context.Context, p Principal) ([]AdminItem, int64, error) {
	ctx, span := s.tel.StartSpan(ctx, "curation.current")
	defer span.End()

	if !p.Can(CapabilityEditNavigation) {
		s.tel.RecordCuration(opCurrent, outcomeUnauthorized)
		return nil, 0, domain.ErrUnauthorized
	}

	value, err := s.store.Get(ctx, s.cfg.OptionKey)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.tel.RecordCuration(opCurrent, outcomeError)
		return nil, 0, fmt.Errorf("load pinned list: %w: %w", domain.ErrStoreUnavailable, err)
	}

	list := pinned.Parse(value.Raw)
	items := make([]AdminItem, 0, list.Len())
	for _, ref := range list {
		item := AdminItem{ID: ref.ContentID, CustomTitle: ref.TitleOverride}

		meta, getErr := s.content.Get(ctx, ref.ContentID)
		switch {
		case getErr == nil:
			item.Title = meta.Title
			item.URL = meta.URL
			item.Type = meta.Type
			item.Status = meta.Status
			item.Available = meta.Visible()
		case !errors.Is(getErr, domain.ErrNotFound):
			s.log.Warn("Content lookup failed while listing pinned items",
				logger.Int64("content_id", ref.ContentID),
				logger.Error(getErr),
			)
		}
		items = append(items, item)
	}

	s.tel.RecordCuration(opCurrent, outcomeOK)
	return items, value.Revision, nil
}
