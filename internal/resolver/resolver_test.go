package resolver_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/resolver"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeContent struct {
	items  map[int64]*domain.ContentMeta
	failOn map[int64]bool
}

func (f *fakeContent) Get(_ context.Context, id int64) (*domain.ContentMeta, error) {
	if f.failOn[id] {
		return nil, errors.New("connection reset by peer")
	}
	meta, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("content %d: %w", id, domain.ErrNotFound)
	}
	return meta, nil
}

func published(id int64, title string) *domain.ContentMeta {
	return &domain.ContentMeta{
		ID: id, Title: title, URL: fmt.Sprintf("https://example.com/%d", id),
		Type: domain.ContentTypeArticle, Status: domain.StatusPublish,
	}
}

func TestResolve_PreservesOrder(t *testing.T) {
	store := &fakeContent{items: map[int64]*domain.ContentMeta{
		1: published(1, "One"), 2: published(2, "Two"), 3: published(3, "Three"),
	}}
	r := resolver.New(store, logger.NewNop(), nil)

	got := r.Resolve(context.Background(), domain.ReferenceList{{ContentID: 3}, {ContentID: 1}, {ContentID: 2}})

	ids := make([]int64, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ContentID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestResolve_TitleOverride(t *testing.T) {
	store := &fakeContent{items: map[int64]*domain.ContentMeta{5: published(5, "Original")}}
	r := resolver.New(store, logger.NewNop(), nil)

	tests := []struct {
		name     string
		override string
		want     string
	}{
		{name: "override wins", override: "Start", want: "Start"},
		{name: "empty override uses title", override: "", want: "Original"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(context.Background(), domain.ReferenceList{{ContentID: 5, TitleOverride: tt.override}})
			assert.Equal(t, []domain.RenderEntry{{ContentID: 5, DisplayTitle: tt.want, URL: "https://example.com/5"}}, got)
		})
	}
}

func TestResolve_SkipsStaleReferences(t *testing.T) {
	draft := published(4, "Draft")
	draft.Status = domain.StatusDraft
	trashed := published(6, "Trashed")
	trashed.Status = domain.StatusTrash

	store := &fakeContent{
		items:  map[int64]*domain.ContentMeta{1: published(1, "One"), 4: draft, 6: trashed, 8: published(8, "Eight")},
		failOn: map[int64]bool{7: true},
	}
	tel := telemetry.NewTestProvider()
	r := resolver.New(store, logger.NewNop(), tel)

	got := r.Resolve(context.Background(), domain.ReferenceList{
		{ContentID: 1}, {ContentID: 2}, {ContentID: 4}, {ContentID: 6}, {ContentID: 7}, {ContentID: 8},
	})

	assert.Equal(t, []domain.RenderEntry{
		{ContentID: 1, DisplayTitle: "One", URL: "https://example.com/1"},
		{ContentID: 8, DisplayTitle: "Eight", URL: "https://example.com/8"},
	}, got)

	dropped := tel.Metrics.DroppedRefs
	assert.InDelta(t, 1, testutil.ToFloat64(dropped.WithLabelValues(telemetry.DropNotFound)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(dropped.WithLabelValues(telemetry.DropNotVisible)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(dropped.WithLabelValues(telemetry.DropStoreError)), 0)
}

func TestResolve_EmptyList(t *testing.T) {
	r := resolver.New(&fakeContent{}, logger.NewNop(), nil)

	got := r.Resolve(context.Background(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
