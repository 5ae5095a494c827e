package curation_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/curation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/options"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/pinned"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var editor = curation.Principal{Subject: "editor", Capabilities: []string{curation.CapabilityEditNavigation}}

var subscriber = curation.Principal{Subject: "reader", Capabilities: []string{"read"}}

// fakeContent is an in-memory content store and searcher.
type fakeContent struct {
	items      map[int64]*domain.ContentMeta
	failExists bool
	failSearch bool
	calls      int
	lastQuery  domain.SearchQuery
	results    []domain.Candidate
}

func newFakeContent(ids ...int64) *fakeContent {
	f := &fakeContent{items: make(map[int64]*domain.ContentMeta)}
	for _, id := range ids {
		f.items[id] = &domain.ContentMeta{
			ID: id, Title: fmt.Sprintf("Item %d", id), URL: fmt.Sprintf("https://example.com/%d", id),
			Type: domain.ContentTypeArticle, Status: domain.StatusPublish,
		}
	}
	return f
}

func (f *fakeContent) Get(_ context.Context, id int64) (*domain.ContentMeta, error) {
	f.calls++
	meta, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return meta, nil
}

func (f *fakeContent) Exists(_ context.Context, id int64) (bool, error) {
	f.calls++
	if f.failExists {
		return false, errors.New("connection refused")
	}
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakeContent) Search(_ context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	f.calls++
	f.lastQuery = q
	if f.failSearch {
		return nil, errors.New("i/o timeout")
	}
	return f.results, nil
}

func newService(t *testing.T, c *fakeContent) (*curation.Service, *options.MemoryStore) {
	t.Helper()
	store := options.NewMemoryStore()
	svc := curation.NewService(c, c, store, curation.Config{}, logger.NewNop(), telemetry.NewTestProvider())
	return svc, store
}

func storedList(t *testing.T, store *options.MemoryStore) domain.ReferenceList {
	t.Helper()
	v, err := store.Get(context.Background(), curation.DefaultOptionKey)
	require.NoError(t, err)
	return pinned.Parse(v.Raw)
}

func items(pairs ...any) []curation.SaveItem {
	out := make([]curation.SaveItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, curation.SaveItem{ID: pinned.ID(pairs[i].(int)), CustomTitle: pairs[i+1].(string)})
	}
	return out
}

func TestSave_PersistsInOrder(t *testing.T) {
	svc, store := newService(t, newFakeContent(1, 2, 3))

	ack, err := svc.Save(context.Background(), editor, curation.SaveRequest{Items: items(3, "", 1, "Home", 2, "")})
	require.NoError(t, err)

	assert.Equal(t, 3, ack.SavedCount)
	assert.Equal(t, int64(1), ack.Revision)
	assert.Equal(t, domain.ReferenceList{{ContentID: 3}, {ContentID: 1, TitleOverride: "Home"}, {ContentID: 2}}, storedList(t, store))
}

func TestSave_Deduplicates(t *testing.T) {
	svc, store := newService(t, newFakeContent(5))

	ack, err := svc.Save(context.Background(), editor, curation.SaveRequest{Items: items(5, "A", 5, "B")})
	require.NoError(t, err)

	assert.Equal(t, 1, ack.SavedCount)
	assert.Equal(t, domain.ReferenceList{{ContentID: 5, TitleOverride: "A"}}, storedList(t, store))
}

func TestSave_DiscardsInvalidIDs(t *testing.T) {
	svc, store := newService(t, newFakeContent(7))

	var req curation.SaveRequest
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"id":0},{"id":-3},{"id":"abc"},{"id":7},{"id":999}]}`), &req))

	ack, err := svc.Save(context.Background(), editor, req)
	require.NoError(t, err)

	assert.Equal(t, 1, ack.SavedCount)
	assert.Equal(t, domain.ReferenceList{{ContentID: 7}}, storedList(t, store))
}

func TestSave_SanitizesTitles(t *testing.T) {
	svc, store := newService(t, newFakeContent(4))

	_, err := svc.Save(context.Background(), editor, curation.SaveRequest{Items: items(4, "  <em>Start</em> here ")})
	require.NoError(t, err)

	assert.Equal(t, domain.ReferenceList{{ContentID: 4, TitleOverride: "Start here"}}, storedList(t, store))
}

func TestSave_EmptyListResets(t *testing.T) {
	svc, store := newService(t, newFakeContent(1, 2))
	ctx := context.Background()

	_, err := svc.Save(ctx, editor, curation.SaveRequest{Items: items(1, "", 2, "")})
	require.NoError(t, err)

	ack, err := svc.Save(ctx, editor, curation.SaveRequest{Items: nil})
	require.NoError(t, err)

	assert.Equal(t, 0, ack.SavedCount)
	assert.True(t, storedList(t, store).IsEmpty())
}

func TestSave_Idempotent(t *testing.T) {
	svc, store := newService(t, newFakeContent(1, 2))
	ctx := context.Background()
	req := curation.SaveRequest{Items: items(2, "Two", 1, "")}

	first, err := svc.Save(ctx, editor, req)
	require.NoError(t, err)
	afterFirst, _ := store.Get(ctx, curation.DefaultOptionKey)

	second, err := svc.Save(ctx, editor, req)
	require.NoError(t, err)
	afterSecond, _ := store.Get(ctx, curation.DefaultOptionKey)

	assert.Equal(t, first.SavedCount, second.SavedCount)
	assert.Equal(t, afterFirst.Raw, afterSecond.Raw)
}

func TestSave_Unauthorized(t *testing.T) {
	c := newFakeContent(1, 2)
	svc, store := newService(t, c)
	ctx := context.Background()

	_, err := svc.Save(ctx, editor, curation.SaveRequest{Items: items(2, "Two", 1, "")})
	require.NoError(t, err)
	before, err := store.Get(ctx, curation.DefaultOptionKey)
	require.NoError(t, err)
	writes, calls := store.Writes(), c.calls

	_, err = svc.Save(ctx, subscriber, curation.SaveRequest{Items: items(1, "Hijacked")})

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	after, err := store.Get(ctx, curation.DefaultOptionKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, domain.ReferenceList{{ContentID: 2, TitleOverride: "Two"}, {ContentID: 1}}, storedList(t, store))
	assert.Equal(t, writes, store.Writes())
	assert.Equal(t, calls, c.calls)
}

func TestSave_StoreUnavailableWritesNothing(t *testing.T) {
	c := newFakeContent(1)
	c.failExists = true
	svc, store := newService(t, c)

	_, err := svc.Save(context.Background(), editor, curation.SaveRequest{Items: items(1, "")})

	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Zero(t, store.Writes())
}

func TestSave_CompareAndSet(t *testing.T) {
	svc, _ := newService(t, newFakeContent(1, 2))
	ctx := context.Background()

	first, err := svc.Save(ctx, editor, curation.SaveRequest{Items: items(1, "")})
	require.NoError(t, err)

	rev := first.Revision
	second, err := svc.Save(ctx, editor, curation.SaveRequest{Items: items(2, ""), Revision: &rev})
	require.NoError(t, err)
	assert.Equal(t, rev+1, second.Revision)

	_, err = svc.Save(ctx, editor, curation.SaveRequest{Items: items(1, ""), Revision: &rev})
	require.ErrorIs(t, err, domain.ErrRevisionConflict)
}

func TestSearch(t *testing.T) {
	c := newFakeContent()
	c.results = []domain.Candidate{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}
	svc, _ := newService(t, c)

	got, err := svc.Search(context.Background(), editor, " <i>guide</i> ")
	require.NoError(t, err)

	assert.Equal(t, c.results, got)
	assert.Equal(t, "guide", c.lastQuery.Query)
	assert.Equal(t, 20, c.lastQuery.Limit)
	assert.ElementsMatch(t, domain.PinnableTypes, c.lastQuery.Types)
}

func TestSearch_CapsResults(t *testing.T) {
	c := newFakeContent()
	for i := range 30 {
		c.results = append(c.results, domain.Candidate{ID: int64(i + 1)})
	}
	svc := curation.NewService(c, c, options.NewMemoryStore(), curation.Config{SearchLimit: 10}, logger.NewNop(), nil)

	got, err := svc.Search(context.Background(), editor, "")
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestSearch_DegradesOnStoreFailure(t *testing.T) {
	c := newFakeContent()
	c.failSearch = true
	svc, _ := newService(t, c)

	got, err := svc.Search(context.Background(), editor, "anything")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_Unauthorized(t *testing.T) {
	c := newFakeContent(1)
	svc, store := newService(t, c)
	ctx := context.Background()

	_, err := svc.Save(ctx, editor, curation.SaveRequest{Items: items(1, "Home")})
	require.NoError(t, err)
	before, err := store.Get(ctx, curation.DefaultOptionKey)
	require.NoError(t, err)
	writes, calls := store.Writes(), c.calls

	_, err = svc.Search(ctx, subscriber, "x")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	after, err := store.Get(ctx, curation.DefaultOptionKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, writes, store.Writes())
	assert.Equal(t, calls, c.calls)
}

func TestLookup(t *testing.T) {
	c := newFakeContent(9)
	c.items[9].Status = domain.StatusDraft
	svc, _ := newService(t, c)
	ctx := context.Background()

	got, err := svc.Lookup(ctx, editor, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.Candidate{ID: 9, Title: "Item 9", URL: "https://example.com/9", Type: domain.ContentTypeArticle}, got)

	_, err = svc.Lookup(ctx, editor, 10)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Lookup(ctx, editor, 0)
	require.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = svc.Lookup(ctx, subscriber, 9)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCurrent(t *testing.T) {
	c := newFakeContent(1, 2)
	svc, store := newService(t, c)
	ctx := context.Background()

	items0, rev0, err := svc.Current(ctx, editor)
	require.NoError(t, err)
	assert.Empty(t, items0)
	assert.Zero(t, rev0)

	_, err = svc.Save(ctx, editor, curation.SaveRequest{Items: items(2, "Second", 1, "")})
	require.NoError(t, err)
	c.items[1].Status = domain.StatusPrivate

	got, rev, err := svc.Current(ctx, editor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, "Second", got[0].CustomTitle)
	assert.True(t, got[0].Available)
	assert.False(t, got[1].Available)
	assert.Equal(t, domain.StatusPrivate, got[1].Status)
	assert.Equal(t, 1, store.Writes())
}

func TestCurrent_ReadsLegacyValue(t *testing.T) {
	c := newFakeContent(4, 5)
	svc, store := newService(t, c)
	ctx := context.Background()

	_, err := store.Set(ctx, curation.DefaultOptionKey, []byte("5,4,5"))
	require.NoError(t, err)

	got, _, err := svc.Current(ctx, editor)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)
}
