package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/config"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/curation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optionKey = "pinned_nav_items"

type mapContent map[int64]*domain.ContentMeta

func (m mapContent) Get(_ context.Context, id int64) (*domain.ContentMeta, error) {
	if meta, ok := m[id]; ok {
		return meta, nil
	}
	return nil, domain.ErrNotFound
}

func (m mapContent) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m[id]
	return ok, nil
}

func newTestDeps(t *testing.T, raw string) (*Deps, *options.MemoryStore) {
	t.Helper()

	store := options.NewMemoryStore()
	if raw != "" {
		_, err := store.Set(context.Background(), optionKey, []byte(raw))
		require.NoError(t, err)
	}

	cfg := &config.Config{}
	cfg.Curation.OptionKey = optionKey

	return &Deps{
		Config: cfg,
		Store:  store,
		Content: mapContent{
			4: {ID: 4, Title: "Contact", URL: "/contact", Type: domain.ContentTypePage, Status: domain.StatusPublish},
			5: {ID: 5, Title: "Old post", URL: "/old", Type: domain.ContentTypeArticle, Status: domain.StatusTrash},
		},
		Logger: logger.NewNop(),
	}, store
}

func execute(t *testing.T, deps *Deps, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand(func(context.Context, string) (*Deps, func(), error) {
		return deps, func() {}, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList(t *testing.T) {
	deps, _ := newTestDeps(t, `[{"id":4,"custom_title":"Get in touch"},{"id":5}]`)

	out, err := execute(t, deps, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Get in touch")
	assert.Contains(t, out, "Contact")
	assert.Contains(t, out, "trash")
	assert.Contains(t, strings.ToLower(out), "revision")
}

func TestShow(t *testing.T) {
	deps, _ := newTestDeps(t, `[{"id":5},{"id":4,"custom_title":"Get in touch"}]`)

	out, err := execute(t, deps, "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Get in touch")
	assert.NotContains(t, out, "Old post")
}

func TestMigrateLegacy(t *testing.T) {
	deps, store := newTestDeps(t, `"4,5,4"`)

	out, err := execute(t, deps, "migrate-legacy", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would rewrite 2 items")
	assert.Equal(t, 1, store.Writes())

	out, err = execute(t, deps, "migrate-legacy")
	require.NoError(t, err)
	assert.Contains(t, out, "Rewrote 2 items at revision 2")

	v, err := store.Get(context.Background(), optionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":4,"custom_title":""},{"id":5,"custom_title":""}]`, string(v.Raw))

	out, err = execute(t, deps, "migrate-legacy")
	require.NoError(t, err)
	assert.Contains(t, out, "already uses the structured encoding")
	assert.Equal(t, 2, store.Writes())
}

func TestMigrateLegacy_NothingStored(t *testing.T) {
	deps, store := newTestDeps(t, "")

	result, err := migrateLegacy(context.Background(), deps.Store, optionKey, false)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Zero(t, store.Writes())
}

func TestToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  jwt_secret: cli-secret\n"), 0o600))

	out, err := execute(t, nil, "token", "--config", path, "--subject", "alice")
	require.NoError(t, err)

	claims, err := jwt.Parse("cli-secret", string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Contains(t, claims.Capabilities, curation.CapabilityEditNavigation)
}
