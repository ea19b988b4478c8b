package syncer

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pders01/journal/internal/api"
	"github.com/pders01/journal/internal/api/apitest"
	"github.com/pders01/journal/internal/search"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
)

func TestMain(m *testing.M) {
	// bleve starts its analysis workers at init.
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}

func setup(t *testing.T) (*apitest.Server, *api.Client, *storage.Store) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	client := api.NewClient(api.Options{BaseURL: srv.URL})
	return srv, client, store
}

func TestRun(t *testing.T) {
	srv, client, store := setup(t)
	srv.SeedNumbered(130, "c1", "c2")

	idx, err := search.NewBleveEngine(store, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	res, err := New(client, store, idx).Run(context.Background(), session.Session{})
	require.NoError(t, err)
	assert.Equal(t, 130, res.Articles)
	assert.Equal(t, 2, res.Categories)

	articles, err := store.GetArticles(0)
	require.NoError(t, err)
	require.Len(t, articles, 130)
	assert.Equal(t, "art-1", articles[0].ID)

	categories, err := store.GetCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	meta, err := store.SyncMetadata()
	require.NoError(t, err)
	assert.Equal(t, 130, meta.ArticleCount)
	assert.False(t, meta.ArticlesSynced.IsZero())

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 130, n)
}

func TestRunFailureKeepsSnapshot(t *testing.T) {
	srv, client, store := setup(t)
	srv.SeedNumbered(3, "c1")

	s := New(client, store, nil)
	_, err := s.Run(context.Background(), session.Session{})
	require.NoError(t, err)

	srv.SeedNumbered(5, "c1")
	srv.FailNext("GET /categories", http.StatusInternalServerError, 1)

	_, err = s.Run(context.Background(), session.Session{})
	require.Error(t, err)
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)

	articles, err := store.GetArticles(0)
	require.NoError(t, err)
	assert.Len(t, articles, 3)
}

// stubSource blocks on categories until the context ends.
type stubSource struct {
	articles []storage.Article
}

func (s stubSource) ListAllArticles(context.Context, session.Session) ([]storage.Article, error) {
	return s.articles, nil
}

func (s stubSource) ListAllCategories(ctx context.Context, _ session.Session) ([]storage.Category, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRunCancelled(t *testing.T) {
	_, _, store := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(stubSource{}, store, nil).Run(ctx, session.Session{})
	assert.ErrorIs(t, err, context.Canceled)
}

type failingIndex struct{ calls int }

func (f *failingIndex) Reindex([]*storage.Article) error {
	f.calls++
	return errors.New("index full")
}

func TestRunIndexErrorIsNotFatal(t *testing.T) {
	srv, client, store := setup(t)
	srv.SeedNumbered(2, "c1")
	idx := &failingIndex{}

	res, err := New(client, store, idx).Run(context.Background(), session.Session{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Articles)
	assert.Equal(t, 1, idx.calls)
}
