package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/journal/internal/api/apitest"
	"github.com/pders01/journal/internal/config"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
	"github.com/pders01/journal/internal/validation"
)

func resetFlags() {
	configPath, dbPath, logLevel, quiet = "", "", "", false
	generateConfigOutput = ""
	loginUsername, loginPassword = "", ""
	articlesFlags.query, articlesFlags.category = "", ""
	articlesFlags.page, articlesFlags.limit = 1, 0
	categoriesFlags.query = ""
	categoriesFlags.page, categoriesFlags.limit = 1, 0
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// testEnv points config at srv and keeps every file under a temp home.
func testEnv(t *testing.T, srv *apitest.Server) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("JOURNAL_API_BASE_URL", srv.URL)
	t.Setenv("JOURNAL_DATABASE_PATH", filepath.Join(dir, "journal.db"))
	t.Setenv("JOURNAL_DATABASE_SEARCH_INDEX", filepath.Join(dir, "index.bleve"))
	t.Setenv("JOURNAL_LOG_LEVEL", "off")
	return dir
}

func newServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	return srv
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "--quiet")
	require.NoError(t, err)

	assert.Contains(t, out, "journal dev")
	assert.Contains(t, out, "The Journal, in your terminal")
	assert.Contains(t, out, "github.com/pders01/journal")
}

func TestGenerateConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "", "generate-config", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = os.Stat(path)
	require.NoError(t, err)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 9, cfg.Lists.PublicPageSize)
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv := newServer(t)
	srv.AddUser("kim", "secret1", session.RoleAdmin)
	testEnv(t, srv)

	out, err := execute(t, "", "login", "-u", "kim", "-p", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, kim (Admin)")

	out, err = execute(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "kim (Admin)")

	out, err = execute(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = execute(t, "", "whoami")
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	srv := newServer(t)
	srv.AddUser("kim", "secret1", session.RoleUser)
	testEnv(t, srv)

	out, err := execute(t, "secret1\n", "login", "--username", "kim")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, kim (User)")
}

func TestLoginValidatesBeforeCallingTheAPI(t *testing.T) {
	srv := newServer(t)
	testEnv(t, srv)

	_, err := execute(t, "", "login", "-u", "kim", "-p", "123")
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.NotEmpty(t, fe.For("Password"))
	assert.Empty(t, srv.Requests())
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newServer(t)
	srv.AddUser("kim", "secret1", session.RoleUser)
	testEnv(t, srv)

	_, err := execute(t, "", "login", "-u", "kim", "-p", "wrong12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signing in")
}

func TestArticlesCommand(t *testing.T) {
	srv := newServer(t)
	srv.SeedNumbered(12, "a", "b")
	testEnv(t, srv)

	tests := []struct {
		name     string
		args     []string
		contains []string
		absent   []string
	}{
		{
			name:     "second page",
			args:     []string{"articles", "--page", "2", "--limit", "5"},
			contains: []string{"Article 6", "Article 10", "Page 2 of 3 (12 articles)"},
			absent:   []string{"Article 5 ", "Article 11"},
		},
		{
			name:     "category",
			args:     []string{"articles", "--category", "b"},
			contains: []string{"Article 2", "Category b", "Page 1 of 1 (6 articles)"},
			absent:   []string{"Article 3"},
		},
		{
			name:     "query",
			args:     []string{"articles", "--query", "article 1"},
			contains: []string{"Article 1", "Article 12", "(4 articles)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestCategoriesCommand(t *testing.T) {
	srv := newServer(t)
	srv.SeedNumbered(4, "tech", "life")
	srv.AddUser("kim", "secret1", session.RoleAdmin)
	testEnv(t, srv)

	_, err := execute(t, "", "categories")
	assert.ErrorIs(t, err, session.ErrNoToken)

	_, err = execute(t, "", "login", "-u", "kim", "-p", "secret1")
	require.NoError(t, err)

	out, err := execute(t, "", "categories", "--query", "tech")
	require.NoError(t, err)
	assert.Contains(t, out, "Category tech")
	assert.NotContains(t, out, "Category life")
	assert.Contains(t, out, "Page 1 of 1 (1 categories)")
}

func TestSyncCommand(t *testing.T) {
	srv := newServer(t)
	srv.SeedNumbered(3)
	srv.AddUser("kim", "secret1", session.RoleUser)
	dir := testEnv(t, srv)

	_, err := execute(t, "", "login", "-u", "kim", "-p", "secret1")
	require.NoError(t, err)

	out, err := execute(t, "", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Synced: 3 articles • 1 categories")

	store, err := storage.NewStore(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	defer store.Close()
	cached, err := store.GetArticles(0)
	require.NoError(t, err)
	assert.Len(t, cached, 3)
}

func TestSetupRejectsBadBaseURL(t *testing.T) {
	srv := newServer(t)
	testEnv(t, srv)
	t.Setenv("JOURNAL_API_BASE_URL", "ftp://example.com")

	_, err := execute(t, "", "logout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url")
}

func TestDBFlagOverridesConfig(t *testing.T) {
	srv := newServer(t)
	dir := testEnv(t, srv)
	custom := filepath.Join(dir, "elsewhere", "custom.db")

	_, err := execute(t, "", "logout", "--db", custom)
	require.NoError(t, err)

	_, err = os.Stat(custom)
	assert.NoError(t, err)
}
