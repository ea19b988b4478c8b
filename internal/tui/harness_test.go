package tui

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/pders01/journal/internal/api"
	"github.com/pders01/journal/internal/api/apitest"
	"github.com/pders01/journal/internal/config"
	"github.com/pders01/journal/internal/media"
	"github.com/pders01/journal/internal/search"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
)

type harness struct {
	t        *testing.T
	srv      *apitest.Server
	app      *App
	sessions *session.MemoryStore
	opened   *[]string
}

type harnessOption func(*config.Config, *Options)

func withMode(mode string) harnessOption {
	return func(cfg *config.Config, _ *Options) { cfg.API.Mode = mode }
}

func withStore(store *storage.Store) harnessOption {
	return func(_ *config.Config, o *Options) { o.Store = store }
}

func withSearcher(s search.Searcher) harnessOption {
	return func(_ *config.Config, o *Options) { o.Searcher = s }
}

// withSession starts the app logged in as a fresh account with role.
func withSession(srv *apitest.Server, username, role string) harnessOption {
	token := srv.AddUser(username, "secret1", role)
	return func(_ *config.Config, o *Options) {
		_ = o.Sessions.Save(session.Session{Token: token, Role: role, Username: username})
	}
}

func newHarness(t *testing.T, srv *apitest.Server, opts ...harnessOption) *harness {
	t.Helper()
	if srv == nil {
		srv = apitest.NewServer()
	}
	t.Cleanup(srv.Close)

	cfg := config.TestConfig()
	cfg.API.BaseURL = srv.URL

	var opened []string
	sessions := &session.MemoryStore{}
	o := Options{
		Config:   cfg,
		Client:   api.NewClient(api.Options{BaseURL: srv.URL}),
		Sessions: sessions,
		Launcher: media.NewLauncher(config.MediaConfig{DefaultOpener: "xdg-open"},
			media.WithPlatform("linux"),
			media.WithLookPath(func(string) (string, error) { return "", errors.New("not installed") }),
			media.WithStarter(func(_ string, args ...string) error {
				opened = append(opened, args[len(args)-1])
				return nil
			}),
		),
	}
	for _, opt := range opts {
		opt(cfg, &o)
	}

	app := NewApp(o)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &harness{t: t, srv: srv, app: app, sessions: sessions, opened: &opened}
}

// run executes cmd and feeds the app every message the app itself
// produces, following up on the commands those return. Cursor blinks and
// spinner ticks are dropped so the loop terminates.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(h.t, steps, 500, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg, nil:
		case loggedInMsg, registeredMsg, loggedOutMsg, articlesFetchedMsg,
			categoriesFetchedMsg, categoryOptionsMsg, articleOpenedMsg,
			articleSavedMsg, categorySavedMsg, deletedMsg, searchResultsMsg,
			searchDebounceFireMsg, syncedMsg, errorMsg:
			_, follow := h.app.Update(msg)
			queue = append(queue, follow)
		}
	}
}

// press sends a key and runs whatever it returns.
func (h *harness) press(k tea.KeyMsg) {
	h.t.Helper()
	_, cmd := h.app.Update(k)
	h.run(cmd)
}

// typeText sends runes one by one. The returned commands are cursor blinks
// and search debounces, so they are not run.
func (h *harness) typeText(s string) {
	for _, r := range s {
		h.app.Update(runeKey(r))
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func (h *harness) visibleTitles(target listTarget) []string {
	var titles []string
	for _, a := range h.app.articleController(target).VisibleSlice().Records {
		titles = append(titles, a.Title)
	}
	return titles
}

type stubSearcher struct {
	results []*search.Result
	queries []string
}

func (s *stubSearcher) Search(query string, limit int) ([]*search.Result, error) {
	s.queries = append(s.queries, query)
	return s.results, nil
}

// indexingSearcher records the index updates the app sends.
type indexingSearcher struct {
	stubSearcher
	updated []string
	deleted []string
}

func (s *indexingSearcher) Reindex([]*storage.Article) error { return nil }

func (s *indexingSearcher) OnArticlesUpdated(articles []*storage.Article) {
	for _, a := range articles {
		s.updated = append(s.updated, a.ID)
	}
}

func (s *indexingSearcher) OnArticleDeleted(id string) { s.deleted = append(s.deleted, id) }
