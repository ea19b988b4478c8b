package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/journal/internal/api"
	"github.com/pders01/journal/internal/config"
	"github.com/pders01/journal/internal/debuglog"
	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/media"
	"github.com/pders01/journal/internal/render"
	"github.com/pders01/journal/internal/search"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
	"github.com/pders01/journal/internal/syncer"
)

// Options wires the collaborators the app needs. Only Config and Client are
// required; Store may be nil, in which case nothing is cached.
type Options struct {
	Config   *config.Config
	Client   *api.Client
	Store    *storage.Store
	Sessions session.Store
	Searcher search.Searcher
	Launcher *media.Launcher
	Renderer *render.Renderer
	Syncer   *syncer.Syncer
}

type App struct {
	config     *config.Config
	client     *api.Client
	store      *storage.Store
	sessions   session.Store
	searcher   search.Searcher
	launcher   *media.Launcher
	renderer   *render.Renderer
	syncer     *syncer.Syncer
	keyHandler *KeyHandler

	sess         session.Session
	view         View
	previousView View
	width        int
	height       int

	public          *listview.Controller[storage.Article]
	adminArticles   *listview.Controller[storage.Article]
	adminCategories *listview.Controller[storage.Category]
	categories      []storage.Category

	publicCursor  int
	articleTable  table.Model
	categoryTable table.Model
	queryInput    textinput.Model

	viewport   viewport.Model
	current    *storage.Article
	others     []storage.Article
	readerFrom View

	auth         authForm
	articleForm  articleForm
	categoryForm categoryForm
	toDelete     *deleteTarget

	searchInput   textinput.Model
	searchResults []*search.Result
	searchCursor  int
	searchSeq     int
	pendingQuery  string

	spinner    spinner.Model
	loading    bool
	status     string
	statusKind StatusKind
	err        error
	help       help.Model
}

func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.TestConfig()
	}

	sessions := opts.Sessions
	if sessions == nil {
		if opts.Store != nil {
			sessions = opts.Store.Sessions()
		} else {
			sessions = &session.MemoryStore{}
		}
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.New(render.Options{
			MaxWrap: cfg.UI.Article.WordWrapMaxWidth,
			MinWrap: cfg.UI.Article.WordWrapMinWidth,
		})
	}
	launcher := opts.Launcher
	if launcher == nil {
		launcher = media.NewLauncher(cfg.Media)
	}

	qi := textinput.New()
	qi.Placeholder = "Search by title"
	qi.Prompt = "/ "

	si := textinput.New()
	si.Placeholder = "Search cached articles..."

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StatusInfoStyle

	app := &App{
		config:        cfg,
		client:        opts.Client,
		store:         opts.Store,
		sessions:      sessions,
		searcher:      opts.Searcher,
		launcher:      launcher,
		renderer:      renderer,
		syncer:        opts.Syncer,
		view:          ViewLogin,
		previousView:  ViewLogin,
		articleTable:  newArticleTable(),
		categoryTable: newCategoryTable(),
		queryInput:    qi,
		viewport:      viewport.New(0, 0),
		auth:          newAuthForm(),
		articleForm:   newArticleForm(),
		categoryForm:  newCategoryForm(),
		searchInput:   si,
		spinner:       sp,
		help:          help.New(),
	}
	app.keyHandler = NewKeyHandler(app, cfg)

	sess, err := sessions.Load()
	if err != nil {
		debuglog.Warnf("loading saved session: %v", err)
	}
	if sess.LoggedIn() {
		app.startSession(sess)
		app.view = app.landingView()
	}

	return app
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, textinput.Blink}
	if a.sess.LoggedIn() {
		cmds = append(cmds, a.enterSession())
	}
	return tea.Batch(cmds...)
}

// startSession rebuilds the list controllers around sess.
func (a *App) startSession(sess session.Session) {
	a.sess = sess
	mode := a.config.ListMode()
	a.public = listview.NewController[storage.Article](
		api.ArticleFetcher{Client: a.client, Session: sess}, mode, a.config.Lists.PublicPageSize)
	a.adminArticles = listview.NewController[storage.Article](
		api.ArticleFetcher{Client: a.client, Session: sess}, mode, a.config.Lists.ArticlesPageSize)
	a.adminCategories = listview.NewController[storage.Category](
		api.CategoryFetcher{Client: a.client, Session: sess}, mode, a.config.Lists.CategoriesPageSize)
	a.publicCursor = 0
	a.queryInput.Reset()
	a.queryInput.Blur()
}

func (a *App) endSession() {
	a.sess = session.Session{}
	a.public, a.adminArticles, a.adminCategories = nil, nil, nil
	a.categories = nil
	a.current, a.others = nil, nil
	a.searchResults = nil
	a.toDelete = nil
	a.articleTable.SetRows(nil)
	a.categoryTable.SetRows(nil)
	a.auth.reset()
	a.view, a.previousView = ViewLogin, ViewLogin
}

// enterSession loads what the landing view needs and warms the cache.
func (a *App) enterSession() tea.Cmd {
	target := targetPublic
	if a.sess.IsAdmin() {
		target = targetAdminArticles
	}
	a.loading = true
	return tea.Batch(a.fetchArticles(target), a.loadCategoryOptions(), a.runSync(), a.spinner.Tick)
}

func (a *App) landingView() View {
	if a.sess.IsAdmin() {
		return ViewArticles
	}
	return ViewPublic
}

func (a *App) articleController(target listTarget) *listview.Controller[storage.Article] {
	if target == targetAdminArticles {
		return a.adminArticles
	}
	return a.public
}

// activeArticleTarget is the article list the current view shows.
func (a *App) activeArticleTarget() (listTarget, bool) {
	switch a.view {
	case ViewPublic:
		return targetPublic, true
	case ViewArticles:
		return targetAdminArticles, true
	}
	return 0, false
}

func (a *App) setStatus(msg string, kind StatusKind) {
	a.status = msg
	a.statusKind = kind
	a.err = nil
}

func (a *App) setError(err error) {
	a.loading = false
	a.err = err
	a.status = ""
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case loggedInMsg:
		a.loading = false
		if msg.err != nil {
			a.auth.password.Reset()
			if api.IsUnauthorized(msg.err) {
				a.setError(errBadCredentials)
			} else {
				a.setError(msg.err)
			}
			return a, nil
		}
		if err := a.sessions.Save(msg.sess); err != nil {
			debuglog.Warnf("saving session: %v", err)
		}
		a.auth.reset()
		a.startSession(msg.sess)
		a.view = a.landingView()
		a.setStatus(MsgWelcome(msg.sess.Username), StatusSuccess)
		return a, a.enterSession()

	case registeredMsg:
		a.loading = false
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.auth.reset()
		a.auth.username.SetValue(msg.username)
		a.auth.focusField(authPassword)
		a.view = ViewLogin
		a.setStatus(MsgRegistered(msg.username), StatusSuccess)
		return a, nil

	case loggedOutMsg:
		if msg.err != nil {
			debuglog.Warnf("clearing session: %v", msg.err)
		}
		a.endSession()
		a.setStatus(MsgLoggedOut, StatusInfo)
		return a, nil

	case articlesFetchedMsg:
		return a, a.handleArticlesFetched(msg)

	case categoriesFetchedMsg:
		return a, a.handleCategoriesFetched(msg)

	case categoryOptionsMsg:
		if msg.err != nil {
			debuglog.Warnf("loading categories: %v", msg.err)
			return a, nil
		}
		a.categories = msg.categories
		return a, nil

	case articleOpenedMsg:
		a.loading = false
		if a.view != ViewReader {
			return a, nil
		}
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		art := msg.article
		a.current = &art
		a.others = msg.others
		a.viewport.SetContent(msg.rendered)
		a.viewport.GotoTop()
		if a.status == MsgLoadingArticle {
			a.status = ""
		}
		return a, nil

	case articleSavedMsg:
		a.loading = false
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.view = ViewArticles
		a.setStatus(MsgArticleSaved, StatusSuccess)
		return a, tea.Batch(
			a.fetchArticles(targetAdminArticles),
			a.fetchArticles(targetPublic),
			a.indexArticle(msg.article),
		)

	case categorySavedMsg:
		a.loading = false
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.view = ViewCategories
		a.setStatus(MsgCategorySaved, StatusSuccess)
		return a, tea.Batch(a.fetchCategories(), a.loadCategoryOptions())

	case deletedMsg:
		return a, a.handleDeleted(msg)

	case searchDebounceFireMsg:
		if msg.seq != a.searchSeq {
			return a, nil
		}
		return a, a.performSearch(a.pendingQuery)

	case searchResultsMsg:
		if a.view != ViewSearch || msg.query != a.pendingQuery {
			return a, nil
		}
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.searchResults = msg.results
		a.searchCursor = 0
		if len(msg.results) == 0 && len(msg.query) > 1 {
			a.setStatus(MsgNoResults, StatusInfo)
		} else {
			a.setStatus(MsgResultsCount(len(msg.results)), StatusInfo)
		}
		return a, nil

	case syncedMsg:
		if msg.err != nil {
			debuglog.Warnf("sync failed: %v", msg.err)
			if a.err == nil && a.status == "" {
				a.setStatus(describeErr(msg.err), StatusWarn)
			}
			return a, nil
		}
		if a.err == nil && a.status == "" {
			a.setStatus(MsgSyncSummary(msg.result.Articles, msg.result.Categories, msg.docCount), StatusInfo)
		}
		return a, nil

	case errorMsg:
		a.setError(msg.err)
		return a, nil
	}

	// Cursor blinks and the like go to whatever input has focus.
	return a, a.updateFocused(msg)
}

func (a *App) handleArticlesFetched(msg articlesFetchedMsg) tea.Cmd {
	ctl := a.articleController(msg.target)
	if ctl == nil {
		return nil
	}
	if msg.err != nil && !msg.fromCache {
		debuglog.Warnf("fetching articles: %v", msg.err)
		if msg.target == targetPublic && a.store != nil && !errors.Is(msg.err, session.ErrNoToken) {
			return a.loadCachedArticles(msg.target, msg.req, msg.err)
		}
		a.setError(msg.err)
		return nil
	}

	if !ctl.Apply(msg.req, msg.resp) {
		debuglog.Debugf("dropping stale article page %+v", msg.req)
		return nil
	}
	a.loading = false

	var cmds []tea.Cmd
	if msg.fromCache {
		a.setStatus(fmt.Sprintf("%s (%s)", MsgOffline, describeErr(msg.err)), StatusWarn)
	} else if msg.req.Limit == 0 {
		cmds = append(cmds, a.cacheArticles(msg.resp.Records))
	}
	if ctl.NeedsFetch() {
		cmds = append(cmds, a.fetchArticles(msg.target))
	}
	a.clampPublicCursor()
	a.refreshArticleTable()
	return tea.Batch(cmds...)
}

func (a *App) handleCategoriesFetched(msg categoriesFetchedMsg) tea.Cmd {
	ctl := a.adminCategories
	if ctl == nil {
		return nil
	}
	if msg.err != nil {
		debuglog.Warnf("fetching categories: %v", msg.err)
		a.setError(msg.err)
		return nil
	}
	if !ctl.Apply(msg.req, msg.resp) {
		debuglog.Debugf("dropping stale category page %+v", msg.req)
		return nil
	}
	a.loading = false
	a.refreshCategoryTable()
	if ctl.NeedsFetch() {
		return a.fetchCategories()
	}
	return nil
}

func (a *App) handleDeleted(msg deletedMsg) tea.Cmd {
	a.loading = false
	a.toDelete = nil
	a.view = a.previousView
	if msg.err != nil {
		a.setError(msg.err)
		return nil
	}
	a.setStatus(MsgDeleted(string(msg.target.kind), msg.target.name), StatusSuccess)

	var cmds []tea.Cmd
	switch msg.target.kind {
	case deleteArticle:
		for _, target := range []listTarget{targetPublic, targetAdminArticles} {
			ctl := a.articleController(target)
			if ctl == nil {
				continue
			}
			ctl.RemoveRecord(msg.target.id)
			if ctl.NeedsFetch() {
				cmds = append(cmds, a.fetchArticles(target))
			}
		}
		if a.current != nil && a.current.ID == msg.target.id {
			a.current = nil
		}
		a.clampPublicCursor()
		a.refreshArticleTable()
	case deleteCategory:
		if a.adminCategories != nil {
			a.adminCategories.RemoveRecord(msg.target.id)
			if a.adminCategories.NeedsFetch() {
				cmds = append(cmds, a.fetchCategories())
			}
		}
		a.refreshCategoryTable()
		cmds = append(cmds, a.loadCategoryOptions())
	}
	return tea.Batch(cmds...)
}

func (a *App) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.view {
	case ViewLogin, ViewRegister:
		cmd = a.auth.update(msg)
	case ViewArticleForm:
		cmd = a.articleForm.update(msg)
	case ViewCategoryForm:
		a.categoryForm.name, cmd = a.categoryForm.name.Update(msg)
	case ViewSearch:
		a.searchInput, cmd = a.searchInput.Update(msg)
	case ViewPublic, ViewArticles, ViewCategories:
		if a.queryInput.Focused() {
			a.queryInput, cmd = a.queryInput.Update(msg)
		}
	case ViewReader:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return cmd
}

const chromeHeight = 6

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.help.Width = width

	bodyHeight := height - chromeHeight
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	a.viewport.Width = width
	a.viewport.Height = bodyHeight

	a.articleTable.SetWidth(width)
	a.articleTable.SetHeight(bodyHeight - 3)
	a.categoryTable.SetWidth(width)
	a.categoryTable.SetHeight(bodyHeight - 3)
	a.articleTable.SetColumns(articleColumns(width))
	a.categoryTable.SetColumns(categoryColumns(width))

	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = width
	}
	a.queryInput.Width = inputWidth / 2
	a.searchInput.Width = inputWidth
	a.auth.username.Width = 40
	a.auth.password.Width = 40
	a.articleForm.title.Width = inputWidth
	a.articleForm.image.Width = inputWidth
	a.articleForm.body.SetWidth(inputWidth)
	formBody := bodyHeight - 14
	if formBody < 4 {
		formBody = 4
	}
	a.articleForm.body.SetHeight(formBody)
	a.categoryForm.name.Width = inputWidth / 2
}
