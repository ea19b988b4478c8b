package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/journal/internal/api"
	"github.com/pders01/journal/internal/config"
	"github.com/pders01/journal/internal/storage"
	"github.com/pders01/journal/internal/validation"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	keys        keyMap
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{
		app:         app,
		config:      cfg,
		keys:        newKeyMap(cfg.Keys),
		modifierKey: strings.TrimSuffix(cfg.Keys.Modifier, "+") + "+",
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return kh.app, tea.Quit
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegate(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	a := kh.app
	switch a.view {
	case ViewLogin, ViewRegister, ViewArticleForm, ViewCategoryForm:
		return true
	case ViewSearch:
		return a.searchInput.Focused()
	case ViewPublic, ViewArticles, ViewCategories:
		return a.queryInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	if key.Matches(msg, kh.keys.Back) {
		if a.queryInput.Focused() {
			a.queryInput.Blur()
			return a, nil
		}
		return kh.navigateBack()
	}

	switch a.view {
	case ViewLogin, ViewRegister:
		return kh.handleAuthKeys(msg)
	case ViewArticleForm:
		return kh.handleArticleFormKeys(msg)
	case ViewCategoryForm:
		return kh.handleCategoryFormKeys(msg)
	case ViewSearch:
		return kh.handleSearchInputKeys(msg)
	default:
		return kh.handleQueryKeys(msg)
	}
}

func (kh *KeyHandler) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	f := &a.auth
	register := a.view == ViewRegister

	switch {
	case key.Matches(msg, kh.keys.New):
		if register {
			a.view = ViewLogin
		} else {
			a.view = ViewRegister
		}
		f.errs = nil
		a.err = nil
		if f.focus == authRole {
			f.focusField(authUsername)
		}
		return a, nil
	case key.Matches(msg, kh.keys.NextField), msg.String() == "down":
		f.cycle(1, register)
		return a, nil
	case key.Matches(msg, kh.keys.PrevField), msg.String() == "up":
		f.cycle(-1, register)
		return a, nil
	case msg.String() == "enter":
		return kh.submitAuth()
	}

	if f.focus == authRole {
		switch msg.String() {
		case "left", "right", " ", "h", "l":
			f.toggleRole()
		}
		return a, nil
	}
	return a, f.update(msg)
}

func (kh *KeyHandler) submitAuth() (tea.Model, tea.Cmd) {
	a := kh.app
	f := &a.auth

	var err error
	if a.view == ViewRegister {
		err = validation.ValidateForm(f.registerValues())
	} else {
		err = validation.ValidateForm(f.loginValues())
	}
	if fe, ok := asFieldErrors(err); ok {
		f.errs = fe
		return a, nil
	}
	if err != nil {
		a.setError(err)
		return a, nil
	}
	f.errs = nil

	a.loading = true
	if a.view == ViewRegister {
		v := f.registerValues()
		a.setStatus(MsgRegistering, StatusInfo)
		return a, tea.Batch(a.register(v.Username, v.Password, v.Role), a.spinner.Tick)
	}
	v := f.loginValues()
	a.setStatus(MsgSigningIn, StatusInfo)
	return a, tea.Batch(a.signIn(v.Username, v.Password), a.spinner.Tick)
}

func (kh *KeyHandler) handleArticleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	f := &a.articleForm

	switch {
	case key.Matches(msg, kh.keys.Save):
		return kh.submitArticle()
	case key.Matches(msg, kh.keys.Preview):
		f.preview = !f.preview
		return a, nil
	case key.Matches(msg, kh.keys.NextField):
		f.cycle(1)
		return a, nil
	case key.Matches(msg, kh.keys.PrevField):
		f.cycle(-1)
		return a, nil
	}

	if kind, ok := formatKeys[msg.String()]; ok {
		if f.focus != fieldBody {
			return a, nil
		}
		if err := f.applyFormat(kind); err != nil {
			a.setError(err)
		}
		return a, nil
	}

	if f.focus == fieldCategory {
		switch msg.String() {
		case "left", "h", "up":
			f.cycleCategory(-1, a.categories)
		case "right", "l", "down", " ":
			f.cycleCategory(1, a.categories)
		case "enter":
			f.cycle(1)
		}
		return a, nil
	}
	if f.focus != fieldBody && msg.String() == "enter" {
		f.cycle(1)
		return a, nil
	}
	if f.preview {
		return a, nil
	}
	return a, f.update(msg)
}

func (kh *KeyHandler) submitArticle() (tea.Model, tea.Cmd) {
	a := kh.app
	f := &a.articleForm

	values := f.values()
	err := validation.ValidateForm(values)
	if fe, ok := asFieldErrors(err); ok {
		f.errs = fe
		return a, nil
	}
	if err != nil {
		a.setError(err)
		return a, nil
	}
	f.errs = nil

	content, err := f.html()
	if err != nil {
		a.setError(err)
		return a, nil
	}

	a.loading = true
	a.setStatus(MsgSaving, StatusInfo)
	return a, tea.Batch(a.saveArticle(f.id, api.ArticleInput{
		Title:      values.Title,
		Content:    content,
		CategoryID: values.CategoryID,
		ImageURL:   values.ImageURL,
	}), a.spinner.Tick)
}

func (kh *KeyHandler) handleCategoryFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	f := &a.categoryForm

	if key.Matches(msg, kh.keys.Save) || msg.String() == "enter" {
		values := f.values()
		err := validation.ValidateForm(values)
		if fe, ok := asFieldErrors(err); ok {
			f.errs = fe
			return a, nil
		}
		if err != nil {
			a.setError(err)
			return a, nil
		}
		f.errs = nil
		a.loading = true
		a.setStatus(MsgSaving, StatusInfo)
		return a, tea.Batch(a.saveCategory(f.id, api.CategoryInput{Name: values.Name}), a.spinner.Tick)
	}

	var cmd tea.Cmd
	f.name, cmd = f.name.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleSearchInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "enter":
		return kh.openSearchResult()
	case "down", "tab":
		if len(a.searchResults) > 0 {
			a.searchInput.Blur()
			a.searchCursor = 0
		}
		return a, nil
	}

	prev := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if query := strings.TrimSpace(a.searchInput.Value()); query != strings.TrimSpace(prev) {
		return a, tea.Batch(cmd, a.scheduleSearch(query))
	}
	return a, cmd
}

// handleQueryKeys edits the title filter of the current list. Each change
// updates the controller; in server mode that means a fresh fetch.
func (kh *KeyHandler) handleQueryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	if msg.String() == "enter" {
		a.queryInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.queryInput, cmd = a.queryInput.Update(msg)
	return a, tea.Batch(cmd, kh.applyQuery())
}

func (kh *KeyHandler) applyQuery() tea.Cmd {
	a := kh.app
	query := strings.TrimSpace(a.queryInput.Value())

	if a.view == ViewCategories {
		if a.adminCategories == nil {
			return nil
		}
		a.adminCategories.SetQuery(query)
		a.refreshCategoryTable()
		if a.adminCategories.NeedsFetch() {
			return a.fetchCategories()
		}
		return nil
	}

	target, ok := a.activeArticleTarget()
	if !ok {
		return nil
	}
	ctl := a.articleController(target)
	if ctl == nil {
		return nil
	}
	ctl.SetQuery(query)
	a.publicCursor = 0
	a.refreshArticleTable()
	if ctl.NeedsFetch() {
		return a.fetchArticles(target)
	}
	return nil
}

// handleCustomKeys handles the action keys; anything it leaves alone goes to
// the focused component.
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	keys := kh.keys

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit, true
	case key.Matches(msg, keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil, true
	case key.Matches(msg, keys.Logout) && a.sess.LoggedIn():
		return a, a.logout(), true
	case key.Matches(msg, keys.Search) && a.sess.LoggedIn() && a.view != ViewSearch:
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	}

	switch a.view {
	case ViewPublic:
		return kh.handlePublicKeys(msg)
	case ViewReader:
		return kh.handleReaderKeys(msg)
	case ViewArticles:
		return kh.handleArticlesKeys(msg)
	case ViewCategories:
		return kh.handleCategoriesKeys(msg)
	case ViewDeleteConfirm:
		return kh.handleDeleteConfirmKeys(msg)
	case ViewSearch:
		return kh.handleSearchKeys(msg)
	default:
		return a, nil, false
	}
}

// handleListKeys covers paging, filtering and refresh, shared by every list.
func (kh *KeyHandler) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	keys := kh.keys

	switch {
	case key.Matches(msg, keys.Query):
		a.queryInput.Focus()
		a.queryInput.CursorEnd()
		return a, nil, true
	case key.Matches(msg, keys.NextPage):
		return a, kh.page(1), true
	case key.Matches(msg, keys.PrevPage):
		return a, kh.page(-1), true
	case key.Matches(msg, keys.Refresh):
		a.loading = true
		a.setStatus(MsgRefreshing, StatusInfo)
		var fetch tea.Cmd
		if a.view == ViewCategories {
			fetch = a.fetchCategories()
		} else if target, ok := a.activeArticleTarget(); ok {
			fetch = a.fetchArticles(target)
		}
		return a, tea.Batch(fetch, a.loadCategoryOptions(), a.spinner.Tick), true
	case key.Matches(msg, keys.Filter) && a.view != ViewCategories:
		return a, kh.cycleCategoryFilter(), true
	}
	return a, nil, false
}

func (kh *KeyHandler) page(delta int) tea.Cmd {
	a := kh.app
	if a.view == ViewCategories {
		ctl := a.adminCategories
		if ctl == nil {
			return nil
		}
		if delta > 0 {
			ctl.NextPage()
		} else {
			ctl.PrevPage()
		}
		a.refreshCategoryTable()
		if ctl.NeedsFetch() {
			return a.fetchCategories()
		}
		return nil
	}

	target, ok := a.activeArticleTarget()
	if !ok {
		return nil
	}
	ctl := a.articleController(target)
	if ctl == nil {
		return nil
	}
	if delta > 0 {
		ctl.NextPage()
	} else {
		ctl.PrevPage()
	}
	a.publicCursor = 0
	a.refreshArticleTable()
	if ctl.NeedsFetch() {
		return a.fetchArticles(target)
	}
	return nil
}

// cycleCategoryFilter steps "all" → each category → "all".
func (kh *KeyHandler) cycleCategoryFilter() tea.Cmd {
	a := kh.app
	target, ok := a.activeArticleTarget()
	if !ok {
		return nil
	}
	ctl := a.articleController(target)
	if ctl == nil {
		return nil
	}

	next := ""
	current := ctl.Engine().Category()
	if len(a.categories) > 0 {
		if current == "" {
			next = a.categories[0].ID
		} else {
			for i, c := range a.categories {
				if c.ID == current && i+1 < len(a.categories) {
					next = a.categories[i+1].ID
					break
				}
			}
		}
	}

	ctl.SetCategory(next)
	a.publicCursor = 0
	a.refreshArticleTable()
	if ctl.NeedsFetch() {
		return a.fetchArticles(target)
	}
	return nil
}

func (kh *KeyHandler) handlePublicKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if model, cmd, handled := kh.handleListKeys(msg); handled {
		return model, cmd, true
	}

	switch {
	case key.Matches(msg, kh.keys.Open):
		art, ok := a.selectedPublic()
		if !ok {
			return a, nil, true
		}
		model, cmd := kh.openReader(art)
		return model, cmd, true
	case msg.String() == "up" || msg.String() == "k":
		a.publicCursor--
		a.clampPublicCursor()
		return a, nil, true
	case msg.String() == "down" || msg.String() == "j":
		a.publicCursor++
		a.clampPublicCursor()
		return a, nil, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	if key.Matches(msg, kh.keys.OpenImage) {
		if a.current == nil || a.current.ImageURL == "" {
			a.setStatus(MsgNoImage, StatusWarn)
			return a, nil, true
		}
		return a, a.openImage(a.current.ImageURL), true
	}

	if key.Matches(msg, kh.keys.Others) {
		n, _ := strconv.Atoi(msg.String())
		if n >= 1 && n <= len(a.others) {
			model, cmd := kh.openReader(a.others[n-1])
			return model, cmd, true
		}
		return a, nil, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleArticlesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if model, cmd, handled := kh.handleListKeys(msg); handled {
		return model, cmd, true
	}

	switch {
	case key.Matches(msg, kh.keys.Open):
		if art, ok := a.selectedArticle(); ok {
			model, cmd := kh.openReader(art)
			return model, cmd, true
		}
		return a, nil, true
	case key.Matches(msg, kh.keys.New):
		a.articleForm = newArticleForm()
		kh.sizeArticleForm()
		a.view = ViewArticleForm
		a.err = nil
		return a, a.loadCategoryOptions(), true
	case key.Matches(msg, kh.keys.Edit):
		art, ok := a.selectedArticle()
		if !ok {
			return a, nil, true
		}
		a.articleForm = newArticleForm()
		kh.sizeArticleForm()
		if err := a.articleForm.load(art); err != nil {
			a.setError(err)
			return a, nil, true
		}
		a.view = ViewArticleForm
		a.err = nil
		return a, a.loadCategoryOptions(), true
	case key.Matches(msg, kh.keys.Delete):
		art, ok := a.selectedArticle()
		if !ok {
			return a, nil, true
		}
		kh.confirmDelete(deleteTarget{kind: deleteArticle, id: art.ID, name: art.Title})
		return a, nil, true
	case key.Matches(msg, kh.keys.Categories):
		return a, kh.showCategories(), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleCategoriesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if model, cmd, handled := kh.handleListKeys(msg); handled {
		return model, cmd, true
	}

	switch {
	case key.Matches(msg, kh.keys.New):
		a.categoryForm = newCategoryForm()
		a.view = ViewCategoryForm
		a.err = nil
		return a, nil, true
	case key.Matches(msg, kh.keys.Edit), key.Matches(msg, kh.keys.Open):
		c, ok := a.selectedCategory()
		if !ok {
			return a, nil, true
		}
		a.categoryForm = newCategoryForm()
		a.categoryForm.load(c)
		a.view = ViewCategoryForm
		a.err = nil
		return a, nil, true
	case key.Matches(msg, kh.keys.Delete):
		c, ok := a.selectedCategory()
		if !ok {
			return a, nil, true
		}
		kh.confirmDelete(deleteTarget{kind: deleteCategory, id: c.ID, name: c.Name})
		return a, nil, true
	case key.Matches(msg, kh.keys.Categories):
		kh.switchList(ViewArticles)
		return a, kh.ensureArticles(targetAdminArticles), true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleDeleteConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch msg.String() {
	case "enter", "y", "Y":
		if a.toDelete == nil {
			return a, nil, true
		}
		a.loading = true
		a.setStatus(MsgDeleting, StatusInfo)
		return a, tea.Batch(a.deleteRecord(*a.toDelete), a.spinner.Tick), true
	case "n", "N":
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}
	return a, nil, true
}

func (kh *KeyHandler) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Query):
		a.searchInput.Focus()
		return a, nil, true
	case key.Matches(msg, kh.keys.Open):
		model, cmd := kh.openSearchResult()
		return model, cmd, true
	case msg.String() == "up" || msg.String() == "k":
		if a.searchCursor == 0 {
			a.searchInput.Focus()
		} else {
			a.searchCursor--
		}
		return a, nil, true
	case msg.String() == "down" || msg.String() == "j":
		if a.searchCursor < len(a.searchResults)-1 {
			a.searchCursor++
		}
		return a, nil, true
	}
	return a, nil, false
}

// delegate hands unclaimed keys to the component the view is built around.
func (kh *KeyHandler) delegate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd
	switch a.view {
	case ViewArticles:
		a.articleTable, cmd = a.articleTable.Update(msg)
	case ViewCategories:
		a.categoryTable, cmd = a.categoryTable.Update(msg)
	case ViewReader:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return a, cmd
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app
	a.err = nil
	switch a.view {
	case ViewRegister:
		a.view = ViewLogin
		a.auth.errs = nil
	case ViewReader:
		a.view = a.readerFrom
		a.current = nil
		a.others = nil
	case ViewArticleForm:
		a.view = ViewArticles
	case ViewCategoryForm:
		a.view = ViewCategories
	case ViewDeleteConfirm:
		a.toDelete = nil
		a.view = a.previousView
	case ViewSearch:
		a.searchInput.Blur()
		a.view = a.previousView
	case ViewCategories:
		kh.switchList(ViewArticles)
	case ViewPublic, ViewArticles:
		if a.queryInput.Value() != "" {
			a.queryInput.Reset()
			return a, kh.applyQuery()
		}
	}
	return a, nil
}

func (kh *KeyHandler) openReader(art storage.Article) (tea.Model, tea.Cmd) {
	a := kh.app
	if a.view != ViewReader {
		a.readerFrom = a.view
	}
	a.view = ViewReader
	a.current = nil
	a.others = nil
	a.viewport.SetContent("")
	a.loading = true
	a.setStatus(MsgLoadingArticle, StatusInfo)
	return a, tea.Batch(a.openArticle(art), a.spinner.Tick)
}

func (kh *KeyHandler) openSearchResult() (tea.Model, tea.Cmd) {
	a := kh.app
	if a.searchCursor < 0 || a.searchCursor >= len(a.searchResults) {
		return a, nil
	}
	r := a.searchResults[a.searchCursor]
	if r.Article == nil {
		return a, nil
	}
	a.searchInput.Blur()
	return kh.openReader(*r.Article)
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	a := kh.app
	a.previousView = a.view
	a.view = ViewSearch
	a.searchInput.Reset()
	a.searchResults = nil
	a.searchCursor = 0
	a.pendingQuery = ""
	a.err = nil
	return a, a.searchInput.Focus()
}

func (kh *KeyHandler) confirmDelete(target deleteTarget) {
	a := kh.app
	a.previousView = a.view
	a.toDelete = &target
	a.view = ViewDeleteConfirm
}

// switchList changes between list views. The title filter box is shared, so
// it is reloaded from the destination's engine.
func (kh *KeyHandler) switchList(to View) {
	a := kh.app
	a.view = to
	a.queryInput.Blur()
	query := ""
	switch to {
	case ViewCategories:
		if a.adminCategories != nil {
			query = a.adminCategories.Engine().Query()
		}
	case ViewArticles, ViewPublic:
		if target, ok := a.activeArticleTarget(); ok {
			if ctl := a.articleController(target); ctl != nil {
				query = ctl.Engine().Query()
			}
		}
	}
	a.queryInput.SetValue(query)
}

func (kh *KeyHandler) showCategories() tea.Cmd {
	a := kh.app
	kh.switchList(ViewCategories)
	if a.adminCategories == nil || a.adminCategories.Loaded() && !a.adminCategories.NeedsFetch() {
		a.refreshCategoryTable()
		return nil
	}
	a.loading = true
	return tea.Batch(a.fetchCategories(), a.spinner.Tick)
}

func (kh *KeyHandler) ensureArticles(target listTarget) tea.Cmd {
	a := kh.app
	ctl := a.articleController(target)
	if ctl == nil || ctl.Loaded() && !ctl.NeedsFetch() {
		a.refreshArticleTable()
		return nil
	}
	return a.fetchArticles(target)
}

func (kh *KeyHandler) sizeArticleForm() {
	a := kh.app
	if a.width > 0 {
		a.resize(a.width, a.height)
	}
}

// GetHelpForCurrentView lists the bindings worth showing in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	a := kh.app
	k := kh.keys

	if kh.isInTextInputMode() {
		switch a.view {
		case ViewLogin, ViewRegister:
			return []key.Binding{k.NextField, bindingHelp(k.New, "switch login/register"), bindingHelp(k.Open, "submit")}
		case ViewArticleForm:
			return []key.Binding{k.Save, k.NextField, k.Preview, k.Format, k.Back}
		case ViewCategoryForm:
			return []key.Binding{k.Save, k.Back}
		default:
			return []key.Binding{bindingHelp(k.Open, "done"), k.Back}
		}
	}

	switch a.view {
	case ViewPublic:
		return []key.Binding{k.Open, k.Query, k.Filter, k.PrevPage, k.NextPage, k.Search, k.Refresh, k.Logout, k.Quit}
	case ViewReader:
		return []key.Binding{k.Others, k.OpenImage, k.Back, k.Quit}
	case ViewArticles:
		return []key.Binding{k.Open, k.New, k.Edit, k.Delete, k.Query, k.Filter, k.PrevPage, k.NextPage, k.Categories, k.Search, k.Logout, k.Quit}
	case ViewCategories:
		return []key.Binding{k.New, k.Edit, k.Delete, k.Query, k.PrevPage, k.NextPage, bindingHelp(k.Categories, "articles"), k.Back, k.Quit}
	case ViewDeleteConfirm:
		return []key.Binding{bindingHelp(k.Open, "confirm"), bindingHelp(k.Back, "cancel")}
	case ViewSearch:
		return []key.Binding{k.Open, k.Query, k.Back, k.Quit}
	default:
		return []key.Binding{k.Quit}
	}
}

func asFieldErrors(err error) (validation.FieldErrors, bool) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// bindingHelp relabels a binding for one view.
func bindingHelp(b key.Binding, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(b.Keys()...), key.WithHelp(b.Help().Key, desc))
}
