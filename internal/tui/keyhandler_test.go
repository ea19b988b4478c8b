package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/journal/internal/api/apitest"
	"github.com/pders01/journal/internal/config"
	"github.com/pders01/journal/internal/session"
)

func TestKeyHandler_ModifierKey(t *testing.T) {
	app := NewApp(Options{Config: config.TestConfig()})

	assert.NotNil(t, app.keyHandler)
	assert.Equal(t, "ctrl+", app.keyHandler.modifierKey)
}

func TestChord(t *testing.T) {
	tests := []struct {
		modifier, binding, want string
	}{
		{"ctrl", "s", "ctrl+s"},
		{"alt", "n", "alt+n"},
		{"", "s", "s"},
		{"ctrl", "ctrl+w", "ctrl+w"},
		{"ctrl", "esc", "esc"},
		{"ctrl", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.modifier+"/"+tt.binding, func(t *testing.T) {
			assert.Equal(t, tt.want, chord(tt.modifier, tt.binding))
		})
	}
}

func TestKeyHandler_CustomModifier(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	app := NewApp(Options{Config: cfg})

	assert.Equal(t, "alt+", app.keyHandler.modifierKey)
	assert.Equal(t, []string{"alt+s"}, app.keyHandler.keys.Search.Keys())
	assert.Equal(t, []string{"alt+n"}, app.keyHandler.keys.New.Keys())
	assert.True(t, key.Matches(altKey('x'), app.keyHandler.keys.Delete))
}

func TestKeyHandler_QuitOutsideTextInput(t *testing.T) {
	srv := apitest.NewServer()
	h := newHarness(t, srv, withSession(srv, "reader", session.RoleUser))

	_, cmd := h.app.Update(runeKey('q'))
	assert.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestKeyHandler_QTypesInLoginForm(t *testing.T) {
	h := newHarness(t, nil)

	h.app.Update(runeKey('q'))
	assert.Equal(t, "q", h.app.auth.username.Value())
	assert.Equal(t, ViewLogin, h.app.view)
}

func TestKeyHandler_CtrlCAlwaysQuits(t *testing.T) {
	for _, v := range []View{ViewLogin, ViewArticleForm, ViewSearch, ViewPublic} {
		t.Run(v.String(), func(t *testing.T) {
			h := newHarness(t, nil)
			h.app.view = v
			_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			assert.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestKeyHandler_TextInputMode(t *testing.T) {
	h := newHarness(t, nil)
	kh := h.app.keyHandler

	tests := []struct {
		view  View
		setup func()
		want  bool
	}{
		{ViewLogin, nil, true},
		{ViewRegister, nil, true},
		{ViewArticleForm, nil, true},
		{ViewCategoryForm, nil, true},
		{ViewReader, nil, false},
		{ViewDeleteConfirm, nil, false},
		{ViewPublic, func() { h.app.queryInput.Blur() }, false},
		{ViewPublic, func() { h.app.queryInput.Focus() }, true},
		{ViewSearch, func() { h.app.queryInput.Blur(); h.app.searchInput.Focus() }, true},
		{ViewSearch, func() { h.app.searchInput.Blur() }, false},
	}
	for _, tt := range tests {
		h.app.view = tt.view
		if tt.setup != nil {
			tt.setup()
		}
		assert.Equal(t, tt.want, kh.isInTextInputMode(), tt.view.String())
	}
}

func TestKeyHandler_NavigateBack(t *testing.T) {
	tests := []struct {
		name  string
		from  View
		setup func(a *App)
		want  View
	}{
		{"register to login", ViewRegister, nil, ViewLogin},
		{"form to articles", ViewArticleForm, nil, ViewArticles},
		{"category form to categories", ViewCategoryForm, nil, ViewCategories},
		{"categories to articles", ViewCategories, nil, ViewArticles},
		{"reader to origin", ViewReader, func(a *App) { a.readerFrom = ViewPublic }, ViewPublic},
		{"search to previous", ViewSearch, func(a *App) { a.previousView = ViewArticles }, ViewArticles},
		{"confirm to previous", ViewDeleteConfirm, func(a *App) {
			a.previousView = ViewCategories
			a.toDelete = &deleteTarget{kind: deleteCategory, id: "c"}
		}, ViewCategories},
		{"public stays", ViewPublic, nil, ViewPublic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.app.view = tt.from
			if tt.setup != nil {
				tt.setup(h.app)
			}
			h.app.keyHandler.navigateBack()
			assert.Equal(t, tt.want, h.app.view)
			assert.Nil(t, h.app.toDelete)
		})
	}
}

func TestKeyHandler_HelpToggle(t *testing.T) {
	srv := apitest.NewServer()
	h := newHarness(t, srv, withSession(srv, "reader", session.RoleUser))

	assert.False(t, h.app.help.ShowAll)
	h.app.Update(runeKey('?'))
	assert.True(t, h.app.help.ShowAll)
	h.app.Update(runeKey('?'))
	assert.False(t, h.app.help.ShowAll)
}

func TestKeyHandler_HelpPerView(t *testing.T) {
	h := newHarness(t, nil)
	kh := h.app.keyHandler

	h.app.view = ViewArticles
	assert.Contains(t, kh.GetHelpForCurrentView(), kh.keys.Delete)

	h.app.view = ViewReader
	help := kh.GetHelpForCurrentView()
	assert.Contains(t, help, kh.keys.OpenImage)
	assert.NotContains(t, help, kh.keys.Delete)

	h.app.view = ViewLogin
	for _, b := range kh.GetHelpForCurrentView() {
		assert.NotEmpty(t, b.Help().Desc)
	}
}

func TestKeyHandler_LogoutNeedsSession(t *testing.T) {
	h := newHarness(t, nil)
	h.app.view = ViewReader

	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewReader, h.app.view)
}
