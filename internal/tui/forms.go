package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/journal/internal/editor"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
	"github.com/pders01/journal/internal/validation"
)

// authForm backs both the login and the register screen.
type authForm struct {
	username textinput.Model
	password textinput.Model
	role     string
	focus    int
	errs     validation.FieldErrors
}

const (
	authUsername = iota
	authPassword
	authRole
)

func newAuthForm() authForm {
	u := textinput.New()
	u.Placeholder = "username"
	u.CharLimit = 64

	p := textinput.New()
	p.Placeholder = "password"
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	f := authForm{username: u, password: p, role: session.RoleUser}
	f.focusField(authUsername)
	return f
}

func (f *authForm) reset() {
	f.username.Reset()
	f.password.Reset()
	f.role = session.RoleUser
	f.errs = nil
	f.focusField(authUsername)
}

func (f *authForm) focusField(i int) {
	f.focus = i
	f.username.Blur()
	f.password.Blur()
	switch i {
	case authUsername:
		f.username.Focus()
	case authPassword:
		f.password.Focus()
	}
}

// cycle moves focus by delta. The role field only exists when registering.
func (f *authForm) cycle(delta int, register bool) {
	n := 2
	if register {
		n = 3
	}
	f.focusField(((f.focus+delta)%n + n) % n)
}

func (f *authForm) toggleRole() {
	if f.role == session.RoleAdmin {
		f.role = session.RoleUser
	} else {
		f.role = session.RoleAdmin
	}
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case authUsername:
		f.username, cmd = f.username.Update(msg)
	case authPassword:
		f.password, cmd = f.password.Update(msg)
	}
	return cmd
}

func (f *authForm) loginValues() validation.LoginForm {
	return validation.LoginForm{
		Username: strings.TrimSpace(f.username.Value()),
		Password: f.password.Value(),
	}
}

func (f *authForm) registerValues() validation.RegisterForm {
	return validation.RegisterForm{
		Username: strings.TrimSpace(f.username.Value()),
		Password: f.password.Value(),
		Role:     f.role,
	}
}

const (
	fieldTitle = iota
	fieldCategory
	fieldImage
	fieldBody
	articleFieldCount
)

// formatKeys maps the alt chords to formatting operations on the body.
var formatKeys = map[string]editor.Kind{
	"alt+b": editor.Bold,
	"alt+i": editor.Italic,
	"alt+c": editor.Code,
	"alt+h": editor.Heading,
	"alt+q": editor.Quote,
	"alt+u": editor.Bullet,
	"alt+n": editor.Numbered,
}

type articleForm struct {
	// id is empty while creating.
	id       string
	title    textinput.Model
	image    textinput.Model
	body     textarea.Model
	category string
	focus    int
	preview  bool
	errs     validation.FieldErrors
}

func newArticleForm() articleForm {
	t := textinput.New()
	t.Placeholder = "Input title"
	t.CharLimit = 200

	img := textinput.New()
	img.Placeholder = "https://…"

	body := textarea.New()
	body.Placeholder = "Type a content… (markdown)"
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.SetHeight(10)

	f := articleForm{title: t, image: img, body: body}
	f.focusField(fieldTitle)
	return f
}

// load fills the form for editing. The stored HTML body is turned back into
// markdown.
func (f *articleForm) load(a storage.Article) error {
	doc, err := editor.FromHTML(a.Content)
	if err != nil {
		return err
	}
	f.id = a.ID
	f.title.SetValue(a.Title)
	f.image.SetValue(a.ImageURL)
	f.body.SetValue(doc.Markdown())
	f.category = a.CategoryRef()
	f.errs = nil
	f.preview = false
	f.focusField(fieldTitle)
	return nil
}

func (f *articleForm) focusField(i int) {
	f.focus = i
	f.title.Blur()
	f.image.Blur()
	f.body.Blur()
	switch i {
	case fieldTitle:
		f.title.Focus()
	case fieldImage:
		f.image.Focus()
	case fieldBody:
		f.body.Focus()
	}
}

func (f *articleForm) cycle(delta int) {
	f.focusField(((f.focus+delta)%articleFieldCount + articleFieldCount) % articleFieldCount)
}

// cycleCategory steps through the options, wrapping at both ends.
func (f *articleForm) cycleCategory(delta int, options []storage.Category) {
	if len(options) == 0 {
		return
	}
	idx := -1
	for i, c := range options {
		if c.ID == f.category {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			idx = 0
		} else {
			idx = len(options) - 1
		}
	}
	idx = ((idx+delta)%len(options) + len(options)) % len(options)
	f.category = options[idx].ID
}

func (f *articleForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldImage:
		f.image, cmd = f.image.Update(msg)
	case fieldBody:
		f.body, cmd = f.body.Update(msg)
	}
	return cmd
}

func (f *articleForm) values() validation.ArticleForm {
	return validation.ArticleForm{
		Title:      strings.TrimSpace(f.title.Value()),
		Content:    strings.TrimSpace(f.body.Value()),
		CategoryID: f.category,
		ImageURL:   strings.TrimSpace(f.image.Value()),
	}
}

// applyFormat toggles kind on the body line under the cursor and puts the
// cursor back on that line.
func (f *articleForm) applyFormat(kind editor.Kind) error {
	row := f.body.Line()
	doc := editor.New(f.body.Value())
	doc.SetLine(row)
	if err := doc.ApplyFormatting(kind); err != nil {
		return err
	}
	f.body.SetValue(doc.Markdown())
	for guard := 0; f.body.Line() > row && guard < 4*doc.LineCount(); guard++ {
		f.body.CursorUp()
	}
	f.body.CursorEnd()
	return nil
}

func (f *articleForm) html() (string, error) {
	return editor.New(f.body.Value()).Content()
}

type categoryForm struct {
	id   string
	name textinput.Model
	errs validation.FieldErrors
}

func newCategoryForm() categoryForm {
	n := textinput.New()
	n.Placeholder = "Input category"
	n.CharLimit = 100
	n.Focus()
	return categoryForm{name: n}
}

func (f *categoryForm) load(c storage.Category) {
	f.id = c.ID
	f.name.SetValue(c.Name)
	f.name.CursorEnd()
	f.name.Focus()
	f.errs = nil
}

func (f *categoryForm) values() validation.CategoryForm {
	return validation.CategoryForm{Name: strings.TrimSpace(f.name.Value())}
}
