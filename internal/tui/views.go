package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
)

func newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MutedColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(false)
	t.SetStyles(s)
	return t
}

func newArticleTable() table.Model  { return newTable(articleColumns(0)) }
func newCategoryTable() table.Model { return newTable(categoryColumns(0)) }

const dateColumnWidth = 26

func articleColumns(width int) []table.Column {
	title := width - 18 - dateColumnWidth - 8
	if title < 30 {
		title = 30
	}
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Category", Width: 18},
		{Title: "Created at", Width: dateColumnWidth},
	}
}

func categoryColumns(width int) []table.Column {
	name := width - dateColumnWidth - 6
	if name < 24 {
		name = 24
	}
	return []table.Column{
		{Title: "Category", Width: name},
		{Title: "Created at", Width: dateColumnWidth},
	}
}

// categoryName resolves a category id for display.
func (a *App) categoryName(id string) string {
	for _, c := range a.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (a *App) articleCategory(art storage.Article) string {
	if art.Category.Name != "" {
		return art.Category.Name
	}
	return a.categoryName(art.CategoryRef())
}

func (a *App) refreshArticleTable() {
	if a.adminArticles == nil {
		a.articleTable.SetRows(nil)
		return
	}
	records := a.adminArticles.VisibleSlice().Records
	rows := make([]table.Row, len(records))
	for i, art := range records {
		rows[i] = table.Row{art.Title, a.articleCategory(art), formatTableDate(art.CreatedAt)}
	}
	a.articleTable.SetRows(rows)
	clampTableCursor(&a.articleTable, len(rows))
}

func (a *App) refreshCategoryTable() {
	if a.adminCategories == nil {
		a.categoryTable.SetRows(nil)
		return
	}
	records := a.adminCategories.VisibleSlice().Records
	rows := make([]table.Row, len(records))
	for i, c := range records {
		rows[i] = table.Row{c.Name, formatTableDate(c.CreatedAt)}
	}
	a.categoryTable.SetRows(rows)
	clampTableCursor(&a.categoryTable, len(rows))
}

func clampTableCursor(t *table.Model, n int) {
	if t.Cursor() >= n {
		t.SetCursor(n - 1)
	}
	if t.Cursor() < 0 {
		t.SetCursor(0)
	}
}

func (a *App) clampPublicCursor() {
	if a.public == nil {
		a.publicCursor = 0
		return
	}
	n := len(a.public.VisibleSlice().Records)
	if a.publicCursor >= n {
		a.publicCursor = n - 1
	}
	if a.publicCursor < 0 {
		a.publicCursor = 0
	}
}

func (a *App) selectedPublic() (storage.Article, bool) {
	if a.public == nil {
		return storage.Article{}, false
	}
	records := a.public.VisibleSlice().Records
	if a.publicCursor < 0 || a.publicCursor >= len(records) {
		return storage.Article{}, false
	}
	return records[a.publicCursor], true
}

func (a *App) selectedArticle() (storage.Article, bool) {
	if a.adminArticles == nil {
		return storage.Article{}, false
	}
	records := a.adminArticles.VisibleSlice().Records
	i := a.articleTable.Cursor()
	if i < 0 || i >= len(records) {
		return storage.Article{}, false
	}
	return records[i], true
}

func (a *App) selectedCategory() (storage.Category, bool) {
	if a.adminCategories == nil {
		return storage.Category{}, false
	}
	records := a.adminCategories.VisibleSlice().Records
	i := a.categoryTable.Cursor()
	if i < 0 || i >= len(records) {
		return storage.Category{}, false
	}
	return records[i], true
}

func (a *App) View() string {
	var body string
	switch a.view {
	case ViewLogin, ViewRegister:
		body = a.renderAuth()
	case ViewPublic:
		body = a.renderPublic()
	case ViewReader:
		body = a.renderReader()
	case ViewArticles:
		body = a.renderArticles()
	case ViewCategories:
		body = a.renderCategories()
	case ViewArticleForm:
		body = a.renderArticleForm()
	case ViewCategoryForm:
		body = a.renderCategoryForm()
	case ViewDeleteConfirm:
		body = a.renderDeleteConfirm()
	case ViewSearch:
		body = a.renderSearch()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar())
}

func (a *App) renderAuth() string {
	f := &a.auth
	register := a.view == ViewRegister

	title := "Login"
	if register {
		title = "Register"
	}
	rows := []string{
		GetCompactBanner("The Journal, in your terminal"),
		"",
		HeaderStyle.Render(title),
		"",
		renderField("Username", renderInputFrame(f.username.View(), f.focus == authUsername, 40), f.errs.For("Username")),
		renderField("Password", renderInputFrame(f.password.View(), f.focus == authPassword, 40), f.errs.For("Password")),
	}
	if register {
		role := fmt.Sprintf("‹ %s ›", f.role)
		if f.focus == authRole {
			role = SelectedStyle.Render(role)
		}
		rows = append(rows, renderField("Role", role, f.errs.For("Role")))
		rows = append(rows, "", renderMuted("Already have an account? "+a.keyHandler.keys.New.Help().Key+" to login"))
	} else {
		rows = append(rows, "", renderMuted("Don't have an account? "+a.keyHandler.keys.New.Help().Key+" to register"))
	}
	return renderCentered(a.width, a.bodyHeight(), lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (a *App) bodyHeight() int {
	h := a.height - 3
	if h < 1 {
		return 1
	}
	return h
}

func (a *App) filterLine(query string, category string) string {
	parts := []string{}
	if a.queryInput.Focused() || query != "" {
		parts = append(parts, a.queryInput.View())
	}
	name := "All categories"
	if category != "" {
		name = a.categoryName(category)
	}
	parts = append(parts, BadgeStyle.Render(name))
	return strings.Join(parts, "  ")
}

func (a *App) renderPublic() string {
	if a.public == nil {
		return ""
	}
	s := a.public.VisibleSlice()
	eng := a.public.Engine()

	header := renderHeader("The Journal", "Your daily dose of design insights", a.width)
	meta := renderMuted(fmt.Sprintf("Showing: %d of %d articles", len(s.Records), s.TotalMatching))

	var grid string
	switch {
	case a.loading && !a.public.Loaded():
		grid = a.spinner.View() + " " + MsgLoading
	case len(s.Records) == 0:
		grid = renderMuted(MsgNoResults)
	default:
		grid = a.renderCards(s.Records)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.filterLine(eng.Query(), eng.Category()),
		meta,
		"",
		grid,
		"",
		renderPager(s.Page, s.TotalPages),
	)
}

func (a *App) renderCards(records []storage.Article) string {
	cols := a.width / 40
	if cols < 1 {
		cols = 1
	}
	if cols > 3 {
		cols = 3
	}
	cardWidth := a.width/cols - 4
	if cardWidth < 24 {
		cardWidth = 24
	}
	excerpt := a.config.UI.Article.ExcerptLength

	var rows []string
	for start := 0; start < len(records); start += cols {
		end := start + cols
		if end > len(records) {
			end = len(records)
		}
		var cards []string
		for i := start; i < end; i++ {
			art := records[i]
			style := CardStyle
			if i == a.publicCursor {
				style = SelectedCardStyle
			}
			lines := []string{TimeStyle.Render(formatCardDate(art.CreatedAt))}
			lines = append(lines, TitleStyle.Render(truncateEnd(art.Title, cardWidth-2)))
			lines = append(lines, a.renderer.Excerpt(art.Content, excerpt))
			if name := a.articleCategory(art); name != "" {
				lines = append(lines, BadgeStyle.Render(name))
			}
			cards = append(cards, style.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderReader() string {
	if a.current == nil {
		return a.spinner.View() + " " + MsgLoadingArticle
	}
	parts := []string{a.viewport.View()}
	if len(a.others) > 0 {
		var list []string
		for i, o := range a.others {
			list = append(list, fmt.Sprintf("%d. %s %s", i+1, o.Title, TimeStyle.Render(relativeTime(o.CreatedAt))))
		}
		parts = append(parts, HeaderStyle.Render("Other articles"), renderMuted(strings.Join(list, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderArticles() string {
	if a.adminArticles == nil {
		return ""
	}
	s := a.adminArticles.VisibleSlice()
	eng := a.adminArticles.Engine()
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader("Articles", fmt.Sprintf("Total Articles: %d", s.TotalMatching), a.width),
		a.filterLine(eng.Query(), eng.Category()),
		a.articleTable.View(),
		renderPager(s.Page, s.TotalPages),
	)
}

func (a *App) renderCategories() string {
	if a.adminCategories == nil {
		return ""
	}
	s := a.adminCategories.VisibleSlice()
	query := ""
	if a.queryInput.Focused() || a.adminCategories.Engine().Query() != "" {
		query = a.queryInput.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader("Categories", fmt.Sprintf("Total Categories: %d", s.TotalMatching), a.width),
		query,
		a.categoryTable.View(),
		renderPager(s.Page, s.TotalPages),
	)
}

func (a *App) renderArticleForm() string {
	f := &a.articleForm
	title := "Create Articles"
	if f.id != "" {
		title = "Edit Articles"
	}
	width := a.width - 8
	if width < 20 {
		width = 20
	}

	category := "Select category"
	if name := a.categoryName(f.category); name != "" {
		category = name
	}
	category = fmt.Sprintf("‹ %s ›", category)
	if f.focus == fieldCategory {
		category = SelectedStyle.Render(category)
	}

	var content string
	if f.preview {
		md := "# " + f.title.Value() + "\n\n" + f.body.Value()
		out, err := a.renderer.Document(md, a.width)
		if err != nil {
			out = FieldErrorStyle.Render(err.Error())
		}
		content = out
	} else {
		content = renderInputFrame(f.body.View(), f.focus == fieldBody, width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(title, "", a.width),
		renderField("Title", renderInputFrame(f.title.View(), f.focus == fieldTitle, width), f.errs.For("Title")),
		renderField("Category", category, f.errs.For("CategoryID")),
		renderField("Image URL", renderInputFrame(f.image.View(), f.focus == fieldImage, width), f.errs.For("ImageURL")),
		renderField("Content", content, f.errs.For("Content")),
	)
}

func (a *App) renderCategoryForm() string {
	f := &a.categoryForm
	title := "Add Category"
	if f.id != "" {
		title = "Edit Category"
	}
	box := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(title),
		"",
		renderField("Category", renderInputFrame(f.name.View(), true, 40), f.errs.For("Name")),
	)
	return renderCentered(a.width, a.bodyHeight(), CardStyle.Render(box))
}

func (a *App) renderDeleteConfirm() string {
	if a.toDelete == nil {
		return ""
	}
	title := "Delete Articles"
	if a.toDelete.kind == deleteCategory {
		title = "Delete Category"
	}
	box := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(title),
		"",
		fmt.Sprintf("Delete %s “%s”? This cannot be undone.", a.toDelete.kind, a.toDelete.name),
		"",
		renderHelp("enter/y: delete • esc/n: cancel"),
	)
	return renderCentered(a.width, a.bodyHeight(), CardStyle.Render(box))
}

func (a *App) renderSearch() string {
	rows := []string{
		renderHeader("Search", "Matches titles, categories and content of cached articles", a.width),
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
		"",
	}
	for i, r := range a.searchResults {
		if r.Article == nil {
			continue
		}
		line := fmt.Sprintf("%s  %s", r.Article.Title, renderMuted(a.articleCategory(*r.Article)))
		if i == a.searchCursor {
			line = SelectedStyle.Render(truncateEnd(r.Article.Title, a.width-4))
		}
		rows = append(rows, line)
		if len(r.Matches) > 0 && r.Matches[0].Field != "title" {
			rows = append(rows, "  "+renderMuted(truncateEnd(r.Matches[0].Text, a.width-6)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// helpKeys adapts a binding list to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding { return h }

func (h helpKeys) FullHelp() [][]key.Binding {
	var out [][]key.Binding
	for i := 0; i < len(h); i += 4 {
		end := i + 4
		if end > len(h) {
			end = len(h)
		}
		out = append(out, h[i:end])
	}
	return out
}

func (a *App) statusBar() string {
	var line string
	switch {
	case a.err != nil:
		line = StatusErrorStyle.Render("✗ " + describeErr(a.err))
	case a.loading:
		text := a.status
		if text == "" {
			text = MsgLoading
		}
		line = a.spinner.View() + " " + StatusInfoStyle.Render(text)
	case a.status != "":
		line = statusStyle(a.statusKind).Render(a.status)
	}

	user := ""
	if a.sess.LoggedIn() {
		name := a.sess.Username
		if name == "" {
			name = "?"
		}
		role := a.sess.Role
		if role == "" {
			role = session.RoleUser
		}
		user = renderMuted(fmt.Sprintf("%s (%s)", name, role))
	}
	if user != "" {
		gap := a.width - lipgloss.Width(line) - lipgloss.Width(user) - 2
		if gap < 1 {
			gap = 1
		}
		line = line + strings.Repeat(" ", gap) + user
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Padding(0, 1).Render(line),
		lipgloss.NewStyle().Padding(0, 1).Render(a.help.View(helpKeys(a.keyHandler.GetHelpForCurrentView()))),
	)
}

func statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}
