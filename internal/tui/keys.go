package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/pders01/journal/internal/config"
)

// keyMap is the resolved set of bindings, built once from the config.
type keyMap struct {
	Quit       key.Binding
	Back       key.Binding
	Help       key.Binding
	Search     key.Binding
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Refresh    key.Binding
	Categories key.Binding
	Filter     key.Binding
	OpenImage  key.Binding
	Save       key.Binding
	Logout     key.Binding
	Query      key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	Open       key.Binding
	Others     key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Preview    key.Binding
	Format     key.Binding
}

// chord joins the modifier and a binding. Bindings that already carry a
// modifier, and bare named keys like "esc", are used as written.
func chord(modifier, binding string) string {
	if binding == "" || strings.Contains(binding, "+") || len(binding) > 1 || modifier == "" {
		return binding
	}
	return modifier + "+" + binding
}

func newKeyMap(cfg config.KeyConfig) keyMap {
	b := cfg.Bindings
	mod := strings.TrimSuffix(cfg.Modifier, "+")
	bind := func(k, help string) key.Binding {
		return key.NewBinding(key.WithKeys(k), key.WithHelp(k, help))
	}

	return keyMap{
		Quit:       key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
		Back:       bind(b.Back, "back"),
		Help:       bind(b.Help, "help"),
		Search:     bind(chord(mod, b.Search), "search"),
		New:        bind(chord(mod, b.New), "new"),
		Edit:       bind(chord(mod, b.Edit), "edit"),
		Delete:     bind(chord(mod, b.Delete), "delete"),
		Refresh:    bind(chord(mod, b.Refresh), "refresh"),
		Categories: bind(chord(mod, b.Categories), "categories"),
		Filter:     bind(chord(mod, b.Filter), "category filter"),
		OpenImage:  bind(chord(mod, b.OpenImage), "open image"),
		Save:       bind(chord(mod, b.Save), "save"),
		Logout:     bind(chord(mod, b.Logout), "logout"),
		Query:      bind("/", "filter by title"),
		PrevPage:   key.NewBinding(key.WithKeys("left", "pgup"), key.WithHelp("←", "prev page")),
		NextPage:   key.NewBinding(key.WithKeys("right", "pgdown"), key.WithHelp("→", "next page")),
		Open:       bind("enter", "open"),
		Others:     key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "other articles")),
		NextField:  bind("tab", "next field"),
		PrevField:  bind("shift+tab", "prev field"),
		Preview:    bind("alt+p", "preview"),
		Format:     key.NewBinding(key.WithKeys("alt+b", "alt+i", "alt+c", "alt+h", "alt+q", "alt+u", "alt+n"), key.WithHelp("alt+b/i/c/h/q/u/n", "format")),
	}
}
