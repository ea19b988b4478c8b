package tui

import (
	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/search"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
	"github.com/pders01/journal/internal/syncer"
)

type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewPublic
	ViewReader
	ViewArticles
	ViewCategories
	ViewArticleForm
	ViewCategoryForm
	ViewDeleteConfirm
	ViewSearch
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewPublic:
		return "articles"
	case ViewReader:
		return "reader"
	case ViewArticles:
		return "admin articles"
	case ViewCategories:
		return "admin categories"
	case ViewArticleForm:
		return "article form"
	case ViewCategoryForm:
		return "category form"
	case ViewDeleteConfirm:
		return "delete"
	case ViewSearch:
		return "search"
	default:
		return "unknown"
	}
}

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// listTarget names which list a fetch belongs to.
type listTarget int

const (
	targetPublic listTarget = iota
	targetAdminArticles
)

type deleteKind string

const (
	deleteArticle  deleteKind = "article"
	deleteCategory deleteKind = "category"
)

type deleteTarget struct {
	kind deleteKind
	id   string
	name string
}

type loggedInMsg struct {
	sess session.Session
	err  error
}

type registeredMsg struct {
	username string
	err      error
}

type loggedOutMsg struct {
	err error
}

type articlesFetchedMsg struct {
	target    listTarget
	req       listview.Request
	resp      listview.Response[storage.Article]
	fromCache bool
	err       error
}

type categoriesFetchedMsg struct {
	req  listview.Request
	resp listview.Response[storage.Category]
	err  error
}

// categoryOptionsMsg carries every category, for filters and the picker.
type categoryOptionsMsg struct {
	categories []storage.Category
	err        error
}

type articleOpenedMsg struct {
	article  storage.Article
	rendered string
	others   []storage.Article
	err      error
}

type articleSavedMsg struct {
	article storage.Article
	created bool
	err     error
}

type categorySavedMsg struct {
	category storage.Category
	created  bool
	err      error
}

type deletedMsg struct {
	target deleteTarget
	err    error
}

type searchResultsMsg struct {
	query   string
	results []*search.Result
	err     error
}

type searchDebounceFireMsg struct {
	seq int
}

type syncedMsg struct {
	result   syncer.Result
	docCount int
	err      error
}

type errorMsg struct {
	err error
}
