package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/journal/internal/api"
	"github.com/pders01/journal/internal/debuglog"
	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/search"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
)

const searchDebounce = 250 * time.Millisecond

func (a *App) ctx() (context.Context, context.CancelFunc) {
	timeout := a.config.API.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	// Wholesale fetches walk several pages.
	return context.WithTimeout(context.Background(), 4*timeout)
}

func (a *App) signIn(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		sess, err := a.client.SignIn(ctx, username, password)
		return loggedInMsg{sess: sess, err: err}
	}
}

func (a *App) register(username, password, role string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		err := a.client.Register(ctx, username, password, role)
		return registeredMsg{username: username, err: err}
	}
}

func (a *App) logout() tea.Cmd {
	sessions := a.sessions
	return func() tea.Msg {
		return loggedOutMsg{err: sessions.Clear()}
	}
}

// fetchArticles issues the request the target's controller currently wants.
// The request is captured here so a late response can be recognised.
func (a *App) fetchArticles(target listTarget) tea.Cmd {
	ctl := a.articleController(target)
	if ctl == nil {
		return nil
	}
	req := ctl.Request()
	fetcher := ctl.Fetcher()
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		resp, err := fetcher.Fetch(ctx, req)
		return articlesFetchedMsg{target: target, req: req, resp: resp, err: err}
	}
}

func (a *App) fetchCategories() tea.Cmd {
	ctl := a.adminCategories
	if ctl == nil {
		return nil
	}
	req := ctl.Request()
	fetcher := ctl.Fetcher()
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		resp, err := fetcher.Fetch(ctx, req)
		return categoriesFetchedMsg{req: req, resp: resp, err: err}
	}
}

// loadCategoryOptions fetches every category for filters and the picker,
// falling back to the cache.
func (a *App) loadCategoryOptions() tea.Cmd {
	client, sess, store := a.client, a.sess, a.store
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		all, err := client.ListAllCategories(ctx, sess)
		if err == nil {
			return categoryOptionsMsg{categories: all}
		}
		if store != nil {
			if cached, cacheErr := store.GetCategories(); cacheErr == nil && len(cached) > 0 {
				return categoryOptionsMsg{categories: values(cached)}
			}
		}
		return categoryOptionsMsg{err: err}
	}
}

// loadCachedArticles answers a failed fetch from the local snapshot.
func (a *App) loadCachedArticles(target listTarget, req listview.Request, cause error) tea.Cmd {
	store := a.store
	return func() tea.Msg {
		cached, err := store.GetArticles(0)
		if err != nil || len(cached) == 0 {
			return errorMsg{err: cause}
		}
		return articlesFetchedMsg{
			target:    target,
			req:       req,
			resp:      cachedPage(values(cached), req),
			fromCache: true,
			err:       cause,
		}
	}
}

// cachedPage serves req from a full snapshot the way the API would.
func cachedPage(all []storage.Article, req listview.Request) listview.Response[storage.Article] {
	if req.Limit == 0 {
		return listview.Response[storage.Article]{Records: all, Total: len(all)}
	}
	matched := listview.Filter(all, req.Query, req.Category)
	start := (req.Page - 1) * req.Limit
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := start + req.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return listview.Response[storage.Article]{Records: matched[start:end], Total: len(matched)}
}

// cacheArticles stores a wholesale fetch and refreshes the index from it.
func (a *App) cacheArticles(records []storage.Article) tea.Cmd {
	if a.store == nil {
		return nil
	}
	store, searcher := a.store, a.searcher
	ptrs := pointers(records)
	return func() tea.Msg {
		if err := store.SaveArticles(ptrs); err != nil {
			debuglog.Warnf("caching articles: %v", err)
			return nil
		}
		if l, ok := searcher.(search.UpdateListener); ok {
			if err := l.Reindex(ptrs); err != nil {
				debuglog.Warnf("reindexing: %v", err)
			}
		}
		return nil
	}
}

func (a *App) openArticle(article storage.Article) tea.Cmd {
	client, sess, store, renderer := a.client, a.sess, a.store, a.renderer
	width := a.width
	n := a.config.UI.Article.OtherArticles
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()

		full, err := client.GetArticle(ctx, sess, article.ID)
		if err != nil {
			debuglog.Warnf("loading article %s, using list copy: %v", article.ID, err)
			full = article
		}

		body, err := renderer.Markdown(full.Content)
		if err != nil {
			return articleOpenedMsg{err: wrapErr("rendering article", err)}
		}
		rendered, err := renderer.Document(articleMarkdown(full, body), width)
		if err != nil {
			return articleOpenedMsg{err: wrapErr("rendering article", err)}
		}

		others := otherArticles(ctx, client, sess, store, full, n)
		return articleOpenedMsg{article: full, rendered: rendered, others: others}
	}
}

func articleMarkdown(a storage.Article, body string) string {
	var b strings.Builder
	meta := formatCardDate(a.CreatedAt)
	if a.Category.Name != "" {
		meta += " · " + a.Category.Name
	}
	fmt.Fprintf(&b, "*%s*\n\n", strings.TrimSpace(meta))
	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	if a.User.Username != "" {
		fmt.Fprintf(&b, "by %s\n\n", a.User.Username)
	}
	if a.ImageURL != "" {
		fmt.Fprintf(&b, "![thumbnail](%s)\n\n", a.ImageURL)
	}
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}

// otherArticles picks up to n articles from the same category, newest
// first as the API returns them, skipping the one being read.
func otherArticles(ctx context.Context, client *api.Client, sess session.Session, store *storage.Store, current storage.Article, n int) []storage.Article {
	if n <= 0 {
		return nil
	}
	req := listview.Request{Page: 1, Limit: n + 1, Category: current.CategoryRef()}

	var pool []storage.Article
	resp, err := client.ListArticles(ctx, sess, req)
	switch {
	case err == nil:
		pool = resp.Records
	case store != nil:
		if cached, cacheErr := store.GetArticles(0); cacheErr == nil {
			pool = listview.Filter(values(cached), "", req.Category)
		}
	}

	var out []storage.Article
	for _, a := range pool {
		if a.ID == current.ID {
			continue
		}
		out = append(out, a)
		if len(out) == n {
			break
		}
	}
	return out
}

func (a *App) saveArticle(id string, in api.ArticleInput) tea.Cmd {
	client, sess := a.client, a.sess
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		if id == "" {
			art, err := client.CreateArticle(ctx, sess, in)
			return articleSavedMsg{article: art, created: true, err: err}
		}
		art, err := client.UpdateArticle(ctx, sess, id, in)
		return articleSavedMsg{article: art, err: err}
	}
}

func (a *App) saveCategory(id string, in api.CategoryInput) tea.Cmd {
	client, sess := a.client, a.sess
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		if id == "" {
			c, err := client.CreateCategory(ctx, sess, in)
			return categorySavedMsg{category: c, created: true, err: err}
		}
		c, err := client.UpdateCategory(ctx, sess, id, in)
		return categorySavedMsg{category: c, err: err}
	}
}

func (a *App) deleteRecord(target deleteTarget) tea.Cmd {
	client, sess, store, searcher := a.client, a.sess, a.store, a.searcher
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()

		var err error
		switch target.kind {
		case deleteArticle:
			err = client.DeleteArticle(ctx, sess, target.id)
			if err == nil && store != nil {
				if sErr := store.DeleteArticle(target.id); sErr != nil {
					debuglog.Warnf("removing cached article %s: %v", target.id, sErr)
				}
			}
			if l, ok := searcher.(search.UpdateListener); ok && err == nil {
				l.OnArticleDeleted(target.id)
			}
		case deleteCategory:
			err = client.DeleteCategory(ctx, sess, target.id)
			if err == nil && store != nil {
				if sErr := store.DeleteCategory(target.id); sErr != nil {
					debuglog.Warnf("removing cached category %s: %v", target.id, sErr)
				}
			}
		}
		return deletedMsg{target: target, err: err}
	}
}

// indexArticle adds a saved article to the index. A save whose reply did
// not echo the record has nothing to index; the refetch covers it.
func (a *App) indexArticle(article storage.Article) tea.Cmd {
	l, ok := a.searcher.(search.UpdateListener)
	if !ok || article.ID == "" {
		return nil
	}
	return func() tea.Msg {
		l.OnArticlesUpdated([]*storage.Article{&article})
		return nil
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	searcher := a.searcher
	return func() tea.Msg {
		if searcher == nil {
			return searchResultsMsg{query: query, err: fmt.Errorf("search is unavailable")}
		}
		results, err := searcher.Search(query, 20)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

func (a *App) scheduleSearch(query string) tea.Cmd {
	a.pendingQuery = query
	a.searchSeq++
	seq := a.searchSeq
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg { return searchDebounceFireMsg{seq: seq} })
}

func (a *App) runSync() tea.Cmd {
	if a.syncer == nil {
		return nil
	}
	s, sess, searcher := a.syncer, a.sess, a.searcher
	return func() tea.Msg {
		ctx, cancel := a.ctx()
		defer cancel()
		res, err := s.Run(ctx, sess)
		docs := -1
		if ds, ok := searcher.(search.DebugStatser); ok {
			if n, dErr := ds.DocCount(); dErr == nil {
				docs = n
			}
		}
		return syncedMsg{result: res, docCount: docs, err: err}
	}
}

func (a *App) openImage(url string) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		if err := launcher.Open(url); err != nil {
			return errorMsg{err: fmt.Errorf("failed to open %s: %w", url, err)}
		}
		return nil
	}
}

func values[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, p := range in {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func pointers[T any](in []T) []*T {
	out := make([]*T, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
