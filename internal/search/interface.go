package search

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pders01/journal/internal/storage"
)

// Searcher defines the minimal search API used by the TUI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// UpdateListener is implemented by engines that keep their own index and
// want to hear about changes to the article snapshot.
type UpdateListener interface {
	Reindex(articles []*storage.Article) error
	OnArticlesUpdated(articles []*storage.Article)
	OnArticleDeleted(id string)
}

// DebugStatser reports index sizes for the status bar.
type DebugStatser interface {
	DocCount() (int, error)
}

// ArticleSource is where engines read the cached snapshot from.
// *storage.Store satisfies it.
type ArticleSource interface {
	GetArticles(limit int) ([]*storage.Article, error)
	GetArticle(id string) (*storage.Article, error)
}

// Result is one matching article.
type Result struct {
	Article *storage.Article
	Score   float64
	Matches []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "title", "category", "content"
	Text   string
	Weight float64
}

var (
	strict    = bluemonday.StrictPolicy()
	spaceRun  = regexp.MustCompile(`\s+`)
	entityRep = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#34;", `"`, "&#39;", "'", "&nbsp;", " ")
)

// plainText strips the stored HTML body down to indexable words.
func plainText(html string) string {
	text := strict.Sanitize(strings.ReplaceAll(html, "<", " <"))
	text = entityRep.Replace(text)
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}
