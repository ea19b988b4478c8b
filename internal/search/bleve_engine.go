package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/pders01/journal/internal/debuglog"
	"github.com/pders01/journal/internal/storage"
)

// BleveEngine keeps a bleve index of the cached articles.
type BleveEngine struct {
	source ArticleSource
	idx    bleve.Index
}

var (
	_ Searcher       = (*BleveEngine)(nil)
	_ UpdateListener = (*BleveEngine)(nil)
	_ DebugStatser   = (*BleveEngine)(nil)
)

// NewBleveEngine opens or creates the index at indexPath and indexes the
// current snapshot. An empty indexPath keeps the index in memory.
func NewBleveEngine(source ArticleSource, indexPath string) (*BleveEngine, error) {
	idx, err := openIndex(indexPath)
	if err != nil {
		return nil, err
	}

	be := &BleveEngine{source: source, idx: idx}
	articles, err := source.GetArticles(0)
	if err != nil {
		idx.Close()
		return nil, fmt.Errorf("reading articles: %w", err)
	}
	if err := be.Reindex(articles); err != nil {
		idx.Close()
		return nil, err
	}
	return be, nil
}

func openIndex(indexPath string) (bleve.Index, error) {
	if indexPath == "" {
		return bleve.NewMemOnly(buildIndexMapping())
	}

	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err == nil {
		return idx, nil
	}
	if !errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	idx, err = bleve.New(indexPath, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	return idx, nil
}

// Open returns the bleve engine, or the unindexed Engine when the index
// cannot be opened.
func Open(source ArticleSource, indexPath string) Searcher {
	be, err := NewBleveEngine(source, indexPath)
	if err != nil {
		debuglog.Warnf("search index unavailable, falling back to scan: %v", err)
		return NewEngine(source)
	}
	return be
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	content := bleve.NewTextFieldMapping()
	content.Analyzer = standard.Name
	content.Store = false

	category := bleve.NewTextFieldMapping()
	category.Analyzer = standard.Name
	category.Store = true

	categoryID := bleve.NewTextFieldMapping()
	categoryID.Analyzer = keyword.Name
	categoryID.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("content", content)
	dm.AddFieldMappingsAt("category", category)
	dm.AddFieldMappingsAt("category_id", categoryID)

	im.DefaultMapping = dm
	return im
}

func document(a *storage.Article) map[string]any {
	return map[string]any{
		"title":       a.Title,
		"content":     plainText(a.Content),
		"category":    a.Category.Name,
		"category_id": a.CategoryRef(),
	}
}

// Reindex makes the index match articles exactly.
func (b *BleveEngine) Reindex(articles []*storage.Article) error {
	keep := make(map[string]bool, len(articles))
	batch := b.idx.NewBatch()
	for _, a := range articles {
		id := docIDForArticle(a.ID)
		keep[id] = true
		if err := batch.Index(id, document(a)); err != nil {
			return fmt.Errorf("indexing %s: %w", a.ID, err)
		}
	}

	stale, err := b.allIDs()
	if err != nil {
		return err
	}
	for _, id := range stale {
		if !keep[id] {
			batch.Delete(id)
		}
	}

	if err := b.idx.Batch(batch); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func (b *BleveEngine) allIDs() ([]string, error) {
	var ids []string
	const size = 1000
	for from := 0; ; from += size {
		req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), size, from, false)
		res, err := b.idx.Search(req)
		if err != nil {
			return nil, fmt.Errorf("listing index: %w", err)
		}
		for _, h := range res.Hits {
			ids = append(ids, h.ID)
		}
		if len(res.Hits) < size {
			return ids, nil
		}
	}
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	fields := []struct {
		name        string
		match, pref float64
	}{
		{"title", 4.0, 3.5},
		{"category", 2.0, 1.8},
		{"content", 1.0, 0.8},
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		for _, f := range fields {
			mq := bleve.NewMatchQuery(tok)
			mq.SetField(f.name)
			mq.SetBoost(f.match)
			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(f.name)
			pq.SetBoost(f.pref)
			qs = append(qs, mq, pq)
		}
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"title", "category", "category_id"}
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		id := strings.TrimPrefix(h.ID, "article:")
		article, err := b.source.GetArticle(id)
		if err != nil {
			// Index ran ahead of the snapshot; rebuild from stored fields.
			article = &storage.Article{ID: id}
			article.Title, _ = h.Fields["title"].(string)
			article.Category.Name, _ = h.Fields["category"].(string)
			article.CategoryID, _ = h.Fields["category_id"].(string)
		}
		out = append(out, &Result{Article: article, Score: h.Score})
	}
	return out, nil
}

// OnArticlesUpdated upserts articles after a create or edit.
func (b *BleveEngine) OnArticlesUpdated(articles []*storage.Article) {
	batch := b.idx.NewBatch()
	for _, a := range articles {
		_ = batch.Index(docIDForArticle(a.ID), document(a))
	}
	if err := b.idx.Batch(batch); err != nil {
		debuglog.Warnf("updating search index: %v", err)
	}
}

func (b *BleveEngine) OnArticleDeleted(id string) {
	if err := b.idx.Delete(docIDForArticle(id)); err != nil {
		debuglog.Warnf("removing %s from search index: %v", id, err)
	}
}

// DocCount reports total documents in the index.
func (b *BleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveEngine) Close() error {
	return b.idx.Close()
}

func docIDForArticle(id string) string { return "article:" + id }
