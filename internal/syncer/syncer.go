// Package syncer refreshes the local article and category snapshots from the
// API and keeps the search index in step with them.
package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pders01/journal/internal/debuglog"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
)

// Source lists every record the API holds. *api.Client satisfies it.
type Source interface {
	ListAllArticles(ctx context.Context, sess session.Session) ([]storage.Article, error)
	ListAllCategories(ctx context.Context, sess session.Session) ([]storage.Category, error)
}

// Indexer is told about each new article snapshot.
type Indexer interface {
	Reindex(articles []*storage.Article) error
}

// Snapshots is the cache the syncer writes to. *storage.Store satisfies it.
type Snapshots interface {
	SaveArticles(articles []*storage.Article) error
	SaveCategories(categories []*storage.Category) error
}

type Result struct {
	Articles   int
	Categories int
	Took       time.Duration
}

type Syncer struct {
	source Source
	store  Snapshots
	index  Indexer

	mu sync.Mutex
}

// New returns a syncer. index may be nil.
func New(source Source, store Snapshots, index Indexer) *Syncer {
	return &Syncer{source: source, store: store, index: index}
}

// Run fetches articles and categories concurrently. Snapshots are only
// replaced when both fetches succeed, so a failed sync leaves the cache as
// it was.
func (s *Syncer) Run(ctx context.Context, sess session.Session) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var (
		articles   []storage.Article
		categories []storage.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		articles, err = s.source.ListAllArticles(gctx, sess)
		if err != nil {
			return fmt.Errorf("fetching articles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.source.ListAllCategories(gctx, sess)
		if err != nil {
			return fmt.Errorf("fetching categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		debuglog.Warnf("sync failed: %v", err)
		return Result{}, err
	}

	articlePtrs := pointers(articles)
	if err := s.store.SaveArticles(articlePtrs); err != nil {
		return Result{}, fmt.Errorf("saving articles: %w", err)
	}
	if err := s.store.SaveCategories(pointers(categories)); err != nil {
		return Result{}, fmt.Errorf("saving categories: %w", err)
	}

	if s.index != nil {
		if err := s.index.Reindex(articlePtrs); err != nil {
			// The snapshot is saved; a stale index only degrades search.
			debuglog.Warnf("reindexing after sync: %v", err)
		}
	}

	res := Result{Articles: len(articles), Categories: len(categories), Took: time.Since(start)}
	debuglog.WithFields(map[string]interface{}{
		"articles":   res.Articles,
		"categories": res.Categories,
		"took":       res.Took.String(),
	}).Infof("sync complete")
	return res, nil
}

func pointers[T any](in []T) []*T {
	out := make([]*T, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
