package api

import (
	"context"

	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
)

// ArticleFetcher serves articles to a listview.Controller. A zero-limit
// request is answered with the whole collection.
type ArticleFetcher struct {
	Client  *Client
	Session session.Session
}

func (f ArticleFetcher) Fetch(ctx context.Context, req listview.Request) (listview.Response[storage.Article], error) {
	if req.Limit == 0 {
		all, err := f.Client.ListAllArticles(ctx, f.Session)
		if err != nil {
			return listview.Response[storage.Article]{}, err
		}
		return listview.Response[storage.Article]{Records: all, Total: len(all)}, nil
	}
	return f.Client.ListArticles(ctx, f.Session, req)
}

type CategoryFetcher struct {
	Client  *Client
	Session session.Session
}

func (f CategoryFetcher) Fetch(ctx context.Context, req listview.Request) (listview.Response[storage.Category], error) {
	if req.Limit == 0 {
		all, err := f.Client.ListAllCategories(ctx, f.Session)
		if err != nil {
			return listview.Response[storage.Category]{}, err
		}
		return listview.Response[storage.Category]{Records: all, Total: len(all)}, nil
	}
	return f.Client.ListCategories(ctx, f.Session, req)
}
