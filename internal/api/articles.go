package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
)

// wholesalePageSize is the limit used when walking every page.
const wholesalePageSize = 100

// maxWholesalePages stops a wholesale walk against a server that ignores
// the page parameter.
const maxWholesalePages = 500

type ArticleInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"categoryId"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// listEnvelope covers the shapes the API uses: articles report "total",
// categories report "totalData", and a bare {"data": [...]} reports neither.
type listEnvelope[T any] struct {
	Data      []T  `json:"data"`
	Total     *int `json:"total"`
	TotalData *int `json:"totalData"`
	Page      int  `json:"page"`
	Limit     int  `json:"limit"`
}

// reportedTotal is the count the server sent, if it sent a usable one.
func (e listEnvelope[T]) reportedTotal() (int, bool) {
	switch {
	case e.Total != nil && *e.Total > 0:
		return *e.Total, true
	case e.TotalData != nil && *e.TotalData > 0:
		return *e.TotalData, true
	default:
		return 0, false
	}
}

func (e listEnvelope[T]) total() int {
	if n, ok := e.reportedTotal(); ok {
		return n
	}
	return len(e.Data)
}

func pageQuery(req listview.Request, searchParam string) url.Values {
	q := url.Values{}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Query != "" {
		q.Set(searchParam, req.Query)
	}
	if req.Category != "" {
		q.Set("category", req.Category)
	}
	return q
}

// ListArticles fetches one page. Query maps to the "title" parameter and
// Category to "category".
func (c *Client) ListArticles(ctx context.Context, sess session.Session, req listview.Request) (listview.Response[storage.Article], error) {
	env, err := c.articlePage(ctx, sess, req)
	if err != nil {
		return listview.Response[storage.Article]{}, err
	}
	return listview.Response[storage.Article]{Records: env.Data, Total: env.total()}, nil
}

func (c *Client) articlePage(ctx context.Context, sess session.Session, req listview.Request) (listEnvelope[storage.Article], error) {
	var env listEnvelope[storage.Article]
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/articles",
		query:  pageQuery(req, "title"),
		sess:   sess,
	}, &env)
	return env, err
}

// ListAllArticles walks every page and returns the whole collection in
// server order.
func (c *Client) ListAllArticles(ctx context.Context, sess session.Session) ([]storage.Article, error) {
	return walkPages(func(page int) (listEnvelope[storage.Article], error) {
		return c.articlePage(ctx, sess, listview.Request{Page: page, Limit: wholesalePageSize})
	})
}

func (c *Client) GetArticle(ctx context.Context, sess session.Session, id string) (storage.Article, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/articles/" + url.PathEscape(id),
		sess:   sess,
	}, &raw)
	if err != nil {
		return storage.Article{}, err
	}
	var a storage.Article
	if err := decodeOne(raw, &a); err != nil {
		return storage.Article{}, err
	}
	return a, nil
}

func (c *Client) CreateArticle(ctx context.Context, sess session.Session, in ArticleInput) (storage.Article, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/articles",
		body:   in,
		sess:   sess,
		auth:   true,
		ok:     []int{http.StatusOK, http.StatusCreated},
	}, &raw)
	if err != nil {
		return storage.Article{}, err
	}
	return decodeWritten[storage.Article](raw, "article")
}

func (c *Client) UpdateArticle(ctx context.Context, sess session.Session, id string, in ArticleInput) (storage.Article, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/articles/" + url.PathEscape(id),
		body:   in,
		sess:   sess,
		auth:   true,
	}, &raw)
	if err != nil {
		return storage.Article{}, err
	}
	return decodeWritten[storage.Article](raw, "article")
}

func (c *Client) DeleteArticle(ctx context.Context, sess session.Session, id string) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/articles/" + url.PathEscape(id),
		sess:   sess,
		auth:   true,
		ok:     []int{http.StatusOK, http.StatusNoContent},
	}, nil)
}

// walkPages stops on a short page, or once a reported total is reached.
// Without a total only a short page ends the walk.
func walkPages[T any](fetch func(page int) (listEnvelope[T], error)) ([]T, error) {
	var all []T
	for page := 1; page <= maxWholesalePages; page++ {
		env, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, env.Data...)
		if len(env.Data) < wholesalePageSize {
			break
		}
		if total, ok := env.reportedTotal(); ok && len(all) >= total {
			break
		}
	}
	return all, nil
}
