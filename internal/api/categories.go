package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
)

type CategoryInput struct {
	Name string `json:"name"`
}

// ListCategories fetches one page. Query maps to the "search" parameter.
func (c *Client) ListCategories(ctx context.Context, sess session.Session, req listview.Request) (listview.Response[storage.Category], error) {
	req.Category = ""
	env, err := c.categoryPage(ctx, sess, req)
	if err != nil {
		return listview.Response[storage.Category]{}, err
	}
	return listview.Response[storage.Category]{Records: env.Data, Total: env.total()}, nil
}

func (c *Client) categoryPage(ctx context.Context, sess session.Session, req listview.Request) (listEnvelope[storage.Category], error) {
	var env listEnvelope[storage.Category]
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/categories",
		query:  pageQuery(req, "search"),
		sess:   sess,
	}, &env)
	return env, err
}

func (c *Client) ListAllCategories(ctx context.Context, sess session.Session) ([]storage.Category, error) {
	return walkPages(func(page int) (listEnvelope[storage.Category], error) {
		return c.categoryPage(ctx, sess, listview.Request{Page: page, Limit: wholesalePageSize})
	})
}

func (c *Client) CreateCategory(ctx context.Context, sess session.Session, in CategoryInput) (storage.Category, error) {
	return c.writeCategory(ctx, sess, http.MethodPost, "/categories", in, []int{http.StatusOK, http.StatusCreated})
}

func (c *Client) UpdateCategory(ctx context.Context, sess session.Session, id string, in CategoryInput) (storage.Category, error) {
	return c.writeCategory(ctx, sess, http.MethodPut, "/categories/"+url.PathEscape(id), in, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, sess session.Session, id string) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/categories/" + url.PathEscape(id),
		sess:   sess,
		auth:   true,
		ok:     []int{http.StatusOK, http.StatusNoContent},
	}, nil)
}

func (c *Client) writeCategory(ctx context.Context, sess session.Session, method, path string, in CategoryInput, ok []int) (storage.Category, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{
		method: method,
		path:   path,
		body:   in,
		sess:   sess,
		auth:   true,
		ok:     ok,
	}, &raw)
	if err != nil {
		return storage.Category{}, err
	}
	return decodeWritten[storage.Category](raw, "category")
}
