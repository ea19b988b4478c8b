package listview

import (
	"context"
	"fmt"
	"strings"
)

// Mode selects where filtering and pagination happen.
type Mode string

const (
	// ModeClient fetches the whole collection once and pages it locally.
	ModeClient Mode = "client"
	// ModeServer forwards page, limit and filters to the remote source and
	// trusts its total.
	ModeServer Mode = "server"
)

// ParseMode accepts "client" or "server" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeClient, "":
		return ModeClient, nil
	case ModeServer:
		return ModeServer, nil
	default:
		return "", fmt.Errorf("unknown list mode %q (want client or server)", s)
	}
}

// Request describes what to fetch. The zero value asks for everything.
type Request struct {
	Page     int
	Limit    int
	Query    string
	Category string
}

// Response is one batch from the remote source. Total is the server's count
// of matching records; client-mode fetchers may leave it at zero.
type Response[T Record] struct {
	Records []T
	Total   int
}

// Fetcher is the remote collection boundary.
type Fetcher[T Record] interface {
	Fetch(ctx context.Context, req Request) (Response[T], error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc[T Record] func(ctx context.Context, req Request) (Response[T], error)

func (f FetcherFunc[T]) Fetch(ctx context.Context, req Request) (Response[T], error) {
	return f(ctx, req)
}

// Controller binds one Engine to one Fetcher under a fixed Mode.
//
// Fetching is split in two so callers can run the network half off their
// event loop: take Request() on the loop, call Fetcher().Fetch elsewhere,
// then hand the result back to Apply on the loop.
type Controller[T Record] struct {
	engine  *Engine[T]
	fetcher Fetcher[T]
	mode    Mode
	loaded  bool
	stale   bool
}

func NewController[T Record](fetcher Fetcher[T], mode Mode, pageSize int) *Controller[T] {
	if mode != ModeServer {
		mode = ModeClient
	}
	return &Controller[T]{
		engine:  New[T](pageSize),
		fetcher: fetcher,
		mode:    mode,
		stale:   true,
	}
}

func (c *Controller[T]) Engine() *Engine[T]     { return c.engine }
func (c *Controller[T]) Fetcher() Fetcher[T]    { return c.fetcher }
func (c *Controller[T]) Mode() Mode             { return c.mode }
func (c *Controller[T]) Loaded() bool           { return c.loaded }
func (c *Controller[T]) VisibleSlice() Slice[T] { return c.engine.VisibleSlice() }

// NeedsFetch reports whether the visible page is out of date with respect
// to the remote source.
func (c *Controller[T]) NeedsFetch() bool { return c.stale }

// Request is what the next fetch should ask for.
func (c *Controller[T]) Request() Request {
	if c.mode == ModeClient {
		return Request{}
	}
	return Request{
		Page:     c.engine.Page(),
		Limit:    c.engine.PageSize(),
		Query:    c.engine.Query(),
		Category: c.engine.Category(),
	}
}

// Refresh fetches synchronously and applies the result. On error the engine
// keeps its previous state.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	req := c.Request()
	resp, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		return err
	}
	c.Apply(req, resp)
	return nil
}

// Apply installs a fetched response. It returns false and changes nothing
// when req no longer matches what the controller would ask for, which
// happens when the user moved on while the request was in flight.
func (c *Controller[T]) Apply(req Request, resp Response[T]) bool {
	if req != c.Request() {
		return false
	}
	if c.mode == ModeClient {
		c.engine.Load(resp.Records)
	} else {
		c.engine.LoadPage(resp.Records, resp.Total)
		// The server may report fewer pages than we asked for.
		if c.engine.Page() != req.Page {
			c.loaded = true
			c.stale = true
			return true
		}
	}
	c.loaded = true
	c.stale = false
	return true
}

func (c *Controller[T]) SetQuery(text string) {
	c.track(func() { c.engine.SetQuery(text) })
}

func (c *Controller[T]) SetCategory(id string) {
	c.track(func() { c.engine.SetCategory(id) })
}

func (c *Controller[T]) NextPage() { c.track(c.engine.NextPage) }
func (c *Controller[T]) PrevPage() { c.track(c.engine.PrevPage) }

func (c *Controller[T]) GoToPage(n int) {
	c.track(func() { c.engine.GoToPage(n) })
}

// RemoveRecord drops a record after the remote delete succeeded. In server
// mode the page is refilled on the next fetch.
func (c *Controller[T]) RemoveRecord(id string) bool {
	removed := c.engine.RemoveRecord(id)
	if removed && c.mode == ModeServer {
		c.stale = true
	}
	return removed
}

// track runs a mutator and marks the controller stale when, in server mode,
// the request it would send has changed.
func (c *Controller[T]) track(mutate func()) {
	before := c.Request()
	mutate()
	if c.mode == ModeServer && c.Request() != before {
		c.stale = true
	}
}
