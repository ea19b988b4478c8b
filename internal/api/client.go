// Package api talks to the blog REST API: authentication, articles and
// categories. Calls that need a login take a session.Session explicitly and
// fail with session.ErrNoToken before anything is sent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pders01/journal/internal/debuglog"
	"github.com/pders01/journal/internal/session"
)

const (
	defaultUserAgent = "journal/1.0 (https://github.com/pders01/journal)"
	defaultTimeout   = 15 * time.Second

	// maxErrorBody caps how much of a failed response is kept in StatusError.
	maxErrorBody = 4 << 10
)

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		http:      hc,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// call is one request description; do turns it into an HTTP round trip.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	sess   session.Session
	// auth makes the token mandatory. Without it a token is still sent
	// when present.
	auth bool
	// ok lists accepted status codes; empty means 200 only.
	ok []int
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	if cl.auth {
		if err := cl.sess.Require(); err != nil {
			return err
		}
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h := cl.sess.BearerHeader(); h != "" {
		req.Header.Set("Authorization", h)
	}

	log := debuglog.WithFields(map[string]interface{}{
		"request_id": requestID,
		"method":     cl.method,
		"path":       cl.path,
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("request failed: %v", err)
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	log.Debugf("status %d in %s", resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if !accepted(resp.StatusCode, cl.ok) {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &StatusError{Method: cl.method, Path: cl.path, Code: resp.StatusCode, Body: string(data)}
		log.Warnf("%v", serr)
		return serr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", cl.method, cl.path, err)
	}
	return nil
}

func accepted(code int, ok []int) bool {
	if len(ok) == 0 {
		return code == http.StatusOK
	}
	for _, c := range ok {
		if c == code {
			return true
		}
	}
	return false
}

// decodeOne accepts either a bare object or one wrapped in {"data": ...}.
func decodeOne(raw json.RawMessage, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && env.Data[0] == '{' {
		raw = env.Data
	}
	return json.Unmarshal(raw, out)
}

// decodeWritten reads the record echoed by a create or update. An empty
// body is a success with a zero record; a body that does not decode is an
// error.
func decodeWritten[T any](raw json.RawMessage, noun string) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := decodeOne(raw, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("decoding saved %s: %w", noun, err)
	}
	return v, nil
}
