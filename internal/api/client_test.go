package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/pders01/journal/internal/api/apitest"
	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/", UserAgent: "journal-test"}), srv
}

func TestClient_SignIn(t *testing.T) {
	c, srv := newTestClient(t)
	srv.AddUser("admin", "secret1", "Admin")

	sess, err := c.SignIn(context.Background(), "admin", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, sess.IsAdmin())
	assert.Equal(t, "admin", sess.Username)
	assert.NotEmpty(t, sess.UserID)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/auth/login", reqs[0].URL.Path)
	assert.Equal(t, "/auth/profile", reqs[1].URL.Path)
	assert.Equal(t, "Bearer "+sess.Token, reqs[1].Header.Get("Authorization"))
}

func TestClient_LoginBadCredentials(t *testing.T) {
	c, srv := newTestClient(t)
	srv.AddUser("admin", "secret1", "Admin")

	_, err := c.Login(context.Background(), "admin", "wrong!")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Invalid credentials", se.Message())
}

func TestClient_Register(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "newbie", "secret1", "User"))
	err := c.Register(ctx, "newbie", "secret1", "User")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)

	sess, err := c.SignIn(ctx, "newbie", "secret1")
	require.NoError(t, err)
	assert.False(t, sess.IsAdmin())
}

func TestClient_RequestHeaders(t *testing.T) {
	c, srv := newTestClient(t)
	_, err := c.ListArticles(context.Background(), session.Session{}, listview.Request{})
	require.NoError(t, err)

	req := srv.Requests()[0]
	assert.Equal(t, "journal-test", req.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Empty(t, req.Header.Get("Authorization"))
	_, err = uuid.Parse(req.Header.Get("X-Request-ID"))
	assert.NoError(t, err, "X-Request-ID should be a uuid")
}

func TestClient_ListArticlesParams(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedNumbered(25, "cat-a", "cat-b")

	resp, err := c.ListArticles(context.Background(), session.Session{}, listview.Request{
		Page: 2, Limit: 5, Query: "article 1", Category: "cat-b",
	})
	require.NoError(t, err)

	q := srv.Requests()[0].URL.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "article 1", q.Get("title"))
	assert.Equal(t, "cat-b", q.Get("category"))

	// cat-b holds the even-numbered articles; "article 1" matches 10..18 of those.
	assert.Equal(t, 5, resp.Total)
	assert.Empty(t, resp.Records)
}

func TestClient_ListAllArticlesWalksPages(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedNumbered(230)

	all, err := c.ListAllArticles(context.Background(), session.Session{})
	require.NoError(t, err)
	require.Len(t, all, 230)
	assert.Equal(t, "art-1", all[0].ID)
	assert.Equal(t, "art-230", all[229].ID)
	assert.Len(t, srv.Requests(), 3)
}

// bareEnvelopeServer pages n records as {"data": [...]} with no total.
func bareEnvelopeServer(t *testing.T, n int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		start := min((page-1)*limit, n)
		end := min(start+limit, n)
		data := []map[string]string{}
		for i := start; i < end; i++ {
			data = append(data, map[string]string{"id": fmt.Sprintf("rec-%d", i+1), "title": "t", "name": "n"})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ListAllWithoutTotal(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"several full pages", 250},
		{"exact multiple", 200},
		{"single short page", 7},
		{"empty", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := bareEnvelopeServer(t, tt.n)
			c := NewClient(Options{BaseURL: srv.URL})
			ctx := context.Background()

			articles, err := c.ListAllArticles(ctx, session.Session{})
			require.NoError(t, err)
			assert.Len(t, articles, tt.n)
			if tt.n > 0 {
				assert.Equal(t, fmt.Sprintf("rec-%d", tt.n), articles[tt.n-1].ID)
			}

			categories, err := c.ListAllCategories(ctx, session.Session{})
			require.NoError(t, err)
			assert.Len(t, categories, tt.n)
		})
	}
}

func TestClient_ListCategoriesTotalData(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedNumbered(1, "a", "b", "c")

	resp, err := c.ListCategories(context.Background(), session.Session{}, listview.Request{Page: 1, Limit: 2, Query: "category"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Records, 2)
	assert.Equal(t, "category", srv.Requests()[0].URL.Query().Get("search"))
}

func TestClient_MutationsRequireToken(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	none := session.Session{}

	calls := map[string]func() error{
		"create article": func() error {
			_, err := c.CreateArticle(ctx, none, ArticleInput{Title: "x"})
			return err
		},
		"update article": func() error {
			_, err := c.UpdateArticle(ctx, none, "id", ArticleInput{})
			return err
		},
		"delete article":  func() error { return c.DeleteArticle(ctx, none, "id") },
		"create category": func() error { _, err := c.CreateCategory(ctx, none, CategoryInput{Name: "x"}); return err },
		"update category": func() error { _, err := c.UpdateCategory(ctx, none, "id", CategoryInput{}); return err },
		"delete category": func() error { return c.DeleteCategory(ctx, none, "id") },
		"profile":         func() error { _, err := c.Profile(ctx, none); return err },
	}

	for name, fn := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, fn(), session.ErrNoToken)
		})
	}
	assert.Empty(t, srv.Requests(), "no request may be sent without a token")
}

func TestClient_ArticleCRUD(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedNumbered(2, "cat-1")
	sess := session.Session{Token: srv.AddUser("admin", "secret1", "Admin"), Role: "Admin"}
	ctx := context.Background()

	created, err := c.CreateArticle(ctx, sess, ArticleInput{Title: "Hello", Content: "<p>World wide</p>", CategoryID: "cat-1"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Category cat-1", created.Category.Name)

	got, err := c.GetArticle(ctx, sess, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	updated, err := c.UpdateArticle(ctx, sess, created.ID, ArticleInput{Title: "Hello again", Content: "<p>World wide</p>", CategoryID: "cat-1"})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)

	require.NoError(t, c.DeleteArticle(ctx, sess, created.ID))
	_, err = c.GetArticle(ctx, sess, created.ID)
	assert.True(t, IsNotFound(err))
	assert.Len(t, srv.Articles(), 2)
}

func TestClient_CategoryCRUD(t *testing.T) {
	c, srv := newTestClient(t)
	sess := session.Session{Token: srv.AddUser("admin", "secret1", "Admin")}
	ctx := context.Background()

	cat, err := c.CreateCategory(ctx, sess, CategoryInput{Name: "Science"})
	require.NoError(t, err)
	require.NotEmpty(t, cat.ID)

	cat, err = c.UpdateCategory(ctx, sess, cat.ID, CategoryInput{Name: "Sciences"})
	require.NoError(t, err)
	assert.Equal(t, "Sciences", cat.Name)

	require.NoError(t, c.DeleteCategory(ctx, sess, cat.ID))
	assert.Empty(t, srv.Categories())
}

func TestClient_SavedRecordMustDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"numeric id", `{"id": 42, "title": "x", "name": "x"}`, true},
		{"not json", `created`, true},
		{"empty body", ``, false},
		{"wrapped", `{"data": {"id": "a1", "title": "x", "name": "x"}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodPost {
					w.WriteHeader(http.StatusCreated)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)
			c := NewClient(Options{BaseURL: srv.URL})
			ctx := context.Background()
			sess := session.Session{Token: "tok"}

			created, err := c.CreateArticle(ctx, sess, ArticleInput{Title: "x"})
			updated, uErr := c.UpdateArticle(ctx, sess, "a1", ArticleInput{Title: "x"})
			cat, cErr := c.CreateCategory(ctx, sess, CategoryInput{Name: "x"})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, uErr)
				assert.Error(t, cErr)
				assert.Empty(t, created.ID)
				assert.Empty(t, updated.Title)
				assert.Empty(t, cat.Name)
				return
			}
			require.NoError(t, err)
			require.NoError(t, uErr)
			require.NoError(t, cErr)
			assert.Equal(t, created.ID, updated.ID)
		})
	}
}

func TestClient_StatusErrors(t *testing.T) {
	c, srv := newTestClient(t)
	srv.FailNext("GET /articles", http.StatusInternalServerError, 1)

	_, err := c.ListArticles(context.Background(), session.Session{}, listview.Request{})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Contains(t, err.Error(), "injected failure")

	_, err = c.ListArticles(context.Background(), session.Session{}, listview.Request{})
	assert.NoError(t, err, "failure is injected once")
}

func TestClient_ExpiredToken(t *testing.T) {
	c, _ := newTestClient(t)
	err := c.DeleteArticle(context.Background(), session.Session{Token: "stale"}, "x")
	assert.True(t, IsUnauthorized(err))
	assert.False(t, errors.Is(err, session.ErrNoToken))
}

func TestClient_TransportError(t *testing.T) {
	srv := apitest.NewServer()
	url := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: url})
	_, err := c.ListArticles(context.Background(), session.Session{}, listview.Request{})
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestFetchers(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedNumbered(25, "a", "b")
	ctx := context.Background()

	articles := listview.NewController[storage.Article](ArticleFetcher{Client: c}, listview.ModeClient, 10)
	require.NoError(t, articles.Refresh(ctx))
	assert.Equal(t, 25, articles.VisibleSlice().TotalMatching)
	articles.SetCategory("a")
	assert.Equal(t, 13, articles.VisibleSlice().TotalMatching)

	server := listview.NewController[storage.Article](ArticleFetcher{Client: c}, listview.ModeServer, 10)
	server.SetCategory("b")
	require.NoError(t, server.Refresh(ctx))
	s := server.VisibleSlice()
	assert.Equal(t, 12, s.TotalMatching)
	assert.Equal(t, 2, s.TotalPages)

	cats := listview.NewController[storage.Category](CategoryFetcher{Client: c}, listview.ModeServer, 1)
	require.NoError(t, cats.Refresh(ctx))
	assert.Equal(t, 2, cats.VisibleSlice().TotalPages)
}
