package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pders01/journal/internal/api"
	"github.com/pders01/journal/internal/api/apitest"
	"github.com/pders01/journal/internal/listview"
	"github.com/pders01/journal/internal/search"
	"github.com/pders01/journal/internal/session"
	"github.com/pders01/journal/internal/storage"
	"github.com/pders01/journal/internal/syncer"
)

type testEnvironment struct {
	srv    *apitest.Server
	store  *storage.Store
	client *api.Client
	index  *search.BleveEngine
}

func setupTestEnvironment(t *testing.T) (*testEnvironment, func()) {
	tmpDir, err := os.MkdirTemp("", "integration-test-*")
	if err != nil {
		t.Fatal(err)
	}

	store, err := storage.NewStore(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	index, err := search.NewBleveEngine(store, filepath.Join(tmpDir, "index.bleve"))
	if err != nil {
		store.Close()
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	srv := apitest.NewServer()
	client := api.NewClient(api.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})

	cleanup := func() {
		srv.Close()
		index.Close()
		store.Close()
		os.RemoveAll(tmpDir)
	}
	return &testEnvironment{srv: srv, store: store, client: client, index: index}, cleanup
}

func seedBlog(srv *apitest.Server) {
	created := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	srv.Seed(
		[]storage.Category{
			{ID: "tools", Name: "Tools", CreatedAt: created},
			{ID: "life", Name: "Life", CreatedAt: created},
		},
		[]storage.Article{
			{ID: "a1", Title: "Living in the terminal", Content: "<p>Tabs, panes and <strong>keyboard</strong> habits.</p>", CategoryID: "tools", Category: storage.CategoryRef{ID: "tools", Name: "Tools"}, CreatedAt: created},
			{ID: "a2", Title: "Morning walks", Content: "<p>Notes from the park.</p>", CategoryID: "life", Category: storage.CategoryRef{ID: "life", Name: "Life"}, CreatedAt: created.Add(time.Hour)},
			{ID: "a3", Title: "Editors compared", Content: "<p>Modal editing in the terminal.</p>", CategoryID: "tools", Category: storage.CategoryRef{ID: "tools", Name: "Tools"}, CreatedAt: created.Add(2 * time.Hour)},
		},
	)
}

func TestIntegration_SignInAndSync(t *testing.T) {
	env, cleanup := setupTestEnvironment(t)
	defer cleanup()
	seedBlog(env.srv)
	env.srv.AddUser("reader", "secret1", session.RoleUser)

	ctx := context.Background()
	sess, err := env.client.SignIn(ctx, "reader", "secret1")
	if err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	if sess.Role != session.RoleUser {
		t.Errorf("Expected role %s, got %s", session.RoleUser, sess.Role)
	}
	if err := env.store.Sessions().Save(sess); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	res, err := syncer.New(env.client, env.store, env.index).Run(ctx, sess)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if res.Articles != 3 || res.Categories != 2 {
		t.Errorf("Expected 3 articles and 2 categories, got %d and %d", res.Articles, res.Categories)
	}

	articles, err := env.store.GetArticles(0)
	if err != nil {
		t.Fatalf("Failed to read cached articles: %v", err)
	}
	if len(articles) != 3 {
		t.Errorf("Expected 3 cached articles, got %d", len(articles))
	}

	categories, err := env.store.GetCategories()
	if err != nil {
		t.Fatalf("Failed to read cached categories: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("Expected 2 cached categories, got %d", len(categories))
	}

	results, err := env.index.Search("terminal", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results for 'terminal', got %d", len(results))
	}
}

func TestIntegration_ServerModePaging(t *testing.T) {
	env, cleanup := setupTestEnvironment(t)
	defer cleanup()
	env.srv.SeedNumbered(20, "a", "b")

	ctl := listview.NewController[storage.Article](
		api.ArticleFetcher{Client: env.client}, listview.ModeServer, 9)
	ctx := context.Background()

	if err := ctl.Refresh(ctx); err != nil {
		t.Fatalf("First page failed: %v", err)
	}
	if got := ctl.Engine().TotalPages(); got != 3 {
		t.Errorf("Expected 3 pages, got %d", got)
	}

	ctl.SetCategory("b")
	if !ctl.NeedsFetch() {
		t.Fatal("Changing the category should require a fetch")
	}
	if err := ctl.Refresh(ctx); err != nil {
		t.Fatalf("Filtered page failed: %v", err)
	}
	slice := ctl.VisibleSlice()
	if slice.TotalMatching != 10 {
		t.Errorf("Expected 10 matching articles, got %d", slice.TotalMatching)
	}
	for _, a := range slice.Records {
		if a.CategoryRef() != "b" {
			t.Errorf("Article %s is in category %s", a.ID, a.CategoryRef())
		}
	}
}

func TestIntegration_ClientModeLoadsOnce(t *testing.T) {
	env, cleanup := setupTestEnvironment(t)
	defer cleanup()
	env.srv.SeedNumbered(25)

	ctl := listview.NewController[storage.Article](
		api.ArticleFetcher{Client: env.client}, listview.ModeClient, 10)
	if err := ctl.Refresh(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	requests := len(env.srv.Requests())

	ctl.NextPage()
	ctl.NextPage()
	ctl.SetQuery("article 2")
	if ctl.NeedsFetch() {
		t.Error("Client mode should not fetch after the first load")
	}
	if got := len(env.srv.Requests()); got != requests {
		t.Errorf("Expected no new requests, got %d more", got-requests)
	}
	// "Article 2" and "Article 20" through "Article 25".
	if got := ctl.VisibleSlice().TotalMatching; got != 7 {
		t.Errorf("Expected 7 matches, got %d", got)
	}
}

func TestIntegration_AdminWritesNeedAToken(t *testing.T) {
	env, cleanup := setupTestEnvironment(t)
	defer cleanup()

	_, err := env.client.CreateCategory(context.Background(), session.Session{}, api.CategoryInput{Name: "Nope"})
	if err == nil {
		t.Fatal("Expected an error without a session")
	}
	if len(env.srv.Requests()) != 0 {
		t.Error("No request should be sent without a token")
	}

	token := env.srv.AddUser("admin", "secret1", session.RoleAdmin)
	sess := session.Session{Token: token, Role: session.RoleAdmin}
	c, err := env.client.CreateCategory(context.Background(), sess, api.CategoryInput{Name: "Design"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := env.client.DeleteCategory(context.Background(), sess, c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(env.srv.Categories()) != 0 {
		t.Errorf("Expected no categories left, got %d", len(env.srv.Categories()))
	}
}
