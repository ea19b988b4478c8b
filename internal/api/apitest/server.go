// Package apitest runs an in-memory stand-in for the blog API so client,
// syncer and CLI tests can exercise real HTTP round trips.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pders01/journal/internal/storage"
)

type user struct {
	ID       string
	Username string
	Password string
	Role     string
}

// Server is a fake API. Exported fields may be read after requests finish;
// use the methods to change state while it is serving.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	users      map[string]*user
	tokens     map[string]*user
	articles   []storage.Article
	categories []storage.Category
	requests   []*http.Request
	failures   map[string]int
	nextID     int
}

func NewServer() *Server {
	s := &Server{
		users:    map[string]*user{},
		tokens:   map[string]*user{},
		failures: map[string]int{},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.With(s.requireAuth).Get("/profile", s.handleProfile)
	})

	r.Route("/articles", func(r chi.Router) {
		r.Get("/", s.handleListArticles)
		r.Get("/{id}", s.handleGetArticle)
		r.With(s.requireAuth).Post("/", s.handleCreateArticle)
		r.With(s.requireAuth).Put("/{id}", s.handleUpdateArticle)
		r.With(s.requireAuth).Delete("/{id}", s.handleDeleteArticle)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.handleListCategories)
		r.With(s.requireAuth).Post("/", s.handleCreateCategory)
		r.With(s.requireAuth).Put("/{id}", s.handleUpdateCategory)
		r.With(s.requireAuth).Delete("/{id}", s.handleDeleteCategory)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers an account and returns a token already valid for it.
func (s *Server) AddUser(username, password, role string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.addUserLocked(username, password, role)
	token := "token-" + u.ID
	s.tokens[token] = u
	return token
}

func (s *Server) addUserLocked(username, password, role string) *user {
	s.nextID++
	u := &user{ID: fmt.Sprintf("user-%d", s.nextID), Username: username, Password: password, Role: role}
	s.users[username] = u
	return u
}

// Seed replaces the stored collections.
func (s *Server) Seed(categories []storage.Category, articles []storage.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]storage.Category(nil), categories...)
	s.articles = append([]storage.Article(nil), articles...)
}

// SeedNumbered fills the server with n articles "Article 1".."Article n"
// spread round-robin over the given category ids.
func (s *Server) SeedNumbered(n int, categoryIDs ...string) {
	if len(categoryIDs) == 0 {
		categoryIDs = []string{"cat-1"}
	}
	cats := make([]storage.Category, len(categoryIDs))
	for i, id := range categoryIDs {
		cats[i] = storage.Category{ID: id, Name: "Category " + id, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	}
	arts := make([]storage.Article, n)
	for i := range arts {
		cat := cats[i%len(cats)]
		arts[i] = storage.Article{
			ID:         fmt.Sprintf("art-%d", i+1),
			Title:      fmt.Sprintf("Article %d", i+1),
			Content:    fmt.Sprintf("<p>Body of article %d</p>", i+1),
			CategoryID: cat.ID,
			Category:   storage.CategoryRef{ID: cat.ID, Name: cat.Name},
			User:       storage.UserRef{ID: "user-0", Username: "seed"},
			CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		}
	}
	s.Seed(cats, arts)
}

// FailNext makes the next count requests matching "METHOD /path" answer
// with code.
func (s *Server) FailNext(route string, code, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route+"#"+strconv.Itoa(code)] = count
}

func (s *Server) Articles() []storage.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.Article(nil), s.articles...)
}

func (s *Server) Categories() []storage.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.Category(nil), s.categories...)
}

// Requests returns every request seen so far, oldest first.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Clone(r.Context()))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimRight(r.URL.Path, "/")
		s.mu.Lock()
		for key, n := range s.failures {
			parts := strings.SplitN(key, "#", 2)
			if parts[0] != route || n <= 0 {
				continue
			}
			s.failures[key] = n - 1
			s.mu.Unlock()
			code, _ := strconv.Atoi(parts[1])
			writeError(w, code, "injected failure")
			return
		}
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		u, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		r.Header.Set("X-Test-User", u.ID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[body.Username]
	if !ok || u.Password != body.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token := "token-" + u.ID
	s.tokens[token] = u
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "role": u.Role})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[body.Username]; exists {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	u := s.addUserLocked(body.Username, body.Password, body.Role)
	writeJSON(w, http.StatusCreated, map[string]string{"id": u.ID, "username": u.Username, "role": u.Role})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u := s.userByID(r.Header.Get("X-Test-User"))
	writeJSON(w, http.StatusOK, map[string]string{"id": u.ID, "username": u.Username, "role": u.Role})
}

func (s *Server) userByID(id string) *user {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return &user{}
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	title := strings.ToLower(q.Get("title"))
	category := q.Get("category")

	s.mu.Lock()
	var matched []storage.Article
	for _, a := range s.articles {
		if category != "" && a.CategoryRef() != category {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(a.Title), title) {
			continue
		}
		matched = append(matched, a)
	}
	s.mu.Unlock()

	page, limit := paging(q.Get("page"), q.Get("limit"))
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  slicePage(matched, page, limit),
		"total": len(matched),
		"page":  page,
		"limit": limit,
	})
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.articles {
		if a.ID == id {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Article not found")
}

type articleBody struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"categoryId"`
	ImageURL   string `json:"imageUrl"`
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var body articleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	u := s.userByID(r.Header.Get("X-Test-User"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	a := storage.Article{
		ID:         fmt.Sprintf("art-new-%d", s.nextID),
		UserID:     u.ID,
		CategoryID: body.CategoryID,
		Title:      body.Title,
		Content:    body.Content,
		ImageURL:   body.ImageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
		Category:   storage.CategoryRef{ID: body.CategoryID, Name: s.categoryNameLocked(body.CategoryID)},
		User:       storage.UserRef{ID: u.ID, Username: u.Username},
	}
	s.articles = append([]storage.Article{a}, s.articles...)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body articleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].ID != id {
			continue
		}
		a := &s.articles[i]
		a.Title = body.Title
		a.Content = body.Content
		a.CategoryID = body.CategoryID
		a.Category = storage.CategoryRef{ID: body.CategoryID, Name: s.categoryNameLocked(body.CategoryID)}
		a.ImageURL = body.ImageURL
		a.UpdatedAt = time.Now().UTC()
		writeJSON(w, http.StatusOK, a)
		return
	}
	writeError(w, http.StatusNotFound, "Article not found")
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.articles {
		if a.ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Article not found")
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := strings.ToLower(q.Get("search"))

	s.mu.Lock()
	var matched []storage.Category
	for _, c := range s.categories {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		matched = append(matched, c)
	}
	s.mu.Unlock()

	page, limit := paging(q.Get("page"), q.Get("limit"))
	totalPages := 1
	if limit > 0 && len(matched) > 0 {
		totalPages = (len(matched) + limit - 1) / limit
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":        slicePage(matched, page, limit),
		"totalData":   len(matched),
		"currentPage": page,
		"totalPages":  totalPages,
	})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	c := storage.Category{
		ID:        fmt.Sprintf("cat-new-%d", s.nextID),
		UserID:    r.Header.Get("X-Test-User"),
		Name:      body.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.categories = append(s.categories, c)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = body.Name
			s.categories[i].UpdatedAt = time.Now().UTC()
			writeJSON(w, http.StatusOK, s.categories[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Category not found")
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Category not found")
}

func (s *Server) categoryNameLocked(id string) string {
	for _, c := range s.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// paging defaults to page 1 and, like the real API, a limit of 10.
func paging(pageParam, limitParam string) (int, int) {
	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitParam)
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

func slicePage[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
