package storage

import (
	"time"
)

// CategoryRef is the category summary embedded in an article.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserRef is the author summary embedded in an article.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Article struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId,omitempty"`
	CategoryID string      `json:"categoryId,omitempty"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	Category   CategoryRef `json:"category"`
	User       UserRef     `json:"user"`
}

func (a Article) RecordID() string   { return a.ID }
func (a Article) SearchText() string { return a.Title }

// CategoryRef prefers the flat categoryId and falls back to the embedded
// category, since list endpoints only fill one of them.
func (a Article) CategoryRef() string {
	if a.CategoryID != "" {
		return a.CategoryID
	}
	return a.Category.ID
}

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Category) RecordID() string    { return c.ID }
func (c Category) SearchText() string  { return c.Name }
func (c Category) CategoryRef() string { return "" }

// SyncMetadata records when the local snapshots were last refreshed.
type SyncMetadata struct {
	ArticlesSynced   time.Time `json:"articles_synced"`
	CategoriesSynced time.Time `json:"categories_synced"`
	ArticleCount     int       `json:"article_count"`
	CategoryCount    int       `json:"category_count"`
}
