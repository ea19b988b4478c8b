package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/journal/internal/session"
	bolt "go.etcd.io/bbolt"
)

var (
	articlesBucket   = []byte("articles")
	categoriesBucket = []byte("categories")
	sessionBucket    = []byte("session")
	metaBucket       = []byte("metadata")

	sessionKey = []byte("current")
	syncKey    = []byte("sync")
)

// ErrNotFound is returned when a single record lookup misses.
var ErrNotFound = errors.New("not found")

// Store is the local bbolt cache: the last article and category snapshots
// fetched from the API, the persisted session, and sync metadata.
type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithTimeout(dbPath, time.Second)
}

func NewStoreWithTimeout(dbPath string, timeout time.Duration) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{articlesBucket, categoriesBucket, sessionBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveArticles replaces the article snapshot. Arrival order is kept through
// zero-padded sequence keys.
func (s *Store) SaveArticles(articles []*Article) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := replaceSnapshot(tx, articlesBucket, len(articles), func(i int) any { return articles[i] }); err != nil {
			return fmt.Errorf("saving articles: %w", err)
		}
		return touchMeta(tx, func(m *SyncMetadata) {
			m.ArticlesSynced = time.Now()
			m.ArticleCount = len(articles)
		})
	})
}

// GetArticles returns the cached snapshot in arrival order. limit <= 0
// means everything.
func (s *Store) GetArticles(limit int) ([]*Article, error) {
	var articles []*Article
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).ForEach(func(_ []byte, v []byte) error {
			if limit > 0 && len(articles) >= limit {
				return nil
			}
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				// Skip entries written by an older layout.
				return nil
			}
			articles = append(articles, &article)
			return nil
		})
	})
	return articles, err
}

func (s *Store) GetArticle(id string) (*Article, error) {
	var found *Article
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).ForEach(func(_ []byte, v []byte) error {
			if found != nil {
				return nil
			}
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				return nil
			}
			if article.ID == id {
				found = &article
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return found, nil
}

// DeleteArticle drops one article from the snapshot, keeping the order of
// the rest.
func (s *Store) DeleteArticle(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return deleteWhere(tx.Bucket(articlesBucket), func(v []byte) bool {
			var article Article
			return json.Unmarshal(v, &article) == nil && article.ID == id
		})
	})
}

func (s *Store) SaveCategories(categories []*Category) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := replaceSnapshot(tx, categoriesBucket, len(categories), func(i int) any { return categories[i] }); err != nil {
			return fmt.Errorf("saving categories: %w", err)
		}
		return touchMeta(tx, func(m *SyncMetadata) {
			m.CategoriesSynced = time.Now()
			m.CategoryCount = len(categories)
		})
	})
}

func (s *Store) GetCategories() ([]*Category, error) {
	var categories []*Category
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(categoriesBucket).ForEach(func(_ []byte, v []byte) error {
			var category Category
			if err := json.Unmarshal(v, &category); err != nil {
				return nil
			}
			categories = append(categories, &category)
			return nil
		})
	})
	return categories, err
}

func (s *Store) DeleteCategory(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return deleteWhere(tx.Bucket(categoriesBucket), func(v []byte) bool {
			var category Category
			return json.Unmarshal(v, &category) == nil && category.ID == id
		})
	})
}

// SyncMetadata returns the zero value before the first sync.
func (s *Store) SyncMetadata() (SyncMetadata, error) {
	var meta SyncMetadata
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get(syncKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &meta)
	})
	return meta, err
}

// Sessions exposes the persisted session as a session.Store.
func (s *Store) Sessions() session.Store {
	return sessionStore{db: s.db}
}

type sessionStore struct {
	db *bolt.DB
}

func (ss sessionStore) Load() (session.Session, error) {
	var sess session.Session
	err := ss.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionBucket).Get(sessionKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &sess)
	})
	if err != nil {
		return session.Session{}, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

func (ss sessionStore) Save(sess session.Session) error {
	return ss.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		return tx.Bucket(sessionBucket).Put(sessionKey, data)
	})
}

func (ss sessionStore) Clear() error {
	return ss.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(sessionKey)
	})
}

func replaceSnapshot(tx *bolt.Tx, name []byte, n int, at func(int) any) error {
	if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
		return err
	}
	b, err := tx.CreateBucket(name)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		data, err := json.Marshal(at(i))
		if err != nil {
			return err
		}
		if err := b.Put(seqKey(i), data); err != nil {
			return err
		}
	}
	return nil
}

func deleteWhere(b *bolt.Bucket, match func([]byte) bool) error {
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if match(v) {
			return c.Delete()
		}
	}
	return fmt.Errorf("deleting: %w", ErrNotFound)
}

func touchMeta(tx *bolt.Tx, update func(*SyncMetadata)) error {
	b := tx.Bucket(metaBucket)
	var meta SyncMetadata
	if data := b.Get(syncKey); data != nil {
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
	}
	update(&meta)
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return b.Put(syncKey, data)
}

func seqKey(i int) []byte {
	return []byte(fmt.Sprintf("%08d", i))
}
