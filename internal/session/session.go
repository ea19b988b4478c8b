// Package session carries the authenticated identity that API calls need.
// A Session is passed explicitly to whatever issues a request; nothing reads
// credentials from global state.
package session

import (
	"errors"
	"strings"
	"sync"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// ErrNoToken is a precondition failure: the action needs a login.
var ErrNoToken = errors.New("not logged in")

type Session struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Require returns ErrNoToken unless the session holds a token.
func (s Session) Require() error {
	if strings.TrimSpace(s.Token) == "" {
		return ErrNoToken
	}
	return nil
}

func (s Session) LoggedIn() bool {
	return s.Require() == nil
}

func (s Session) IsAdmin() bool {
	return strings.EqualFold(s.Role, RoleAdmin)
}

// BearerHeader is the Authorization header value, or "" when logged out.
func (s Session) BearerHeader() string {
	if !s.LoggedIn() {
		return ""
	}
	return "Bearer " + s.Token
}

// Store persists a session between runs. Load on an empty store returns
// the zero Session and no error.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// MemoryStore keeps the session in memory only. It is safe for concurrent
// use.
type MemoryStore struct {
	mu sync.RWMutex
	s  Session
}

func (m *MemoryStore) Load() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s, nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Session{}
	return nil
}
