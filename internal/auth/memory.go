package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"folio.dev/internal/ids"
)

// InMemoryStore implements UserStore with in-process concurrency safety. It
// backs tests and DSN-less development runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*User
	byEmail map[string]string
}

var _ UserStore = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty user store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, u *User) error {
	email := strings.TrimSpace(strings.ToLower(u.Email))
	if email == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return ErrAlreadyExists
	}
	if u.ID == "" {
		u.ID = ids.New()
	}
	now := time.Now().UTC()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	stored := *u
	s.users[u.ID] = &stored
	s.byEmail[email] = u.ID
	return nil
}

func (s *InMemoryStore) Find(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemoryStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s.users[id]
	return &out, nil
}
