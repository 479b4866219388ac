package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"folio.dev/internal/ids"
)

// InMemory implements Store with in-process concurrency safety. It backs
// tests and DSN-less development runs.
type InMemory struct {
	mu         sync.RWMutex
	posts      map[string]*Post
	postBySlug map[string]string
	projects   map[string]*Project
	profiles   map[string]*Profile
	messages   map[string]*ContactMessage
	chat       map[string][]*ChatMessage
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty content store.
func NewInMemory() *InMemory {
	return &InMemory{
		posts:      make(map[string]*Post),
		postBySlug: make(map[string]string),
		projects:   make(map[string]*Project),
		profiles:   make(map[string]*Profile),
		messages:   make(map[string]*ContactMessage),
		chat:       make(map[string][]*ChatMessage),
	}
}

func (s *InMemory) Posts() PostStore       { return memPosts{s} }
func (s *InMemory) Projects() ProjectStore { return memProjects{s} }
func (s *InMemory) Profiles() ProfileStore { return memProfiles{s} }
func (s *InMemory) Messages() MessageStore { return memMessages{s} }
func (s *InMemory) Chat() ChatStore        { return memChat{s} }

// Posts ---------------------------------------------------------------------

type memPosts struct{ s *InMemory }

func (m memPosts) Create(ctx context.Context, p *Post) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, taken := m.s.postBySlug[p.Slug]; taken {
		return ErrAlreadyExists
	}
	if p.ID == "" {
		p.ID = ids.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := clonePost(p)
	m.s.posts[p.ID] = stored
	m.s.postBySlug[p.Slug] = p.ID
	return nil
}

func (m memPosts) Find(ctx context.Context, id string) (*Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	p, ok := m.s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePost(p), nil
}

func (m memPosts) FindBySlug(ctx context.Context, slug string) (*Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	id, ok := m.s.postBySlug[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePost(m.s.posts[id]), nil
}

func (m memPosts) List(ctx context.Context, filter PostFilter) ([]*Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*Post, 0, len(m.s.posts))
	for _, p := range m.s.posts {
		if filter.Published != nil && p.Published != *filter.Published {
			continue
		}
		if filter.Tag != "" && !containsTag(p.Tags, filter.Tag) {
			continue
		}
		out = append(out, clonePost(p))
	}
	sortNewestFirst(out, func(p *Post) time.Time { return p.CreatedAt })
	return out, nil
}

func (m memPosts) Update(ctx context.Context, p *Post) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.posts[p.ID]
	if !ok {
		return ErrNotFound
	}
	if other, taken := m.s.postBySlug[p.Slug]; taken && other != p.ID {
		return ErrAlreadyExists
	}
	delete(m.s.postBySlug, existing.Slug)
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	m.s.posts[p.ID] = clonePost(p)
	m.s.postBySlug[p.Slug] = p.ID
	return nil
}

func (m memPosts) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.posts[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.s.postBySlug, p.Slug)
	delete(m.s.posts, id)
	return nil
}

// Projects ------------------------------------------------------------------

type memProjects struct{ s *InMemory }

func (m memProjects) Create(ctx context.Context, p *Project) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p.ID == "" {
		p.ID = ids.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.s.projects[p.ID] = cloneProject(p)
	return nil
}

func (m memProjects) Find(ctx context.Context, id string) (*Project, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	p, ok := m.s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProject(p), nil
}

func (m memProjects) List(ctx context.Context) ([]*Project, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*Project, 0, len(m.s.projects))
	for _, p := range m.s.projects {
		out = append(out, cloneProject(p))
	}
	sortNewestFirst(out, func(p *Project) time.Time { return p.CreatedAt })
	return out, nil
}

func (m memProjects) Update(ctx context.Context, p *Project) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.projects[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	m.s.projects[p.ID] = cloneProject(p)
	return nil
}

func (m memProjects) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.projects, id)
	return nil
}

// Profiles ------------------------------------------------------------------

type memProfiles struct{ s *InMemory }

func (m memProfiles) Create(ctx context.Context, p *Profile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p.ID == "" {
		p.ID = ids.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := *p
	m.s.profiles[p.ID] = &stored
	return nil
}

func (m memProfiles) Find(ctx context.Context, id string) (*Profile, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	p, ok := m.s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m memProfiles) ListByOwner(ctx context.Context, ownerID string) ([]*Profile, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []*Profile
	for _, p := range m.s.profiles {
		if p.OwnerID != ownerID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sortNewestFirst(out, func(p *Profile) time.Time { return p.CreatedAt })
	return out, nil
}

func (m memProfiles) Update(ctx context.Context, p *Profile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.profiles[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.OwnerID = existing.OwnerID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	stored := *p
	m.s.profiles[p.ID] = &stored
	return nil
}

func (m memProfiles) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.profiles, id)
	return nil
}

// Contact messages ----------------------------------------------------------

type memMessages struct{ s *InMemory }

func (m memMessages) Create(ctx context.Context, msg *ContactMessage) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if msg.ID == "" {
		msg.ID = ids.New()
	}
	msg.ReceivedAt = time.Now().UTC()
	stored := *msg
	m.s.messages[msg.ID] = &stored
	return nil
}

func (m memMessages) Find(ctx context.Context, id string) (*ContactMessage, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	msg, ok := m.s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *msg
	return &out, nil
}

func (m memMessages) List(ctx context.Context) ([]*ContactMessage, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*ContactMessage, 0, len(m.s.messages))
	for _, msg := range m.s.messages {
		cp := *msg
		out = append(out, &cp)
	}
	sortNewestFirst(out, func(msg *ContactMessage) time.Time { return msg.ReceivedAt })
	return out, nil
}

func (m memMessages) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.messages[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.messages, id)
	return nil
}

// Chat history --------------------------------------------------------------

type memChat struct{ s *InMemory }

func (m memChat) Append(ctx context.Context, msg *ChatMessage) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if msg.ID == "" {
		msg.ID = ids.New()
	}
	msg.CreatedAt = time.Now().UTC()
	stored := *msg
	m.s.chat[msg.UserID] = append(m.s.chat[msg.UserID], &stored)
	return nil
}

func (m memChat) Recent(ctx context.Context, userID string, limit int) ([]*ChatMessage, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	history := m.s.chat[userID]
	start := 0
	if limit > 0 && len(history) > limit {
		start = len(history) - limit
	}
	out := make([]*ChatMessage, 0, len(history)-start)
	for _, msg := range history[start:] {
		cp := *msg
		out = append(out, &cp)
	}
	return out, nil
}

func (m memChat) Clear(ctx context.Context, userID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.chat, userID)
	return nil
}

// helpers -------------------------------------------------------------------

func clonePost(p *Post) *Post {
	out := *p
	out.Tags = append([]string(nil), p.Tags...)
	return &out
}

func cloneProject(p *Project) *Project {
	out := *p
	out.Technologies = append([]string(nil), p.Technologies...)
	return &out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func sortNewestFirst[T any](items []*T, createdAt func(*T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
