package content

import "context"

// PostFilter narrows post listings. A nil Published means "any".
type PostFilter struct {
	Published *bool
	Tag       string
}

// PostStore persists blog posts.
type PostStore interface {
	Create(ctx context.Context, p *Post) error
	Find(ctx context.Context, id string) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, filter PostFilter) ([]*Post, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
}

// ProjectStore persists projects.
type ProjectStore interface {
	Create(ctx context.Context, p *Project) error
	Find(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

// ProfileStore persists profiles.
type ProfileStore interface {
	Create(ctx context.Context, p *Profile) error
	Find(ctx context.Context, id string) (*Profile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id string) error
}

// MessageStore persists contact-form messages.
type MessageStore interface {
	Create(ctx context.Context, m *ContactMessage) error
	Find(ctx context.Context, id string) (*ContactMessage, error)
	List(ctx context.Context) ([]*ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

// ChatStore persists chatbot conversation history.
type ChatStore interface {
	Append(ctx context.Context, m *ChatMessage) error
	Recent(ctx context.Context, userID string, limit int) ([]*ChatMessage, error)
	Clear(ctx context.Context, userID string) error
}

// Store bundles the persistence surface consumed by the content service.
type Store interface {
	Posts() PostStore
	Projects() ProjectStore
	Profiles() ProfileStore
	Messages() MessageStore
	Chat() ChatStore
}
