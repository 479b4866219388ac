// Package content holds the portfolio domain: blog posts, projects, profiles,
// contact messages and chat history.
package content

import "time"

// Post is a blog entry. Posts are protected for mutation but not
// ownership-scoped: any authenticated identity may manage them.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Project is a portfolio project entry.
type Project struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Image        string     `json:"image,omitempty"`
	Link         string     `json:"link,omitempty"`
	Technologies []string   `json:"technologies"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// SocialLinks carries a profile's external accounts.
type SocialLinks struct {
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

// Profile is an owned resource: only the identity that created it may update
// or delete it.
type Profile struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"userId"`
	FullName  string      `json:"fullName"`
	Tagline   string      `json:"tagline,omitempty"`
	Bio       string      `json:"bio,omitempty"`
	Email     string      `json:"email,omitempty"`
	Social    SocialLinks `json:"social"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ResourceOwner reports the identity the profile belongs to.
func (p Profile) ResourceOwner() string { return p.OwnerID }

// ContactMessage is submitted through the public contact form.
type ContactMessage struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// ChatMessage is one turn of a user's chatbot conversation history.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
