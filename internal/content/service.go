package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"folio.dev/internal/policy"
)

// chatHistoryLimit caps how many conversation turns are returned per user.
const chatHistoryLimit = 25

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service implements the content business rules over a Store. Ownership of
// profiles is enforced here, after the gateway has admitted the request.
type Service struct {
	store Store
	guard policy.Guard
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Posts ----------------------------------------------------------------------

// CreatePostParams are the accepted fields for a new blog post.
type CreatePostParams struct {
	Title      string
	Summary    string
	Content    string
	CoverImage string
	Tags       []string
	Published  bool
}

// PostPatch carries optional updates; nil fields are left unchanged.
type PostPatch struct {
	Title      *string
	Summary    *string
	Content    *string
	CoverImage *string
	Tags       *[]string
	Published  *bool
}

// CreatePost validates input, derives the slug from the title and persists
// the post. A slug collision surfaces as ErrAlreadyExists.
func (s *Service) CreatePost(ctx context.Context, params CreatePostParams) (*Post, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, requiredField("title")
	}
	if strings.TrimSpace(params.Content) == "" {
		return nil, requiredField("content")
	}

	post := &Post{
		Title:      params.Title,
		Slug:       Slugify(params.Title),
		Summary:    params.Summary,
		Content:    params.Content,
		CoverImage: params.CoverImage,
		Tags:       params.Tags,
		Published:  params.Published,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if params.Published {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost applies a partial update. A title change regenerates the slug;
// publishing for the first time stamps PublishedAt.
func (s *Service) UpdatePost(ctx context.Context, id string, patch PostPatch) (*Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, requiredField("id")
	}
	post, err := s.store.Posts().Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, requiredField("title")
		}
		post.Title = *patch.Title
		post.Slug = Slugify(*patch.Title)
	}
	if patch.Summary != nil {
		post.Summary = *patch.Summary
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.CoverImage != nil {
		post.CoverImage = *patch.CoverImage
	}
	if patch.Tags != nil {
		post.Tags = *patch.Tags
	}
	if patch.Published != nil {
		if *patch.Published && !post.Published {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Published = *patch.Published
	}

	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post by id.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return requiredField("id")
	}
	return s.store.Posts().Delete(ctx, id)
}

// GetPost fetches a post by id.
func (s *Service) GetPost(ctx context.Context, id string) (*Post, error) {
	return s.store.Posts().Find(ctx, id)
}

// GetPostBySlug fetches a post by slug.
func (s *Service) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.store.Posts().FindBySlug(ctx, slug)
}

// ListPosts returns posts newest-first, optionally filtered by published flag
// and tag.
func (s *Service) ListPosts(ctx context.Context, filter PostFilter) ([]*Post, error) {
	return s.store.Posts().List(ctx, filter)
}

// Projects -------------------------------------------------------------------

// CreateProjectParams are the accepted fields for a new project.
type CreateProjectParams struct {
	Title        string
	Description  string
	Image        string
	Link         string
	Technologies []string
	CompletedAt  *time.Time
}

// ProjectPatch carries optional updates; nil fields are left unchanged.
type ProjectPatch struct {
	Title        *string
	Description  *string
	Image        *string
	Link         *string
	Technologies *[]string
	CompletedAt  *time.Time
}

// CreateProject validates input and persists the project.
func (s *Service) CreateProject(ctx context.Context, params CreateProjectParams) (*Project, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, requiredField("title")
	}
	project := &Project{
		Title:        params.Title,
		Description:  params.Description,
		Image:        params.Image,
		Link:         params.Link,
		Technologies: params.Technologies,
		CompletedAt:  params.CompletedAt,
	}
	if project.Technologies == nil {
		project.Technologies = []string{}
	}
	if err := s.store.Projects().Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject applies a partial update.
func (s *Service) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, requiredField("id")
	}
	project, err := s.store.Projects().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, requiredField("title")
		}
		project.Title = *patch.Title
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Image != nil {
		project.Image = *patch.Image
	}
	if patch.Link != nil {
		project.Link = *patch.Link
	}
	if patch.Technologies != nil {
		project.Technologies = *patch.Technologies
	}
	if patch.CompletedAt != nil {
		project.CompletedAt = patch.CompletedAt
	}
	if err := s.store.Projects().Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project by id.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return requiredField("id")
	}
	return s.store.Projects().Delete(ctx, id)
}

// GetProject fetches a project by id.
func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.store.Projects().Find(ctx, id)
}

// ListProjects returns all projects newest-first.
func (s *Service) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.store.Projects().List(ctx)
}

// Profiles -------------------------------------------------------------------

// CreateProfileParams are the accepted fields for a new profile.
type CreateProfileParams struct {
	FullName string
	Tagline  string
	Bio      string
	Email    string
	Social   SocialLinks
}

// ProfilePatch carries optional updates; nil fields are left unchanged.
type ProfilePatch struct {
	FullName *string
	Tagline  *string
	Bio      *string
	Email    *string
	Social   *SocialLinks
}

// CreateProfile persists a profile bound to the acting subject.
func (s *Service) CreateProfile(ctx context.Context, ownerID string, params CreateProfileParams) (*Profile, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, requiredField("owner")
	}
	if strings.TrimSpace(params.FullName) == "" {
		return nil, requiredField("fullName")
	}
	profile := &Profile{
		OwnerID:  ownerID,
		FullName: params.FullName,
		Tagline:  params.Tagline,
		Bio:      params.Bio,
		Email:    params.Email,
		Social:   params.Social,
	}
	if err := s.store.Profiles().Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies a partial update after the ownership check. A subject
// that does not own the profile gets policy.ErrForbidden.
func (s *Service) UpdateProfile(ctx context.Context, subjectID, id string, patch ProfilePatch) (*Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, requiredField("id")
	}
	profile, err := s.store.Profiles().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(subjectID, *profile); err != nil {
		return nil, err
	}
	if patch.FullName != nil {
		if strings.TrimSpace(*patch.FullName) == "" {
			return nil, requiredField("fullName")
		}
		profile.FullName = *patch.FullName
	}
	if patch.Tagline != nil {
		profile.Tagline = *patch.Tagline
	}
	if patch.Bio != nil {
		profile.Bio = *patch.Bio
	}
	if patch.Email != nil {
		profile.Email = *patch.Email
	}
	if patch.Social != nil {
		profile.Social = *patch.Social
	}
	if err := s.store.Profiles().Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a profile after the ownership check.
func (s *Service) DeleteProfile(ctx context.Context, subjectID, id string) error {
	if strings.TrimSpace(id) == "" {
		return requiredField("id")
	}
	profile, err := s.store.Profiles().Find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(subjectID, *profile); err != nil {
		return err
	}
	return s.store.Profiles().Delete(ctx, id)
}

// GetProfile fetches a profile by id. Reads are never ownership-scoped.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.store.Profiles().Find(ctx, id)
}

// ListProfiles returns the profiles owned by the acting subject, newest-first.
// An empty subject yields an empty list rather than an error, matching the
// public listing endpoint.
func (s *Service) ListProfiles(ctx context.Context, ownerID string) ([]*Profile, error) {
	if ownerID == "" {
		return []*Profile{}, nil
	}
	return s.store.Profiles().ListByOwner(ctx, ownerID)
}

// Contact messages -----------------------------------------------------------

// SubmitMessage validates and stores a public contact-form submission.
func (s *Service) SubmitMessage(ctx context.Context, name, email, message string) (*ContactMessage, error) {
	if strings.TrimSpace(name) == "" {
		return nil, requiredField("name")
	}
	if strings.TrimSpace(email) == "" {
		return nil, requiredField("email")
	}
	if strings.TrimSpace(message) == "" {
		return nil, requiredField("message")
	}
	if !emailPattern.MatchString(email) {
		return nil, &ValidationError{Field: "email", Msg: "is not a valid address"}
	}
	msg := &ContactMessage{Name: name, Email: email, Message: message}
	if err := s.store.Messages().Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	return msg, nil
}

// GetMessage fetches a contact message by id.
func (s *Service) GetMessage(ctx context.Context, id string) (*ContactMessage, error) {
	return s.store.Messages().Find(ctx, id)
}

// ListMessages returns all contact messages newest-first.
func (s *Service) ListMessages(ctx context.Context) ([]*ContactMessage, error) {
	return s.store.Messages().List(ctx)
}

// DeleteMessage removes a contact message by id.
func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return requiredField("id")
	}
	return s.store.Messages().Delete(ctx, id)
}

// Chat history ---------------------------------------------------------------

// AppendChatMessage stores one conversation turn for the subject.
func (s *Service) AppendChatMessage(ctx context.Context, userID, role, msgContent string) (*ChatMessage, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, requiredField("user")
	}
	if strings.TrimSpace(role) == "" {
		return nil, requiredField("role")
	}
	if strings.TrimSpace(msgContent) == "" {
		return nil, requiredField("content")
	}
	msg := &ChatMessage{UserID: userID, Role: role, Content: msgContent}
	if err := s.store.Chat().Append(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ChatHistory returns the subject's most recent turns, oldest first.
func (s *Service) ChatHistory(ctx context.Context, userID string) ([]*ChatMessage, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, requiredField("user")
	}
	history, err := s.store.Chat().Recent(ctx, userID, chatHistoryLimit)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []*ChatMessage{}
	}
	return history, nil
}

// ClearChatHistory removes every stored turn for the subject.
func (s *Service) ClearChatHistory(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return requiredField("user")
	}
	return s.store.Chat().Clear(ctx, userID)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
