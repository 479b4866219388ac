package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"folio.dev/internal/policy"
)

func newTestService() *Service {
	return NewService(NewInMemory())
}

func TestCreatePostGeneratesSlug(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostParams{Title: "Hello World!", Content: "body"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Fatalf("unexpected slug: %s", post.Slug)
	}
	if post.Published || post.PublishedAt != nil {
		t.Fatalf("new post should be unpublished: %+v", post)
	}

	found, err := svc.GetPostBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if found.ID != post.ID {
		t.Fatalf("unexpected post: %+v", found)
	}
}

func TestCreatePostSlugConflict(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, CreatePostParams{Title: "Same Title", Content: "a"}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	_, err := svc.CreatePost(ctx, CreatePostParams{Title: "Same! Title?", Content: "b"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreatePostValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, CreatePostParams{Content: "body"}); !IsValidation(err) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
	if _, err := svc.CreatePost(ctx, CreatePostParams{Title: "t"}); !IsValidation(err) {
		t.Fatalf("expected validation error for missing content, got %v", err)
	}
}

func TestUpdatePostStampsFirstPublish(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostParams{Title: "Draft", Content: "body"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	published := true
	updated, err := svc.UpdatePost(ctx, post.ID, PostPatch{Published: &published})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if !updated.Published || updated.PublishedAt == nil {
		t.Fatalf("expected published with timestamp: %+v", updated)
	}
	firstPublish := *updated.PublishedAt

	// Publishing again must not move the original timestamp.
	again, err := svc.UpdatePost(ctx, post.ID, PostPatch{Published: &published})
	if err != nil {
		t.Fatalf("UpdatePost second publish: %v", err)
	}
	if !again.PublishedAt.Equal(firstPublish) {
		t.Fatalf("publish timestamp moved: %v vs %v", again.PublishedAt, firstPublish)
	}
}

func TestUpdatePostRegeneratesSlug(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostParams{Title: "Old Title", Content: "body"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	title := "New Title"
	updated, err := svc.UpdatePost(ctx, post.ID, PostPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Slug != "new-title" {
		t.Fatalf("slug not regenerated: %s", updated.Slug)
	}
	if _, err := svc.GetPostBySlug(ctx, "old-title"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old slug should be released, got %v", err)
	}
}

func TestListPostsFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, CreatePostParams{Title: "One", Content: "a", Tags: []string{"go"}, Published: true}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := svc.CreatePost(ctx, CreatePostParams{Title: "Two", Content: "b", Tags: []string{"web"}}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	published := true
	posts, err := svc.ListPosts(ctx, PostFilter{Published: &published})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "One" {
		t.Fatalf("unexpected published filter result: %+v", posts)
	}

	posts, err = svc.ListPosts(ctx, PostFilter{Tag: "web"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Two" {
		t.Fatalf("unexpected tag filter result: %+v", posts)
	}
}

func TestProfileOwnership(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	profile, err := svc.CreateProfile(ctx, "user-a", CreateProfileParams{FullName: "Ada Lovelace"})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	tagline := "polymath"
	if _, err := svc.UpdateProfile(ctx, "user-b", profile.ID, ProfilePatch{Tagline: &tagline}); !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner update, got %v", err)
	}
	if err := svc.DeleteProfile(ctx, "user-b", profile.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner delete, got %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, "user-a", profile.ID, ProfilePatch{Tagline: &tagline})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Tagline != "polymath" {
		t.Fatalf("tagline not applied: %+v", updated)
	}

	if err := svc.DeleteProfile(ctx, "user-a", profile.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.GetProfile(ctx, profile.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListProfilesScopedToOwner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateProfile(ctx, "user-a", CreateProfileParams{FullName: "A"}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if _, err := svc.CreateProfile(ctx, "user-b", CreateProfileParams{FullName: "B"}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	profiles, err := svc.ListProfiles(ctx, "user-a")
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].FullName != "A" {
		t.Fatalf("unexpected scoped listing: %+v", profiles)
	}

	anonymous, err := svc.ListProfiles(ctx, "")
	if err != nil {
		t.Fatalf("ListProfiles anonymous: %v", err)
	}
	if len(anonymous) != 0 {
		t.Fatalf("anonymous listing should be empty, got %+v", anonymous)
	}
}

func TestSubmitMessageValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.SubmitMessage(ctx, "", "a@x.com", "hi"); !IsValidation(err) {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
	if _, err := svc.SubmitMessage(ctx, "Ada", "not-an-email", "hi"); !IsValidation(err) {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}

	msg, err := svc.SubmitMessage(ctx, "Ada", "a@x.com", "hello there")
	if err != nil {
		t.Fatalf("SubmitMessage: %v", err)
	}
	if msg.ReceivedAt.IsZero() {
		t.Fatal("expected received timestamp")
	}
}

func TestChatHistoryLimitAndOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if _, err := svc.AppendChatMessage(ctx, "user-a", "user", fmt.Sprintf("turn %02d", i)); err != nil {
			t.Fatalf("AppendChatMessage: %v", err)
		}
	}

	history, err := svc.ChatHistory(ctx, "user-a")
	if err != nil {
		t.Fatalf("ChatHistory: %v", err)
	}
	if len(history) != chatHistoryLimit {
		t.Fatalf("expected %d turns, got %d", chatHistoryLimit, len(history))
	}
	if history[0].Content != "turn 05" {
		t.Fatalf("expected oldest retained turn first, got %s", history[0].Content)
	}
	if history[len(history)-1].Content != "turn 29" {
		t.Fatalf("expected newest turn last, got %s", history[len(history)-1].Content)
	}

	other, err := svc.ChatHistory(ctx, "user-b")
	if err != nil {
		t.Fatalf("ChatHistory other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("history leaked across users: %+v", other)
	}
}

func TestClearChatHistory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, user := range []string{"user-a", "user-b"} {
		if _, err := svc.AppendChatMessage(ctx, user, "user", "hello"); err != nil {
			t.Fatalf("AppendChatMessage: %v", err)
		}
	}

	if err := svc.ClearChatHistory(ctx, "user-a"); err != nil {
		t.Fatalf("ClearChatHistory: %v", err)
	}

	history, err := svc.ChatHistory(ctx, "user-a")
	if err != nil {
		t.Fatalf("ChatHistory: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(history))
	}

	other, err := svc.ChatHistory(ctx, "user-b")
	if err != nil {
		t.Fatalf("ChatHistory other user: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("clear crossed users: %d turns", len(other))
	}

	// Clearing again is a no-op, not an error.
	if err := svc.ClearChatHistory(ctx, "user-a"); err != nil {
		t.Fatalf("ClearChatHistory repeat: %v", err)
	}

	if err := svc.ClearChatHistory(ctx, ""); !IsValidation(err) {
		t.Fatalf("expected validation error for empty user, got %v", err)
	}
}
