package httpapi

import (
	"net/http"
	"net/url"
	"testing"

	"folio.dev/internal/content"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "plain", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "padded", header: "  Bearer   abc  ", want: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "scheme only", header: "Bearer ", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractBearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProtectedWriteRejectedBeforeHandler(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/project", map[string]any{"title": "sneaky"}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	// The denial must happen before the handler runs: nothing persisted.
	list := c.get("/api/project", nil, nil)
	projects := decode[dataEnvelope[[]content.Project]](t, list)
	if len(projects.Data) != 0 {
		t.Fatalf("write leaked through the gateway: %d projects", len(projects.Data))
	}
}

func TestForgedTokenRejected(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/blog", map[string]any{"title": "x", "content": "y"},
		bearerHeader("eyJhbGciOiJIUzI1NiJ9.forged.sig"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestContactFormIsOpen(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/contact", map[string]any{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "hello there",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("anonymous contact status: %d", resp.StatusCode)
	}
	created := decode[dataEnvelope[content.ContactMessage]](t, resp)
	if created.Data.ID == "" {
		t.Fatal("missing message id")
	}
}

func TestContactValidationRejectsBadEmail(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/contact", map[string]any{
		"name":    "Visitor",
		"email":   "not-an-email",
		"message": "hello",
	}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestChatHistoryRequiresSession(t *testing.T) {
	c := newTestAPI(t)

	resp := c.get("/api/chat-history", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

// TestProfileOwnership runs the ownership round trip: the creator may
// delete their profile, everyone else gets a 403 that changes nothing.
func TestPreflightBypassesAuth(t *testing.T) {
	c := newTestAPI(t)

	req, err := http.NewRequest(http.MethodOptions, c.baseURL+"/api/blog", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("preflight request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status on protected path: %d", resp.StatusCode)
	}
}

func TestProfileOwnership(t *testing.T) {
	c := newTestAPI(t)

	alice := c.signUp("alice@example.com", "password-alice")
	mallory := c.signUp("mallory@example.com", "password-mallory")

	resp := c.post("/api/profile", map[string]any{"fullName": "Alice"}, bearerHeader(alice))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create profile status: %d", resp.StatusCode)
	}
	created := decode[dataEnvelope[content.Profile]](t, resp)
	id := created.Data.ID

	params := url.Values{"id": {id}}

	resp = c.do(http.MethodDelete, "/api/profile?"+params.Encode(), nil, bearerHeader(mallory))
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign delete status: %d", resp.StatusCode)
	}

	resp = c.get("/api/profile", params, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile gone after denied delete: %d", resp.StatusCode)
	}

	resp = c.do(http.MethodDelete, "/api/profile?"+params.Encode(), nil, bearerHeader(alice))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner delete status: %d", resp.StatusCode)
	}

	resp = c.get("/api/profile", params, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestProfileUpdateGuardedByOwner(t *testing.T) {
	c := newTestAPI(t)

	alice := c.signUp("owner@example.com", "password-owner")
	bob := c.signUp("other@example.com", "password-other")

	resp := c.post("/api/profile", map[string]any{"fullName": "Owner"}, bearerHeader(alice))
	created := decode[dataEnvelope[content.Profile]](t, resp)

	patch := map[string]any{"tagline": "taken over"}
	path := "/api/profile?id=" + created.Data.ID

	resp = c.do(http.MethodPut, path, patch, bearerHeader(bob))
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign update status: %d", resp.StatusCode)
	}

	resp = c.do(http.MethodPut, path, patch, bearerHeader(alice))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner update status: %d", resp.StatusCode)
	}
	updated := decode[dataEnvelope[content.Profile]](t, resp)
	if updated.Data.Tagline != "taken over" {
		t.Fatalf("update lost: %q", updated.Data.Tagline)
	}
}

// Anonymous profile listings come back empty; a session scopes the
// listing to the caller's own profiles even though the read is public.
func TestProfileListingScopedToCaller(t *testing.T) {
	c := newTestAPI(t)

	alice := c.signUp("lister@example.com", "password-lister")
	other := c.signUp("neighbor@example.com", "password-neighbor")

	resp := c.post("/api/profile", map[string]any{"fullName": "Lister"}, bearerHeader(alice))
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %d", resp.StatusCode)
	}

	anon := c.get("/api/profile", nil, nil)
	anonList := decode[dataEnvelope[[]content.Profile]](t, anon)
	if len(anonList.Data) != 0 {
		t.Fatalf("anonymous listing not empty: %d", len(anonList.Data))
	}

	mine := c.get("/api/profile", nil, bearerHeader(alice))
	myList := decode[dataEnvelope[[]content.Profile]](t, mine)
	if len(myList.Data) != 1 {
		t.Fatalf("owner listing size: %d", len(myList.Data))
	}

	theirs := c.get("/api/profile", nil, bearerHeader(other))
	theirList := decode[dataEnvelope[[]content.Profile]](t, theirs)
	if len(theirList.Data) != 0 {
		t.Fatalf("neighbor sees foreign profiles: %d", len(theirList.Data))
	}
}

func TestChatHistoryClear(t *testing.T) {
	c := newTestAPI(t)

	alice := c.signUp("clear-a@example.com", "password-clear-a")
	bob := c.signUp("clear-b@example.com", "password-clear-b")

	for _, token := range []string{alice, bob} {
		resp := c.post("/api/chat-history", map[string]any{
			"role":    "user",
			"content": "keep or clear",
		}, bearerHeader(token))
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("append status: %d", resp.StatusCode)
		}
	}

	resp := c.do(http.MethodDelete, "/api/chat-history", nil, bearerHeader(alice))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status: %d", resp.StatusCode)
	}

	cleared := c.get("/api/chat-history", nil, bearerHeader(alice))
	turns := decode[dataEnvelope[[]content.ChatMessage]](t, cleared)
	if len(turns.Data) != 0 {
		t.Fatalf("history survived clear: %d turns", len(turns.Data))
	}

	// Clearing one user's history must not touch anyone else's.
	kept := c.get("/api/chat-history", nil, bearerHeader(bob))
	bobTurns := decode[dataEnvelope[[]content.ChatMessage]](t, kept)
	if len(bobTurns.Data) != 1 {
		t.Fatalf("foreign history affected: %d turns", len(bobTurns.Data))
	}
}

func TestChatHistoryClearRequiresSession(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodDelete, "/api/chat-history", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestChatHistoryIsolatedPerUser(t *testing.T) {
	c := newTestAPI(t)

	alice := c.signUp("chat-a@example.com", "password-chat-a")
	bob := c.signUp("chat-b@example.com", "password-chat-b")

	resp := c.post("/api/chat-history", map[string]any{
		"role":    "user",
		"content": "my secret question",
	}, bearerHeader(alice))
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("append status: %d", resp.StatusCode)
	}

	history := c.get("/api/chat-history", nil, bearerHeader(bob))
	turns := decode[dataEnvelope[[]content.ChatMessage]](t, history)
	if len(turns.Data) != 0 {
		t.Fatalf("history leaked across users: %d turns", len(turns.Data))
	}
}
