package httpapi

import (
	"net/http"
	"testing"
	"time"
)

func TestRegisterValidation(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/auth/register", map[string]any{"email": "a@b.c"}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing password status: %d", resp.StatusCode)
	}

	resp = c.post("/api/auth/register", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty body status: %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	c := newTestAPI(t)

	body := map[string]any{"email": "dup@example.com", "password": "secret-pass"}

	resp := c.post("/api/auth/register", body, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status: %d", resp.StatusCode)
	}

	resp = c.post("/api/auth/register", body, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status: %d", resp.StatusCode)
	}
}

func TestRegisterNeverEchoesPassword(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/auth/register", map[string]any{
		"email":    "quiet@example.com",
		"password": "hunter2hunter2",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data envelope: %v", body)
	}
	for key := range data {
		if key == "password" || key == "passwordHash" {
			t.Fatalf("response leaks credential field %q", key)
		}
	}
}

// TestLoginFailureIsUniform checks that a wrong password and an unknown
// account produce the same status and the same error message, so a caller
// cannot probe which addresses have accounts.
func TestLoginFailureIsUniform(t *testing.T) {
	c := newTestAPI(t)
	c.signUp("real@example.com", "right-password")

	wrongPassword := c.post("/api/auth/login", map[string]any{
		"email":    "real@example.com",
		"password": "wrong-password",
	}, nil)
	unknownEmail := c.post("/api/auth/login", map[string]any{
		"email":    "ghost@example.com",
		"password": "whatever-here",
	}, nil)

	if wrongPassword.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password status: %d", wrongPassword.StatusCode)
	}
	if unknownEmail.StatusCode != wrongPassword.StatusCode {
		t.Fatalf("statuses diverge: %d vs %d", unknownEmail.StatusCode, wrongPassword.StatusCode)
	}

	a := decode[map[string]any](t, wrongPassword)
	b := decode[map[string]any](t, unknownEmail)
	if a["error"] != b["error"] {
		t.Fatalf("error messages diverge: %q vs %q", a["error"], b["error"])
	}
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/auth/login", map[string]any{"email": "", "password": ""}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty credentials status: %d", resp.StatusCode)
	}
}

func TestLoginReturnsTokenAndExpiry(t *testing.T) {
	c := newTestAPI(t)
	c.signUp("timed@example.com", "a-real-password")

	resp := c.post("/api/auth/login", map[string]any{
		"email":    "timed@example.com",
		"password": "a-real-password",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: %d", resp.StatusCode)
	}
	payload := decode[dataEnvelope[tokenResponse]](t, resp)
	if payload.Data.Token == "" {
		t.Fatal("empty token")
	}
	if !payload.Data.ExpiresAt.After(time.Now()) {
		t.Fatalf("expiry not in the future: %v", payload.Data.ExpiresAt)
	}
	if payload.Data.User.Email != "timed@example.com" {
		t.Fatalf("unexpected user in response: %q", payload.Data.User.Email)
	}
}

func TestRefreshIssuesNewToken(t *testing.T) {
	c := newTestAPI(t)
	token := c.signUp("renew@example.com", "a-real-password")

	resp := c.post("/api/auth/refresh", nil, bearerHeader(token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status: %d", resp.StatusCode)
	}
	payload := decode[dataEnvelope[tokenResponse]](t, resp)
	if payload.Data.Token == "" {
		t.Fatal("empty refreshed token")
	}

	// The refreshed token must open protected doors too.
	probe := c.post("/api/chat-history", map[string]any{
		"role":    "user",
		"content": "hello",
	}, bearerHeader(payload.Data.Token))
	probe.Body.Close()
	if probe.StatusCode != http.StatusCreated {
		t.Fatalf("refreshed token rejected: %d", probe.StatusCode)
	}
}

func TestRefreshRequiresValidToken(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/auth/refresh", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token status: %d", resp.StatusCode)
	}

	resp = c.post("/api/auth/refresh", nil, bearerHeader("not.a.token"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token status: %d", resp.StatusCode)
	}
}
