// Command smoke exercises a running folio-api instance end to end:
// registration, login, public reads and a protected write.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func main() {
	base := os.Getenv("FOLIO_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 10 * time.Second}
	email := fmt.Sprintf("smoke-%d@example.com", rand.New(rand.NewSource(time.Now().UnixNano())).Int())
	password := "smoke-test-password"

	status, _ := call(client, http.MethodPost, base+"/api/auth/register", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	if status != http.StatusCreated {
		log.Fatalf("register: status %d", status)
	}

	status, body := call(client, http.MethodPost, base+"/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	if status != http.StatusOK {
		log.Fatalf("login: status %d", status)
	}
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &login); err != nil || login.Data.Token == "" {
		log.Fatalf("login: no token in response: %s", body)
	}
	token := login.Data.Token

	status, _ = call(client, http.MethodGet, base+"/api/blog", nil, "")
	if status != http.StatusOK {
		log.Fatalf("public blog read: status %d", status)
	}

	post := map[string]any{
		"title":   fmt.Sprintf("smoke %s", email),
		"content": "written by the smoke test",
	}
	status, _ = call(client, http.MethodPost, base+"/api/blog", post, "")
	if status != http.StatusUnauthorized {
		log.Fatalf("anonymous write: expected 401, got %d", status)
	}
	status, _ = call(client, http.MethodPost, base+"/api/blog", post, token)
	if status != http.StatusCreated {
		log.Fatalf("authenticated write: status %d", status)
	}

	status, body = call(client, http.MethodPost, base+"/api/profile", map[string]any{
		"fullName": "Smoke Tester",
	}, token)
	if status != http.StatusCreated {
		log.Fatalf("create profile: status %d", status)
	}
	var profile struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &profile); err != nil || profile.Data.ID == "" {
		log.Fatalf("create profile: no id in response: %s", body)
	}

	status, _ = call(client, http.MethodDelete, base+"/api/profile?id="+profile.Data.ID, nil, token)
	if status != http.StatusOK {
		log.Fatalf("delete own profile: status %d", status)
	}

	fmt.Println("✅ folio-api smoke test passed")
}

func call(client *http.Client, method, url string, payload any, token string) (int, []byte) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		log.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.Bytes()
}
