package httpapi

import (
	"errors"
	"net/http"
	"time"

	"folio.dev/internal/audit"
	"folio.dev/internal/auth"
	"folio.dev/internal/obs"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.verifier.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.user.registered", map[string]any{
		"user_id": user.ID,
	})

	writeData(w, http.StatusCreated, toUserResponse(user))
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.verifier.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			obs.CountLoginAttempt("failure")
		}
		handleDomainError(w, r, err)
		return
	}

	token, expiresAt, err := a.issuer.Issue(user)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	obs.CountLoginAttempt("success")
	_ = audit.LogEvent(r.Context(), "auth.session.issued", map[string]any{
		"user_id":    user.ID,
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeData(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	})
}

// Refresh exchanges a still-valid session token for a fresh one. The
// subject is re-read from the store so renamed accounts get current
// claims rather than a copy of the old ones.
func (a *API) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	raw, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		obs.CountAuthDenial("missing_token")
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	claims, err := a.issuer.ParseAndValidate(raw)
	if err != nil {
		obs.CountAuthDenial("invalid_token")
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := a.users.Find(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			obs.CountAuthDenial("unknown_subject")
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		handleDomainError(w, r, err)
		return
	}

	token, expiresAt, err := a.issuer.Issue(user)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	_ = audit.LogEvent(auth.ContextWithSubject(r.Context(), user.ID), "auth.session.refreshed", map[string]any{
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeData(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	})
}
