package httpapi

import (
	"net/http"

	"folio.dev/internal/content"
)

type profileRequest struct {
	FullName *string              `json:"fullName"`
	Tagline  *string              `json:"tagline"`
	Bio      *string              `json:"bio"`
	Email    *string              `json:"email"`
	Social   *content.SocialLinks `json:"social"`
}

func (a *API) Profiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getProfiles(w, r)
	case http.MethodPost:
		a.createProfile(w, r)
	case http.MethodPut:
		a.updateProfile(w, r)
	case http.MethodDelete:
		a.deleteProfile(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

// getProfiles serves single lookups by id publicly. The unfiltered listing
// is scoped to the caller: anonymous requests get an empty list.
func (a *API) getProfiles(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		profile, err := a.content.GetProfile(r.Context(), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, profile)
		return
	}

	profiles, err := a.content.ListProfiles(r.Context(), subject(r))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, profiles)
}

func (a *API) createProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	params := content.CreateProfileParams{}
	if req.FullName != nil {
		params.FullName = *req.FullName
	}
	if req.Tagline != nil {
		params.Tagline = *req.Tagline
	}
	if req.Bio != nil {
		params.Bio = *req.Bio
	}
	if req.Email != nil {
		params.Email = *req.Email
	}
	if req.Social != nil {
		params.Social = *req.Social
	}

	profile, err := a.content.CreateProfile(r.Context(), subject(r), params)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, profile)
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := a.content.UpdateProfile(r.Context(), subject(r), id, content.ProfilePatch{
		FullName: req.FullName,
		Tagline:  req.Tagline,
		Bio:      req.Bio,
		Email:    req.Email,
		Social:   req.Social,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, profile)
}

func (a *API) deleteProfile(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	if err := a.content.DeleteProfile(r.Context(), subject(r), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": id})
}
