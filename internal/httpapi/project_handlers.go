package httpapi

import (
	"net/http"
	"time"

	"folio.dev/internal/content"
)

type projectRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Image        *string    `json:"image"`
	Link         *string    `json:"link"`
	Technologies *[]string  `json:"technologies"`
	CompletedAt  *time.Time `json:"completedAt"`
}

func (a *API) Projects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getProjects(w, r)
	case http.MethodPost:
		a.createProject(w, r)
	case http.MethodPut:
		a.updateProject(w, r)
	case http.MethodDelete:
		a.deleteProject(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) getProjects(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		project, err := a.content.GetProject(r.Context(), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, project)
		return
	}

	projects, err := a.content.ListProjects(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, projects)
}

func (a *API) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	params := content.CreateProjectParams{CompletedAt: req.CompletedAt}
	if req.Title != nil {
		params.Title = *req.Title
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Image != nil {
		params.Image = *req.Image
	}
	if req.Link != nil {
		params.Link = *req.Link
	}
	if req.Technologies != nil {
		params.Technologies = *req.Technologies
	}

	project, err := a.content.CreateProject(r.Context(), params)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, project)
}

func (a *API) updateProject(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	project, err := a.content.UpdateProject(r.Context(), id, content.ProjectPatch{
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Link:         req.Link,
		Technologies: req.Technologies,
		CompletedAt:  req.CompletedAt,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, project)
}

func (a *API) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	if err := a.content.DeleteProject(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": id})
}
