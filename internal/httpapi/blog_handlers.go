package httpapi

import (
	"net/http"

	"folio.dev/internal/content"
)

type postRequest struct {
	Title      *string   `json:"title"`
	Summary    *string   `json:"summary"`
	Content    *string   `json:"content"`
	CoverImage *string   `json:"coverImage"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}

func (a *API) Blog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getPosts(w, r)
	case http.MethodPost:
		a.createPost(w, r)
	case http.MethodPut:
		a.updatePost(w, r)
	case http.MethodDelete:
		a.deletePost(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) getPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if id := q.Get("id"); id != "" {
		post, err := a.content.GetPost(r.Context(), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, post)
		return
	}
	if slug := q.Get("slug"); slug != "" {
		post, err := a.content.GetPostBySlug(r.Context(), slug)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, post)
		return
	}

	filter := content.PostFilter{Tag: q.Get("tag")}
	switch q.Get("published") {
	case "true":
		t := true
		filter.Published = &t
	case "false":
		f := false
		filter.Published = &f
	}

	posts, err := a.content.ListPosts(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, posts)
}

func (a *API) createPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	params := content.CreatePostParams{}
	if req.Title != nil {
		params.Title = *req.Title
	}
	if req.Summary != nil {
		params.Summary = *req.Summary
	}
	if req.Content != nil {
		params.Content = *req.Content
	}
	if req.CoverImage != nil {
		params.CoverImage = *req.CoverImage
	}
	if req.Tags != nil {
		params.Tags = *req.Tags
	}
	if req.Published != nil {
		params.Published = *req.Published
	}

	post, err := a.content.CreatePost(r.Context(), params)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, post)
}

func (a *API) updatePost(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.content.UpdatePost(r.Context(), id, content.PostPatch{
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Published:  req.Published,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, post)
}

func (a *API) deletePost(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	if err := a.content.DeletePost(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": id})
}
