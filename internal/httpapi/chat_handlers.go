package httpapi

import (
	"net/http"
)

type chatAppendRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatHistory reads, appends and clears the caller's own conversation
// turns. The gateway guarantees a subject is present for every method.
func (a *API) ChatHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		history, err := a.content.ChatHistory(r.Context(), subject(r))
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, history)

	case http.MethodPost:
		var req chatAppendRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		msg, err := a.content.AppendChatMessage(r.Context(), subject(r), req.Role, req.Content)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, msg)

	case http.MethodDelete:
		if err := a.content.ClearChatHistory(r.Context(), subject(r)); err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, map[string]any{"cleared": true})

	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}
