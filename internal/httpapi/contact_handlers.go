package httpapi

import (
	"net/http"

	"folio.dev/internal/audit"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact accepts public form submissions. Reads and deletes exist for
// an operator script; the policy table keeps the whole prefix open, so
// the handlers stay free of session assumptions.
func (a *API) Contact(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.submitMessage(w, r)
	case http.MethodGet:
		a.getMessages(w, r)
	case http.MethodDelete:
		a.deleteMessage(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (a *API) submitMessage(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := a.content.SubmitMessage(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "contact.message.received", map[string]any{
		"message_id": msg.ID,
	})

	writeData(w, http.StatusCreated, msg)
}

func (a *API) getMessages(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		msg, err := a.content.GetMessage(r.Context(), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, msg)
		return
	}

	msgs, err := a.content.ListMessages(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, msgs)
}

func (a *API) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	if err := a.content.DeleteMessage(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": id})
}
