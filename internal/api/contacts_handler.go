package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/contact"
)

// contactsHandler groups contact message handlers. Submission is public; the
// handling workflow is staff-side.
type contactsHandler struct {
	contacts *contact.Store
}

func newContactsHandler(store *contact.Store) *contactsHandler {
	return &contactsHandler{contacts: store}
}

// SubmitMessage handles POST /api/contact, the public contact form.
func (h *contactsHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req contact.CreateInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "name, email and message are required")
		return
	}

	m, err := h.contacts.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to submit message")
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{
		"message": "Thank you for reaching out, we will get back to you soon",
		"id":      m.ID,
	})
}

// ListMessages handles GET /api/contact.
func (h *contactsHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	params := contact.ListParams{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("search"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if params.Status != "" && !contact.ValidStatus(params.Status) {
		writeError(w, http.StatusBadRequest, "status must be new, read, replied or archived")
		return
	}

	messages, total, err := h.contacts.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if messages == nil {
		messages = []*contact.Message{}
	}

	newCount, err := h.contacts.CountNew(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"messages": messages,
		"total":    total,
		"newCount": newCount,
	})
}

// GetMessage handles GET /api/contact/{id}.
func (h *contactsHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	m, err := h.contacts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "message not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"message": m})
}

// UpdateStatus handles PATCH /api/contact/{id}/status. Only the
// workflow status changes; the submitted content is untouched.
func (h *contactsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if !contact.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "status must be new, read, replied or archived")
		return
	}

	m, err := h.contacts.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeStoreError(w, err, "message not found")
		return
	}

	auditLog(r, "contact_status", "contact_message", m.ID, "status", req.Status)
	writeSuccess(w, http.StatusOK, map[string]any{"message": m})
}

// Reply handles POST /api/contact/{id}/reply.
func (h *contactsHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Reply string `json:"reply"`
	}
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Reply) == "" {
		writeError(w, http.StatusBadRequest, "reply text is required")
		return
	}

	repliedBy := ""
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		repliedBy = claims.ID
	}

	m, err := h.contacts.Reply(r.Context(), id, req.Reply, repliedBy)
	if err != nil {
		writeStoreError(w, err, "message not found")
		return
	}

	auditLog(r, "contact_reply", "contact_message", m.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"message": m})
}

// DeleteMessage handles DELETE /api/contact/{id}.
func (h *contactsHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "message not found")
		return
	}
	auditLog(r, "contact_delete", "contact_message", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "message deleted"})
}
