package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/announcement"
	"github.com/clubworks/clubd/internal/auth"
)

// announcementsHandler groups announcement handlers.
type announcementsHandler struct {
	announcements *announcement.Store
}

func newAnnouncementsHandler(store *announcement.Store) *announcementsHandler {
	return &announcementsHandler{announcements: store}
}

func validPriority(p string) bool {
	switch p {
	case announcement.PriorityUrgent, announcement.PriorityHigh,
		announcement.PriorityNormal, announcement.PriorityLow:
		return true
	}
	return false
}

// CreateAnnouncement handles POST /api/announcements.
func (h *announcementsHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcement.CreateInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if req.Title == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "title and body are required")
		return
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		writeError(w, http.StatusBadRequest, "priority must be urgent, high, normal or low")
		return
	}
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		req.CreatedBy = claims.ID
	}

	a, err := h.announcements.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create announcement")
		return
	}

	auditLog(r, "announcement_create", "announcement", a.ID)
	writeSuccess(w, http.StatusCreated, map[string]any{"announcement": a})
}

// ListAnnouncements handles GET /api/announcements. Anonymous callers see
// active announcements only, in display order.
func (h *announcementsHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	params := announcement.ListParams{
		Priority:   r.URL.Query().Get("priority"),
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
		ActiveOnly: auth.ClaimsFromContext(r.Context()) == nil,
	}

	announcements, total, err := h.announcements.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list announcements")
		return
	}
	if announcements == nil {
		announcements = []*announcement.Announcement{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"announcements": announcements, "total": total})
}

// GetAnnouncement handles GET /api/announcements/{id}.
func (h *announcementsHandler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	a, err := h.announcements.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "announcement not found")
		return
	}
	if !a.Active && auth.ClaimsFromContext(r.Context()) == nil {
		writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"announcement": a})
}

// UpdateAnnouncement handles PUT /api/announcements/{id}.
func (h *announcementsHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input announcement.UpdateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if input.Priority != nil && !validPriority(*input.Priority) {
		writeError(w, http.StatusBadRequest, "priority must be urgent, high, normal or low")
		return
	}

	a, err := h.announcements.Update(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, err, "announcement not found")
		return
	}

	auditLog(r, "announcement_update", "announcement", a.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"announcement": a})
}

// DeleteAnnouncement handles DELETE /api/announcements/{id}.
func (h *announcementsHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.announcements.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "announcement not found")
		return
	}
	auditLog(r, "announcement_delete", "announcement", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "announcement deleted"})
}
