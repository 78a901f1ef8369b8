package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/event"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/upload"
)

// eventsHandler groups event handlers. Reads are public, writes are staff
// operations.
type eventsHandler struct {
	events  *event.Store
	uploads *upload.Saver
	metrics *metrics.Metrics
}

func newEventsHandler(events *event.Store, uploads *upload.Saver, m *metrics.Metrics) *eventsHandler {
	return &eventsHandler{events: events, uploads: uploads, metrics: m}
}

func validEventStatus(s string) bool {
	switch s {
	case "upcoming", "ongoing", "completed", "cancelled":
		return true
	}
	return false
}

// CreateEvent handles POST /api/events. The request may be JSON or multipart
// with an optional photo field.
func (h *eventsHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req event.CreateInput
	var photo *upload.Result

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		photo, err = saveFormFile(r, h.uploads, "photo", upload.KindImage, h.metrics)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		req.Location = r.FormValue("location")
		req.Category = r.FormValue("category")
		req.Status = r.FormValue("status")
		if v := r.FormValue("eventDate"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				removeUploadQuietly(r, h.uploads, uploadPath(photo))
				writeError(w, http.StatusBadRequest, "eventDate must be RFC 3339")
				return
			}
			req.EventDate = t
		}
	} else if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	if req.Title == "" || req.EventDate.IsZero() {
		removeUploadQuietly(r, h.uploads, uploadPath(photo))
		writeError(w, http.StatusBadRequest, "title and eventDate are required")
		return
	}
	if req.Status != "" && !validEventStatus(req.Status) {
		removeUploadQuietly(r, h.uploads, uploadPath(photo))
		writeError(w, http.StatusBadRequest, "status must be upcoming, ongoing, completed or cancelled")
		return
	}

	if photo != nil {
		req.PhotoPath = photo.Path
	}
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		req.CreatedBy = claims.ID
	}

	ev, err := h.events.Create(r.Context(), req)
	if err != nil {
		removeUploadQuietly(r, h.uploads, uploadPath(photo))
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	auditLog(r, "event_create", "event", ev.ID)
	writeSuccess(w, http.StatusCreated, map[string]any{"event": ev})
}

// ListEvents handles GET /api/events.
func (h *eventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := event.ListParams{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("search"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	}

	events, total, err := h.events.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []*event.Event{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"events": events, "total": total})
}

// GetEvent handles GET /api/events/{id}.
func (h *eventsHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.events.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "event not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"event": ev})
}

// UpdateEvent handles PUT /api/events/{id}, JSON or multipart. Replacing the
// photo removes the old file after the row is updated.
func (h *eventsHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input event.UpdateInput
	var photo *upload.Result

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		photo, err = saveFormFile(r, h.uploads, "photo", upload.KindImage, h.metrics)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		formString(r, "title", &input.Title)
		formString(r, "description", &input.Description)
		formString(r, "location", &input.Location)
		formString(r, "category", &input.Category)
		formString(r, "status", &input.Status)
		if v := r.FormValue("eventDate"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				removeUploadQuietly(r, h.uploads, uploadPath(photo))
				writeError(w, http.StatusBadRequest, "eventDate must be RFC 3339")
				return
			}
			input.EventDate = &t
		}
	} else if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	if input.Status != nil && !validEventStatus(*input.Status) {
		removeUploadQuietly(r, h.uploads, uploadPath(photo))
		writeError(w, http.StatusBadRequest, "status must be upcoming, ongoing, completed or cancelled")
		return
	}

	var oldPhoto string
	if photo != nil {
		existing, err := h.events.GetByID(r.Context(), id)
		if err != nil {
			removeUploadQuietly(r, h.uploads, photo.Path)
			writeStoreError(w, err, "event not found")
			return
		}
		oldPhoto = existing.PhotoPath
		input.PhotoPath = &photo.Path
	}

	ev, err := h.events.Update(r.Context(), id, input)
	if err != nil {
		removeUploadQuietly(r, h.uploads, uploadPath(photo))
		writeStoreError(w, err, "event not found")
		return
	}

	if photo != nil && oldPhoto != "" && oldPhoto != photo.Path {
		removeUploadQuietly(r, h.uploads, oldPhoto)
	}

	auditLog(r, "event_update", "event", ev.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"event": ev})
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *eventsHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	photoPath, err := h.events.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "event not found")
		return
	}
	removeUploadQuietly(r, h.uploads, photoPath)

	auditLog(r, "event_delete", "event", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "event deleted"})
}

// formString sets dst to the form value when the field was submitted.
func formString(r *http.Request, name string, dst **string) {
	if _, ok := r.Form[name]; !ok {
		if r.MultipartForm == nil {
			return
		}
		if _, ok := r.MultipartForm.Value[name]; !ok {
			return
		}
	}
	v := r.FormValue(name)
	*dst = &v
}

// uploadPath returns the stored path of an optional upload result.
func uploadPath(res *upload.Result) string {
	if res == nil {
		return ""
	}
	return res.Path
}
