package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/leadership"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/upload"
)

// leadershipHandler groups leadership position handlers.
type leadershipHandler struct {
	positions *leadership.Store
	uploads   *upload.Saver
	metrics   *metrics.Metrics
}

func newLeadershipHandler(store *leadership.Store, uploads *upload.Saver, m *metrics.Metrics) *leadershipHandler {
	return &leadershipHandler{positions: store, uploads: uploads, metrics: m}
}

// CreatePosition handles POST /api/leadership, JSON or multipart with an
// optional photo.
func (h *leadershipHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req leadership.CreateInput
	var photo *upload.Result

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		photo, err = saveFormFile(r, h.uploads, "photo", upload.KindImage, h.metrics)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		req.Name = r.FormValue("name")
		req.Title = r.FormValue("title")
		req.Bio = r.FormValue("bio")
		req.Email = r.FormValue("email")
		req.Phone = r.FormValue("phone")
		if v := r.FormValue("displayOrder"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				removeUploadQuietly(r, h.uploads, uploadPath(photo))
				writeError(w, http.StatusBadRequest, "displayOrder must be an integer")
				return
			}
			req.DisplayOrder = n
		}
	} else if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	if req.Name == "" || req.Title == "" {
		removeUploadQuietly(r, h.uploads, uploadPath(photo))
		writeError(w, http.StatusBadRequest, "name and title are required")
		return
	}
	if photo != nil {
		req.PhotoPath = photo.Path
	}

	p, err := h.positions.Create(r.Context(), req)
	if err != nil {
		removeUploadQuietly(r, h.uploads, uploadPath(photo))
		writeError(w, http.StatusInternalServerError, "failed to create position")
		return
	}

	auditLog(r, "leadership_create", "position", p.ID)
	writeSuccess(w, http.StatusCreated, map[string]any{"position": p})
}

// ListPositions handles GET /api/leadership. Anonymous callers see active
// positions only.
func (h *leadershipHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	activeOnly := auth.ClaimsFromContext(r.Context()) == nil

	positions, err := h.positions.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list positions")
		return
	}
	if positions == nil {
		positions = []*leadership.Position{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"positions": positions})
}

// GetPosition handles GET /api/leadership/{id}.
func (h *leadershipHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	p, err := h.positions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "position not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"position": p})
}

// UpdatePosition handles PUT /api/leadership/{id}.
func (h *leadershipHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input leadership.UpdateInput
	var photo *upload.Result

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		photo, err = saveFormFile(r, h.uploads, "photo", upload.KindImage, h.metrics)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		formString(r, "name", &input.Name)
		formString(r, "title", &input.Title)
		formString(r, "bio", &input.Bio)
		formString(r, "email", &input.Email)
		formString(r, "phone", &input.Phone)
		if v := r.FormValue("displayOrder"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				removeUploadQuietly(r, h.uploads, uploadPath(photo))
				writeError(w, http.StatusBadRequest, "displayOrder must be an integer")
				return
			}
			input.DisplayOrder = &n
		}
	} else if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	var oldPhoto string
	if photo != nil {
		existing, err := h.positions.GetByID(r.Context(), id)
		if err != nil {
			removeUploadQuietly(r, h.uploads, photo.Path)
			writeStoreError(w, err, "position not found")
			return
		}
		oldPhoto = existing.PhotoPath
		input.PhotoPath = &photo.Path
	}

	p, err := h.positions.Update(r.Context(), id, input)
	if err != nil {
		removeUploadQuietly(r, h.uploads, uploadPath(photo))
		writeStoreError(w, err, "position not found")
		return
	}

	if photo != nil && oldPhoto != "" && oldPhoto != photo.Path {
		removeUploadQuietly(r, h.uploads, oldPhoto)
	}

	auditLog(r, "leadership_update", "position", p.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"position": p})
}

// DeletePosition handles DELETE /api/leadership/{id}.
func (h *leadershipHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	photoPath, err := h.positions.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "position not found")
		return
	}
	removeUploadQuietly(r, h.uploads, photoPath)

	auditLog(r, "leadership_delete", "position", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "position deleted"})
}
