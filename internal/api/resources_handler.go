package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/resource"
	"github.com/clubworks/clubd/internal/upload"
)

// resourcesHandler groups downloadable resource handlers.
type resourcesHandler struct {
	resources *resource.Store
	uploads   *upload.Saver
	metrics   *metrics.Metrics
}

func newResourcesHandler(store *resource.Store, uploads *upload.Saver, m *metrics.Metrics) *resourcesHandler {
	return &resourcesHandler{resources: store, uploads: uploads, metrics: m}
}

// CreateResource handles POST /api/resources, a multipart upload with a
// required document.
func (h *resourcesHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	res, err := saveFormFile(r, h.uploads, "file", upload.KindDocument, h.metrics)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	if res == nil {
		writeError(w, http.StatusBadRequest, "a document file is required")
		return
	}

	in := resource.CreateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		FilePath:    res.Path,
		MimeType:    res.MimeType,
		SizeBytes:   res.SizeBytes,
	}
	if in.Title == "" {
		removeUploadQuietly(r, h.uploads, res.Path)
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		in.CreatedBy = claims.ID
	}

	rs, err := h.resources.Create(r.Context(), in)
	if err != nil {
		removeUploadQuietly(r, h.uploads, res.Path)
		writeError(w, http.StatusInternalServerError, "failed to create resource")
		return
	}

	auditLog(r, "resource_create", "resource", rs.ID)
	writeSuccess(w, http.StatusCreated, map[string]any{"resource": rs})
}

// ListResources handles GET /api/resources.
func (h *resourcesHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	params := resource.ListParams{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("search"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	}

	resources, total, err := h.resources.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list resources")
		return
	}
	if resources == nil {
		resources = []*resource.Resource{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"resources": resources, "total": total})
}

// GetResource handles GET /api/resources/{id}.
func (h *resourcesHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	rs, err := h.resources.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "resource not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"resource": rs})
}

// DownloadResource handles GET /api/resources/{id}/download. The counter is
// bumped in the same statement that loads the row, then the file is served.
func (h *resourcesHandler) DownloadResource(w http.ResponseWriter, r *http.Request) {
	rs, err := h.resources.IncrementDownloads(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "resource not found")
		return
	}
	h.metrics.IncResourceDownload()

	w.Header().Set("Content-Disposition",
		`attachment; filename="`+filepath.Base(rs.FilePath)+`"`)
	if rs.MimeType != "" {
		w.Header().Set("Content-Type", rs.MimeType)
	}
	http.ServeFile(w, r, filepath.Join(h.uploads.Dir(), rs.FilePath))
}

// UpdateResource handles PUT /api/resources/{id}, metadata only.
func (h *resourcesHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input resource.UpdateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	rs, err := h.resources.Update(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, err, "resource not found")
		return
	}

	auditLog(r, "resource_update", "resource", rs.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"resource": rs})
}

// DeleteResource handles DELETE /api/resources/{id}.
func (h *resourcesHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	filePath, err := h.resources.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "resource not found")
		return
	}
	removeUploadQuietly(r, h.uploads, filePath)

	auditLog(r, "resource_delete", "resource", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "resource deleted"})
}
