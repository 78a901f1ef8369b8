package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/gallery"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/upload"
)

// galleryHandler groups gallery handlers. Uploads are always multipart.
type galleryHandler struct {
	gallery *gallery.Store
	uploads *upload.Saver
	metrics *metrics.Metrics
}

func newGalleryHandler(store *gallery.Store, uploads *upload.Saver, m *metrics.Metrics) *galleryHandler {
	return &galleryHandler{gallery: store, uploads: uploads, metrics: m}
}

// CreateItem handles POST /api/gallery, a multipart upload with a required
// media file.
func (h *galleryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	res, err := saveFormFile(r, h.uploads, "file", upload.KindMedia, h.metrics)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	if res == nil {
		writeError(w, http.StatusBadRequest, "a media file is required")
		return
	}

	in := gallery.CreateInput{
		Title:     r.FormValue("title"),
		Caption:   r.FormValue("caption"),
		Category:  r.FormValue("category"),
		FilePath:  res.Path,
		MimeType:  res.MimeType,
		SizeBytes: res.SizeBytes,
	}
	if in.Title == "" {
		removeUploadQuietly(r, h.uploads, res.Path)
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		in.CreatedBy = claims.ID
	}

	it, err := h.gallery.Create(r.Context(), in)
	if err != nil {
		removeUploadQuietly(r, h.uploads, res.Path)
		writeError(w, http.StatusInternalServerError, "failed to create gallery item")
		return
	}

	auditLog(r, "gallery_create", "gallery_item", it.ID)
	writeSuccess(w, http.StatusCreated, map[string]any{"item": it})
}

// ListItems handles GET /api/gallery.
func (h *galleryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	params := gallery.ListParams{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("search"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	}

	items, total, err := h.gallery.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list gallery items")
		return
	}
	if items == nil {
		items = []*gallery.Item{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

// GetItem handles GET /api/gallery/{id}.
func (h *galleryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.gallery.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "gallery item not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"item": it})
}

// UpdateItem handles PUT /api/gallery/{id}, metadata only.
func (h *galleryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input gallery.UpdateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	it, err := h.gallery.Update(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, err, "gallery item not found")
		return
	}

	auditLog(r, "gallery_update", "gallery_item", it.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"item": it})
}

// DeleteItem handles DELETE /api/gallery/{id}.
func (h *galleryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	filePath, thumbPath, err := h.gallery.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "gallery item not found")
		return
	}
	removeUploadQuietly(r, h.uploads, filePath)
	removeUploadQuietly(r, h.uploads, thumbPath)

	auditLog(r, "gallery_delete", "gallery_item", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "gallery item deleted"})
}
