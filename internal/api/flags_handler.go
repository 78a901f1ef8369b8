package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/settings"
)

// flagsHandler groups feature flag handlers.
type flagsHandler struct {
	settings *settings.Store
}

func newFlagsHandler(store *settings.Store) *flagsHandler {
	return &flagsHandler{settings: store}
}

// ListFlags handles GET /api/admin/flags.
func (h *flagsHandler) ListFlags(w http.ResponseWriter, r *http.Request) {
	flags, err := h.settings.ListFlags(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list feature flags")
		return
	}
	if flags == nil {
		flags = []*settings.Flag{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"flags": flags})
}

// GetFlag handles GET /api/admin/flags/{name}.
func (h *flagsHandler) GetFlag(w http.ResponseWriter, r *http.Request) {
	f, err := h.settings.GetFlag(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeStoreError(w, err, "feature flag not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"flag": f})
}

// CreateFlag handles POST /api/admin/flags.
func (h *flagsHandler) CreateFlag(w http.ResponseWriter, r *http.Request) {
	var req settings.FlagInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "flag name is required")
		return
	}

	f, err := h.settings.CreateFlag(r.Context(), req, callerID(r))
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "a flag with this name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create feature flag")
		return
	}

	auditLog(r, "flag_create", "feature_flag", f.Name, "enabled", f.Enabled)
	writeSuccess(w, http.StatusCreated, map[string]any{"flag": f})
}

// UpdateFlag handles PUT /api/admin/flags/{name}.
func (h *flagsHandler) UpdateFlag(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req settings.FlagUpdate
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	f, err := h.settings.UpdateFlag(r.Context(), name, req, callerID(r))
	if err != nil {
		writeStoreError(w, err, "feature flag not found")
		return
	}

	auditLog(r, "flag_update", "feature_flag", f.Name, "enabled", f.Enabled)
	writeSuccess(w, http.StatusOK, map[string]any{"flag": f})
}

// DeleteFlag handles DELETE /api/admin/flags/{name}.
func (h *flagsHandler) DeleteFlag(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.settings.DeleteFlag(r.Context(), name); err != nil {
		writeStoreError(w, err, "feature flag not found")
		return
	}
	auditLog(r, "flag_delete", "feature_flag", name)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "feature flag deleted"})
}

func callerID(r *http.Request) string {
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		return claims.ID
	}
	return ""
}
