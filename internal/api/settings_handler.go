package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/settings"
)

// settingsHandler groups site settings handlers.
type settingsHandler struct {
	settings *settings.Store
}

func newSettingsHandler(store *settings.Store) *settingsHandler {
	return &settingsHandler{settings: store}
}

// ListSettings handles GET /api/admin/settings. Secret values are redacted
// in the listing.
func (h *settingsHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	list, err := h.settings.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}

	out := make([]*settings.Setting, 0, len(list))
	for _, st := range list {
		out = append(out, st.Redacted())
	}
	writeSuccess(w, http.StatusOK, map[string]any{"settings": out})
}

// GetSetting handles GET /api/admin/settings/{key}, returning the decrypted
// value.
func (h *settingsHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	st, err := h.settings.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeStoreError(w, err, "setting not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"setting": st})
}

// UpsertSetting handles PUT /api/admin/settings/{key}.
func (h *settingsHandler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req settings.UpsertInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	req.Key = key
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "setting key is required")
		return
	}

	updatedBy := ""
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		updatedBy = claims.ID
	}

	st, err := h.settings.Upsert(r.Context(), req, updatedBy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}

	auditLog(r, "setting_upsert", "setting", st.Key, "secret", st.Secret)
	writeSuccess(w, http.StatusOK, map[string]any{"setting": st.Redacted()})
}

// DeleteSetting handles DELETE /api/admin/settings/{key}.
func (h *settingsHandler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.settings.Delete(r.Context(), key); err != nil {
		writeStoreError(w, err, "setting not found")
		return
	}
	auditLog(r, "setting_delete", "setting", key)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "setting deleted"})
}
