package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/clubworks/clubd/internal/account"
	"github.com/clubworks/clubd/internal/auth"
)

// usersHandler groups administrative account management handlers. All routes
// here are restricted to super_admin.
type usersHandler struct {
	accounts *account.Store
}

func newUsersHandler(accounts *account.Store) *usersHandler {
	return &usersHandler{accounts: accounts}
}

// CreateUser handles POST /api/admin/users.
func (h *usersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req account.CreateInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	if req.Username == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if req.Role != "" && !auth.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "role must be super_admin, admin or editor")
		return
	}
	if req.Status != "" && !auth.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "status must be active, inactive or suspended")
		return
	}

	acc, err := h.accounts.Create(r.Context(), req)
	if err != nil {
		// The unique indexes on username and email are the real duplicate
		// check.
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "username or email already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	auditLog(r, "user_create", "account", acc.ID, "role", acc.Role)
	writeSuccess(w, http.StatusCreated, map[string]any{"user": acc})
}

// ListUsers handles GET /api/admin/users.
func (h *usersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if accounts == nil {
		accounts = []*account.Account{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": accounts})
}

// GetUser handles GET /api/admin/users/{id}.
func (h *usersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	acc, err := h.accounts.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "user not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"user": acc})
}

// UpdateUser handles PUT /api/admin/users/{id}. Callers cannot demote or
// deactivate their own account.
func (h *usersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input account.UpdateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	if input.Role != nil && !auth.ValidRole(*input.Role) {
		writeError(w, http.StatusBadRequest, "role must be super_admin, admin or editor")
		return
	}
	if input.Status != nil && !auth.ValidStatus(*input.Status) {
		writeError(w, http.StatusBadRequest, "status must be active, inactive or suspended")
		return
	}
	if input.Password != nil && len(*input.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	if claims != nil {
		if err := auth.CheckSelfUpdate(claims.ID, id, input.Role, input.Status); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	acc, err := h.accounts.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		if isInvalidID(err) {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "username or email already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	auditLog(r, "user_update", "account", acc.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"user": acc})
}

// DeleteUser handles DELETE /api/admin/users/{id}. Self-deletion is refused.
func (h *usersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	claims := auth.ClaimsFromContext(r.Context())
	if claims != nil {
		if err := auth.CheckSelfDelete(claims.ID, id); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "user not found")
		return
	}

	auditLog(r, "user_delete", "account", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "user deleted"})
}
