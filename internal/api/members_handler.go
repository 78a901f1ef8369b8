package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/member"
)

// membersHandler groups member roster handlers. Registration is public; the
// rest is admin-side.
type membersHandler struct {
	members *member.Store
}

func newMembersHandler(members *member.Store) *membersHandler {
	return &membersHandler{members: members}
}

// Register handles POST /api/members/register, the public self-registration
// path. New registrations always start pending regardless of what the body
// says.
func (h *membersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req member.CreateInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "fullName and email are required")
		return
	}
	req.Status = member.StatusPending

	// Friendly pre-check; the unique index is what actually prevents two
	// concurrent registrations with the same email.
	exists, err := h.members.EmailExists(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "this email is already registered")
		return
	}

	m, err := h.members.Create(r.Context(), req)
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "this email is already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register member")
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{
		"message": "Registration received, pending approval",
		"member":  m,
	})
}

// CreateMember handles POST /api/admin/members, the admin-side create that
// may set any status directly.
func (h *membersHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req member.CreateInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "fullName and email are required")
		return
	}
	if req.Status != "" && !member.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "status must be pending, active or inactive")
		return
	}

	m, err := h.members.Create(r.Context(), req)
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "this email is already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create member")
		return
	}

	auditLog(r, "member_create", "member", m.ID)
	writeSuccess(w, http.StatusCreated, map[string]any{"member": m})
}

// ListMembers handles GET /api/admin/members with status filter, search and
// pagination.
func (h *membersHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	params := member.ListParams{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("search"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}

	members, total, err := h.members.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if members == nil {
		members = []*member.Member{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"members": members, "total": total})
}

// GetMember handles GET /api/admin/members/{id}.
func (h *membersHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.members.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "member not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"member": m})
}

// UpdateMember handles PUT /api/admin/members/{id}.
func (h *membersHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input member.UpdateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if input.Status != nil && !member.ValidStatus(*input.Status) {
		writeError(w, http.StatusBadRequest, "status must be pending, active or inactive")
		return
	}
	if input.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &lowered
	}

	m, err := h.members.Update(r.Context(), id, input)
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "this email is already registered")
			return
		}
		writeStoreError(w, err, "member not found")
		return
	}

	auditLog(r, "member_update", "member", m.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"member": m})
}

// DeleteMember handles DELETE /api/admin/members/{id}.
func (h *membersHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.members.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "member not found")
		return
	}
	auditLog(r, "member_delete", "member", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "member deleted"})
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
