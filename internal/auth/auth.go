package auth

import (
	"context"
	"time"
)

// Roles form a closed set; route groups declare which of them may pass.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
)

// Account statuses. Only active accounts may authenticate or act.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// ValidRole reports whether r belongs to the closed role set.
func ValidRole(r string) bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleEditor
}

// ValidStatus reports whether s belongs to the closed status set.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusSuspended
}

// Account is the sanitized view of an administrative account attached to the
// request context by HydrateCurrentUser. It never carries the password hash or
// reset-token fields.
type Account struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// AccountLookup resolves an account id to its current stored state. The
// middleware re-fetches on every hydrated request so that a status change
// takes effect immediately, token or no token.
type AccountLookup interface {
	LookupAccount(ctx context.Context, id string) (*Account, error)
}
