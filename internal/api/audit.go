package api

import (
	"log/slog"
	"net/http"

	"github.com/clubworks/clubd/internal/auth"
)

// auditLog emits a structured audit entry for a state-changing admin action.
func auditLog(r *http.Request, action, resourceType, resourceID string, detail ...any) {
	attrs := []any{
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"ip", clientIP(r),
		"request_id", RequestIDFromContext(r.Context()),
	}

	if c := auth.ClaimsFromContext(r.Context()); c != nil {
		attrs = append(attrs, "user_id", c.ID, "username", c.Username, "user_role", c.Role)
	}

	attrs = append(attrs, detail...)
	slog.Info("audit", attrs...)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
