package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/clubworks/clubd/internal/token"
)

type contextKey int

const (
	claimsContextKey contextKey = iota
	accountContextKey
)

// ContextWithClaims returns a new context carrying the decoded token claims.
func ContextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts the token claims, or nil if not present.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*token.Claims)
	return claims
}

// ContextWithAccount returns a new context carrying the hydrated account.
func ContextWithAccount(ctx context.Context, acc *Account) context.Context {
	return context.WithValue(ctx, accountContextKey, acc)
}

// AccountFromContext extracts the hydrated account, or nil if not present.
func AccountFromContext(ctx context.Context) *Account {
	acc, _ := ctx.Value(accountContextKey).(*Account)
	return acc
}

// VerifyToken returns middleware that requires a valid bearer token. On
// failure it responds 401 and halts the chain; on success the decoded claims
// are injected into the request context.
func VerifyToken(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := issuer.Verify(extractBearerToken(r))
			if err != nil {
				writeUnauthorized(w, authFailureMessage(err))
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalToken returns middleware for public routes that accept but do not
// require authentication. A valid bearer token injects claims; an absent or
// bad token passes the request through anonymously.
func OptionalToken(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := issuer.Verify(extractBearerToken(r)); err == nil {
				r = r.WithContext(ContextWithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HydrateCurrentUser returns middleware that resolves the token claims to the
// live account record. A token is a claim, not a fact: the account must still
// exist and be active or the request is rejected with 401. When no claims are
// present (optional-auth routes) the stage passes through untouched.
func HydrateCurrentUser(lookup AccountLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				next.ServeHTTP(w, r)
				return
			}

			acc, err := lookup.LookupAccount(r.Context(), claims.ID)
			if err != nil || acc == nil {
				writeUnauthorized(w, "account not found")
				return
			}
			if acc.Status != StatusActive {
				writeUnauthorized(w, "account is not active")
				return
			}

			ctx := ContextWithAccount(r.Context(), acc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that admits only the listed roles. The check
// reads the role from the signed token claims; the status check in
// HydrateCurrentUser reads the live record. Responds 401 when no claims are
// present and 403 when the role is not on the allow-list.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeUnauthorized(w, "authentication required")
				return
			}
			if _, ok := allowedSet[claims.Role]; !ok {
				writeForbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, token.ErrMissingToken):
		return "authorization token required"
	case errors.Is(err, token.ErrExpiredToken):
		return "token expired"
	default:
		return "invalid token"
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(failureEnvelope{Message: message})
}

func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(failureEnvelope{Message: message})
}
