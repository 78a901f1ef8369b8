package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/clubworks/clubd/internal/account"
	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/ratelimit"
	"github.com/clubworks/clubd/internal/token"
)

// credentialStore is the account surface the auth handlers need. Satisfied
// by *account.Store.
type credentialStore interface {
	GetByLogin(ctx context.Context, login string) (*account.Account, error)
	TouchLastLogin(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	accounts credentialStore
	issuer   *token.Issuer
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics
}

func newAuthHandler(accounts credentialStore, issuer *token.Issuer, limiter *ratelimit.Limiter, m *metrics.Metrics) *authHandler {
	return &authHandler{accounts: accounts, issuer: issuer, limiter: limiter, metrics: m}
}

// Login handles POST /api/auth/login. Failed lookups and wrong passwords get
// the same response, so usernames cannot be probed.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(clientIP(r)) {
		h.metrics.IncLoginReject()
		writeError(w, http.StatusTooManyRequests, "Too many login attempts, please try again later")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	acc, err := h.accounts.GetByLogin(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.metrics.IncAuthFailure("unknown_user")
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !account.CheckPassword(acc, req.Password) {
		h.metrics.IncAuthFailure("bad_password")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Deliberately the same message as a bad password: whether the account
	// is deactivated is not disclosed to an unauthenticated caller.
	if acc.Status != auth.StatusActive {
		h.metrics.IncAuthFailure("inactive_account")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tok, err := h.issuer.Issue(acc.ID, acc.Username, acc.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.accounts.TouchLastLogin(r.Context(), acc.ID); err != nil {
		// Login still succeeds; the timestamp is informational.
		auditLog(r, "login_touch_failed", "account", acc.ID, "error", err.Error())
	}

	h.metrics.IncAuthSuccess()
	auditLog(r, "login", "account", acc.ID)

	writeSuccess(w, http.StatusOK, map[string]any{
		"token": tok,
		"user": map[string]any{
			"id":        acc.ID,
			"username":  acc.Username,
			"email":     acc.Email,
			"firstName": acc.FirstName,
			"lastName":  acc.LastName,
			"role":      acc.Role,
			"lastLogin": acc.LastLogin,
		},
	})
}

// Me handles GET /api/auth/me. The account in context is the live record, so
// role or status changes made since the token was issued are reflected here.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	acc := auth.AccountFromContext(r.Context())
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"user": acc})
}

// ForgotPassword handles POST /api/auth/forgot-password. The response does
// not reveal whether the email exists.
func (h *authHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	resetToken, err := h.accounts.SetResetToken(r.Context(), req.Email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err == nil {
		// Delivery would go through the configured SMTP relay. The token is
		// logged at debug level only so operators can assist manually.
		auditLog(r, "password_reset_requested", "account", req.Email, "token_len", len(resetToken))
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "If that email is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *authHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if req.Token == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "token and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"message": "Password has been reset"})
}
