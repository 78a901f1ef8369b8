package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubworks/clubd/internal/account"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/ratelimit"
	"github.com/clubworks/clubd/internal/token"
	"github.com/clubworks/clubd/internal/upload"
)

// newTestRouter builds a router with the infrastructure deps wired and no
// database. Tests below stay on paths that fail before any store call.
func newTestRouter(t *testing.T, loginRate int) http.Handler {
	t.Helper()

	issuer, err := token.New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	saver, err := upload.NewSaver(t.TempDir(), 1024, 4096)
	if err != nil {
		t.Fatalf("upload.NewSaver: %v", err)
	}

	return NewRouter(RouterDeps{
		Issuer:       issuer,
		LoginLimiter: ratelimit.New(loginRate, time.Minute),
		Metrics:      metrics.New(),
		Uploads:      saver,
		CORSOrigins:  []string{"*"},
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	body := decodeEnvelope(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestRequestIDGenerated(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	id := rec.Header().Get("X-Request-ID")
	if len(id) != 32 {
		t.Errorf("generated request id %q, want 32 hex chars", id)
	}
}

func TestRequestIDPreserved(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "client-chosen-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-chosen-id" {
		t.Errorf("request id = %q, want client-chosen-id", got)
	}
}

func TestMetricsExposition(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "clubd_") {
		t.Error("exposition should contain clubd_ metrics")
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodOptions, "/api/news", nil)
	req.Header.Set("Origin", "https://club.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "DELETE") {
		t.Error("Allow-Methods should include DELETE")
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler := newTestRouter(t, 10)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/dashboard"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPost, "/api/events"},
		{http.MethodDelete, "/api/news/some-id"},
		{http.MethodPut, "/api/admin/settings/site_name"},
		{http.MethodPost, "/api/admin/flags"},
		{http.MethodGet, "/api/contact"},
	}

	for _, tt := range paths {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", tt.method, tt.path, rec.Code)
			continue
		}
		body := decodeEnvelope(t, rec)
		if body["success"] != false {
			t.Errorf("%s %s: success = %v, want false", tt.method, tt.path, body["success"])
		}
		if msg, _ := body["message"].(string); msg == "" {
			t.Errorf("%s %s: missing error message", tt.method, tt.path)
		}
	}
}

func TestLoginValidation(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"","password":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestLoginRateLimited(t *testing.T) {
	handler := newTestRouter(t, 1)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"","password":""}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(); rec.Code != http.StatusBadRequest {
		t.Fatalf("first attempt status = %d, want 400", rec.Code)
	}
	if rec := send(); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt status = %d, want 429", rec.Code)
	}
}

func TestContactValidation(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"","email":"","message":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMemberRegisterValidation(t *testing.T) {
	handler := newTestRouter(t, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/members/register",
		strings.NewReader(`{"fullName":"","email":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEnvelopeHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, map[string]any{"thing": "value"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["thing"] != "value" {
		t.Errorf("thing = %v, want value", body["thing"])
	}

	rec = httptest.NewRecorder()
	writeError(rec, http.StatusConflict, "already exists")
	body = decodeEnvelope(t, rec)
	if rec.Code != http.StatusConflict || body["success"] != false || body["message"] != "already exists" {
		t.Errorf("error envelope = %d %v", rec.Code, body)
	}
}

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing row", pgx.ErrNoRows, http.StatusNotFound, "thing not found"},
		{"malformed id", &pgconn.PgError{Code: "22P02"}, http.StatusBadRequest, "invalid id"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeStoreError(rec, tt.err, "thing not found")

		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.wantStatus)
		}
		body := decodeEnvelope(t, rec)
		if body["success"] != false || body["message"] != tt.wantMsg {
			t.Errorf("%s: body = %v, want message %q", tt.name, body, tt.wantMsg)
		}
	}
}

// fakeCredentialStore backs the auth handlers with a single in-memory account.
type fakeCredentialStore struct {
	account *account.Account
}

func (f *fakeCredentialStore) GetByLogin(ctx context.Context, login string) (*account.Account, error) {
	if f.account != nil && (login == f.account.Username || strings.EqualFold(login, f.account.Email)) {
		return f.account, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCredentialStore) TouchLastLogin(ctx context.Context, id string) error { return nil }

func (f *fakeCredentialStore) SetResetToken(ctx context.Context, email string) (string, error) {
	return "", pgx.ErrNoRows
}

func (f *fakeCredentialStore) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return pgx.ErrNoRows
}

func newTestAuthHandler(t *testing.T, acc *account.Account) *authHandler {
	t.Helper()
	issuer, err := token.New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	return newAuthHandler(&fakeCredentialStore{account: acc}, issuer, nil, metrics.New())
}

func postLogin(h *authHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func testAccount(t *testing.T, status string) *account.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &account.Account{
		ID:           "7d1c3e6a-0000-4000-8000-000000000001",
		Username:     "lena",
		Email:        "lena@club.local",
		PasswordHash: string(hash),
		FirstName:    "Lena",
		LastName:     "Okoye",
		Role:         "admin",
		Status:       status,
	}
}

func TestLoginSuccess(t *testing.T) {
	h := newTestAuthHandler(t, testAccount(t, "active"))

	rec := postLogin(h, `{"username":"lena","password":"correct-horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if tok, _ := body["token"].(string); tok == "" {
		t.Error("missing token in login response")
	}
	user, _ := body["user"].(map[string]any)
	if user == nil {
		t.Fatal("missing user in login response")
	}
	if user["username"] != "lena" || user["role"] != "admin" || user["firstName"] != "Lena" {
		t.Errorf("user payload = %v", user)
	}
	if _, present := user["passwordHash"]; present {
		t.Error("password hash must not appear in the login response")
	}
}

func TestLoginInactiveAccountIndistinguishable(t *testing.T) {
	h := newTestAuthHandler(t, testAccount(t, "suspended"))

	wrongPassword := postLogin(h, `{"username":"lena","password":"nope"}`)
	rightPassword := postLogin(h, `{"username":"lena","password":"correct-horse"}`)

	for name, rec := range map[string]*httptest.ResponseRecorder{
		"wrong password":            wrongPassword,
		"right password, suspended": rightPassword,
	} {
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
		body := decodeEnvelope(t, rec)
		if body["message"] != "Invalid credentials" {
			t.Errorf("%s: message = %v, want Invalid credentials", name, body["message"])
		}
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/x?limit=25", 25},
		{"/x?limit=-3", 0},
		{"/x?limit=abc", 0},
		{"/x", 0},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.url, nil)
		if got := queryInt(req, "limit"); got != tt.want {
			t.Errorf("queryInt(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}
