package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clubworks/clubd/internal/token"
)

// fakeLookup implements AccountLookup over a fixed map of accounts.
type fakeLookup struct {
	accounts map[string]*Account
	err      error
}

func (f *fakeLookup) LookupAccount(_ context.Context, id string) (*Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	acc, ok := f.accounts[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return acc, nil
}

func newTestIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	iss, err := token.New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token.New: %v", err)
	}
	return iss
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestVerifyToken(t *testing.T) {
	iss := newTestIssuer(t)
	valid, err := iss.Issue("acc-1", "admin", RoleSuperAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantNext   bool
	}{
		{"valid token passes", "Bearer " + valid, http.StatusOK, true},
		{"missing header rejected", "", http.StatusUnauthorized, false},
		{"malformed scheme rejected", "Basic abc", http.StatusUnauthorized, false},
		{"garbage token rejected", "Bearer not.a.jwt", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := VerifyToken(iss)(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantNext {
				t.Errorf("next called: got %v, want %v", called, tt.wantNext)
			}
		})
	}
}

func TestVerifyTokenInjectsClaims(t *testing.T) {
	iss := newTestIssuer(t)
	valid, _ := iss.Issue("acc-1", "admin", RoleEditor)

	var got *token.Claims
	handler := VerifyToken(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected claims in context")
	}
	if got.ID != "acc-1" || got.Role != RoleEditor {
		t.Errorf("unexpected claims: %+v", got)
	}
}

// A valid, unexpired token must still be rejected when the live account is no
// longer active.
func TestHydrateCurrentUserStatuses(t *testing.T) {
	iss := newTestIssuer(t)

	tests := []struct {
		name       string
		status     string
		wantStatus int
	}{
		{"active account hydrated", StatusActive, http.StatusOK},
		{"inactive account rejected", StatusInactive, http.StatusUnauthorized},
		{"suspended account rejected", StatusSuspended, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{accounts: map[string]*Account{
				"acc-1": {ID: "acc-1", Username: "admin", Role: RoleSuperAdmin, Status: tt.status},
			}}

			valid, _ := iss.Issue("acc-1", "admin", RoleSuperAdmin)
			called := false
			handler := VerifyToken(iss)(HydrateCurrentUser(lookup)(okHandler(&called)))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+valid)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("next called: got %v", called)
			}
		})
	}
}

func TestHydrateCurrentUserAccountMissing(t *testing.T) {
	iss := newTestIssuer(t)
	valid, _ := iss.Issue("ghost", "ghost", RoleAdmin)

	handler := VerifyToken(iss)(HydrateCurrentUser(&fakeLookup{})(okHandler(new(bool))))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for deleted account, got %d", rec.Code)
	}
}

// Optional-auth routes run hydration without VerifyToken ahead of it; the
// stage must pass anonymous requests through untouched.
func TestHydrateCurrentUserPassThroughWithoutClaims(t *testing.T) {
	called := false
	handler := HydrateCurrentUser(&fakeLookup{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if AccountFromContext(r.Context()) != nil {
			t.Error("expected no account in context")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Error("expected pass-through for anonymous request")
	}
}

func TestOptionalToken(t *testing.T) {
	iss := newTestIssuer(t)
	valid, _ := iss.Issue("acc-1", "admin", RoleAdmin)

	tests := []struct {
		name       string
		authHeader string
		wantClaims bool
	}{
		{"valid token attaches claims", "Bearer " + valid, true},
		{"no token passes anonymously", "", false},
		{"bad token passes anonymously", "Bearer junk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *token.Claims
			handler := OptionalToken(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = ClaimsFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("optional token must never reject, got %d", rec.Code)
			}
			if (got != nil) != tt.wantClaims {
				t.Errorf("claims present: got %v, want %v", got != nil, tt.wantClaims)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	iss := newTestIssuer(t)

	tests := []struct {
		name       string
		role       string // empty = no claims at all
		allowed    []string
		wantStatus int
	}{
		{"role on list accepted", RoleEditor, []string{RoleSuperAdmin, RoleAdmin, RoleEditor}, http.StatusOK},
		{"role off list rejected", RoleEditor, []string{RoleSuperAdmin, RoleAdmin}, http.StatusForbidden},
		{"single-role list exact match", RoleSuperAdmin, []string{RoleSuperAdmin}, http.StatusOK},
		{"admin not super_admin", RoleAdmin, []string{RoleSuperAdmin}, http.StatusForbidden},
		{"no claims rejected with 401", "", []string{RoleSuperAdmin}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireRole(tt.allowed...)(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != "" {
				signed, _ := iss.Issue("acc-1", "someone", tt.role)
				claims, err := iss.Verify(signed)
				if err != nil {
					t.Fatalf("Verify: %v", err)
				}
				req = req.WithContext(ContextWithClaims(req.Context(), claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Errorf("next called: got %v", called)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"", ""},
		{"abc123", ""},
		{"Basic abc123", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := extractBearerToken(req); got != tt.want {
			t.Errorf("header %q: got %q, want %q", tt.header, got, tt.want)
		}
	}
}
