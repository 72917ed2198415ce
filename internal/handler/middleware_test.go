package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/handler"
	"github.com/msomdec/timeclock/internal/service"
)

func okHandler(got **domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			*got = handler.UserFromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func failHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Valid User", "valid@example.com", domain.UserTypeEmployee)

	var got *domain.User
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, okHandler(&got)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got == nil || got.Name != "Valid User" {
		t.Fatalf("expected user 'Valid User', got %+v", got)
	}
}

func TestRequireAuth_BearerToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Bearer User", "bearer@example.com", domain.UserTypeEmployee)

	var got *domain.User
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer "+token)
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, okHandler(&got)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got == nil || got.Email != "bearer@example.com" {
		t.Fatalf("unexpected user %+v", got)
	}
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, failHandler(t)).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got %q", ct)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "invalid.jwt.token"})
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, failHandler(t)).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Tamper", "tamper@example.com", domain.UserTypeEmployee)

	// Flip a signature character away from the padding bits at the end.
	i := len(token) - 10
	swap := byte('A')
	if token[i] == 'A' {
		swap = 'B'
	}
	tampered := token[:i] + string(swap) + token[i+1:]

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: tampered})
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, failHandler(t)).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Ghost", "ghost@example.com", domain.UserTypeEmployee)

	// Same secret, different database: the subject does not exist there.
	other := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(other.auth, failHandler(t)).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Optional", "opt@example.com", domain.UserTypeEmployee)

	var got *domain.User
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	handler.OptionalAuth(env.auth, okHandler(&got)).ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Name != "Optional" {
		t.Fatalf("expected user in context, got %+v", got)
	}

	got = nil
	w := httptest.NewRecorder()
	handler.OptionalAuth(env.auth, okHandler(&got)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != nil {
		t.Fatal("expected nil user in context for unauthenticated request")
	}
}

func TestRequireEmployer(t *testing.T) {
	env := newTestEnv(t)
	_, bossToken := env.register(t, "Maria Souza", "maria@empresa.com", domain.UserTypeEmployer)
	_, workerToken := env.register(t, "João Silva", "joao@empresa.com", domain.UserTypeEmployee)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"employer", bossToken, http.StatusOK},
		{"employee", workerToken, http.StatusForbidden},
		{"anonymous", "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/employer-only", nil)
			if tc.token != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tc.token})
			}
			w := httptest.NewRecorder()

			handler.RequireAuth(env.auth, handler.RequireEmployer(okHandler(nil))).ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	handler.SecurityHeaders(okHandler(nil)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := w.Header().Get(header); got != want {
			t.Fatalf("%s: expected %q, got %q", header, want, got)
		}
	}
}

func TestRateLimit(t *testing.T) {
	limited := handler.RateLimit(service.NewTokenBucket(0, 2), okHandler(nil))

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i+1, want, w.Code)
		}
	}

	// Another client is unaffected.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "198.51.100.1:40000"
	w := httptest.NewRecorder()
	limited.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", w.Code)
	}
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handler.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	handler.RequestLogger(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get("X-Request-ID")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a uuid request id, got %q", id)
	}
	if seen != id {
		t.Fatalf("context id %q does not match header %q", seen, id)
	}
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected inner status to pass through, got %d", w.Code)
	}
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	w := httptest.NewRecorder()

	handler.RequestLogger(okHandler(nil)).ServeHTTP(w, req.WithContext(context.Background()))

	if got := w.Header().Get("X-Request-ID"); got != incoming {
		t.Fatalf("expected %q, got %q", incoming, got)
	}
}
