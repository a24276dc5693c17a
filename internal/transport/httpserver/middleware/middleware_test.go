package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/identity"
	"church-admin-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type fakeVerifier struct {
	principals map[string]identity.Principal
	err        error
}

func (f fakeVerifier) Verify(ctx context.Context, token string) (identity.Principal, error) {
	if f.err != nil {
		return identity.Principal{}, f.err
	}
	principal, ok := f.principals[token]
	if !ok {
		return identity.Principal{}, identity.ErrInvalidToken
	}
	return principal, nil
}

type fakeResolver struct {
	users map[string]churchuser.ChurchUser
	err   error
}

func (f fakeResolver) Lookup(ctx context.Context, authUserID string) (*churchuser.ChurchUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[authUserID]
	if !ok {
		return nil, churchuser.ErrChurchUserNotFound
	}
	return &user, nil
}

func newTestAuth(err error) *Auth {
	churchID := "c-1"
	return NewAuth(
		fakeVerifier{principals: map[string]identity.Principal{
			"admin-token":  {ID: "auth-admin"},
			"pastor-token": {ID: "auth-pastor"},
			"guest-token":  {ID: "auth-guest"},
		}},
		fakeResolver{err: err, users: map[string]churchuser.ChurchUser{
			"auth-admin":  {ID: "u-admin", Role: churchuser.RoleAdmin},
			"auth-pastor": {ID: "u-pastor", Role: churchuser.RolePastor, ChurchID: &churchID},
		}},
		logger.Discard(),
	)
}

func request(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	auth := newTestAuth(nil)

	var seen churchuser.ChurchUser
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ChurchUserFromContext(r.Context())
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			t.Errorf("expected principal in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	if rec := request(handler, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := request(handler, "bogus"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
	if rec := request(handler, "pastor-token"); rec.Code != http.StatusOK || seen.ID != "u-pastor" {
		t.Fatalf("expected pastor to pass, got %d (%+v)", rec.Code, seen)
	}

	seen = churchuser.ChurchUser{}
	if rec := request(handler, "guest-token"); rec.Code != http.StatusOK || seen.ID != "" {
		t.Fatalf("expected guest to pass without church user, got %d (%+v)", rec.Code, seen)
	}
}

func TestAuthMiddlewareUnavailable(t *testing.T) {
	auth := newTestAuth(churchuser.ErrTemporarilyUnavailable)
	if rec := request(auth.Middleware(okHandler), "admin-token"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	auth = newTestAuth(errors.New("boom"))
	if rec := request(auth.Middleware(okHandler), "admin-token"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRoleGuards(t *testing.T) {
	auth := newTestAuth(nil)
	admin := auth.Middleware(RequireAdmin(okHandler))
	registered := auth.Middleware(RequireChurchUser(okHandler))

	if rec := request(admin, "admin-token"); rec.Code != http.StatusOK {
		t.Fatalf("expected admin to pass, got %d", rec.Code)
	}
	if rec := request(admin, "pastor-token"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected pastor to be rejected, got %d", rec.Code)
	}
	if rec := request(registered, "pastor-token"); rec.Code != http.StatusOK {
		t.Fatalf("expected pastor to pass, got %d", rec.Code)
	}
	if rec := request(registered, "guest-token"); rec.Code != http.StatusForbidden {
		t.Fatalf("expected guest to be rejected, got %d", rec.Code)
	}
}

type fakeLimiter struct {
	remaining int
	err       error
	keys      []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return false, f.err
	}
	f.remaining--
	return f.remaining >= 0, nil
}

type countingRecorder struct {
	limited  int
	requests int
}

func (c *countingRecorder) RateLimited(string) {
	c.limited++
}

func (c *countingRecorder) ObserveRequest(string, string, int, time.Duration) {
	c.requests++
}

func TestRateLimit(t *testing.T) {
	limiter := &fakeLimiter{remaining: 1}
	recorder := &countingRecorder{}
	handler := NewRateLimit(limiter, "registration", recorder, logger.Discard())(okHandler)

	if rec := request(handler, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec := request(handler, ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", rec.Code)
	}
	if recorder.limited != 1 {
		t.Fatalf("expected 1 limited request, got %d", recorder.limited)
	}
	if limiter.keys[0] != "registration:192.0.2.1" {
		t.Fatalf("unexpected key %s", limiter.keys[0])
	}

	failing := NewRateLimit(&fakeLimiter{err: errors.New("redis down")}, "registration", recorder, logger.Discard())(okHandler)
	if rec := request(failing, ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected limiter errors to fail closed, got %d", rec.Code)
	}

	open := NewRateLimit(nil, "registration", recorder, logger.Discard())(okHandler)
	if rec := request(open, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected nil limiter to pass, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:5173/"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/churches", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("expected allowed origin header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/churches", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected no allow origin header for unknown origin")
	}
}

func TestRequestLogScopesLoggerToRequest(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, slog.LevelInfo, "text")

	handler := chimw.RequestID(NewRequestLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), logger.Discard()).Info("inside handler")
		w.WriteHeader(http.StatusBadGateway)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/churches", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "inside handler") || !strings.Contains(out, "request_id=req-42") {
		t.Fatalf("expected scoped handler log, got %q", out)
	}
	if !strings.Contains(out, "http: request failed") || !strings.Contains(out, "status=502") {
		t.Fatalf("expected failed request line, got %q", out)
	}
}

func TestAuthVerifierOutageIsNotUnauthorized(t *testing.T) {
	auth := NewAuth(fakeVerifier{err: errors.New("supabase verify: status 503")}, fakeResolver{}, logger.Discard())

	rec := request(auth.Middleware(okHandler), "any-token")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
