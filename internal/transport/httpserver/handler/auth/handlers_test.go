package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	churchuserdomain "church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/identity"
	"church-admin-go/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type fakeSignIner struct{}

func (fakeSignIner) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	if password != "secret1" {
		return nil, identity.ErrInvalidCredentials
	}
	return &identity.Session{AccessToken: "token-" + email}, nil
}

type fakeRegistrar struct {
	err      error
	existing bool
	inputs   []churchuserdomain.RegisterInput
}

func (f *fakeRegistrar) Register(ctx context.Context, input churchuserdomain.RegisterInput) (*churchuserdomain.ChurchUser, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	f.inputs = append(f.inputs, input)
	if f.existing {
		churchID := "c-1"
		return &churchuserdomain.ChurchUser{ID: "u-1", Email: input.Email, Name: "Paul", Role: churchuserdomain.RolePastor, ChurchID: &churchID}, false, nil
	}
	return &churchuserdomain.ChurchUser{ID: "u-2", Email: input.Email, Name: input.Name, Role: churchuserdomain.RoleUser}, true, nil
}

func newTestRouter(registrar *fakeRegistrar) http.Handler {
	h := New(fakeSignIner{}, registrar, logger.Discard())
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	return r
}

func serve(t *testing.T, handler http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestRegister(t *testing.T) {
	registrar := &fakeRegistrar{}
	rec := serve(t, newTestRouter(registrar), "/register", `{"email":" Ruth@Example.org ","password":"secret1","name":"Ruth"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Role != churchuserdomain.RoleUser || body.AlreadyRegistered || body.ChurchID != nil {
		t.Fatalf("unexpected response %+v", body)
	}
	if len(registrar.inputs) != 1 || registrar.inputs[0].Email != "ruth@example.org" {
		t.Fatalf("expected normalized email passed through, got %+v", registrar.inputs)
	}
}

func TestRegisterAlreadyRegistered(t *testing.T) {
	rec := serve(t, newTestRouter(&fakeRegistrar{existing: true}), "/register", `{"email":"paul@example.org","password":"secret1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.AlreadyRegistered || body.Role != churchuserdomain.RolePastor {
		t.Fatalf("expected existing pastor reported, got %+v", body)
	}
}

func TestRegisterErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   string
		status int
		code   string
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest, code: "invalid_json"},
		{name: "missing email", body: `{"password":"secret1"}`, status: http.StatusBadRequest, code: "invalid_request"},
		{name: "short password", err: fmt.Errorf("%w: password must be at least 6 characters", churchuserdomain.ErrInvalidRegistration), status: http.StatusBadRequest, code: "invalid_request"},
		{name: "identity conflict", err: churchuserdomain.ErrIdentityConflict, status: http.StatusConflict, code: "identity_conflict"},
		{name: "store unavailable", err: fmt.Errorf("%w: retries exhausted", churchuserdomain.ErrTemporarilyUnavailable), status: http.StatusServiceUnavailable, code: "temporarily_unavailable"},
		{name: "disabled", err: churchuserdomain.ErrRegistrationDisabled, status: http.StatusNotFound, code: "not_found"},
		{name: "unexpected", err: fmt.Errorf("create identity: boom"), status: http.StatusInternalServerError, code: "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := tc.body
			if body == "" {
				body = `{"email":"ruth@example.org","password":"abc"}`
			}
			rec := serve(t, newTestRouter(&fakeRegistrar{err: tc.err}), "/register", body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if code := errorCode(t, rec); code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, code)
			}
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	rec := serve(t, newTestRouter(&fakeRegistrar{}), "/login", `{"email":"ruth@example.org","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %q", code)
	}
}
