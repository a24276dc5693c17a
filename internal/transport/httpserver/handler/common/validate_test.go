package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidationMessage(t *testing.T) {
	cases := []struct {
		req  sampleRequest
		want string
	}{
		{sampleRequest{Password: "secret1"}, "email is required"},
		{sampleRequest{Email: "nope", Password: "secret1"}, "email must be a valid email"},
		{sampleRequest{Email: "a@b.org", Password: "abc"}, "password must be at least 6"},
	}
	for _, tc := range cases {
		err := ValidateStruct(tc.req)
		if err == nil {
			t.Fatalf("expected validation error for %+v", tc.req)
		}
		if got := ValidationMessage(err); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}

	if err := ValidateStruct(sampleRequest{Email: "a@b.org", Password: "secret1"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestParseCSV(t *testing.T) {
	got := ParseCSV(" male, female ,male,,")
	if len(got) != 2 || got[0] != "male" || got[1] != "female" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"email":"a@b.org","password":"secret1"}`},
		{name: "unknown field", body: `{"email":"a@b.org","admin":true}`, wantErr: true},
		{name: "trailing value", body: `{"email":"a@b.org"}{"email":"c@d.org"}`, wantErr: true},
		{name: "too large", body: `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst sampleRequest
			err := DecodeJSON(req, &dst)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
