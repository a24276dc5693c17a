package identity

import (
	"context"
	"errors"
	"testing"
)

type fakeRegistrar struct {
	passwords map[string]string
	createErr error
	created   int
}

func (f *fakeRegistrar) CreateIdentity(ctx context.Context, email, password, name string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if _, ok := f.passwords[email]; ok {
		return "", ErrAlreadyExists
	}
	f.passwords[email] = password
	f.created++
	return "id-" + email, nil
}

func (f *fakeRegistrar) Authenticate(ctx context.Context, email, password string) (string, error) {
	stored, ok := f.passwords[email]
	if !ok || stored != password {
		return "", ErrInvalidCredentials
	}
	return "id-" + email, nil
}

func TestCreateOrAuthenticate(t *testing.T) {
	registrar := &fakeRegistrar{passwords: map[string]string{"ann@x.org": "secret1"}}

	id, created, err := CreateOrAuthenticate(context.Background(), registrar, "john@x.org", "secret1", "John")
	if err != nil || !created || id != "id-john@x.org" {
		t.Fatalf("expected new identity, got %q created=%v err=%v", id, created, err)
	}

	id, created, err = CreateOrAuthenticate(context.Background(), registrar, "ann@x.org", "secret1", "Ann")
	if err != nil || created || id != "id-ann@x.org" {
		t.Fatalf("expected reused identity, got %q created=%v err=%v", id, created, err)
	}

	if _, _, err := CreateOrAuthenticate(context.Background(), registrar, "ann@x.org", "other", "Ann"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if registrar.passwords["ann@x.org"] != "secret1" {
		t.Fatalf("existing credentials must not change")
	}
}

func TestCreateOrAuthenticateProviderFailure(t *testing.T) {
	registrar := &fakeRegistrar{passwords: map[string]string{}, createErr: errors.New("supabase signup: status 500")}

	_, _, err := CreateOrAuthenticate(context.Background(), registrar, "john@x.org", "secret1", "John")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
