package identity

import (
	"context"
	"errors"
	"fmt"
)

// Registrar is the part of a Provider needed to obtain an identity for a
// self-service registration.
type Registrar interface {
	CreateIdentity(ctx context.Context, email, password, name string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// CreateOrAuthenticate creates an identity for email, or reuses the existing
// one when password matches it. Existing credentials are never changed. A
// taken email with a different password yields ErrInvalidCredentials.
func CreateOrAuthenticate(ctx context.Context, r Registrar, email, password, name string) (id string, created bool, err error) {
	id, err = r.CreateIdentity(ctx, email, password, name)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, ErrAlreadyExists) {
		return "", false, fmt.Errorf("create identity: %w", err)
	}

	id, err = r.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return "", false, ErrInvalidCredentials
		}
		return "", false, fmt.Errorf("authenticate identity: %w", err)
	}
	return id, false, nil
}
