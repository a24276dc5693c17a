// Package identity holds the types shared by the auth identity providers.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyExists      = errors.New("identity already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotConfigured      = errors.New("identity provider not configured")
)

// Principal is the authenticated caller behind an access token.
type Principal struct {
	ID    string
	Email string
	Name  string
}

// Session is returned by a successful password sign in.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
}

// Provider is implemented by every identity backend.
type Provider interface {
	CreateIdentity(ctx context.Context, email, password, name string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Verify(ctx context.Context, token string) (Principal, error)
}
