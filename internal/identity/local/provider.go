// Package local authenticates against credentials kept in the application
// database and issues HS256 access tokens.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"church-admin-go/internal/identity"
	"church-admin-go/pkg/storeerr"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultIssuer   = "church-admin"
	defaultTokenTTL = 12 * time.Hour
	defaultLeeway   = 30 * time.Second
)

type Config struct {
	Secret     string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

type Provider struct {
	store  Store
	secret []byte
	issuer string
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

type claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func New(store Store, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("local identity: %w: secret is required", identity.ErrNotConfigured)
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Provider{
		store:  store,
		secret: []byte(cfg.Secret),
		issuer: issuer,
		ttl:    ttl,
		cost:   cost,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (p *Provider) CreateIdentity(ctx context.Context, email, password, name string) (string, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	credential := Credential{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	}
	if err := p.store.CreateCredential(ctx, &credential); err != nil {
		if storeerr.IsConflict(err) {
			return "", identity.ErrAlreadyExists
		}
		return "", fmt.Errorf("create credential: %w", err)
	}
	return credential.ID, nil
}

func (p *Provider) Authenticate(ctx context.Context, email, password string) (string, error) {
	credential, err := p.check(ctx, email, password)
	if err != nil {
		return "", err
	}
	return credential.ID, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	credential, err := p.check(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := p.now()
	expiresAt := now.Add(p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: credential.Email,
		Name:  credential.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   credential.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &identity.Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		UserID:      credential.ID,
	}, nil
}

func (p *Provider) Verify(ctx context.Context, token string) (identity.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Principal{}, identity.ErrInvalidToken
	}

	var parsedClaims claims
	parsed, err := jwt.ParseWithClaims(token, &parsedClaims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(defaultLeeway),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return identity.Principal{}, identity.ErrInvalidToken
	}
	if strings.TrimSpace(parsedClaims.Subject) == "" {
		return identity.Principal{}, identity.ErrInvalidToken
	}

	return identity.Principal{
		ID:    parsedClaims.Subject,
		Email: parsedClaims.Email,
		Name:  parsedClaims.Name,
	}, nil
}

func (p *Provider) check(ctx context.Context, email, password string) (*Credential, error) {
	credential, err := p.store.GetCredentialByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return credential, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
