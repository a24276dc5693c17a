package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/identity"
	"church-admin-go/pkg/logger"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (identity.Principal, error)
}

type ChurchUserResolver interface {
	Lookup(ctx context.Context, authUserID string) (*churchuser.ChurchUser, error)
}

type Auth struct {
	verifier TokenVerifier
	users    ChurchUserResolver
	log      logger.Logger
}

type contextKey int

const (
	principalKey contextKey = iota
	churchUserKey
)

func NewAuth(verifier TokenVerifier, users ChurchUserResolver, log logger.Logger) *Auth {
	return &Auth{
		verifier: verifier,
		users:    users,
		log:      log,
	}
}

// Middleware authenticates the bearer token and attaches the caller's church
// user when one is bound to the identity.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.verifier == nil {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		principal, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				unauthorized(w)
				return
			}
			a.log.InternalError("auth: verify token failed", err)
			writeError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "please try again shortly")
			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		user, err := a.users.Lookup(ctx, principal.ID)
		switch {
		case err == nil:
			ctx = WithChurchUser(ctx, *user)
		case errors.Is(err, churchuser.ErrChurchUserNotFound):
		case errors.Is(err, churchuser.ErrTemporarilyUnavailable):
			a.log.Warn("auth: church user lookup unavailable", "auth_user_id", principal.ID, "error", err)
			writeError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "please try again shortly")
			return
		default:
			a.log.InternalError("auth: church user lookup failed", err, "auth_user_id", principal.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireChurchUser rejects identities that are not registered with a church.
func RequireChurchUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ChurchUserFromContext(r.Context()); !ok {
			writeError(w, http.StatusForbidden, "not_registered", "account is not registered with a church")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := ChurchUserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithPrincipal(ctx context.Context, principal identity.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (identity.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(identity.Principal)
	if !ok || principal.ID == "" {
		return identity.Principal{}, false
	}
	return principal, true
}

func WithChurchUser(ctx context.Context, user churchuser.ChurchUser) context.Context {
	return context.WithValue(ctx, churchUserKey, user)
}

func ChurchUserFromContext(ctx context.Context) (churchuser.ChurchUser, bool) {
	user, ok := ctx.Value(churchUserKey).(churchuser.ChurchUser)
	if !ok || user.ID == "" {
		return churchuser.ChurchUser{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
