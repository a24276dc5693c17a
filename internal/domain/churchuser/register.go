package churchuser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"church-admin-go/internal/identity"
	"church-admin-go/pkg/logger"
	"church-admin-go/pkg/retry"
	"church-admin-go/pkg/storeerr"
	"github.com/google/uuid"
)

const defaultMinPasswordLength = 6

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

func WithIdentities(identities identity.Registrar) Option {
	return func(s *Service) {
		s.identities = identities
	}
}

func WithMinPasswordLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPassword = n
		}
	}
}

// Register signs a member of the public up as a plain church user. An identity
// that is already bound to a church user is reported with created=false and
// keeps its role, so a pastor or admin re-registering is never demoted.
func (s *Service) Register(ctx context.Context, input RegisterInput) (user *ChurchUser, created bool, err error) {
	if s.identities == nil {
		return nil, false, ErrRegistrationDisabled
	}

	input, err = s.normalizeRegister(input)
	if err != nil {
		return nil, false, err
	}

	authUserID, _, err := identity.CreateOrAuthenticate(ctx, s.identities, input.Email, input.Password, input.Name)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, false, ErrIdentityConflict
		}
		return nil, false, err
	}

	existing, err := s.findForRegister(ctx, authUserID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	user = &ChurchUser{
		ID:         uuid.NewString(),
		AuthUserID: authUserID,
		Email:      input.Email,
		Name:       input.Name,
		Role:       RoleUser,
	}
	if err := user.Validate(); err != nil {
		return nil, false, err
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		if !storeerr.IsConflict(err) {
			return nil, false, fmt.Errorf("insert church user: %w", err)
		}
		// Lost a race with a concurrent registration for the same identity.
		existing, err := s.findForRegister(ctx, authUserID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("%w: church user vanished after conflict", ErrTemporarilyUnavailable)
		}
		return existing, false, nil
	}
	s.cache.DeleteByAuthID(authUserID)

	event := UserRegistered{ChurchUserID: user.ID, Email: user.Email, OccurredAt: s.now()}
	if err := s.events.Publish(ctx, EventUserRegistered, event); err != nil {
		logger.FromContext(ctx, s.log).Warn("churchuser.register: publish event failed", "err", err, "church_user_id", user.ID)
	}
	return user, true, nil
}

func (s *Service) normalizeRegister(input RegisterInput) (RegisterInput, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.Join(strings.Fields(input.Name), " ")

	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return input, fmt.Errorf("%w: valid email is required", ErrInvalidRegistration)
	}
	if len([]rune(input.Password)) < s.minPassword {
		return input, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRegistration, s.minPassword)
	}
	if input.Name == "" {
		input.Name = input.Email
	}
	return input, nil
}

func (s *Service) findForRegister(ctx context.Context, authUserID string) (*ChurchUser, error) {
	user, err := retry.Do(ctx, s.policy, "churchuser.register_lookup", func(ctx context.Context) (*ChurchUser, error) {
		return s.repo.FindByAuthID(ctx, authUserID)
	})
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, ErrChurchUserNotFound) || storeerr.IsNotFound(err):
		return nil, nil
	case retry.IsExhausted(err):
		return nil, fmt.Errorf("%w: %w", ErrTemporarilyUnavailable, err)
	default:
		return nil, fmt.Errorf("lookup church user: %w", err)
	}
}
