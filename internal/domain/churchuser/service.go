package churchuser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"church-admin-go/internal/identity"
	"church-admin-go/pkg/logger"
	"church-admin-go/pkg/retry"
	"church-admin-go/pkg/storeerr"
	"github.com/google/uuid"
)

const defaultCacheTTL = 30 * time.Second

type Service struct {
	repo        Repository
	cache       Cache
	cacheTTL    time.Duration
	policy      retry.Policy
	events      EventPublisher
	identities  identity.Registrar
	minPassword int
	log         logger.Logger
	now         func() time.Time
}

type Option func(*Service)

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithRetryPolicy(policy retry.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

func WithEvents(events EventPublisher) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		cache:       noopCache{},
		cacheTTL:    defaultCacheTTL,
		policy:      retry.DefaultPolicy(),
		events:      noopPublisher{},
		minPassword: defaultMinPasswordLength,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup resolves the church user bound to an auth identity. Transient store
// failures are retried; once retries are exhausted ErrTemporarilyUnavailable
// is returned so callers can ask the client to try again.
func (s *Service) Lookup(ctx context.Context, authUserID string) (*ChurchUser, error) {
	authUserID = strings.TrimSpace(authUserID)
	if authUserID == "" {
		return nil, ErrChurchUserNotFound
	}

	if cached, ok := s.cache.GetByAuthID(authUserID); ok {
		return cached, nil
	}

	user, err := retry.Do(ctx, s.policy, "churchuser.lookup", func(ctx context.Context) (*ChurchUser, error) {
		return s.repo.FindByAuthID(ctx, authUserID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrChurchUserNotFound) || storeerr.IsNotFound(err):
			return nil, ErrChurchUserNotFound
		case retry.IsExhausted(err):
			return nil, fmt.Errorf("%w: %w", ErrTemporarilyUnavailable, err)
		default:
			return nil, fmt.Errorf("lookup church user: %w", err)
		}
	}

	s.cache.SetByAuthID(authUserID, user, s.cacheTTL)
	return user, nil
}

// Invalidate drops any cached record for the auth identity.
func (s *Service) Invalidate(authUserID string) {
	s.cache.DeleteByAuthID(authUserID)
}

func (s *Service) ListPastors(ctx context.Context, actor ChurchUser) ([]Pastor, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return retry.Do(ctx, s.policy, "churchuser.list_pastors", func(ctx context.Context) ([]Pastor, error) {
		return s.repo.ListPastors(ctx)
	})
}

// UnassignPastor removes the church binding of a pastor. The record itself is kept.
func (s *Service) UnassignPastor(ctx context.Context, actor ChurchUser, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrChurchUserNotFound
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return ErrChurchUserNotFound
		}
		return err
	}
	if user.Role != RolePastor {
		return ErrNotPastor
	}

	if err := s.repo.Unassign(ctx, user.ID); err != nil {
		if storeerr.IsNotFound(err) {
			return ErrChurchUserNotFound
		}
		return fmt.Errorf("unassign pastor: %w", err)
	}
	s.cache.DeleteByAuthID(user.AuthUserID)

	event := PastorUnassigned{
		ChurchUserID: user.ID,
		UnassignedBy: actor.ID,
		OccurredAt:   s.now(),
	}
	if user.ChurchID != nil {
		event.ChurchID = *user.ChurchID
	}
	if err := s.events.Publish(ctx, EventPastorUnassigned, event); err != nil {
		logger.FromContext(ctx, s.log).Warn("churchuser.unassign: publish event failed", "err", err, "church_user_id", user.ID)
	}
	return nil
}

// EnsureAdmin creates or promotes the church user for authUserID to admin.
func (s *Service) EnsureAdmin(ctx context.Context, authUserID, email, name string) (*ChurchUser, error) {
	user := &ChurchUser{
		ID:         uuid.NewString(),
		AuthUserID: strings.TrimSpace(authUserID),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Name:       strings.TrimSpace(name),
		Role:       RoleAdmin,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	s.cache.DeleteByAuthID(user.AuthUserID)
	return user, nil
}
