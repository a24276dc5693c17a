package assignment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"church-admin-go/internal/domain/church"
	"church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/identity"
	"church-admin-go/pkg/logger"
	"church-admin-go/pkg/retry"
	"church-admin-go/pkg/storeerr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMinPasswordLength = 6
	defaultJoinParallelism   = 8
)

// Service coordinates pending pastor assignments and the registration flow
// that turns one into an active pastor binding.
type Service struct {
	repo         Repository
	identities   IdentityGateway
	log          logger.Logger
	policy       retry.Policy
	events       EventPublisher
	metrics      Metrics
	now          func() time.Time
	minPassword  int
	joinParallel int
	onBound      func(authUserID string)
}

type Option func(*Service)

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

func WithMetrics(metrics Metrics) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
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

func WithMinPasswordLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPassword = n
		}
	}
}

func WithJoinParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.joinParallel = n
		}
	}
}

// WithBindingHook registers a callback run after a church user was bound to a
// church, typically to drop cached lookups for that identity.
func WithBindingHook(fn func(authUserID string)) Option {
	return func(s *Service) {
		s.onBound = fn
	}
}

func NewService(repo Repository, identities IdentityGateway, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		identities:   identities,
		log:          log,
		policy:       retry.DefaultPolicy(),
		events:       noopPublisher{},
		metrics:      noopMetrics{},
		now:          func() time.Time { return time.Now().UTC() },
		minPassword:  defaultMinPasswordLength,
		joinParallel: defaultJoinParallelism,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePendingAssignment records an admin's intent to bind pastorName to a
// church. Uniqueness of pending rows is left to the store.
func (s *Service) CreatePendingAssignment(ctx context.Context, churchID, pastorName, createdByAdminID string) (result *PendingAssignment, err error) {
	start := time.Now()
	defer func() { s.observe("create", err, start) }()

	churchID = strings.TrimSpace(churchID)
	if _, err := uuid.Parse(churchID); err != nil {
		return nil, ErrChurchNotFound
	}
	pastorName = NormalizeName(pastorName)
	if pastorName == "" {
		return nil, fmt.Errorf("%w: pastor name is required", ErrInvalidInput)
	}

	summary, err := retry.Do(ctx, s.policy, "assignment.get_church", func(ctx context.Context) (*church.Summary, error) {
		return s.repo.GetChurch(ctx, churchID)
	})
	if err != nil {
		return nil, s.readError("get church", err, ErrChurchNotFound)
	}

	assignment := PendingAssignment{
		ID:         uuid.NewString(),
		ChurchID:   churchID,
		PastorName: pastorName,
		Status:     StatusPending,
		CreatedBy:  createdByAdminID,
		CreatedAt:  s.now(),
	}
	if err := s.repo.InsertPendingAssignment(ctx, &assignment); err != nil {
		switch {
		case storeerr.IsConflict(err):
			return nil, fmt.Errorf("%w: %w", ErrDuplicateAssignment, err)
		case storeerr.IsNotFound(err):
			return nil, fmt.Errorf("%w: %w", ErrChurchNotFound, err)
		default:
			return nil, fmt.Errorf("insert pending assignment: %w", err)
		}
	}
	assignment.Church = summary

	s.publish(ctx, EventCreated, Event{
		AssignmentID: assignment.ID,
		ChurchID:     assignment.ChurchID,
		PastorName:   assignment.PastorName,
		Status:       assignment.Status,
		OccurredAt:   assignment.CreatedAt,
	})
	return &assignment, nil
}

// ListPendingAssignments never fails on transient store errors. When reads
// keep failing the result is empty and marked Unavailable. Rows whose church
// cannot be loaded are kept with a nil Church.
func (s *Service) ListPendingAssignments(ctx context.Context) (result PendingList, err error) {
	start := time.Now()
	defer func() {
		if err == nil && result.Unavailable {
			s.metrics.ObserveOperation("list_pending", "degraded", time.Since(start))
			return
		}
		s.observe("list_pending", err, start)
	}()

	rows, err := retry.Do(ctx, s.policy, "assignment.list_pending", func(ctx context.Context) ([]PendingAssignment, error) {
		return s.repo.ListPendingAssignments(ctx, ListFilter{Status: StatusPending})
	})
	if err != nil {
		if retry.IsExhausted(err) {
			logger.FromContext(ctx, s.log).Warn("assignment.list_pending: store unavailable", "err", err)
			return PendingList{Items: []PendingAssignment{}, Unavailable: true}, nil
		}
		return PendingList{}, fmt.Errorf("list pending assignments: %w", err)
	}

	s.attachChurches(ctx, rows)
	sortByPastorName(rows)
	return PendingList{Items: rows}, nil
}

// ListAssignments returns assignments in any status for the admin overview.
func (s *Service) ListAssignments(ctx context.Context, filter ListFilter) ([]PendingAssignment, error) {
	switch filter.Status {
	case "", StatusPending, StatusCompleted, StatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	if filter.ChurchID != "" {
		if _, err := uuid.Parse(filter.ChurchID); err != nil {
			return []PendingAssignment{}, nil
		}
	}

	rows, err := retry.Do(ctx, s.policy, "assignment.list", func(ctx context.Context) ([]PendingAssignment, error) {
		return s.repo.ListPendingAssignments(ctx, filter)
	})
	if err != nil {
		return nil, s.readError("list assignments", err, nil)
	}

	s.attachChurches(ctx, rows)
	sortByPastorName(rows)
	return rows, nil
}

// CancelPendingAssignment moves a pending assignment to cancelled. Terminal
// rows are reported as not found.
func (s *Service) CancelPendingAssignment(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("cancel", err, start) }()

	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return ErrAssignmentNotFound
	}

	cancelledAt := s.now()
	err = s.repo.UpdateAssignmentStatus(ctx, id, StatusUpdate{
		Status:      StatusCancelled,
		CancelledAt: &cancelledAt,
	})
	if err != nil {
		if storeerr.IsNotFound(err) || errors.Is(err, ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("cancel assignment: %w", err)
	}

	s.publish(ctx, EventCancelled, Event{
		AssignmentID: id,
		Status:       StatusCancelled,
		OccurredAt:   cancelledAt,
	})
	return nil
}

// CompleteRegistration reconciles a pending assignment with an auth identity.
// Only the church user upsert has to succeed; the church pointer and the
// completion marker are logged and skipped on failure. Re-running after a
// partial failure converges on the same church user row.
func (s *Service) CompleteRegistration(ctx context.Context, input RegistrationInput) (result *churchuser.ChurchUser, err error) {
	start := time.Now()
	defer func() { s.observe("complete", err, start) }()

	input, err = s.normalizeRegistration(input)
	if err != nil {
		return nil, err
	}

	assignment, err := s.resolvePending(ctx, input.AssignmentID)
	if err != nil {
		return nil, err
	}

	authUserID, err := s.obtainIdentity(ctx, input)
	if err != nil {
		return nil, err
	}

	existing, err := s.findChurchUser(ctx, authUserID)
	if err != nil {
		return nil, err
	}

	churchID := assignment.ChurchID
	user := &churchuser.ChurchUser{
		ID:         uuid.NewString(),
		AuthUserID: authUserID,
		Email:      input.Email,
		Name:       input.Name,
		Role:       churchuser.RolePastor,
		ChurchID:   &churchID,
	}
	if existing != nil {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertChurchUser(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert church user: %w", err)
	}
	if s.onBound != nil {
		s.onBound(authUserID)
	}

	log := logger.FromContext(ctx, s.log).With("assignment_id", assignment.ID, "church_id", churchID, "church_user_id", user.ID)

	if err := s.repo.UpdateChurchPastor(ctx, churchID, user.ID); err != nil {
		s.metrics.BestEffortFailed(StepChurchPointer)
		log.Warn("assignment.complete: church pointer update failed", "err", err, "step", StepChurchPointer)
	}

	completedAt := s.now()
	email := input.Email
	err = s.repo.UpdateAssignmentStatus(ctx, assignment.ID, StatusUpdate{
		Status:      StatusCompleted,
		PastorEmail: &email,
		CompletedAt: &completedAt,
	})
	if err != nil {
		s.metrics.BestEffortFailed(StepMarkCompleted)
		log.Warn("assignment.complete: completion marker failed", "err", err, "step", StepMarkCompleted)
		return user, nil
	}

	s.publish(ctx, EventCompleted, Event{
		AssignmentID: assignment.ID,
		ChurchID:     churchID,
		PastorName:   assignment.PastorName,
		PastorEmail:  email,
		ChurchUserID: user.ID,
		Status:       StatusCompleted,
		OccurredAt:   completedAt,
	})
	return user, nil
}

func (s *Service) normalizeRegistration(input RegistrationInput) (RegistrationInput, error) {
	input.AssignmentID = strings.TrimSpace(input.AssignmentID)
	input.Name = NormalizeName(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" {
		return input, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return input, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len([]rune(input.Password)) < s.minPassword {
		return input, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, s.minPassword)
	}
	return input, nil
}

func (s *Service) resolvePending(ctx context.Context, id string) (*PendingAssignment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAssignmentNotFound
	}

	assignment, err := retry.Do(ctx, s.policy, "assignment.get", func(ctx context.Context) (*PendingAssignment, error) {
		return s.repo.GetAssignment(ctx, id)
	})
	if err != nil {
		return nil, s.readError("get assignment", err, ErrAssignmentNotFound)
	}
	if assignment.Status != StatusPending {
		return nil, ErrAssignmentNotFound
	}
	return assignment, nil
}

// obtainIdentity creates an identity for the email or reuses an existing one
// when the password matches. Credentials are never overwritten.
func (s *Service) obtainIdentity(ctx context.Context, input RegistrationInput) (string, error) {
	authUserID, _, err := identity.CreateOrAuthenticate(ctx, s.identities, input.Email, input.Password, input.Name)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return "", ErrIdentityConflict
	}
	return authUserID, err
}

// findChurchUser returns the church user already bound to authUserID, or nil.
func (s *Service) findChurchUser(ctx context.Context, authUserID string) (*churchuser.ChurchUser, error) {
	user, err := retry.Do(ctx, s.policy, "assignment.find_church_user", func(ctx context.Context) (*churchuser.ChurchUser, error) {
		return s.repo.FindChurchUserByAuthID(ctx, authUserID)
	})
	if err == nil {
		return user, nil
	}
	if storeerr.IsNotFound(err) || errors.Is(err, churchuser.ErrChurchUserNotFound) {
		return nil, nil
	}
	return nil, s.readError("find church user", err, nil)
}

// attachChurches fills Church on each row. Lookups run concurrently and a
// failed lookup leaves the row without a church.
func (s *Service) attachChurches(ctx context.Context, rows []PendingAssignment) {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ChurchID]; ok {
			continue
		}
		seen[row.ChurchID] = struct{}{}
		ids = append(ids, row.ChurchID)
	}

	summaries := make([]*church.Summary, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.joinParallel)
	for i, id := range ids {
		g.Go(func() error {
			summary, err := retry.Do(gctx, s.policy, "assignment.join_church", func(ctx context.Context) (*church.Summary, error) {
				return s.repo.GetChurch(ctx, id)
			})
			if err != nil {
				logger.FromContext(ctx, s.log).Debug("assignment.list: church join skipped", "church_id", id, "err", err)
				return nil
			}
			summaries[i] = summary
			return nil
		})
	}
	_ = g.Wait()

	byID := make(map[string]*church.Summary, len(ids))
	for i, id := range ids {
		if summaries[i] != nil {
			byID[id] = summaries[i]
		}
	}
	for i := range rows {
		if summary, ok := byID[rows[i].ChurchID]; ok {
			clone := *summary
			rows[i].Church = &clone
		}
	}
}

// readError maps a failed retried read. notFound replaces store not-found
// errors when set.
func (s *Service) readError(op string, err error, notFound error) error {
	switch {
	case notFound != nil && storeerr.IsNotFound(err):
		return notFound
	case retry.IsExhausted(err):
		return fmt.Errorf("%w: %s: %w", ErrTemporarilyUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *Service) publish(ctx context.Context, event string, payload Event) {
	if err := s.events.Publish(ctx, event, payload); err != nil {
		logger.FromContext(ctx, s.log).Warn("assignment.events: publish failed", "err", err, "event", event, "assignment_id", payload.AssignmentID)
	}
}

func (s *Service) observe(op string, err error, start time.Time) {
	s.metrics.ObserveOperation(op, outcomeOf(err), time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDuplicateAssignment):
		return "duplicate"
	case errors.Is(err, ErrAssignmentNotFound), errors.Is(err, ErrChurchNotFound):
		return "not_found"
	case errors.Is(err, ErrIdentityConflict):
		return "identity_conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrTemporarilyUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// NormalizeName trims a person name and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func sortByPastorName(rows []PendingAssignment) {
	slices.SortStableFunc(rows, func(a, b PendingAssignment) int {
		return strings.Compare(a.PastorName, b.PastorName)
	})
}
