package church

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"church-admin-go/internal/domain/churchuser"
	"church-admin-go/pkg/storeerr"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every church for admins and only the bound church for pastors.
func (s *Service) List(ctx context.Context, actor churchuser.ChurchUser) ([]WithMemberCount, error) {
	switch {
	case actor.IsAdmin():
		return s.repo.List(ctx, "")
	case actor.IsPastor():
		return s.repo.List(ctx, *actor.ChurchID)
	default:
		return []WithMemberCount{}, nil
	}
}

func (s *Service) Get(ctx context.Context, actor churchuser.ChurchUser, id string) (*Church, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrChurchNotFound
	}
	if !actor.CanManageChurch(id) {
		return nil, ErrForbidden
	}
	return s.get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor churchuser.ChurchUser, input Input) (*Church, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	church := Church{ID: uuid.NewString()}
	applyInput(&church, input)
	if err := s.repo.Create(ctx, &church); err != nil {
		return nil, fmt.Errorf("create church: %w", err)
	}
	return &church, nil
}

// EnsureByName returns the church with the given name, creating it from input when absent.
func (s *Service) EnsureByName(ctx context.Context, input Input) (*Church, bool, error) {
	if err := validateInput(input); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.GetByName(ctx, strings.TrimSpace(input.Name))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrChurchNotFound) && !storeerr.IsNotFound(err) {
		return nil, false, err
	}

	church := Church{ID: uuid.NewString()}
	applyInput(&church, input)
	if err := s.repo.Create(ctx, &church); err != nil {
		return nil, false, fmt.Errorf("create church: %w", err)
	}
	return &church, true, nil
}

func (s *Service) Update(ctx context.Context, actor churchuser.ChurchUser, id string, input Input) (*Church, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrChurchNotFound
	}
	if !actor.CanManageChurch(id) {
		return nil, ErrForbidden
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	church, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(church, input)
	if err := s.repo.Update(ctx, church); err != nil {
		if storeerr.IsNotFound(err) {
			return nil, ErrChurchNotFound
		}
		return nil, fmt.Errorf("update church: %w", err)
	}
	return church, nil
}

func (s *Service) Delete(ctx context.Context, actor churchuser.ChurchUser, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrChurchNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if storeerr.IsNotFound(err) {
			return ErrChurchNotFound
		}
		return fmt.Errorf("delete church: %w", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string) (*Church, error) {
	church, err := s.repo.Get(ctx, id)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, ErrChurchNotFound
		}
		return nil, err
	}
	return church, nil
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidChurch)
	}
	if input.Attendance < 0 {
		return fmt.Errorf("%w: attendance must not be negative", ErrInvalidChurch)
	}
	if input.Tithes < 0 {
		return fmt.Errorf("%w: tithes must not be negative", ErrInvalidChurch)
	}
	return nil
}

func applyInput(church *Church, input Input) {
	church.Name = strings.TrimSpace(input.Name)
	church.Location = strings.TrimSpace(input.Location)
	church.PastorName = strings.TrimSpace(input.PastorName)
	church.PastorPhone = strings.TrimSpace(input.PastorPhone)
	church.PastorEmail = strings.ToLower(strings.TrimSpace(input.PastorEmail))
	church.PastorPhotoURL = strings.TrimSpace(input.PastorPhotoURL)
	church.Attendance = input.Attendance
	church.Tithes = input.Tithes
}
