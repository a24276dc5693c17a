package member

import (
	"context"
	"fmt"
	"strings"

	"church-admin-go/internal/domain/churchuser"
	"church-admin-go/pkg/storeerr"
	"github.com/google/uuid"
)

// Query is the caller facing search over members.
type Query struct {
	ChurchID string
	Search   string
	Genders  []string
	Role     string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, actor churchuser.ChurchUser, query Query) ([]Member, error) {
	filter, err := buildFilter(actor, query)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return []Member{}, nil
	}
	return s.repo.List(ctx, *filter)
}

func (s *Service) Get(ctx context.Context, actor churchuser.ChurchUser, id string) (*Member, error) {
	member, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageChurch(member.ChurchID) {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *Service) Create(ctx context.Context, actor churchuser.ChurchUser, input Input) (*Member, error) {
	if actor.IsPastor() && strings.TrimSpace(input.ChurchID) == "" {
		input.ChurchID = *actor.ChurchID
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !actor.CanManageChurch(input.ChurchID) {
		return nil, ErrForbidden
	}

	member := Member{ID: uuid.NewString()}
	applyInput(&member, input)
	if err := s.repo.Create(ctx, &member); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return &member, nil
}

func (s *Service) Update(ctx context.Context, actor churchuser.ChurchUser, id string, input Input) (*Member, error) {
	member, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ChurchID) == "" {
		input.ChurchID = member.ChurchID
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !actor.CanManageChurch(input.ChurchID) {
		return nil, ErrForbidden
	}

	applyInput(member, input)
	if err := s.repo.Update(ctx, member); err != nil {
		if storeerr.IsNotFound(err) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	return member, nil
}

func (s *Service) Delete(ctx context.Context, actor churchuser.ChurchUser, id string) error {
	member, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, member.ID); err != nil {
		if storeerr.IsNotFound(err) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string) (*Member, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrMemberNotFound
	}
	member, err := s.repo.Get(ctx, id)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// buildFilter scopes the query to the actor. A nil filter means the actor
// can see no members at all.
func buildFilter(actor churchuser.ChurchUser, query Query) (*Filter, error) {
	filter := NewFilter()

	switch {
	case actor.IsAdmin():
		if churchID := strings.TrimSpace(query.ChurchID); churchID != "" {
			if _, err := uuid.Parse(churchID); err != nil {
				return nil, fmt.Errorf("%w: invalid church id", ErrInvalidFilter)
			}
			filter = filter.With(Equals(FieldChurchID, churchID))
		}
	case actor.IsPastor():
		filter = filter.With(Equals(FieldChurchID, *actor.ChurchID))
	default:
		return nil, nil
	}

	if search := strings.TrimSpace(query.Search); search != "" {
		filter = filter.With(Contains(search, FieldName, FieldEmail, FieldPhone))
	}
	if len(query.Genders) > 0 {
		genders := make([]string, 0, len(query.Genders))
		for _, gender := range query.Genders {
			gender = strings.ToLower(strings.TrimSpace(gender))
			if gender != "" {
				genders = append(genders, gender)
			}
		}
		if len(genders) > 0 {
			filter = filter.With(In(FieldGender, genders...))
		}
	}
	if role := strings.TrimSpace(query.Role); role != "" {
		filter = filter.With(Equals(FieldRole, role))
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return &filter, nil
}

func validateInput(input Input) error {
	if _, err := uuid.Parse(strings.TrimSpace(input.ChurchID)); err != nil {
		return fmt.Errorf("%w: church is required", ErrInvalidMember)
	}
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMember)
	}
	if input.Age != nil && (*input.Age < 0 || *input.Age > 150) {
		return fmt.Errorf("%w: age out of range", ErrInvalidMember)
	}
	switch strings.ToLower(strings.TrimSpace(input.Gender)) {
	case "", GenderMale, GenderFemale:
	default:
		return fmt.Errorf("%w: unknown gender", ErrInvalidMember)
	}
	return nil
}

func applyInput(member *Member, input Input) {
	member.ChurchID = strings.TrimSpace(input.ChurchID)
	member.Name = strings.TrimSpace(input.Name)
	member.Age = input.Age
	member.Gender = strings.ToLower(strings.TrimSpace(input.Gender))
	member.Role = strings.TrimSpace(input.Role)
	member.Phone = strings.TrimSpace(input.Phone)
	member.Email = strings.ToLower(strings.TrimSpace(input.Email))
}
