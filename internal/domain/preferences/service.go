package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"church-admin-go/pkg/storeerr"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard returns saved visibility merged over the defaults. Keys no longer
// known are dropped.
func (s *Service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	widgets := DefaultWidgets()
	result := &Dashboard{UserID: userID, Widgets: widgets}

	saved, err := s.repo.GetDashboard(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrPreferencesNotFound) || storeerr.IsNotFound(err) {
			return result, nil
		}
		return nil, fmt.Errorf("get dashboard preferences: %w", err)
	}

	for key, visible := range saved.Widgets {
		if IsWidget(key) {
			widgets[key] = visible
		}
	}
	result.UpdatedAt = saved.UpdatedAt
	return result, nil
}

// UpdateDashboard applies changes on top of the current visibility and saves the result.
func (s *Service) UpdateDashboard(ctx context.Context, userID string, changes Widgets) (*Dashboard, error) {
	for key := range changes {
		if !IsWidget(key) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownWidget, key)
		}
	}

	current, err := s.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	for key, visible := range changes {
		current.Widgets[key] = visible
	}
	current.UpdatedAt = s.now()

	if err := s.repo.SaveDashboard(ctx, current); err != nil {
		return nil, fmt.Errorf("save dashboard preferences: %w", err)
	}
	return current, nil
}
