package preferences

import "context"

type Repository interface {
	GetDashboard(ctx context.Context, userID string) (*Dashboard, error)
	SaveDashboard(ctx context.Context, dashboard *Dashboard) error
}
