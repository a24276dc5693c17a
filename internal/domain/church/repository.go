package church

import "context"

type Repository interface {
	Create(ctx context.Context, church *Church) error
	Get(ctx context.Context, id string) (*Church, error)
	GetByName(ctx context.Context, name string) (*Church, error)
	List(ctx context.Context, churchID string) ([]WithMemberCount, error)
	Update(ctx context.Context, church *Church) error
	Delete(ctx context.Context, id string) error
}
