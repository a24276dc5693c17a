package member

import "context"

type Repository interface {
	Create(ctx context.Context, member *Member) error
	Get(ctx context.Context, id string) (*Member, error)
	// List returns members matching filter, newest first.
	List(ctx context.Context, filter Filter) ([]Member, error)
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id string) error
}
