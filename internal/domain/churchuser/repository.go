package churchuser

import "context"

type Repository interface {
	FindByAuthID(ctx context.Context, authUserID string) (*ChurchUser, error)
	GetByID(ctx context.Context, id string) (*ChurchUser, error)
	ListPastors(ctx context.Context) ([]Pastor, error)
	Upsert(ctx context.Context, user *ChurchUser) error
	// Insert stores a new record and reports a conflict when auth_user_id is
	// already bound. Existing rows are never touched.
	Insert(ctx context.Context, user *ChurchUser) error
	// Unassign demotes the user to RoleUser, clears its church and any church
	// pointer that references it.
	Unassign(ctx context.Context, id string) error
}
