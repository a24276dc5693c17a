package assignment

import (
	"context"

	"church-admin-go/internal/domain/church"
	"church-admin-go/internal/domain/churchuser"
)

// Repository is the persistence contract of the coordinator. Every error is
// expected to carry a storeerr kind so reads can be retried safely.
type Repository interface {
	// InsertPendingAssignment fails with a conflict when a pending row for the
	// same church and pastor name exists.
	InsertPendingAssignment(ctx context.Context, assignment *PendingAssignment) error
	ListPendingAssignments(ctx context.Context, filter ListFilter) ([]PendingAssignment, error)
	GetAssignment(ctx context.Context, id string) (*PendingAssignment, error)
	// UpdateAssignmentStatus only touches rows that are still pending and
	// fails with not found otherwise.
	UpdateAssignmentStatus(ctx context.Context, id string, update StatusUpdate) error
	FindChurchUserByAuthID(ctx context.Context, authUserID string) (*churchuser.ChurchUser, error)
	// UpsertChurchUser inserts or updates by auth user id and fills user.ID.
	UpsertChurchUser(ctx context.Context, user *churchuser.ChurchUser) error
	UpdateChurchPastor(ctx context.Context, churchID, churchUserID string) error
	GetChurch(ctx context.Context, id string) (*church.Summary, error)
}

type IdentityGateway interface {
	CreateIdentity(ctx context.Context, email, password, name string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
}
