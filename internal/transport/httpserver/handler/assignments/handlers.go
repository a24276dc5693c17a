package assignments

import (
	"context"

	assignmentdomain "church-admin-go/internal/domain/assignment"
	churchuserdomain "church-admin-go/internal/domain/churchuser"
	"church-admin-go/pkg/logger"
)

type Coordinator interface {
	CreatePendingAssignment(ctx context.Context, churchID, pastorName, createdByAdminID string) (*assignmentdomain.PendingAssignment, error)
	ListPendingAssignments(ctx context.Context) (assignmentdomain.PendingList, error)
	ListAssignments(ctx context.Context, filter assignmentdomain.ListFilter) ([]assignmentdomain.PendingAssignment, error)
	CancelPendingAssignment(ctx context.Context, id string) error
	CompleteRegistration(ctx context.Context, input assignmentdomain.RegistrationInput) (*churchuserdomain.ChurchUser, error)
}

type Handlers struct {
	Assignments Coordinator
	log         logger.Logger
}

func New(assignments Coordinator, log logger.Logger) *Handlers {
	return &Handlers{
		Assignments: assignments,
		log:         log,
	}
}
