package churchuser

import (
	"context"
	"time"
)

const (
	EventPastorUnassigned = "pastor.unassigned"
	EventUserRegistered   = "church_user.registered"
)

type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

type PastorUnassigned struct {
	ChurchUserID string    `json:"church_user_id"`
	ChurchID     string    `json:"church_id"`
	UnassignedBy string    `json:"unassigned_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type UserRegistered struct {
	ChurchUserID string    `json:"church_user_id"`
	Email        string    `json:"email"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error {
	return nil
}
