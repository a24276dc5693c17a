package assignment

import (
	"context"
	"time"
)

const (
	EventCreated   = "assignment.created"
	EventCancelled = "assignment.cancelled"
	EventCompleted = "assignment.completed"
)

const (
	StepChurchPointer = "church_pointer"
	StepMarkCompleted = "mark_completed"
)

type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

type Metrics interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
	BestEffortFailed(step string)
}

// Event is the payload published for every assignment transition.
type Event struct {
	AssignmentID string    `json:"assignment_id"`
	ChurchID     string    `json:"church_id"`
	PastorName   string    `json:"pastor_name"`
	PastorEmail  string    `json:"pastor_email,omitempty"`
	ChurchUserID string    `json:"church_user_id,omitempty"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, string, time.Duration) {}

func (noopMetrics) BestEffortFailed(string) {}
