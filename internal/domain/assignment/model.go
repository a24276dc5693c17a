package assignment

import (
	"time"

	"church-admin-go/internal/domain/church"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type PendingAssignment struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	ChurchID    string          `gorm:"type:uuid;not null" json:"church_id"`
	PastorName  string          `gorm:"not null" json:"pastor_name"`
	PastorEmail *string         `json:"pastor_email"`
	Status      string          `gorm:"type:varchar(16);not null" json:"status"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	CancelledAt *time.Time      `json:"cancelled_at"`
	Church      *church.Summary `gorm:"-" json:"church"`
}

func (PendingAssignment) TableName() string {
	return "pending_pastor_assignments"
}

// PendingList is the result of listing pending assignments. Unavailable is set
// when the store could not be read after retries; Items is then empty.
type PendingList struct {
	Items       []PendingAssignment
	Unavailable bool
}

type RegistrationInput struct {
	AssignmentID string
	Name         string
	Email        string
	Password     string
}

type ListFilter struct {
	Status   string
	ChurchID string
}

// StatusUpdate moves a pending assignment to a terminal status.
type StatusUpdate struct {
	Status      string
	PastorEmail *string
	CompletedAt *time.Time
	CancelledAt *time.Time
}
