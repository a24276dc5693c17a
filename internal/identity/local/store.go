package local

import (
	"context"
	"time"
)

// Credential is a locally managed login identity.
type Credential struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"not null;uniqueIndex"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Credential) TableName() string {
	return "identities"
}

// Store persists credentials. Errors carry storeerr kinds; a taken email is a conflict.
type Store interface {
	CreateCredential(ctx context.Context, credential *Credential) error
	GetCredentialByEmail(ctx context.Context, email string) (*Credential, error)
}
