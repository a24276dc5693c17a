package identity

import (
	"context"

	"church-admin-go/internal/identity/local"
	"church-admin-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateCredential(ctx context.Context, credential *local.Credential) error {
	return pgerr.Classify("identity.create", r.db.WithContext(ctx).Create(credential).Error)
}

func (r *PostgresRepository) GetCredentialByEmail(ctx context.Context, email string) (*local.Credential, error) {
	var credential local.Credential
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&credential).Error; err != nil {
		return nil, pgerr.Classify("identity.get_by_email", err)
	}
	return &credential, nil
}
