package churchuser

import (
	"context"
	"errors"

	churchuserdomain "church-admin-go/internal/domain/churchuser"
	"church-admin-go/internal/repository/postgres/pgerr"
	"church-admin-go/pkg/storeerr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByAuthID(ctx context.Context, authUserID string) (*churchuserdomain.ChurchUser, error) {
	return FindByAuthID(ctx, r.db, authUserID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*churchuserdomain.ChurchUser, error) {
	var user churchuserdomain.ChurchUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, pgerr.Classify("churchuser.get", err)
	}
	return &user, nil
}

func (r *PostgresRepository) ListPastors(ctx context.Context) ([]churchuserdomain.Pastor, error) {
	var pastors []churchuserdomain.Pastor
	err := r.db.WithContext(ctx).
		Table("church_users").
		Select("church_users.*, COALESCE(churches.name, '') AS church_name").
		Joins("left join churches on churches.id = church_users.church_id").
		Where("church_users.role = ?", churchuserdomain.RolePastor).
		Order("church_users.name asc").
		Scan(&pastors).Error
	if err != nil {
		return nil, pgerr.Classify("churchuser.list_pastors", err)
	}
	if pastors == nil {
		pastors = []churchuserdomain.Pastor{}
	}
	return pastors, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, user *churchuserdomain.ChurchUser) error {
	return Upsert(ctx, r.db, user)
}

// Insert adds user unless a row for its auth_user_id already exists.
func (r *PostgresRepository) Insert(ctx context.Context, user *churchuserdomain.ChurchUser) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "auth_user_id"}},
			DoNothing: true,
		}).
		Create(user)
	if result.Error != nil {
		return pgerr.Classify("churchuser.insert", result.Error)
	}
	if result.RowsAffected == 0 {
		return storeerr.Conflict("churchuser.insert", errors.New("auth user already bound to a church user"))
	}
	return nil
}

func (r *PostgresRepository) Unassign(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&churchuserdomain.ChurchUser{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"role":       churchuserdomain.RoleUser,
				"church_id":  nil,
				"updated_at": gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return pgerr.Classify("churchuser.unassign", result.Error)
		}
		if result.RowsAffected == 0 {
			return storeerr.NotFound("churchuser.unassign", churchuserdomain.ErrChurchUserNotFound)
		}

		err := tx.Table("churches").
			Where("pastor_user_id = ?", id).
			Update("pastor_user_id", nil).Error
		return pgerr.Classify("churchuser.unassign_church", err)
	})
}

func FindByAuthID(ctx context.Context, db *gorm.DB, authUserID string) (*churchuserdomain.ChurchUser, error) {
	var user churchuserdomain.ChurchUser
	if err := db.WithContext(ctx).Where("auth_user_id = ?", authUserID).First(&user).Error; err != nil {
		return nil, pgerr.Classify("churchuser.find_by_auth_id", err)
	}
	return &user, nil
}

// Upsert writes user keyed by auth_user_id in one statement and reloads the
// stored row so user.ID reflects the surviving record.
func Upsert(ctx context.Context, db *gorm.DB, user *churchuserdomain.ChurchUser) error {
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "auth_user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"email":      gorm.Expr("EXCLUDED.email"),
				"name":       gorm.Expr("EXCLUDED.name"),
				"role":       gorm.Expr("EXCLUDED.role"),
				"church_id":  gorm.Expr("EXCLUDED.church_id"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(user).Error
	if err != nil {
		return pgerr.Classify("churchuser.upsert", err)
	}

	stored, err := FindByAuthID(ctx, db, user.AuthUserID)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}
