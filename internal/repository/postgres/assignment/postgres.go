package assignment

import (
	"context"

	assignmentdomain "church-admin-go/internal/domain/assignment"
	churchdomain "church-admin-go/internal/domain/church"
	churchuserdomain "church-admin-go/internal/domain/churchuser"
	churchuserrepo "church-admin-go/internal/repository/postgres/churchuser"
	"church-admin-go/internal/repository/postgres/pgerr"
	"church-admin-go/pkg/storeerr"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertPendingAssignment(ctx context.Context, assignment *assignmentdomain.PendingAssignment) error {
	return pgerr.Classify("assignment.insert", r.db.WithContext(ctx).Create(assignment).Error)
}

func (r *PostgresRepository) ListPendingAssignments(ctx context.Context, filter assignmentdomain.ListFilter) ([]assignmentdomain.PendingAssignment, error) {
	query := r.db.WithContext(ctx).Model(&assignmentdomain.PendingAssignment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ChurchID != "" {
		query = query.Where("church_id = ?", filter.ChurchID)
	}

	var rows []assignmentdomain.PendingAssignment
	if err := query.Order("pastor_name asc, created_at asc").Find(&rows).Error; err != nil {
		return nil, pgerr.Classify("assignment.list", err)
	}
	if rows == nil {
		rows = []assignmentdomain.PendingAssignment{}
	}
	return rows, nil
}

func (r *PostgresRepository) GetAssignment(ctx context.Context, id string) (*assignmentdomain.PendingAssignment, error) {
	var assignment assignmentdomain.PendingAssignment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error; err != nil {
		return nil, pgerr.Classify("assignment.get", err)
	}
	return &assignment, nil
}

func (r *PostgresRepository) UpdateAssignmentStatus(ctx context.Context, id string, update assignmentdomain.StatusUpdate) error {
	fields := map[string]interface{}{
		"status": update.Status,
	}
	if update.PastorEmail != nil {
		fields["pastor_email"] = *update.PastorEmail
	}
	if update.CompletedAt != nil {
		fields["completed_at"] = *update.CompletedAt
	}
	if update.CancelledAt != nil {
		fields["cancelled_at"] = *update.CancelledAt
	}

	result := r.db.WithContext(ctx).
		Model(&assignmentdomain.PendingAssignment{}).
		Where("id = ? AND status = ?", id, assignmentdomain.StatusPending).
		Updates(fields)
	if result.Error != nil {
		return pgerr.Classify("assignment.update_status", result.Error)
	}
	if result.RowsAffected == 0 {
		return storeerr.NotFound("assignment.update_status", assignmentdomain.ErrAssignmentNotFound)
	}
	return nil
}

func (r *PostgresRepository) FindChurchUserByAuthID(ctx context.Context, authUserID string) (*churchuserdomain.ChurchUser, error) {
	return churchuserrepo.FindByAuthID(ctx, r.db, authUserID)
}

func (r *PostgresRepository) UpsertChurchUser(ctx context.Context, user *churchuserdomain.ChurchUser) error {
	return churchuserrepo.Upsert(ctx, r.db, user)
}

func (r *PostgresRepository) UpdateChurchPastor(ctx context.Context, churchID, churchUserID string) error {
	result := r.db.WithContext(ctx).
		Model(&churchdomain.Church{}).
		Where("id = ?", churchID).
		Updates(map[string]interface{}{
			"pastor_user_id": churchUserID,
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return pgerr.Classify("church.update_pastor", result.Error)
	}
	if result.RowsAffected == 0 {
		return storeerr.NotFound("church.update_pastor", churchdomain.ErrChurchNotFound)
	}
	return nil
}

func (r *PostgresRepository) GetChurch(ctx context.Context, id string) (*churchdomain.Summary, error) {
	var summary churchdomain.Summary
	result := r.db.WithContext(ctx).
		Table("churches").
		Select("id, name, location").
		Where("id = ?", id).
		Limit(1).
		Scan(&summary)
	if result.Error != nil {
		return nil, pgerr.Classify("church.get_summary", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, storeerr.NotFound("church.get_summary", churchdomain.ErrChurchNotFound)
	}
	return &summary, nil
}
