package church

import (
	"context"

	churchdomain "church-admin-go/internal/domain/church"
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

func (r *PostgresRepository) Create(ctx context.Context, church *churchdomain.Church) error {
	return pgerr.Classify("church.create", r.db.WithContext(ctx).Create(church).Error)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*churchdomain.Church, error) {
	var church churchdomain.Church
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&church).Error; err != nil {
		return nil, pgerr.Classify("church.get", err)
	}
	return &church, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*churchdomain.Church, error) {
	var church churchdomain.Church
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("created_at asc").First(&church).Error; err != nil {
		return nil, pgerr.Classify("church.get_by_name", err)
	}
	return &church, nil
}

func (r *PostgresRepository) List(ctx context.Context, churchID string) ([]churchdomain.WithMemberCount, error) {
	return ListWithMemberCounts(ctx, r.db, churchID)
}

func (r *PostgresRepository) Update(ctx context.Context, church *churchdomain.Church) error {
	result := r.db.WithContext(ctx).
		Model(&churchdomain.Church{}).
		Where("id = ?", church.ID).
		Updates(map[string]interface{}{
			"name":             church.Name,
			"location":         church.Location,
			"pastor_name":      church.PastorName,
			"pastor_phone":     church.PastorPhone,
			"pastor_email":     church.PastorEmail,
			"pastor_photo_url": church.PastorPhotoURL,
			"attendance":       church.Attendance,
			"tithes":           church.Tithes,
			"updated_at":       gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return pgerr.Classify("church.update", result.Error)
	}
	if result.RowsAffected == 0 {
		return storeerr.NotFound("church.update", churchdomain.ErrChurchNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&churchdomain.Church{}, "id = ?", id)
	if result.Error != nil {
		return pgerr.Classify("church.delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return storeerr.NotFound("church.delete", churchdomain.ErrChurchNotFound)
	}
	return nil
}

// ListWithMemberCounts lists churches ordered by name with their member
// counts. An empty churchID lists every church.
func ListWithMemberCounts(ctx context.Context, db *gorm.DB, churchID string) ([]churchdomain.WithMemberCount, error) {
	query := db.WithContext(ctx).
		Table("churches").
		Select("churches.*, COUNT(members.id) AS member_count").
		Joins("left join members on members.church_id = churches.id").
		Group("churches.id").
		Order("churches.name asc")
	if churchID != "" {
		query = query.Where("churches.id = ?", churchID)
	}

	var rows []churchdomain.WithMemberCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, pgerr.Classify("church.list", err)
	}
	if rows == nil {
		rows = []churchdomain.WithMemberCount{}
	}
	return rows, nil
}
