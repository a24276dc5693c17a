package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	preferencesdomain "church-admin-go/internal/domain/preferences"
	"church-admin-go/internal/repository/postgres/pgerr"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type dashboardRow struct {
	UserID    string         `gorm:"column:user_id;primaryKey"`
	Widgets   datatypes.JSON `gorm:"column:widgets;type:jsonb"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (dashboardRow) TableName() string {
	return "dashboard_preferences"
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetDashboard(ctx context.Context, userID string) (*preferencesdomain.Dashboard, error) {
	var row dashboardRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, pgerr.Classify("preferences.get", err)
	}

	widgets := preferencesdomain.Widgets{}
	if len(row.Widgets) > 0 {
		if err := json.Unmarshal(row.Widgets, &widgets); err != nil {
			return nil, fmt.Errorf("decode widgets: %w", err)
		}
	}
	return &preferencesdomain.Dashboard{
		UserID:    row.UserID,
		Widgets:   widgets,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *PostgresRepository) SaveDashboard(ctx context.Context, dashboard *preferencesdomain.Dashboard) error {
	payload, err := json.Marshal(dashboard.Widgets)
	if err != nil {
		return fmt.Errorf("encode widgets: %w", err)
	}

	row := dashboardRow{
		UserID:    dashboard.UserID,
		Widgets:   datatypes.JSON(payload),
		UpdatedAt: dashboard.UpdatedAt,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"widgets", "updated_at"}),
		}).
		Create(&row).Error
	return pgerr.Classify("preferences.save", err)
}
