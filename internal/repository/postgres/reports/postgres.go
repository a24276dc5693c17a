package reports

import (
	"context"

	churchdomain "church-admin-go/internal/domain/church"
	reportsdomain "church-admin-go/internal/domain/reports"
	churchrepo "church-admin-go/internal/repository/postgres/church"
	"church-admin-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListChurches(ctx context.Context, churchID string) ([]churchdomain.WithMemberCount, error) {
	return churchrepo.ListWithMemberCounts(ctx, r.db, churchID)
}

func (r *PostgresRepository) ListMemberStats(ctx context.Context, churchID string) ([]reportsdomain.MemberStat, error) {
	type statRow struct {
		ChurchID string `gorm:"column:church_id"`
		Age      *int   `gorm:"column:age"`
		Gender   string `gorm:"column:gender"`
	}

	query := r.db.WithContext(ctx).Table("members").Select("church_id, age, gender")
	if churchID != "" {
		query = query.Where("church_id = ?", churchID)
	}

	var rows []statRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, pgerr.Classify("reports.member_stats", err)
	}

	stats := make([]reportsdomain.MemberStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, reportsdomain.MemberStat{
			ChurchID: row.ChurchID,
			Age:      row.Age,
			Gender:   row.Gender,
		})
	}
	return stats, nil
}
