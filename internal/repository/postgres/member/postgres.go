package member

import (
	"context"
	"fmt"
	"strings"

	memberdomain "church-admin-go/internal/domain/member"
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

func (r *PostgresRepository) Create(ctx context.Context, member *memberdomain.Member) error {
	return pgerr.Classify("member.create", r.db.WithContext(ctx).Create(member).Error)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*memberdomain.Member, error) {
	var member memberdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, pgerr.Classify("member.get", err)
	}
	return &member, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter memberdomain.Filter) ([]memberdomain.Member, error) {
	if err := filter.Validate(); err != nil {
		return nil, storeerr.Permanent("member.list", err)
	}

	query := r.db.WithContext(ctx).Model(&memberdomain.Member{})
	for _, predicate := range filter.Predicates {
		clause, args := predicateSQL(predicate)
		query = query.Where(clause, args...)
	}

	var members []memberdomain.Member
	if err := query.Order("created_at desc").Limit(filter.Limit).Find(&members).Error; err != nil {
		return nil, pgerr.Classify("member.list", err)
	}
	if members == nil {
		members = []memberdomain.Member{}
	}
	return members, nil
}

func (r *PostgresRepository) Update(ctx context.Context, member *memberdomain.Member) error {
	result := r.db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"church_id":  member.ChurchID,
			"name":       member.Name,
			"age":        member.Age,
			"gender":     member.Gender,
			"role":       member.Role,
			"phone":      member.Phone,
			"email":      member.Email,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return pgerr.Classify("member.update", result.Error)
	}
	if result.RowsAffected == 0 {
		return storeerr.NotFound("member.update", memberdomain.ErrMemberNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&memberdomain.Member{}, "id = ?", id)
	if result.Error != nil {
		return pgerr.Classify("member.delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return storeerr.NotFound("member.delete", memberdomain.ErrMemberNotFound)
	}
	return nil
}

// predicateSQL renders a validated predicate. Field names come from the
// member allow-list so they can be placed in the statement directly.
func predicateSQL(predicate memberdomain.Predicate) (string, []interface{}) {
	switch predicate.Kind {
	case memberdomain.PredicateEquals:
		return fmt.Sprintf("%s = ?", predicate.Fields[0]), []interface{}{predicate.Values[0]}
	case memberdomain.PredicateIn:
		return fmt.Sprintf("%s IN ?", predicate.Fields[0]), []interface{}{predicate.Values}
	default:
		pattern := "%" + escapeLike(predicate.Values[0]) + "%"
		parts := make([]string, 0, len(predicate.Fields))
		args := make([]interface{}, 0, len(predicate.Fields))
		for _, field := range predicate.Fields {
			parts = append(parts, fmt.Sprintf("%s ILIKE ?", field))
			args = append(args, pattern)
		}
		return "(" + strings.Join(parts, " OR ") + ")", args
	}
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
