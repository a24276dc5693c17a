package reports

import (
	"context"

	"church-admin-go/internal/domain/church"
)

// Repository loads report inputs. An empty churchID means all churches.
type Repository interface {
	ListChurches(ctx context.Context, churchID string) ([]church.WithMemberCount, error)
	ListMemberStats(ctx context.Context, churchID string) ([]MemberStat, error)
}
