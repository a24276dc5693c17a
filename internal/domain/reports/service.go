package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"church-admin-go/internal/domain/church"
	"church-admin-go/internal/domain/churchuser"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summary(ctx context.Context, actor churchuser.ChurchUser) (*Summary, error) {
	data, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := Summarize(data)
	return &summary, nil
}

func (s *Service) Churches(ctx context.Context, actor churchuser.ChurchUser) ([]church.WithMemberCount, error) {
	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.ListChurches(ctx, scope)
}

func (s *Service) load(ctx context.Context, actor churchuser.ChurchUser) (Dataset, error) {
	scope, err := scopeFor(actor)
	if err != nil {
		return Dataset{}, err
	}

	var data Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		churches, err := s.repo.ListChurches(gctx, scope)
		if err != nil {
			return fmt.Errorf("list churches: %w", err)
		}
		data.Churches = churches
		return nil
	})
	g.Go(func() error {
		members, err := s.repo.ListMemberStats(gctx, scope)
		if err != nil {
			return fmt.Errorf("list member stats: %w", err)
		}
		data.Members = members
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}
	return data, nil
}

func scopeFor(actor churchuser.ChurchUser) (string, error) {
	switch {
	case actor.IsAdmin():
		return "", nil
	case actor.IsPastor():
		return *actor.ChurchID, nil
	default:
		return "", ErrForbidden
	}
}

// Summarize computes dashboard figures. Members without an age (or with age
// 0) are left out of the average and the age brackets.
func Summarize(data Dataset) Summary {
	summary := Summary{
		TotalChurches:    len(data.Churches),
		TotalMembers:     len(data.Members),
		MembersPerChurch: make([]ChurchCount, 0, len(data.Churches)),
	}

	perChurch := make(map[string]int, len(data.Churches))
	brackets := map[string]int{}
	genders := map[string]int{}
	ageSum := 0
	aged := 0

	for _, member := range data.Members {
		perChurch[member.ChurchID]++

		gender := strings.ToLower(strings.TrimSpace(member.Gender))
		if gender == "" {
			gender = "unspecified"
		}
		genders[gender]++

		if member.Age == nil || *member.Age <= 0 {
			continue
		}
		age := *member.Age
		ageSum += age
		aged++
		brackets[ageBracket(age)]++
	}

	if aged > 0 {
		summary.AverageAge = math.Round(float64(ageSum)/float64(aged)*10) / 10
	}

	for _, item := range data.Churches {
		summary.TotalTithes += item.Tithes
		summary.TotalAttendance += item.Attendance
		if item.Attendance > 0 {
			summary.ChurchesWithData++
		}
		summary.MembersPerChurch = append(summary.MembersPerChurch, ChurchCount{
			ChurchID: item.ID,
			Name:     item.Name,
			Count:    perChurch[item.ID],
		})
	}
	summary.ChurchesIncomplete = summary.TotalChurches - summary.ChurchesWithData
	summary.TotalTithes = math.Round(summary.TotalTithes*100) / 100

	summary.AgeBrackets = []Bucket{
		{Label: Bracket0To18, Count: brackets[Bracket0To18]},
		{Label: Bracket19To35, Count: brackets[Bracket19To35]},
		{Label: Bracket36To55, Count: brackets[Bracket36To55]},
		{Label: Bracket56Plus, Count: brackets[Bracket56Plus]},
	}

	summary.Genders = make([]Bucket, 0, len(genders))
	for label, count := range genders {
		summary.Genders = append(summary.Genders, Bucket{Label: label, Count: count})
	}
	sort.Slice(summary.Genders, func(i, j int) bool {
		return summary.Genders[i].Label < summary.Genders[j].Label
	})

	return summary
}

func ageBracket(age int) string {
	switch {
	case age <= 18:
		return Bracket0To18
	case age <= 35:
		return Bracket19To35
	case age <= 55:
		return Bracket36To55
	default:
		return Bracket56Plus
	}
}
