package reports

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"church-admin-go/internal/domain/church"
	"church-admin-go/internal/domain/churchuser"
)

type fakeReportsRepo struct {
	churches []church.WithMemberCount
	members  []MemberStat
	scopes   []string
	err      error
}

func (r *fakeReportsRepo) ListChurches(ctx context.Context, churchID string) ([]church.WithMemberCount, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := make([]church.WithMemberCount, 0)
	for _, item := range r.churches {
		if churchID == "" || item.ID == churchID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeReportsRepo) ListMemberStats(ctx context.Context, churchID string) ([]MemberStat, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := make([]MemberStat, 0)
	for _, item := range r.members {
		if churchID == "" || item.ChurchID == churchID {
			result = append(result, item)
		}
	}
	return result, nil
}

func intPtr(value int) *int {
	return &value
}

func sampleRepo() *fakeReportsRepo {
	return &fakeReportsRepo{
		churches: []church.WithMemberCount{
			{Church: church.Church{ID: "c1", Name: "Grace", Location: "Accra", Attendance: 120, Tithes: 1500.5}, MemberCount: 3},
			{Church: church.Church{ID: "c2", Name: "Hope", Tithes: 200.25}, MemberCount: 1},
		},
		members: []MemberStat{
			{ChurchID: "c1", Age: intPtr(12), Gender: "female"},
			{ChurchID: "c1", Age: intPtr(35), Gender: "male"},
			{ChurchID: "c1", Age: nil, Gender: ""},
			{ChurchID: "c2", Age: intPtr(60), Gender: "Female"},
		},
	}
}

func TestSummarize(t *testing.T) {
	repo := sampleRepo()
	summary := Summarize(Dataset{Churches: repo.churches, Members: repo.members})

	if summary.TotalChurches != 2 || summary.TotalMembers != 4 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	if summary.AverageAge != 35.7 {
		t.Fatalf("expected average age 35.7, got %v", summary.AverageAge)
	}
	if summary.TotalTithes != 1700.75 || summary.TotalAttendance != 120 {
		t.Fatalf("unexpected church totals %+v", summary)
	}
	if summary.ChurchesWithData != 1 || summary.ChurchesIncomplete != 1 {
		t.Fatalf("unexpected completion counts %+v", summary)
	}

	wantBrackets := map[string]int{Bracket0To18: 1, Bracket19To35: 1, Bracket36To55: 0, Bracket56Plus: 1}
	for _, bucket := range summary.AgeBrackets {
		if wantBrackets[bucket.Label] != bucket.Count {
			t.Fatalf("bracket %s: expected %d, got %d", bucket.Label, wantBrackets[bucket.Label], bucket.Count)
		}
	}

	if len(summary.Genders) != 3 || summary.Genders[0].Label != "female" || summary.Genders[0].Count != 2 {
		t.Fatalf("unexpected genders %+v", summary.Genders)
	}
	if len(summary.MembersPerChurch) != 2 || summary.MembersPerChurch[0].Count != 3 || summary.MembersPerChurch[1].Count != 1 {
		t.Fatalf("unexpected members per church %+v", summary.MembersPerChurch)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(Dataset{})
	if summary.AverageAge != 0 || len(summary.AgeBrackets) != 4 || len(summary.Genders) != 0 {
		t.Fatalf("unexpected empty summary %+v", summary)
	}
}

func TestSummaryScopedToPastor(t *testing.T) {
	service := NewService(sampleRepo())
	churchID := "c2"
	pastor := churchuser.ChurchUser{Role: churchuser.RolePastor, ChurchID: &churchID}

	summary, err := service.Summary(context.Background(), pastor)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.TotalChurches != 1 || summary.TotalMembers != 1 {
		t.Fatalf("expected pastor scoped summary, got %+v", summary)
	}

	if _, err := service.Summary(context.Background(), churchuser.ChurchUser{Role: churchuser.RoleUser}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSummaryPropagatesStoreError(t *testing.T) {
	repo := sampleRepo()
	repo.err = errors.New("boom")
	service := NewService(repo)

	if _, err := service.Summary(context.Background(), churchuser.ChurchUser{Role: churchuser.RoleAdmin}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteChurchesCSV(t *testing.T) {
	var buf bytes.Buffer
	churches := []church.WithMemberCount{
		{Church: church.Church{Name: "Grace, Accra", Location: "Accra", PastorName: "John", Attendance: 10, Tithes: 12.5}, MemberCount: 4},
	}

	if err := WriteChurchesCSV(&buf, churches); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	if lines[0] != "Church Name,Location,Pastor Name,Pastor Phone,Pastor Email,Attendance,Tithes,Member Count" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != `"Grace, Accra",Accra,John,,,10,12.50,4` {
		t.Fatalf("unexpected row %q", lines[1])
	}
}
