package preferences

import (
	"context"
	"errors"
	"testing"

	"church-admin-go/pkg/storeerr"
)

type fakePreferencesRepo struct {
	items map[string]Dashboard
	saves int
}

func newFakePreferencesRepo() *fakePreferencesRepo {
	return &fakePreferencesRepo{items: make(map[string]Dashboard)}
}

func (r *fakePreferencesRepo) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	item, ok := r.items[userID]
	if !ok {
		return nil, storeerr.NotFound("preferences.get", ErrPreferencesNotFound)
	}
	widgets := make(Widgets, len(item.Widgets))
	for key, value := range item.Widgets {
		widgets[key] = value
	}
	item.Widgets = widgets
	return &item, nil
}

func (r *fakePreferencesRepo) SaveDashboard(ctx context.Context, dashboard *Dashboard) error {
	r.saves++
	r.items[dashboard.UserID] = *dashboard
	return nil
}

func TestDashboardDefaults(t *testing.T) {
	service := NewService(newFakePreferencesRepo())

	dashboard, err := service.Dashboard(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dashboard.Widgets) != len(widgetKeys) {
		t.Fatalf("expected %d widgets, got %d", len(widgetKeys), len(dashboard.Widgets))
	}
	for key, visible := range dashboard.Widgets {
		if !visible {
			t.Fatalf("expected %s visible by default", key)
		}
	}
}

func TestUpdateDashboardMergesAndDropsStaleKeys(t *testing.T) {
	repo := newFakePreferencesRepo()
	repo.items["u1"] = Dashboard{UserID: "u1", Widgets: Widgets{WidgetCharts: false, "legacyWidget": true}}
	service := NewService(repo)

	dashboard, err := service.UpdateDashboard(context.Background(), "u1", Widgets{WidgetKPIAge: false})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if dashboard.Widgets[WidgetCharts] || dashboard.Widgets[WidgetKPIAge] {
		t.Fatalf("expected saved and changed widgets hidden, got %v", dashboard.Widgets)
	}
	if !dashboard.Widgets[WidgetKPITithes] {
		t.Fatalf("expected untouched widget visible")
	}
	if _, ok := repo.items["u1"].Widgets["legacyWidget"]; ok {
		t.Fatalf("expected stale key dropped")
	}
	if dashboard.UpdatedAt.IsZero() {
		t.Fatalf("expected updated timestamp")
	}
}

func TestUpdateDashboardRejectsUnknownWidget(t *testing.T) {
	repo := newFakePreferencesRepo()
	service := NewService(repo)

	_, err := service.UpdateDashboard(context.Background(), "u1", Widgets{"bogus": true})
	if !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("expected unknown widget, got %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("expected nothing saved")
	}
}
