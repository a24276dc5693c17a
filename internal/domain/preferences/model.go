package preferences

import "time"

const (
	WidgetKPICards              = "kpiCards"
	WidgetKPIChurches           = "kpiChurches"
	WidgetKPIMembers            = "kpiMembers"
	WidgetKPIAge                = "kpiAge"
	WidgetKPITithes             = "kpiTithes"
	WidgetCharts                = "charts"
	WidgetChartMembersPerChurch = "chartMembersPerChurch"
	WidgetChartCompletion       = "chartCompletion"
	WidgetChartAgeDistribution  = "chartAgeDistribution"
)

var widgetKeys = []string{
	WidgetKPICards,
	WidgetKPIChurches,
	WidgetKPIMembers,
	WidgetKPIAge,
	WidgetKPITithes,
	WidgetCharts,
	WidgetChartMembersPerChurch,
	WidgetChartCompletion,
	WidgetChartAgeDistribution,
}

// Widgets maps a dashboard widget key to its visibility.
type Widgets map[string]bool

type Dashboard struct {
	UserID    string    `json:"user_id"`
	Widgets   Widgets   `json:"widgets"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultWidgets shows every widget.
func DefaultWidgets() Widgets {
	widgets := make(Widgets, len(widgetKeys))
	for _, key := range widgetKeys {
		widgets[key] = true
	}
	return widgets
}

func IsWidget(key string) bool {
	for _, known := range widgetKeys {
		if known == key {
			return true
		}
	}
	return false
}
