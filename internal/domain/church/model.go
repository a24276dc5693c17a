package church

import "time"

type Church struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Location       string    `json:"location"`
	PastorName     string    `json:"pastor_name"`
	PastorPhone    string    `json:"pastor_phone"`
	PastorEmail    string    `json:"pastor_email"`
	PastorPhotoURL string    `json:"pastor_photo_url"`
	Attendance     int       `json:"attendance"`
	Tithes         float64   `json:"tithes"`
	PastorUserID   *string   `gorm:"type:uuid" json:"pastor_user_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Church) TableName() string {
	return "churches"
}

// Summary carries the display fields other records join against.
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type WithMemberCount struct {
	Church
	MemberCount int64 `json:"member_count"`
}

type Input struct {
	Name           string
	Location       string
	PastorName     string
	PastorPhone    string
	PastorEmail    string
	PastorPhotoURL string
	Attendance     int
	Tithes         float64
}
