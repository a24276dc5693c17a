package member

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type Member struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ChurchID  string    `gorm:"type:uuid;not null;index" json:"church_id"`
	Name      string    `gorm:"not null" json:"name"`
	Age       *int      `json:"age"`
	Gender    string    `gorm:"type:varchar(16)" json:"gender"`
	Role      string    `gorm:"type:varchar(64)" json:"role"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

type Input struct {
	ChurchID string
	Name     string
	Age      *int
	Gender   string
	Role     string
	Phone    string
	Email    string
}
