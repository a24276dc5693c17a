package churchuser

import "time"

const (
	RoleAdmin  = "admin"
	RolePastor = "pastor"
	RoleUser   = "user"
)

type ChurchUser struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	AuthUserID string    `gorm:"not null;uniqueIndex" json:"auth_user_id"`
	Email      string    `gorm:"not null" json:"email"`
	Name       string    `gorm:"not null" json:"name"`
	Role       string    `gorm:"type:varchar(16);not null" json:"role"`
	ChurchID   *string   `gorm:"type:uuid" json:"church_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ChurchUser) TableName() string {
	return "church_users"
}

// Pastor is a pastor church user joined with the name of the church they serve.
type Pastor struct {
	ChurchUser
	ChurchName string `json:"church_name"`
}

func (u ChurchUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u ChurchUser) IsPastor() bool {
	return u.Role == RolePastor && u.ChurchID != nil
}

// CanManageChurch reports whether the user may write data owned by churchID.
func (u ChurchUser) CanManageChurch(churchID string) bool {
	if u.IsAdmin() {
		return true
	}
	return u.IsPastor() && *u.ChurchID == churchID
}

// ScopeChurchID returns the church the user is confined to, or "" for admins.
func (u ChurchUser) ScopeChurchID() string {
	if u.IsAdmin() || u.ChurchID == nil {
		return ""
	}
	return *u.ChurchID
}

// Validate enforces the role and church binding invariants.
func (u ChurchUser) Validate() error {
	switch u.Role {
	case RoleAdmin:
		if u.ChurchID != nil {
			return ErrRoleBinding
		}
	case RolePastor:
		if u.ChurchID == nil || *u.ChurchID == "" {
			return ErrRoleBinding
		}
	case RoleUser:
	default:
		return ErrInvalidRole
	}
	if u.AuthUserID == "" {
		return ErrInvalidRole
	}
	return nil
}
