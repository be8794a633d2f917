package model

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdminUser  Role = "admin_user"
	RoleUser       Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdminUser, RoleUser:
		return true
	}
	return false
}

// 管理画面(/admin)に入れるロールか
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdminUser
}

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	TokenVersion int        `gorm:"not null;default:0" json:"token_version"`
	IsActive     bool       `gorm:"not null;index" json:"is_active"`
	Phone        string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address      string     `gorm:"type:text" json:"address,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
