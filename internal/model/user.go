package model

import (
	"gorm.io/gorm"
)

// User Roles
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleAgent UserRole = "agent"
)

type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	FullName string `json:"full_name" gorm:"not null"`

	Phone  string   `json:"phone"`
	Avatar string   `json:"avatar"`
	Role   UserRole `json:"role" gorm:"not null;default:'agent'"`

	Properties []Property `json:"-" gorm:"foreignKey:UserID"`
	Favorites  []Favorite `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"email":     u.Email,
		"username":  u.Username,
		"full_name": u.FullName,
		"phone":     u.Phone,
		"avatar":    u.Avatar,
		"role":      u.Role,
	}
}
