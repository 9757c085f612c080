package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleUser     UserRole = "User"
	RoleEmployer UserRole = "Employer"
	RoleAdmin    UserRole = "Admin"
)

// ParseRoleHint resolves a self-registration role hint. Only "employer"
// (any case, surrounding spaces ignored) yields RoleEmployer; anything else,
// including "admin", yields RoleUser.
func ParseRoleHint(hint string) UserRole {
	if strings.EqualFold(strings.TrimSpace(hint), string(RoleEmployer)) {
		return RoleEmployer
	}
	return RoleUser
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username string   `json:"username" gorm:"not null;size:100"`
	Password string   `json:"-" gorm:"not null;size:255"` // bcrypt hash
	Role     UserRole `json:"role" gorm:"not null;size:20;default:User;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	EmployerProfile *EmployerProfile `json:"employer_profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Applications    []Application    `json:"applications,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:NO ACTION"`
}

func (User) TableName() string {
	return "users"
}
