package models

import (
	"gorm.io/gorm"
)

// UserRole determines what a user may do through the API. Wallet-level
// permissions in transfers are decided by the wallet's type, not the role.
type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAgent      UserRole = "AGENT"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// User activity states
const (
	UserActive  = "ACTIVE"
	UserBlocked = "BLOCKED"
)

type User struct {
	gorm.Model
	FirstName  string   `gorm:"not null" json:"first_name"`
	LastName   string   `gorm:"not null" json:"last_name"`
	Email      string   `gorm:"uniqueIndex;not null" json:"email"`
	Password   string   `gorm:"not null" json:"-"`
	Phone      string   `json:"phone"`
	Role       UserRole `gorm:"default:'USER'" json:"role"`
	Pin        string   `json:"-"` // bcrypt hash; empty means not set
	IsActive   string   `gorm:"default:'ACTIVE'" json:"is_active"`
	IsVerified bool     `gorm:"default:false" json:"is_verified"`
}
