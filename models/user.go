package models

import (
	"time"
)

// Role defines the closed set of roles in the system
type Role string

const (
	RoleStudent  Role = "student"
	RoleVendor   Role = "vendor"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string against the closed set.
// Every trust boundary (token issuance, role gate, admin role change)
// goes through this so a typo'd role never reaches authorization.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleVendor, RoleDelivery, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash *string   `json:"-"`                    // nil for Google-federated accounts
	GoogleSub    *string   `json:"-" gorm:"uniqueIndex"` // Google's immutable subject id
	Role         Role      `json:"role" gorm:"not null;default:'student'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
