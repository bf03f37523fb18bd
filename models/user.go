package models

import "gorm.io/gorm"

// User is an authenticated account. Organization scope and role come from
// the user's OrganizationMembership, not from the user itself.
type User struct {
	gorm.Model
	Login        string                   `json:"login" gorm:"uniqueIndex;not null"`
	PasswordHash string                   `json:"-" gorm:"not null"`
	FullName     string                   `json:"fullName"`
	Memberships  []OrganizationMembership `json:"memberships,omitempty" gorm:"foreignKey:UserID"`
}
