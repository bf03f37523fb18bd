package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization groups users working on the same constructions. A non-nil
// Parent marks the organization as a subcontractor of that parent.
type Organization struct {
	gorm.Model
	Name     string         `json:"name" gorm:"not null"`
	ParentID *uint          `json:"parentId"`
	Parent   *Organization  `json:"-" gorm:"foreignKey:ParentID"`
	Children []Organization `json:"subcontractors,omitempty" gorm:"foreignKey:ParentID"`
}

func (o *Organization) IsSubcontractor() bool {
	return o.ParentID != nil
}

// Organization roles. SUB_* variants are the same roles held inside a
// subcontractor organization.
const (
	RoleCEO                    = "CEO"
	RoleAccountManager         = "ACCOUNT_MANAGER"
	RoleBudgetManager          = "BUDGET_MANAGER"
	RoleConstructionManager    = "CONSTRUCTION_MANAGER"
	RoleSubCEO                 = "SUBCEO"
	RoleSubAccountManager      = "SUB_ACCOUNT_MANAGER"
	RoleSubBudgetManager       = "SUB_BUDGET_MANAGER"
	RoleSubConstructionManager = "SUB_CONSTRUCTION_MANAGER"
)

// NormalizeRole maps a subcontractor role onto its base role so that
// allow-lists only need to name the base variants.
func NormalizeRole(role string) string {
	switch role {
	case RoleSubCEO:
		return RoleCEO
	case RoleSubAccountManager:
		return RoleAccountManager
	case RoleSubBudgetManager:
		return RoleBudgetManager
	case RoleSubConstructionManager:
		return RoleConstructionManager
	}
	return role
}

// OrganizationMembership binds a user to one organization with a role.
type OrganizationMembership struct {
	gorm.Model
	UserID         uint         `json:"userId" gorm:"uniqueIndex:idx_user_org;not null"`
	User           User         `json:"-" gorm:"foreignKey:UserID"`
	OrganizationID uint         `json:"organizationId" gorm:"uniqueIndex:idx_user_org;not null"`
	Organization   Organization `json:"organization" gorm:"foreignKey:OrganizationID"`
	Role           string       `json:"role" gorm:"not null"`
}

// Invitation lets an organization enroll a new member by emailed token.
type Invitation struct {
	gorm.Model
	OrganizationID uint         `json:"organizationId" gorm:"not null"`
	Organization   Organization `json:"organization" gorm:"foreignKey:OrganizationID"`
	Email          string       `json:"email" gorm:"not null"`
	Role           string       `json:"role" gorm:"not null"`
	InvitedByID    *uint        `json:"invitedById"`
	Token          uuid.UUID    `json:"token" gorm:"type:uuid;uniqueIndex;not null"`
	ExpiresAt      time.Time    `json:"expiresAt"`
	AcceptedAt     *time.Time   `json:"acceptedAt"`
}

func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

func (i *Invitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}
