package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Construction is a building site owned by one organization.
type Construction struct {
	gorm.Model
	OrganizationID uint         `json:"organizationId" gorm:"not null"`
	Organization   Organization `json:"-" gorm:"foreignKey:OrganizationID"`
	Name           string       `json:"name" gorm:"not null"`
	Location       string       `json:"location"`
	Orders         []Order      `json:"orders,omitempty" gorm:"foreignKey:ConstructionID"`
}

// Order is a contracted scope of work on a construction. Budgets hang off
// orders, one or more per order.
type Order struct {
	gorm.Model
	ConstructionID uint         `json:"constructionId" gorm:"not null"`
	Construction   Construction `json:"-" gorm:"foreignKey:ConstructionID"`
	Name           string       `json:"name" gorm:"not null"`
	Budgets        []Budget     `json:"budgets,omitempty" gorm:"foreignKey:OrderID"`
}

// ContractForWork carries the commercial terms of one order.
type ContractForWork struct {
	gorm.Model
	OrderID          uint            `json:"orderId" gorm:"uniqueIndex;not null"`
	Order            Order           `json:"-" gorm:"foreignKey:OrderID"`
	ContractNumber   string          `json:"contractNumber" gorm:"not null"`
	ContractorShare  decimal.Decimal `json:"contractorShare" gorm:"type:numeric(5,2)"`
	ContractSigned   *time.Time      `json:"contractSigned"`
	StartContract    *time.Time      `json:"startContract"`
	EndContract      *time.Time      `json:"endContract"`
	DayAfterDue      int             `json:"dayAfterDue"`
	WarrantyPeriod   int             `json:"warrantyPeriod"`
	IsSocialHouse    bool            `json:"isSocialHouse"`
	TaxReverseCharge bool            `json:"taxReverseCharge"`
	Residuals        []Residual      `json:"residuals,omitempty" gorm:"foreignKey:ContractForWorkID"`
}

// Residual is a retained percentage of the contract value released at a date.
type Residual struct {
	gorm.Model
	ContractForWorkID uint       `json:"contractForWorkId" gorm:"not null"`
	EndDate           *time.Time `json:"endDate"`
	Percentage        int        `json:"percentage" gorm:"not null"`
}
