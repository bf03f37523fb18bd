package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget period statuses. A declined period goes straight back to open, so
// "declined" never rests in the status column; it is kept for completeness
// of the API surface.
const (
	PeriodStatusOpen      = "open"
	PeriodStatusSubmitted = "submitted"
	PeriodStatusAccepted  = "accepted"
	PeriodStatusDeclined  = "declined"
	PeriodStatusClosed    = "closed"
)

// BudgetPeriod is one billing cycle against a budget. At most one period per
// budget may be open at a time; the partial unique index created in
// AutoMigrate backs that invariant at the database level.
type BudgetPeriod struct {
	gorm.Model
	BudgetID       uint               `json:"budgetId" gorm:"index;not null"`
	Budget         Budget             `json:"-" gorm:"foreignKey:BudgetID"`
	Status         string             `json:"status" gorm:"default:'open';not null"`
	CreatedByID    *uint              `json:"createdById"`
	SubmittedAt    *time.Time         `json:"submittedAt"`
	ReviewedAt     *time.Time         `json:"reviewedAt"`
	ClosedAt       *time.Time         `json:"closedAt"`
	DeclinePayment *decimal.Decimal   `json:"declinePayment" gorm:"type:numeric(12,2)"`
	DeclinePenalty *decimal.Decimal   `json:"declinePenalty" gorm:"type:numeric(12,2)"`
	DeclineFee     *decimal.Decimal   `json:"declineFee" gorm:"type:numeric(12,2)"`
	ItemAmounts    []BudgetItemAmount `json:"itemAmounts,omitempty" gorm:"foreignKey:PeriodID"`
}

// BudgetItemAmount is the amount billed for one item within one period.
// Unique per (period, item); immutable once the period leaves open.
type BudgetItemAmount struct {
	gorm.Model
	PeriodID     uint            `json:"periodId" gorm:"uniqueIndex:idx_period_item;not null"`
	Period       BudgetPeriod    `json:"-" gorm:"foreignKey:PeriodID"`
	BudgetItemID uint            `json:"budgetItemId" gorm:"uniqueIndex:idx_period_item;not null"`
	BudgetItem   BudgetItem      `json:"-" gorm:"foreignKey:BudgetItemID"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
}
