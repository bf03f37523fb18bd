// Package services holds the budget-period state machine and the amount
// ledger. Every transition runs as one transaction that re-reads the period
// under a row lock, so two callers racing on the same period cannot both
// observe the source state and both win.
package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SmelhausJosef/Kokot-AI/models"
)

// lockForUpdate applies SELECT ... FOR UPDATE where the dialect supports it.
// SQLite (used by the test suites) serializes writers on its own and rejects
// the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func openPeriodExists(tx *gorm.DB, budgetID uint, excludePeriodID uint) (bool, error) {
	var count int64
	query := tx.Model(&models.BudgetPeriod{}).
		Where("budget_id = ? AND status = ?", budgetID, models.PeriodStatusOpen)
	if excludePeriodID != 0 {
		query = query.Where("id <> ?", excludePeriodID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreatePeriod opens a new billing period for the budget. Fails with
// ErrOpenPeriodExists while another period of the budget is still open; the
// check-then-insert runs under a lock on the budget row, and the partial
// unique index backs it against anything that slips past.
func CreatePeriod(db *gorm.DB, budget *models.Budget, createdBy *uint) (*models.BudgetPeriod, error) {
	period := &models.BudgetPeriod{
		BudgetID:    budget.ID,
		Status:      models.PeriodStatusOpen,
		CreatedByID: createdBy,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var locked models.Budget
		if err := lockForUpdate(tx).First(&locked, budget.ID).Error; err != nil {
			return err
		}
		exists, err := openPeriodExists(tx, budget.ID, 0)
		if err != nil {
			return err
		}
		if exists {
			return ErrOpenPeriodExists
		}
		return tx.Create(period).Error
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// transition moves a period from one status to the next, stamping the given
// timestamp column, plus any extra column updates.
func transition(db *gorm.DB, period *models.BudgetPeriod, from, to string, updates map[string]interface{}) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var current models.BudgetPeriod
		if err := lockForUpdate(tx).First(&current, period.ID).Error; err != nil {
			return err
		}
		if current.Status != from {
			return &InvalidTransitionError{PeriodID: current.ID, From: current.Status, To: to}
		}
		updates["status"] = to
		if err := tx.Model(&current).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(period, period.ID).Error
	})
}

// SubmitPeriod hands an open period over for review.
func SubmitPeriod(db *gorm.DB, period *models.BudgetPeriod) error {
	now := time.Now().UTC()
	return transition(db, period, models.PeriodStatusOpen, models.PeriodStatusSubmitted,
		map[string]interface{}{"submitted_at": now})
}

// AcceptPeriod approves a submitted period.
func AcceptPeriod(db *gorm.DB, period *models.BudgetPeriod) error {
	now := time.Now().UTC()
	return transition(db, period, models.PeriodStatusSubmitted, models.PeriodStatusAccepted,
		map[string]interface{}{"reviewed_at": now})
}

// DeclinePeriod sends a submitted period back to open, recording the decline
// figures. Declining is refused with ErrOpenPeriodExists while a different
// period of the same budget is open, since reopening would break the
// one-open-period invariant; the check runs under the same budget row lock
// CreatePeriod takes.
func DeclinePeriod(db *gorm.DB, period *models.BudgetPeriod, payment, penalty, fee *decimal.Decimal) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var locked models.Budget
		if err := lockForUpdate(tx).First(&locked, period.BudgetID).Error; err != nil {
			return err
		}
		exists, err := openPeriodExists(tx, period.BudgetID, period.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrOpenPeriodExists
		}
		now := time.Now().UTC()
		return transition(tx, period, models.PeriodStatusSubmitted, models.PeriodStatusOpen,
			map[string]interface{}{
				"reviewed_at":     now,
				"decline_payment": payment,
				"decline_penalty": penalty,
				"decline_fee":     fee,
			})
	})
}

// ClosePeriod closes an accepted period. Closed is terminal.
func ClosePeriod(db *gorm.DB, period *models.BudgetPeriod) error {
	now := time.Now().UTC()
	return transition(db, period, models.PeriodStatusAccepted, models.PeriodStatusClosed,
		map[string]interface{}{"closed_at": now})
}

// SetItemAmount records the billed amount for one item in an open period.
// Saving the same (period, item) pair again overwrites the amount. The new
// amount must not undercut what the latest earlier period of the same budget
// recorded for the item.
func SetItemAmount(db *gorm.DB, period *models.BudgetPeriod, item *models.BudgetItem, amount decimal.Decimal) (*models.BudgetItemAmount, error) {
	if period.Status != models.PeriodStatusOpen {
		return nil, ErrPeriodNotOpen
	}
	if period.ID == 0 {
		return nil, ErrPeriodNotSaved
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	var header models.BudgetHeader
	if err := db.First(&header, item.HeaderID).Error; err != nil {
		return nil, err
	}
	if header.BudgetID != period.BudgetID {
		return nil, ErrCrossBudgetItem
	}

	var previous models.BudgetItemAmount
	err := db.Select("budget_item_amounts.*").
		Joins("JOIN budget_periods ON budget_periods.id = budget_item_amounts.period_id").
		Where("budget_item_amounts.budget_item_id = ?", item.ID).
		Where("budget_periods.budget_id = ?", period.BudgetID).
		Where("budget_periods.created_at < ?", period.CreatedAt).
		Order("budget_periods.created_at DESC").
		First(&previous).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && amount.LessThan(previous.Amount) {
		return nil, &AmountRegressionError{ItemID: item.ID, Previous: previous.Amount, Requested: amount}
	}

	record := &models.BudgetItemAmount{
		PeriodID:     period.ID,
		BudgetItemID: item.ID,
		Amount:       amount,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "period_id"}, {Name: "budget_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return nil, err
	}

	// On the update path the upsert leaves record.ID at the fresh insert ID,
	// not the stored row's, so re-read what the database actually holds.
	var saved models.BudgetItemAmount
	if err := db.Where("period_id = ? AND budget_item_id = ?", period.ID, item.ID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}
