package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrOpenPeriodExists - the budget already has an open period.
	ErrOpenPeriodExists = errors.New("an open period already exists for this budget")
	// ErrPeriodNotOpen - amounts can only change while the period is open.
	ErrPeriodNotOpen = errors.New("amounts can only be updated for an open period")
	// ErrPeriodNotSaved - the period must be persisted before taking amounts.
	ErrPeriodNotSaved = errors.New("period must be saved before adding amounts")
	// ErrNegativeAmount - billed amounts are never negative.
	ErrNegativeAmount = errors.New("amount must be non-negative")
	// ErrCrossBudgetItem - the item belongs to a different budget than the period.
	ErrCrossBudgetItem = errors.New("budget item does not belong to the same budget as period")
)

// InvalidTransitionError reports a period transition attempted from the
// wrong source state.
type InvalidTransitionError struct {
	PeriodID uint
	From     string
	To       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("period %d: cannot move from %q to %q", e.PeriodID, e.From, e.To)
}

// AmountRegressionError reports an amount below what an earlier period of
// the same budget already recorded for the item.
type AmountRegressionError struct {
	ItemID    uint
	Previous  decimal.Decimal
	Requested decimal.Decimal
}

func (e *AmountRegressionError) Error() string {
	return fmt.Sprintf("item %d: amount %s is lower than %s from a previous period",
		e.ItemID, e.Requested, e.Previous)
}
