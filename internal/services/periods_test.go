package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SmelhausJosef/Kokot-AI/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func buildBudget(t *testing.T, db *gorm.DB, name string) *models.Budget {
	t.Helper()
	org := models.Organization{Name: "Org " + name}
	require.NoError(t, db.Create(&org).Error)
	construction := models.Construction{OrganizationID: org.ID, Name: "Site " + name}
	require.NoError(t, db.Create(&construction).Error)
	order := models.Order{ConstructionID: construction.ID, Name: "Order " + name}
	require.NoError(t, db.Create(&order).Error)
	budget := models.Budget{OrderID: order.ID, Name: "Rozpocet " + name}
	require.NoError(t, db.Create(&budget).Error)
	return &budget
}

func buildItem(t *testing.T, db *gorm.DB, budget *models.Budget) *models.BudgetItem {
	t.Helper()
	header := models.BudgetHeader{BudgetID: budget.ID, Title: "Header"}
	require.NoError(t, db.Create(&header).Error)
	item := models.BudgetItem{
		HeaderID:     header.ID,
		Code:         "001",
		Description:  "Item",
		MeasureUnit:  "m2",
		PriceForUnit: decimal.RequireFromString("10.50"),
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSubmitAcceptCloseFlow(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")

	period, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusOpen, period.Status)

	require.NoError(t, SubmitPeriod(db, period))
	assert.Equal(t, models.PeriodStatusSubmitted, period.Status)
	require.NotNil(t, period.SubmittedAt)
	assert.True(t, period.SubmittedAt.After(period.CreatedAt))

	require.NoError(t, AcceptPeriod(db, period))
	assert.Equal(t, models.PeriodStatusAccepted, period.Status)
	require.NotNil(t, period.ReviewedAt)
	assert.True(t, period.ReviewedAt.After(*period.SubmittedAt))

	require.NoError(t, ClosePeriod(db, period))
	assert.Equal(t, models.PeriodStatusClosed, period.Status)
	require.NotNil(t, period.ClosedAt)
	assert.True(t, period.ClosedAt.After(*period.ReviewedAt))
}

func TestDeclineReturnsToOpenWithFees(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")

	period, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)
	require.NoError(t, SubmitPeriod(db, period))

	err = DeclinePeriod(db, period, money("100.00"), money("10.00"), money("5.00"))
	require.NoError(t, err)

	assert.Equal(t, models.PeriodStatusOpen, period.Status)
	require.NotNil(t, period.ReviewedAt)
	require.NotNil(t, period.DeclinePayment)
	assert.True(t, period.DeclinePayment.Equal(decimal.RequireFromString("100.00")))
	require.NotNil(t, period.DeclinePenalty)
	assert.True(t, period.DeclinePenalty.Equal(decimal.RequireFromString("10.00")))
	require.NotNil(t, period.DeclineFee)
	assert.True(t, period.DeclineFee.Equal(decimal.RequireFromString("5.00")))
}

func TestCreatePeriodOnlyOneOpen(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")

	_, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)

	_, err = CreatePeriod(db, budget, nil)
	assert.ErrorIs(t, err, ErrOpenPeriodExists)

	var open int64
	require.NoError(t, db.Model(&models.BudgetPeriod{}).
		Where("budget_id = ? AND status = ?", budget.ID, models.PeriodStatusOpen).
		Count(&open).Error)
	assert.EqualValues(t, 1, open)
}

func TestCreatePeriodIndependentBudgets(t *testing.T) {
	db := newTestDB(t)
	budgetA := buildBudget(t, db, "A")
	budgetB := buildBudget(t, db, "B")

	_, err := CreatePeriod(db, budgetA, nil)
	require.NoError(t, err)
	_, err = CreatePeriod(db, budgetB, nil)
	require.NoError(t, err)
}

func TestDeclineFailsIfAnotherOpenPeriodExists(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")

	first, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)
	require.NoError(t, SubmitPeriod(db, first))

	second, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)

	err = DeclinePeriod(db, first, nil, nil, nil)
	assert.ErrorIs(t, err, ErrOpenPeriodExists)

	var storedFirst models.BudgetPeriod
	require.NoError(t, db.First(&storedFirst, first.ID).Error)
	assert.Equal(t, models.PeriodStatusSubmitted, storedFirst.Status)

	var storedSecond models.BudgetPeriod
	require.NoError(t, db.First(&storedSecond, second.ID).Error)
	assert.Equal(t, models.PeriodStatusOpen, storedSecond.Status)
}

func TestTransitionFromWrongState(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")

	period, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)

	var invalid *InvalidTransitionError

	err = AcceptPeriod(db, period)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.PeriodStatusOpen, invalid.From)

	err = ClosePeriod(db, period)
	require.ErrorAs(t, err, &invalid)

	err = DeclinePeriod(db, period, nil, nil, nil)
	require.ErrorAs(t, err, &invalid)

	var current models.BudgetPeriod
	require.NoError(t, db.First(&current, period.ID).Error)
	assert.Equal(t, models.PeriodStatusOpen, current.Status)
	assert.Nil(t, current.ReviewedAt)
	assert.Nil(t, current.ClosedAt)
}

func TestSetItemAmountRequiresOpenPeriod(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")
	item := buildItem(t, db, budget)

	period, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)
	require.NoError(t, SubmitPeriod(db, period))

	_, err = SetItemAmount(db, period, item, decimal.RequireFromString("10.00"))
	assert.ErrorIs(t, err, ErrPeriodNotOpen)
}

func TestSetItemAmountRequiresSavedPeriod(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")
	item := buildItem(t, db, budget)

	unsaved := &models.BudgetPeriod{BudgetID: budget.ID, Status: models.PeriodStatusOpen}
	_, err := SetItemAmount(db, unsaved, item, decimal.RequireFromString("10.00"))
	assert.ErrorIs(t, err, ErrPeriodNotSaved)
}

func TestSetItemAmountRejectsNegative(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")
	item := buildItem(t, db, budget)

	period, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)

	_, err = SetItemAmount(db, period, item, decimal.RequireFromString("-1.00"))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestSetItemAmountRejectsCrossBudgetItem(t *testing.T) {
	db := newTestDB(t)
	budgetA := buildBudget(t, db, "A")
	budgetB := buildBudget(t, db, "B")
	foreignItem := buildItem(t, db, budgetB)

	period, err := CreatePeriod(db, budgetA, nil)
	require.NoError(t, err)

	_, err = SetItemAmount(db, period, foreignItem, decimal.RequireFromString("10.00"))
	assert.ErrorIs(t, err, ErrCrossBudgetItem)
}

func TestSetItemAmountUpsertsPerPeriodAndItem(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")
	item := buildItem(t, db, budget)

	period, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)

	created, err := SetItemAmount(db, period, item, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	updated, err := SetItemAmount(db, period, item, decimal.RequireFromString("25.00"))
	require.NoError(t, err)

	var records []models.BudgetItemAmount
	require.NoError(t, db.Where("period_id = ?", period.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("25.00")))

	// the overwrite must report the stored row, not a phantom insert
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, records[0].ID, updated.ID)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("25.00")))
}

func TestSetItemAmountValidatesPreviousPeriod(t *testing.T) {
	db := newTestDB(t)
	budget := buildBudget(t, db, "A")
	item := buildItem(t, db, budget)

	first, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)
	_, err = SetItemAmount(db, first, item, decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	require.NoError(t, SubmitPeriod(db, first))
	require.NoError(t, AcceptPeriod(db, first))
	require.NoError(t, ClosePeriod(db, first))

	// keep created_at strictly ordered between the two periods
	time.Sleep(5 * time.Millisecond)

	second, err := CreatePeriod(db, budget, nil)
	require.NoError(t, err)

	_, err = SetItemAmount(db, second, item, decimal.RequireFromString("50.00"))
	var regression *AmountRegressionError
	require.ErrorAs(t, err, &regression)
	assert.Equal(t, item.ID, regression.ItemID)
	assert.True(t, regression.Previous.Equal(decimal.RequireFromString("100.00")))

	var stored int64
	require.NoError(t, db.Model(&models.BudgetItemAmount{}).
		Where("period_id = ?", second.ID).Count(&stored).Error)
	assert.Zero(t, stored, "rejected amount must not be stored")

	record, err := SetItemAmount(db, second, item, decimal.RequireFromString("150.00"))
	require.NoError(t, err)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("150.00")))
}
