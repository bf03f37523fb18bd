package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SmelhausJosef/Kokot-AI/config"
	"github.com/SmelhausJosef/Kokot-AI/internal/services"
	"github.com/SmelhausJosef/Kokot-AI/models"
)

// CreatePeriodHandler opens a new billing period for a budget.
func CreatePeriodHandler(c *gin.Context) {
	budget, ok := findScopedBudget(c)
	if !ok {
		return
	}

	userID := currentUserID(c)
	period, err := services.CreatePeriod(config.DB, budget, &userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, period)
}

func findScopedPeriod(c *gin.Context) (*models.BudgetPeriod, bool) {
	var period models.BudgetPeriod
	err := scopePeriods(config.DB.Model(&models.BudgetPeriod{}), currentOrgID(c)).
		Where("budget_periods.id = ?", c.Param("id")).
		First(&period).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Period not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return nil, false
	}
	return &period, true
}

// GetPeriodHandler returns a period together with its recorded amounts.
func GetPeriodHandler(c *gin.Context) {
	period, ok := findScopedPeriod(c)
	if !ok {
		return
	}

	var amounts []models.BudgetItemAmount
	err := config.DB.Preload("BudgetItem").
		Where("period_id = ?", period.ID).
		Order("budget_item_id asc").
		Find(&amounts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch period amounts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "amounts": amounts})
}

// ListPeriodsHandler lists a budget's periods, newest first.
func ListPeriodsHandler(c *gin.Context) {
	budget, ok := findScopedBudget(c)
	if !ok {
		return
	}

	var periods []models.BudgetPeriod
	err := config.DB.Where("budget_id = ?", budget.ID).
		Order("created_at desc").
		Find(&periods).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch periods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": periods})
}

// SubmitPeriodHandler hands an open period over for review.
func SubmitPeriodHandler(c *gin.Context) {
	period, ok := findScopedPeriod(c)
	if !ok {
		return
	}
	if err := services.SubmitPeriod(config.DB, period); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, period)
}

// AcceptPeriodHandler approves a submitted period.
func AcceptPeriodHandler(c *gin.Context) {
	period, ok := findScopedPeriod(c)
	if !ok {
		return
	}
	if err := services.AcceptPeriod(config.DB, period); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, period)
}

// DeclinePeriodHandler sends a submitted period back to open, recording the
// optional decline figures.
func DeclinePeriodHandler(c *gin.Context) {
	period, ok := findScopedPeriod(c)
	if !ok {
		return
	}

	var body struct {
		Payment *decimal.Decimal `json:"payment"`
		Penalty *decimal.Decimal `json:"penalty"`
		Fee     *decimal.Decimal `json:"fee"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.DeclinePeriod(config.DB, period, body.Payment, body.Penalty, body.Fee); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, period)
}

// ClosePeriodHandler closes an accepted period.
func ClosePeriodHandler(c *gin.Context) {
	period, ok := findScopedPeriod(c)
	if !ok {
		return
	}
	if err := services.ClosePeriod(config.DB, period); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, period)
}

// SetItemAmountHandler records the billed amount for one item in a period.
func SetItemAmountHandler(c *gin.Context) {
	period, ok := findScopedPeriod(c)
	if !ok {
		return
	}

	var item models.BudgetItem
	if err := config.DB.First(&item, c.Param("itemId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var body struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := services.SetItemAmount(config.DB, period, &item, body.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// respondServiceError maps workflow and ledger errors onto HTTP statuses:
// state conflicts are 409, input problems 400.
func respondServiceError(c *gin.Context, err error) {
	var invalid *services.InvalidTransitionError
	var regression *services.AmountRegressionError

	switch {
	case errors.Is(err, services.ErrOpenPeriodExists),
		errors.Is(err, services.ErrPeriodNotOpen),
		errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrCrossBudgetItem),
		errors.Is(err, services.ErrPeriodNotSaved),
		errors.As(err, &regression):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
