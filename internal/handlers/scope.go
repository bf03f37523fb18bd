package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// The core only checks entity-to-entity invariants; organization scope is
// enforced here, by joining every lookup back to the caller's organization
// before any service call runs.

func scopeOrders(db *gorm.DB, orgID uint) *gorm.DB {
	return db.Select("orders.*").
		Joins("JOIN constructions ON constructions.id = orders.construction_id").
		Where("constructions.organization_id = ?", orgID)
}

func scopeBudgets(db *gorm.DB, orgID uint) *gorm.DB {
	return db.Select("budgets.*").
		Joins("JOIN orders ON orders.id = budgets.order_id").
		Joins("JOIN constructions ON constructions.id = orders.construction_id").
		Where("constructions.organization_id = ?", orgID)
}

func scopePeriods(db *gorm.DB, orgID uint) *gorm.DB {
	return db.Select("budget_periods.*").
		Joins("JOIN budgets ON budgets.id = budget_periods.budget_id").
		Joins("JOIN orders ON orders.id = budgets.order_id").
		Joins("JOIN constructions ON constructions.id = orders.construction_id").
		Where("constructions.organization_id = ?", orgID)
}

func currentOrgID(c *gin.Context) uint {
	return c.GetUint("organization_id")
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
