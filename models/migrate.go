package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every model and the partial
// unique index enforcing one open period per budget. Shared by main and the
// test suites so both run against the same schema.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Organization{},
		&OrganizationMembership{},
		&Invitation{},
		&Construction{},
		&Order{},
		&ContractForWork{},
		&Residual{},
		&Budget{},
		&BudgetHeader{},
		&BudgetItem{},
		&BudgetPeriod{},
		&BudgetItemAmount{},
	)
	if err != nil {
		return err
	}

	// Partial index, same syntax on postgres and sqlite.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS unique_open_period_per_budget
		 ON budget_periods (budget_id) WHERE status = 'open' AND deleted_at IS NULL`,
	).Error
}
