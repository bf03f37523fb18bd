package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a priced breakdown of work for one order. Its header tree and
// items are produced by the Excel importer and are not edited row by row.
type Budget struct {
	gorm.Model
	OrderID   uint           `json:"orderId" gorm:"not null"`
	Order     Order          `json:"-" gorm:"foreignKey:OrderID"`
	Name      string         `json:"name" gorm:"not null"`
	ExcelFile string         `json:"excelFile"`
	Headers   []BudgetHeader `json:"headers,omitempty" gorm:"foreignKey:BudgetID"`
	Periods   []BudgetPeriod `json:"periods,omitempty" gorm:"foreignKey:BudgetID"`
}

// BudgetHeader is a grouping node in the budget tree. A nil ParentID marks a
// root header; parentage never crosses budgets.
type BudgetHeader struct {
	gorm.Model
	BudgetID uint           `json:"budgetId" gorm:"not null"`
	Budget   Budget         `json:"-" gorm:"foreignKey:BudgetID"`
	ParentID *uint          `json:"parentId"`
	Parent   *BudgetHeader  `json:"-" gorm:"foreignKey:ParentID"`
	Children []BudgetHeader `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Title    string         `json:"title" gorm:"not null"`
	Items    []BudgetItem   `json:"items,omitempty" gorm:"foreignKey:HeaderID"`
}

// BudgetItem is a priced, billable leaf line under one header.
type BudgetItem struct {
	gorm.Model
	HeaderID     uint            `json:"headerId" gorm:"not null"`
	Header       BudgetHeader    `json:"-" gorm:"foreignKey:HeaderID"`
	Code         string          `json:"code"`
	Description  string          `json:"description" gorm:"not null"`
	MeasureUnit  string          `json:"measureUnit"`
	PriceForUnit decimal.Decimal `json:"priceForUnit" gorm:"type:numeric(12,2)"`
}
