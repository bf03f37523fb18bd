// Package importer rebuilds a budget's header tree and priced items from the
// "Zakázka" sheet of an uploaded Excel workbook.
package importer

import (
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SmelhausJosef/Kokot-AI/models"
)

// SheetName is the workbook sheet the importer reads.
const SheetName = "Zakázka"

// ImportBudget reads the budget's stored workbook and persists its header
// tree and items. All rows are written in one transaction: a failure on any
// row leaves no partial structure behind. Returns the number of created
// items. Mid-sheet failures come back wrapped in a *RowError carrying the
// offending sheet row.
func ImportBudget(db *gorm.DB, budget *models.Budget) (int, error) {
	if budget.ExcelFile == "" {
		return 0, ErrNoSourceFile
	}

	workbook, err := excelize.OpenFile(budget.ExcelFile)
	if err != nil {
		return 0, err
	}
	defer workbook.Close()

	index, err := workbook.GetSheetIndex(SheetName)
	if err != nil || index < 0 {
		return 0, ErrSheetNotFound
	}

	rows, err := workbook.GetRows(SheetName)
	if err != nil {
		return 0, err
	}

	headerRow, columns, err := findHeaderRow(rows)
	if err != nil {
		return 0, err
	}

	created := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		builder := newHierarchyBuilder(tx, budget, columns)
		for i, row := range rows[headerRow+1:] {
			if err := builder.processRow(row); err != nil {
				return &RowError{Row: headerRow + 2 + i, Err: err}
			}
		}
		created = builder.created
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
