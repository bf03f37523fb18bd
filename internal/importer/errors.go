package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSourceFile - the budget has no stored workbook to import.
	ErrNoSourceFile = errors.New("budget has no Excel file to import")
	// ErrSheetNotFound - the workbook has no "Zakázka" sheet.
	ErrSheetNotFound = errors.New("excel sheet 'Zakázka' not found")
	// ErrHeaderRowNotFound - no row with the required column labels.
	ErrHeaderRowNotFound = errors.New("header row with 'Typ' and 'Popis' not found")
	// ErrOrphanLeafRow - a SUB row appeared before any header row.
	ErrOrphanLeafRow = errors.New("SUB row encountered before any header row")
	// ErrMalformedNumber - a cell that should hold a number does not.
	ErrMalformedNumber = errors.New("invalid decimal value")
)

// RowError tags an import failure with the 1-based sheet row it happened on.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
