package importer

import (
	"strings"

	"gorm.io/gorm"

	"github.com/SmelhausJosef/Kokot-AI/models"
)

// headerLevels maps a Type-column marker to its depth in the budget tree,
// outermost first.
var headerLevels = map[string]int{
	"Stavba":          1,
	"Skupina objektů": 2,
	"Objekt":          3,
	"Podobjekt":       4,
	"Oddíl":           5,
}

// leafMarker tags a priced line item row.
const leafMarker = "SUB"

// Free-text annotations that appear in the Code or Description column of
// rows with a blank Type. They carry no budget structure.
var annotationMarkers = []string{"Výkaz výměr:", "Ztratné:"}

type rowKind int

const (
	rowBlank rowKind = iota
	rowHeaderMarker
	rowLeaf
	rowAnnotation
)

// classifyRow decides what a data row is before any tree building happens.
// level is only meaningful for rowHeaderMarker.
func classifyRow(row []string, cm columnMap) (kind rowKind, level int) {
	rowType := cellText(row, cm.typeIdx)
	if rowType == "" {
		if isAnnotationRow(row, cm) {
			return rowAnnotation, 0
		}
		return rowBlank, 0
	}
	if lvl, ok := headerLevels[rowType]; ok {
		return rowHeaderMarker, lvl
	}
	if rowType == leafMarker {
		return rowLeaf, 0
	}
	return rowBlank, 0
}

func isAnnotationRow(row []string, cm columnMap) bool {
	for _, idx := range []int{cm.codeIdx, cm.descIdx} {
		text := cellText(row, idx)
		for _, marker := range annotationMarkers {
			if strings.Contains(text, marker) {
				return true
			}
		}
	}
	return false
}

// hierarchyBuilder rebuilds the header tree row by row. stack records the
// most recently created header per level; a new header at level N evicts
// every deeper entry, so the parent of any header or item is always the
// nearest shallower header still open.
type hierarchyBuilder struct {
	tx      *gorm.DB
	budget  *models.Budget
	columns columnMap
	stack   map[int]*models.BudgetHeader
	created int
}

func newHierarchyBuilder(tx *gorm.DB, budget *models.Budget, cm columnMap) *hierarchyBuilder {
	return &hierarchyBuilder{
		tx:      tx,
		budget:  budget,
		columns: cm,
		stack:   make(map[int]*models.BudgetHeader),
	}
}

func (b *hierarchyBuilder) processRow(row []string) error {
	kind, level := classifyRow(row, b.columns)
	switch kind {
	case rowHeaderMarker:
		return b.openHeader(row, level)
	case rowLeaf:
		return b.createItem(row)
	}
	return nil
}

func (b *hierarchyBuilder) openHeader(row []string, level int) error {
	title := cellText(row, b.columns.descIdx)
	if title == "" {
		return nil
	}

	header := &models.BudgetHeader{
		BudgetID: b.budget.ID,
		ParentID: b.parentIDFor(level),
		Title:    title,
	}
	if err := b.tx.Create(header).Error; err != nil {
		return err
	}

	b.stack[level] = header
	for deeper := range b.stack {
		if deeper > level {
			delete(b.stack, deeper)
		}
	}
	return nil
}

// parentIDFor returns the id of the open header with the greatest level
// strictly below the given one, or nil when the new header is a root.
func (b *hierarchyBuilder) parentIDFor(level int) *uint {
	best := 0
	var parent *models.BudgetHeader
	for candidate, header := range b.stack {
		if candidate < level && candidate > best {
			best = candidate
			parent = header
		}
	}
	if parent == nil {
		return nil
	}
	id := parent.ID
	return &id
}

func (b *hierarchyBuilder) createItem(row []string) error {
	if len(b.stack) == 0 {
		return ErrOrphanLeafRow
	}

	description := cellText(row, b.columns.descIdx)
	if description == "" {
		return nil
	}

	price, err := parseDecimal(cellText(row, b.columns.unitPriceIdx))
	if err != nil {
		return err
	}

	item := &models.BudgetItem{
		HeaderID:     b.deepestHeader().ID,
		Code:         cellText(row, b.columns.codeIdx),
		Description:  description,
		MeasureUnit:  cellText(row, b.columns.unitIdx),
		PriceForUnit: price,
	}
	if err := b.tx.Create(item).Error; err != nil {
		return err
	}
	b.created++
	return nil
}

func (b *hierarchyBuilder) deepestHeader() *models.BudgetHeader {
	deepest := 0
	for level := range b.stack {
		if level > deepest {
			deepest = level
		}
	}
	return b.stack[deepest]
}
