package importer

import "strings"

// Column labels looked for in the header row of the "Zakázka" sheet.
const (
	labelType      = "Typ"
	labelCode      = "Kód"
	labelDesc      = "Popis"
	labelUnit      = "MJ"
	labelUnitPrice = "Jedn. Cena"
)

const noColumn = -1

// columnMap holds the physical column index of each recognized label.
// Optional columns are noColumn when the sheet does not carry them.
type columnMap struct {
	typeIdx      int
	codeIdx      int
	descIdx      int
	unitIdx      int
	unitPriceIdx int
}

// findHeaderRow scans rows from the top for the first one that labels at
// least a "Typ" and a "Popis" column. Returns the 0-based index of that row
// together with the column mapping. On duplicate labels the leftmost wins.
func findHeaderRow(rows [][]string) (int, columnMap, error) {
	for i, row := range rows {
		labels := make(map[string]int)
		for idx, cell := range row {
			name := strings.TrimSpace(cell)
			if name == "" {
				continue
			}
			if _, seen := labels[name]; !seen {
				labels[name] = idx
			}
		}

		typeIdx, hasType := labels[labelType]
		descIdx, hasDesc := labels[labelDesc]
		if !hasType || !hasDesc {
			continue
		}

		cm := columnMap{
			typeIdx:      typeIdx,
			descIdx:      descIdx,
			codeIdx:      noColumn,
			unitIdx:      noColumn,
			unitPriceIdx: noColumn,
		}
		if idx, ok := labels[labelCode]; ok {
			cm.codeIdx = idx
		}
		if idx, ok := labels[labelUnit]; ok {
			cm.unitIdx = idx
		}
		if idx, ok := labels[labelUnitPrice]; ok {
			cm.unitPriceIdx = idx
		}
		return i, cm, nil
	}
	return 0, columnMap{}, ErrHeaderRowNotFound
}

// cellText returns the trimmed text of a cell, or "" when the column is not
// mapped or the row is too short to reach it.
func cellText(row []string, idx int) string {
	if idx == noColumn || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
