package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHeaderRowLocatesColumnsByLabel(t *testing.T) {
	rows := [][]string{
		{"Rozpočet stavby", ""},
		{"Poř.", "Typ", "Kód", "Popis", "MJ", "Výměra", "Jedn. Cena", "Cena"},
	}

	index, cm, err := findHeaderRow(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.Equal(t, 1, cm.typeIdx)
	assert.Equal(t, 2, cm.codeIdx)
	assert.Equal(t, 3, cm.descIdx)
	assert.Equal(t, 4, cm.unitIdx)
	assert.Equal(t, 6, cm.unitPriceIdx)
}

func TestFindHeaderRowIgnoresColumnOrder(t *testing.T) {
	rows := [][]string{{"Popis", "Typ"}}

	_, cm, err := findHeaderRow(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, cm.typeIdx)
	assert.Equal(t, 0, cm.descIdx)
	assert.Equal(t, noColumn, cm.codeIdx)
	assert.Equal(t, noColumn, cm.unitIdx)
	assert.Equal(t, noColumn, cm.unitPriceIdx)
}

func TestFindHeaderRowFirstDuplicateWins(t *testing.T) {
	rows := [][]string{{"Typ", "Popis", "Typ"}}

	_, cm, err := findHeaderRow(rows)
	require.NoError(t, err)
	assert.Equal(t, 0, cm.typeIdx)
}

func TestFindHeaderRowMissingRequiredColumns(t *testing.T) {
	rows := [][]string{
		{"Poř.", "Kód", "Popis"},
		{"something", "else"},
	}

	_, _, err := findHeaderRow(rows)
	assert.ErrorIs(t, err, ErrHeaderRowNotFound)
}

func TestCellTextShortRows(t *testing.T) {
	row := []string{"SUB"}
	assert.Equal(t, "SUB", cellText(row, 0))
	assert.Equal(t, "", cellText(row, 5))
	assert.Equal(t, "", cellText(row, noColumn))
}
