package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook whose "Journal" sheet holds rows starting
// at A1, plus an underscore-prefixed helper sheet.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Journal"))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Journal", cell, &row))
	}
	_, err := f.NewSheet("_lookups")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "journal.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Entry", "Account", "", "Amount"},
		{"7", "Checking", "", "250.00"},
		{nil, nil, nil},
		{"7", "Sales", "extra", "-250.00"},
	})

	table, err := Parse(path, config.XLSXSettings{HeaderRow: 1, DataStartRow: 2})
	require.NoError(t, err)

	assert.Equal(t, path, table.SourceFile)
	assert.Equal(t, []string{"Entry", "Account", "Column_3", "Amount"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, "Checking", table.Rows[0].Get("Account"))
	assert.Equal(t, "", table.Rows[0].Get("Column_3"))
	assert.Equal(t, 4, table.Rows[1].Number)
	assert.Equal(t, "-250.00", table.Rows[1].Get("Amount"))
}

func TestParseHeaderOffset(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Monthly journal export"},
		{"Account", "Amount"},
		{"ignored", "0"},
		{"Cash", "10"},
	})

	table, err := Parse(path, config.XLSXSettings{SheetName: "Journal", HeaderRow: 2, DataStartRow: 4})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Cash", table.Rows[0].Get("Account"))
}

func TestParseErrors(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{{"A"}})

	_, err := Parse(path, config.XLSXSettings{SheetName: "Missing"})
	assert.ErrorContains(t, err, "not found")

	_, err = Parse(path, config.XLSXSettings{HeaderRow: 5})
	assert.ErrorContains(t, err, "no header row")

	_, err = Parse(filepath.Join(t.TempDir(), "none.xlsx"), config.XLSXSettings{})
	assert.Error(t, err)
}

func TestParseSkipsHelperSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "_lookups"))
	require.NoError(t, f.SetCellValue("_lookups", "A1", "Code"))
	_, err := f.NewSheet("Journal")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Journal", "A1", &[]interface{}{"Account", "Amount"}))
	require.NoError(t, f.SetSheetRow("Journal", "A2", &[]interface{}{"Checking", "5.00"}))

	path := filepath.Join(t.TempDir(), "journal.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := Parse(path, config.XLSXSettings{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Account", "Amount"}, table.Headers)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Checking", table.Rows[0].Get("Account"))

	only := excelize.NewFile()
	defer only.Close()
	require.NoError(t, only.SetSheetName("Sheet1", "_helper"))
	path = filepath.Join(t.TempDir(), "helpers.xlsx")
	require.NoError(t, only.SaveAs(path))

	_, err = Parse(path, config.XLSXSettings{})
	assert.ErrorContains(t, err, "no sheets")
}
