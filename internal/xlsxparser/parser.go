// =============================================================================
// CSV to IIF Converter - XLSX Parser Module
// =============================================================================
//
// This module reads journal exports saved as Excel workbooks. One sheet is
// read into a types.Table exactly as the CSV parser would produce it, so the
// rest of the pipeline does not care which format a department sends.
//
// SHEET LAYOUT:
//   Row N (HeaderRow)      : column headers
//   Row M (DataStartRow)+  : one journal line per row
//
// Cells are read with their displayed (formatted) value, so dates and
// amounts arrive as the user sees them in Excel.
//
// Without a configured sheet_name the first sheet whose name does not start
// with an underscore is read.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the configured sheet of an XLSX workbook.
func Parse(filePath string, settings config.XLSXSettings) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := parseFile(f, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// visibleSheets lists the workbook's sheets, skipping those whose name
// starts with an underscore (helper and lookup sheets).
func visibleSheets(f *excelize.File) []string {
	var names []string
	for _, name := range f.GetSheetList() {
		if !strings.HasPrefix(name, "_") {
			names = append(names, name)
		}
	}
	return names
}

func parseFile(f *excelize.File, settings config.XLSXSettings) (*types.Table, error) {
	sheet := settings.SheetName
	if sheet == "" {
		visible := visibleSheets(f)
		if len(visible) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = visible[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	headerRow := settings.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}
	dataStart := settings.DataStartRow
	if dataStart <= headerRow {
		dataStart = headerRow + 1
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	table := &types.Table{}
	rowNumber := 0
	for rows.Next() {
		rowNumber++
		if rowNumber < headerRow {
			continue
		}

		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNumber, err)
		}

		if rowNumber == headerRow {
			table.Headers = cleanHeaders(cells)
			continue
		}
		if rowNumber < dataStart || isRowEmpty(cells) {
			continue
		}

		table.Rows = append(table.Rows, toRow(rowNumber, table.Headers, cells))
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if table.Headers == nil {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}
	return table, nil
}

func toRow(number int, headers, cells []string) types.Row {
	fields := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(cells) {
			fields[header] = strings.TrimSpace(cells[i])
		} else {
			fields[header] = ""
		}
	}
	return types.Row{Number: number, Fields: fields}
}

// cleanHeaders trims headers and names blank columns Column_N.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
