// =============================================================================
// CSV to IIF Converter - CSV Parser Module
// =============================================================================
//
// This module parses delimited journal exports. It handles:
//   - Different delimiters (comma, pipe, semicolon, tab)
//   - Multi-line headers (merged into one header per column)
//   - Custom data start rows
//   - Comment lines
//   - Quoted fields, including lazily quoted legacy exports
//
// Parse loads a whole file into a types.Table. StreamingParser reads one row
// at a time and is what Parse is built on.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file into a table.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	parser, err := NewStreamingParser(filePath, settings)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	table, err := collect(parser)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// parseReader reads CSV data from r into a table.
func parseReader(r io.Reader, settings config.CSVSettings) (*types.Table, error) {
	parser, err := newStreamingParser(r, settings)
	if err != nil {
		return nil, err
	}
	return collect(parser)
}

func collect(parser *StreamingParser) (*types.Table, error) {
	table := &types.Table{Headers: parser.Headers()}
	for parser.Next() {
		table.Rows = append(table.Rows, parser.Row())
	}
	if err := parser.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// configureReader applies the department's CSV settings to the reader.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	if len(settings.Comment) > 0 {
		reader.Comment = rune(settings.Comment[0])
	}

	// Legacy exports are not strict about column counts or quoting.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// mergeHeaders combines header rows column by column. Blank parts are
// skipped; the remaining parts are joined with a space.
func mergeHeaders(headerRows [][]string) []string {
	if len(headerRows) == 1 {
		return cleanHeaders(headerRows[0])
	}

	maxCols := 0
	for _, row := range headerRows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for _, row := range headerRows {
			if col < len(row) {
				if value := strings.TrimSpace(row[col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers)
}

// cleanHeaders trims headers, strips a UTF-8 byte order mark and names
// blank columns Column_N.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
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

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads a CSV file one row at a time.
//
// USAGE:
//
//	parser, err := csvparser.NewStreamingParser(path, settings)
//	if err != nil { ... }
//	defer parser.Close()
//	for parser.Next() {
//	    row := parser.Row()
//	}
//	if err := parser.Err(); err != nil { ... }
type StreamingParser struct {
	closer    io.Closer
	reader    *csv.Reader
	headers   []string
	current   types.Row
	rowNumber int
	err       error
	settings  config.CSVSettings
}

// NewStreamingParser opens filePath and reads its headers.
func NewStreamingParser(filePath string, settings config.CSVSettings) (*StreamingParser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	parser, err := newStreamingParser(file, settings)
	if err != nil {
		file.Close()
		return nil, err
	}
	parser.closer = file
	return parser, nil
}

func newStreamingParser(r io.Reader, settings config.CSVSettings) (*StreamingParser, error) {
	if settings.HeaderRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}

	reader := csv.NewReader(bufio.NewReader(r))
	configureReader(reader, settings)

	parser := &StreamingParser{reader: reader, settings: settings}

	if err := parser.readHeaders(); err != nil {
		return nil, err
	}
	if err := parser.skipToDataStart(); err != nil {
		return nil, err
	}
	return parser, nil
}

func (p *StreamingParser) readHeaders() error {
	headerRows := make([][]string, 0, p.settings.HeaderRows)
	for i := 0; i < p.settings.HeaderRows; i++ {
		row, err := p.reader.Read()
		if err == io.EOF {
			if i == 0 {
				return fmt.Errorf("CSV file is empty")
			}
			return fmt.Errorf("unexpected end of file while reading headers")
		}
		if err != nil {
			return fmt.Errorf("error reading header row %d: %w", i+1, err)
		}
		headerRows = append(headerRows, row)
		p.rowNumber++
	}

	p.headers = mergeHeaders(headerRows)
	return nil
}

func (p *StreamingParser) skipToDataStart() error {
	target := p.settings.DataStartRow
	if target <= 0 {
		target = p.settings.HeaderRows + 1
	}

	for p.rowNumber < target-1 {
		_, err := p.reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error skipping to data start: %w", err)
		}
		p.rowNumber++
	}
	return nil
}

// Next advances to the next non-empty row.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	for {
		row, err := p.reader.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
			return false
		}
		p.rowNumber++

		if isRowEmpty(row) {
			continue
		}

		line, _ := p.reader.FieldPos(0)
		fields := make(map[string]string, len(p.headers))
		for i, header := range p.headers {
			if i < len(row) {
				fields[header] = strings.TrimSpace(row[i])
			} else {
				fields[header] = ""
			}
		}
		p.current = types.Row{Number: line, Fields: fields}
		return true
	}
}

// Row returns the current row.
func (p *StreamingParser) Row() types.Row { return p.current }

// Headers returns the merged headers.
func (p *StreamingParser) Headers() []string { return p.headers }

// RowNumber returns the number of records read so far, headers included.
func (p *StreamingParser) RowNumber() int { return p.rowNumber }

// Err returns the first read error.
func (p *StreamingParser) Err() error { return p.err }

// Close closes the underlying file, if the parser opened one.
func (p *StreamingParser) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
