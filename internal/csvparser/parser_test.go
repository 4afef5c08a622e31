package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settings() config.CSVSettings {
	return config.CSVSettings{Delimiter: ",", HeaderRows: 1, DataStartRow: 2}
}

func TestParseReader(t *testing.T) {
	input := "Entry,Date,Account,Amount,Memo\n" +
		"1,1/5/2024,Checking,100.00,\"Rent, January\"\n" +
		"\n" +
		"1,1/5/2024,Rent Expense,-100.00,\n"

	table, err := parseReader(strings.NewReader(input), settings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Entry", "Date", "Account", "Amount", "Memo"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, "Rent, January", table.Rows[0].Get("Memo"))
	assert.Equal(t, 4, table.Rows[1].Number)
	assert.Equal(t, "Rent Expense", table.Rows[1].Get("Account"))
	assert.Equal(t, "", table.Rows[1].Get("Memo"))
}

func TestParseReaderDelimiters(t *testing.T) {
	for _, tt := range []struct{ delimiter, sep string }{
		{"tab", "\t"}, {"|", "|"}, {"semicolon", ";"},
	} {
		t.Run(tt.delimiter, func(t *testing.T) {
			s := settings()
			s.Delimiter = tt.delimiter
			input := "A" + tt.sep + "B\n1" + tt.sep + "2\n"

			table, err := parseReader(strings.NewReader(input), s)
			require.NoError(t, err)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, "2", table.Rows[0].Get("B"))
		})
	}
}

func TestParseReaderMultiLineHeader(t *testing.T) {
	s := config.CSVSettings{Delimiter: ",", HeaderRows: 2, DataStartRow: 4, Comment: "#"}
	input := "Check,Check,\nNumber,Date,\n# exported by legacy system\nskip,me,\n101,1/2/2024,x\n"

	table, err := parseReader(strings.NewReader(input), s)
	require.NoError(t, err)

	assert.Equal(t, []string{"Check Number", "Check Date", "Column_3"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "101", table.Rows[0].Get("Check Number"))
	assert.Equal(t, 5, table.Rows[0].Number)
}

func TestParseReaderShortRowsAndBOM(t *testing.T) {
	input := "\ufeffA,B,C\n1\n"

	table, err := parseReader(strings.NewReader(input), settings())
	require.NoError(t, err)
	assert.Equal(t, "A", table.Headers[0])
	assert.Equal(t, "", table.Rows[0].Get("C"))
}

func TestParseReaderEmpty(t *testing.T) {
	_, err := parseReader(strings.NewReader(""), settings())
	assert.ErrorContains(t, err, "empty")

	s := settings()
	s.HeaderRows = 0
	_, err = parseReader(strings.NewReader("A\n"), s)
	assert.ErrorContains(t, err, "header_rows")
}

func TestParseFileAndStreaming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gl.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B\n1,2\n3,4\n"), 0o644))

	table, err := Parse(path, settings())
	require.NoError(t, err)
	assert.Equal(t, path, table.SourceFile)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "4", table.Rows[1].Get("B"))

	parser, err := NewStreamingParser(path, settings())
	require.NoError(t, err)
	defer parser.Close()

	var values []string
	for parser.Next() {
		values = append(values, parser.Row().Get("A"))
	}
	require.NoError(t, parser.Err())
	assert.Equal(t, []string{"1", "3"}, values)
	assert.Equal(t, 3, parser.RowNumber())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"), settings())
	assert.Error(t, err)
}
