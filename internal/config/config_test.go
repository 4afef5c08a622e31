package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMainConfigDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "input_dir: ./in\n")

	cfg, err := LoadMainConfig(path, false)
	require.NoError(t, err)

	assert.Equal(t, "./in", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "{dept}_{timestamp}_{uuid}.iif", cfg.OutputFileFormat)
	assert.True(t, cfg.ShouldArchive())
}

func TestLoadMainConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := LoadMainConfig(path, false)
	assert.Error(t, err)

	cfg, err := LoadMainConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "./input", cfg.InputDir)
}

func TestLoadMainConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadMainConfig(writeFile(t, dir, "a.yaml", "log_level: chatty\n"), false)
	assert.ErrorContains(t, err, "log_level")

	_, err = LoadMainConfig(writeFile(t, dir, "b.yaml", "output_file_format: out.iif\n"), false)
	assert.ErrorContains(t, err, "output_file_format")

	_, err = LoadMainConfig(writeFile(t, dir, "c.yaml", "input_dir: [\n"), false)
	assert.ErrorContains(t, err, "parse")
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "output_dir: ./from-file\nmax_concurrency: 2\n")

	t.Setenv(EnvOutputDir, "/tmp/from-env")
	t.Setenv(EnvMaxConcurrency, "8")
	t.Setenv(EnvContinueOnError, "true")

	cfg, err := LoadMainConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", cfg.OutputDir)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.True(t, cfg.ContinueOnError)

	t.Setenv(EnvMaxConcurrency, "many")
	_, err = LoadMainConfig(path, false)
	assert.ErrorContains(t, err, EnvMaxConcurrency)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", EnvLogLevel+"=debug\n")

	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	require.NoError(t, LoadEnv(envFile, true))
	assert.Equal(t, "debug", os.Getenv(EnvLogLevel))

	assert.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), false))
	assert.Error(t, LoadEnv(filepath.Join(dir, "missing.env"), true))
}

const journalConfig = `
department_name: Accounts Payable
department_code: AP
file_matching_patterns: ["ap_*.csv", "ap_*.xlsx"]
column_mapping:
  account: Account
  date: Date
  debit: Debit
  credit: Credit
  name: Vendor
  doc_number: Ref
default_txn_type: bill
name_table: vendor
transaction_grouping:
  group_by_field: Ref
static_fields:
  - field: class
    value: Operations
`

func TestLoadDepartmentConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ap.yaml", journalConfig)
	writeFile(t, dir, "gl.yml", "column_mapping: {account: A, date: D, amount: X}\n")

	configs, err := LoadDepartmentConfigs(dir)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	ap := configs["AP"]
	require.NotNil(t, ap)
	assert.Equal(t, ",", ap.CSVSettings.Delimiter)
	assert.Equal(t, 2, ap.CSVSettings.DataStartRow)
	assert.Equal(t, 2, ap.XLSXSettings.DataStartRow)
	assert.Equal(t, "1/2/2006", ap.DateFormat)
	assert.True(t, ap.ColumnMapping.UsesDebitCredit())
	assert.Equal(t, "Vendor", ap.ColumnMapping.Columns()[FieldName])
	assert.NotContains(t, ap.ColumnMapping.Columns(), FieldMemo)

	gl := configs["gl"]
	require.NotNil(t, gl)
	assert.Equal(t, "gl", gl.DepartmentCode)
	assert.Equal(t, "GENERAL JOURNAL", gl.DefaultTxnType)
}

func TestValidateDepartmentConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no account", "column_mapping: {date: D, amount: X}", "account"},
		{"no amount", "column_mapping: {account: A, date: D}", "amount"},
		{"amount and debit", "column_mapping: {account: A, date: D, amount: X, debit: Y}", "combined"},
		{"bad type", "column_mapping: {account: A, date: D, amount: X}\ndefault_txn_type: LOAN", "default_txn_type"},
		{"bad table", "column_mapping: {account: A, date: D, amount: X}\nname_table: employee", "name_table"},
		{"bad static", "column_mapping: {account: A, date: D, amount: X}\nstatic_fields: [{field: color, value: x}]", "color"},
		{"bad pattern", "column_mapping: {account: A, date: D, amount: X}\nfile_matching_patterns: ['[']", "pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "dept.yaml", tt.yaml)
			_, err := LoadDepartmentConfig(path)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	t.Run("static account", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "dept.yaml",
			"column_mapping: {date: D, amount: X}\nstatic_fields: [{field: account, value: Checking}]")
		_, err := LoadDepartmentConfig(path)
		assert.NoError(t, err)
	})
}

func TestMatchDepartment(t *testing.T) {
	configs := map[string]*DepartmentConfig{
		"AP": {DepartmentCode: "AP", FileMatchingPatterns: []string{"ap_*.csv"}},
		"AR": {DepartmentCode: "AR", FileMatchingPatterns: []string{"ar_*", "*.xlsx"}},
	}

	assert.Equal(t, "AP", MatchDepartment("/in/ap_2024.csv", configs).DepartmentCode)
	assert.Equal(t, "AR", MatchDepartment("ar_jan.csv", configs).DepartmentCode)
	assert.Equal(t, "AR", MatchDepartment("book.xlsx", configs).DepartmentCode)
	assert.Nil(t, MatchDepartment("gl.csv", configs))
}

func TestSampleConfigs(t *testing.T) {
	configs, err := LoadDepartmentConfigs(filepath.Join("..", "..", "configs"))
	require.NoError(t, err)

	gl := configs["GL"]
	require.NotNil(t, gl)
	assert.True(t, gl.ColumnMapping.UsesDebitCredit())
	assert.Same(t, gl, MatchDepartment("gl_2024_01.xlsx", configs))

	main, err := LoadMainConfig(filepath.Join("..", "..", "config.example.yaml"), false)
	require.NoError(t, err)
	assert.True(t, main.ShouldArchive())
}
