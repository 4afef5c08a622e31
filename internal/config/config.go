// =============================================================================
// CSV to IIF Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing all configuration files.
// It handles both the main application configuration and the per-department
// configurations that describe each department's journal export layout.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global application settings
//   2. Department Configs (configs/*.yaml): Column mapping and rules per export
//   3. Environment (.env, IIF_* variables): Overrides for the main config
//
// PRECEDENCE (highest first):
//   IIF_* environment variables > .env file > config.yaml > built-in defaults
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for *.csv and *.xlsx journal exports.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated .iif files and the run logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives a copy of every generated .iif file.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// ConfigsDir holds the department configuration files.
	// Default: "./configs"
	ConfigsDir string `yaml:"configs_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an additional log destination. Empty disables it.
	// Default: "./logs/converter.log"
	LogFile string `yaml:"log_file"`

	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFileFormat is the output file name template.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {dept}      - Department code
	//   {source}    - Input file name without extension
	// The .iif extension is added when missing.
	// Default: "{dept}_{timestamp}_{uuid}.iif"
	OutputFileFormat string `yaml:"output_file_format"`

	// ArchiveFiles moves inputs and copies outputs to the archive
	// directories after a successful conversion.
	// Default: true
	ArchiveFiles *bool `yaml:"archive_files"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps converting a file when some of its rows fail
	// validation; the failing transactions are left out of the output.
	// Default: false
	ContinueOnError bool `yaml:"continue_on_error"`
}

// ShouldArchive reports whether processed files are archived.
func (c *MainConfig) ShouldArchive() bool {
	return c.ArchiveFiles == nil || *c.ArchiveFiles
}

// =============================================================================
// DEPARTMENT CONFIGURATION STRUCTURE
// =============================================================================

// DepartmentConfig describes one department's journal export.
type DepartmentConfig struct {
	// DepartmentName is used in logs and summaries.
	DepartmentName string `yaml:"department_name"`

	// DepartmentCode is the short code used for {dept} and as the map key.
	DepartmentCode string `yaml:"department_code"`

	// FileMatchingPatterns are glob patterns matched against input file
	// names, e.g. "payments_*.csv".
	FileMatchingPatterns []string `yaml:"file_matching_patterns"`

	// CSVSettings controls parsing of delimited exports.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// XLSXSettings controls parsing of workbook exports.
	XLSXSettings XLSXSettings `yaml:"xlsx_settings"`

	// ColumnMapping maps IIF fields to source column headers.
	ColumnMapping ColumnMapping `yaml:"column_mapping"`

	// DefaultTxnType is used when no txn_type column is mapped or the cell
	// is empty, e.g. "GENERAL JOURNAL".
	// Default: "GENERAL JOURNAL"
	DefaultTxnType string `yaml:"default_txn_type"`

	// DateFormat is the Go layout of date cells.
	// Default: "1/2/2006"
	DateFormat string `yaml:"date_format"`

	// NameTable registers every non-empty line name in a document name
	// table: "customer", "vendor", "other", or "" for none.
	NameTable string `yaml:"name_table"`

	// AssignTransactionIDs fills empty TRNSID/SPLID cells with UUIDs.
	AssignTransactionIDs bool `yaml:"assign_transaction_ids"`

	// TransformationRules are applied to source cells before mapping.
	TransformationRules []TransformationRule `yaml:"transformation_rules"`

	// TransactionGrouping defines how rows are grouped into transactions.
	TransactionGrouping TransactionGrouping `yaml:"transaction_grouping"`

	// StaticFields supply constant values for IIF fields whose mapped cell
	// is empty or unmapped.
	StaticFields []StaticField `yaml:"static_fields"`
}

// =============================================================================
// PARSER SETTINGS
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter: ",", "|", ";", "tab".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows; multi-row headers are merged.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row where data begins.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`

	// Comment lines starting with this character are skipped.
	Comment string `yaml:"comment"`
}

// XLSXSettings contains settings for parsing XLSX workbooks.
type XLSXSettings struct {
	// SheetName is the sheet to read. Empty selects the first sheet.
	SheetName string `yaml:"sheet_name"`

	// HeaderRow is the 1-based header row.
	// Default: 1
	HeaderRow int `yaml:"header_row"`

	// DataStartRow is the 1-based row where data begins.
	// Default: HeaderRow + 1
	DataStartRow int `yaml:"data_start_row"`
}

// =============================================================================
// COLUMN MAPPING
// =============================================================================

// ColumnMapping names the source column for each IIF field. Unmapped fields
// are left empty or filled from StaticFields.
type ColumnMapping struct {
	Account string `yaml:"account"`
	Date    string `yaml:"date"`

	// Amount is a signed amount column. Alternatively map Debit and Credit;
	// the line amount is then Debit minus Credit.
	Amount string `yaml:"amount"`
	Debit  string `yaml:"debit"`
	Credit string `yaml:"credit"`

	DocNumber     string `yaml:"doc_number"`
	TxnID         string `yaml:"txn_id"`
	TxnType       string `yaml:"txn_type"`
	Name          string `yaml:"name"`
	Class         string `yaml:"class"`
	Memo          string `yaml:"memo"`
	PaymentMethod string `yaml:"payment_method"`

	// Header line only.
	ToPrint string `yaml:"to_print"`
	DueDate string `yaml:"due_date"`
	Terms   string `yaml:"terms"`
}

// Field names accepted by StaticField.Field and validation messages.
const (
	FieldAccount       = "account"
	FieldDate          = "date"
	FieldAmount        = "amount"
	FieldDocNumber     = "doc_number"
	FieldTxnID         = "txn_id"
	FieldTxnType       = "txn_type"
	FieldName          = "name"
	FieldClass         = "class"
	FieldMemo          = "memo"
	FieldPaymentMethod = "payment_method"
	FieldToPrint       = "to_print"
	FieldDueDate       = "due_date"
	FieldTerms         = "terms"
)

// Columns returns the mapping as field name -> source column, omitting
// unmapped fields and the debit/credit pair.
func (m ColumnMapping) Columns() map[string]string {
	all := map[string]string{
		FieldAccount:       m.Account,
		FieldDate:          m.Date,
		FieldAmount:        m.Amount,
		FieldDocNumber:     m.DocNumber,
		FieldTxnID:         m.TxnID,
		FieldTxnType:       m.TxnType,
		FieldName:          m.Name,
		FieldClass:         m.Class,
		FieldMemo:          m.Memo,
		FieldPaymentMethod: m.PaymentMethod,
		FieldToPrint:       m.ToPrint,
		FieldDueDate:       m.DueDate,
		FieldTerms:         m.Terms,
	}
	for field, column := range all {
		if column == "" {
			delete(all, field)
		}
	}
	return all
}

// UsesDebitCredit reports whether amounts come from a debit/credit pair.
func (m ColumnMapping) UsesDebitCredit() bool {
	return m.Amount == "" && (m.Debit != "" || m.Credit != "")
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines a transformation to apply to a source column.
type TransformationRule struct {
	// Field is the source column header.
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the type of transformation to apply.
	// Supported types:
	//   - "prepend_string"      : Add a string to the beginning of the value
	//   - "append_string"       : Add a string to the end of the value
	//   - "trim", "trim_left", "trim_right"
	//   - "uppercase", "lowercase"
	//   - "replace"             : Replace Find with Value
	//   - "regex_replace"       : Replace pattern Find with Value
	//   - "substring"           : Value is "start,end"
	//   - "pad_zeros_to_length" : Pad with leading zeros to Value characters
	//   - "pad_spaces_to_length": Pad with trailing spaces to Value characters
	//   - "truncate"            : Cut to at most Value characters
	//   - "remove_leading_zeros"
	//   - "format_date"         : Value is "input_layout|output_layout"
	//   - "negate"              : Flip the sign of a decimal amount
	//   - "strip_currency"      : Remove currency symbols and grouping commas
	//   - "format_number"       : Round to Value decimal places (default 2)
	//   - "normalize_whitespace": Collapse runs of whitespace
	//   - "lookup"              : Replace using LookupTable
	//   - "lookup_with_default" : Replace using LookupTable, else Value
	//   - "default_if_empty"    : Use Value when the cell is empty
	//   - "if_empty_use_field"  : Use the column named by Value when empty
	//   - "conditional"         : Apply Then when Condition holds
	Type string `yaml:"type"`

	// Value is the parameter for the transformation.
	Value string `yaml:"value"`

	// Find is used by "replace" and "regex_replace".
	Find string `yaml:"find,omitempty"`

	// Condition is used by "conditional". Supported forms:
	//   "<column> == '<value>'", "<column> != '<value>'",
	//   "<column> empty", "<column> not_empty"
	Condition string `yaml:"condition,omitempty"`

	// Then are the actions applied when Condition holds.
	Then []TransformationAction `yaml:"then,omitempty"`

	// LookupTable is used by "lookup" and "lookup_with_default".
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// =============================================================================
// TRANSACTION GROUPING STRUCTURE
// =============================================================================

// TransactionGrouping defines how rows are grouped into transactions.
type TransactionGrouping struct {
	// GroupByField is the source column whose value identifies the
	// transaction a row belongs to (entry number, check number, batch ID).
	// Empty makes every row its own transaction.
	GroupByField string `yaml:"group_by_field"`

	// SortByField optionally orders rows within a transaction. The first
	// row after sorting becomes the TRNS line.
	SortByField string `yaml:"sort_by_field,omitempty"`

	// SortOrder is "asc" or "desc".
	// Default: "asc"
	SortOrder string `yaml:"sort_order,omitempty"`
}

// =============================================================================
// STATIC FIELD STRUCTURE
// =============================================================================

// StaticField supplies a constant value for an IIF field.
type StaticField struct {
	// Field is one of the Field* names, e.g. "class".
	Field string `yaml:"field"`

	// Value is the constant value.
	Value string `yaml:"value"`

	// Override replaces non-empty source values too.
	Override bool `yaml:"override,omitempty"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file and applies
// IIF_* environment overrides. A missing file is not an error when
// allowMissing is true; defaults and environment values are used instead.
func LoadMainConfig(configPath string, allowMissing bool) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err) && allowMissing:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.ConfigsDir == "" {
		config.ConfigsDir = "./configs"
	}
	if config.LogFile == "" {
		config.LogFile = "./logs/converter.log"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.OutputFileFormat == "" {
		config.OutputFileFormat = "{dept}_{timestamp}_{uuid}.iif"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig checks option values.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error (got %q)", config.LogLevel)
	}
	if !strings.Contains(config.OutputFileFormat, "{uuid}") &&
		!strings.Contains(config.OutputFileFormat, "{timestamp}") {
		return fmt.Errorf("output_file_format must contain {uuid} or {timestamp} to avoid overwriting files")
	}
	return nil
}

// LoadDepartmentConfigs loads every *.yaml / *.yml file in configsDir,
// keyed by department code (or file name when no code is given).
func LoadDepartmentConfigs(configsDir string) (map[string]*DepartmentConfig, error) {
	configs := make(map[string]*DepartmentConfig)

	files, err := filepath.Glob(filepath.Join(configsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(configsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := LoadDepartmentConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		key := config.DepartmentCode
		if key == "" {
			key = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			config.DepartmentCode = key
		}
		if _, exists := configs[key]; exists {
			return nil, fmt.Errorf("duplicate department code %q in %s", key, file)
		}

		configs[key] = config
	}

	return configs, nil
}

// LoadDepartmentConfig loads and validates a single department file.
func LoadDepartmentConfig(filePath string) (*DepartmentConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config DepartmentConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	applyDepartmentConfigDefaults(&config)

	if err := ValidateDepartmentConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDepartmentConfigDefaults sets default values for department options.
func applyDepartmentConfigDefaults(config *DepartmentConfig) {
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.HeaderRows <= 0 {
		config.CSVSettings.HeaderRows = 1
	}
	if config.CSVSettings.DataStartRow <= 0 {
		config.CSVSettings.DataStartRow = config.CSVSettings.HeaderRows + 1
	}

	if config.XLSXSettings.HeaderRow <= 0 {
		config.XLSXSettings.HeaderRow = 1
	}
	if config.XLSXSettings.DataStartRow <= 0 {
		config.XLSXSettings.DataStartRow = config.XLSXSettings.HeaderRow + 1
	}

	if config.DefaultTxnType == "" {
		config.DefaultTxnType = models.TxnGeneralJournal.Code()
	}
	if config.DateFormat == "" {
		config.DateFormat = models.DateLayout
	}
	if config.TransactionGrouping.SortOrder == "" {
		config.TransactionGrouping.SortOrder = "asc"
	}
}

// ValidateDepartmentConfig checks that the mapping can produce valid lines.
func ValidateDepartmentConfig(config *DepartmentConfig) error {
	m := config.ColumnMapping

	if m.Account == "" && !hasStatic(config, FieldAccount) {
		return fmt.Errorf("column_mapping.account is required")
	}
	if m.Date == "" && !hasStatic(config, FieldDate) {
		return fmt.Errorf("column_mapping.date is required")
	}
	if m.Amount == "" && m.Debit == "" && m.Credit == "" {
		return fmt.Errorf("column_mapping needs amount, or debit and/or credit")
	}
	if m.Amount != "" && (m.Debit != "" || m.Credit != "") {
		return fmt.Errorf("column_mapping.amount cannot be combined with debit/credit")
	}

	if _, err := models.ParseTxnType(config.DefaultTxnType); err != nil {
		return fmt.Errorf("default_txn_type: %w", err)
	}

	switch config.NameTable {
	case "", "customer", "vendor", "other":
	default:
		return fmt.Errorf("name_table must be customer, vendor, other or empty (got %q)", config.NameTable)
	}

	switch config.TransactionGrouping.SortOrder {
	case "asc", "desc":
	default:
		return fmt.Errorf("transaction_grouping.sort_order must be asc or desc")
	}

	for _, sf := range config.StaticFields {
		if _, ok := staticFieldNames[sf.Field]; !ok {
			return fmt.Errorf("static_fields: unknown field %q", sf.Field)
		}
	}

	for _, pattern := range config.FileMatchingPatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("file_matching_patterns: bad pattern %q: %w", pattern, err)
		}
	}

	return nil
}

var staticFieldNames = map[string]struct{}{
	FieldAccount: {}, FieldDate: {}, FieldAmount: {}, FieldDocNumber: {},
	FieldTxnID: {}, FieldTxnType: {}, FieldName: {}, FieldClass: {},
	FieldMemo: {}, FieldPaymentMethod: {}, FieldToPrint: {}, FieldDueDate: {},
	FieldTerms: {},
}

func hasStatic(config *DepartmentConfig, field string) bool {
	for _, sf := range config.StaticFields {
		if sf.Field == field && sf.Value != "" {
			return true
		}
	}
	return false
}

// MatchDepartment returns the first department whose patterns match the
// file's base name. Departments are tried in code order so the result is
// deterministic.
func MatchDepartment(fileName string, configs map[string]*DepartmentConfig) *DepartmentConfig {
	base := filepath.Base(fileName)

	codes := make([]string, 0, len(configs))
	for code := range configs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		for _, pattern := range configs[code].FileMatchingPatterns {
			if matched, _ := filepath.Match(pattern, base); matched {
				return configs[code]
			}
		}
	}
	return nil
}
