// =============================================================================
// CSV to IIF Converter - Core Converter Module
// =============================================================================
//
// This module orchestrates the conversion of one journal export into one IIF
// file.
//
// CONVERSION PROCESS:
//   1. Parse the source file (CSV or XLSX)
//   2. Snapshot the raw rows for error reporting
//   3. Apply transformation rules to source columns
//   4. Group rows into transactions and order the rows of each group
//   5. Map source columns to IIF fields (column mapping + static fields)
//   6. Validate the mapped rows and convert them to typed values
//   7. Build one balanced transaction per group and register names
//   8. Render the IIF document (dry runs stop here)
//   9. Write the output file and its report
//  10. Archive the input and output files
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/csvparser"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/iifwriter"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/logger"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/types"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/validation"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/xlsxparser"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iif"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendc/go-deepcopy"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result contains the outcome of converting one file.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// Department is the department code the file was matched to.
	Department string

	// OutputFile is the path of the generated IIF file (empty on dry runs
	// and failures).
	OutputFile string

	// Success indicates whether the conversion completed.
	Success bool

	// Error contains the failure, if any.
	Error error

	// ValidationErrors are all validation findings, warnings included.
	ValidationErrors []*validation.ValidationError

	// RejectedRows are the untransformed source rows of rejected
	// transactions, for the error log.
	RejectedRows []types.Row

	// Document is the rendered document; nil when conversion failed
	// before building.
	Document *iif.Document

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	RowsProcessed        int
	TransactionsCreated  int
	TransactionsRejected int
	LinesCreated         int
	ValidationErrors     int
	ValidationWarnings   int
	Debits               decimal.Decimal
	Credits              decimal.Decimal
	ProcessingTime       time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the logging interface used by the converter. *zap.SugaredLogger
// satisfies it.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// Converter converts a single input file.
type Converter struct {
	inputPath  string
	deptConfig *config.DepartmentConfig
	mainConfig *config.MainConfig
	logger     Logger
	dryRun     bool
	newID      func() string
	now        func() time.Time
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithDryRun stops the pipeline after rendering.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) { c.dryRun = dryRun }
}

// New creates a converter for one input file.
func New(inputPath string, deptConfig *config.DepartmentConfig, mainConfig *config.MainConfig, opts ...Option) *Converter {
	c := &Converter{
		inputPath:  inputPath,
		deptConfig: deptConfig,
		mainConfig: mainConfig,
		logger:     logger.Nop().Sugar(),
		newID:      func() string { return uuid.New().String() },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN CONVERSION FUNCTION
// =============================================================================

// Run executes the conversion pipeline. ctx is checked between stages.
func (c *Converter) Run(ctx context.Context) (result Result) {
	startTime := time.Now()
	result = Result{
		FilePath:   c.inputPath,
		Department: c.deptConfig.DepartmentCode,
		Stats:      ProcessingStats{Debits: decimal.Zero, Credits: decimal.Zero},
	}
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	fail := func(format string, err error) Result {
		result.Error = fmt.Errorf(format, err)
		c.logger.Errorf("%s: %v", filepath.Base(c.inputPath), result.Error)
		return result
	}

	c.logger.Infof("Processing file: %s (department %s)", c.inputPath, c.deptConfig.DepartmentCode)

	// =========================================================================
	// STEP 1: PARSE THE SOURCE FILE
	// =========================================================================
	table, err := c.parseInput()
	if err != nil {
		return fail("failed to parse input: %w", err)
	}
	result.Stats.RowsProcessed = table.Len()
	c.logger.Debugf("Parsed %d rows with headers %v", table.Len(), table.Headers)

	if err := c.checkColumns(table); err != nil {
		return fail("column mapping does not match file: %w", err)
	}

	// =========================================================================
	// STEP 2: SNAPSHOT RAW ROWS
	// =========================================================================
	// Transformation replaces cell values; the error log reports what the
	// file actually contained.
	var raw []types.Row
	if err := deepcopy.Copy(&raw, table.Rows); err != nil {
		return fail("failed to snapshot rows: %w", err)
	}
	rawByNumber := make(map[int]types.Row, len(raw))
	for _, row := range raw {
		rawByNumber[row.Number] = row
	}

	if err := ctx.Err(); err != nil {
		return fail("cancelled: %w", err)
	}

	// =========================================================================
	// STEP 3: APPLY TRANSFORMATIONS
	// =========================================================================
	transformer, err := NewTransformer(c.deptConfig.TransformationRules)
	if err != nil {
		return fail("invalid transformation rules: %w", err)
	}
	rows := table.Rows
	for i := range rows {
		if err := transformer.TransformRow(&rows[i]); err != nil {
			return fail("failed to apply transformations: %w", err)
		}
	}
	c.logger.Debugf("Applied %d transformation rules", len(c.deptConfig.TransformationRules))

	// =========================================================================
	// STEPS 4-5: GROUP AND MAP
	// =========================================================================
	groups := c.groupTransactions(rows)
	for i := range groups {
		for j, row := range groups[i].Rows {
			groups[i].Rows[j] = c.mapRow(row)
		}
	}
	c.logger.Debugf("Grouped into %d transactions", len(groups))

	// =========================================================================
	// STEP 6: VALIDATE
	// =========================================================================
	validator, err := validation.NewValidator(c.deptConfig)
	if err != nil {
		return fail("invalid department configuration: %w", err)
	}
	checked := validator.ValidateAll(groups)
	result.ValidationErrors = checked.Errors
	result.Stats.ValidationErrors = checked.ErrorCount
	result.Stats.ValidationWarnings = checked.WarningCount

	for _, ve := range checked.Errors {
		if ve.Severity == validation.SeverityError {
			c.logger.Warnf("Validation error: %s", ve.Error())
		} else {
			c.logger.Debugf("Validation warning: %s", ve.Error())
		}
	}

	for _, txn := range checked.Transactions {
		if txn.Valid {
			continue
		}
		result.Stats.TransactionsRejected++
		for _, row := range txn.Group.Rows {
			result.RejectedRows = append(result.RejectedRows, rawByNumber[row.Number])
		}
	}

	if checked.ErrorCount > 0 && !c.mainConfig.ContinueOnError {
		return fail("validation failed: %w", fmt.Errorf("%d errors", checked.ErrorCount))
	}

	if err := ctx.Err(); err != nil {
		return fail("cancelled: %w", err)
	}

	// =========================================================================
	// STEP 7: BUILD TRANSACTIONS
	// =========================================================================
	doc := iif.New()
	for _, txn := range checked.ValidTransactions() {
		built, err := c.buildTransaction(txn)
		if err != nil {
			return fail("failed to build transaction: %w", err)
		}
		if err := c.registerNames(doc, txn); err != nil {
			return fail("failed to register names: %w", err)
		}
		doc.AddTransaction(built)

		result.Stats.TransactionsCreated++
		result.Stats.LinesCreated += built.Len()
		result.Stats.Debits = result.Stats.Debits.Add(built.DebitTotal())
		result.Stats.Credits = result.Stats.Credits.Add(built.CreditTotal())
	}
	result.Document = doc

	if result.Stats.TransactionsCreated == 0 {
		return fail("nothing to export: %w", fmt.Errorf("no valid transactions in %s", filepath.Base(c.inputPath)))
	}

	// =========================================================================
	// STEP 8: RENDER
	// =========================================================================
	if err := iifwriter.Write(io.Discard, doc); err != nil {
		return fail("render failed: %w", err)
	}
	c.logger.Debugf("Rendered %d transactions", result.Stats.TransactionsCreated)

	if c.dryRun {
		c.logger.Infof("Dry run: %s would produce %d transactions", filepath.Base(c.inputPath), result.Stats.TransactionsCreated)
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 9: WRITE OUTPUT
	// =========================================================================
	outputPath := filepath.Join(c.mainConfig.OutputDir, c.generateOutputFileName())
	if err := iifwriter.WriteFile(outputPath, doc); err != nil {
		return fail("failed to write output: %w", err)
	}
	if err := iifwriter.WriteReportFile(iifwriter.ReportPath(outputPath), doc); err != nil {
		c.logger.Warnf("Failed to write report: %v", err)
	}
	result.OutputFile = outputPath
	c.logger.Infof("Wrote output to: %s", outputPath)

	// =========================================================================
	// STEP 10: ARCHIVE
	// =========================================================================
	if c.mainConfig.ShouldArchive() {
		if err := c.archiveFiles(outputPath); err != nil {
			c.logger.Warnf("Failed to archive files: %v", err)
		}
	}

	result.Success = true
	return result
}

// =============================================================================
// PARSING
// =============================================================================

func (c *Converter) parseInput() (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(c.inputPath)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.Parse(c.inputPath, c.deptConfig.XLSXSettings)
	default:
		return csvparser.Parse(c.inputPath, c.deptConfig.CSVSettings)
	}
}

// checkColumns reports mapped or grouping columns missing from the file.
func (c *Converter) checkColumns(table *types.Table) error {
	m := c.deptConfig.ColumnMapping
	columns := []string{m.Debit, m.Credit, c.deptConfig.TransactionGrouping.GroupByField, c.deptConfig.TransactionGrouping.SortByField}
	for _, column := range m.Columns() {
		columns = append(columns, column)
	}

	var missing []string
	for _, column := range columns {
		if column != "" && !table.HasColumn(column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}

// =============================================================================
// GROUPING AND MAPPING
// =============================================================================

// groupTransactions groups rows by the grouping column, keeping groups in
// order of first occurrence. Without a grouping column every row is its own
// transaction.
func (c *Converter) groupTransactions(rows []types.Row) []types.Group {
	grouping := c.deptConfig.TransactionGrouping

	if grouping.GroupByField == "" {
		groups := make([]types.Group, len(rows))
		for i, row := range rows {
			groups[i] = types.Group{Index: i + 1, Key: fmt.Sprintf("row %d", row.Number), Rows: []types.Row{row}}
		}
		return groups
	}

	index := make(map[string]int)
	var groups []types.Group
	for _, row := range rows {
		key := row.Get(grouping.GroupByField)
		i, exists := index[key]
		if !exists {
			i = len(groups)
			index[key] = i
			groups = append(groups, types.Group{Index: i + 1, Key: key})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	if grouping.SortByField != "" {
		desc := grouping.SortOrder == "desc"
		for i := range groups {
			rows := groups[i].Rows
			sort.SliceStable(rows, func(a, b int) bool {
				cmp := compareCells(rows[a].Get(grouping.SortByField), rows[b].Get(grouping.SortByField))
				if desc {
					return cmp > 0
				}
				return cmp < 0
			})
		}
	}

	return groups
}

// compareCells compares numerically when both cells are decimals and as
// text otherwise.
func compareCells(a, b string) int {
	da, errA := decimal.NewFromString(strings.TrimSpace(a))
	db, errB := decimal.NewFromString(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		return da.Cmp(db)
	}
	return strings.Compare(a, b)
}

// mapRow converts a source row into a row keyed by IIF field name.
func (c *Converter) mapRow(row types.Row) types.Row {
	m := c.deptConfig.ColumnMapping
	fields := make(map[string]string)

	for field, column := range m.Columns() {
		fields[field] = row.Get(column)
	}

	if m.UsesDebitCredit() {
		fields[config.FieldAmount] = debitMinusCredit(row.Get(m.Debit), row.Get(m.Credit))
	}

	for _, sf := range c.deptConfig.StaticFields {
		if sf.Override || strings.TrimSpace(fields[sf.Field]) == "" {
			fields[sf.Field] = sf.Value
		}
	}

	return types.Row{Number: row.Number, Fields: fields}
}

// debitMinusCredit combines a debit/credit column pair into one signed
// amount. Unparseable input is passed through so validation reports it.
func debitMinusCredit(debit, credit string) string {
	debit, credit = strings.TrimSpace(debit), strings.TrimSpace(credit)
	if debit == "" && credit == "" {
		return ""
	}

	total := decimal.Zero
	if debit != "" {
		d, err := models.ParseAmount(debit)
		if err != nil {
			return debit
		}
		total = total.Add(d.Value())
	}
	if credit != "" {
		d, err := models.ParseAmount(credit)
		if err != nil {
			return credit
		}
		total = total.Sub(d.Value())
	}
	return total.String()
}

// =============================================================================
// BUILDING
// =============================================================================

// buildTransaction turns a validated group into a balanced transaction. The
// first entry becomes the TRNS line.
func (c *Converter) buildTransaction(checked validation.CheckedTransaction) (*models.Transaction, error) {
	txn := models.NewTransaction()

	for i, entry := range checked.Entries {
		line := models.NewSplitLine()
		if i == 0 {
			line = models.NewTransactionLine()
		}

		if err := line.SetType(checked.Type); err != nil {
			return nil, err
		}
		line.SetDate(entry.Date)
		line.SetAccount(entry.Account)
		line.SetAmount(entry.Amount)
		line.SetDocNumber(entry.DocNumber)
		line.SetName(entry.Name)
		line.SetClass(entry.Class)
		line.SetMemo(entry.Memo)
		line.SetPaymentMethod(entry.PaymentMethod)

		id := entry.ID
		if id.IsEmpty() && c.deptConfig.AssignTransactionIDs {
			var err error
			if id, err = models.NewTxnIdentifier(c.newID()); err != nil {
				return nil, fmt.Errorf("invalid generated transaction id: %w", err)
			}
		}
		line.SetID(id)

		if i == 0 {
			if entry.ToPrint != models.BooleanEmpty {
				if err := line.SetNeedsToBePrinted(entry.ToPrint); err != nil {
					return nil, err
				}
			}
			if entry.DueDate.IsSet() {
				if err := line.SetDueDate(entry.DueDate); err != nil {
					return nil, err
				}
			}
			if !entry.Terms.IsEmpty() {
				if err := line.SetTerms(entry.Terms); err != nil {
					return nil, err
				}
			}
		}

		txn.AddLine(line)
	}

	if err := txn.EnsureBalanced(); err != nil {
		return nil, err
	}
	return txn, nil
}

// registerNames adds every non-empty line name to the configured table.
func (c *Converter) registerNames(doc *iif.Document, checked validation.CheckedTransaction) error {
	var table iif.NameTable
	switch c.deptConfig.NameTable {
	case "customer":
		table = iif.CustomerTable
	case "vendor":
		table = iif.VendorTable
	case "other":
		table = iif.OtherNameTable
	default:
		return nil
	}

	for _, entry := range checked.Entries {
		if entry.Name.IsEmpty() {
			continue
		}
		if err := doc.AddName(table, entry.Name); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// generateOutputFileName expands the output file name template.
func (c *Converter) generateOutputFileName() string {
	return utils.GenerateOutputFileName(c.mainConfig.OutputFileFormat, c.now(), map[string]string{
		"uuid":   c.newID(),
		"dept":   c.deptConfig.DepartmentCode,
		"source": strings.TrimSuffix(filepath.Base(c.inputPath), filepath.Ext(c.inputPath)),
	})
}

// archiveFiles moves the input file to the input archive and copies the
// output file and its report to the output archive.
func (c *Converter) archiveFiles(outputPath string) error {
	fm := utils.NewFileManager(c.mainConfig.InputDir, c.mainConfig.OutputDir,
		c.mainConfig.InputArchiveDir, c.mainConfig.OutputArchiveDir)
	fm.Now = c.now

	if _, err := fm.ArchiveInputFile(c.inputPath); err != nil {
		return fmt.Errorf("failed to archive input file: %w", err)
	}
	for _, path := range []string{outputPath, iifwriter.ReportPath(outputPath)} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := fm.ArchiveOutputFile(path); err != nil {
			return fmt.Errorf("failed to archive output file: %w", err)
		}
	}
	return nil
}
