// =============================================================================
// CSV to IIF Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which converts journal exports
// into IIF files.
//
// COMMAND USAGE:
//   converter process [flags]
//
// FLAGS:
//   --dry-run     : Run the whole pipeline without writing output files
//   --file        : Convert only this file
//   --department  : Convert only files matched to this department code
//
// PROCESSING PIPELINE:
//   1. Load configuration files
//   2. Discover CSV and XLSX files in the input directory
//   3. Match each file to a department configuration
//   4. Convert files concurrently, at most max_concurrency at once
//   5. Print the summary and write the error and summary logs
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/converter"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun     bool
	filePath   string
	department string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert journal exports to IIF",
	Long: `The process command scans the input directory for CSV and XLSX files,
matches each one to a department configuration and converts it to an IIF file.

Files are converted concurrently and independently; a failure in one file
does not stop the others.

On success:
  - The IIF file and its report are placed in the output directory
  - The input file is moved to the input archive

On error:
  - The findings are written to an error log in the output directory
  - The input file stays in the input directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		return runProcess(cmd.Context(), cmd.OutOrStdout(), mainConfig, log, runOptions{
			dryRun:     dryRun,
			file:       filePath,
			department: department,
		})
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Run the whole pipeline without writing output files")
	processCmd.Flags().StringVar(&filePath, "file", "",
		"Path to a single file to convert")
	processCmd.Flags().StringVar(&department, "department", "",
		"Convert only files for this department code")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

type runOptions struct {
	dryRun     bool
	file       string
	department string
}

// runProcess converts every selected file and reports the outcome. It
// returns an error when configuration fails or any file fails.
func runProcess(ctx context.Context, out io.Writer, mainConfig *config.MainConfig, log *zap.SugaredLogger, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================
	fmt.Fprintln(out, "=== CSV to IIF Converter ===")

	deptConfigs, err := config.LoadDepartmentConfigs(mainConfig.ConfigsDir)
	if err != nil {
		return fmt.Errorf("failed to load department configs: %w", err)
	}
	if opts.department != "" {
		dept, ok := deptConfigs[opts.department]
		if !ok {
			return fmt.Errorf("unknown department %q", opts.department)
		}
		deptConfigs = map[string]*config.DepartmentConfig{opts.department: dept}
	}
	log.Infof("Loaded %d department configuration(s)", len(deptConfigs))

	fm := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir,
		mainConfig.InputArchiveDir, mainConfig.OutputArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================
	var inputFiles []string
	if opts.file != "" {
		inputFiles = []string{opts.file}
	} else {
		inputFiles, err = fm.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No input files found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================
	results := make([]converter.Result, len(inputFiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mainConfig.MaxConcurrency)
	for i, file := range inputFiles {
		g.Go(func() error {
			deptConfig := config.MatchDepartment(file, deptConfigs)
			if deptConfig == nil {
				results[i] = converter.Result{
					FilePath: file,
					Error:    fmt.Errorf("no matching department configuration found"),
				}
				return nil
			}

			conv := converter.New(file, deptConfig, mainConfig,
				converter.WithLogger(log.With("file", filepath.Base(file))),
				converter.WithDryRun(opts.dryRun))
			results[i] = conv.Run(gctx)
			return nil
		})
	}
	_ = g.Wait()

	// =========================================================================
	// STEP 4: COLLECT RESULTS AND WRITE LOGS
	// =========================================================================
	summary, entries := summarize(results, opts.dryRun)
	summary.StartTime = startTime
	summary.EndTime = time.Now()

	for _, result := range results {
		name := filepath.Base(result.FilePath)
		switch {
		case !result.Success:
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
		case result.OutputFile != "":
			fmt.Fprintf(out, "  ✓ %s -> %s\n", name, filepath.Base(result.OutputFile))
		default:
			fmt.Fprintf(out, "  ✓ %s (%d transactions)\n", name, result.Stats.TransactionsCreated)
		}
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Transactions:    %d\n", summary.TotalTransactions)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))

	if logPath, err := fm.WriteErrorLog(entries); err != nil {
		log.Warnf("Failed to write error log: %v", err)
	} else if logPath != "" {
		fmt.Fprintf(out, "Error log:       %s\n", logPath)
	}
	if !opts.dryRun {
		if summaryPath, err := fm.WriteSummaryLog(summary); err != nil {
			log.Warnf("Failed to write summary log: %v", err)
		} else {
			log.Infof("Summary written to %s", summaryPath)
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// summarize folds per-file results into the run summary and the error log
// entries. Rejected source rows are logged with their raw cells.
func summarize(results []converter.Result, dryRun bool) (utils.ProcessingSummary, []utils.ErrorLogEntry) {
	summary := utils.ProcessingSummary{DryRun: dryRun, TotalFiles: len(results)}
	var entries []utils.ErrorLogEntry

	for _, result := range results {
		name := filepath.Base(result.FilePath)
		stats := result.Stats

		summary.TotalRows += stats.RowsProcessed
		summary.RejectedTransactions += stats.TransactionsRejected
		summary.ValidationErrors += stats.ValidationErrors
		summary.ValidationWarnings += stats.ValidationWarnings

		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalTransactions += stats.TransactionsCreated
			summary.TotalLines += stats.LinesCreated
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:    name,
				OutputFile:   result.OutputFile,
				Department:   result.Department,
				Rows:         stats.RowsProcessed,
				Transactions: stats.TransactionsCreated,
				Lines:        stats.LinesCreated,
				Debits:       stats.Debits.StringFixed(2),
				Credits:      stats.Credits.StringFixed(2),
				ProcessTime:  stats.ProcessingTime,
			})
		} else {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    name,
				ErrorMessage: fmt.Sprint(result.Error),
			})
			// Error-severity findings already explain a validation failure;
			// anything else (build, render, write) needs its own entry.
			if stats.ValidationErrors == 0 {
				entries = append(entries, utils.ErrorLogEntry{
					FileName: name,
					Severity: "error",
					Message:  fmt.Sprint(result.Error),
				})
			}
		}

		for _, ve := range result.ValidationErrors {
			entries = append(entries, utils.ErrorLogEntry{
				FileName:  name,
				Severity:  ve.Severity,
				Rule:      ve.Rule,
				Message:   ve.Message,
				GroupKey:  ve.GroupKey,
				RowNumber: ve.RowNumber,
				Field:     ve.Field,
				Value:     ve.Value,
			})
		}
		for _, row := range result.RejectedRows {
			entries = append(entries, utils.ErrorLogEntry{
				FileName:  name,
				Severity:  "rejected",
				Message:   "source row left out of the output",
				RowNumber: row.Number,
				Value:     rawCells(row.Fields),
			})
		}
	}
	return summary, entries
}

func rawCells(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + fields[k]
	}
	return strings.Join(parts, "; ")
}
