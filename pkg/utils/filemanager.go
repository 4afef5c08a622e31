// =============================================================================
// CSV to IIF Converter - File Manager Utility
// =============================================================================
//
// This module provides the file housekeeping around a conversion run:
//   - Input discovery (journal exports in the input directory)
//   - Archival of converted inputs and generated IIF files
//   - Error log and processing summary generation
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to input_archive after successful conversion
//   - Output files are copied to output_archive, the original stays in place
//   - Failed files remain in the input directory for correction
//   - Error logs and summaries are written to the output directory
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// InputExtensions are the file types the converter can read.
var InputExtensions = []string{".csv", ".txt", ".tsv", ".xlsx", ".xlsm"}

const logRule = "================================================================================\n"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the converter.
type FileManager struct {
	InputDir         string
	OutputDir        string
	InputArchiveDir  string
	OutputArchiveDir string

	// UseDateSubdirs files archives under YYYY/MM/DD subdirectories.
	UseDateSubdirs bool

	// Now is used for archive subdirectories and log names.
	Now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
		Now:              time.Now,
	}
}

// EnsureDirectories creates every configured directory that doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir, fm.OutputArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the readable exports directly inside the input
// directory, sorted by name. Hidden files and subdirectories are skipped.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !IsInputFile(name) {
			continue
		}
		files = append(files, filepath.Join(fm.InputDir, name))
	}
	sort.Strings(files)
	return files, nil
}

// IsInputFile reports whether name has a supported input extension.
func IsInputFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range InputExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the input archive and returns
// its new path. Cross-device moves fall back to copy and delete.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archivePath, err := fm.archivePath(fm.InputArchiveDir, filePath)
	if err != nil {
		return "", err
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}
	return archivePath, nil
}

// ArchiveOutputFile copies an output file to the output archive.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	archivePath, err := fm.archivePath(fm.OutputArchiveDir, filePath)
	if err != nil {
		return "", err
	}
	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}
	return archivePath, nil
}

func (fm *FileManager) archivePath(archiveDir, filePath string) (string, error) {
	dir := archiveDir
	if fm.UseDateSubdirs {
		dir = filepath.Join(archiveDir, fm.now().Format("2006/01/02"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	return filepath.Join(dir, filepath.Base(filePath)), nil
}

func (fm *FileManager) now() time.Time {
	if fm.Now == nil {
		return time.Now()
	}
	return fm.Now()
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputExtension is appended to generated names that lack it.
const OutputExtension = ".iif"

// GenerateOutputFileName expands a file name template.
//
// Built-in placeholders:
//   {timestamp} - now as YYYYMMDD_HHMMSS
//   {date}      - now as YYYYMMDD
//   {time}      - now as HHMMSS
//
// Every key in params becomes a {key} placeholder; the converter supplies
// {uuid}, {dept} and {source}.
//
// EXAMPLE:
//   format: "{dept}_{timestamp}_{uuid}.iif"
//   output: "GL_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.iif"
func GenerateOutputFileName(format string, now time.Time, params map[string]string) string {
	replacements := map[string]string{
		"timestamp": now.Format("20060102_150405"),
		"date":      now.Format("20060102"),
		"time":      now.Format("150405"),
	}
	for key, value := range params {
		replacements[key] = value
	}

	keys := make([]string, 0, len(replacements))
	for key := range replacements {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", replacements[key])
	}
	result := strings.NewReplacer(pairs...).Replace(format)

	if !strings.EqualFold(filepath.Ext(result), OutputExtension) {
		result += OutputExtension
	}
	return result
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry is one finding in the error log.
type ErrorLogEntry struct {
	FileName  string
	Severity  string
	Rule      string
	Message   string
	GroupKey  string
	RowNumber int
	Field     string
	Value     string
}

// WriteErrorLog writes entries to error_log_<timestamp>.txt in the output
// directory. It writes nothing and returns "" when entries is empty.
func (fm *FileManager) WriteErrorLog(entries []ErrorLogEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	now := fm.now()
	logPath := filepath.Join(fm.OutputDir, fmt.Sprintf("error_log_%s.txt", now.Format("20060102_150405")))

	return logPath, writeLog(logPath, func(w *bufio.Writer) {
		fmt.Fprintf(w, "CSV to IIF Converter - Error Log\nGenerated: %s\nTotal Entries: %d\n%s\n",
			now.Format("2006-01-02 15:04:05"), len(entries), logRule)

		for i, entry := range entries {
			fmt.Fprintf(w, "Entry #%d\n", i+1)
			fmt.Fprintf(w, "  File:        %s\n", entry.FileName)
			fmt.Fprintf(w, "  Severity:    %s\n", entry.Severity)
			if entry.Rule != "" {
				fmt.Fprintf(w, "  Rule:        %s\n", entry.Rule)
			}
			fmt.Fprintf(w, "  Message:     %s\n", entry.Message)
			if entry.GroupKey != "" {
				fmt.Fprintf(w, "  Transaction: %s\n", entry.GroupKey)
			}
			if entry.RowNumber > 0 {
				fmt.Fprintf(w, "  Row:         %d\n", entry.RowNumber)
			}
			if entry.Field != "" {
				fmt.Fprintf(w, "  Field:       %s\n", entry.Field)
			}
			if entry.Value != "" {
				fmt.Fprintf(w, "  Value:       %s\n", entry.Value)
			}
			w.WriteString("\n")
		}
		w.WriteString(logRule + "End of Error Log\n")
	})
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	StartTime            time.Time
	EndTime              time.Time
	DryRun               bool
	TotalFiles           int
	SuccessfulFiles      int
	FailedFiles          int
	TotalRows            int
	TotalTransactions    int
	RejectedTransactions int
	TotalLines           int
	ValidationErrors     int
	ValidationWarnings   int
	ProcessedFiles       []ProcessedFileInfo
	FailedFilesList      []FailedFileInfo
}

// ProcessedFileInfo describes a successfully converted file.
type ProcessedFileInfo struct {
	InputFile    string
	OutputFile   string
	Department   string
	Rows         int
	Transactions int
	Lines        int
	Debits       string
	Credits      string
	ProcessTime  time.Duration
}

// FailedFileInfo describes a file that could not be converted.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes processing_summary_<timestamp>.txt to the output
// directory.
func (fm *FileManager) WriteSummaryLog(summary ProcessingSummary) (string, error) {
	summaryPath := filepath.Join(fm.OutputDir,
		fmt.Sprintf("processing_summary_%s.txt", fm.now().Format("20060102_150405")))

	return summaryPath, writeLog(summaryPath, func(w *bufio.Writer) {
		w.WriteString("CSV to IIF Converter - Processing Summary\n" + logRule + "\n")
		fmt.Fprintf(w, "Run Information:\n  Start Time:     %s\n  End Time:       %s\n  Duration:       %s\n  Dry Run:        %t\n\n",
			summary.StartTime.Format("2006-01-02 15:04:05"),
			summary.EndTime.Format("2006-01-02 15:04:05"),
			summary.EndTime.Sub(summary.StartTime),
			summary.DryRun)
		fmt.Fprintf(w, "Statistics:\n"+
			"  Total Files:            %d\n"+
			"  Successful:             %d\n"+
			"  Failed:                 %d\n"+
			"  Total Rows:             %d\n"+
			"  Transactions Exported:  %d\n"+
			"  Transactions Rejected:  %d\n"+
			"  Lines Exported:         %d\n"+
			"  Validation Errors:      %d\n"+
			"  Validation Warnings:    %d\n\n",
			summary.TotalFiles, summary.SuccessfulFiles, summary.FailedFiles,
			summary.TotalRows, summary.TotalTransactions, summary.RejectedTransactions,
			summary.TotalLines, summary.ValidationErrors, summary.ValidationWarnings)

		if len(summary.ProcessedFiles) > 0 {
			w.WriteString("Successful Files:\n" + strings.Repeat("-", 80) + "\n")
			for _, pf := range summary.ProcessedFiles {
				fmt.Fprintf(w, "  Input:        %s\n", pf.InputFile)
				if pf.OutputFile != "" {
					fmt.Fprintf(w, "  Output:       %s\n", pf.OutputFile)
				}
				fmt.Fprintf(w, "  Department:   %s\n", pf.Department)
				fmt.Fprintf(w, "  Rows:         %d\n", pf.Rows)
				fmt.Fprintf(w, "  Transactions: %d\n", pf.Transactions)
				fmt.Fprintf(w, "  Lines:        %d\n", pf.Lines)
				fmt.Fprintf(w, "  Debits:       %s\n", pf.Debits)
				fmt.Fprintf(w, "  Credits:      %s\n", pf.Credits)
				fmt.Fprintf(w, "  Process Time: %s\n\n", pf.ProcessTime)
			}
		}

		if len(summary.FailedFilesList) > 0 {
			w.WriteString("Failed Files:\n" + strings.Repeat("-", 80) + "\n")
			for _, ff := range summary.FailedFilesList {
				fmt.Fprintf(w, "  File:  %s\n  Error: %s\n\n", ff.InputFile, ff.ErrorMessage)
			}
		}

		w.WriteString(logRule + "End of Summary\n")
	})
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

func writeLog(path string, body func(w *bufio.Writer)) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	body(w)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(path), err)
	}
	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
