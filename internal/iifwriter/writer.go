// =============================================================================
// CSV to IIF Converter - IIF Writer Module
// =============================================================================
//
// This module writes rendered IIF documents and their companion reports to
// disk.
//
// OUTPUT:
//   <name>.iif          The import file (tab separated, trailing newline)
//   <name>.report.txt   Optional per-transaction debit/credit report
//
// The document is rendered completely before anything is written, so an
// unbalanced transaction never leaves a partial file behind. Files are
// written to a temporary name in the target directory and renamed into
// place.
//
// =============================================================================

package iifwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/iif"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/pkg/models"
)

// Extension is the file extension of IIF output.
const Extension = ".iif"

// reportSeparator follows each transaction in a report.
const reportSeparator = "----\n"

// =============================================================================
// DOCUMENT OUTPUT
// =============================================================================

// Write renders doc and writes it to w.
func Write(w io.Writer, doc *iif.Document) error {
	text, err := doc.Render()
	if err != nil {
		return fmt.Errorf("failed to render IIF: %w", err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("failed to write IIF: %w", err)
	}
	return nil
}

// WriteFile renders doc and atomically writes it to path, creating the
// parent directory when needed.
func WriteFile(path string, doc *iif.Document) error {
	text, err := doc.Render()
	if err != nil {
		return fmt.Errorf("failed to render IIF: %w", err)
	}
	return writeAtomic(path, text)
}

// =============================================================================
// REPORTS
// =============================================================================

// WriteReport writes the debit/credit report and summary figures of each
// transaction, separated by "----" lines.
func WriteReport(w io.Writer, txns []*models.Transaction) error {
	var b strings.Builder
	for _, txn := range txns {
		b.WriteString(txn.Report())
		b.WriteString(txn.Summary().String())
		b.WriteString(reportSeparator)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteReportFile writes the report for doc's transactions to path.
func WriteReportFile(path string, doc *iif.Document) error {
	var b strings.Builder
	if err := WriteReport(&b, doc.Transactions()); err != nil {
		return err
	}
	return writeAtomic(path, b.String())
}

// ReportPath returns the report file path that accompanies an IIF file.
func ReportPath(iifPath string) string {
	return strings.TrimSuffix(iifPath, filepath.Ext(iifPath)) + ".report.txt"
}

// =============================================================================
// HELPERS
// =============================================================================

func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
