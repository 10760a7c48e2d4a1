// Package writer renders import results as CSV for the CLI.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/faturaflow/statement-import/internal/importer"
	"github.com/faturaflow/statement-import/internal/parser"
)

// CSVWriter writes accepted transactions to CSV format.
type CSVWriter struct {
	// IncludeSummary prepends statement metadata rows.
	IncludeSummary bool
}

// WriteToFile writes the result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *importer.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes the result in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res *importer.Result) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if w.IncludeSummary {
		cw.Write([]string{"# Issuer", string(res.Issuer)})
		cw.Write([]string{"# Reference Month", res.ReferenceMonth.Format("2006-01")})
		cw.Write([]string{"# Analyzed", fmt.Sprint(res.Stats.TotalAnalyzed)})
		cw.Write([]string{"# To Import", fmt.Sprint(res.Stats.ToImport)})
		cw.Write([]string{"# Duplicates", fmt.Sprint(res.Stats.Duplicates)})
		cw.Write([]string{"# Warnings", fmt.Sprint(res.Stats.Warnings)})
	}

	header := []string{"Date", "Description", "Kind", "Amount", "Installment", "Category"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, tx := range res.Accepted {
		installmentCol := ""
		if tx.Installment != nil {
			if tx.Installment.Ambiguous {
				installmentCol = fmt.Sprintf("%d/?", tx.Installment.Current)
			} else {
				installmentCol = fmt.Sprintf("%d/%d", tx.Installment.Current, tx.Installment.Total)
			}
		}
		row := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			string(tx.Kind),
			parser.FormatAmount(tx.Amount),
			installmentCol,
			tx.Category.CategoryName,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
