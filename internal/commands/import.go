package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faturaflow/statement-import/internal/category"
	"github.com/faturaflow/statement-import/internal/config"
	"github.com/faturaflow/statement-import/internal/extractor"
	"github.com/faturaflow/statement-import/internal/importer"
	"github.com/faturaflow/statement-import/internal/installment"
	"github.com/faturaflow/statement-import/internal/logger"
	"github.com/faturaflow/statement-import/internal/writer"
)

func newImportCommand() *cobra.Command {
	var (
		user            string
		referenceMonth  string
		allowDuplicates bool
		allInstallments bool
		output          string
	)

	cmd := &cobra.Command{
		Use:   "import <statement.pdf|statement.txt>",
		Short: "Parse a statement and print the import partition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			text, err := statementText(args[0])
			if err != nil {
				return err
			}

			opts := importer.RunOptions{
				AllowExactDuplicates: allowDuplicates || cfg.Dedup.AllowExactDuplicates,
				AllInstallments:      allInstallments || !cfg.Dedup.OnlyCurrentInstallment,
			}
			if referenceMonth != "" {
				ref, err := time.Parse("2006-01", referenceMonth)
				if err != nil {
					return fmt.Errorf("--reference-month must look like 2026-08")
				}
				opts.ReferenceMonth = ref
			}

			imp := importer.New(
				nil,
				installment.New(cfg.InstallmentConfig()),
				category.New(cfg.CategoryRecognizerConfig()),
				nil, nil,
			)

			ctx := logger.WithContext(cmd.Context(), logger.New())
			result, err := imp.Run(ctx, user, text, opts)
			if err != nil {
				return err
			}

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case "csv":
				w := &writer.CSVWriter{IncludeSummary: true}
				return w.Write(cmd.OutOrStdout(), result)
			default:
				return fmt.Errorf("unknown output format %q (want csv or json)", output)
			}
		},
	}

	cmd.Flags().StringVar(&user, "user", "local", "user id for the import run")
	cmd.Flags().StringVar(&referenceMonth, "reference-month", "", "statement billing month (YYYY-MM)")
	cmd.Flags().BoolVar(&allowDuplicates, "allow-duplicates", false, "import exact duplicates with a warning")
	cmd.Flags().BoolVar(&allInstallments, "all-installments", false, "accept parcels outside the statement month")
	cmd.Flags().StringVar(&output, "output", "csv", "output format: csv or json")

	return cmd
}

// statementText loads a statement as text: PDFs go through the extractor,
// anything else is read as plain text.
func statementText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := extractor.ExtractText(data)
		if err != nil {
			return "", fmt.Errorf("extracting text from %s: %w", path, err)
		}
		return text, nil
	}
	return string(data), nil
}
