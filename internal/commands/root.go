// Package commands wires the CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faturaflow/statement-import/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "statement-import",
		Short:   "Credit-card statement import pipeline",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "statement-import.yaml", "config file path")

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "statement-import %s (commit: %s, built: %s)\n",
				buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		},
	}
}
