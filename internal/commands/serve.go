package commands

import (
	"github.com/spf13/cobra"

	"github.com/faturaflow/statement-import/internal/api"
	"github.com/faturaflow/statement-import/internal/buildinfo"
	"github.com/faturaflow/statement-import/internal/category"
	"github.com/faturaflow/statement-import/internal/config"
	"github.com/faturaflow/statement-import/internal/importer"
	"github.com/faturaflow/statement-import/internal/installment"
	"github.com/faturaflow/statement-import/internal/logger"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the import HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			log := logger.New()
			imp := importer.New(
				nil,
				installment.New(cfg.InstallmentConfig()),
				category.New(cfg.CategoryRecognizerConfig()),
				nil, nil,
			)

			app := api.NewApp(&api.Handler{
				Importer: imp,
				Log:      log,
				Version:  buildinfo.Version,
			})

			log.Info().Str("addr", addr).Msg("listening")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
