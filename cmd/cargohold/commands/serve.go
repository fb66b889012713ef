package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncobase/cargohold/config"
	"github.com/ncobase/cargohold/server"
	"github.com/ncobase/cargohold/version"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the public and private APIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			log, cleanupLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer cleanupLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Infof(ctx, "%s %s starting", cfg.AppName, version.GetVersionInfo().Version)

			app, err := server.New(ctx, cfg, log)
			if err != nil {
				log.Error(ctx, "failed to start", "error", err)
				return err
			}
			defer app.Close()

			config.Watch(func(c *config.Config) {
				log.Info(context.Background(), "configuration changed; restart to apply", "file", c.Viper.ConfigFileUsed())
			})

			return app.Run(ctx)
		},
	}
}
