// Package commands implements the cargohold command line.
package commands

import (
	"fmt"

	"github.com/ncobase/cargohold/config"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/ncobase/cargohold/version"
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cargohold",
		Short:         "Multi-tenant file storage service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "conf", "c", "", "config file path")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newIDCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

func (o *options) load() (*config.Config, error) {
	cfg, err := config.Init(o.configFile)
	if err != nil {
		return nil, err
	}
	if cfg.Version == "" {
		cfg.Version = version.GetVersionInfo().Version
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	log, cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log.SetVersion(cfg.Version)
	return log, cleanup, nil
}

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetVersionInfo()
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return nil
			}
			s, err := info.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
