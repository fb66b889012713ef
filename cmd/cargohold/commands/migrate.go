package commands

import (
	"fmt"

	"github.com/ncobase/cargohold/data"
	"github.com/spf13/cobra"

	_ "github.com/ncobase/cargohold/data/mysql"
	_ "github.com/ncobase/cargohold/data/postgres"
	_ "github.com/ncobase/cargohold/data/sqlite"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Aliases: []string{"m"},
		Short:   "Create or update the database schema",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			drv, err := data.GetDatabaseDriver(cfg.Data.Database.Driver)
			if err != nil {
				return err
			}
			conn, err := drv.Connect(ctx, cfg.Data.Database)
			if err != nil {
				return err
			}
			defer func() { _ = drv.Close(conn) }()

			db, err := data.AsSQL(conn)
			if err != nil {
				return err
			}
			if err := data.Migrate(ctx, db, drv.Dialect()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", drv.Dialect())
			return nil
		},
	}
}
