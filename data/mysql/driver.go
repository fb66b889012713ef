// Package mysql provides the MySQL driver for the data layer.
//
// The DSN must enable parseTime-independent storage; timestamps are stored as
// BIGINT milliseconds, so a plain DSN works:
//
//	user:pass@tcp(localhost:3306)/cargohold
package mysql

import (
	"context"

	"github.com/ncobase/cargohold/data"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

type driver struct{}

func (d *driver) Name() string { return "mysql" }

func (d *driver) Dialect() data.Dialect { return data.MySQL }

func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	return data.OpenSQL(ctx, d.Name(), "mysql", cfg)
}

func (d *driver) Close(conn any) error { return data.CloseSQL(d.Name(), conn) }

func (d *driver) Ping(ctx context.Context, conn any) error {
	return data.PingSQL(ctx, d.Name(), conn)
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
