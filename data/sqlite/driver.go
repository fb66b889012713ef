// Package sqlite provides the SQLite driver for the data layer, backed by
// mattn/go-sqlite3 (requires cgo).
//
// Example sources:
//
//	"file:cargohold.db?cache=shared&mode=rwc"
//	"file::memory:?cache=shared"
package sqlite

import (
	"context"

	"github.com/ncobase/cargohold/data"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type driver struct{}

func (d *driver) Name() string { return "sqlite" }

func (d *driver) Dialect() data.Dialect { return data.SQLite }

func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	return data.OpenSQL(ctx, d.Name(), "sqlite3", cfg)
}

func (d *driver) Close(conn any) error { return data.CloseSQL(d.Name(), conn) }

func (d *driver) Ping(ctx context.Context, conn any) error {
	return data.PingSQL(ctx, d.Name(), conn)
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
