package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ncobase/cargohold/data"
	"github.com/ncobase/cargohold/data/config"
)

func TestDriverName(t *testing.T) {
	d := &driver{}
	if got := d.Name(); got != "sqlite" {
		t.Errorf("Name() = %q, want %q", got, "sqlite")
	}
}

func TestConnectAndMigrate(t *testing.T) {
	d := &driver{}
	conn, err := d.Connect(context.Background(), &config.Database{Source: "file::memory:?cache=shared", MaxOpenConn: 1})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer d.Close(conn)

	db := conn.(*sql.DB)
	if err := data.Migrate(context.Background(), db, d.Dialect()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// second run must be a no-op
	if err := data.Migrate(context.Background(), db, d.Dialect()); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}
	if err := d.Ping(context.Background(), conn); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
