package data

import (
	"context"
	"testing"
)

type mockDatabaseDriver struct {
	name string
}

func (d *mockDatabaseDriver) Name() string     { return d.name }
func (d *mockDatabaseDriver) Dialect() Dialect { return SQLite }
func (d *mockDatabaseDriver) Connect(ctx context.Context, cfg any) (any, error) {
	return "mock-connection", nil
}
func (d *mockDatabaseDriver) Close(conn any) error                     { return nil }
func (d *mockDatabaseDriver) Ping(ctx context.Context, conn any) error { return nil }

type mockCacheDriver struct{ name string }

func (d *mockCacheDriver) Name() string                              { return d.name }
func (d *mockCacheDriver) Connect(context.Context, any) (any, error) { return nil, nil }
func (d *mockCacheDriver) Close(any) error                           { return nil }
func (d *mockCacheDriver) Ping(context.Context, any) error           { return nil }

func resetRegistries() {
	databaseDrivers.reset()
	cacheDrivers.reset()
	messageDrivers.reset()
}

func TestRegisterDatabaseDriver(t *testing.T) {
	resetRegistries()

	RegisterDatabaseDriver(&mockDatabaseDriver{name: "test-db"})

	retrieved, err := GetDatabaseDriver("test-db")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if retrieved.Name() != "test-db" {
		t.Errorf("expected driver name 'test-db', got %q", retrieved.Name())
	}
}

func TestRegisterDatabaseDriverPanicsOnNil(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when registering nil driver")
		}
	}()

	RegisterDatabaseDriver(nil)
}

func TestRegisterDatabaseDriverPanicsOnDuplicate(t *testing.T) {
	resetRegistries()

	driver := &mockDatabaseDriver{name: "duplicate"}
	RegisterDatabaseDriver(driver)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when registering duplicate driver")
		}
	}()

	RegisterDatabaseDriver(driver)
}

func TestGetDatabaseDriverNotFound(t *testing.T) {
	resetRegistries()

	if _, err := GetDatabaseDriver("nonexistent"); err == nil {
		t.Errorf("expected error when getting non-existent driver")
	}
}

func TestListRegisteredDrivers(t *testing.T) {
	resetRegistries()

	RegisterDatabaseDriver(&mockDatabaseDriver{name: "b"})
	RegisterDatabaseDriver(&mockDatabaseDriver{name: "a"})
	RegisterCacheDriver(&mockCacheDriver{name: "kv"})

	got := ListRegisteredDrivers()
	if len(got["database"]) != 2 || got["database"][0] != "a" || got["database"][1] != "b" {
		t.Errorf("database drivers = %v", got["database"])
	}
	if len(got["cache"]) != 1 || len(got["message"]) != 0 {
		t.Errorf("drivers = %v", got)
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT oid FROM files WHERE id = ? AND tenant_oid = ?"
	if got := Postgres.Rebind(q); got != "SELECT oid FROM files WHERE id = $1 AND tenant_oid = $2" {
		t.Errorf("Postgres.Rebind = %q", got)
	}
	if got := MySQL.Rebind(q); got != q {
		t.Errorf("MySQL.Rebind = %q", got)
	}
	if got := SQLite.Rebind(q); got != q {
		t.Errorf("SQLite.Rebind = %q", got)
	}
}

func TestSchemaCoversDialects(t *testing.T) {
	for _, d := range []Dialect{Postgres, MySQL, SQLite} {
		if len(schema[d]) == 0 {
			t.Errorf("no schema for %s", d)
		}
	}
	if err := Migrate(context.Background(), nil, "oracle"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}
