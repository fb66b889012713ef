package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncobase/cargohold/data/config"
)

// OpenSQL opens and pings a database/sql pool for a relational driver,
// applying the pool settings of cfg.
func OpenSQL(ctx context.Context, name, sqlDriver string, cfg any) (*sql.DB, error) {
	dbCfg, ok := cfg.(*config.Database)
	if !ok {
		return nil, fmt.Errorf("%s: invalid configuration type, expected *config.Database", name)
	}
	if dbCfg.Source == "" {
		return nil, fmt.Errorf("%s: connection source is empty", name)
	}

	db, err := sql.Open(sqlDriver, dbCfg.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open connection: %w", name, err)
	}

	if dbCfg.MaxIdleConn > 0 {
		db.SetMaxIdleConns(dbCfg.MaxIdleConn)
	}
	if dbCfg.MaxOpenConn > 0 {
		db.SetMaxOpenConns(dbCfg.MaxOpenConn)
	}
	if dbCfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(dbCfg.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", name, err)
	}
	return db, nil
}

// CloseSQL closes a pool returned by OpenSQL.
func CloseSQL(name string, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("%s: invalid connection type, expected *sql.DB", name)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("%s: failed to close connection: %w", name, err)
	}
	return nil
}

// PingSQL pings a pool returned by OpenSQL.
func PingSQL(ctx context.Context, name string, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("%s: invalid connection type, expected *sql.DB", name)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: ping failed: %w", name, err)
	}
	return nil
}

// AsSQL returns the pool behind a connection returned by a relational driver.
func AsSQL(conn any) (*sql.DB, error) {
	db, ok := conn.(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("data: expected *sql.DB connection, got %T", conn)
	}
	return db, nil
}
