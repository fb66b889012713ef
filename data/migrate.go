package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// schema lists the DDL per dialect. Statements are idempotent.
var schema = map[Dialect][]string{
	Postgres: {
		`CREATE TABLE IF NOT EXISTS tenants (
			oid BIGINT PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE,
			total_files_bytes BIGINT NOT NULL DEFAULT 0,
			file_count BIGINT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS purposes (
			oid BIGINT PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			slug TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			oid BIGINT PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			tenant_oid BIGINT NOT NULL REFERENCES tenants (oid),
			purpose_oid BIGINT NOT NULL REFERENCES purposes (oid),
			filename TEXT NOT NULL,
			bytes BIGINT NOT NULL,
			storage_key TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_tenant_oid ON files (tenant_oid, oid)`,
		`CREATE TABLE IF NOT EXISTS file_links (
			oid BIGINT PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			file_oid BIGINT NOT NULL REFERENCES files (oid) ON DELETE CASCADE,
			link_key TEXT NOT NULL UNIQUE,
			expires_at BIGINT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
	},
	MySQL: {
		`CREATE TABLE IF NOT EXISTS tenants (
			oid BIGINT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL UNIQUE,
			total_files_bytes BIGINT NOT NULL DEFAULT 0,
			file_count BIGINT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS purposes (
			oid BIGINT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			slug VARCHAR(255) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			oid BIGINT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			tenant_oid BIGINT NOT NULL,
			purpose_oid BIGINT NOT NULL,
			filename VARCHAR(1024) NOT NULL,
			bytes BIGINT NOT NULL,
			storage_key VARCHAR(255) NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL,
			INDEX idx_files_tenant_oid (tenant_oid, oid),
			FOREIGN KEY (tenant_oid) REFERENCES tenants (oid),
			FOREIGN KEY (purpose_oid) REFERENCES purposes (oid)
		)`,
		`CREATE TABLE IF NOT EXISTS file_links (
			oid BIGINT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			file_oid BIGINT NOT NULL,
			link_key VARCHAR(255) NOT NULL UNIQUE,
			expires_at BIGINT NOT NULL,
			created_at BIGINT NOT NULL,
			FOREIGN KEY (file_oid) REFERENCES files (oid) ON DELETE CASCADE
		)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS tenants (
			oid INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE,
			total_files_bytes INTEGER NOT NULL DEFAULT 0,
			file_count INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS purposes (
			oid INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			slug TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			oid INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			tenant_oid INTEGER NOT NULL REFERENCES tenants (oid),
			purpose_oid INTEGER NOT NULL REFERENCES purposes (oid),
			filename TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			storage_key TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_tenant_oid ON files (tenant_oid, oid)`,
		`CREATE TABLE IF NOT EXISTS file_links (
			oid INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			file_oid INTEGER NOT NULL REFERENCES files (oid) ON DELETE CASCADE,
			link_key TEXT NOT NULL UNIQUE,
			expires_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	},
}

// Migrate creates the schema for the given dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts, ok := schema[dialect]
	if !ok {
		return fmt.Errorf("data: no schema for dialect %q", dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("data: migrate %s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
