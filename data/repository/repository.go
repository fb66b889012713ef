package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ncobase/cargohold/data"
)

// Repositories bundles the repositories built on one data layer.
type Repositories struct {
	Tenant  TenantRepository
	Purpose PurposeRepository
	File    FileRepository
	Link    LinkRepository
}

// New builds every repository on d.
func New(d *data.Data) *Repositories {
	return &Repositories{
		Tenant:  NewTenantRepository(d),
		Purpose: NewPurposeRepository(d),
		File:    NewFileRepository(d),
		Link:    NewLinkRepository(d),
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// translate maps driver errors onto the package sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case data.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// affected returns ErrNotFound when a write touched no rows.
func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
