// Package repository persists tenants, purposes, files and file links
// through database/sql. Every query is written with '?' placeholders and
// rebound for the connected dialect.
package repository

import (
	"errors"
	"fmt"

	"github.com/ncobase/cargohold/paging"
)

var (
	// ErrNotFound also matches paging.ErrNotFound so that cursor lookups
	// surface as invalid cursors.
	ErrNotFound = fmt.Errorf("record not found: %w", paging.ErrNotFound)
	// ErrConflict is returned when a unique column already holds the value.
	ErrConflict = errors.New("record already exists")
)

// Tenant is a namespace owning files. Name is the value clients send in
// the X-Tenant-ID header.
type Tenant struct {
	OID             int64
	ID              string
	Name            string
	TotalFilesBytes int64
	FileCount       int64
	CreatedAt       int64
	UpdatedAt       int64
}

// Purpose is an allowed file category.
type Purpose struct {
	OID  int64
	ID   string
	Slug string
}

// File is a stored file's metadata. TenantID and Purpose are joined in on
// reads.
type File struct {
	OID        int64
	ID         string
	TenantOID  int64
	TenantID   string
	PurposeOID int64
	Purpose    string
	Filename   string
	Bytes      int64
	StorageKey string
	CreatedAt  int64
	UpdatedAt  int64
}

// FileLink is a shareable key granting access to a file until ExpiresAt.
type FileLink struct {
	OID       int64
	ID        string
	FileOID   int64
	FileID    string
	Key       string
	ExpiresAt int64
	CreatedAt int64
}

// Expired reports whether the link is no longer valid at nowMs.
func (l *FileLink) Expired(nowMs int64) bool {
	return nowMs >= l.ExpiresAt
}
