package repository

import (
	"context"
	"fmt"

	"github.com/ncobase/cargohold/data"
)

// TenantRepository defines the interface for tenant data operations.
type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) (*Tenant, error)
	GetByOID(ctx context.Context, oid int64) (*Tenant, error)
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetByName(ctx context.Context, name string) (*Tenant, error)
	AdjustUsage(ctx context.Context, oid, deltaBytes, deltaCount, nowMs int64) error
}

type tenantRepository struct {
	d *data.Data
}

// NewTenantRepository creates a new tenant repository instance.
func NewTenantRepository(d *data.Data) TenantRepository {
	return &tenantRepository{d: d}
}

const tenantColumns = "oid, id, name, total_files_bytes, file_count, created_at, updated_at"

func scanTenant(s scanner) (*Tenant, error) {
	t := &Tenant{}
	if err := s.Scan(&t.OID, &t.ID, &t.Name, &t.TotalFilesBytes, &t.FileCount, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a tenant. A taken name yields ErrConflict.
func (r *tenantRepository) Create(ctx context.Context, t *Tenant) (*Tenant, error) {
	_, err := r.d.Executor(ctx).ExecContext(ctx, r.d.Rebind(
		"INSERT INTO tenants ("+tenantColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		t.OID, t.ID, t.Name, t.TotalFilesBytes, t.FileCount, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err, "create tenant")
	}
	return t, nil
}

func (r *tenantRepository) getBy(ctx context.Context, column string, value any) (*Tenant, error) {
	row := r.d.Executor(ctx).QueryRowContext(ctx, r.d.Rebind(
		"SELECT "+tenantColumns+" FROM tenants WHERE "+column+" = ?"), value)
	t, err := scanTenant(row)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("get tenant by %s", column))
	}
	return t, nil
}

// GetByOID retrieves a tenant by internal key.
func (r *tenantRepository) GetByOID(ctx context.Context, oid int64) (*Tenant, error) {
	return r.getBy(ctx, "oid", oid)
}

// GetByID retrieves a tenant by external id.
func (r *tenantRepository) GetByID(ctx context.Context, id string) (*Tenant, error) {
	return r.getBy(ctx, "id", id)
}

// GetByName retrieves a tenant by name.
func (r *tenantRepository) GetByName(ctx context.Context, name string) (*Tenant, error) {
	return r.getBy(ctx, "name", name)
}

// AdjustUsage adds the deltas to the tenant's stored byte and file totals.
func (r *tenantRepository) AdjustUsage(ctx context.Context, oid, deltaBytes, deltaCount, nowMs int64) error {
	res, err := r.d.Executor(ctx).ExecContext(ctx, r.d.Rebind(
		"UPDATE tenants SET total_files_bytes = total_files_bytes + ?, file_count = file_count + ?, updated_at = ? WHERE oid = ?"),
		deltaBytes, deltaCount, nowMs, oid,
	)
	if err != nil {
		return translate(err, "adjust tenant usage")
	}
	return affected(res, "adjust tenant usage")
}
