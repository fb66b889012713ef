package repository

import (
	"context"
	"strings"

	"github.com/ncobase/cargohold/data"
	"github.com/ncobase/cargohold/paging"
	"github.com/ncobase/cargohold/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// FileRepository defines the interface for file data operations.
type FileRepository interface {
	Create(ctx context.Context, f *File) (*File, error)
	GetByOID(ctx context.Context, oid int64) (*File, error)
	GetByID(ctx context.Context, id string) (*File, error)
	GetByIDForTenant(ctx context.Context, id string, tenantOID int64) (*File, error)
	Update(ctx context.Context, f *File) (*File, error)
	Delete(ctx context.Context, oid int64) error
	// Store returns the keyset store over files, restricted to one tenant
	// when tenantOID is non-nil.
	Store(tenantOID *int64) paging.Store[*File]
}

type fileRepository struct {
	d *data.Data
}

// NewFileRepository creates a new file repository instance.
func NewFileRepository(d *data.Data) FileRepository {
	return &fileRepository{d: d}
}

const fileSelect = `SELECT f.oid, f.id, f.tenant_oid, t.id, f.purpose_oid, p.slug,
	f.filename, f.bytes, f.storage_key, f.created_at, f.updated_at
	FROM files f
	JOIN tenants t ON t.oid = f.tenant_oid
	JOIN purposes p ON p.oid = f.purpose_oid`

func scanFile(s scanner) (*File, error) {
	f := &File{}
	err := s.Scan(&f.OID, &f.ID, &f.TenantOID, &f.TenantID, &f.PurposeOID, &f.Purpose,
		&f.Filename, &f.Bytes, &f.StorageKey, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a file row and returns it with its joined fields.
func (r *fileRepository) Create(ctx context.Context, f *File) (*File, error) {
	_, err := r.d.Executor(ctx).ExecContext(ctx, r.d.Rebind(
		`INSERT INTO files (oid, id, tenant_oid, purpose_oid, filename, bytes, storage_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		f.OID, f.ID, f.TenantOID, f.PurposeOID, f.Filename, f.Bytes, f.StorageKey, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err, "create file")
	}
	return r.GetByOID(ctx, f.OID)
}

func (r *fileRepository) getOne(ctx context.Context, where string, args ...any) (*File, error) {
	row := r.d.Executor(ctx).QueryRowContext(ctx, r.d.Rebind(fileSelect+" WHERE "+where), args...)
	f, err := scanFile(row)
	if err != nil {
		return nil, translate(err, "get file")
	}
	return f, nil
}

// GetByOID retrieves a file by internal key.
func (r *fileRepository) GetByOID(ctx context.Context, oid int64) (*File, error) {
	return r.getOne(ctx, "f.oid = ?", oid)
}

// GetByID retrieves a file by external id regardless of tenant.
func (r *fileRepository) GetByID(ctx context.Context, id string) (*File, error) {
	return r.getOne(ctx, "f.id = ?", id)
}

// GetByIDForTenant retrieves a file by external id within one tenant.
// Files of other tenants are reported as not found.
func (r *fileRepository) GetByIDForTenant(ctx context.Context, id string, tenantOID int64) (*File, error) {
	return r.getOne(ctx, "f.id = ? AND f.tenant_oid = ?", id, tenantOID)
}

// Update writes the mutable columns (filename, purpose, updated_at).
func (r *fileRepository) Update(ctx context.Context, f *File) (*File, error) {
	res, err := r.d.Executor(ctx).ExecContext(ctx, r.d.Rebind(
		"UPDATE files SET filename = ?, purpose_oid = ?, updated_at = ? WHERE oid = ?"),
		f.Filename, f.PurposeOID, f.UpdatedAt, f.OID,
	)
	if err != nil {
		return nil, translate(err, "update file")
	}
	if err := affected(res, "update file"); err != nil {
		return nil, err
	}
	return r.GetByOID(ctx, f.OID)
}

// Delete removes a file row together with its links.
func (r *fileRepository) Delete(ctx context.Context, oid int64) error {
	return r.d.WithTx(ctx, func(ctx context.Context) error {
		exec := r.d.Executor(ctx)
		if _, err := exec.ExecContext(ctx, r.d.Rebind("DELETE FROM file_links WHERE file_oid = ?"), oid); err != nil {
			return translate(err, "delete file links")
		}
		res, err := exec.ExecContext(ctx, r.d.Rebind("DELETE FROM files WHERE oid = ?"), oid)
		if err != nil {
			return translate(err, "delete file")
		}
		return affected(res, "delete file")
	})
}

// Store implements FileRepository.
func (r *fileRepository) Store(tenantOID *int64) paging.Store[*File] {
	return &fileStore{r: r, tenantOID: tenantOID}
}

type fileStore struct {
	r         *fileRepository
	tenantOID *int64
}

// ResolveCursor looks the cursor up across all tenants; the scope applies
// to the range query only.
func (s *fileStore) ResolveCursor(ctx context.Context, id string) (int64, error) {
	var oid int64
	err := s.r.d.Executor(ctx).QueryRowContext(ctx, s.r.d.Rebind(
		"SELECT oid FROM files WHERE id = ?"), id).Scan(&oid)
	if err != nil {
		return 0, translate(err, "resolve file cursor")
	}
	return oid, nil
}

func (s *fileStore) QueryRange(ctx context.Context, rg paging.Range) (_ []*File, err error) {
	ctx, span := tracing.Start(ctx, tracing.LayerRepo, "fileStore.QueryRange",
		attribute.String("order", string(rg.Order)), attribute.Int("limit", rg.Limit))
	defer func() { tracing.End(span, err) }()

	query, args := buildRangeQuery(rg, s.tenantOID)

	rows, err := s.r.d.Executor(ctx).QueryContext(ctx, s.r.d.Rebind(query), args...)
	if err != nil {
		return nil, translate(err, "list files")
	}
	defer rows.Close()

	out := make([]*File, 0, rg.Limit)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, translate(err, "list files")
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list files")
	}
	return out, nil
}

func buildRangeQuery(rg paging.Range, tenantOID *int64) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if rg.Lower != nil {
		conds = append(conds, "f.oid > ?")
		args = append(args, *rg.Lower)
	}
	if rg.Upper != nil {
		conds = append(conds, "f.oid < ?")
		args = append(args, *rg.Upper)
	}
	if tenantOID != nil {
		conds = append(conds, "f.tenant_oid = ?")
		args = append(args, *tenantOID)
	}

	var b strings.Builder
	b.WriteString(fileSelect)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	if rg.Order == paging.Ascending {
		b.WriteString(" ORDER BY f.oid ASC")
	} else {
		b.WriteString(" ORDER BY f.oid DESC")
	}
	b.WriteString(" LIMIT ?")
	args = append(args, rg.Limit)
	return b.String(), args
}
