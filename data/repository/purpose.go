package repository

import (
	"context"

	"github.com/ncobase/cargohold/data"
)

// PurposeRepository defines the interface for purpose data operations.
type PurposeRepository interface {
	Create(ctx context.Context, p *Purpose) (*Purpose, error)
	GetBySlug(ctx context.Context, slug string) (*Purpose, error)
	GetByOID(ctx context.Context, oid int64) (*Purpose, error)
	List(ctx context.Context) ([]*Purpose, error)
}

type purposeRepository struct {
	d *data.Data
}

// NewPurposeRepository creates a new purpose repository instance.
func NewPurposeRepository(d *data.Data) PurposeRepository {
	return &purposeRepository{d: d}
}

// Create inserts a purpose. A taken slug yields ErrConflict.
func (r *purposeRepository) Create(ctx context.Context, p *Purpose) (*Purpose, error) {
	_, err := r.d.Executor(ctx).ExecContext(ctx, r.d.Rebind(
		"INSERT INTO purposes (oid, id, slug) VALUES (?, ?, ?)"), p.OID, p.ID, p.Slug)
	if err != nil {
		return nil, translate(err, "create purpose")
	}
	return p, nil
}

// GetBySlug retrieves a purpose by slug.
func (r *purposeRepository) GetBySlug(ctx context.Context, slug string) (*Purpose, error) {
	p := &Purpose{}
	err := r.d.Executor(ctx).QueryRowContext(ctx, r.d.Rebind(
		"SELECT oid, id, slug FROM purposes WHERE slug = ?"), slug).Scan(&p.OID, &p.ID, &p.Slug)
	if err != nil {
		return nil, translate(err, "get purpose")
	}
	return p, nil
}

// GetByOID retrieves a purpose by internal key.
func (r *purposeRepository) GetByOID(ctx context.Context, oid int64) (*Purpose, error) {
	p := &Purpose{}
	err := r.d.Executor(ctx).QueryRowContext(ctx, r.d.Rebind(
		"SELECT oid, id, slug FROM purposes WHERE oid = ?"), oid).Scan(&p.OID, &p.ID, &p.Slug)
	if err != nil {
		return nil, translate(err, "get purpose")
	}
	return p, nil
}

// List returns every purpose ordered by slug.
func (r *purposeRepository) List(ctx context.Context) ([]*Purpose, error) {
	rows, err := r.d.Executor(ctx).QueryContext(ctx, "SELECT oid, id, slug FROM purposes ORDER BY slug")
	if err != nil {
		return nil, translate(err, "list purposes")
	}
	defer rows.Close()

	var out []*Purpose
	for rows.Next() {
		p := &Purpose{}
		if err := rows.Scan(&p.OID, &p.ID, &p.Slug); err != nil {
			return nil, translate(err, "list purposes")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
