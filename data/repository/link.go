package repository

import (
	"context"

	"github.com/ncobase/cargohold/data"
)

// LinkRepository defines the interface for file link data operations.
type LinkRepository interface {
	Create(ctx context.Context, l *FileLink) (*FileLink, error)
	GetByID(ctx context.Context, id string) (*FileLink, error)
	GetByKey(ctx context.Context, key string) (*FileLink, error)
	Delete(ctx context.Context, oid int64) error
}

type linkRepository struct {
	d *data.Data
}

// NewLinkRepository creates a new link repository instance.
func NewLinkRepository(d *data.Data) LinkRepository {
	return &linkRepository{d: d}
}

const linkSelect = `SELECT l.oid, l.id, l.file_oid, f.id, l.link_key, l.expires_at, l.created_at
	FROM file_links l
	JOIN files f ON f.oid = l.file_oid`

func scanLink(s scanner) (*FileLink, error) {
	l := &FileLink{}
	if err := s.Scan(&l.OID, &l.ID, &l.FileOID, &l.FileID, &l.Key, &l.ExpiresAt, &l.CreatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

// Create inserts a link. A taken key yields ErrConflict.
func (r *linkRepository) Create(ctx context.Context, l *FileLink) (*FileLink, error) {
	_, err := r.d.Executor(ctx).ExecContext(ctx, r.d.Rebind(
		"INSERT INTO file_links (oid, id, file_oid, link_key, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		l.OID, l.ID, l.FileOID, l.Key, l.ExpiresAt, l.CreatedAt,
	)
	if err != nil {
		return nil, translate(err, "create link")
	}
	return r.getOne(ctx, "l.oid = ?", l.OID)
}

func (r *linkRepository) getOne(ctx context.Context, where string, args ...any) (*FileLink, error) {
	row := r.d.Executor(ctx).QueryRowContext(ctx, r.d.Rebind(linkSelect+" WHERE "+where), args...)
	l, err := scanLink(row)
	if err != nil {
		return nil, translate(err, "get link")
	}
	return l, nil
}

// GetByID retrieves a link by external id.
func (r *linkRepository) GetByID(ctx context.Context, id string) (*FileLink, error) {
	return r.getOne(ctx, "l.id = ?", id)
}

// GetByKey retrieves a link by its shareable key.
func (r *linkRepository) GetByKey(ctx context.Context, key string) (*FileLink, error) {
	return r.getOne(ctx, "l.link_key = ?", key)
}

// Delete removes a link by internal key.
func (r *linkRepository) Delete(ctx context.Context, oid int64) error {
	res, err := r.d.Executor(ctx).ExecContext(ctx, r.d.Rebind("DELETE FROM file_links WHERE oid = ?"), oid)
	if err != nil {
		return translate(err, "delete link")
	}
	return affected(res, "delete link")
}
