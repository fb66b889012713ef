package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ncobase/cargohold/consts"
	"github.com/ncobase/cargohold/data/repository"
	"github.com/ncobase/cargohold/event"
	"github.com/ncobase/cargohold/oss"
	"github.com/ncobase/cargohold/paging"
	"github.com/ncobase/cargohold/structs"
	"github.com/ncobase/cargohold/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// FileService handles file uploads, metadata and listing.
type FileService struct {
	deps      *Deps
	tenants   *TenantService
	purposes  *PurposeService
	maxBytes  int64
	paginator paging.Paginator
}

// NewFileService creates a new file service. maxBytes <= 0 disables the
// size limit.
func NewFileService(deps *Deps, tenants *TenantService, purposes *PurposeService, maxBytes int64, p paging.Paginator) *FileService {
	return &FileService{
		deps:      deps,
		tenants:   tenants,
		purposes:  purposes,
		maxBytes:  maxBytes,
		paginator: p,
	}
}

// StorageKey is where the contents of file id owned by tenantID live.
func StorageKey(tenantID, fileID string) string {
	return tenantID + "/" + fileID
}

// UploadInput is a file received on the public API.
type UploadInput struct {
	TenantName string
	Filename   string
	Purpose    string
	Body       []byte
}

// Upload stores the body and records the file for the tenant.
func (s *FileService) Upload(ctx context.Context, in *UploadInput) (_ *repository.File, err error) {
	ctx, span := tracing.Start(ctx, tracing.LayerService, "FileService.Upload",
		attribute.String("tenant", in.TenantName), attribute.Int("bytes", len(in.Body)))
	defer func() { tracing.End(span, err) }()

	if strings.TrimSpace(in.Filename) == "" {
		return nil, invalidArgument("Missing filename")
	}
	if s.maxBytes > 0 && int64(len(in.Body)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(in.Body), s.maxBytes)
	}

	tenant, err := s.tenants.GetOrCreate(ctx, in.TenantName)
	if err != nil {
		return nil, err
	}
	purpose, err := s.purposes.GetBySlug(ctx, in.Purpose)
	if err != nil {
		return nil, err
	}

	key, id, err := mint(ctx, s.deps, consts.PrefixFile)
	if err != nil {
		return nil, err
	}
	storageKey := StorageKey(tenant.ID, id)
	size := int64(len(in.Body))

	if err := s.deps.Storage.Put(ctx, storageKey, bytes.NewReader(in.Body), size, ""); err != nil {
		return nil, fmt.Errorf("store file contents: %w", err)
	}

	now := s.deps.NowMs()
	var created *repository.File
	err = s.deps.Data.WithTx(ctx, func(ctx context.Context) error {
		f, err := s.deps.Repos.File.Create(ctx, &repository.File{
			OID:        key,
			ID:         id,
			TenantOID:  tenant.OID,
			PurposeOID: purpose.OID,
			Filename:   in.Filename,
			Bytes:      size,
			StorageKey: storageKey,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}
		created = f
		return s.deps.Repos.Tenant.AdjustUsage(ctx, tenant.OID, size, 1, now)
	})
	if err != nil {
		if derr := s.deps.Storage.Delete(ctx, storageKey); derr != nil {
			s.deps.Logger.Warn(ctx, "failed to remove orphaned contents", "storage_key", storageKey, "error", derr)
		}
		return nil, err
	}

	s.deps.Logger.Info(ctx, "file uploaded", "file_id", created.ID, "tenant", tenant.Name, "bytes", size)
	s.deps.Events.Emit(ctx, event.New(ctx, event.FileCreated, created.ID, tenant.ID, map[string]any{
		"filename": created.Filename,
		"purpose":  created.Purpose,
		"bytes":    created.Bytes,
	}))
	return created, nil
}

// Get returns a file owned by the named tenant.
func (s *FileService) Get(ctx context.Context, tenantName, id string) (*repository.File, error) {
	tenant, err := s.tenants.GetOrCreate(ctx, tenantName)
	if err != nil {
		return nil, err
	}
	return s.deps.Repos.File.GetByIDForTenant(ctx, id, tenant.OID)
}

// Content opens the contents of a file owned by the named tenant.
func (s *FileService) Content(ctx context.Context, tenantName, id string) (*repository.File, io.ReadCloser, error) {
	f, err := s.Get(ctx, tenantName, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.Open(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return f, rc, nil
}

// Open streams the stored contents of f.
func (s *FileService) Open(ctx context.Context, f *repository.File) (_ io.ReadCloser, err error) {
	ctx, span := tracing.Start(ctx, tracing.LayerService, "FileService.Open", attribute.String("file_id", f.ID))
	defer func() { tracing.End(span, err) }()

	rc, err := s.deps.Storage.Get(ctx, f.StorageKey)
	if errors.Is(err, oss.ErrObjectNotFound) {
		s.deps.Logger.Error(ctx, "file contents missing from storage", "file_id", f.ID, "storage_key", f.StorageKey)
		return nil, fmt.Errorf("file contents %s: %w", f.ID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read file contents: %w", err)
	}
	return rc, nil
}

// GetAny returns a file regardless of its tenant.
func (s *FileService) GetAny(ctx context.Context, id string) (*repository.File, error) {
	return s.deps.Repos.File.GetByID(ctx, id)
}

// Update changes the filename and/or purpose of a file. Nil fields are kept.
func (s *FileService) Update(ctx context.Context, id string, req *structs.UpdateFileRequest) (*repository.File, error) {
	f, err := s.deps.Repos.File.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Filename != nil {
		if strings.TrimSpace(*req.Filename) == "" {
			return nil, invalidArgument("Invalid filename")
		}
		f.Filename = *req.Filename
	}
	if req.Purpose != nil {
		p, err := s.purposes.GetBySlug(ctx, *req.Purpose)
		if err != nil {
			return nil, err
		}
		f.PurposeOID = p.OID
	}
	f.UpdatedAt = s.deps.NowMs()

	updated, err := s.deps.Repos.File.Update(ctx, f)
	if err != nil {
		return nil, err
	}
	s.deps.Events.Emit(ctx, event.New(ctx, event.FileUpdated, updated.ID, updated.TenantID, map[string]any{
		"filename": updated.Filename,
		"purpose":  updated.Purpose,
	}))
	return updated, nil
}

// Delete removes a file, its links and its contents, and returns the
// removed file.
func (s *FileService) Delete(ctx context.Context, id string) (_ *repository.File, err error) {
	ctx, span := tracing.Start(ctx, tracing.LayerService, "FileService.Delete", attribute.String("file_id", id))
	defer func() { tracing.End(span, err) }()

	f, err := s.deps.Repos.File.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.deps.Data.WithTx(ctx, func(ctx context.Context) error {
		if err := s.deps.Repos.File.Delete(ctx, f.OID); err != nil {
			return err
		}
		return s.deps.Repos.Tenant.AdjustUsage(ctx, f.TenantOID, -f.Bytes, -1, s.deps.NowMs())
	})
	if err != nil {
		return nil, err
	}

	if err := s.deps.Storage.Delete(ctx, f.StorageKey); err != nil && !errors.Is(err, oss.ErrObjectNotFound) {
		s.deps.Logger.Warn(ctx, "failed to delete file contents", "file_id", f.ID, "storage_key", f.StorageKey, "error", err)
	}

	s.deps.Logger.Info(ctx, "file deleted", "file_id", f.ID, "tenant_id", f.TenantID)
	s.deps.Events.Emit(ctx, event.New(ctx, event.FileDeleted, f.ID, f.TenantID, map[string]any{"bytes": f.Bytes}))
	return f, nil
}

// List returns one page of files, optionally restricted to one tenant by
// its external id.
func (s *FileService) List(ctx context.Context, q *structs.ListFilesQuery) (_ *paging.Result[*repository.File], err error) {
	ctx, span := tracing.Start(ctx, tracing.LayerService, "FileService.List")
	defer func() { tracing.End(span, err) }()

	var scope *int64
	if q.TenantID != "" {
		t, err := s.tenants.GetByID(ctx, q.TenantID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidTenantID
		}
		if err != nil {
			return nil, err
		}
		scope = &t.OID
	}

	// An absent limit takes the default; an explicit one is clamped to at least 1.
	limit := 0
	if q.Limit != nil {
		limit = max(*q.Limit, 1)
	}
	return paging.PaginateWith(ctx, s.paginator, s.deps.Repos.File.Store(scope), paging.Params{
		After:  q.After,
		Before: q.Before,
		Limit:  limit,
		Order:  paging.ParseOrder(q.Order),
	})
}
