// Package structs defines the request and response bodies of the HTTP API.
package structs

import (
	"github.com/ncobase/cargohold/consts"
	"github.com/ncobase/cargohold/data/repository"
	"github.com/ncobase/cargohold/paging"
)

// FileResponse describes a file. TenantID is only set on the private API.
type FileResponse struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
	TenantID  string `json:"tenant_id,omitempty"`
}

// FileLinkResponse describes a share link.
type FileLinkResponse struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	FileID    string `json:"file_id"`
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
	CreatedAt int64  `json:"created_at"`
}

// ListFilesResponse is one page of files.
type ListFilesResponse = paging.Result[*FileResponse]

// ListFilesQuery is the query string of GET /files on the private API.
type ListFilesQuery struct {
	TenantID string `form:"tenant_id"`
	Limit    *int   `form:"limit"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
	Before   string `form:"before"`
	After    string `form:"after"`
}

// UpdateFileRequest changes a file's mutable metadata. Absent fields are kept.
type UpdateFileRequest struct {
	Filename *string `json:"filename" binding:"omitempty,min=1,max=1024"`
	Purpose  *string `json:"purpose"`
}

// CreateLinkRequest creates a share link valid for ExpiresIn seconds.
// Key is generated when empty.
type CreateLinkRequest struct {
	FileID    string `json:"file_id" binding:"required"`
	ExpiresIn int64  `json:"expires_in" binding:"required,gt=0,max=3153600000"`
	Key       string `json:"key" binding:"omitempty,min=1,max=255"`
}

// FromFile converts a stored file. withTenant includes the owning tenant id.
func FromFile(f *repository.File, withTenant bool) *FileResponse {
	r := &FileResponse{
		ID:        f.ID,
		Object:    consts.ObjectFile,
		Bytes:     f.Bytes,
		CreatedAt: f.CreatedAt / 1000,
		UpdatedAt: f.UpdatedAt / 1000,
		Filename:  f.Filename,
		Purpose:   f.Purpose,
	}
	if withTenant {
		r.TenantID = f.TenantID
	}
	return r
}

// FromFiles converts a page of stored files.
func FromFiles(page *paging.Result[*repository.File], withTenant bool) *ListFilesResponse {
	items := make([]*FileResponse, len(page.Items))
	for i, f := range page.Items {
		items[i] = FromFile(f, withTenant)
	}
	return &ListFilesResponse{Items: items, Pagination: page.Pagination}
}

// FromLink converts a stored link.
func FromLink(l *repository.FileLink) *FileLinkResponse {
	return &FileLinkResponse{
		ID:        l.ID,
		Object:    consts.ObjectFileLink,
		FileID:    l.FileID,
		Key:       l.Key,
		ExpiresAt: l.ExpiresAt / 1000,
		CreatedAt: l.CreatedAt / 1000,
	}
}
