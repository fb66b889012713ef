package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cargohold/ctxutil"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/ncobase/cargohold/net/resp"
	"github.com/ncobase/cargohold/service"
	"github.com/ncobase/cargohold/structs"
)

// multipartOverhead is the slack allowed above the file size limit for
// boundaries and the other form fields.
const multipartOverhead = 1 << 20

// FileHandler handles HTTP requests for files.
type FileHandler struct {
	svc      *service.FileService
	maxBytes int64
	logger   *logger.Logger
}

// NewFileHandler creates a new file handler.
func NewFileHandler(svc *service.FileService, maxBytes int64, logger *logger.Logger) *FileHandler {
	return &FileHandler{
		svc:      svc,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload handles multipart uploads with the fields file and purpose.
// @Router /files [post]
func (h *FileHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, h.logger, "upload file", service.ErrFileTooLarge)
			return
		}
		resp.Fail(c.Writer, resp.BadRequest("Missing file"))
		return
	}
	if fh.Filename == "" {
		resp.Fail(c.Writer, resp.BadRequest("Missing filename"))
		return
	}
	purpose := strings.TrimSpace(c.PostForm("purpose"))
	if purpose == "" {
		resp.Fail(c.Writer, resp.BadRequest("Missing purpose"))
		return
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		fail(c, h.logger, "upload file", service.ErrFileTooLarge)
		return
	}

	src, err := fh.Open()
	if err != nil {
		fail(c, h.logger, "open upload", err)
		return
	}
	defer src.Close()
	body, err := io.ReadAll(src)
	if err != nil {
		fail(c, h.logger, "read upload", err)
		return
	}

	f, err := h.svc.Upload(ctx, &service.UploadInput{
		TenantName: ctxutil.GetTenantName(ctx),
		Filename:   fh.Filename,
		Purpose:    purpose,
		Body:       body,
	})
	if err != nil {
		fail(c, h.logger, "upload file", err)
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, structs.FromFile(f, false))
}

// Get returns a file of the caller's tenant.
// @Router /files/{file_id} [get]
func (h *FileHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	f, err := h.svc.Get(ctx, ctxutil.GetTenantName(ctx), c.Param("file_id"))
	if err != nil {
		fail(c, h.logger, "get file", err)
		return
	}
	resp.Success(c.Writer, structs.FromFile(f, false))
}

// Content streams the contents of a file of the caller's tenant.
// @Router /files/{file_id}/content [get]
func (h *FileHandler) Content(c *gin.Context) {
	ctx := c.Request.Context()
	f, rc, err := h.svc.Content(ctx, ctxutil.GetTenantName(ctx), c.Param("file_id"))
	if err != nil {
		fail(c, h.logger, "get file content", err)
		return
	}
	defer rc.Close()
	if err := resp.Stream(c.Writer, "", f.Bytes, rc); err != nil {
		h.logger.Warn(ctx, "content stream interrupted", "file_id", f.ID, "error", err)
	}
}

// GetAny returns a file regardless of tenant.
// @Router /files/{file_id} [get]
func (h *FileHandler) GetAny(c *gin.Context) {
	f, err := h.svc.GetAny(c.Request.Context(), c.Param("file_id"))
	if err != nil {
		fail(c, h.logger, "get file", err)
		return
	}
	resp.Success(c.Writer, structs.FromFile(f, true))
}

// Update changes a file's filename and/or purpose.
// @Router /files/{file_id} [put]
func (h *FileHandler) Update(c *gin.Context) {
	var req structs.UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, h.logger, &req, err)
		return
	}

	f, err := h.svc.Update(c.Request.Context(), c.Param("file_id"), &req)
	if err != nil {
		fail(c, h.logger, "update file", err)
		return
	}
	resp.Success(c.Writer, structs.FromFile(f, true))
}

// Delete removes a file and returns it.
// @Router /files/{file_id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	f, err := h.svc.Delete(c.Request.Context(), c.Param("file_id"))
	if err != nil {
		fail(c, h.logger, "delete file", err)
		return
	}
	resp.Success(c.Writer, structs.FromFile(f, true))
}

// List returns one page of files.
// @Param tenant_id query string false "Restrict to one tenant"
// @Param limit query int false "Page size" default(10)
// @Param order query string false "asc or desc" default(desc)
// @Param after query string false "Cursor file id"
// @Param before query string false "Cursor file id"
// @Router /files [get]
func (h *FileHandler) List(c *gin.Context) {
	var q structs.ListFilesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFail(c, h.logger, &q, err)
		return
	}

	page, err := h.svc.List(c.Request.Context(), &q)
	if err != nil {
		fail(c, h.logger, "list files", err)
		return
	}
	resp.Success(c.Writer, structs.FromFiles(page, true))
}
