package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/ncobase/cargohold/net/resp"
	"github.com/ncobase/cargohold/service"
	"github.com/ncobase/cargohold/structs"
)

// LinkHandler handles HTTP requests for share links.
type LinkHandler struct {
	svc    *service.LinkService
	logger *logger.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(svc *service.LinkService, logger *logger.Logger) *LinkHandler {
	return &LinkHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create issues a share link.
// @Router /links [post]
func (h *LinkHandler) Create(c *gin.Context) {
	var req structs.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, h.logger, &req, err)
		return
	}

	l, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.logger, "create link", err)
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, structs.FromLink(l))
}

// Get returns a link.
// @Router /links/{link_id} [get]
func (h *LinkHandler) Get(c *gin.Context) {
	l, err := h.svc.Get(c.Request.Context(), c.Param("link_id"))
	if err != nil {
		fail(c, h.logger, "get link", err)
		return
	}
	resp.Success(c.Writer, structs.FromLink(l))
}

// Delete removes a link and returns it.
// @Router /links/{link_id} [delete]
func (h *LinkHandler) Delete(c *gin.Context) {
	l, err := h.svc.Delete(c.Request.Context(), c.Param("link_id"))
	if err != nil {
		fail(c, h.logger, "delete link", err)
		return
	}
	resp.Success(c.Writer, structs.FromLink(l))
}

// Download streams the file behind an unexpired link. No tenant header is
// required.
// @Router /f/{link_key} [get]
func (h *LinkHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()
	f, rc, err := h.svc.Open(ctx, c.Param("link_key"))
	if err != nil {
		fail(c, h.logger, "open link", err)
		return
	}
	defer rc.Close()
	if err := resp.Stream(c.Writer, "", f.Bytes, rc); err != nil {
		h.logger.Warn(ctx, "link stream interrupted", "file_id", f.ID, "error", err)
	}
}
