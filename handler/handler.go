// Package handler provides the HTTP handlers of the public and private APIs.
package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cargohold/concurrency"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/ncobase/cargohold/net/resp"
	"github.com/ncobase/cargohold/service"
)

// HealthChecker reports the state of backing services.
type HealthChecker interface {
	Health(ctx context.Context) map[string]any
}

// Handler aggregates all HTTP handlers.
type Handler struct {
	File   *FileHandler
	Link   *LinkHandler
	health HealthChecker
	logger *logger.Logger

	uploads    *concurrency.Limiter
	uploadWait time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithUploadLimit bounds concurrent uploads on the public API.
func WithUploadLimit(l *concurrency.Limiter, wait time.Duration) Option {
	return func(h *Handler) {
		h.uploads = l
		h.uploadWait = wait
	}
}

// NewHandler creates a new handler instance with all sub-handlers initialized.
// maxUploadBytes bounds multipart bodies; <= 0 leaves them unbounded.
func NewHandler(svc *service.Service, health HealthChecker, maxUploadBytes int64, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Handler{
		File:   NewFileHandler(svc.File, maxUploadBytes, log),
		Link:   NewLinkHandler(svc.Link, log),
		health: health,
		logger: log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewEngine returns a gin engine with the common middleware installed.
func (h *Handler) NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Trace())
	r.Use(Logger(h.logger))
	r.GET("/health", h.Health)
	return r
}

// RegisterPublicRoutes registers the tenant facing routes.
func (h *Handler) RegisterPublicRoutes(r *gin.Engine) {
	files := r.Group("/files", Tenant())
	{
		files.POST("", h.uploadChain()...)
		files.GET("/:file_id", h.File.Get)
		files.GET("/:file_id/content", h.File.Content)
	}
	r.GET("/f/:link_key", h.Link.Download)
}

// RegisterPrivateRoutes registers the internal routes.
func (h *Handler) RegisterPrivateRoutes(r *gin.Engine) {
	files := r.Group("/files")
	{
		files.GET("", h.File.List)
		files.GET("/:file_id", h.File.GetAny)
		files.PUT("/:file_id", h.File.Update)
		files.DELETE("/:file_id", h.File.Delete)
	}
	links := r.Group("/links")
	{
		links.POST("", h.Link.Create)
		links.GET("/:link_id", h.Link.Get)
		links.DELETE("/:link_id", h.Link.Delete)
	}
}

func (h *Handler) uploadChain() []gin.HandlerFunc {
	if h.uploads == nil {
		return []gin.HandlerFunc{h.File.Upload}
	}
	return []gin.HandlerFunc{Limit(h.uploads, h.uploadWait), h.File.Upload}
}

// Public builds the engine of the public API.
func (h *Handler) Public() *gin.Engine {
	r := h.NewEngine()
	h.RegisterPublicRoutes(r)
	return r
}

// Private builds the engine of the private API.
func (h *Handler) Private() *gin.Engine {
	r := h.NewEngine()
	h.RegisterPrivateRoutes(r)
	return r
}

// Health reports service health.
func (h *Handler) Health(c *gin.Context) {
	out := map[string]any{"status": "healthy"}
	if h.health != nil {
		out = h.health.Health(c.Request.Context())
	}
	if h.uploads != nil {
		out["uploads"] = h.uploads.Stats()
	}
	resp.Success(c.Writer, out)
}
