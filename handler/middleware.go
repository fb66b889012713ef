package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cargohold/concurrency"
	"github.com/ncobase/cargohold/consts"
	"github.com/ncobase/cargohold/ctxutil"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/ncobase/cargohold/net/resp"
	"github.com/ncobase/cargohold/service"
	"github.com/ncobase/cargohold/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Trace propagates X-Trace-ID, minting one when absent, and opens a
// handler span for the request.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		if id := strings.TrimSpace(c.GetHeader(consts.TraceHeader)); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		c.Header(consts.TraceHeader, traceID)

		ctx, span := tracing.Start(ctx, tracing.LayerHandler, c.Request.Method+" "+c.FullPath(),
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.target", c.Request.URL.Path),
			attribute.String(consts.TraceKey, traceID),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last
		}
		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
		tracing.End(span, err)
	}
}

// Logger logs one line per request.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

// Tenant requires the X-Tenant-ID header and stores its value in the
// request context.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader(consts.TenantHeader))
		if name == "" {
			resp.Fail(c.Writer, resp.BadRequest(service.ErrMissingTenant.Error()))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctxutil.SetTenantName(c.Request.Context(), name))
		c.Next()
	}
}

// Limit holds a slot of l for the rest of the chain. Requests that wait
// longer than wait are rejected with 503.
func Limit(l *concurrency.Limiter, wait time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		err := l.Acquire(ctx)
		cancel()
		if err != nil {
			resp.Fail(c.Writer, resp.ServiceUnavailable("Too many concurrent uploads"))
			c.Abort()
			return
		}
		defer l.Release()
		c.Next()
	}
}
