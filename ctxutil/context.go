package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ncobase/cargohold/consts"
)

const (
	ginContextKey = consts.GinContextKey
	tenantNameKey = consts.TenantKey
	TraceIDKey    = consts.TraceKey
)

// WithGinContext returns a context.Context that embeds the *gin.Context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey, c)
}

// GetGinContext extracts *gin.Context from context.Context if it exists.
func GetGinContext(ctx context.Context) (*gin.Context, bool) {
	if c, ok := ctx.Value(ginContextKey).(*gin.Context); ok {
		return c, ok
	}
	return nil, false
}

// GetValue reads key from the embedded gin context first, then from ctx.
func GetValue(ctx context.Context, key string) any {
	if ctx == nil {
		return nil
	}
	if c, ok := GetGinContext(ctx); ok {
		if val, exists := c.Get(key); exists {
			return val
		}
	}
	return ctx.Value(key)
}

// SetValue stores val in ctx and in the embedded gin context, if any.
func SetValue(ctx context.Context, key string, val any) context.Context {
	if c, ok := GetGinContext(ctx); ok {
		c.Set(key, val)
	}
	return context.WithValue(ctx, key, val)
}

// SetTenantName sets the caller-supplied tenant name to context.Context.
func SetTenantName(ctx context.Context, name string) context.Context {
	return SetValue(ctx, tenantNameKey, name)
}

// GetTenantName gets the tenant name from context.Context.
func GetTenantName(ctx context.Context) string {
	if name, ok := GetValue(ctx, tenantNameKey).(string); ok {
		return name
	}
	return ""
}

// GetTraceID gets trace id from context.Context or gin.Context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := GetValue(ctx, TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context and gin.Context if available.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return SetValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}
