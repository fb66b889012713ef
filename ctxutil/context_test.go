package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	if id == "" {
		t.Fatal("expected a generated trace id")
	}
	if GetTraceID(ctx) != id {
		t.Fatalf("GetTraceID = %q, want %q", GetTraceID(ctx), id)
	}
	ctx2, id2 := EnsureTraceID(ctx)
	if id2 != id || ctx2 != ctx {
		t.Fatal("EnsureTraceID should keep an existing trace id")
	}
}

func TestTenantNameThroughGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx := WithGinContext(context.Background(), c)

	SetTenantName(ctx, "acme")
	if got, _ := c.Get(tenantNameKey); got != "acme" {
		t.Fatalf("gin context value = %v", got)
	}
	if GetTenantName(ctx) != "acme" {
		t.Fatalf("GetTenantName = %q", GetTenantName(ctx))
	}
}

func TestWithAsyncContextDetachesCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(SetTraceID(context.Background(), "t-1"))
	ctx, done := WithAsyncContext(parent, time.Second)
	defer done()
	cancel()

	if ctx.Err() != nil {
		t.Fatalf("async context cancelled with parent: %v", ctx.Err())
	}
	if GetTraceID(ctx) != "t-1" {
		t.Fatalf("trace id lost: %q", GetTraceID(ctx))
	}
}
