package ctxutil

import (
	"context"
	"time"
)

// DefaultAsyncTimeout bounds work detached from a request, such as event publishing.
const DefaultAsyncTimeout = 5 * time.Second

// WithAsyncContext derives a context that survives cancellation of parent
// but keeps its values (trace id, tenant) and has its own timeout.
func WithAsyncContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = DefaultAsyncTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
