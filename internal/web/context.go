package web

import (
	"context"
	"net/http"

	"github.com/opstools/qrcleaner/internal/core"
)

// WithRequestMetadata adds client IP and User-Agent to context so job
// submissions can be logged with their origin.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // Already resolved by the TrustedRealIP middleware
	ua := r.Header.Get("User-Agent")
	ctx = core.ContextWithClientIP(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, ua)
	return ctx
}
