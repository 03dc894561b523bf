package middleware

import (
	"context"
	"net/http"

	"taxpoint/ms_receipt_core/internal/infrastructure/config"
)

// RenderTimeout bounds the request context of a parse request to the
// configured render window plus a small processing margin. The headless
// browser session inherits this context, so a hung portal page cannot hold
// a worker past the bound.
func RenderTimeout(cfg config.RenderSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The server's WriteTimeout is validated at startup to exceed
			// this bound, so the deadline here always fires first.
			ctx, cancel := context.WithTimeout(r.Context(), cfg.Timeout+cfg.PollInterval)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
