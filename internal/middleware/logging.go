package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"ufscompras/internal/observability"
)

// RequestLogger copies chi's request id into the observability context, so
// backend calls forward it as X-Request-ID, and logs every request once it
// completes. It must run after chi's RequestID middleware.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := r.Context()
			if reqID := chimw.GetReqID(ctx); reqID != "" {
				ctx = observability.WithRequestID(ctx, reqID)
				w.Header().Set("X-Request-ID", reqID)
			}

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r.WithContext(ctx))

			level := slog.LevelInfo
			if ww.statusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			observability.FromContext(ctx).Log(ctx, level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.statusCode),
				slog.Duration("latency", time.Since(start)),
			)
		})
	}
}
