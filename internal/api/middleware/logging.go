package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Logging writes one line per request. It must run after LoadUser to see
// the user id.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"size", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"ip", ClientIP(r),
				"request_id", chimw.GetReqID(r.Context()),
			}
			if id := GetUserID(r.Context()); id != uuid.Nil {
				attrs = append(attrs, "user_id", id.String())
			}

			logger.Info("request", attrs...)
		})
	}
}

// Recovery turns a panic into the fallback response and logs the stack.
func Recovery(logger *slog.Logger, fallback http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic serving request",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", chimw.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				fallback.ServeHTTP(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
