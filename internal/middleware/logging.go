package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/moodlens/moodlens/backend/pkg/logger"
)

// RequestLogger logs one line per completed request with method, path,
// status and latency.
func RequestLogger(next http.Handler) http.Handler {
	log := logger.Component("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.WithFields(logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": chimiddleware.GetReqID(r.Context()),
		}).Info("request completed")
	})
}
