package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/configuration"
	"github.com/tourhub-uz/tourhub/pkg/metrics"
)

type statusCaptureWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
}

func (w *statusCaptureWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusCaptureWriter) Write(b []byte) (int, error) {
	if !w.statusWritten {
		w.statusCode = http.StatusOK
		w.statusWritten = true
	}
	return w.ResponseWriter.Write(b)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return r.RemoteAddr
}

// routeTemplate returns the matched mux route template. Raw URL paths would
// blow up metric label cardinality, so unmatched requests fall back to a
// fixed label.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// RequestLogger attaches a request-scoped logrus entry to the context and
// logs one line per request with status, client IP and duration. Each
// completed request is also recorded as a Prometheus sample.
func RequestLogger(logger *logrus.Logger) mux.MiddlewareFunc {
	header := configuration.Use().RequestIDHeader
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := strings.TrimSpace(r.Header.Get(header))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(header, requestID)

			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			params := &composables.Params{
				IP:        clientIP(r),
				UserAgent: r.UserAgent(),
				RequestID: requestID,
				Request:   r,
				Writer:    w,
			}
			ctx := composables.WithParams(r.Context(), params)
			ctx = composables.WithLogger(ctx, entry)

			capture := &statusCaptureWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(capture, r.WithContext(ctx))

			duration := time.Since(start)
			metrics.RecordHTTPRequest(r.Method, routeTemplate(r), capture.statusCode, duration)

			fields := logrus.Fields{
				"status":   capture.statusCode,
				"duration": duration.String(),
			}
			if ip, ok := composables.UseIP(ctx); ok {
				fields["ip"] = ip
			}
			entry.WithFields(fields).Info("request completed")
		})
	}
}
