package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tabiplan/backend/internal/metrics"
	"github.com/tabiplan/backend/internal/ratelimit"
)

// Middleware is a standard http.Handler decorator.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares in order, so the first one listed runs
// outermost, per internal/api/middleware/middleware.go's Chain.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID attaches a request id (the inbound X-Request-Id header, or
// a fresh uuid) to the request context and response headers.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		})
	}
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return "unknown"
}

// Logging records one structured log line per request.
func Logging(log *logrus.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			log.WithFields(logrus.Fields{
				"request_id": requestIDFrom(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     wrapped.status,
				"duration":   time.Since(start).String(),
			}).Info("http request")
		})
	}
}

// Recovery turns a panic in a handler into a 500 response instead of
// crashing the server.
func Recovery(log *logrus.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(logrus.Fields{
						"request_id": requestIDFrom(r.Context()),
						"panic":      fmt.Sprint(rec),
						"stack":      string(debug.Stack()),
					}).Error("panic recovered")
					writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records one RecordHTTPRequest observation per request. A
// nil collector makes this a no-op, so deployments without metrics
// wiring pay nothing beyond the timing call.
func Metrics(collector *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if collector == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			collector.RecordHTTPRequest(time.Since(start), wrapped.status, wrapped.status >= 500)
		})
	}
}

// SecurityHeaders sets the baseline headers every response carries.
func SecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows cross-origin browser clients to call the API.
func CORS() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			h.Set("Access-Control-Expose-Headers", "X-Request-Id, X-Cache, X-RateLimit-Limit, X-RateLimit-Remaining")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout bounds handler execution to d, responding 504 on expiry.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			r = r.WithContext(ctx)

			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(w, r)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				writeError(w, r, http.StatusGatewayTimeout, "GATEWAY_TIMEOUT", "request exceeded its deadline")
			}
		})
	}
}

// maxBodyBytes is the request body size ceiling.
const maxBodyBytes = 1 << 20

// RequestSizeLimit rejects bodies over 1 MiB and enforces a JSON
// content type on requests carrying a body.
func RequestSizeLimit() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBodyBytes {
				writeError(w, r, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds 1 MiB")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			if r.Method == http.MethodPost {
				if ct := r.Header.Get("Content-Type"); ct != "" && ct != "application/json" {
					writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Content-Type must be application/json")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit rejects requests once the guard denies the caller: the
// shared Redis counter when one is configured, otherwise the per-IP
// token bucket.
func RateLimit(guard *ratelimit.Guard, collector *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := guard.Allow(r.Context(), ratelimit.ClientKey(r))
			w.Header().Set("X-RateLimit-Limit", fmt.Sprint(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprint(res.Remaining))
			if !res.Allowed {
				if collector != nil {
					collector.RecordRateLimitRejection()
				}
				retryAfter := res.RetryIn
				if retryAfter <= 0 {
					retryAfter = time.Second
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
				writeJSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "rate limit exceeded", retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
