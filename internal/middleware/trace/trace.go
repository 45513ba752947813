// Package trace tags each request with an ID and logs its outcome.
package trace

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	applog "spendwise/internal/log"
)

type ctxKey struct{}

// HeaderRequestID carries the request ID in and out. An incoming value is kept.
const HeaderRequestID = "X-Request-ID"

type Middleware struct {
	logger    *applog.Logger
	extractIP func(*http.Request) string
	now       func() time.Time
}

// NewMiddleware builds the tracer. extractIP may be nil.
func NewMiddleware(logger *applog.Logger, extractIP func(*http.Request) string) *Middleware {
	if extractIP == nil {
		extractIP = func(*http.Request) string { return "" }
	}
	return &Middleware{
		logger:    logger.WithComponent(applog.ComponentHTTP),
		extractIP: extractIP,
		now:       time.Now,
	}
}

// Middleware stores the request ID and a logger bound to it in the request
// context; handlers retrieve them with GetRequestID and applog.FromContext.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := m.now()

		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = NewRequestID()
		}
		logger := m.logger.With(applog.FieldRequestID, id)
		ctx := applog.NewContext(context.WithValue(r.Context(), ctxKey{}, id), logger)
		w.Header().Set(HeaderRequestID, id)

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		elapsed := m.now().Sub(start)
		logger.Log(ctx, levelFor(rec.status), "HTTP request",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldQuery, r.URL.RawQuery,
			applog.FieldStatusCode, rec.status,
			applog.FieldBytes, rec.bytes,
			applog.FieldDuration, elapsed.Milliseconds(),
			applog.FieldDurationHuman, elapsed.String(),
			applog.FieldClientIP, m.extractIP(r),
			applog.FieldUserAgent, r.UserAgent(),
			applog.FieldSuccess, rec.status < http.StatusBadRequest)
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// recorder remembers the first status written and counts body bytes.
type recorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (rec *recorder) WriteHeader(code int) {
	if !rec.written {
		rec.status = code
		rec.written = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	rec.written = true
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

func NewRequestID() string {
	return "req_" + uuid.NewString()
}

// GetRequestID returns the ID set by Middleware, or "" outside a traced request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
