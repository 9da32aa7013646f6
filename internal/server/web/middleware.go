package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/logging"
	"github.com/dmitrijs2005/protodrive/internal/server/auth"
	"github.com/google/uuid"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func withUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// requireAuth rejects requests without a valid bearer token and stores the
// caller's id in the request context.
func requireAuth(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r.Header.Get(common.AuthorizationHeader))
		if raw == "" {
			writeError(w, common.ErrorUnauthorized)
			return
		}
		id, err := auth.GetUserIDFromToken(raw, secret)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(withUserID(r.Context(), id)))
	}
}

func extractBearer(h string) string {
	n := len(common.BearerPrefix)
	if len(h) > n && strings.EqualFold(h[:n], common.BearerPrefix) {
		return strings.TrimSpace(h[n:])
	}
	return ""
}

func limitBody(n int64, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

// withLogging logs one line per request.
func withLogging(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"size", rec.size,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
