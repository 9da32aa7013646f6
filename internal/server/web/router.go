package web

import (
	"net/http"

	"github.com/dmitrijs2005/protodrive/internal/logging"
)

// jsonBodyLimit caps every non-upload request body.
const jsonBodyLimit = 1 << 20

// NewRouter builds the route table. secret validates bearer tokens and
// maxUpload caps the upload body in bytes.
func NewRouter(h *Handlers, secret []byte, maxUpload int64, logger logging.Logger) http.Handler {
	mux := http.NewServeMux()
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(secret, next)
	}
	small := func(next http.HandlerFunc) http.HandlerFunc {
		return limitBody(jsonBodyLimit, next)
	}

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("POST /auth/register", small(h.Register))
	mux.HandleFunc("POST /auth/login", small(h.Login))

	mux.HandleFunc("GET /config", authed(h.GetConfig))
	mux.HandleFunc("PUT /config", authed(small(h.UpdateConfig)))
	mux.HandleFunc("PUT /config/sort", authed(small(h.UpdateSort)))

	mux.HandleFunc("GET /folder", authed(h.FolderByPath))
	mux.HandleFunc("GET /folder/{id}", authed(h.FolderByID))
	mux.HandleFunc("POST /folder", authed(small(h.CreateFolder)))

	mux.HandleFunc("POST /upload", authed(limitBody(maxUpload, h.Upload)))
	mux.HandleFunc("GET /download/{id}", authed(h.Download))

	return withLogging(logger.With("module", "http"), mux)
}
