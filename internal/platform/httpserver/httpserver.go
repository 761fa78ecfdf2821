// Package httpserver constructs the API server with timeouts suitable for a
// small JSON API. Request bodies are tiny (questionnaires cap out well under
// a megabyte), so the limits here are deliberately tight.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server. Shutdown is driven by the caller.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
}
