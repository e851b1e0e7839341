// Package httpserver owns the http.Server construction so every
// deployment runs with the same timeout envelope.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server for the given address and handler. Per-request
// deadlines come from the Timeout middleware; the timeouts here bound
// slow clients at the connection level.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
