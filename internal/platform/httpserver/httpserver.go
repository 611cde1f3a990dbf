package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"drainadopt/internal/platform/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 120 * time.Second
	// uploadGrace covers image bodies that outlive the handler timeout on the wire.
	uploadGrace = 15 * time.Second
)

// New builds the API server. Write and read deadlines follow the request
// timeout so the router's Timeout middleware fires before the connection is cut.
func New(ctx context.Context, cfg config.Server, handler http.Handler) *http.Server {
	deadline := cfg.RequestTimeout + uploadGrace
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       deadline,
		WriteTimeout:      deadline,
		IdleTimeout:       idleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}
}
