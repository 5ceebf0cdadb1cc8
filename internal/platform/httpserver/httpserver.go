// Package httpserver builds the local status server.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Option configures the server.
type Option func(*http.Server)

// WithBaseContext derives every request context from ctx, so handlers see the
// process shutting down.
func WithBaseContext(ctx context.Context) Option {
	return func(s *http.Server) {
		s.BaseContext = func(net.Listener) context.Context { return ctx }
	}
}

// New builds a server for the loopback status surface. A manual fetch holds
// its request open until the batch is submitted.
func New(addr string, handler http.Handler, opts ...Option) *http.Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
