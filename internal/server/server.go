// Package server runs the HTTP server: a chi router with the site
// middleware stack, error-returning handlers and graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/granddom/site/pkg/logger"
)

const (
	defaultAddress           = ":8080"
	defaultShutdownTimeout   = 10 * time.Second
	defaultRequestTimeout    = 30 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
)

// HandlerFunc is a route handler. A returned error goes to the ErrorHandler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler renders an error returned by a handler.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Handler declares routes.
type Handler interface {
	Routes(r chi.Router)
}

// Server owns the router and the listener lifecycle.
type Server struct {
	router          *chi.Mux
	logger          *slog.Logger
	errorHandler    ErrorHandler
	address         string
	shutdownTimeout time.Duration
	requestTimeout  time.Duration
	shutdownHooks   []func(context.Context) error
	handlers        []Handler
	middlewares     []func(http.Handler) http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithAddress sets the listen address. Default: ":8080".
func WithAddress(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.address = addr
		}
	}
}

// WithLogger sets the logger used for requests, panics and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown. Default: 10s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithRequestTimeout sets the per-request context deadline. Default: 30s.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithShutdownHook registers a function run after the server stops
// accepting requests, in registration order.
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(s *Server) {
		if fn != nil {
			s.shutdownHooks = append(s.shutdownHooks, fn)
		}
	}
}

// WithErrorHandler replaces the default error renderer.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Server) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// WithMiddleware appends middleware after the built-in stack.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mw...)
	}
}

// WithHandlers registers route handlers.
func WithHandlers(h ...Handler) Option {
	return func(s *Server) {
		s.handlers = append(s.handlers, h...)
	}
}

// New builds the router. The built-in middleware stack is RealIP,
// RequestID, Recover, Timeout and request logging.
func New(opts ...Option) *Server {
	s := &Server{
		logger:          logger.NewNope(),
		address:         defaultAddress,
		shutdownTimeout: defaultShutdownTimeout,
		requestTimeout:  defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = DefaultErrorHandler(s.logger)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		RequestID,
		Recover(s.logger, s.errorHandler),
		middleware.Timeout(s.requestTimeout),
		RequestLogger(s.logger),
	)
	r.Use(s.middlewares...)

	r.NotFound(s.Wrap(func(http.ResponseWriter, *http.Request) error { return ErrNotFound }))
	r.MethodNotAllowed(s.Wrap(func(http.ResponseWriter, *http.Request) error { return ErrMethodNotAllowed }))

	for _, h := range s.handlers {
		h.Routes(r)
	}

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Wrap adapts h to http.HandlerFunc, routing its error to the ErrorHandler.
func (s *Server) Wrap(h HandlerFunc) http.HandlerFunc {
	return Wrap(h, s.errorHandler)
}

// Wrap adapts h to http.HandlerFunc with the given error handler.
func Wrap(h HandlerFunc, eh ErrorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			eh(w, r, err)
		}
	}
}

// Run listens on the configured address and serves until ctx is canceled or
// SIGINT/SIGTERM arrives, then shuts down gracefully and runs the hooks.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range s.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			s.logger.Error("shutdown hook failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.logger.Info("shutdown completed")
	return nil
}
