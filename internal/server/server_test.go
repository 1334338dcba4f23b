package server_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/granddom/site/internal/server"
	"github.com/granddom/site/pkg/logger"
)

type routes func(r chi.Router)

func (f routes) Routes(r chi.Router) { f(r) }

func newServer(buf *bytes.Buffer, fn func(eh server.ErrorHandler) routes) *server.Server {
	log := logger.NewWriter(buf, server.RequestIDExtractor())
	return server.New(
		server.WithLogger(log),
		server.WithHandlers(fn(server.DefaultErrorHandler(log))),
	)
}

func TestServer_Middleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := newServer(&buf, func(eh server.ErrorHandler) routes {
		return func(r chi.Router) {
			r.Get("/ok", server.Wrap(func(w http.ResponseWriter, r *http.Request) error {
				_, err := w.Write([]byte(server.GetRequestID(r.Context())))
				return err
			}, eh))
			r.Get("/fail", server.Wrap(func(http.ResponseWriter, *http.Request) error {
				return errors.New("boom")
			}, eh))
			r.Get("/gone", server.Wrap(func(http.ResponseWriter, *http.Request) error {
				return &server.HTTPError{Code: http.StatusGone}
			}, eh))
			r.Get("/panic", func(http.ResponseWriter, *http.Request) {
				panic("kaboom")
			})
		}
	})
	h := s.Handler()

	t.Run("generates request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		id := rec.Header().Get(server.RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.Equal(t, id, rec.Body.String())
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(server.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, "abc-123", rec.Body.String())
		require.Contains(t, buf.String(), `"request_id":"abc-123"`)
	})

	t.Run("handler error renders 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, buf.String(), `"error":"boom"`)
	})

	t.Run("http error keeps its status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gone", nil))
		require.Equal(t, http.StatusGone, rec.Code)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, buf.String(), "panic recovered")
	})

	t.Run("unknown route is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong method is 405", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ok", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusNotFound, server.StatusCode(server.ErrNotFound))
	require.Equal(t, http.StatusBadRequest, server.StatusCode(errors.Join(errors.New("x"), server.ErrBadRequest)))
	require.Equal(t, http.StatusInternalServerError, server.StatusCode(errors.New("x")))
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	hookRan := make(chan struct{})
	s := server.New(server.WithShutdownHook(func(context.Context) error {
		close(hookRan)
		return nil
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/missing")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-hookRan
}
