package server

import (
	"errors"
	"log/slog"
	"net/http"
)

// HTTPError carries a status code to the error handler.
type HTTPError struct {
	Err  error
	Code int
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

var (
	ErrNotFound         = &HTTPError{Code: http.StatusNotFound}
	ErrMethodNotAllowed = &HTTPError{Code: http.StatusMethodNotAllowed}
	ErrBadRequest       = &HTTPError{Code: http.StatusBadRequest}
)

// StatusCode returns the status carried by err, or 500.
func StatusCode(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) && herr.Code > 0 {
		return herr.Code
	}
	return http.StatusInternalServerError
}

// DefaultErrorHandler writes the status text as plain text. Server errors
// are logged.
func DefaultErrorHandler(l *slog.Logger) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		code := StatusCode(err)
		if code >= http.StatusInternalServerError {
			l.ErrorContext(r.Context(), "request failed",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
		}
		http.Error(w, http.StatusText(code), code)
	}
}
