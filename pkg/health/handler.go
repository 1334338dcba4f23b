package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Live always answers 200 while the process serves requests.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(w, r, Report{Status: StatusUp})
	}
}

// Ready runs checks on every request and answers 503 when any fails.
func Ready(checks Checks, opts ...Option) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(w, r, Run(r.Context(), checks, opts...))
	}
}

func write(w http.ResponseWriter, r *http.Request, rep Report) {
	code := http.StatusOK
	if !rep.Up() {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-store")

	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(rep)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(http.StatusText(code)))
}
