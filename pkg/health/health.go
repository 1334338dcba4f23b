// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.Live())
//	r.Get("/health/ready", health.Ready(health.Checks{
//	    "messages": store.Healthcheck("common"),
//	    "redis":    redis.Healthcheck(client),
//	}))
//
// Probes answer plain text by default and JSON for Accept: application/json
// or ?format=json.
package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/granddom/site/pkg/logger"
)

const (
	// StatusUp means every check passed.
	StatusUp = "up"
	// StatusDown means at least one check failed.
	StatusDown = "down"

	defaultTimeout = 3 * time.Second
)

// ErrTimeout is reported for a check that did not finish in time.
var ErrTimeout = errors.New("health: check timed out")

// CheckFunc reports a dependency failure.
type CheckFunc func(ctx context.Context) error

// Checks maps names to checks.
type Checks map[string]CheckFunc

// Result is the outcome of one check.
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates check results.
type Report struct {
	Checks map[string]Result `json:"checks,omitempty"`
	Status string            `json:"status"`
}

// Up reports whether every check passed.
func (r Report) Up() bool {
	return r.Status == StatusUp
}

type settings struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures the readiness probe.
type Option func(*settings)

// WithTimeout bounds the whole check run. Default: 3 seconds.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger for failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// Run executes checks concurrently under one timeout.
func Run(ctx context.Context, checks Checks, opts ...Option) Report {
	s := &settings{logger: logger.NewNope(), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	if len(checks) == 0 {
		return Report{Status: StatusUp}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]Result, len(checks))
		status  = StatusUp
	)

	for name, check := range checks {
		g.Go(func() error {
			err := check(ctx)
			if err == nil && ctx.Err() != nil {
				err = ErrTimeout
			}

			res := Result{Status: StatusUp}
			if err != nil {
				res = Result{Status: StatusDown, Error: err.Error()}
				s.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			results[name] = res
			if err != nil {
				status = StatusDown
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return Report{Status: status, Checks: results}
}
