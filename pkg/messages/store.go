package messages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/granddom/site/pkg/cache"
	"github.com/granddom/site/pkg/logger"
)

// DefaultLocale is the fallback locale used when none is configured.
const DefaultLocale = "pl"

// Store resolves message documents through a Source and memoizes them in
// its cache for the process lifetime. It never fails: load errors fall back
// to the default locale, then to an empty document.
type Store struct {
	source        Source
	loader        *cache.Loader[*Document]
	logger        *slog.Logger
	defaultLocale string
	locales       []string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDefaultLocale sets the locale retried when a load fails.
func WithDefaultLocale(code string) StoreOption {
	return func(s *Store) {
		if code != "" {
			s.defaultLocale = code
		}
	}
}

// WithLocales sets the locales warmed by Preload.
func WithLocales(codes ...string) StoreOption {
	return func(s *Store) {
		s.locales = codes
	}
}

// WithCache sets the document cache. The store owns it from then on.
func WithCache(c cache.Cache[*Document]) StoreOption {
	return func(s *Store) {
		if c != nil {
			s.loader = cache.NewLoader(c)
		}
	}
}

// WithLogger sets the logger used to report load failures.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store reading from src. Without WithCache an unbounded
// in-memory cache is used.
func NewStore(src Source, opts ...StoreOption) *Store {
	s := &Store{
		source:        src,
		logger:        logger.NewNope(),
		defaultLocale: DefaultLocale,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = cache.NewLoader[*Document](cache.NewMemory[*Document](
			cache.WithDefaultTTL(-1),
			cache.WithCleanupInterval(0),
		))
	}
	if len(s.locales) == 0 {
		s.locales = []string{s.defaultLocale}
	}
	return s
}

// DefaultLocale returns the fallback locale.
func (s *Store) DefaultLocale() string {
	return s.defaultLocale
}

// Messages returns the document for (locale, namespace).
//
// A cached document is returned without I/O. Otherwise the source is read
// once; on success the document is cached forever. On failure the store
// retries with the default locale when locale differs from it, and returns
// an empty document when the default itself cannot be loaded. Failures are
// logged and never cached.
func (s *Store) Messages(ctx context.Context, locale, namespace string) *Document {
	doc, err := s.load(ctx, locale, namespace)
	if err == nil {
		return doc
	}

	s.logger.WarnContext(ctx, "failed to load messages",
		slog.String("locale", locale),
		slog.String("namespace", namespace),
		slog.String("error", err.Error()),
	)

	if locale != s.defaultLocale {
		return s.Messages(ctx, s.defaultLocale, namespace)
	}
	return Empty()
}

// Preload loads every configured locale for the given namespaces and
// returns the joined load errors. Documents that load are cached.
func (s *Store) Preload(ctx context.Context, namespaces ...string) error {
	var errs []error
	for _, code := range s.locales {
		for _, ns := range namespaces {
			if _, err := s.load(ctx, code, ns); err != nil {
				errs = append(errs, fmt.Errorf("%s/%s: %w", code, ns, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Healthcheck returns a check that loads (default locale, namespace) from
// the source, bypassing the cache.
func (s *Store) Healthcheck(namespace string) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.source.Load(ctx, s.defaultLocale, namespace)
		return err
	}
}

func (s *Store) load(ctx context.Context, locale, namespace string) (*Document, error) {
	return s.loader.GetOrLoad(ctx, cacheKey(locale, namespace), func(ctx context.Context) (*Document, time.Duration, error) {
		doc, err := s.source.Load(ctx, locale, namespace)
		if err != nil {
			return nil, 0, err
		}
		if doc == nil {
			doc = Empty()
		}
		return doc, -1, nil
	})
}

func cacheKey(locale, namespace string) string {
	return locale + "-" + namespace
}
