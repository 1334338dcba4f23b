// Package web serves the localized site: the locale redirect, the landing
// and contact pages, the sitemap, the web manifest and health probes.
package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/granddom/site/internal/server"
	"github.com/granddom/site/pkg/contact"
	"github.com/granddom/site/pkg/health"
	"github.com/granddom/site/pkg/locale"
	"github.com/granddom/site/pkg/logger"
	"github.com/granddom/site/pkg/messages"
	"github.com/granddom/site/pkg/seo"
)

// Message namespaces used by the pages.
const (
	NamespaceCommon  = "common"
	NamespaceContact = "contact"
)

// Page paths without locale prefix.
const (
	PathLanding = ""
	PathContact = "/contact"
)

// DefaultMaxFormBytes bounds the contact form body.
const DefaultMaxFormBytes = 64 << 10

// SitemapRoutes are the pages listed in the sitemap.
var SitemapRoutes = []seo.Route{{Path: PathLanding}, {Path: PathContact}}

// MessageStore resolves message documents.
type MessageStore interface {
	Messages(ctx context.Context, locale, namespace string) *messages.Document
}

// Handler serves the site pages.
type Handler struct {
	store        MessageStore
	locales      *locale.Registry
	seo          *seo.Generator
	submitter    contact.Submitter
	logger       *slog.Logger
	checks       health.Checks
	maxFormBytes int64
	now          func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithSubmitter sets the contact form receiver. Default: a LogSubmitter.
func WithSubmitter(s contact.Submitter) Option {
	return func(h *Handler) {
		if s != nil {
			h.submitter = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithCheck adds a readiness check.
func WithCheck(name string, fn health.CheckFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.checks[name] = fn
		}
	}
}

// WithMaxFormBytes bounds the contact form body. Default: 64 KiB.
func WithMaxFormBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxFormBytes = n
		}
	}
}

// New creates the site handler.
func New(store MessageStore, locales *locale.Registry, gen *seo.Generator, opts ...Option) *Handler {
	h := &Handler{
		store:        store,
		locales:      locales,
		seo:          gen,
		logger:       logger.NewNope(),
		checks:       make(health.Checks),
		maxFormBytes: DefaultMaxFormBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.submitter == nil {
		h.submitter = contact.NewLogSubmitter(h.logger)
	}
	return h
}

// Routes registers the site routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.redirect)
	r.Get("/sitemap.xml", h.wrap(h.sitemap))
	r.Get("/manifest.webmanifest", h.wrap(h.manifest))
	r.Get("/health/live", health.Live())
	r.Get("/health/ready", health.Ready(h.checks, health.WithLogger(h.logger)))

	r.Route("/{locale}", func(r chi.Router) {
		r.Use(h.requireLocale)
		r.Get("/", h.wrap(h.landing))
		r.Get(PathContact, h.wrap(h.contactForm))
		r.Post(PathContact, h.wrap(h.contactSubmit))
	})
}

func (h *Handler) wrap(fn server.HandlerFunc) http.HandlerFunc {
	return server.Wrap(fn, h.HandleError)
}

type localeKey struct{}

// WithLocale stores the request locale in ctx.
func WithLocale(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, localeKey{}, code)
}

// LocaleFromContext returns the locale stored by WithLocale.
func LocaleFromContext(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(localeKey{}).(string)
	return code, ok && code != ""
}

// LocaleExtractor adds locale to log records of localized requests.
func LocaleExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if code, ok := LocaleFromContext(ctx); ok {
			return slog.String("locale", code), true
		}
		return slog.Attr{}, false
	}
}

// requireLocale answers 404 for unsupported locale prefixes.
func (h *Handler) requireLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "locale")
		if !h.locales.IsValid(code) {
			h.HandleError(w, r, server.ErrNotFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), code)))
	})
}

func (h *Handler) localeOf(r *http.Request) string {
	if code, ok := LocaleFromContext(r.Context()); ok {
		return code
	}
	return h.locales.Resolve(r.URL.Path)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request) {
	code := h.locales.Negotiate(r.Header.Get("Accept-Language"))
	w.Header().Add("Vary", "Accept-Language")
	http.Redirect(w, r, locale.Prefix(code, PathLanding), http.StatusFound)
}

func (h *Handler) sitemap(w http.ResponseWriter, _ *http.Request) error {
	var buf bytes.Buffer
	if err := h.seo.Sitemap(SitemapRoutes).WriteXML(&buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

func (h *Handler) manifest(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, "application/manifest+json", h.seo.Manifest(r.Context()))
}

func (h *Handler) landing(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	code := h.localeOf(r)
	doc := h.store.Messages(ctx, code, NamespaceCommon)

	page := newLandingPage(doc, locale.Prefix(code, PathContact))
	return h.render(w, r, http.StatusOK, viewLanding, h.layout(r, code, PathLanding, "", page))
}

func (h *Handler) contactForm(w http.ResponseWriter, r *http.Request) error {
	return h.renderContact(w, r, http.StatusOK, contact.Form{}, nil, nil)
}

func (h *Handler) contactSubmit(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	code := h.localeOf(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &server.HTTPError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return &server.HTTPError{Code: http.StatusBadRequest, Err: err}
	}

	form := contact.Parse(r.PostForm)
	selects := contact.Options(h.store.Messages(ctx, code, NamespaceContact))

	var verr *contact.ValidationError
	if err := selects.Validate(form); err != nil {
		if errors.As(err, &verr) {
			return h.renderContact(w, r, http.StatusUnprocessableEntity, form, verr, nil)
		}
		return err
	}

	sub, err := h.submitter.Submit(ctx, code, form)
	if err != nil {
		if errors.As(err, &verr) {
			return h.renderContact(w, r, http.StatusUnprocessableEntity, form, verr, nil)
		}
		return err
	}
	return h.renderContact(w, r, http.StatusOK, contact.Form{}, nil, &sub)
}

func (h *Handler) renderContact(w http.ResponseWriter, r *http.Request, status int, f contact.Form, verr *contact.ValidationError, sub *contact.Submission) error {
	ctx := r.Context()
	code := h.localeOf(r)
	doc := h.store.Messages(ctx, code, NamespaceContact)

	page := newContactPage(doc, contact.Options(doc), f, verr,
		locale.Prefix(code, PathLanding), locale.Prefix(code, PathContact))
	if sub != nil {
		page.Submitted = true
		page.Reference = sub.Reference
	}

	title := messages.GetString(doc, messages.P("seo", "title"), page.Title)
	return h.render(w, r, status, viewContact, h.layout(r, code, PathContact, title, page))
}

type errorPage struct {
	Status     int
	Title      string
	Text       string
	BackToHome string
	HomeURL    string
}

// HandleError renders err as a localized error page. It is the site's
// server.ErrorHandler.
func (h *Handler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := server.StatusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	code := h.localeOf(r)
	t := texts{h.store.Messages(ctx, code, NamespaceCommon)}

	page := errorPage{
		Status:     status,
		Title:      http.StatusText(status),
		BackToHome: t.str("Back to Home", "errors", "backToHome"),
		HomeURL:    locale.Prefix(code, PathLanding),
	}
	switch {
	case status == http.StatusNotFound:
		page.Title = t.str("Page not found", "errors", "notFound", "title")
		page.Text = t.str("The page you are looking for does not exist.", "errors", "notFound", "text")
	case status >= http.StatusInternalServerError:
		page.Title = t.str("Something went wrong", "errors", "server", "title")
		page.Text = t.str("Please try again in a moment.", "errors", "server", "text")
	}

	data := h.layout(r, code, PathLanding, page.Title, page)
	data.NoIndex = true
	// The failed path may not exist in any locale, so switch to home pages.
	data.Languages = newLanguageLinks(t.doc, h.locales.Locales(), code, func(target string) string {
		return locale.Prefix(target, PathLanding)
	})
	if rerr := h.render(w, r, status, viewError, data); rerr != nil {
		h.logger.ErrorContext(ctx, "render error page", slog.String("error", rerr.Error()))
		http.Error(w, http.StatusText(status), status)
	}
}
