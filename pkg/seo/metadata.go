package seo

import (
	"context"
	"strings"
	"time"

	"github.com/granddom/site/pkg/messages"
)

const (
	// DefaultBaseURL is the public origin used for canonical links.
	DefaultBaseURL = "https://granddom.com"
	// DefaultTitle is used when the common document has no seo.title.
	DefaultTitle = "GrandDom"
	// DefaultDescription is used when the common document has no seo.description.
	DefaultDescription = "Excellence in Every Domain"

	commonNamespace = "common"
)

// MessageStore resolves message documents. *messages.Store implements it.
type MessageStore interface {
	Messages(ctx context.Context, locale, namespace string) *messages.Document
}

// Locales lists the supported locales. *locale.Registry implements it.
type Locales interface {
	Locales() []string
	DefaultLocale() string
}

// Alternate is one hreflang link.
type Alternate struct {
	Locale string
	URL    string
}

// OpenGraph holds the og:* tags of a page.
type OpenGraph struct {
	Title       string
	Description string
	Locale      string
	Type        string
	URL         string
}

// Metadata is the SEO head data of a localized page.
type Metadata struct {
	Title       string
	Description string
	Canonical   string
	Alternates  []Alternate
	OpenGraph   OpenGraph
}

// Languages returns the alternates as a locale to URL map.
func (m Metadata) Languages() map[string]string {
	out := make(map[string]string, len(m.Alternates))
	for _, a := range m.Alternates {
		out[a.Locale] = a.URL
	}
	return out
}

// Generator builds page metadata, sitemaps and the web manifest from the
// common message document.
type Generator struct {
	store       MessageStore
	locales     Locales
	now         func() time.Time
	baseURL     string
	title       string
	description string
}

// Option configures a Generator.
type Option func(*Generator)

// WithBaseURL sets the public origin. A trailing slash is dropped.
func WithBaseURL(u string) Option {
	return func(g *Generator) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			g.baseURL = u
		}
	}
}

// WithDefaults sets the title and description used when the common
// document does not provide them.
func WithDefaults(title, description string) Option {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
		if description != "" {
			g.description = description
		}
	}
}

// WithClock sets the time source for sitemap lastmod values.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator creates a metadata generator.
func NewGenerator(store MessageStore, locales Locales, opts ...Option) *Generator {
	g := &Generator{
		store:       store,
		locales:     locales,
		now:         time.Now,
		baseURL:     DefaultBaseURL,
		title:       DefaultTitle,
		description: DefaultDescription,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BaseURL returns the configured public origin.
func (g *Generator) BaseURL() string {
	return g.baseURL
}

// PageMetadata returns the metadata of path (without locale prefix, e.g.
// "/contact" or "" for the landing page) in the given locale.
// With a non-empty customTitle the title reads "customTitle - base title".
func (g *Generator) PageMetadata(ctx context.Context, locale, path, customTitle string) Metadata {
	doc := g.store.Messages(ctx, locale, commonNamespace)

	base := nonEmpty(messages.GetString(doc, messages.P("seo", "title"), ""), g.title)
	description := nonEmpty(messages.GetString(doc, messages.P("seo", "description"), ""), g.description)

	title := base
	if customTitle != "" {
		title = customTitle + " - " + base
	}

	canonical := g.URL(locale, path)

	return Metadata{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Alternates:  g.Alternates(path),
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			Locale:      locale,
			Type:        "website",
			URL:         canonical,
		},
	}
}

// Alternates returns one link per supported locale, in registry order.
func (g *Generator) Alternates(path string) []Alternate {
	codes := g.locales.Locales()
	out := make([]Alternate, 0, len(codes))
	for _, code := range codes {
		out = append(out, Alternate{Locale: code, URL: g.URL(code, path)})
	}
	return out
}

// URL returns the absolute URL of path in locale.
func (g *Generator) URL(locale, path string) string {
	return g.baseURL + "/" + locale + normalizePath(path)
}

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
