package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/granddom/site/pkg/contact"
	"github.com/granddom/site/pkg/locale"
	"github.com/granddom/site/pkg/seo"
)

const (
	viewLanding = "landing"
	viewContact = "contact"
	viewError   = "error"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = parseViews(viewLanding, viewContact, viewError)

type inputView struct {
	Field fieldView
	Type  string
}

type choiceView struct {
	Field   fieldView
	Options []contact.Option
	Prompt  string
}

var funcs = template.FuncMap{
	"status": strconv.Itoa,
	"field": func(f fieldView, typ string) inputView {
		return inputView{Field: f, Type: typ}
	},
	"choice": func(s selectView, prompt string) choiceView {
		return choiceView{Field: s.fieldView, Options: s.Options, Prompt: prompt}
	},
}

// parseViews builds one template set per page, each with the shared layout.
func parseViews(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		))
	}
	return out
}

type hreflang struct {
	Lang string
	URL  string
}

type layoutData struct {
	Lang          string
	Locale        string
	Meta          seo.Metadata
	Hreflang      []hreflang
	XDefault      string
	NoIndex       bool
	Brand         string
	Tagline       string
	FooterTagline string
	HomeURL       string
	ContactURL    string
	ContactLabel  string
	LanguageLabel string
	Languages     []languageLink
	Year          int
	Page          any
}

// layout assembles the shared page frame for the locale-free page path.
func (h *Handler) layout(r *http.Request, code, path, title string, page any) layoutData {
	ctx := r.Context()
	doc := h.store.Messages(ctx, code, NamespaceCommon)
	t := texts{doc}

	meta := h.seo.PageMetadata(ctx, code, path, title)
	links := make([]hreflang, 0, len(meta.Alternates))
	for _, a := range meta.Alternates {
		links = append(links, hreflang{Lang: locale.LanguageTag(a.Locale), URL: a.URL})
	}

	brand := t.str(seo.DefaultTitle, "brand", "name")
	return layoutData{
		Lang:          locale.LanguageTag(code),
		Locale:        code,
		Meta:          meta,
		Hreflang:      links,
		XDefault:      h.seo.URL(h.locales.DefaultLocale(), path),
		Brand:         brand,
		Tagline:       t.str("", "brand", "tagline"),
		FooterTagline: t.str(seo.DefaultDescription, "footer", "tagline"),
		HomeURL:       locale.Prefix(code, PathLanding),
		ContactURL:    locale.Prefix(code, PathContact),
		ContactLabel:  t.str("Start Working With Us", "cta", "startProject"),
		LanguageLabel: t.str("Language", "languages", "label"),
		Languages: newLanguageLinks(doc, h.locales.Locales(), code, func(target string) string {
			return h.locales.Switch(r.URL.Path, target)
		}),
		Year: h.now().Year(),
		Page: page,
	}
}

// render executes the view into a buffer so template errors never produce
// a partial response.
func (h *Handler) render(w http.ResponseWriter, _ *http.Request, status int, name string, data layoutData) error {
	var buf bytes.Buffer
	if err := views[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", data.Lang)
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func writeJSON(w http.ResponseWriter, contentType string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", contentType)
	_, err = w.Write(data)
	return err
}
