package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/granddom/site/internal/server"
	"github.com/granddom/site/internal/web"
	"github.com/granddom/site/locales"
	"github.com/granddom/site/pkg/contact"
	"github.com/granddom/site/pkg/locale"
	"github.com/granddom/site/pkg/logger"
	"github.com/granddom/site/pkg/messages"
	"github.com/granddom/site/pkg/seo"
)

func newSite(buf *bytes.Buffer, opts ...web.Option) http.Handler {
	log := logger.NewWriter(buf, server.RequestIDExtractor(), web.LocaleExtractor())
	reg := locale.Default()
	store := messages.NewStore(messages.NewFSSource(locales.FS),
		messages.WithLocales(reg.Locales()...),
		messages.WithLogger(log),
	)
	h := web.New(store, reg, seo.NewGenerator(store, reg),
		append([]web.Option{web.WithLogger(log)}, opts...)...,
	)
	return server.New(
		server.WithLogger(log),
		server.WithErrorHandler(h.HandleError),
		server.WithHandlers(h),
	).Handler()
}

func get(h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Redirect(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newSite(&buf)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", header: "", want: "/pl"},
		{name: "english", header: "en-US,en;q=0.9", want: "/en"},
		{name: "ukrainian", header: "uk-UA,uk;q=0.9,en;q=0.5", want: "/ua"},
		{name: "unsupported", header: "fr-FR", want: "/pl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, "/", "Accept-Language", tt.header)
			require.Equal(t, http.StatusFound, rec.Code)
			require.Equal(t, tt.want, rec.Header().Get("Location"))
			require.Contains(t, rec.Header().Values("Vary"), "Accept-Language")
		})
	}
}

func TestHandler_Landing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newSite(&buf)

	t.Run("polish", func(t *testing.T) {
		rec := get(h, "/pl")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Equal(t, "pl", rec.Header().Get("Content-Language"))

		body := rec.Body.String()
		require.Contains(t, body, `<html lang="pl">`)
		require.Contains(t, body, `<link rel="canonical" href="https://granddom.com/pl">`)
		require.Contains(t, body, `<link rel="alternate" hreflang="uk" href="https://granddom.com/ua">`)
		require.Contains(t, body, `<link rel="alternate" hreflang="x-default" href="https://granddom.com/pl">`)
		require.Contains(t, body, "Nasza Wizja")
		require.Contains(t, body, `href="/pl/contact"`)
	})

	t.Run("trailing slash", func(t *testing.T) {
		rec := get(h, "/en/")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `<html lang="en">`)
	})

	t.Run("ukrainian uses bcp 47 lang", func(t *testing.T) {
		rec := get(h, "/ua")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "uk", rec.Header().Get("Content-Language"))
		require.Contains(t, rec.Body.String(), `<html lang="uk">`)
	})

	t.Run("language switcher keeps the page", func(t *testing.T) {
		body := get(h, "/pl/contact").Body.String()
		require.Contains(t, body, `href="/en/contact"`)
		require.Contains(t, body, `href="/ua/contact"`)
		require.Contains(t, body, `aria-current="true">`)
	})
}

func TestHandler_NotFound(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newSite(&buf)

	t.Run("unknown locale", func(t *testing.T) {
		rec := get(h, "/xx")
		require.Equal(t, http.StatusNotFound, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, "Nie znaleziono strony")
		require.Contains(t, body, `<meta name="robots" content="noindex">`)
	})

	t.Run("unknown locale with page", func(t *testing.T) {
		rec := get(h, "/de/contact")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("language switcher links to home pages", func(t *testing.T) {
		body := get(h, "/xx/contact").Body.String()
		require.Contains(t, body, `href="/en"`)
		require.Contains(t, body, `href="/ua"`)
		require.NotContains(t, body, "/en/xx")
		require.NotContains(t, body, "/ua/xx")

		body = get(h, "/en/missing").Body.String()
		require.Contains(t, body, `href="/pl"`)
		require.NotContains(t, body, `href="/pl/missing"`)
	})

	t.Run("unknown page in known locale is localized", func(t *testing.T) {
		rec := get(h, "/en/missing")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "Page not found")
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/pl/contact", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func validForm() url.Values {
	return url.Values{
		contact.FieldName:     {"Jan Kowalski"},
		contact.FieldEmail:    {"Jan@Example.com"},
		contact.FieldPhone:    {"+48 886 193 598"},
		contact.FieldService:  {"sale"},
		contact.FieldBudget:   {"discuss"},
		contact.FieldTimeline: {"asap"},
		contact.FieldMessage:  {"Szukam mieszkania na Mokotowie."},
	}
}

func TestHandler_Contact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newSite(&buf)

	t.Run("renders form with localized options", func(t *testing.T) {
		rec := get(h, "/pl/contact")
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		require.Contains(t, body, "<title>Kontakt - GrandDom - Agencja Nieruchomości w Warszawie</title>")
		require.Contains(t, body, `<form method="post" action="/pl/contact" novalidate>`)
		require.Contains(t, body, `<option value="under-500k">Do 500 000 zł</option>`)
		require.Contains(t, body, `<link rel="canonical" href="https://granddom.com/pl/contact">`)
	})

	t.Run("invalid submission is 422 with messages", func(t *testing.T) {
		form := validForm()
		form.Set(contact.FieldEmail, "not-an-email")
		form.Del(contact.FieldMessage)

		rec := post(h, "/pl/contact", form)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := rec.Body.String()
		require.Contains(t, body, "To pole jest wymagane.")
		require.Contains(t, body, "Nieprawidłowa wartość.")
		require.Contains(t, body, `value="Jan Kowalski"`)
		require.Contains(t, body, `<option value="sale" selected>`)
	})

	t.Run("unlisted option is rejected", func(t *testing.T) {
		form := validForm()
		form.Set(contact.FieldBudget, "50k+")
		rec := post(h, "/pl/contact", form)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("markup is stripped before validation", func(t *testing.T) {
		form := validForm()
		form.Set(contact.FieldName, "<script>alert(1)</script>")
		rec := post(h, "/en/contact", form)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotContains(t, rec.Body.String(), "<script>alert")
	})

	t.Run("valid submission shows reference", func(t *testing.T) {
		rec := post(h, "/pl/contact", validForm())
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		require.Contains(t, body, "Dziękujemy!")
		require.Contains(t, body, "Numer zgłoszenia")
		require.NotContains(t, body, "<form")
		require.Contains(t, buf.String(), `"msg":"contact form submitted"`)
		require.Contains(t, buf.String(), `"email_domain":"example.com"`)
	})

	t.Run("oversized body", func(t *testing.T) {
		small := newSite(&bytes.Buffer{}, web.WithMaxFormBytes(16))
		rec := post(small, "/pl/contact", validForm())
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

type failingSubmitter struct{ err error }

func (f failingSubmitter) Submit(context.Context, string, contact.Form) (contact.Submission, error) {
	return contact.Submission{}, f.err
}

func TestHandler_SubmitFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newSite(&buf, web.WithSubmitter(failingSubmitter{err: errors.New("mailbox unavailable")}))

	rec := post(h, "/ua/contact", validForm())
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `<html lang="uk">`)
	require.Contains(t, buf.String(), "mailbox unavailable")
	require.Contains(t, buf.String(), `"locale":"ua"`)
}

func TestHandler_Sitemap(t *testing.T) {
	t.Parallel()

	rec := get(newSite(&bytes.Buffer{}), "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	require.Equal(t, 6, strings.Count(body, "<url>"))
	require.Contains(t, body, "<loc>https://granddom.com/ua/contact</loc>")
	require.Contains(t, body, `hreflang="uk"`)
}

func TestHandler_Manifest(t *testing.T) {
	t.Parallel()

	rec := get(newSite(&bytes.Buffer{}), "/manifest.webmanifest")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/manifest+json", rec.Header().Get("Content-Type"))

	var m seo.Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	require.Equal(t, "GrandDom", m.ShortName)
	require.Equal(t, "/", m.StartURL)
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	t.Run("live", func(t *testing.T) {
		rec := get(newSite(&bytes.Buffer{}), "/health/live")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ready reports failing checks", func(t *testing.T) {
		h := newSite(&bytes.Buffer{}, web.WithCheck("redis", func(context.Context) error {
			return errors.New("connection refused")
		}))
		rec := get(h, "/health/ready?format=json")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "connection refused")
	})

	t.Run("ready without checks", func(t *testing.T) {
		rec := get(newSite(&bytes.Buffer{}), "/health/ready")
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLocaleFromContext(t *testing.T) {
	t.Parallel()

	_, ok := web.LocaleFromContext(context.Background())
	require.False(t, ok)

	code, ok := web.LocaleFromContext(web.WithLocale(context.Background(), "ua"))
	require.True(t, ok)
	require.Equal(t, "ua", code)
}
