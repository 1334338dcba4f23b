package seo

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/granddom/site/pkg/locale"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

// Change frequencies used by the sitemap.
const (
	ChangeDaily   = "daily"
	ChangeMonthly = "monthly"
)

// Route is a page path without locale prefix. The landing page is "".
// Zero ChangeFreq and Priority are derived from the path: the landing page
// is daily at 1.0, everything else monthly at 0.8.
type Route struct {
	Path       string
	ChangeFreq string
	Priority   float64
}

// URLSet is the sitemap document.
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   string  `xml:"priority,omitempty"`
	Links      []XLink `xml:"xhtml:link"`
}

// XLink is an xhtml:link hreflang alternate. Hreflang is the BCP 47 tag
// ("uk" for the "ua" locale).
type XLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap lists every route in every supported locale.
func (g *Generator) Sitemap(routes []Route) URLSet {
	lastMod := g.now().UTC().Format("2006-01-02")
	codes := g.locales.Locales()

	set := URLSet{
		Xmlns: sitemapNS,
		XHTML: xhtmlNS,
		URLs:  make([]SitemapURL, 0, len(codes)*len(routes)),
	}

	for _, code := range codes {
		for _, r := range routes {
			freq, prio := r.ChangeFreq, r.Priority
			root := normalizePath(r.Path) == ""
			if freq == "" {
				freq = ChangeMonthly
				if root {
					freq = ChangeDaily
				}
			}
			if prio == 0 {
				prio = 0.8
				if root {
					prio = 1.0
				}
			}

			alts := g.Alternates(r.Path)
			links := make([]XLink, 0, len(alts))
			for _, a := range alts {
				links = append(links, XLink{Rel: "alternate", Hreflang: locale.LanguageTag(a.Locale), Href: a.URL})
			}

			set.URLs = append(set.URLs, SitemapURL{
				Loc:        g.URL(code, r.Path),
				LastMod:    lastMod,
				ChangeFreq: freq,
				Priority:   strconv.FormatFloat(prio, 'f', 1, 64),
				Links:      links,
			})
		}
	}
	return set
}

// WriteXML writes the sitemap with an XML header.
func (s URLSet) WriteXML(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
