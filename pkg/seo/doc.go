// Package seo derives page metadata from the common message document.
//
// A [Generator] produces the title, description, canonical URL, hreflang
// alternates and OpenGraph tags of a localized page, the sitemap covering
// every locale and route, and the web app manifest.
//
//	gen := seo.NewGenerator(store, locale.Default(), seo.WithBaseURL(cfg.BaseURL))
//	meta := gen.PageMetadata(ctx, "pl", "/contact", "Kontakt")
//	// meta.Title == "Kontakt - GrandDom"
//	// meta.Alternates has one entry per supported locale
//
// Missing seo fields fall back to [DefaultTitle] and [DefaultDescription].
package seo
