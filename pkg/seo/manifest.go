package seo

import (
	"context"

	"github.com/granddom/site/pkg/messages"
)

// Icon is a web manifest icon.
type Icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest is the web app manifest served at /manifest.webmanifest.
type Manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	BackgroundColor string `json:"background_color"`
	ThemeColor      string `json:"theme_color"`
	Icons           []Icon `json:"icons"`
}

// Manifest builds the web manifest from the default locale's common document.
func (g *Generator) Manifest(ctx context.Context) Manifest {
	doc := g.store.Messages(ctx, g.locales.DefaultLocale(), commonNamespace)

	short := nonEmpty(messages.GetString(doc, messages.P("brand", "name"), ""), g.title)

	return Manifest{
		Name:            nonEmpty(messages.GetString(doc, messages.P("manifest", "name"), ""), short+" - "+g.description),
		ShortName:       short,
		Description:     nonEmpty(messages.GetString(doc, messages.P("hero", "subheading"), ""), g.description),
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      "#000000",
		Icons: []Icon{
			{Src: "/icon-192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/icon-512.png", Sizes: "512x512", Type: "image/png"},
		},
	}
}
