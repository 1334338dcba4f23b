// Package locales embeds the site message files, laid out as
// {locale}/{namespace}.json.
package locales

import "embed"

// FS holds every message file.
//
//go:embed */*.json
var FS embed.FS
