// Package locale defines the supported site locales and the URL convention
// that carries them.
//
// Every user-facing path starts with "/<locale>". A [Registry] holds the
// closed set of supported codes and the default one; it resolves the locale
// of a path, rewrites a path for a different locale and negotiates a locale
// from an Accept-Language header.
//
//	reg := locale.Default()      // pl (default), ua, en
//	reg.Resolve("/ua/contact")   // "ua"
//	reg.Resolve("/xx/contact")   // "pl"
//	reg.Switch("/ua/contact", "en") // "/en/contact"
//
// Only the first path segment is treated as a locale. A path such as
// "/en/pl/offer" resolves to "en" and keeps "/pl/offer" as its remainder.
package locale
