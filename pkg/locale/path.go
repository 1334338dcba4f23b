package locale

import "strings"

// Split separates a locale prefix from a path.
// The locale is the first segment after the leading "/" when it is followed
// by another "/" or the end of the path and is a supported code. Only the
// first segment is inspected, so "/en/pl/x" yields ("en", "/pl/x", true).
// When no supported prefix is present, rest is the path itself.
func (r *Registry) Split(path string) (code, rest string, ok bool) {
	trimmed, hadSlash := strings.CutPrefix(path, "/")
	if !hadSlash {
		return "", path, false
	}

	first, remainder, found := strings.Cut(trimmed, "/")
	if !r.IsValid(first) {
		return "", path, false
	}
	if found {
		return first, "/" + remainder, true
	}
	return first, "", true
}

// Resolve returns the locale encoded at the start of path, or the default
// locale when the path carries no supported prefix.
func (r *Registry) Resolve(path string) string {
	if code, _, ok := r.Split(path); ok {
		return code
	}
	return r.def
}

// Switch returns the equivalent of path under the target locale.
// A recognized locale prefix is replaced; otherwise the target is prepended.
// The non-locale remainder is kept verbatim apart from collapsing its
// leading separators to one, so switching A -> B -> A restores the path.
func (r *Registry) Switch(path, target string) string {
	_, rest, ok := r.Split(path)
	if !ok && rest == "/" {
		rest = ""
	}
	return "/" + target + normalizeRest(rest)
}

// Prefix returns the locale-prefixed form of a locale-free page path:
// Prefix("pl", "/contact") is "/pl/contact", Prefix("pl", "") is "/pl".
func Prefix(code, path string) string {
	return "/" + code + normalizeRest(path)
}

func normalizeRest(rest string) string {
	if rest == "" {
		return ""
	}
	return "/" + strings.TrimLeft(rest, "/")
}
