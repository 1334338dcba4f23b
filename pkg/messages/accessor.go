package messages

import "strings"

// Path is an ordered list of keys addressing a node inside a Document.
type Path []string

// P builds a Path from segments: messages.P("contact", "email", "label").
func P(segments ...string) Path {
	return Path(segments)
}

// ParsePath splits a dot-separated key ("contact.email.label") into a Path.
// Empty segments are dropped; an empty string yields an empty Path.
func ParsePath(key string) Path {
	if key == "" {
		return Path{}
	}
	parts := strings.Split(key, ".")
	path := make(Path, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			path = append(path, p)
		}
	}
	return path
}

// String returns the dot-separated form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Get follows path through doc and returns the value found there, or
// fallback when any segment is missing, an intermediate node is not a map,
// or the resolved value is null. An empty path returns the whole document
// unless it is empty. Get never panics; a nil doc is treated as empty.
func Get(doc *Document, path Path, fallback Value) Value {
	if doc.IsEmpty() {
		return fallback
	}
	if len(path) == 0 {
		return doc.Value()
	}

	node := doc.Value()
	for _, seg := range path {
		next, ok := node.Field(seg)
		if !ok {
			return fallback
		}
		node = next
	}

	if node.IsNull() {
		return fallback
	}
	return node
}

// Lookup is like Get but reports whether the path resolved.
func Lookup(doc *Document, path Path) (Value, bool) {
	v := Get(doc, path, Null)
	return v, !v.IsNull()
}

// GetFirst returns the value of the first path that resolves, or fallback.
func GetFirst(doc *Document, fallback Value, paths ...Path) Value {
	for _, p := range paths {
		if v, ok := Lookup(doc, p); ok {
			return v
		}
	}
	return fallback
}

// GetString returns the string at path, or fallback when the path does not
// resolve to a string. Numbers and bools are not converted.
func GetString(doc *Document, path Path, fallback string) string {
	if s, ok := Get(doc, path, Null).Str(); ok {
		return s
	}
	return fallback
}

// GetText returns the scalar at path rendered as text, or fallback when the
// path does not resolve to a string, number or bool.
func GetText(doc *Document, path Path, fallback string) string {
	v := Get(doc, path, Null)
	switch v.Kind() {
	case KindString, KindNumber, KindBool:
		return v.Text()
	default:
		return fallback
	}
}

// GetNumber returns the number at path, or fallback.
func GetNumber(doc *Document, path Path, fallback float64) float64 {
	if n, ok := Get(doc, path, Null).Num(); ok {
		return n
	}
	return fallback
}

// GetList returns the list elements at path, or fallback when the path does
// not resolve to a list.
func GetList(doc *Document, path Path, fallback []Value) []Value {
	v := Get(doc, path, Null)
	if v.Kind() != KindList {
		return fallback
	}
	return v.Items()
}

// GetStrings returns the string elements of the list at path. Non-string
// elements are skipped. fallback is returned when the path does not resolve
// to a list or the list holds no strings.
func GetStrings(doc *Document, path Path, fallback []string) []string {
	items := GetList(doc, path, nil)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.Str(); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Sub returns the map at path as a standalone document, so nested sections
// can be handed to a view on their own. A missing or non-map node yields an
// empty document.
func Sub(doc *Document, path Path) *Document {
	v := Get(doc, path, Null)
	if v.Kind() != KindMap {
		return Empty()
	}
	return &Document{root: v.m}
}
