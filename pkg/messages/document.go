package messages

import (
	"encoding/json"
	"maps"
)

// Document is the message tree of one (locale, namespace) pair.
// It is never mutated after construction; a nil *Document behaves like an
// empty one.
type Document struct {
	root map[string]Value
}

// NewDocument creates a document from top-level entries. The map is copied.
func NewDocument(entries map[string]Value) *Document {
	return &Document{root: maps.Clone(entries)}
}

// Empty returns a new document without entries.
func Empty() *Document {
	return &Document{}
}

// DocumentFromAny builds a document from decoded JSON or YAML data.
func DocumentFromAny(raw map[string]any) (*Document, error) {
	v, err := FromAny(raw)
	if err != nil {
		return nil, err
	}
	return &Document{root: v.m}, nil
}

// Len returns the number of top-level entries.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.root)
}

// IsEmpty reports whether the document has no entries.
func (d *Document) IsEmpty() bool {
	return d.Len() == 0
}

// Value returns the whole document as a map value.
func (d *Document) Value() Value {
	if d == nil {
		return Map(nil)
	}
	return Value{kind: KindMap, m: d.root}
}

// MarshalJSON encodes the document as a JSON object.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Value())
}

// UnmarshalJSON decodes a JSON object into the document.
func (d *Document) UnmarshalJSON(data []byte) error {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.kind != KindMap && v.kind != KindNull {
		return ErrNotAnObject
	}
	d.root = v.m
	return nil
}
