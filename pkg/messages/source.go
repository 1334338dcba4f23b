package messages

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

// Source loads the persisted message document of a (locale, namespace) pair.
// Implementations return an error for missing or malformed content; the
// Store treats every error as a load failure.
type Source interface {
	Load(ctx context.Context, locale, namespace string) (*Document, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, locale, namespace string) (*Document, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context, locale, namespace string) (*Document, error) {
	return f(ctx, locale, namespace)
}

// Decoder parses raw file content into a document.
type Decoder func(data []byte) (*Document, error)

// DecodeJSON parses a JSON object.
func DecodeJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidDocument)
	}
	return toDocument(raw)
}

// DecodeYAML parses a YAML mapping.
func DecodeYAML(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	return toDocument(raw)
}

func toDocument(raw any) (*Document, error) {
	if raw == nil {
		return Empty(), nil
	}
	v, err := FromAny(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	if v.Kind() != KindMap {
		return nil, ErrNotAnObject
	}
	return &Document{root: v.m}, nil
}

// Format pairs a file extension with its decoder.
type Format struct {
	Ext    string
	Decode Decoder
}

// DefaultFormats are tried in order for every lookup.
var DefaultFormats = []Format{
	{Ext: ".json", Decode: DecodeJSON},
	{Ext: ".yaml", Decode: DecodeYAML},
	{Ext: ".yml", Decode: DecodeYAML},
}

// FSSource reads "{locale}/{namespace}{ext}" files from an fs.FS.
type FSSource struct {
	fsys    fs.FS
	formats []Format
}

// NewFSSource creates a source over fsys. When no formats are given,
// DefaultFormats is used.
//
// Example layout:
//
//	pl/common.json
//	pl/contact.json
//	en/common.yaml
func NewFSSource(fsys fs.FS, formats ...Format) *FSSource {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	return &FSSource{fsys: fsys, formats: formats}
}

// Load reads and decodes the first existing file for (locale, namespace).
// It returns an error wrapping ErrNotFound when none exists.
func (s *FSSource) Load(ctx context.Context, locale, namespace string) (*Document, error) {
	if locale == "" {
		return nil, ErrEmptyLocale
	}
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}

	for _, f := range s.formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := path.Join(locale, namespace+f.Ext)
		if !fs.ValidPath(name) {
			return nil, fmt.Errorf("%w: invalid path %q", ErrNotFound, name)
		}

		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", name, err)
		}

		doc, err := f.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", name, err)
		}
		return doc, nil
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, locale, namespace)
}

var _ Source = (*FSSource)(nil)
