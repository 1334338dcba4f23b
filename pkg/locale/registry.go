package locale

import "slices"

// Supported locale codes of the GrandDom site.
const (
	Polish    = "pl"
	Ukrainian = "ua"
	English   = "en"
)

// Registry is the closed, ordered set of supported locales with exactly
// one default. It is immutable after creation and safe for concurrent use.
type Registry struct {
	locales []string
	set     map[string]struct{}
	def     string
}

// NewRegistry creates a registry with the given default and supported codes.
// The default is always listed first; the remaining codes keep their order.
// The default must be one of codes, or codes may be empty, in which case the
// registry contains only the default.
func NewRegistry(def string, codes ...string) (*Registry, error) {
	if def == "" {
		return nil, ErrEmptyLocale
	}

	r := &Registry{
		locales: []string{def},
		set:     map[string]struct{}{def: {}},
		def:     def,
	}

	seenDefault := len(codes) == 0
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if code == "" {
			return nil, ErrEmptyLocale
		}
		if _, dup := seen[code]; dup {
			return nil, ErrDuplicateLocale
		}
		seen[code] = struct{}{}

		if code == def {
			seenDefault = true
			continue
		}
		r.locales = append(r.locales, code)
		r.set[code] = struct{}{}
	}

	if !seenDefault {
		return nil, ErrDefaultNotSupported
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(def string, codes ...string) *Registry {
	r, err := NewRegistry(def, codes...)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = MustRegistry(Polish, Polish, Ukrainian, English)

// Default returns the GrandDom registry: pl (default), ua, en.
func Default() *Registry {
	return defaultRegistry
}

// Locales returns the supported locale codes, default first.
func (r *Registry) Locales() []string {
	return slices.Clone(r.locales)
}

// DefaultLocale returns the default locale code.
func (r *Registry) DefaultLocale() string {
	return r.def
}

// IsValid reports whether code is a supported locale.
func (r *Registry) IsValid(code string) bool {
	_, ok := r.set[code]
	return ok
}

// OrDefault returns code if it is supported, the default locale otherwise.
func (r *Registry) OrDefault(code string) string {
	if r.IsValid(code) {
		return code
	}
	return r.def
}
