package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength bounds the header size that is parsed.
const maxAcceptLanguageLength = 4096

// tagAliases maps site locale codes that are not BCP 47 language subtags
// to the tag used for negotiation. The site uses "ua" for Ukrainian.
var tagAliases = map[string]string{
	Ukrainian: "uk",
}

// Negotiate picks the supported locale that best matches an Accept-Language
// header. It returns the default locale when the header is empty, malformed
// or matches nothing.
func (r *Registry) Negotiate(header string) string {
	header = strings.TrimSpace(header)
	if header == "" || len(header) > maxAcceptLanguageLength {
		return r.def
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return r.def
	}

	supported := make([]language.Tag, 0, len(r.locales))
	for _, code := range r.locales {
		supported = append(supported, language.Make(LanguageTag(code)))
	}

	_, idx, confidence := language.NewMatcher(supported).Match(desired...)
	if confidence == language.No {
		return r.def
	}
	return r.locales[idx]
}

// LanguageTag returns the BCP 47 tag of a site locale code, for html lang
// and hreflang attributes.
func LanguageTag(code string) string {
	if alias, ok := tagAliases[code]; ok {
		return alias
	}
	return code
}
