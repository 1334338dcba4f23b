package locale

import "errors"

var (
	ErrEmptyLocale         = errors.New("locale: locale code cannot be empty")
	ErrDuplicateLocale     = errors.New("locale: duplicate locale code")
	ErrDefaultNotSupported = errors.New("locale: default locale is not in the supported set")
)
