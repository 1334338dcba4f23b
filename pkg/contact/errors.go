package contact

import "errors"

// ErrInvalidForm matches every *ValidationError.
var ErrInvalidForm = errors.New("contact: invalid form")
