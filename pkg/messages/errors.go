package messages

import "errors"

var (
	ErrEmptyLocale     = errors.New("messages: locale cannot be empty")
	ErrEmptyNamespace  = errors.New("messages: namespace cannot be empty")
	ErrNotFound        = errors.New("messages: document not found")
	ErrInvalidDocument = errors.New("messages: invalid message document")
	ErrNotAnObject     = errors.New("messages: document root must be an object")
	ErrUnsupportedType = errors.New("messages: unsupported value type")
	ErrMissingBucket   = errors.New("messages: s3 bucket is required")
)
