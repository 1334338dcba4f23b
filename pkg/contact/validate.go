package contact

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Field length limits, in runes.
const (
	MaxNameLen    = 100
	MaxEmailLen   = 254
	MaxPhoneLen   = 32
	MaxCompanyLen = 200
	MaxOptionLen  = 64
	MaxMessageLen = 5000
)

// Violation codes reported per field.
const (
	CodeRequired = "required"
	CodeInvalid  = "invalid"
	CodeTooLong  = "too_long"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()./-]{6,}$`)
)

// ValidationError lists the invalid fields of a form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return "contact: invalid fields: " + strings.Join(names, ", ")
}

// Is reports ErrInvalidForm as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidForm
}

// Code returns the violation code of field, or "" if it is valid.
func (e *ValidationError) Code(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

func (e *ValidationError) add(field, code string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = code
	}
}

// Validate checks required fields, email and phone syntax and length limits.
// It returns a *ValidationError or nil.
func (f Form) Validate() error {
	verr := &ValidationError{Fields: make(map[string]string)}

	required := func(field, value string) {
		if value == "" {
			verr.add(field, CodeRequired)
		}
	}
	limit := func(field, value string, n int) {
		if utf8.RuneCountInString(value) > n {
			verr.add(field, CodeTooLong)
		}
	}

	required(FieldName, f.Name)
	required(FieldEmail, f.Email)
	required(FieldService, f.Service)
	required(FieldMessage, f.Message)

	limit(FieldName, f.Name, MaxNameLen)
	limit(FieldEmail, f.Email, MaxEmailLen)
	limit(FieldPhone, f.Phone, MaxPhoneLen)
	limit(FieldCompany, f.Company, MaxCompanyLen)
	limit(FieldService, f.Service, MaxOptionLen)
	limit(FieldBudget, f.Budget, MaxOptionLen)
	limit(FieldTimeline, f.Timeline, MaxOptionLen)
	limit(FieldMessage, f.Message, MaxMessageLen)

	if f.Email != "" && !emailRegex.MatchString(f.Email) {
		verr.add(FieldEmail, CodeInvalid)
	}
	if f.Phone != "" && !phoneRegex.MatchString(f.Phone) {
		verr.add(FieldPhone, CodeInvalid)
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}
