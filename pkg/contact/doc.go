// Package contact handles the contact form: parsing and sanitizing posted
// values, validation, localized select options and a simulated submitter.
//
// Submissions are never delivered or stored. [LogSubmitter] assigns a
// reference id and writes a log entry.
//
//	form := contact.Parse(r.PostForm)
//	if err := form.Validate(); err != nil {
//	    var verr *contact.ValidationError
//	    errors.As(err, &verr) // verr.Code("email") == contact.CodeInvalid
//	}
package contact
