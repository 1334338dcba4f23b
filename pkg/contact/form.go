package contact

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Form field names, as posted by the contact page.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldCompany  = "company"
	FieldService  = "service"
	FieldBudget   = "budget"
	FieldTimeline = "timeline"
	FieldMessage  = "message"
)

// Form is a contact form submission.
type Form struct {
	Name     string
	Email    string
	Phone    string
	Company  string
	Service  string
	Budget   string
	Timeline string
	Message  string
}

var strictPolicy = sync.OnceValue(bluemonday.StrictPolicy)

// Parse reads the form from posted values. Every field is stripped of HTML
// and trimmed; single-line fields also have internal whitespace collapsed.
func Parse(v url.Values) Form {
	return Form{
		Name:     line(v.Get(FieldName)),
		Email:    strings.ToLower(line(v.Get(FieldEmail))),
		Phone:    line(v.Get(FieldPhone)),
		Company:  line(v.Get(FieldCompany)),
		Service:  line(v.Get(FieldService)),
		Budget:   line(v.Get(FieldBudget)),
		Timeline: line(v.Get(FieldTimeline)),
		Message:  text(v.Get(FieldMessage)),
	}
}

// Values returns the form as url.Values, for re-rendering after a failed
// validation.
func (f Form) Values() url.Values {
	return url.Values{
		FieldName:     {f.Name},
		FieldEmail:    {f.Email},
		FieldPhone:    {f.Phone},
		FieldCompany:  {f.Company},
		FieldService:  {f.Service},
		FieldBudget:   {f.Budget},
		FieldTimeline: {f.Timeline},
		FieldMessage:  {f.Message},
	}
}

// strip removes all markup. bluemonday escapes what it keeps, templates
// escape again on output, so entities are decoded here.
func strip(s string) string {
	return html.UnescapeString(strictPolicy().Sanitize(s))
}

func line(s string) string {
	return strings.Join(strings.Fields(strip(s)), " ")
}

func text(s string) string {
	s = strings.ReplaceAll(strip(s), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
