package contact

import (
	"errors"

	"github.com/granddom/site/pkg/messages"
)

// Option is one entry of a select field.
type Option struct {
	Value string
	Label string
}

// Selects holds the options of the service, budget and timeline fields.
type Selects struct {
	Services  []Option
	Budgets   []Option
	Timelines []Option
}

// Default select options, used when the contact document has none.
var (
	DefaultServices = []Option{
		{Value: "sale", Label: "Property Sale"},
		{Value: "purchase", Label: "Property Purchase"},
		{Value: "rent", Label: "Long-term Rental"},
		{Value: "investment", Label: "Investment Advisory"},
		{Value: "spain", Label: "Spanish Investments"},
		{Value: "other", Label: "Other"},
	}
	DefaultBudgets = []Option{
		{Value: "5k-10k", Label: "$5,000 - $10,000"},
		{Value: "10k-25k", Label: "$10,000 - $25,000"},
		{Value: "25k-50k", Label: "$25,000 - $50,000"},
		{Value: "50k+", Label: "$50,000+"},
		{Value: "discuss", Label: "Let's Discuss"},
	}
	DefaultTimelines = []Option{
		{Value: "asap", Label: "ASAP"},
		{Value: "1month", Label: "Within 1 month"},
		{Value: "3months", Label: "Within 3 months"},
		{Value: "6months", Label: "Within 6 months"},
		{Value: "flexible", Label: "I'm flexible"},
	}
)

// Options resolves the select options from the contactPage.services,
// contactPage.budgets and contactPage.timelines lists of doc. Each entry is
// an object with value and label; entries without a value are skipped and
// an empty result selects the defaults.
func Options(doc *messages.Document) Selects {
	return Selects{
		Services:  optionList(doc, messages.P("contactPage", "services"), DefaultServices),
		Budgets:   optionList(doc, messages.P("contactPage", "budgets"), DefaultBudgets),
		Timelines: optionList(doc, messages.P("contactPage", "timelines"), DefaultTimelines),
	}
}

// Allows reports whether f uses only listed option values. Empty optional
// fields are allowed.
func (s Selects) Allows(f Form) bool {
	return has(s.Services, f.Service) &&
		(f.Budget == "" || has(s.Budgets, f.Budget)) &&
		(f.Timeline == "" || has(s.Timelines, f.Timeline))
}

// Validate runs f.Validate and additionally marks option fields whose value
// is not listed in s as invalid.
func (s Selects) Validate(f Form) error {
	verr := &ValidationError{Fields: make(map[string]string)}
	if err := f.Validate(); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}

	check := func(field, value string, opts []Option) {
		if value != "" && !has(opts, value) {
			verr.add(field, CodeInvalid)
		}
	}
	check(FieldService, f.Service, s.Services)
	check(FieldBudget, f.Budget, s.Budgets)
	check(FieldTimeline, f.Timeline, s.Timelines)

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// Label returns the label of value in opts, or value itself.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func has(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

func optionList(doc *messages.Document, path messages.Path, fallback []Option) []Option {
	items := messages.GetList(doc, path, nil)
	out := make([]Option, 0, len(items))
	for _, item := range items {
		v, ok := item.Field("value")
		if !ok || v.Text() == "" {
			continue
		}
		label := v.Text()
		if l, ok := item.Field("label"); ok && l.Text() != "" {
			label = l.Text()
		}
		out = append(out, Option{Value: v.Text(), Label: label})
	}
	if len(out) == 0 {
		return append([]Option(nil), fallback...)
	}
	return out
}
