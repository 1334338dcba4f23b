package web

import (
	"github.com/granddom/site/pkg/contact"
	"github.com/granddom/site/pkg/messages"
)

// texts reads display strings from a message document, one fallback per key.
type texts struct {
	doc *messages.Document
}

func (t texts) str(fallback string, path ...string) string {
	return messages.GetString(t.doc, messages.P(path...), fallback)
}

func (t texts) first(fallback string, paths ...messages.Path) string {
	return messages.GetFirst(t.doc, messages.String(fallback), paths...).Text()
}

func (t texts) strs(fallback []string, path ...string) []string {
	return messages.GetStrings(t.doc, messages.P(path...), fallback)
}

func (t texts) has(path ...string) bool {
	_, ok := messages.Lookup(t.doc, messages.P(path...))
	return ok
}

func (t texts) objects(path ...string) []messages.Value {
	var out []messages.Value
	for _, item := range messages.GetList(t.doc, messages.P(path...), nil) {
		if item.Kind() == messages.KindMap {
			out = append(out, item)
		}
	}
	return out
}

func field(v messages.Value, key, fallback string) string {
	f, ok := v.Field(key)
	if !ok || f.Text() == "" {
		return fallback
	}
	return f.Text()
}

func fieldStrings(v messages.Value, key string) []string {
	f, _ := v.Field(key)
	var out []string
	for _, item := range f.Items() {
		if s, ok := item.Str(); ok {
			out = append(out, s)
		}
	}
	return out
}

type card struct {
	Title       string
	Description string
	Features    []string
}

type stat struct {
	Value string
	Label string
}

type contactItem struct {
	Label string
	Value string
	Href  string
}

type languageLink struct {
	Code    string
	Name    string
	Flag    string
	URL     string
	Current bool
}

type landingPage struct {
	Badge              string
	Tagline            string
	HeroSubheading     string
	HeroText           string
	CTAStart           string
	CTAViewProperties  string
	ContactURL         string
	ServicesTitle      string
	Services           []string
	RealEstateTitle    string
	RealEstateSubtitle string
	RealEstate         []card
	VisionTitle        string
	VisionHeading      string
	VisionText         string
	MissionHeading     string
	MissionText        string
	ValuesHeading      string
	ValuesSubtitle     string
	Values             []card
	Stats              []stat
	ShowSpain          bool
	SpainHeading       string
	SpainIntro         string
	SpainOffers        []string
	SpainBenefits      []string
	GetInTouch         string
	Contacts           []contactItem
}

var (
	defaultServices = []string{
		"Sprzedaż Mieszkań",
		"Kupno Nieruchomości",
		"Wynajem Długoterminowy",
		"Doradztwo Inwestycyjne",
		"Obsługa Prawna",
		"Inwestycje Hiszpańskie",
	}
	defaultRealEstate = []card{{
		Title:       "Sprzedaż Mieszkań w Warszawie",
		Description: "Kompleksowa obsługa sprzedaży mieszkań, domów i lokali komercyjnych w Warszawie i województwie mazowieckim.",
		Features:    []string{"Wycena nieruchomości", "Marketing i promocja", "Obsługa prawna"},
	}}
	defaultValues = []card{
		{Title: "Doskonałość", Description: "Dążymy do perfekcji w każdym projekcie."},
		{Title: "Uczciwość", Description: "Zaufanie i transparentność stanowią fundament naszych relacji."},
		{Title: "Innowacyjność", Description: "Wykorzystujemy najnowsze technologie i kreatywne rozwiązania."},
		{Title: "Współpraca", Description: "Sukces osiągamy poprzez partnerstwo i pracę zespołową."},
	}
	defaultStats = []stat{
		{Value: "2024", Label: "Rok założenia"},
		{Value: "100%", Label: "Zadowolenie klientów"},
		{Value: "24/7", Label: "Dostępne wsparcie"},
	}
)

func newLandingPage(doc *messages.Document, contactURL string) landingPage {
	t := texts{doc}

	p := landingPage{
		Badge:          t.str("Nowa Agencja", "badge", "new"),
		Tagline:        t.str("", "brand", "tagline"),
		HeroSubheading: t.str("Twój Dom w Sercu Warszawy", "hero", "subheading"),
		HeroText: t.first("Świeże podejście do rynku nieruchomości. Specjalizujemy się w sprzedaży, kupnie i wynajmie nieruchomości.",
			messages.P("hero", "text"), messages.P("hero", "description")),
		CTAStart:          t.str("Rozpocznij Współpracę", "cta", "startProject"),
		CTAViewProperties: t.str("Zobacz Dostępne Nieruchomości", "cta", "viewProperties"),
		ContactURL:        contactURL,
		ServicesTitle: t.first("Nasza Specjalizacja",
			messages.P("services", "title"), messages.P("specialization", "title")),
		Services:           t.strs(t.strs(defaultServices, "specialization", "items"), "services", "list"),
		RealEstateTitle:    t.str("Nasze Usługi", "realEstateServicesTitle"),
		RealEstateSubtitle: t.str("Kompleksowe rozwiązania dostosowane do Twoich potrzeb na warszawskim rynku nieruchomości.", "realEstateServicesSubtitle"),
		VisionTitle:        t.str("Nasza Wizja i Misja", "visionMission", "title"),
		VisionHeading:      t.str("Nasza Wizja", "visionMission", "visionHeading"),
		VisionText:         t.str("Stać się wiodącą agencją nieruchomości w Warszawie.", "visionMission", "visionText"),
		MissionHeading:     t.str("Nasza Misja", "visionMission", "missionHeading"),
		MissionText:        t.str("Dostarczanie wyjątkowych usług w zakresie nieruchomości.", "visionMission", "missionText"),
		ValuesHeading:      t.str("Nasze Wartości", "values", "heading"),
		ValuesSubtitle:     t.str("Zasady, które kierują wszystkim, co robimy i definiują nas jako firmę.", "values", "subtitle"),
		ShowSpain:          t.has("spanishInvestment"),
		SpainHeading:       t.str("Hiszpania - Inwestycja, która daje więcej!", "spanishInvestment", "heading"),
		SpainIntro:         t.str("", "spanishInvestment", "intro"),
		SpainOffers:        t.strs(nil, "spanishInvestment", "offers"),
		SpainBenefits:      t.strs(nil, "spanishInvestment", "benefits"),
		GetInTouch:         t.str("Skontaktuj się z nami", "contact", "getInTouch"),
	}

	for _, item := range t.objects("realEstateServices") {
		p.RealEstate = append(p.RealEstate, card{
			Title:       field(item, "title", ""),
			Description: field(item, "description", ""),
			Features:    fieldStrings(item, "features"),
		})
	}
	if len(p.RealEstate) == 0 {
		p.RealEstate = defaultRealEstate
	}

	for _, item := range t.objects("values", "items") {
		p.Values = append(p.Values, card{
			Title:       field(item, "title", ""),
			Description: field(item, "description", ""),
		})
	}
	if len(p.Values) == 0 {
		p.Values = defaultValues
	}

	for _, item := range t.objects("stats", "items") {
		p.Stats = append(p.Stats, stat{Value: field(item, "value", ""), Label: field(item, "label", "")})
	}
	if len(p.Stats) == 0 {
		p.Stats = defaultStats
	}

	p.Contacts = contactItems(t, "Email", "Telefon", "Lokalizacja", contactDefaults{
		email:    "granddom7@op.pl",
		phone:    "886 193 598",
		location: "Warszawa, Polska",
	})
	if site := t.str("www.granddom.com", "contact", "website", "value"); site != "" {
		p.Contacts = append(p.Contacts, contactItem{
			Label: t.str("Strona", "contact", "website", "label"),
			Value: site,
			Href:  "https://" + site,
		})
	}
	return p
}

type contactDefaults struct {
	email    string
	phone    string
	location string
}

// contactItems reads contact.{email,phone,location}. Each entry is either an
// object with label and value or a plain string value.
func contactItems(t texts, emailLabel, phoneLabel, locationLabel string, def contactDefaults) []contactItem {
	read := func(key, label, value string) (string, string) {
		return t.str(label, "contact", key, "label"),
			t.first(value, messages.P("contact", key, "value"), messages.P("contact", key))
	}

	email, emailValue := read("email", emailLabel, def.email)
	phone, phoneValue := read("phone", phoneLabel, def.phone)
	loc, locValue := read("location", locationLabel, def.location)

	return []contactItem{
		{Label: email, Value: emailValue, Href: "mailto:" + emailValue},
		{Label: phone, Value: phoneValue, Href: "tel:" + phoneHref(phoneValue)},
		{Label: loc, Value: locValue},
	}
}

func phoneHref(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '+' || (r >= '0' && r <= '9') {
			out = append(out, r)
		}
	}
	return string(out)
}

type fieldView struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
	Error       string
}

type selectView struct {
	fieldView
	Options []contact.Option
}

type contactPage struct {
	Title        string
	Subtitle     string
	BackToHome   string
	HomeURL      string
	Action       string
	FormTitle    string
	SelectPrompt string
	Name         fieldView
	Email        fieldView
	Phone        fieldView
	Company      fieldView
	Service      selectView
	Budget       selectView
	Timeline     selectView
	Message      fieldView
	Send         string
	GetInTouch   string
	Contacts     []contactItem
	WhyTitle     string
	WhyItems     []string

	Submitted      bool
	SuccessTitle   string
	SuccessText    string
	ReferenceLabel string
	Reference      string
}

var defaultErrorMessages = map[string]string{
	contact.CodeRequired: "This field is required.",
	contact.CodeInvalid:  "Please enter a valid value.",
	contact.CodeTooLong:  "This value is too long.",
}

func newContactPage(doc *messages.Document, selects contact.Selects, f contact.Form, verr *contact.ValidationError, homeURL, action string) contactPage {
	t := texts{doc}

	errMsg := func(field string) string {
		code := verr.Code(field)
		if code == "" {
			return ""
		}
		return t.str(defaultErrorMessages[code], "form", "errors", code)
	}
	input := func(name, label, placeholder, value string) fieldView {
		return fieldView{
			Name:        name,
			Label:       t.str(label, "form", name+"Label"),
			Placeholder: t.str(placeholder, "form", name+"Placeholder"),
			Value:       value,
			Error:       errMsg(name),
		}
	}

	return contactPage{
		Title: t.first("Start Your Project",
			messages.P("contactPage", "title"), messages.P("cta", "startProject")),
		Subtitle:     t.str("Tell us about your project and we'll get back to you with a customized solution.", "contactPage", "subtitle"),
		BackToHome:   t.str("Back to Home", "ui", "backToHome"),
		HomeURL:      homeURL,
		Action:       action,
		FormTitle:    t.str("Project Details", "form", "title"),
		SelectPrompt: t.str("Select...", "ui", "select"),
		Name:         input(contact.FieldName, "Full Name *", "John Smith", f.Name),
		Email:        input(contact.FieldEmail, "Email Address *", "john@example.com", f.Email),
		Phone:        input(contact.FieldPhone, "Phone Number", "+1 (555) 123-4567", f.Phone),
		Company:      input(contact.FieldCompany, "Company Name", "Your Company", f.Company),
		Service:      selectView{input(contact.FieldService, "Service Needed *", "", f.Service), selects.Services},
		Budget:       selectView{input(contact.FieldBudget, "Project Budget", "", f.Budget), selects.Budgets},
		Timeline:     selectView{input(contact.FieldTimeline, "Project Timeline", "", f.Timeline), selects.Timelines},
		Message:      input(contact.FieldMessage, "Project Description *", "Tell us about your project...", f.Message),
		Send:         t.str("Send Project Details", "form", "send"),
		GetInTouch:   t.str("Get In Touch", "contact", "getInTouch"),
		Contacts: contactItems(t, "Email", "Phone", "Location", contactDefaults{
			email:    "contact@granddom.com",
			phone:    "+1 (555) 123-4567",
			location: "New York, NY",
		}),
		WhyTitle: t.str("Why Choose GrandDom?", "whyChoose", "title"),
		WhyItems: t.strs([]string{
			t.str("Customized solutions", "ui", "custom"),
			t.str("Expert team support", "ui", "expert"),
		}, "whyChoose", "items"),
		SuccessTitle:   t.str("Thank You!", "form", "successTitle"),
		SuccessText:    t.str("We've received your project details and will contact you within 24 hours to discuss your requirements.", "form", "successText"),
		ReferenceLabel: t.str("Reference", "form", "referenceLabel"),
	}
}

func newLanguageLinks(doc *messages.Document, codes []string, current string, switchURL func(code string) string) []languageLink {
	names := map[string][2]string{
		"pl": {"Polski", "🇵🇱"},
		"ua": {"Українська", "🇺🇦"},
		"en": {"English", "🇬🇧"},
	}
	for _, item := range (texts{doc}).objects("languages", "available") {
		code := field(item, "code", "")
		if code == "" {
			continue
		}
		names[code] = [2]string{field(item, "name", code), field(item, "flag", "")}
	}

	links := make([]languageLink, 0, len(codes))
	for _, code := range codes {
		n, ok := names[code]
		if !ok {
			n = [2]string{code, ""}
		}
		links = append(links, languageLink{
			Code:    code,
			Name:    n[0],
			Flag:    n[1],
			URL:     switchURL(code),
			Current: code == current,
		})
	}
	return links
}
