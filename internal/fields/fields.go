// Package fields holds the canonical contact fields and the header synonym
// table shared by the header mapper, the row normalizer and the bulk payload
// builder.
package fields

import (
	"strings"
	"unicode"
)

// Field is a canonical contact field key
type Field string

const (
	Name       Field = "name"
	Role       Field = "role"
	Email      Field = "email"
	LinkedIn   Field = "linkedin"
	Phone      Field = "phone"
	LeadSource Field = "leadSource"
	Company    Field = "company"
	City       Field = "city"
	Industry   Field = "industry"
)

// All lists the mappable fields in mapping order
var All = []Field{Name, Role, Email, LinkedIn, Phone, LeadSource, Company, City, Industry}

// Parse returns the field whose key matches s case-insensitively
func Parse(s string) (Field, bool) {
	for _, f := range All {
		if strings.EqualFold(string(f), s) {
			return f, true
		}
	}
	return "", false
}

// Synonyms lists the header names recognized for each field, most specific first
var Synonyms = map[Field][]string{
	Name:       {"name", "full name", "fullname", "contact name", "contact", "person"},
	Role:       {"role", "title", "job title", "position", "designation"},
	Email:      {"email", "e-mail", "email address", "mail"},
	LinkedIn:   {"linkedin", "linkedin url", "linkedin profile", "linked in"},
	Phone:      {"phone", "phone number", "mobile", "telephone", "cell", "whatsapp"},
	LeadSource: {"source", "leadsource", "lead_source", "lead source", "origin", "channel"},
	Company:    {"company", "company name", "organization", "organisation", "employer", "account"},
	City:       {"city", "location", "town"},
	Industry:   {"industry", "sector", "vertical"},
}

// sweep extends Synonyms for the fields whose values are often found under
// loosely named headers.
var sweep = map[Field][]string{
	LeadSource: {"campaign", "list", "utm source", "referrer", "referral", "acquisition"},
	LinkedIn:   {"linkedin_url", "linkedinprofileurl", "profile url", "profile", "li url", "social"},
}

// Sweep returns the extended synonym list used by the fallback sweep, or nil
// for fields that have none.
func Sweep(f Field) []string {
	extra, ok := sweep[f]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(Synonyms[f])+len(extra))
	out = append(out, Synonyms[f]...)
	return append(out, extra...)
}

// Normalize strips everything but letters and digits and lower-cases the rest
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Matches reports whether a normalized header and a normalized synonym are
// equal or one contains the other. Empty inputs never match.
func Matches(header, synonym string) bool {
	if header == "" || synonym == "" {
		return false
	}
	return strings.Contains(header, synonym) || strings.Contains(synonym, header)
}
