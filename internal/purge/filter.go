// Package purge selects contacts of the loaded page for bulk deletion,
// previews the selection and deletes it in batches.
package purge

import (
	"slices"
	"sort"
	"strings"

	"outreach/internal/models"
)

// Filters is a composite predicate over contacts. Populated value sets are
// ANDed, values inside a set are ORed. A nil flag means "don't care".
type Filters struct {
	Industries   []string
	Companies    []string
	Cities       []string
	EmailDomains []string
	Sources      []string
	HasPhone     *bool
	HasLinkedIn  *bool
	Search       string
}

// IsEmpty reports whether f matches every contact
func (f Filters) IsEmpty() bool {
	return len(f.Industries) == 0 && len(f.Companies) == 0 && len(f.Cities) == 0 &&
		len(f.EmailDomains) == 0 && len(f.Sources) == 0 &&
		f.HasPhone == nil && f.HasLinkedIn == nil && strings.TrimSpace(f.Search) == ""
}

// Match reports whether c satisfies every populated criterion of f
func (f Filters) Match(c models.Contact) bool {
	if !inSet(f.Industries, c.Industry) ||
		!inSet(f.Companies, c.Company) ||
		!inSet(f.Cities, c.City) ||
		!inSet(f.EmailDomains, EmailDomain(c.Email)) ||
		!inSet(f.Sources, c.LeadSource) {
		return false
	}
	if f.HasPhone != nil && present(c.Phone) != *f.HasPhone {
		return false
	}
	if f.HasLinkedIn != nil && present(c.LinkedIn) != *f.HasLinkedIn {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		for _, v := range []string{c.Name, c.Email, c.Company, c.Role, c.LeadSource} {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the contacts matching f in input order
func (f Filters) Apply(contacts []models.Contact) []models.Contact {
	var out []models.Contact
	for _, c := range contacts {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

func inSet(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	return v != "" && slices.Contains(set, v)
}

func present(v string) bool {
	return strings.TrimSpace(v) != ""
}

// EmailDomain returns the lower-cased part after the last @, or ""
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

// Facets are the filter options offered for the loaded page
type Facets struct {
	Industries   []string
	Companies    []string
	Cities       []string
	EmailDomains []string
	Sources      []string
}

// BuildFacets collects the distinct non-empty values of each filterable field
func BuildFacets(contacts []models.Contact) Facets {
	return Facets{
		Industries:   distinct(contacts, func(c models.Contact) string { return c.Industry }),
		Companies:    distinct(contacts, func(c models.Contact) string { return c.Company }),
		Cities:       distinct(contacts, func(c models.Contact) string { return c.City }),
		EmailDomains: distinct(contacts, func(c models.Contact) string { return EmailDomain(c.Email) }),
		Sources:      distinct(contacts, func(c models.Contact) string { return c.LeadSource }),
	}
}

func distinct(contacts []models.Contact, get func(models.Contact) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range contacts {
		v := get(c)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
