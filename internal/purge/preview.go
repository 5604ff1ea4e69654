package purge

import "outreach/internal/models"

// SampleSize is the number of matches listed in a preview
const SampleSize = 10

// Breakdown keys
const (
	BreakdownIndustries   = "Industries"
	BreakdownCompanies    = "Companies"
	BreakdownWithPhone    = "With Phone"
	BreakdownWithLinkedIn = "With LinkedIn"
)

// Preview describes what a pending deletion would affect
type Preview struct {
	Total      int
	Sample     []models.Contact
	Matches    []models.Contact
	Breakdown  map[string]int
	MatchesAll bool
}

// BuildPreview applies f to contacts and summarizes the matches. MatchesAll
// is set when f is empty, in which case every contact of the page matches.
func BuildPreview(contacts []models.Contact, f Filters) Preview {
	matches := f.Apply(contacts)

	industries := make(map[string]struct{})
	companies := make(map[string]struct{})
	withPhone, withLinkedIn := 0, 0
	for _, c := range matches {
		if c.Industry != "" {
			industries[c.Industry] = struct{}{}
		}
		if c.Company != "" {
			companies[c.Company] = struct{}{}
		}
		if present(c.Phone) {
			withPhone++
		}
		if present(c.LinkedIn) {
			withLinkedIn++
		}
	}

	sample := matches
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}

	return Preview{
		Total:   len(matches),
		Sample:  sample,
		Matches: matches,
		Breakdown: map[string]int{
			BreakdownIndustries:   len(industries),
			BreakdownCompanies:    len(companies),
			BreakdownWithPhone:    withPhone,
			BreakdownWithLinkedIn: withLinkedIn,
		},
		MatchesAll: f.IsEmpty(),
	}
}
