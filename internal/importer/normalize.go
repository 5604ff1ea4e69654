package importer

import (
	"strings"

	"outreach/internal/fields"
	"outreach/internal/models"
)

// UnknownSource is the lead source of rows that carry none and have no sheet name
const UnknownSource = "Unknown"

// Normalize builds a contact from one raw row. Each field takes the first
// non-empty value of: the mapped header, a header equal to the field key, a
// header whose lower-cased form contains the field key, and for lead source
// and LinkedIn an extended synonym sweep.
func Normalize(row models.RawRow, sheet string, m models.ColumnMap) models.Contact {
	var c models.Contact
	for _, f := range fields.All {
		c.Set(f, resolve(row, f, m[f]))
	}

	if c.LeadSource == "" {
		c.LeadSource = sheet
	}
	if c.LeadSource == "" {
		c.LeadSource = UnknownSource
	}

	industry := strings.ToLower(c.Industry)
	if trimmed := strings.TrimSpace(industry); trimmed != "" {
		industry = trimmed
	}
	c.Industry = industry
	c.Sheet = sheet
	return c
}

func resolve(row models.RawRow, f fields.Field, mapped string) string {
	if mapped != "" {
		if v, ok := row.Get(mapped); ok && v != "" {
			return v
		}
	}
	if v, ok := row.Get(string(f)); ok && v != "" {
		return v
	}
	if v := containsKey(row, f); v != "" {
		return v
	}
	if syns := fields.Sweep(f); syns != nil {
		return sweepSynonyms(row, syns)
	}
	return ""
}

func containsKey(row models.RawRow, f fields.Field) string {
	key := strings.ToLower(string(f))
	for _, cell := range row {
		if cell.Value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(cell.Header), key) {
			return cell.Value
		}
	}
	return ""
}

// sweepSynonyms applies the same match rule as the header mapper, so a short
// header such as "Lead" is found by the synonym "lead source".
func sweepSynonyms(row models.RawRow, synonyms []string) string {
	for _, syn := range synonyms {
		ns := fields.Normalize(syn)
		for _, cell := range row {
			if strings.TrimSpace(cell.Value) == "" {
				continue
			}
			nk := fields.Normalize(cell.Header)
			if fields.Matches(nk, ns) {
				return cell.Value
			}
		}
	}
	return ""
}
