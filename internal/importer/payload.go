package importer

import (
	"fmt"
	"strings"

	"outreach/internal/fields"
	"outreach/internal/models"
)

// Payload rebuilds the included rows of the selected sheet into bulk request
// rows. Every field prefers the mapped raw value, then the previewed value,
// then a header search over the shared synonym table.
func (s *Session) Payload() []models.BulkContact {
	raw := s.raw[s.selected]
	preview := s.rows[s.selected]

	var out []models.BulkContact
	for _, i := range s.Included() {
		if i >= len(raw) || i >= len(preview) {
			continue
		}
		out = append(out, buildBulkContact(raw[i], preview[i], s.mapping, s.selected))
	}
	return out
}

func buildBulkContact(row models.RawRow, preview models.Contact, m models.ColumnMap, sheet string) models.BulkContact {
	var c models.Contact
	for _, f := range fields.All {
		v := ""
		if h := m[f]; h != "" {
			v, _ = row.Get(h)
		}
		if v == "" {
			v = preview.Get(f)
		}
		if v == "" {
			v = searchHeaders(row, f)
		}
		c.Set(f, v)
	}

	bc := models.BulkContact{
		Name:       c.Name,
		Role:       c.Role,
		Email:      c.Email,
		LinkedIn:   c.LinkedIn,
		Phone:      c.Phone,
		LeadSource: c.LeadSource,
		Company:    c.Company,
		City:       c.City,
		Industry:   c.Industry,
		Sheet:      sheet,
	}
	if v, ok := row.Get("domain"); ok {
		bc.Domain = v
	}
	if v, ok := row.Get("company_name"); ok {
		bc.CompanyName = v
	}
	return bc
}

func searchHeaders(row models.RawRow, f fields.Field) string {
	if v := containsKey(row, f); v != "" {
		return v
	}
	if f == fields.LinkedIn {
		return sweepSynonyms(row, fields.Sweep(f))
	}
	return ""
}

// NoEmail stands in for the email of report rows that carry none
const NoEmail = "(no email)"

// FormatReport renders one line per bulk result
func FormatReport(report []models.RowResult) []string {
	lines := make([]string, len(report))
	for i, r := range report {
		email := strings.TrimSpace(r.Email)
		if email == "" {
			email = NoEmail
		}
		status := "OK"
		if r.Outcome != models.OutcomeSuccess {
			status = r.Reason
			if status == "" {
				status = string(r.Outcome)
			}
		}
		lines[i] = fmt.Sprintf("row %d: %s — %s", r.Index+1, email, status)
	}
	return lines
}
