package models

import "outreach/internal/fields"

// Cell is one (header, value) pair of an imported row
type Cell struct {
	Header string
	Value  string
}

// RawRow is one imported file row in source column order
type RawRow []Cell

// Get returns the value stored under header and whether the header exists
func (r RawRow) Get(header string) (string, bool) {
	for _, c := range r {
		if c.Header == header {
			return c.Value, true
		}
	}
	return "", false
}

// ColumnMap assigns a source header to each canonical field. Missing or empty
// entries are unmapped.
type ColumnMap map[fields.Field]string

// Clone returns an independent copy of m
func (m ColumnMap) Clone() ColumnMap {
	out := make(ColumnMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether no field is mapped
func (m ColumnMap) IsEmpty() bool {
	for _, v := range m {
		if v != "" {
			return false
		}
	}
	return true
}

// BulkContact is one row of a bulk upsert request
type BulkContact struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	LinkedIn    string `json:"linkedin"`
	Phone       string `json:"phone"`
	LeadSource  string `json:"leadSource"`
	Company     string `json:"company"`
	City        string `json:"city"`
	Industry    string `json:"industry"`
	Sheet       string `json:"sheet"`
	Domain      string `json:"domain,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// BulkRequest is the body of POST /api/contacts/bulk
type BulkRequest struct {
	Contacts       []BulkContact `json:"contacts"`
	Preview        bool          `json:"preview"`
	Commit         bool          `json:"commit"`
	UpdateExisting bool          `json:"updateExisting"`
}

// Outcome classifies one bulk row
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// RowResult is the per-row report entry of a bulk import
type RowResult struct {
	Index   int     `json:"index"`
	Email   string  `json:"email"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// BulkResponse is the response of POST /api/contacts/bulk
type BulkResponse struct {
	Report    []RowResult `json:"report"`
	Inserted  int         `json:"inserted"`
	Updated   int         `json:"updated"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Committed bool        `json:"committed"`
}
