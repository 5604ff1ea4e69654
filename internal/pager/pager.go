// Package pager tracks the server-driven pagination of the contact list.
package pager

import (
	"strings"

	"outreach/internal/models"
)

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 50

// Pager is the pagination state of the contact list. Transitions return a new
// value.
type Pager struct {
	PageSize int
	Page     int
	Query    string
	Total    int
}

// New returns a pager on the first page
func New(pageSize int) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pager{PageSize: pageSize}
}

// WithQuery changes the search text and returns to the first page
func (p Pager) WithQuery(q string) Pager {
	q = strings.TrimSpace(q)
	if q != p.Query {
		p.Query = q
		p.Page = 0
	}
	return p
}

// Goto moves to page n, clamped to the known page range
func (p Pager) Goto(n int) Pager {
	if last := p.Pages() - 1; n > last {
		n = last
	}
	if n < 0 {
		n = 0
	}
	p.Page = n
	return p
}

// Next moves one page forward unless already on the last page
func (p Pager) Next() Pager { return p.Goto(p.Page + 1) }

// Prev moves one page back unless already on the first page
func (p Pager) Prev() Pager { return p.Goto(p.Page - 1) }

// Offset is the row offset of the current page
func (p Pager) Offset() int { return p.Page * p.PageSize }

// Pages is the number of pages for the last known total, at least one
func (p Pager) Pages() int {
	if p.Total <= 0 || p.PageSize <= 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Apply takes the total and the current page from a server response
func (p Pager) Apply(page models.ContactPage) Pager {
	p.Total = page.Total
	if page.Limit > 0 {
		p.PageSize = page.Limit
		p.Page = page.Offset / page.Limit
	}
	return p
}
