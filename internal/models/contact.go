package models

import (
	"strings"
	"time"

	"outreach/internal/fields"
)

// Contact represents an outreach target as stored by the backend
type Contact struct {
	ID         int64     `json:"id,omitempty"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Email      string    `json:"email"`
	LinkedIn   string    `json:"linkedin"`
	Phone      string    `json:"phone"`
	LeadSource string    `json:"leadSource"`
	Company    string    `json:"company"`
	City       string    `json:"city"`
	Industry   string    `json:"industry"`
	Sheet      string    `json:"sheet"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// Get returns the value of a canonical field
func (c Contact) Get(f fields.Field) string {
	switch f {
	case fields.Name:
		return c.Name
	case fields.Role:
		return c.Role
	case fields.Email:
		return c.Email
	case fields.LinkedIn:
		return c.LinkedIn
	case fields.Phone:
		return c.Phone
	case fields.LeadSource:
		return c.LeadSource
	case fields.Company:
		return c.Company
	case fields.City:
		return c.City
	case fields.Industry:
		return c.Industry
	}
	return ""
}

// Set assigns the value of a canonical field
func (c *Contact) Set(f fields.Field, v string) {
	switch f {
	case fields.Name:
		c.Name = v
	case fields.Role:
		c.Role = v
	case fields.Email:
		c.Email = v
	case fields.LinkedIn:
		c.LinkedIn = v
	case fields.Phone:
		c.Phone = v
	case fields.LeadSource:
		c.LeadSource = v
	case fields.Company:
		c.Company = v
	case fields.City:
		c.City = v
	case fields.Industry:
		c.Industry = v
	}
}

// EmailKey is the de-duplication key: the trimmed, lower-cased email
func (c Contact) EmailKey() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

// CreateContactRequest is the body of POST /api/contacts
type CreateContactRequest struct {
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role"`
	Email      string `json:"email" validate:"omitempty,email"`
	LinkedIn   string `json:"linkedin"`
	Phone      string `json:"phone"`
	LeadSource string `json:"leadSource"`
	Company    string `json:"company"`
	City       string `json:"city"`
	Industry   string `json:"industry"`
	Sheet      string `json:"sheet"`
}

// ContactPatch is the body of PATCH /api/contacts/:id; nil fields are left untouched
type ContactPatch struct {
	Name       *string `json:"name,omitempty"`
	Role       *string `json:"role,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	LinkedIn   *string `json:"linkedin,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	LeadSource *string `json:"leadSource,omitempty"`
	Company    *string `json:"company,omitempty"`
	City       *string `json:"city,omitempty"`
	Industry   *string `json:"industry,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p ContactPatch) Empty() bool {
	return p.Name == nil && p.Role == nil && p.Email == nil && p.LinkedIn == nil &&
		p.Phone == nil && p.LeadSource == nil && p.Company == nil && p.City == nil && p.Industry == nil
}

// Apply copies the non-nil patch fields onto c
func (p ContactPatch) Apply(c *Contact) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Name, p.Name)
	set(&c.Role, p.Role)
	set(&c.Email, p.Email)
	set(&c.LinkedIn, p.LinkedIn)
	set(&c.Phone, p.Phone)
	set(&c.LeadSource, p.LeadSource)
	set(&c.Company, p.Company)
	set(&c.City, p.City)
	set(&c.Industry, p.Industry)
}

// ContactPage is the response of GET /api/contacts
type ContactPage struct {
	Contacts []Contact `json:"contacts"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// CleanupResult is the response of POST /api/companies/cleanup-orphaned
type CleanupResult struct {
	DeletedCount int `json:"deletedCount"`
}

// WhatsAppInvite is the body of POST /api/demo/whatsapp-invite
type WhatsAppInvite struct {
	Phone   string `json:"phone" validate:"required"`
	Name    string `json:"name" validate:"required"`
	DemoURL string `json:"demoUrl" validate:"required,url"`
}

// InviteResponse is the response of POST /api/demo/whatsapp-invite
type InviteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
