package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"outreach/internal/metrics"
	"outreach/internal/models"
)

// BulkImport validates every row and, when req.Commit is set, writes them.
// Rows are matched against stored contacts by email, then by phone; matches
// are updated when req.UpdateExisting is set and skipped otherwise. A failing
// row is reported and never stops the others.
func (s *ContactService) BulkImport(ctx context.Context, req models.BulkRequest) (*models.BulkResponse, error) {
	if len(req.Contacts) == 0 {
		return nil, errors.Wrap(ErrValidation, "no contacts in request")
	}

	resp := &models.BulkResponse{
		Report:    make([]models.RowResult, 0, len(req.Contacts)),
		Committed: req.Commit,
	}
	seen := make(map[string]struct{}, len(req.Contacts))

	for i, bc := range req.Contacts {
		r := s.importRow(ctx, i, bc, req, seen)
		switch {
		case r.Outcome == models.OutcomeSkipped:
			resp.Skipped++
		case r.Outcome == models.OutcomeFailed:
			resp.Failed++
		case !req.Commit:
		case r.Reason == reasonUpdated:
			resp.Updated++
		default:
			resp.Inserted++
		}
		metrics.ImportRows.WithLabelValues(string(r.Outcome)).Inc()
		resp.Report = append(resp.Report, r)
	}

	s.log.WithFields(logrus.Fields{
		"rows":     len(req.Contacts),
		"inserted": resp.Inserted,
		"updated":  resp.Updated,
		"skipped":  resp.Skipped,
		"failed":   resp.Failed,
	}).Info("bulk import processed")
	return resp, nil
}

const reasonUpdated = "updated existing contact"

func (s *ContactService) importRow(ctx context.Context, i int, bc models.BulkContact, req models.BulkRequest, seen map[string]struct{}) models.RowResult {
	email := strings.TrimSpace(bc.Email)
	res := models.RowResult{Index: i, Email: email}
	fail := func(outcome models.Outcome, reason string) models.RowResult {
		res.Outcome = outcome
		res.Reason = reason
		return res
	}

	name := strings.TrimSpace(bc.Name)
	if name == "" && email == "" {
		return fail(models.OutcomeFailed, "missing name and email")
	}
	if email != "" {
		if err := s.validate.Var(email, "email"); err != nil {
			return fail(models.OutcomeFailed, "invalid email")
		}
	}

	key := strings.ToLower(email)
	if key != "" {
		if _, dup := seen[key]; dup {
			return fail(models.OutcomeSkipped, "duplicate email in upload")
		}
		seen[key] = struct{}{}
	}

	c := contactFromBulk(bc)
	c.Name, c.Email = name, email

	existing, err := s.findExisting(ctx, key, strings.TrimSpace(bc.Phone))
	if err != nil {
		s.log.WithError(err).WithField("row", i).Error("bulk lookup failed")
		return fail(models.OutcomeFailed, "lookup failed")
	}

	if existing != nil {
		if !req.UpdateExisting {
			return fail(models.OutcomeSkipped, "already exists")
		}
		if req.Commit {
			merge(existing, c)
			if err := s.updateContact(ctx, existing); err != nil {
				s.log.WithError(err).WithField("row", i).Error("bulk update failed")
				return fail(models.OutcomeFailed, "update failed")
			}
		}
		res.Outcome = models.OutcomeSuccess
		res.Reason = reasonUpdated
		return res
	}

	if req.Commit {
		if err := s.insertContact(ctx, &c, bc.Domain); err != nil {
			s.log.WithError(err).WithField("row", i).Error("bulk insert failed")
			return fail(models.OutcomeFailed, "insert failed")
		}
	}
	res.Outcome = models.OutcomeSuccess
	return res
}

func contactFromBulk(bc models.BulkContact) models.Contact {
	company := strings.TrimSpace(bc.Company)
	if company == "" {
		company = strings.TrimSpace(bc.CompanyName)
	}
	return models.Contact{
		Role:       strings.TrimSpace(bc.Role),
		LinkedIn:   strings.TrimSpace(bc.LinkedIn),
		Phone:      strings.TrimSpace(bc.Phone),
		LeadSource: strings.TrimSpace(bc.LeadSource),
		Company:    company,
		City:       strings.TrimSpace(bc.City),
		Industry:   bc.Industry,
		Sheet:      bc.Sheet,
	}
}

// merge copies the non-empty fields of src onto dst
func merge(dst *models.Contact, src models.Contact) {
	set := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	set(&dst.Name, src.Name)
	set(&dst.Role, src.Role)
	set(&dst.Email, src.Email)
	set(&dst.LinkedIn, src.LinkedIn)
	set(&dst.Phone, src.Phone)
	set(&dst.LeadSource, src.LeadSource)
	set(&dst.Company, src.Company)
	set(&dst.City, src.City)
	set(&dst.Industry, src.Industry)
	set(&dst.Sheet, src.Sheet)
}
