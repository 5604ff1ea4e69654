package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"outreach/internal/database"
	"outreach/internal/models"
)

var (
	// ErrNotFound is returned when a contact id does not exist
	ErrNotFound = errors.New("contact not found")
	// ErrValidation wraps every input validation failure
	ErrValidation = errors.New("validation failed")
)

const contactColumns = `id, name, role, email, linkedin, phone, lead_source, company, city, industry, sheet, created_at, updated_at`

// MaxPageSize caps the limit accepted by List
const MaxPageSize = 500

// ContactService implements the contact CRUD operations
type ContactService struct {
	db       *database.DB
	validate *validator.Validate
	log      *logrus.Entry
}

// NewContactService creates a new contact service
func NewContactService(db *database.DB, log *logrus.Entry) *ContactService {
	return &ContactService{
		db:       db,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// ListQuery selects one page of contacts
type ListQuery struct {
	Limit  int
	Offset int
	Query  string
}

// List returns one page of contacts, newest first, optionally filtered by a
// case-insensitive search over the text columns
func (s *ContactService) List(ctx context.Context, q ListQuery) (*models.ContactPage, error) {
	if q.Limit <= 0 || q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	where := ""
	args := []interface{}{}
	if term := strings.TrimSpace(q.Query); term != "" {
		where = ` WHERE LOWER(name) LIKE $1 OR LOWER(email) LIKE $1 OR LOWER(company) LIKE $1
			OR LOWER(role) LIKE $1 OR LOWER(lead_source) LIKE $1 OR LOWER(city) LIKE $1 OR LOWER(industry) LIKE $1`
		args = append(args, "%"+strings.ToLower(term)+"%")
	}

	var total int
	if err := s.db.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&total); err != nil {
		return nil, errors.Wrap(err, "failed to count contacts")
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM contacts%s ORDER BY id DESC LIMIT $%d OFFSET $%d`, contactColumns, where, n+1, n+2)
	contacts, err := s.queryContacts(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contacts")
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}

	return &models.ContactPage{Contacts: contacts, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Get returns the contact with the given id
func (s *ContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	contacts, err := s.queryContacts(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get contact %d", id)
	}
	if len(contacts) == 0 {
		return nil, ErrNotFound
	}
	return &contacts[0], nil
}

// Create validates and inserts a single contact
func (s *ContactService) Create(ctx context.Context, req models.CreateContactRequest) (*models.Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.Wrap(ErrValidation, err.Error())
	}

	c := models.Contact{
		Name:       req.Name,
		Role:       req.Role,
		Email:      req.Email,
		LinkedIn:   req.LinkedIn,
		Phone:      req.Phone,
		LeadSource: req.LeadSource,
		Company:    req.Company,
		City:       req.City,
		Industry:   req.Industry,
		Sheet:      req.Sheet,
	}
	if err := s.insertContact(ctx, &c, ""); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update applies a partial update to a contact
func (s *ContactService) Update(ctx context.Context, id int64, patch models.ContactPatch) (*models.Contact, error) {
	if patch.Empty() {
		return nil, errors.Wrap(ErrValidation, "no fields to update")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, errors.Wrap(ErrValidation, "name must not be empty")
		}
		patch.Name = &name
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, errors.Wrap(ErrValidation, err.Error())
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := s.updateContact(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a contact
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Conn.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete contact %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CleanupOrphanedCompanies deletes the companies no contact references and
// returns how many were removed
func (s *ContactService) CleanupOrphanedCompanies(ctx context.Context) (int, error) {
	res, err := s.db.Conn.ExecContext(ctx,
		`DELETE FROM companies WHERE name NOT IN (SELECT DISTINCT company FROM contacts WHERE company <> '')`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete orphaned companies")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read affected rows")
	}
	s.log.WithField("deleted", n).Info("orphaned companies removed")
	return int(n), nil
}

// findExisting looks a contact up by email, then by phone
func (s *ContactService) findExisting(ctx context.Context, email, phone string) (*models.Contact, error) {
	if email != "" {
		contacts, err := s.queryContacts(ctx,
			`SELECT `+contactColumns+` FROM contacts WHERE LOWER(email) = $1 ORDER BY id LIMIT 1`, strings.ToLower(email))
		if err != nil {
			return nil, err
		}
		if len(contacts) > 0 {
			return &contacts[0], nil
		}
	}
	if phone != "" {
		contacts, err := s.queryContacts(ctx,
			`SELECT `+contactColumns+` FROM contacts WHERE phone = $1 ORDER BY id LIMIT 1`, phone)
		if err != nil {
			return nil, err
		}
		if len(contacts) > 0 {
			return &contacts[0], nil
		}
	}
	return nil, nil
}

func (s *ContactService) insertContact(ctx context.Context, c *models.Contact, domain string) error {
	c.Industry = normalizeIndustry(c.Industry)
	now := time.Now().UTC()
	query := `INSERT INTO contacts (name, role, email, linkedin, phone, lead_source, company, city, industry, sheet, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err := s.db.Conn.QueryRowContext(ctx, query,
		c.Name, c.Role, c.Email, c.LinkedIn, c.Phone, c.LeadSource, c.Company, c.City, c.Industry, c.Sheet, now, now,
	).Scan(&c.ID)
	if err != nil {
		return errors.Wrap(err, "failed to insert contact")
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return s.ensureCompany(ctx, c.Company, domain)
}

func (s *ContactService) updateContact(ctx context.Context, c *models.Contact) error {
	c.Industry = normalizeIndustry(c.Industry)
	c.UpdatedAt = time.Now().UTC()
	query := `UPDATE contacts SET name = $1, role = $2, email = $3, linkedin = $4, phone = $5, lead_source = $6,
			  company = $7, city = $8, industry = $9, sheet = $10, updated_at = $11 WHERE id = $12`
	_, err := s.db.Conn.ExecContext(ctx, query,
		c.Name, c.Role, c.Email, c.LinkedIn, c.Phone, c.LeadSource, c.Company, c.City, c.Industry, c.Sheet, c.UpdatedAt, c.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to update contact %d", c.ID)
	}
	return s.ensureCompany(ctx, c.Company, "")
}

// ensureCompany records the company of a contact, filling its domain once known
func (s *ContactService) ensureCompany(ctx context.Context, name, domain string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	query := `INSERT INTO companies (name, domain, created_at) VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO UPDATE SET domain = excluded.domain
			  WHERE companies.domain = '' AND excluded.domain <> ''`
	if _, err := s.db.Conn.ExecContext(ctx, query, name, strings.TrimSpace(domain), time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "failed to upsert company %q", name)
	}
	return nil
}

// queryContacts executes a query and returns contacts
func (s *ContactService) queryContacts(ctx context.Context, query string, args ...interface{}) ([]models.Contact, error) {
	rows, err := s.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		var createdAt, updatedAt sql.NullTime
		err := rows.Scan(&c.ID, &c.Name, &c.Role, &c.Email, &c.LinkedIn, &c.Phone, &c.LeadSource,
			&c.Company, &c.City, &c.Industry, &c.Sheet, &createdAt, &updatedAt)
		if err != nil {
			return nil, err
		}
		if createdAt.Valid {
			c.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			c.UpdatedAt = updatedAt.Time
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

func normalizeIndustry(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
