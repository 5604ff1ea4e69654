// Package client talks to the contact API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"outreach/internal/models"
)

// APIError is a non-success response of the contact API
type APIError struct {
	Status  int
	Code    string
	Message string
	Report  []models.RowResult
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Client is a thin JSON client for the contact API
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, timeout time.Duration, log *logrus.Entry) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// ListQuery selects one page of contacts
type ListQuery struct {
	Limit  int
	Offset int
	Query  string
}

// List fetches one server-filtered page of contacts
func (c *Client) List(ctx context.Context, q ListQuery) (*models.ContactPage, error) {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	var page models.ContactPage
	if err := c.do(ctx, http.MethodGet, "/api/contacts?"+v.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Create adds a single contact
func (c *Client) Create(ctx context.Context, req models.CreateContactRequest) (*models.Contact, error) {
	var out models.Contact
	if err := c.do(ctx, http.MethodPost, "/api/contacts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches a contact
func (c *Client) Update(ctx context.Context, id int64, patch models.ContactPatch) (*models.Contact, error) {
	var out models.Contact
	if err := c.do(ctx, http.MethodPatch, contactPath(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteContact removes a contact
func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, contactPath(id), nil, nil)
}

// BulkImport submits rows to the bulk upsert endpoint. A rejected import is
// returned as *APIError carrying the per-row report.
func (c *Client) BulkImport(ctx context.Context, req models.BulkRequest) (*models.BulkResponse, error) {
	var out models.BulkResponse
	if err := c.do(ctx, http.MethodPost, "/api/contacts/bulk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CleanupOrphanedCompanies removes companies left without contacts
func (c *Client) CleanupOrphanedCompanies(ctx context.Context) (int, error) {
	var out models.CleanupResult
	if err := c.do(ctx, http.MethodPost, "/api/companies/cleanup-orphaned", nil, &out); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

// WhatsAppInvite asks the backend to send a demo invite
func (c *Client) WhatsAppInvite(ctx context.Context, inv models.WhatsAppInvite) error {
	var out models.InviteResponse
	if err := c.do(ctx, http.MethodPost, "/api/demo/whatsapp-invite", inv, &out); err != nil {
		return err
	}
	if !out.Success {
		return &APIError{Status: http.StatusOK, Message: out.Error}
	}
	return nil
}

func contactPath(id int64) string {
	return "/api/contacts/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{"method": method, "path": path, "status": resp.StatusCode}).Debug("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var env struct {
		Error   string             `json:"error"`
		Message string             `json:"message"`
		Code    string             `json:"code"`
		Report  []models.RowResult `json:"report"`
		Errors  []models.RowResult `json:"errors"`
		Details []models.RowResult `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &env); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	apiErr.Code = env.Code
	apiErr.Message = env.Error
	if apiErr.Message == "" {
		apiErr.Message = env.Message
	}
	switch {
	case len(env.Report) > 0:
		apiErr.Report = env.Report
	case len(env.Errors) > 0:
		apiErr.Report = env.Errors
	default:
		apiErr.Report = env.Details
	}
	return apiErr
}
