package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach/internal/database"
	"outreach/internal/logging"
	"outreach/internal/models"
)

func newTestService(t *testing.T) *ContactService {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewContactService(db, logging.Discard())
}

func strPtr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	c, err := svc.Create(ctx, models.CreateContactRequest{
		Name:     "  Alice ",
		Email:    "alice@acme.com",
		Company:  "Acme",
		Industry: " SaaS ",
	})
	require.NoError(t, err)
	require.NotZero(t, c.ID)
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, "saas", c.Industry)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "saas", got.Industry)

	_, err = svc.Get(ctx, c.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, models.CreateContactRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, models.CreateContactRequest{Name: "A", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, models.CreateContactRequest{Name: "No Email"})
	assert.NoError(t, err)
}

func TestList_PaginationAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for i := 0; i < 7; i++ {
		company := "Acme"
		if i%2 == 1 {
			company = "Initech"
		}
		_, err := svc.Create(ctx, models.CreateContactRequest{
			Name:    fmt.Sprintf("Person %d", i),
			Email:   fmt.Sprintf("p%d@example.com", i),
			Company: company,
		})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListQuery{Limit: 3, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	require.Len(t, page.Contacts, 3)
	assert.Equal(t, "Person 6", page.Contacts[0].Name, "newest first")

	page, err = svc.List(ctx, ListQuery{Limit: 3, Offset: 6})
	require.NoError(t, err)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "Person 0", page.Contacts[0].Name)

	page, err = svc.List(ctx, ListQuery{Limit: 10, Query: "  INITECH "})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Contacts, 3)

	page, err = svc.List(ctx, ListQuery{Limit: 10, Query: "nobody"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Contacts)
	assert.Empty(t, page.Contacts)

	page, err = svc.List(ctx, ListQuery{Limit: 0, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	c, err := svc.Create(ctx, models.CreateContactRequest{Name: "Bob", Email: "bob@x.com", City: "Paris"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, models.ContactPatch{Role: strPtr("CTO"), Industry: strPtr("FinTech")})
	require.NoError(t, err)
	assert.Equal(t, "CTO", updated.Role)
	assert.Equal(t, "fintech", updated.Industry)
	assert.Equal(t, "Paris", updated.City, "untouched fields survive")

	_, err = svc.Update(ctx, c.ID, models.ContactPatch{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, c.ID, models.ContactPatch{Email: strPtr("broken")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, 9999, models.ContactPatch{Role: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_Name(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	c, err := svc.Create(ctx, models.CreateContactRequest{Name: "Bob"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, c.ID, models.ContactPatch{Name: strPtr("   ")})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	updated, err := svc.Update(ctx, c.ID, models.ContactPatch{Name: strPtr("  Robert ")})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)
}

func TestDeleteAndCleanupOrphanedCompanies(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	a, err := svc.Create(ctx, models.CreateContactRequest{Name: "A", Company: "Acme"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, models.CreateContactRequest{Name: "B", Company: "Initech"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.CreateContactRequest{Name: "C", Company: "Initech"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)

	n, err := svc.CleanupOrphanedCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only Acme lost all its contacts")

	n, err = svc.CleanupOrphanedCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestQueueInvite(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	err := svc.QueueInvite(ctx, models.WhatsAppInvite{Phone: " +49 151 ", Name: "Dana", DemoURL: "https://demo.example.com"})
	require.NoError(t, err)

	var phone string
	require.NoError(t, svc.db.Conn.QueryRowContext(ctx, `SELECT phone FROM demo_invites`).Scan(&phone))
	assert.Equal(t, "+49 151", phone)

	err = svc.QueueInvite(ctx, models.WhatsAppInvite{Phone: "+1", Name: "X", DemoURL: "not a url"})
	assert.True(t, errors.Is(err, ErrValidation))

	err = svc.QueueInvite(ctx, models.WhatsAppInvite{Name: "X", DemoURL: "https://demo.example.com"})
	assert.True(t, errors.Is(err, ErrValidation))
}
