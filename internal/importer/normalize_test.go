package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach/internal/fields"
	"outreach/internal/models"
)

func row(kv ...string) models.RawRow {
	r := make(models.RawRow, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r = append(r, models.Cell{Header: kv[i], Value: kv[i+1]})
	}
	return r
}

func TestNormalize_CSVScenario(t *testing.T) {
	t.Parallel()

	r := row("Name", "Alice", "Email", "alice@x.com", "Company", "Acme")
	m := AutoMap([]string{"Name", "Email", "Company"})

	c := Normalize(r, "leads", m)

	require.Equal(t, models.Contact{
		Name:       "Alice",
		Email:      "alice@x.com",
		Company:    "Acme",
		LeadSource: "leads",
		Industry:   "",
		Sheet:      "leads",
	}, c)
}

func TestNormalize_SheetAlwaysSet(t *testing.T) {
	t.Parallel()

	r := row("sheet", "other", "Name", "Bob")
	assert.Equal(t, "Q3 list", Normalize(r, "Q3 list", models.ColumnMap{}).Sheet)
	assert.Equal(t, "", Normalize(r, "", nil).Sheet)
}

func TestNormalize_LeadSourceFallbacks(t *testing.T) {
	t.Parallel()

	r := row("Name", "Bob")
	assert.Equal(t, "Conference", Normalize(r, "Conference", models.ColumnMap{}).LeadSource)
	assert.Equal(t, UnknownSource, Normalize(r, "", models.ColumnMap{}).LeadSource)
}

func TestNormalize_LeadSourceSweep(t *testing.T) {
	t.Parallel()

	r := row("Name", "Bob", "UTM Source", "  ", "Campaign", "spring-promo")
	c := Normalize(r, "sheet", nil)

	assert.Equal(t, "spring-promo", c.LeadSource)
}

func TestNormalize_LinkedInSweep(t *testing.T) {
	t.Parallel()

	r := row("Name", "Bob", "Profile URL", "https://linkedin.com/in/bob")
	assert.Equal(t, "https://linkedin.com/in/bob", Normalize(r, "", nil).LinkedIn)
}

func TestNormalize_SweepMatchesShortHeaders(t *testing.T) {
	t.Parallel()

	r := row("Name", "Bob", "Lead", "webinar")
	assert.Equal(t, "webinar", Normalize(r, "sheet", nil).LeadSource)

	r = row("Name", "Bob", "Social", "  ", "Profile", "https://linkedin.com/in/bob")
	assert.Equal(t, "https://linkedin.com/in/bob", Normalize(r, "", nil).LinkedIn)
}

func TestNormalize_MappedHeaderWins(t *testing.T) {
	t.Parallel()

	r := row("name", "from key", "Contact", "from map")
	c := Normalize(r, "", models.ColumnMap{fields.Name: "Contact"})
	assert.Equal(t, "from map", c.Name)

	// An empty mapped value falls through to the field-named key.
	r = row("name", "from key", "Contact", "")
	c = Normalize(r, "", models.ColumnMap{fields.Name: "Contact"})
	assert.Equal(t, "from key", c.Name)
}

func TestNormalize_ContainsKeyFallback(t *testing.T) {
	t.Parallel()

	r := row("Mobile", "", "Phone (work)", "+1 555 0100")
	assert.Equal(t, "+1 555 0100", Normalize(r, "", nil).Phone)
}

func TestNormalize_Industry(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"  SaaS ", "saas"},
		{"FinTech", "fintech"},
		{"   ", "   "},
		{"", ""},
	}
	for _, tc := range cases {
		r := row("Industry", tc.raw)
		assert.Equal(t, tc.want, Normalize(r, "", nil).Industry, "raw %q", tc.raw)
	}
}

func TestNormalize_MissingEverything(t *testing.T) {
	t.Parallel()

	c := Normalize(nil, "", nil)
	assert.Equal(t, models.Contact{LeadSource: UnknownSource}, c)
}
