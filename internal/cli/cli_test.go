package cli

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"outreach/internal/config"
	"outreach/internal/database"
	"outreach/internal/fields"
	"outreach/internal/handlers"
	"outreach/internal/logging"
	"outreach/internal/service"
)

const leadsCSV = `Name,Email,Company,Industry
Alice,alice@acme.com,Acme,SaaS
Bob,bob@initech.io,Initech,Banking
Carol,carol@acme.com,Acme,SaaS
`

func newTestAPI(t *testing.T) string {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "cli.db"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{MetricsPath: "/metrics"}
	srv := httptest.NewServer(handlers.NewRouter(service.NewContactService(db, logging.Discard()), cfg, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, api string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--api", api, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func mappingLine(field, header string) string {
	return fmt.Sprintf("  %-10s <- %s\n", field, header)
}

func writeWorkbook(t *testing.T, sheets map[string][][]string, order ...string) string {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, values := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestImport_ManualMappingKeepsDerivedFields(t *testing.T) {
	api := newTestAPI(t)
	path := writeFile(t, "firms.csv", "Full Name,E-mail Address,Firm Name\nAlice,alice@acme.com,Acme Inc\n")

	out, err := run(t, api, "import", path, "--dry-run", "--map", "company=Firm Name")
	require.NoError(t, err, out)
	assert.Contains(t, out, mappingLine("name", "Full Name"))
	assert.Contains(t, out, mappingLine("email", "E-mail Address"))
	assert.Contains(t, out, mappingLine("company", "Firm Name"))
	assert.Contains(t, out, "alice@acme.com")
	assert.Contains(t, out, "Acme Inc")
	assert.Contains(t, out, "1 of 1 rows selected from sheet \"firms\"")

	out, err = run(t, api, "import", path, "--map", "company=Firm Name")
	require.NoError(t, err, out)
	assert.Contains(t, out, "inserted 1, updated 0, skipped 0, failed 0")

	out, err = run(t, api, "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "alice@acme.com")
	assert.Contains(t, out, "Acme Inc")
}

func TestImport_ClearAndAutoMap(t *testing.T) {
	api := newTestAPI(t)
	path := writeFile(t, "firms.csv", "Full Name,E-mail Address\nAlice,alice@acme.com\n")

	out, err := run(t, api, "import", path, "--dry-run", "--clear-map")
	require.NoError(t, err, out)
	assert.Contains(t, out, mappingLine("name", "(heuristic)"))
	assert.Contains(t, out, mappingLine("email", "(heuristic)"))
	assert.Contains(t, out, "Alice", "the name still resolves through the header heuristic")
	assert.NotContains(t, out, "alice@acme.com")

	out, err = run(t, api, "import", path, "--dry-run", "--clear-map", "--map", "email=E-mail Address")
	require.NoError(t, err, out)
	assert.Contains(t, out, mappingLine("name", "(heuristic)"))
	assert.Contains(t, out, mappingLine("email", "E-mail Address"))
	assert.Contains(t, out, "alice@acme.com")

	out, err = run(t, api, "import", path, "--dry-run", "--auto-map", "--map", "name=")
	require.NoError(t, err, out)
	assert.Contains(t, out, mappingLine("name", "(heuristic)"))
	assert.Contains(t, out, mappingLine("email", "E-mail Address"))
}

func TestImport_SheetAndExclude(t *testing.T) {
	api := newTestAPI(t)
	path := writeWorkbook(t, map[string][][]string{
		"Leads": {
			{"Name", "Email"},
			{"Ann", "ann@x.com"},
			{"Ben", "ben@x.com"},
			{"Cid", "cid@x.com"},
		},
		"Partners": {
			{"Name", "Email"},
			{"Pia", "pia@x.com"},
		},
	}, "Leads", "Partners")

	out, err := run(t, api, "import", path, "--dry-run", "--sheet", "Partners")
	require.NoError(t, err, out)
	assert.Contains(t, out, "pia@x.com")
	assert.NotContains(t, out, "ann@x.com")
	assert.Contains(t, out, "1 of 1 rows selected from sheet \"Partners\"")

	_, err = run(t, api, "import", path, "--dry-run", "--sheet", "Missing")
	assert.EqualError(t, err, `sheet "Missing" not found (have Leads, Partners)`)

	out, err = run(t, api, "import", path, "--exclude", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 of 3 rows selected from sheet \"Leads\"")
	assert.Contains(t, out, "inserted 2, updated 0, skipped 0, failed 0")

	out, err = run(t, api, "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ann@x.com")
	assert.Contains(t, out, "cid@x.com")
	assert.NotContains(t, out, "ben@x.com")
}

func TestImportListExportPurge(t *testing.T) {
	api := newTestAPI(t)
	csvPath := writeFile(t, "leads.csv", leadsCSV)

	out, err := run(t, api, "import", csvPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 of 3 rows selected from sheet \"leads\"")
	assert.Contains(t, out, "row 1: alice@acme.com — OK")
	assert.Contains(t, out, "inserted 3, updated 0, skipped 0, failed 0")

	// Every row is now on the loaded page and flagged as a duplicate.
	out, err = run(t, api, "import", csvPath)
	assert.EqualError(t, err, "no rows selected")
	assert.Contains(t, out, "duplicate")

	out, err = run(t, api, "list", "--query", "acme")
	require.NoError(t, err, out)
	assert.Contains(t, out, "alice@acme.com")
	assert.NotContains(t, out, "bob@initech.io")
	assert.Contains(t, out, "page 1 of 1 (2 contacts)")

	xlsxPath := filepath.Join(t.TempDir(), "out.xlsx")
	out, err = run(t, api, "export", "--out", xlsxPath)
	require.NoError(t, err, out)
	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"leads"}, f.GetSheetList())
	rows, err := f.GetRows("leads")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	require.NoError(t, f.Close())

	out, err = run(t, api, "purge", "--company", "Acme")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 contacts match")
	assert.NotContains(t, out, "deleted")

	out, err = run(t, api, "purge", "--yes")
	require.Error(t, err)
	assert.Contains(t, out, "WARNING: no filter set, all 3 contacts on this page match")

	out, err = run(t, api, "purge", "--company", "Acme", "--yes", "--cleanup-orphans")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleting... 2/2 (batch 1/1)")
	assert.Contains(t, out, "deleted 2 of 2 contacts")
	assert.Contains(t, out, "removed 1 orphaned companies")
	assert.Contains(t, out, "1 contacts remain")
}

func TestExportNothing(t *testing.T) {
	api := newTestAPI(t)
	path := filepath.Join(t.TempDir(), "empty.csv")

	out, err := run(t, api, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to export")
	assert.NoFileExists(t, path)
}

func TestAddEditRemove(t *testing.T) {
	api := newTestAPI(t)

	out, err := run(t, api, "add", "--name", "Dana", "--email", "dana@d.io")
	require.NoError(t, err, out)
	assert.Equal(t, "added contact 1\n", out)

	out, err = run(t, api, "edit", "1", "--role", "CTO")
	require.NoError(t, err, out)

	_, err = run(t, api, "edit", "1")
	assert.EqualError(t, err, "nothing to update")

	out, err = run(t, api, "rm", "1")
	require.NoError(t, err, out)
	assert.Equal(t, "deleted contact 1\n", out)

	_, err = run(t, api, "rm", "1")
	assert.Error(t, err)
}

func TestParseMapping(t *testing.T) {
	f, header, err := parseMapping("leadSource= Campaign ")
	require.NoError(t, err)
	assert.Equal(t, fields.LeadSource, f)
	assert.Equal(t, "Campaign", header)

	_, _, err = parseMapping("company")
	assert.Error(t, err)

	_, _, err = parseMapping("fax=Fax")
	assert.Error(t, err)
}

func TestTriState(t *testing.T) {
	v, err := triState("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = triState("false")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = triState("maybe")
	assert.Error(t, err)
}
