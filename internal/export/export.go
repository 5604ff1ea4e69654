package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"outreach/internal/models"
)

// ErrNothingToExport is returned for an empty contact list; no output is written
var ErrNothingToExport = errors.New("no contacts to export")

// DefaultSheet names the workbook sheet of contacts without provenance
const DefaultSheet = "Contacts"

const maxSheetName = 31

var (
	csvHeader      = []string{"Name", "Role", "Email", "LinkedIn", "Phone", "LeadSource", "Company"}
	workbookHeader = []string{"Name", "Role", "Email", "LinkedIn", "Phone", "LeadSource", "Company", "City", "Industry"}
)

// WriteCSV writes contacts as CSV with every value double-quoted
func WriteCSV(w io.Writer, contacts []models.Contact) error {
	if len(contacts) == 0 {
		return ErrNothingToExport
	}
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\n")
	for _, c := range contacts {
		values := []string{c.Name, c.Role, c.Email, c.LinkedIn, c.Phone, c.LeadSource, c.Company}
		for i, v := range values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(v))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write csv")
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// WriteWorkbook writes one sheet per distinct contact sheet value, in order of
// first appearance. Values whose worksheet names collide get a numbered suffix.
func WriteWorkbook(w io.Writer, contacts []models.Contact) error {
	if len(contacts) == 0 {
		return ErrNothingToExport
	}

	var order []string
	groups := make(map[string][]models.Contact)
	for _, c := range contacts {
		key := strings.TrimSpace(c.Sheet)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	used := make(map[string]struct{}, len(order))
	for i, key := range order {
		name := uniqueSheetName(SheetName(key), used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return errors.Wrapf(err, "name sheet %q", name)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "create sheet %q", name)
		}
		if err := writeSheet(f, name, groups[key]); err != nil {
			return err
		}
	}

	return errors.Wrap(f.Write(w), "write workbook")
}

// uniqueSheetName returns name, or name with a " (n)" suffix when a sheet of
// the same case-folded name already exists. The result is recorded in used.
func uniqueSheetName(name string, used map[string]struct{}) string {
	candidate := name
	for n := 2; ; n++ {
		if _, taken := used[strings.ToLower(candidate)]; !taken {
			break
		}
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if limit := maxSheetName - len(suffix); len(base) > limit {
			base = base[:limit]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

func writeSheet(f *excelize.File, sheet string, contacts []models.Contact) error {
	if err := f.SetSheetRow(sheet, "A1", &workbookHeader); err != nil {
		return errors.Wrapf(err, "write header of %q", sheet)
	}
	for i, c := range contacts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []string{c.Name, c.Role, c.Email, c.LinkedIn, c.Phone, c.LeadSource, c.Company, c.City, c.Industry}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d of %q", i+1, sheet)
		}
	}
	return nil
}

// SheetName turns a contact's sheet value into a valid worksheet name
func SheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.Trim(s, "'")
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	if s == "" {
		return DefaultSheet
	}
	return s
}
