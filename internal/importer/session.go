package importer

import (
	"outreach/internal/fields"
	"outreach/internal/models"
)

// PreviewRow is one normalized row as shown before commit
type PreviewRow struct {
	Index     int
	Contact   models.Contact
	Duplicate bool
	Included  bool
}

// Session holds the state of one import: raw rows per sheet, the active
// column map, the normalized rows per sheet, the selected sheet and the row
// selection. A Session is not safe for concurrent use.
type Session struct {
	headers    []string
	sheetNames []string
	raw        map[string][]models.RawRow
	rows       map[string][]models.Contact
	mapping    models.ColumnMap
	selected   string
	selection  map[int]bool
	existing   map[string]struct{}
}

// NewSession starts an empty session. existing is the currently loaded
// contact page; rows whose email appears there are flagged as duplicates.
func NewSession(existing []models.Contact) *Session {
	s := &Session{mapping: make(models.ColumnMap)}
	s.SetExisting(existing)
	s.Reset()
	return s
}

// SetExisting replaces the contacts used for duplicate detection
func (s *Session) SetExisting(existing []models.Contact) {
	s.existing = make(map[string]struct{}, len(existing))
	for _, c := range existing {
		if k := c.EmailKey(); k != "" {
			s.existing[k] = struct{}{}
		}
	}
}

// Load replaces the session content with a freshly parsed workbook. The
// column map is derived automatically only when none is set yet.
func (s *Session) Load(wb *Workbook) {
	s.Reset()
	s.headers = append([]string(nil), wb.Headers()...)
	if s.mapping.IsEmpty() {
		s.mapping = AutoMap(s.headers)
	}
	for _, sheet := range wb.Sheets {
		s.sheetNames = append(s.sheetNames, sheet.Name)
		s.raw[sheet.Name] = sheet.Rows
		s.rows[sheet.Name] = normalizeAll(sheet.Rows, sheet.Name, s.mapping)
	}
	if len(s.sheetNames) > 0 {
		s.selected = s.sheetNames[0]
	}
}

// Reset discards raw rows, previews, the selected sheet and the row
// selection. The column map survives so a follow-up file reuses it.
func (s *Session) Reset() {
	s.headers = nil
	s.sheetNames = nil
	s.raw = make(map[string][]models.RawRow)
	s.rows = make(map[string][]models.Contact)
	s.selected = ""
	s.selection = make(map[int]bool)
}

// Headers returns the header list offered for mapping
func (s *Session) Headers() []string { return s.headers }

// Sheets returns the sheet names in file order
func (s *Session) Sheets() []string { return s.sheetNames }

// SelectedSheet returns the sheet currently previewed
func (s *Session) SelectedSheet() string { return s.selected }

// Mapping returns a copy of the active column map
func (s *Session) Mapping() models.ColumnMap { return s.mapping.Clone() }

// SetMapping assigns header to f (an empty header unmaps it) and re-normalizes
// the selected sheet.
func (s *Session) SetMapping(f fields.Field, header string) {
	if header == "" {
		delete(s.mapping, f)
	} else {
		s.mapping[f] = header
	}
	s.renormalize()
}

// AutoMap re-derives the column map from the headers, discarding manual
// assignments, and re-normalizes the selected sheet.
func (s *Session) AutoMap() {
	s.mapping = AutoMap(s.headers)
	s.renormalize()
}

// ClearMapping unmaps every field and re-normalizes the selected sheet
func (s *Session) ClearMapping() {
	s.mapping = make(models.ColumnMap)
	s.renormalize()
}

// SelectSheet switches the preview to name. Rows are not re-normalized and
// the row selection starts over.
func (s *Session) SelectSheet(name string) bool {
	if _, ok := s.raw[name]; !ok {
		return false
	}
	if name != s.selected {
		s.selected = name
		s.selection = make(map[int]bool)
	}
	return true
}

// SetIncluded includes or excludes a preview row. Duplicates stay excluded.
func (s *Session) SetIncluded(index int, include bool) {
	rows := s.rows[s.selected]
	if index < 0 || index >= len(rows) || s.isDuplicate(rows[index]) {
		return
	}
	s.selection[index] = include
}

// Preview returns the normalized rows of the selected sheet
func (s *Session) Preview() []PreviewRow {
	rows := s.rows[s.selected]
	out := make([]PreviewRow, len(rows))
	for i, c := range rows {
		dup := s.isDuplicate(c)
		out[i] = PreviewRow{
			Index:     i,
			Contact:   c,
			Duplicate: dup,
			Included:  !dup && s.included(i),
		}
	}
	return out
}

// Included returns the indexes of the rows that will be submitted
func (s *Session) Included() []int {
	var out []int
	for _, r := range s.Preview() {
		if r.Included {
			out = append(out, r.Index)
		}
	}
	return out
}

func (s *Session) included(i int) bool {
	v, ok := s.selection[i]
	return !ok || v
}

func (s *Session) isDuplicate(c models.Contact) bool {
	k := c.EmailKey()
	if k == "" {
		return false
	}
	_, ok := s.existing[k]
	return ok
}

func (s *Session) renormalize() {
	if s.selected == "" {
		return
	}
	s.rows[s.selected] = normalizeAll(s.raw[s.selected], s.selected, s.mapping)
}

func normalizeAll(rows []models.RawRow, sheet string, m models.ColumnMap) []models.Contact {
	out := make([]models.Contact, len(rows))
	for i, r := range rows {
		out[i] = Normalize(r, sheet, m)
	}
	return out
}
