package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"outreach/internal/models"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor a workbook
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Sheet is one named group of raw rows
type Sheet struct {
	Name    string
	Headers []string
	Rows    []models.RawRow
}

// Workbook is the parsed content of one uploaded file
type Workbook struct {
	Sheets []Sheet
}

// Headers returns the header list used for column mapping: the first sheet's
func (wb *Workbook) Headers() []string {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil
	}
	return wb.Sheets[0].Headers
}

// Sheet returns the sheet with the given name
func (wb *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Parse reads an uploaded CSV or spreadsheet file. name is the original file
// name; its extension selects the decoder and, for CSV, its base name becomes
// the sheet name.
func Parse(name string, r io.Reader) (*Workbook, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		sheet, err := parseCSV(r)
		if err != nil {
			return nil, err
		}
		sheet.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		return &Workbook{Sheets: []Sheet{sheet}}, nil
	case ".xlsx", ".xlsm":
		return parseWorkbook(r)
	case ".xls":
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q is a legacy .xls workbook, save it as .xlsx or .csv", name)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", name)
	}
}

func parseCSV(r io.Reader) (Sheet, error) {
	br := stripUTF8BOM(bufio.NewReader(r))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var sheet Sheet
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sheet{}, errors.Wrap(err, "read csv")
		}
		if blankRecord(record) {
			continue
		}
		if sheet.Headers == nil {
			sheet.Headers = make([]string, len(record))
			for i, h := range record {
				sheet.Headers[i] = cleanCell(h)
			}
			continue
		}
		sheet.Rows = append(sheet.Rows, zip(sheet.Headers, record))
	}
	return sheet, nil
}

func parseWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	wb := &Workbook{}
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrapf(err, "read sheet %q", name)
		}
		sheet := Sheet{Name: name}
		for _, record := range rows {
			if blankRecord(record) {
				continue
			}
			if sheet.Headers == nil {
				sheet.Headers = workbookHeaders(record)
				continue
			}
			sheet.Rows = append(sheet.Rows, zip(sheet.Headers, record))
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// workbookHeaders names blank header cells __EMPTY, __EMPTY_1, ...
func workbookHeaders(record []string) []string {
	headers := make([]string, len(record))
	empty := 0
	for i, h := range record {
		h = cleanCell(h)
		if h == "" {
			if empty == 0 {
				h = "__EMPTY"
			} else {
				h = fmt.Sprintf("__EMPTY_%d", empty)
			}
			empty++
		}
		headers[i] = h
	}
	return headers
}

func zip(headers, record []string) models.RawRow {
	row := make(models.RawRow, 0, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		v := ""
		if i < len(record) {
			v = cleanCell(record[i])
		}
		row = append(row, models.Cell{Header: h, Value: v})
	}
	return row
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
