package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"outreach/internal/client"
	"outreach/internal/fields"
	"outreach/internal/importer"
	"outreach/internal/models"
	"outreach/internal/pager"
)

type importOptions struct {
	path           string
	mappings       []string
	autoMap        bool
	clearMap       bool
	sheet          string
	exclude        []int
	updateExisting bool
	dryRun         bool
	query          string
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import contacts from a CSV or spreadsheet file",
		Long: `Parses FILE, maps its columns to contact fields, previews the rows and
submits the selected ones to the bulk endpoint. Rows whose email already
appears on the loaded contact page are flagged as duplicates and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.path = args[0]
			return runImport(cmd.Context(), a, opts)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&opts.mappings, "map", nil, "Manual mapping field=Header (repeatable)")
	f.BoolVar(&opts.autoMap, "auto-map", false, "Re-derive the column mapping from the headers")
	f.BoolVar(&opts.clearMap, "clear-map", false, "Unmap every field and rely on header heuristics")
	f.StringVar(&opts.sheet, "sheet", "", "Sheet to import (default: first)")
	f.IntSliceVar(&opts.exclude, "exclude", nil, "Row numbers to leave out")
	f.BoolVar(&opts.updateExisting, "update-existing", false, "Update contacts matching by email or phone instead of skipping them")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Only print the preview")
	f.StringVarP(&opts.query, "query", "q", "", "Search text of the contact page used for duplicate detection")
	return cmd
}

func runImport(ctx context.Context, a *app, opts importOptions) error {
	log := a.entry("import")

	p := pager.New(a.cfg.PageSize).WithQuery(opts.query)
	_, existing, err := a.fetchPage(ctx, p)
	if err != nil {
		return errors.Wrap(err, "load contacts")
	}

	file, err := os.Open(opts.path)
	if err != nil {
		return errors.Wrap(err, "open import file")
	}
	defer file.Close()

	wb, err := importer.Parse(filepath.Base(opts.path), file)
	if err != nil {
		return errors.Wrap(err, "parse import file")
	}

	sess := importer.NewSession(existing)
	sess.Load(wb)

	if opts.sheet != "" && !sess.SelectSheet(opts.sheet) {
		return errors.Errorf("sheet %q not found (have %s)", opts.sheet, strings.Join(sess.Sheets(), ", "))
	}
	switch {
	case opts.clearMap:
		sess.ClearMapping()
	case opts.autoMap:
		sess.AutoMap()
	}
	// Manual assignments override single fields of the derived mapping.
	for _, m := range opts.mappings {
		f, header, err := parseMapping(m)
		if err != nil {
			return err
		}
		sess.SetMapping(f, header)
	}
	for _, n := range opts.exclude {
		sess.SetIncluded(n-1, false)
	}

	printMapping(a.out, sess.Mapping())
	printPreview(a.out, sess.Preview())

	included := sess.Included()
	fmt.Fprintf(a.out, "%d of %d rows selected from sheet %q\n", len(included), len(sess.Preview()), sess.SelectedSheet())
	if opts.dryRun {
		return nil
	}
	if len(included) == 0 {
		return errors.New("no rows selected")
	}

	req := models.BulkRequest{
		Contacts:       sess.Payload(),
		Preview:        true,
		Commit:         true,
		UpdateExisting: opts.updateExisting,
	}
	resp, importErr := a.client.BulkImport(ctx, req)
	sess.Reset()

	var report []models.RowResult
	var apiErr *client.APIError
	switch {
	case importErr == nil:
		report = resp.Report
	case errors.As(importErr, &apiErr):
		report = apiErr.Report
	}
	for _, line := range importer.FormatReport(report) {
		fmt.Fprintln(a.out, line)
	}

	if _, after, err := a.fetchPage(ctx, p); err != nil {
		log.WithError(err).Warn("refresh after import failed")
	} else {
		fmt.Fprintf(a.out, "contact page now holds %d contacts\n", len(after))
	}

	if importErr != nil {
		return errors.Wrap(importErr, "bulk import")
	}
	fmt.Fprintf(a.out, "inserted %d, updated %d, skipped %d, failed %d\n", resp.Inserted, resp.Updated, resp.Skipped, resp.Failed)
	return nil
}

func parseMapping(s string) (fields.Field, string, error) {
	key, header, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", errors.Errorf("invalid --map %q, want field=Header", s)
	}
	f, ok := fields.Parse(strings.TrimSpace(key))
	if !ok {
		return "", "", errors.Errorf("unknown field %q in --map", key)
	}
	return f, strings.TrimSpace(header), nil
}

func printMapping(w io.Writer, m models.ColumnMap) {
	fmt.Fprintln(w, "column mapping:")
	for _, f := range fields.All {
		h := m[f]
		if h == "" {
			h = "(heuristic)"
		}
		fmt.Fprintf(w, "  %-10s <- %s\n", f, h)
	}
}

func printPreview(w io.Writer, rows []importer.PreviewRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tINCLUDE\tNAME\tEMAIL\tCOMPANY\tSOURCE\tNOTE")
	for _, r := range rows {
		mark := "yes"
		if !r.Included {
			mark = "no"
		}
		note := ""
		if r.Duplicate {
			note = "duplicate"
		}
		c := r.Contact
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Index+1, mark, c.Name, c.Email, c.Company, c.LeadSource, note)
	}
	_ = tw.Flush()
}
