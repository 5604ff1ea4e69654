package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"outreach/internal/export"
	"outreach/internal/pager"
)

func newExportCmd(a *app) *cobra.Command {
	var out, format, query string
	var page int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current contact page to CSV or a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
			}

			p := pager.New(a.cfg.PageSize).WithQuery(query)
			p.Page = max(page-1, 0)
			_, contacts, err := a.fetchPage(cmd.Context(), p)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case "csv":
				err = export.WriteCSV(&buf, contacts)
			case "xlsx":
				err = export.WriteWorkbook(&buf, contacts)
			default:
				return errors.Errorf("unsupported export format %q (want csv or xlsx)", format)
			}
			if errors.Is(err, export.ErrNothingToExport) {
				fmt.Fprintln(a.out, "nothing to export")
				return nil
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return errors.Wrap(err, "write export file")
			}
			fmt.Fprintf(a.out, "exported %d contacts to %s\n", len(contacts), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (required)")
	cmd.Flags().StringVar(&format, "format", "", "csv or xlsx (default: from the output extension)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search text")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
