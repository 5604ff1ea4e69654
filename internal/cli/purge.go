package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"outreach/internal/pager"
	"outreach/internal/purge"
)

type purgeOptions struct {
	filters        purge.Filters
	hasPhone       string
	hasLinkedIn    string
	query          string
	page           int
	facets         bool
	yes            bool
	all            bool
	cleanupOrphans bool
}

func newPurgeCmd(a *app) *cobra.Command {
	var opts purgeOptions
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Preview and delete the contacts of the loaded page that match a filter",
		Long: `Filters apply to the contact page selected by --query and --page only.
Without --yes the matching contacts are previewed and nothing is deleted.
An empty filter matches the whole page and additionally requires --all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.filters.HasPhone, err = triState(opts.hasPhone); err != nil {
				return errors.Wrap(err, "--has-phone")
			}
			if opts.filters.HasLinkedIn, err = triState(opts.hasLinkedIn); err != nil {
				return errors.Wrap(err, "--has-linkedin")
			}
			return runPurge(cmd.Context(), a, opts)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&opts.filters.Industries, "industry", nil, "Industries to match")
	f.StringSliceVar(&opts.filters.Companies, "company", nil, "Companies to match")
	f.StringSliceVar(&opts.filters.Cities, "city", nil, "Cities to match")
	f.StringSliceVar(&opts.filters.EmailDomains, "email-domain", nil, "Email domains to match")
	f.StringSliceVar(&opts.filters.Sources, "source", nil, "Lead sources to match")
	f.StringVar(&opts.hasPhone, "has-phone", "", "true or false")
	f.StringVar(&opts.hasLinkedIn, "has-linkedin", "", "true or false")
	f.StringVar(&opts.filters.Search, "search", "", "Text matched against name, email, company, role and source")
	f.StringVarP(&opts.query, "query", "q", "", "Search text of the contact page to load")
	f.IntVar(&opts.page, "page", 1, "Page number to load")
	f.BoolVar(&opts.facets, "facets", false, "Print the filter options of the loaded page")
	f.BoolVar(&opts.yes, "yes", false, "Delete the matching contacts")
	f.BoolVar(&opts.all, "all", false, "Allow an empty filter that matches the whole page")
	f.BoolVar(&opts.cleanupOrphans, "cleanup-orphans", false, "Remove companies left without contacts afterwards")
	return cmd
}

func runPurge(ctx context.Context, a *app, opts purgeOptions) error {
	p := pager.New(a.cfg.PageSize).WithQuery(opts.query)
	p.Page = max(opts.page-1, 0)
	p, contacts, err := a.fetchPage(ctx, p)
	if err != nil {
		return errors.Wrap(err, "load contacts")
	}

	if opts.facets {
		printFacets(a.out, purge.BuildFacets(contacts))
	}

	preview := purge.BuildPreview(contacts, opts.filters)
	printPurgePreview(a.out, preview, len(contacts))

	if !opts.yes {
		return nil
	}
	if preview.MatchesAll && !opts.all {
		return errors.New("the filter is empty and would delete the whole page; pass --all to confirm")
	}
	if preview.Total == 0 {
		return nil
	}

	exec := purge.NewExecutor(a.client, a.cfg.DeleteBatchSize, a.entry("purge"))
	res, err := exec.Run(ctx, preview.Matches, purge.RunOptions{
		CleanupOrphans: opts.cleanupOrphans,
		OnProgress: func(pr purge.Progress) {
			fmt.Fprintln(a.out, pr.Message())
		},
	})
	if err != nil {
		return errors.Wrap(err, "delete contacts")
	}

	fmt.Fprintf(a.out, "deleted %d of %d contacts\n", res.Deleted, res.Requested)
	for _, f := range res.Failures {
		fmt.Fprintf(a.out, "  contact %d: %v\n", f.ID, f.Err)
	}
	if opts.cleanupOrphans {
		if res.CleanupErr != nil {
			fmt.Fprintf(a.out, "orphaned company cleanup failed: %v\n", res.CleanupErr)
		} else {
			fmt.Fprintf(a.out, "removed %d orphaned companies\n", res.OrphansDeleted)
		}
	}

	if p, _, err = a.fetchPage(ctx, p); err != nil {
		a.entry("purge").WithError(err).Warn("refresh after purge failed")
	} else {
		fmt.Fprintf(a.out, "%d contacts remain\n", p.Total)
	}
	return nil
}

func triState(s string) (*bool, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func printFacets(w io.Writer, f purge.Facets) {
	fmt.Fprintln(w, "filter options on this page:")
	fmt.Fprintf(w, "  industries:    %s\n", strings.Join(f.Industries, ", "))
	fmt.Fprintf(w, "  companies:     %s\n", strings.Join(f.Companies, ", "))
	fmt.Fprintf(w, "  cities:        %s\n", strings.Join(f.Cities, ", "))
	fmt.Fprintf(w, "  email domains: %s\n", strings.Join(f.EmailDomains, ", "))
	fmt.Fprintf(w, "  sources:       %s\n", strings.Join(f.Sources, ", "))
}

func printPurgePreview(w io.Writer, p purge.Preview, pageSize int) {
	if p.MatchesAll {
		fmt.Fprintf(w, "WARNING: no filter set, all %d contacts on this page match\n", pageSize)
	}
	fmt.Fprintf(w, "%d contacts match\n", p.Total)
	for _, k := range []string{purge.BreakdownIndustries, purge.BreakdownCompanies, purge.BreakdownWithPhone, purge.BreakdownWithLinkedIn} {
		fmt.Fprintf(w, "  %s: %d\n", k, p.Breakdown[k])
	}
	if len(p.Sample) > 0 {
		printContacts(w, p.Sample)
	}
	if more := p.Total - len(p.Sample); more > 0 {
		fmt.Fprintf(w, "... and %d more\n", more)
	}
}
