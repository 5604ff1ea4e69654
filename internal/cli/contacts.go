package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"outreach/internal/models"
	"outreach/internal/pager"
)

func newListCmd(a *app) *cobra.Command {
	var query string
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pager.New(a.cfg.PageSize).WithQuery(query)
			p.Page = max(page-1, 0)
			p, contacts, err := a.fetchPage(cmd.Context(), p)
			if err != nil {
				return err
			}
			printContacts(a.out, contacts)
			fmt.Fprintf(a.out, "page %d of %d (%d contacts)\n", p.Page+1, p.Pages(), p.Total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search text")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var req models.CreateContactRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client.Create(cmd.Context(), req)
			if err != nil {
				return errors.Wrap(err, "add contact")
			}
			fmt.Fprintf(a.out, "added contact %d\n", c.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Name (required)")
	f.StringVar(&req.Role, "role", "", "Role")
	f.StringVar(&req.Email, "email", "", "Email")
	f.StringVar(&req.LinkedIn, "linkedin", "", "LinkedIn URL")
	f.StringVar(&req.Phone, "phone", "", "Phone")
	f.StringVar(&req.LeadSource, "lead-source", "", "Lead source")
	f.StringVar(&req.Company, "company", "", "Company")
	f.StringVar(&req.City, "city", "", "City")
	f.StringVar(&req.Industry, "industry", "", "Industry")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var v models.Contact
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update fields of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid contact id %q", args[0])
			}
			f := cmd.Flags()
			pick := func(name string, val *string) *string {
				if f.Changed(name) {
					return val
				}
				return nil
			}
			patch := models.ContactPatch{
				Name:       pick("name", &v.Name),
				Role:       pick("role", &v.Role),
				Email:      pick("email", &v.Email),
				LinkedIn:   pick("linkedin", &v.LinkedIn),
				Phone:      pick("phone", &v.Phone),
				LeadSource: pick("lead-source", &v.LeadSource),
				Company:    pick("company", &v.Company),
				City:       pick("city", &v.City),
				Industry:   pick("industry", &v.Industry),
			}
			if patch.Empty() {
				return errors.New("nothing to update")
			}
			if _, err := a.client.Update(cmd.Context(), id, patch); err != nil {
				return errors.Wrapf(err, "update contact %d", id)
			}
			fmt.Fprintf(a.out, "updated contact %d\n", id)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&v.Name, "name", "", "Name")
	f.StringVar(&v.Role, "role", "", "Role")
	f.StringVar(&v.Email, "email", "", "Email")
	f.StringVar(&v.LinkedIn, "linkedin", "", "LinkedIn URL")
	f.StringVar(&v.Phone, "phone", "", "Phone")
	f.StringVar(&v.LeadSource, "lead-source", "", "Lead source")
	f.StringVar(&v.Company, "company", "", "Company")
	f.StringVar(&v.City, "city", "", "City")
	f.StringVar(&v.Industry, "industry", "", "Industry")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid contact id %q", args[0])
			}
			if err := a.client.DeleteContact(cmd.Context(), id); err != nil {
				return errors.Wrapf(err, "delete contact %d", id)
			}
			fmt.Fprintf(a.out, "deleted contact %d\n", id)
			return nil
		},
	}
}

func printContacts(w io.Writer, contacts []models.Contact) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCOMPANY\tINDUSTRY\tSOURCE")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Company, c.Industry, c.LeadSource)
	}
	_ = tw.Flush()
}
