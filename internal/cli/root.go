// Package cli implements the outreach command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"outreach/internal/client"
	"outreach/internal/config"
	"outreach/internal/logging"
	"outreach/internal/models"
	"outreach/internal/pager"
)

type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	client *client.Client
	out    io.Writer
}

func (a *app) entry(component string) *logrus.Entry {
	return a.log.WithField("component", component)
}

// fetchPage loads one page of the contact list as the dashboard would
func (a *app) fetchPage(ctx context.Context, p pager.Pager) (pager.Pager, []models.Contact, error) {
	page, err := a.client.List(ctx, client.ListQuery{Limit: p.PageSize, Offset: p.Offset(), Query: p.Query})
	if err != nil {
		return p, nil, err
	}
	return p.Apply(*page), page.Contacts, nil
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}
	var apiURL, logLevel string

	root := &cobra.Command{
		Use:           "outreach",
		Short:         "Sales outreach contact command center",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIBaseURL = apiURL
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.log = logging.New(cfg.LogLevel, cfg.LogFormat)
			a.client = client.New(cfg.APIBaseURL, cfg.HTTPTimeout, a.entry("client"))
			a.out = cmd.OutOrStdout()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api", "", "Contact API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newPurgeCmd(a),
		newInviteCmd(a),
	)
	return root
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
