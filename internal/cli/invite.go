package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"outreach/internal/client"
	"outreach/internal/models"
)

func newInviteCmd(a *app) *cobra.Command {
	var inv models.WhatsAppInvite
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Send a WhatsApp demo invite",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if inv.DemoURL == "" {
				url, err := client.DiscoverTunnel(ctx, a.cfg.TunnelAPIURL, a.cfg.TunnelProbeTimeout)
				if err != nil {
					a.entry("invite").WithError(err).Debug("tunnel discovery failed, using API base URL")
					url = a.cfg.APIBaseURL
				}
				inv.DemoURL = url
			}
			if err := a.client.WhatsAppInvite(ctx, inv); err != nil {
				return errors.Wrap(err, "send invite")
			}
			fmt.Fprintf(a.out, "invite for %s queued with demo URL %s\n", inv.Phone, inv.DemoURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&inv.Phone, "phone", "", "Recipient phone (required)")
	cmd.Flags().StringVar(&inv.Name, "name", "", "Recipient name (required)")
	cmd.Flags().StringVar(&inv.DemoURL, "demo-url", "", "Demo URL (default: discovered tunnel URL)")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
