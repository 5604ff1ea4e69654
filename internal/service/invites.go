package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"outreach/internal/models"
)

// QueueInvite validates a WhatsApp demo invite and stores it for the
// messaging integration to deliver
func (s *ContactService) QueueInvite(ctx context.Context, inv models.WhatsAppInvite) error {
	inv.Phone = strings.TrimSpace(inv.Phone)
	inv.Name = strings.TrimSpace(inv.Name)
	inv.DemoURL = strings.TrimSpace(inv.DemoURL)
	if err := s.validate.Struct(inv); err != nil {
		return errors.Wrap(ErrValidation, err.Error())
	}

	_, err := s.db.Conn.ExecContext(ctx,
		`INSERT INTO demo_invites (phone, name, demo_url, created_at) VALUES ($1, $2, $3, $4)`,
		inv.Phone, inv.Name, inv.DemoURL, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "failed to queue invite")
	}
	s.log.WithField("phone", inv.Phone).Info("demo invite queued")
	return nil
}
