package notification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"solstice_leads/internal/config"
	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

// ErrDeliveryFailed wraps every channel failure so callers can tell a
// notification problem from anything else.
var ErrDeliveryFailed = errors.New("notification delivery failed")

func deliveryError(channel string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDeliveryFailed, channel, err)
}

// New builds the notifier described by cfg. With notifications disabled it
// returns a LogNotifier so submissions still leave a trace.
func New(cfg config.NotifyConfig, log *zap.Logger) interfaces.INotifier {
	if !cfg.Enabled {
		log.Info("notifications disabled, logging submissions only")
		return NewLogNotifier(log)
	}

	var channels []interfaces.INotifier
	if cfg.SMTP.Host != "" {
		channels = append(channels, NewSMTPNotifier(cfg.SMTP, cfg.AdminEmail, cfg.FrontendURL))
	}
	if cfg.WebhookURL != "" {
		channels = append(channels, NewWebhookNotifier(cfg.WebhookURL, cfg.Timeout))
	}
	if len(channels) == 0 {
		log.Warn("notifications enabled but no channel configured")
		return NewLogNotifier(log)
	}
	return NewMultiNotifier(channels...)
}

// MultiNotifier fans a submission out to every channel. A failing channel
// does not stop the others; the failures are joined.
type MultiNotifier struct {
	channels []interfaces.INotifier
}

var _ interfaces.INotifier = (*MultiNotifier)(nil)

func NewMultiNotifier(channels ...interfaces.INotifier) *MultiNotifier {
	return &MultiNotifier{channels: channels}
}

func (m *MultiNotifier) NotifyContact(ctx context.Context, c entities.Contact) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.NotifyContact(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiNotifier) NotifyInquiry(ctx context.Context, i entities.Inquiry) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.NotifyInquiry(ctx, i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type LogNotifier struct {
	log *zap.Logger
}

var _ interfaces.INotifier = (*LogNotifier)(nil)

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notifier")}
}

func (n *LogNotifier) NotifyContact(_ context.Context, c entities.Contact) error {
	n.log.Info("new contact submission",
		zap.String("contact_id", c.ID),
		zap.String("subject", c.Subject),
	)
	return nil
}

func (n *LogNotifier) NotifyInquiry(_ context.Context, i entities.Inquiry) error {
	n.log.Info("new inquiry submission",
		zap.String("inquiry_id", i.ID),
		zap.String("reference", i.ReferenceNumber()),
		zap.String("product", i.Product),
		zap.String("priority", string(i.Priority)),
	)
	return nil
}
