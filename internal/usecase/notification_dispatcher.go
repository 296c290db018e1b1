package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/infrastructure/metrics"
	"solstice_leads/internal/usecase/interfaces"
)

const defaultNotifyTimeout = 30 * time.Second

// NotificationDispatcher runs notifier calls detached from the request that
// triggered them. Each call gets its own background context and timeout;
// failures and panics are logged and counted, never returned.
type NotificationDispatcher struct {
	notifier interfaces.INotifier
	timeout  time.Duration
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewNotificationDispatcher(notifier interfaces.INotifier, timeout time.Duration, log *zap.Logger) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationDispatcher{notifier: notifier, timeout: timeout, log: log.Named("notify")}
}

func (d *NotificationDispatcher) Contact(c entities.Contact) {
	if d == nil || d.notifier == nil {
		return
	}
	d.dispatch(entities.LeadKindContact, c.ID, func(ctx context.Context) error {
		return d.notifier.NotifyContact(ctx, c)
	})
}

func (d *NotificationDispatcher) Inquiry(i entities.Inquiry) {
	if d == nil || d.notifier == nil {
		return
	}
	d.dispatch(entities.LeadKindInquiry, i.ID, func(ctx context.Context) error {
		return d.notifier.NotifyInquiry(ctx, i)
	})
}

func (d *NotificationDispatcher) dispatch(kind entities.LeadKind, id string, send func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := safeSend(ctx, send)
		if err != nil {
			metrics.RecordNotification(string(kind), metrics.OutcomeFailed)
			d.log.Warn("notification failed",
				zap.String("kind", string(kind)),
				zap.String("id", id),
				zap.Error(err),
			)
			return
		}
		metrics.RecordNotification(string(kind), metrics.OutcomeSent)
		d.log.Debug("notification sent", zap.String("kind", string(kind)), zap.String("id", id))
	}()
}

func safeSend(ctx context.Context, send func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return send(ctx)
}

// Wait blocks until in-flight notifications finish or ctx is done. It is
// called once during shutdown.
func (d *NotificationDispatcher) Wait(ctx context.Context) error {
	if d == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
