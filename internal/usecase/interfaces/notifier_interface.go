package interfaces

import (
	"context"

	"solstice_leads/internal/domain/entities"
)

// INotifier delivers the "new submission" side effect. Calls are made off
// the request path; an error is logged by the caller and never retried.
type INotifier interface {
	NotifyContact(ctx context.Context, c entities.Contact) error
	NotifyInquiry(ctx context.Context, i entities.Inquiry) error
}
