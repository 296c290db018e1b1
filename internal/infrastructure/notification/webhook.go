package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

// WebhookEvent is the JSON body posted for every submission.
type WebhookEvent struct {
	Event          string            `json:"event"`
	ID             string            `json:"id"`
	Reference      string            `json:"reference,omitempty"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Subject        string            `json:"subject,omitempty"`
	Product        string            `json:"product,omitempty"`
	Priority       entities.Priority `json:"priority"`
	EstimatedValue *decimal.Decimal  `json:"estimatedValue,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

const (
	EventContactCreated = "contact.created"
	EventInquiryCreated = "inquiry.created"
)

// WebhookNotifier posts submissions to a single JSON endpoint. It makes one
// attempt per submission.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

var _ interfaces.INotifier = (*WebhookNotifier)(nil)

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) NotifyContact(ctx context.Context, c entities.Contact) error {
	return n.post(ctx, WebhookEvent{
		Event:     EventContactCreated,
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Priority:  c.Priority,
		CreatedAt: c.CreatedAt,
	})
}

func (n *WebhookNotifier) NotifyInquiry(ctx context.Context, i entities.Inquiry) error {
	return n.post(ctx, WebhookEvent{
		Event:          EventInquiryCreated,
		ID:             i.ID,
		Reference:      i.ReferenceNumber(),
		Name:           i.Name,
		Email:          i.Email,
		Product:        i.Product,
		Priority:       i.Priority,
		EstimatedValue: i.EstimatedValue,
		CreatedAt:      i.CreatedAt,
	})
}

func (n *WebhookNotifier) post(ctx context.Context, event WebhookEvent) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(event).
		Post(n.url)
	if err != nil {
		return deliveryError("webhook", err)
	}
	if resp.IsError() {
		return deliveryError("webhook", fmt.Errorf("status %d", resp.StatusCode()))
	}
	return nil
}
