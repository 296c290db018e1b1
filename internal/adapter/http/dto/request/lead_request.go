package request

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase"
)

// Field rules are enforced by the validation package so every violation is
// reported at once; binding only checks the JSON shape.

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Country string `json:"country"`
}

func (r ContactRequest) ToSubmission(ip, userAgent string) usecase.ContactSubmission {
	return usecase.ContactSubmission{
		Name:      r.Name,
		Email:     r.Email,
		Subject:   r.Subject,
		Message:   r.Message,
		Phone:     r.Phone,
		Company:   r.Company,
		Country:   r.Country,
		IPAddress: ip,
		UserAgent: userAgent,
	}
}

type InquiryRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Company      string  `json:"company"`
	Phone        string  `json:"phone"`
	Product      string  `json:"product"`
	Quantity     *Number `json:"quantity"`
	QuantityUnit string  `json:"quantityUnit"`
	Message      string  `json:"message"`
	Country      string  `json:"country"`
	DeliveryPort string  `json:"deliveryPort"`
	Urgency      string  `json:"urgency"`
	Budget       string  `json:"budget"`
}

// Number accepts a JSON number or a numeric string such as "120", which is
// what form encoders send.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(float64(0))}
	}
	*n = Number(v)
	return nil
}

func (n *Number) float() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

func (r InquiryRequest) ToSubmission(ip, userAgent, referrer string) usecase.InquirySubmission {
	return usecase.InquirySubmission{
		Name:         r.Name,
		Email:        r.Email,
		Company:      r.Company,
		Phone:        r.Phone,
		Product:      r.Product,
		Quantity:     r.Quantity.float(),
		QuantityUnit: r.QuantityUnit,
		Message:      r.Message,
		Country:      r.Country,
		DeliveryPort: r.DeliveryPort,
		Urgency:      r.Urgency,
		Budget:       r.Budget,
		IPAddress:    ip,
		UserAgent:    userAgent,
		Referrer:     referrer,
	}
}

type StatusRequest struct {
	Status string `json:"status"`
	UserID string `json:"userId"`
}

type NoteRequest struct {
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

type QuoteRequest struct {
	Amount    *decimal.Decimal `json:"amount"`
	Currency  *string          `json:"currency"`
	ValidDays *int             `json:"validDays"`
	UserID    string           `json:"userId"`
}

// ToInput assumes Amount was checked for presence.
func (r QuoteRequest) ToInput() usecase.QuoteInput {
	return usecase.QuoteInput{
		Amount:    *r.Amount,
		Currency:  r.Currency,
		ValidDays: r.ValidDays,
		Author:    r.UserID,
	}
}

type ContactPatchRequest struct {
	Priority     *string    `json:"priority"`
	AssignedTo   *string    `json:"assignedTo"`
	FollowUpDate *time.Time `json:"followUpDate"`
	Source       *string    `json:"source"`
}

func (r ContactPatchRequest) ToPatch() entities.ContactPatch {
	return entities.ContactPatch{
		Priority:     enumPtr[entities.Priority](r.Priority),
		AssignedTo:   r.AssignedTo,
		FollowUpDate: r.FollowUpDate,
		Source:       enumPtr[entities.ContactSource](r.Source),
	}
}

type InquiryPatchRequest struct {
	Priority       *string          `json:"priority"`
	AssignedTo     *string          `json:"assignedTo"`
	FollowUpDate   *time.Time       `json:"followUpDate"`
	EstimatedValue *decimal.Decimal `json:"estimatedValue"`
	CustomerType   *string          `json:"customerType"`
	Source         *string          `json:"source"`
}

func (r InquiryPatchRequest) ToPatch() entities.InquiryPatch {
	return entities.InquiryPatch{
		Priority:       enumPtr[entities.Priority](r.Priority),
		AssignedTo:     r.AssignedTo,
		FollowUpDate:   r.FollowUpDate,
		EstimatedValue: r.EstimatedValue,
		CustomerType:   enumPtr[entities.CustomerType](r.CustomerType),
		Source:         enumPtr[entities.InquirySource](r.Source),
	}
}

func enumPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}
