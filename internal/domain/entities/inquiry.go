package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InquiryStatus string

const (
	InquiryStatusNew         InquiryStatus = "new"
	InquiryStatusQuoted      InquiryStatus = "quoted"
	InquiryStatusNegotiating InquiryStatus = "negotiating"
	InquiryStatusConfirmed   InquiryStatus = "confirmed"
	InquiryStatusShipped     InquiryStatus = "shipped"
	InquiryStatusCompleted   InquiryStatus = "completed"
	InquiryStatusCancelled   InquiryStatus = "cancelled"
)

var InquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusQuoted,
	InquiryStatusNegotiating,
	InquiryStatusConfirmed,
	InquiryStatusShipped,
	InquiryStatusCompleted,
	InquiryStatusCancelled,
}

// OpenInquiryStatuses are the stages still awaiting a commercial outcome.
var OpenInquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusQuoted,
	InquiryStatusNegotiating,
}

// HighPriorities are the priorities counted as high-priority on dashboards.
var HighPriorities = []Priority{PriorityHigh, PriorityUrgent}

func IsValidInquiryStatus(s string) bool {
	for _, v := range InquiryStatuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

type QuantityUnit string

const (
	QuantityUnitMetricTons QuantityUnit = "metric-tons"
	QuantityUnitContainers QuantityUnit = "containers"
	QuantityUnitKg         QuantityUnit = "kg"
)

type Urgency string

const (
	UrgencyImmediate     Urgency = "immediate"
	UrgencyWithinMonth   Urgency = "within-month"
	UrgencyWithinQuarter Urgency = "within-quarter"
	UrgencyFlexible      Urgency = "flexible"
)

type Budget string

const (
	BudgetUnder10k     Budget = "under-10k"
	Budget10kTo50k     Budget = "10k-50k"
	Budget50kTo100k    Budget = "50k-100k"
	BudgetOver100k     Budget = "over-100k"
	BudgetNotSpecified Budget = "not-specified"
)

type InquirySource string

const (
	InquirySourceWebsite   InquirySource = "website"
	InquirySourceReferral  InquirySource = "referral"
	InquirySourceTradeShow InquirySource = "trade-show"
	InquirySourceEmail     InquirySource = "email"
	InquirySourcePhone     InquirySource = "phone"
	InquirySourceOther     InquirySource = "other"
)

type CustomerType string

const (
	CustomerTypeNew       CustomerType = "new"
	CustomerTypeReturning CustomerType = "returning"
	CustomerTypeVIP       CustomerType = "vip"
)

const (
	DefaultQuoteCurrency  = "USD"
	DefaultQuoteValidDays = 30
)

// UnitValueUSD is the flat per-unit price used to estimate an inquiry's value.
var UnitValueUSD = decimal.NewFromInt(1500)

// QuotedPrice is the latest quote attached to an inquiry. A new quote
// replaces the previous one.
type QuotedPrice struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	ValidUntil time.Time       `json:"valid_until"`
}

func NewQuotedPrice(amount decimal.Decimal, currency string, validDays int, now time.Time) QuotedPrice {
	return QuotedPrice{
		Amount:     amount,
		Currency:   currency,
		ValidUntil: now.AddDate(0, 0, validDays),
	}
}

// Inquiry is a bulk commodity order request.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (entity_type-created_at-index): entity_type, created_at
//
// Every status change and every quote appends exactly one note.
type Inquiry struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Company        string           `json:"company,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Product        string           `json:"product"`
	Quantity       *float64         `json:"quantity,omitempty"`
	QuantityUnit   QuantityUnit     `json:"quantity_unit"`
	Message        string           `json:"message,omitempty"`
	Country        string           `json:"country,omitempty"`
	DeliveryPort   string           `json:"delivery_port,omitempty"`
	Urgency        Urgency          `json:"urgency"`
	Budget         Budget           `json:"budget"`
	Status         InquiryStatus    `json:"status"`
	Priority       Priority         `json:"priority"`
	Source         InquirySource    `json:"source"`
	AssignedTo     string           `json:"assigned_to,omitempty"`
	Notes          []Note           `json:"notes"`
	QuotedPrice    *QuotedPrice     `json:"quoted_price,omitempty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	CustomerType   CustomerType     `json:"customer_type"`
	FollowUpDate   *time.Time       `json:"follow_up_date,omitempty"`
	IPAddress      string           `json:"ip_address,omitempty"`
	UserAgent      string           `json:"user_agent,omitempty"`
	Referrer       string           `json:"referrer,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (i *Inquiry) ApplyDefaults() {
	if i.QuantityUnit == "" {
		i.QuantityUnit = QuantityUnitMetricTons
	}
	if i.Urgency == "" {
		i.Urgency = UrgencyFlexible
	}
	if i.Budget == "" {
		i.Budget = BudgetNotSpecified
	}
	if i.Status == "" {
		i.Status = InquiryStatusNew
	}
	if i.Priority == "" {
		i.Priority = PriorityMedium
	}
	if i.Source == "" {
		i.Source = InquirySourceWebsite
	}
	if i.CustomerType == "" {
		i.CustomerType = CustomerTypeNew
	}
	if i.Notes == nil {
		i.Notes = []Note{}
	}
}

// Classify derives priority and estimated value from the submitted quantity
// and urgency. It runs once, at intake.
func (i *Inquiry) Classify() {
	i.Priority = DerivePriority(i.Quantity, i.Urgency)
	i.EstimatedValue = EstimateValue(i.Quantity)
}

// UpdateStatus moves the inquiry to status and returns the audit note that
// records the move. The note is produced even when the status is unchanged.
func (i *Inquiry) UpdateStatus(status InquiryStatus, author string, now time.Time) Note {
	n := StatusChangeNote(i.Status, status, author, now)
	i.Status = status
	i.AddNote(n)
	return n
}

// AddQuote replaces the quoted price, forces the status to quoted and
// returns the audit note.
func (i *Inquiry) AddQuote(q QuotedPrice, validDays int, author string, now time.Time) Note {
	n := QuoteNote(q, validDays, author, now)
	i.QuotedPrice = &q
	i.Status = InquiryStatusQuoted
	i.AddNote(n)
	return n
}

func (i *Inquiry) AddNote(n Note) {
	i.Notes = append(i.Notes, n)
	i.UpdatedAt = n.AddedAt
}

func (i Inquiry) ReferenceNumber() string {
	return ReferenceNumber(i.ID)
}

func (i Inquiry) SearchText() string {
	return SearchText(i.Name, i.Company, i.Product)
}

func (i Inquiry) DaysSinceInquiry(now time.Time) int {
	return DaysSince(i.CreatedAt, now)
}

// FormattedQuantity renders e.g. "120 metric tons", or "Not specified".
func (i Inquiry) FormattedQuantity() string {
	if i.Quantity == nil {
		return "Not specified"
	}
	unit := strings.Replace(string(i.QuantityUnit), "-", " ", 1)
	return strconv.FormatFloat(*i.Quantity, 'f', -1, 64) + " " + unit
}

// DerivePriority classifies an inquiry at intake: high when the quantity is
// at least 100 or the buyer needs it immediately, medium otherwise.
func DerivePriority(quantity *float64, urgency Urgency) Priority {
	if (quantity != nil && *quantity >= 100) || urgency == UrgencyImmediate {
		return PriorityHigh
	}
	if (quantity != nil && *quantity >= 50) || urgency == UrgencyWithinMonth {
		return PriorityMedium
	}
	return PriorityMedium
}

// EstimateValue returns quantity * 1500 USD, or nil without a quantity.
func EstimateValue(quantity *float64) *decimal.Decimal {
	if quantity == nil {
		return nil
	}
	v := decimal.NewFromFloat(*quantity).Mul(UnitValueUSD)
	return &v
}

// ReferenceNumber is INQ- followed by the last 8 characters of id, uppercased.
func ReferenceNumber(id string) string {
	tail := id
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return "INQ-" + strings.ToUpper(tail)
}

func StatusChangeNote(from, to InquiryStatus, author string, now time.Time) Note {
	return NewNote(fmt.Sprintf("Status changed from %s to %s", from, to), author, now)
}

func QuoteNote(q QuotedPrice, validDays int, author string, now time.Time) Note {
	return NewNote(fmt.Sprintf("Quote added: %s %s (valid for %d days)", q.Currency, q.Amount.String(), validDays), author, now)
}

// InquiryFilter restricts list queries; empty fields do not filter.
type InquiryFilter struct {
	Status   InquiryStatus
	Product  string
	Priority Priority
}

// InquiryPatch carries a direct edit. Nil fields are left untouched.
type InquiryPatch struct {
	Priority       *Priority
	AssignedTo     *string
	FollowUpDate   *time.Time
	EstimatedValue *decimal.Decimal
	CustomerType   *CustomerType
	Source         *InquirySource
}

func (p InquiryPatch) IsEmpty() bool {
	return p.Priority == nil && p.AssignedTo == nil && p.FollowUpDate == nil &&
		p.EstimatedValue == nil && p.CustomerType == nil && p.Source == nil
}
