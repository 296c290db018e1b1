package response

import (
	"time"

	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
)

// UserRefResponse is a staff reference. Name and Email are only filled on
// single-record reads, where the directory is consulted.
type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type NoteResponse struct {
	Content string           `json:"content"`
	AddedBy *UserRefResponse `json:"addedBy,omitempty"`
	AddedAt time.Time        `json:"addedAt"`
}

type ContactResponse struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Email               string           `json:"email"`
	Subject             string           `json:"subject"`
	Message             string           `json:"message"`
	Phone               string           `json:"phone,omitempty"`
	Company             string           `json:"company,omitempty"`
	Country             string           `json:"country,omitempty"`
	Status              string           `json:"status"`
	Priority            string           `json:"priority"`
	Source              string           `json:"source"`
	AssignedTo          *UserRefResponse `json:"assignedTo,omitempty"`
	Notes               []NoteResponse   `json:"notes"`
	FollowUpDate        *time.Time       `json:"followUpDate,omitempty"`
	Resolved            bool             `json:"resolved"`
	ResolvedAt          *time.Time       `json:"resolvedAt,omitempty"`
	IPAddress           string           `json:"ipAddress,omitempty"`
	UserAgent           string           `json:"userAgent,omitempty"`
	DaysSinceSubmission int              `json:"daysSinceSubmission"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

type QuotedPriceResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	ValidUntil time.Time       `json:"validUntil"`
}

type InquiryResponse struct {
	ID                string               `json:"id"`
	ReferenceNumber   string               `json:"referenceNumber"`
	Name              string               `json:"name"`
	Email             string               `json:"email"`
	Company           string               `json:"company,omitempty"`
	Phone             string               `json:"phone,omitempty"`
	Product           string               `json:"product"`
	Quantity          *float64             `json:"quantity,omitempty"`
	QuantityUnit      string               `json:"quantityUnit"`
	FormattedQuantity string               `json:"formattedQuantity"`
	Message           string               `json:"message,omitempty"`
	Country           string               `json:"country,omitempty"`
	DeliveryPort      string               `json:"deliveryPort,omitempty"`
	Urgency           string               `json:"urgency"`
	Budget            string               `json:"budget"`
	Status            string               `json:"status"`
	Priority          string               `json:"priority"`
	Source            string               `json:"source"`
	AssignedTo        *UserRefResponse     `json:"assignedTo,omitempty"`
	Notes             []NoteResponse       `json:"notes"`
	QuotedPrice       *QuotedPriceResponse `json:"quotedPrice,omitempty"`
	EstimatedValue    *decimal.Decimal     `json:"estimatedValue,omitempty"`
	CustomerType      string               `json:"customerType"`
	FollowUpDate      *time.Time           `json:"followUpDate,omitempty"`
	IPAddress         string               `json:"ipAddress,omitempty"`
	UserAgent         string               `json:"userAgent,omitempty"`
	Referrer          string               `json:"referrer,omitempty"`
	DaysSinceInquiry  int                  `json:"daysSinceInquiry"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// ContactSubmitted is the public confirmation for a new contact.
type ContactSubmitted struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type InquirySubmitted struct {
	ID              string    `json:"id"`
	ReferenceNumber string    `json:"referenceNumber"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

func userRef(id string, users map[string]entities.UserRef) *UserRefResponse {
	if id == "" {
		return nil
	}
	if u, ok := users[id]; ok {
		return &UserRefResponse{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &UserRefResponse{ID: id}
}

func fromNotes(notes []entities.Note, users map[string]entities.UserRef) []NoteResponse {
	out := make([]NoteResponse, len(notes))
	for k, n := range notes {
		out[k] = NoteResponse{Content: n.Content, AddedBy: userRef(n.AddedBy, users), AddedAt: n.AddedAt}
	}
	return out
}

// FromContact maps a contact. users may be nil, in which case references
// carry the id only.
func FromContact(c entities.Contact, users map[string]entities.UserRef, now time.Time) ContactResponse {
	return ContactResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Email:               c.Email,
		Subject:             c.Subject,
		Message:             c.Message,
		Phone:               c.Phone,
		Company:             c.Company,
		Country:             c.Country,
		Status:              string(c.Status),
		Priority:            string(c.Priority),
		Source:              string(c.Source),
		AssignedTo:          userRef(c.AssignedTo, users),
		Notes:               fromNotes(c.Notes, users),
		FollowUpDate:        c.FollowUpDate,
		Resolved:            c.Resolved,
		ResolvedAt:          c.ResolvedAt,
		IPAddress:           c.IPAddress,
		UserAgent:           c.UserAgent,
		DaysSinceSubmission: c.DaysSinceSubmission(now),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func FromContacts(items []entities.Contact, now time.Time) []ContactResponse {
	out := make([]ContactResponse, len(items))
	for k, c := range items {
		out[k] = FromContact(c, nil, now)
	}
	return out
}

func FromInquiry(i entities.Inquiry, users map[string]entities.UserRef, now time.Time) InquiryResponse {
	r := InquiryResponse{
		ID:                i.ID,
		ReferenceNumber:   i.ReferenceNumber(),
		Name:              i.Name,
		Email:             i.Email,
		Company:           i.Company,
		Phone:             i.Phone,
		Product:           i.Product,
		Quantity:          i.Quantity,
		QuantityUnit:      string(i.QuantityUnit),
		FormattedQuantity: i.FormattedQuantity(),
		Message:           i.Message,
		Country:           i.Country,
		DeliveryPort:      i.DeliveryPort,
		Urgency:           string(i.Urgency),
		Budget:            string(i.Budget),
		Status:            string(i.Status),
		Priority:          string(i.Priority),
		Source:            string(i.Source),
		AssignedTo:        userRef(i.AssignedTo, users),
		Notes:             fromNotes(i.Notes, users),
		EstimatedValue:    i.EstimatedValue,
		CustomerType:      string(i.CustomerType),
		FollowUpDate:      i.FollowUpDate,
		IPAddress:         i.IPAddress,
		UserAgent:         i.UserAgent,
		Referrer:          i.Referrer,
		DaysSinceInquiry:  i.DaysSinceInquiry(now),
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
	if q := i.QuotedPrice; q != nil {
		r.QuotedPrice = &QuotedPriceResponse{Amount: q.Amount, Currency: q.Currency, ValidUntil: q.ValidUntil}
	}
	return r
}

func FromInquiries(items []entities.Inquiry, now time.Time) []InquiryResponse {
	out := make([]InquiryResponse, len(items))
	for k, i := range items {
		out[k] = FromInquiry(i, nil, now)
	}
	return out
}

func FromPage[E, R any](p entities.Page[E], items []R) PageResponse[R] {
	return PageResponse[R]{
		Items: items,
		Pagination: Pagination{
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
			TotalCount:  p.TotalCount,
			HasNext:     p.HasNext,
			HasPrev:     p.HasPrev,
		},
	}
}
