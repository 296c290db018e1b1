package gormstore

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"solstice_leads/internal/domain/entities"
)

// Timestamps are owned by the usecases, so gorm's auto-time is off.
type contactRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:254;not null;index"`
	Subject      string `gorm:"size:200;not null"`
	Message      string `gorm:"type:text;not null"`
	Phone        string `gorm:"size:20"`
	Company      string `gorm:"size:200"`
	Country      string `gorm:"size:100"`
	Status       string `gorm:"size:20;not null;index"`
	Priority     string `gorm:"size:10;not null"`
	Source       string `gorm:"size:20;not null"`
	AssignedTo   string `gorm:"size:64"`
	FollowUpDate *time.Time
	Resolved     bool `gorm:"not null;default:false"`
	ResolvedAt   *time.Time
	IPAddress    string    `gorm:"size:64"`
	UserAgent    string    `gorm:"type:text"`
	SearchText   string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (contactRecord) TableName() string { return "contacts" }

type inquiryRecord struct {
	ID              string `gorm:"primaryKey;size:36"`
	Name            string `gorm:"size:100;not null"`
	Email           string `gorm:"size:254;not null;index"`
	Company         string `gorm:"size:200"`
	Phone           string `gorm:"size:20"`
	Product         string `gorm:"size:200;not null;index"`
	Quantity        *float64
	QuantityUnit    string           `gorm:"size:20;not null"`
	Message         string           `gorm:"type:text"`
	Country         string           `gorm:"size:100"`
	DeliveryPort    string           `gorm:"size:100"`
	Urgency         string           `gorm:"size:20;not null"`
	Budget          string           `gorm:"size:20;not null"`
	Status          string           `gorm:"size:20;not null;index"`
	Priority        string           `gorm:"size:10;not null;index"`
	Source          string           `gorm:"size:20;not null"`
	AssignedTo      string           `gorm:"size:64"`
	QuoteAmount     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	QuoteCurrency   string           `gorm:"size:3"`
	QuoteValidUntil *time.Time
	EstimatedValue  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	CustomerType    string           `gorm:"size:20;not null"`
	FollowUpDate    *time.Time
	IPAddress       string    `gorm:"size:64"`
	UserAgent       string    `gorm:"type:text"`
	Referrer        string    `gorm:"type:text"`
	SearchText      string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (inquiryRecord) TableName() string { return "inquiries" }

// noteRecord holds the notes of both lead kinds. The autoincrement id keeps
// insertion order.
type noteRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	LeadKind string    `gorm:"size:10;not null;index:idx_notes_lead"`
	LeadID   string    `gorm:"size:36;not null;index:idx_notes_lead"`
	Content  string    `gorm:"type:text;not null"`
	AddedBy  string    `gorm:"size:64"`
	AddedAt  time.Time `gorm:"not null"`
}

func (noteRecord) TableName() string { return "lead_notes" }

// userRecord, productRecord and blogPostRecord mirror tables owned by other
// services; only the columns read here are mapped.
type userRecord struct {
	ID    string `gorm:"primaryKey;size:36"`
	Name  string `gorm:"size:100"`
	Email string `gorm:"size:254"`
}

func (userRecord) TableName() string { return "users" }

type productRecord struct {
	ID       string `gorm:"primaryKey;size:36"`
	Name     string `gorm:"size:200"`
	Category string `gorm:"size:100;index"`
}

func (productRecord) TableName() string { return "products" }

type blogPostRecord struct {
	ID    string `gorm:"primaryKey;size:36"`
	Title string `gorm:"size:200"`
}

func (blogPostRecord) TableName() string { return "blog_posts" }

// Migrate creates or updates every table the SQL store reads or writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&contactRecord{},
		&inquiryRecord{},
		&noteRecord{},
		&userRecord{},
		&productRecord{},
		&blogPostRecord{},
	)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toNoteRecords(kind entities.LeadKind, leadID string, notes []entities.Note) []noteRecord {
	out := make([]noteRecord, len(notes))
	for k, n := range notes {
		out[k] = toNoteRecord(kind, leadID, n)
	}
	return out
}

func toNoteRecord(kind entities.LeadKind, leadID string, n entities.Note) noteRecord {
	return noteRecord{LeadKind: string(kind), LeadID: leadID, Content: n.Content, AddedBy: n.AddedBy, AddedAt: n.AddedAt.UTC()}
}

func fromNoteRecord(r noteRecord) entities.Note {
	return entities.Note{Content: r.Content, AddedBy: r.AddedBy, AddedAt: r.AddedAt.UTC()}
}

func toContactRecord(c entities.Contact) contactRecord {
	return contactRecord{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Subject:      c.Subject,
		Message:      c.Message,
		Phone:        c.Phone,
		Company:      c.Company,
		Country:      c.Country,
		Status:       string(c.Status),
		Priority:     string(c.Priority),
		Source:       string(c.Source),
		AssignedTo:   c.AssignedTo,
		FollowUpDate: utcPtr(c.FollowUpDate),
		Resolved:     c.Resolved,
		ResolvedAt:   utcPtr(c.ResolvedAt),
		IPAddress:    c.IPAddress,
		UserAgent:    c.UserAgent,
		SearchText:   c.SearchText(),
		CreatedAt:    c.CreatedAt.UTC(),
		UpdatedAt:    c.UpdatedAt.UTC(),
	}
}

func fromContactRecord(r contactRecord, notes []entities.Note) entities.Contact {
	if notes == nil {
		notes = []entities.Note{}
	}
	return entities.Contact{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Subject:      r.Subject,
		Message:      r.Message,
		Phone:        r.Phone,
		Company:      r.Company,
		Country:      r.Country,
		Status:       entities.ContactStatus(r.Status),
		Priority:     entities.Priority(r.Priority),
		Source:       entities.ContactSource(r.Source),
		AssignedTo:   r.AssignedTo,
		Notes:        notes,
		FollowUpDate: utcPtr(r.FollowUpDate),
		Resolved:     r.Resolved,
		ResolvedAt:   utcPtr(r.ResolvedAt),
		IPAddress:    r.IPAddress,
		UserAgent:    r.UserAgent,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func toInquiryRecord(i entities.Inquiry) inquiryRecord {
	r := inquiryRecord{
		ID:             i.ID,
		Name:           i.Name,
		Email:          i.Email,
		Company:        i.Company,
		Phone:          i.Phone,
		Product:        i.Product,
		Quantity:       i.Quantity,
		QuantityUnit:   string(i.QuantityUnit),
		Message:        i.Message,
		Country:        i.Country,
		DeliveryPort:   i.DeliveryPort,
		Urgency:        string(i.Urgency),
		Budget:         string(i.Budget),
		Status:         string(i.Status),
		Priority:       string(i.Priority),
		Source:         string(i.Source),
		AssignedTo:     i.AssignedTo,
		EstimatedValue: i.EstimatedValue,
		CustomerType:   string(i.CustomerType),
		FollowUpDate:   utcPtr(i.FollowUpDate),
		IPAddress:      i.IPAddress,
		UserAgent:      i.UserAgent,
		Referrer:       i.Referrer,
		SearchText:     i.SearchText(),
		CreatedAt:      i.CreatedAt.UTC(),
		UpdatedAt:      i.UpdatedAt.UTC(),
	}
	if q := i.QuotedPrice; q != nil {
		amount := q.Amount
		r.QuoteAmount = &amount
		r.QuoteCurrency = q.Currency
		r.QuoteValidUntil = utcPtr(&q.ValidUntil)
	}
	return r
}

func fromInquiryRecord(r inquiryRecord, notes []entities.Note) entities.Inquiry {
	if notes == nil {
		notes = []entities.Note{}
	}
	i := entities.Inquiry{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Company:        r.Company,
		Phone:          r.Phone,
		Product:        r.Product,
		Quantity:       r.Quantity,
		QuantityUnit:   entities.QuantityUnit(r.QuantityUnit),
		Message:        r.Message,
		Country:        r.Country,
		DeliveryPort:   r.DeliveryPort,
		Urgency:        entities.Urgency(r.Urgency),
		Budget:         entities.Budget(r.Budget),
		Status:         entities.InquiryStatus(r.Status),
		Priority:       entities.Priority(r.Priority),
		Source:         entities.InquirySource(r.Source),
		AssignedTo:     r.AssignedTo,
		Notes:          notes,
		EstimatedValue: r.EstimatedValue,
		CustomerType:   entities.CustomerType(r.CustomerType),
		FollowUpDate:   utcPtr(r.FollowUpDate),
		IPAddress:      r.IPAddress,
		UserAgent:      r.UserAgent,
		Referrer:       r.Referrer,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.QuoteAmount != nil && r.QuoteValidUntil != nil {
		i.QuotedPrice = &entities.QuotedPrice{
			Amount:     *r.QuoteAmount,
			Currency:   r.QuoteCurrency,
			ValidUntil: r.QuoteValidUntil.UTC(),
		}
	}
	return i
}
