package entities

import "time"

// ContactStatus is the handling stage of a general inbound message.
//
// Any status may move to any other; only the move to resolved has a side
// effect (see ResolutionStamp).
type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in-progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusClosed     ContactStatus = "closed"
)

var ContactStatuses = []ContactStatus{
	ContactStatusNew,
	ContactStatusInProgress,
	ContactStatusResolved,
	ContactStatusClosed,
}

func IsValidContactStatus(s string) bool {
	for _, v := range ContactStatuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

type ContactSource string

const (
	ContactSourceWebsite  ContactSource = "website"
	ContactSourceEmail    ContactSource = "email"
	ContactSourcePhone    ContactSource = "phone"
	ContactSourceWhatsApp ContactSource = "whatsapp"
	ContactSourceOther    ContactSource = "other"
)

var ContactSources = []ContactSource{
	ContactSourceWebsite,
	ContactSourceEmail,
	ContactSourcePhone,
	ContactSourceWhatsApp,
	ContactSourceOther,
}

// Contact is a general message submitted through the public contact form.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (entity_type-created_at-index): entity_type, created_at
//
// Notes are append-only. IPAddress and UserAgent are captured at intake and
// never change afterwards.
type Contact struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Subject      string        `json:"subject"`
	Message      string        `json:"message"`
	Phone        string        `json:"phone,omitempty"`
	Company      string        `json:"company,omitempty"`
	Country      string        `json:"country,omitempty"`
	Status       ContactStatus `json:"status"`
	Priority     Priority      `json:"priority"`
	Source       ContactSource `json:"source"`
	AssignedTo   string        `json:"assigned_to,omitempty"`
	Notes        []Note        `json:"notes"`
	FollowUpDate *time.Time    `json:"follow_up_date,omitempty"`
	Resolved     bool          `json:"resolved"`
	ResolvedAt   *time.Time    `json:"resolved_at,omitempty"`
	IPAddress    string        `json:"ip_address,omitempty"`
	UserAgent    string        `json:"user_agent,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ApplyDefaults fills the classification fields a fresh submission leaves blank.
func (c *Contact) ApplyDefaults() {
	if c.Status == "" {
		c.Status = ContactStatusNew
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if c.Source == "" {
		c.Source = ContactSourceWebsite
	}
	if c.Notes == nil {
		c.Notes = []Note{}
	}
}

func (c Contact) SearchText() string {
	return SearchText(c.Name, c.Subject, c.Message)
}

func (c Contact) DaysSinceSubmission(now time.Time) int {
	return DaysSince(c.CreatedAt, now)
}

// ResolutionStamp returns the resolvedAt value a change to status records,
// or nil when the change does not resolve the contact. Stores set resolved
// only when a stamp is given and never clear it.
func ResolutionStamp(status ContactStatus, now time.Time) *time.Time {
	if status != ContactStatusResolved {
		return nil
	}
	t := now
	return &t
}

// ContactFilter restricts list queries; empty fields do not filter.
type ContactFilter struct {
	Status ContactStatus
}

// ContactPatch carries a direct edit. Nil fields are left untouched.
type ContactPatch struct {
	Priority     *Priority
	AssignedTo   *string
	FollowUpDate *time.Time
	Source       *ContactSource
}

func (p ContactPatch) IsEmpty() bool {
	return p.Priority == nil && p.AssignedTo == nil && p.FollowUpDate == nil && p.Source == nil
}
