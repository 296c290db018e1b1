package entities

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LeadKind distinguishes the two kinds of inbound records the service stores.
type LeadKind string

const (
	LeadKindContact LeadKind = "contact"
	LeadKindInquiry LeadKind = "inquiry"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func IsValidPriority(p string) bool {
	for _, v := range Priorities {
		if string(v) == p {
			return true
		}
	}
	return false
}

// Note is an append-only annotation attached to a contact or inquiry.
// AddedBy is an opaque staff identifier and may be empty.
type Note struct {
	Content string    `json:"content"`
	AddedBy string    `json:"added_by,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

func NewNote(content, addedBy string, now time.Time) Note {
	return Note{Content: strings.TrimSpace(content), AddedBy: addedBy, AddedAt: now}
}

// UserRef is the display data resolved for a staff identifier.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LeadPoint is the minimal projection used for time-series aggregation.
type LeadPoint struct {
	CreatedAt      time.Time
	EstimatedValue decimal.Decimal
}

// DaysSince returns the whole days elapsed since t, rounded up.
func DaysSince(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}

// SearchText is the lowercased haystack persisted alongside a record so
// stores without full-text indexes can match terms with a substring test.
func SearchText(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, strings.ToLower(f))
		}
	}
	return strings.Join(parts, " \n ")
}
