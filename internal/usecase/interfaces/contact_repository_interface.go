package interfaces

import (
	"context"
	"time"

	"solstice_leads/internal/domain/entities"
)

// IContactRepository abstracts persistence for Contact.
//
// Lookups and single-record writes return a zero Contact (empty ID) and a
// nil error when the id does not exist; callers map that to not-found.
// Lists are ordered by created_at descending; a limit <= 0 returns every
// match.

type IContactRepository interface {
	Create(ctx context.Context, c entities.Contact) (entities.Contact, error)
	GetByID(ctx context.Context, id string) (entities.Contact, error)
	UpdateStatus(ctx context.Context, id string, status entities.ContactStatus, resolvedAt *time.Time, updatedAt time.Time) (entities.Contact, error)
	AppendNote(ctx context.Context, id string, note entities.Note) (entities.Contact, error)
	Update(ctx context.Context, id string, patch entities.ContactPatch, updatedAt time.Time) (entities.Contact, error)
	List(ctx context.Context, filter entities.ContactFilter, offset, limit int) ([]entities.Contact, error)
	Count(ctx context.Context, filter entities.ContactFilter) (int64, error)
	Search(ctx context.Context, terms []string) ([]entities.Contact, error)
	CountByStatus(ctx context.Context) (map[entities.ContactStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]entities.LeadPoint, error)
}
