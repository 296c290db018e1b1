package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
)

// IInquiryRepository abstracts persistence for Inquiry.
//
// Same not-found contract as IContactRepository. UpdateStatus and SetQuote
// write the new state and append the audit note in one record update, so a
// reader never sees one without the other.

type IInquiryRepository interface {
	Create(ctx context.Context, i entities.Inquiry) (entities.Inquiry, error)
	GetByID(ctx context.Context, id string) (entities.Inquiry, error)
	UpdateStatus(ctx context.Context, id string, status entities.InquiryStatus, note entities.Note) (entities.Inquiry, error)
	SetQuote(ctx context.Context, id string, quote entities.QuotedPrice, status entities.InquiryStatus, note entities.Note) (entities.Inquiry, error)
	AppendNote(ctx context.Context, id string, note entities.Note) (entities.Inquiry, error)
	Update(ctx context.Context, id string, patch entities.InquiryPatch, updatedAt time.Time) (entities.Inquiry, error)
	List(ctx context.Context, filter entities.InquiryFilter, offset, limit int) ([]entities.Inquiry, error)
	Count(ctx context.Context, filter entities.InquiryFilter) (int64, error)
	Search(ctx context.Context, terms []string) ([]entities.Inquiry, error)
	CountByStatus(ctx context.Context) (map[entities.InquiryStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]entities.LeadPoint, error)
	ProductStats(ctx context.Context, limit int) ([]entities.ProductStat, error)
	CountHighPriorityOpen(ctx context.Context) (int64, error)
	TotalEstimatedValue(ctx context.Context) (decimal.Decimal, error)
}
