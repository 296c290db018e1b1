package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

type InquiryRepository struct {
	db *gorm.DB
}

var _ interfaces.IInquiryRepository = (*InquiryRepository)(nil)

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, i entities.Inquiry) (entities.Inquiry, error) {
	rec := toInquiryRecord(i)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if len(i.Notes) > 0 {
			notes := toNoteRecords(entities.LeadKindInquiry, i.ID, i.Notes)
			return tx.Create(&notes).Error
		}
		return nil
	})
	if err != nil {
		return entities.Inquiry{}, fmt.Errorf("insert inquiry: %w", err)
	}
	return i, nil
}

func (r *InquiryRepository) GetByID(ctx context.Context, id string) (entities.Inquiry, error) {
	return r.load(r.db.WithContext(ctx), id)
}

func (r *InquiryRepository) load(db *gorm.DB, id string) (entities.Inquiry, error) {
	var recs []inquiryRecord
	if err := db.Where("id = ?", id).Limit(1).Find(&recs).Error; err != nil {
		return entities.Inquiry{}, fmt.Errorf("get inquiry: %w", err)
	}
	if len(recs) == 0 {
		return entities.Inquiry{}, nil
	}
	notes, err := loadNotes(db, entities.LeadKindInquiry, id)
	if err != nil {
		return entities.Inquiry{}, err
	}
	return fromInquiryRecord(recs[0], notes[id]), nil
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id string, status entities.InquiryStatus, note entities.Note) (entities.Inquiry, error) {
	fields := map[string]any{"status": string(status), "updated_at": note.AddedAt.UTC()}
	return r.updateFields(ctx, id, fields, &note)
}

func (r *InquiryRepository) SetQuote(ctx context.Context, id string, quote entities.QuotedPrice, status entities.InquiryStatus, note entities.Note) (entities.Inquiry, error) {
	fields := map[string]any{
		"quote_amount":      quote.Amount,
		"quote_currency":    quote.Currency,
		"quote_valid_until": quote.ValidUntil.UTC(),
		"status":            string(status),
		"updated_at":        note.AddedAt.UTC(),
	}
	return r.updateFields(ctx, id, fields, &note)
}

func (r *InquiryRepository) AppendNote(ctx context.Context, id string, note entities.Note) (entities.Inquiry, error) {
	return r.updateFields(ctx, id, map[string]any{"updated_at": note.AddedAt.UTC()}, &note)
}

func (r *InquiryRepository) Update(ctx context.Context, id string, patch entities.InquiryPatch, updatedAt time.Time) (entities.Inquiry, error) {
	fields := map[string]any{"updated_at": updatedAt.UTC()}
	if patch.Priority != nil {
		fields["priority"] = string(*patch.Priority)
	}
	if patch.AssignedTo != nil {
		fields["assigned_to"] = *patch.AssignedTo
	}
	if patch.FollowUpDate != nil {
		fields["follow_up_date"] = patch.FollowUpDate.UTC()
	}
	if patch.EstimatedValue != nil {
		fields["estimated_value"] = *patch.EstimatedValue
	}
	if patch.CustomerType != nil {
		fields["customer_type"] = string(*patch.CustomerType)
	}
	if patch.Source != nil {
		fields["source"] = string(*patch.Source)
	}
	return r.updateFields(ctx, id, fields, nil)
}

// updateFields writes fields and the optional audit note atomically.
func (r *InquiryRepository) updateFields(ctx context.Context, id string, fields map[string]any, note *entities.Note) (entities.Inquiry, error) {
	var out entities.Inquiry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&inquiryRecord{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if note != nil {
			rec := toNoteRecord(entities.LeadKindInquiry, id, *note)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		var err error
		out, err = r.load(tx, id)
		return err
	})
	if err != nil {
		return entities.Inquiry{}, fmt.Errorf("update inquiry: %w", err)
	}
	return out, nil
}

func (r *InquiryRepository) filtered(ctx context.Context, f entities.InquiryFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&inquiryRecord{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Product != "" {
		q = q.Where("product = ?", f.Product)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", string(f.Priority))
	}
	return q
}

func (r *InquiryRepository) List(ctx context.Context, f entities.InquiryFilter, offset, limit int) ([]entities.Inquiry, error) {
	q := r.filtered(ctx, f).Order("created_at DESC").Order("id")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var recs []inquiryRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return r.withNotes(ctx, recs)
}

func (r *InquiryRepository) Count(ctx context.Context, f entities.InquiryFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return n, nil
}

func (r *InquiryRepository) Search(ctx context.Context, terms []string) ([]entities.Inquiry, error) {
	var recs []inquiryRecord
	clause, args := searchClause(terms)
	q := r.db.WithContext(ctx).Model(&inquiryRecord{}).Where(clause, args...).Order("created_at DESC")
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("search inquiries: %w", err)
	}
	return r.withNotes(ctx, recs)
}

func (r *InquiryRepository) withNotes(ctx context.Context, recs []inquiryRecord) ([]entities.Inquiry, error) {
	ids := make([]string, len(recs))
	for k, rec := range recs {
		ids[k] = rec.ID
	}
	notes, err := loadNotes(r.db.WithContext(ctx), entities.LeadKindInquiry, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Inquiry, len(recs))
	for k, rec := range recs {
		out[k] = fromInquiryRecord(rec, notes[rec.ID])
	}
	return out, nil
}

func (r *InquiryRepository) CountByStatus(ctx context.Context) (map[entities.InquiryStatus]int64, error) {
	rows, err := groupCount(r.db.WithContext(ctx).Model(&inquiryRecord{}), "status")
	if err != nil {
		return nil, fmt.Errorf("count inquiries by status: %w", err)
	}
	out := make(map[entities.InquiryStatus]int64, len(rows))
	for _, row := range rows {
		out[entities.InquiryStatus(row.GroupKey)] = row.Total
	}
	return out, nil
}

func (r *InquiryRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&inquiryRecord{}).Where("created_at >= ?", since.UTC()).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count recent inquiries: %w", err)
	}
	return n, nil
}

func (r *InquiryRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]entities.LeadPoint, error) {
	var rows []struct {
		CreatedAt      time.Time
		EstimatedValue decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&inquiryRecord{}).
		Select("created_at, estimated_value").
		Where("created_at >= ?", since.UTC()).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recent inquiries: %w", err)
	}
	points := make([]entities.LeadPoint, len(rows))
	for k, row := range rows {
		p := entities.LeadPoint{CreatedAt: row.CreatedAt.UTC(), EstimatedValue: decimal.Zero}
		if row.EstimatedValue.Valid {
			p.EstimatedValue = row.EstimatedValue.Decimal
		}
		points[k] = p
	}
	return points, nil
}

// ProductStats averages only over inquiries that carry a quantity; SQL AVG
// already skips NULLs.
func (r *InquiryRepository) ProductStats(ctx context.Context, limit int) ([]entities.ProductStat, error) {
	var rows []struct {
		Product       string
		Total         int64
		TotalQuantity float64
		AvgQuantity   float64
	}
	q := r.db.WithContext(ctx).Model(&inquiryRecord{}).
		Select("product, COUNT(*) AS total, COALESCE(SUM(quantity), 0) AS total_quantity, COALESCE(AVG(quantity), 0) AS avg_quantity").
		Group("product").
		Order("total DESC").
		Order("product")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("inquiry product stats: %w", err)
	}
	out := make([]entities.ProductStat, len(rows))
	for k, row := range rows {
		out[k] = entities.ProductStat{
			Product:       row.Product,
			Count:         row.Total,
			TotalQuantity: row.TotalQuantity,
			AvgQuantity:   row.AvgQuantity,
		}
	}
	return out, nil
}

func (r *InquiryRepository) CountHighPriorityOpen(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&inquiryRecord{}).
		Where("priority IN ?", entities.HighPriorities).
		Where("status IN ?", entities.OpenInquiryStatuses).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count high priority inquiries: %w", err)
	}
	return n, nil
}

func (r *InquiryRepository) TotalEstimatedValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&inquiryRecord{}).
		Select("SUM(estimated_value)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total estimated value: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
