package gormstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase/interfaces"
)

// ContactRepository stores contacts in a relational database through gorm.
// Notes live in lead_notes keyed by (lead_kind, lead_id).
type ContactRepository struct {
	db *gorm.DB
}

var _ interfaces.IContactRepository = (*ContactRepository)(nil)

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, c entities.Contact) (entities.Contact, error) {
	rec := toContactRecord(c)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if len(c.Notes) > 0 {
			notes := toNoteRecords(entities.LeadKindContact, c.ID, c.Notes)
			return tx.Create(&notes).Error
		}
		return nil
	})
	if err != nil {
		return entities.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (entities.Contact, error) {
	return r.load(r.db.WithContext(ctx), id)
}

func (r *ContactRepository) load(db *gorm.DB, id string) (entities.Contact, error) {
	var recs []contactRecord
	if err := db.Where("id = ?", id).Limit(1).Find(&recs).Error; err != nil {
		return entities.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	if len(recs) == 0 {
		return entities.Contact{}, nil
	}
	notes, err := loadNotes(db, entities.LeadKindContact, id)
	if err != nil {
		return entities.Contact{}, err
	}
	return fromContactRecord(recs[0], notes[id]), nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status entities.ContactStatus, resolvedAt *time.Time, updatedAt time.Time) (entities.Contact, error) {
	fields := map[string]any{"status": string(status), "updated_at": updatedAt.UTC()}
	if resolvedAt != nil {
		fields["resolved"] = true
		fields["resolved_at"] = resolvedAt.UTC()
	}
	return r.updateFields(ctx, id, fields, nil)
}

func (r *ContactRepository) AppendNote(ctx context.Context, id string, note entities.Note) (entities.Contact, error) {
	return r.updateFields(ctx, id, map[string]any{"updated_at": note.AddedAt.UTC()}, &note)
}

func (r *ContactRepository) Update(ctx context.Context, id string, patch entities.ContactPatch, updatedAt time.Time) (entities.Contact, error) {
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
	if patch.Source != nil {
		fields["source"] = string(*patch.Source)
	}
	return r.updateFields(ctx, id, fields, nil)
}

// updateFields applies fields and the optional note in one transaction and
// returns the fresh record, or a zero Contact when id does not exist.
func (r *ContactRepository) updateFields(ctx context.Context, id string, fields map[string]any, note *entities.Note) (entities.Contact, error) {
	var out entities.Contact
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&contactRecord{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if note != nil {
			rec := toNoteRecord(entities.LeadKindContact, id, *note)
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		var err error
		out, err = r.load(tx, id)
		return err
	})
	if err != nil {
		return entities.Contact{}, fmt.Errorf("update contact: %w", err)
	}
	return out, nil
}

func (r *ContactRepository) filtered(ctx context.Context, f entities.ContactFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&contactRecord{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	return q
}

func (r *ContactRepository) List(ctx context.Context, f entities.ContactFilter, offset, limit int) ([]entities.Contact, error) {
	q := r.filtered(ctx, f).Order("created_at DESC").Order("id")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var recs []contactRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return r.withNotes(ctx, recs)
}

func (r *ContactRepository) Count(ctx context.Context, f entities.ContactFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func (r *ContactRepository) Search(ctx context.Context, terms []string) ([]entities.Contact, error) {
	var recs []contactRecord
	clause, args := searchClause(terms)
	q := r.db.WithContext(ctx).Model(&contactRecord{}).Where(clause, args...).Order("created_at DESC")
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return r.withNotes(ctx, recs)
}

func (r *ContactRepository) withNotes(ctx context.Context, recs []contactRecord) ([]entities.Contact, error) {
	ids := make([]string, len(recs))
	for k, rec := range recs {
		ids[k] = rec.ID
	}
	notes, err := loadNotes(r.db.WithContext(ctx), entities.LeadKindContact, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Contact, len(recs))
	for k, rec := range recs {
		out[k] = fromContactRecord(rec, notes[rec.ID])
	}
	return out, nil
}

func (r *ContactRepository) CountByStatus(ctx context.Context) (map[entities.ContactStatus]int64, error) {
	rows, err := groupCount(r.db.WithContext(ctx).Model(&contactRecord{}), "status")
	if err != nil {
		return nil, fmt.Errorf("count contacts by status: %w", err)
	}
	out := make(map[entities.ContactStatus]int64, len(rows))
	for _, row := range rows {
		out[entities.ContactStatus(row.GroupKey)] = row.Total
	}
	return out, nil
}

func (r *ContactRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&contactRecord{}).Where("created_at >= ?", since.UTC()).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count recent contacts: %w", err)
	}
	return n, nil
}

func (r *ContactRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]entities.LeadPoint, error) {
	var rows []struct{ CreatedAt time.Time }
	err := r.db.WithContext(ctx).Model(&contactRecord{}).
		Select("created_at").
		Where("created_at >= ?", since.UTC()).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recent contacts: %w", err)
	}
	points := make([]entities.LeadPoint, len(rows))
	for k, row := range rows {
		points[k] = entities.LeadPoint{CreatedAt: row.CreatedAt.UTC()}
	}
	return points, nil
}

// loadNotes returns the notes of the given leads keyed by lead id, oldest
// first.
func loadNotes(db *gorm.DB, kind entities.LeadKind, ids ...string) (map[string][]entities.Note, error) {
	out := map[string][]entities.Note{}
	if len(ids) == 0 {
		return out, nil
	}
	var recs []noteRecord
	err := db.Where("lead_kind = ? AND lead_id IN ?", string(kind), ids).Order("id").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	for _, rec := range recs {
		out[rec.LeadID] = append(out[rec.LeadID], fromNoteRecord(rec))
	}
	return out, nil
}

// searchClause ORs a LIKE per term against the lowercased search_text.
func searchClause(terms []string) (string, []any) {
	clauses := make([]string, len(terms))
	args := make([]any, len(terms))
	for k, t := range terms {
		clauses[k] = "search_text LIKE ?"
		args[k] = "%" + t + "%"
	}
	return strings.Join(clauses, " OR "), args
}

type keyCount struct {
	GroupKey string
	Total    int64
}

func groupCount(q *gorm.DB, column string) ([]keyCount, error) {
	var rows []keyCount
	err := q.Select(column + " AS group_key, COUNT(*) AS total").Group(column).Scan(&rows).Error
	return rows, err
}
