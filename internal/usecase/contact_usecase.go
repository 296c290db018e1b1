package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/domain/validation"
	"solstice_leads/internal/infrastructure/cache"
	"solstice_leads/internal/infrastructure/metrics"
	"solstice_leads/internal/usecase/interfaces"
)

var ErrContactNotFound = errors.New("contact not found")

const contactStatsCacheKey = "stats:contacts"

// ContactSubmission is the raw public contact form plus request metadata.
type ContactSubmission struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	Phone     string
	Company   string
	Country   string
	IPAddress string
	UserAgent string
}

// ContactDetail is a contact with its staff references resolved.
type ContactDetail struct {
	Contact entities.Contact
	Users   map[string]entities.UserRef
}

// IContactUseCase exposes the contact intake, lifecycle and read operations.
type IContactUseCase interface {
	Submit(ctx context.Context, in ContactSubmission) (entities.Contact, error)
	GetByID(ctx context.Context, id string) (entities.Contact, error)
	GetDetail(ctx context.Context, id string) (ContactDetail, error)
	List(ctx context.Context, filter entities.ContactFilter, page, limit int) (entities.Page[entities.Contact], error)
	Search(ctx context.Context, query string, limit int) ([]entities.Contact, error)
	UpdateStatus(ctx context.Context, id, status string) (entities.Contact, error)
	AddNote(ctx context.Context, id, content, author string) (entities.Contact, error)
	Update(ctx context.Context, id string, patch entities.ContactPatch) (entities.Contact, error)
	Stats(ctx context.Context) (entities.ContactStats, error)
	Export(ctx context.Context, filter entities.ContactFilter) ([]entities.Contact, error)
}

type ContactUseCase struct {
	repo interfaces.IContactRepository
	options
}

var _ IContactUseCase = (*ContactUseCase)(nil)

func NewContactUseCase(repo interfaces.IContactRepository, opts ...Option) *ContactUseCase {
	o := newOptions(opts)
	o.log = o.log.Named("contacts")
	return &ContactUseCase{repo: repo, options: o}
}

// Submit validates and stores a contact, then hands it to the notifier
// without waiting for delivery.
func (u *ContactUseCase) Submit(ctx context.Context, in ContactSubmission) (entities.Contact, error) {
	now := u.now()
	c := entities.Contact{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     validation.NormalizeEmail(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		Country:   strings.TrimSpace(in.Country),
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.ApplyDefaults()
	if err := validation.ValidateContact(c); err != nil {
		return entities.Contact{}, err
	}

	created, err := u.repo.Create(ctx, c)
	if err != nil {
		return entities.Contact{}, err
	}

	metrics.RecordSubmission(string(entities.LeadKindContact))
	u.log.Info("contact submitted", zap.String("id", created.ID), zap.String("subject", created.Subject))
	u.notify.Contact(created)
	return created, nil
}

func (u *ContactUseCase) GetByID(ctx context.Context, id string) (entities.Contact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Contact{}, ErrInvalidID
	}
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Contact{}, err
	}
	if c.ID == "" {
		return entities.Contact{}, ErrContactNotFound
	}
	return c, nil
}

func (u *ContactUseCase) GetDetail(ctx context.Context, id string) (ContactDetail, error) {
	c, err := u.GetByID(ctx, id)
	if err != nil {
		return ContactDetail{}, err
	}
	ids := []string{c.AssignedTo}
	for _, n := range c.Notes {
		ids = append(ids, n.AddedBy)
	}
	return ContactDetail{Contact: c, Users: u.resolveUsers(ctx, ids)}, nil
}

func (u *ContactUseCase) List(ctx context.Context, filter entities.ContactFilter, page, limit int) (entities.Page[entities.Contact], error) {
	if filter.Status != "" {
		if err := validation.ValidateContactStatus(string(filter.Status)); err != nil {
			return entities.Page[entities.Contact]{}, err
		}
	}
	req := u.pageRequest(page, limit)

	var (
		items []entities.Contact
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = u.repo.List(gctx, filter, req.Offset(), req.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = u.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return entities.Page[entities.Contact]{}, err
	}
	return entities.NewPage(items, req, total), nil
}

// Search ranks contacts by term hits: name 3, subject 2, message 1.
func (u *ContactUseCase) Search(ctx context.Context, query string, limit int) ([]entities.Contact, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return nil, ErrEmptySearchQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > u.maxSize {
		limit = u.maxSize
	}

	candidates, err := u.repo.Search(ctx, terms)
	if err != nil {
		return nil, err
	}
	return rankByRelevance(candidates,
		func(c entities.Contact) int {
			return relevance(terms,
				weightedField{c.Name, 3},
				weightedField{c.Subject, 2},
				weightedField{c.Message, 1},
			)
		},
		func(c entities.Contact) time.Time { return c.CreatedAt },
		limit,
	), nil
}

// UpdateStatus sets the status. Resolving stamps resolved/resolvedAt; other
// moves leave them as they were. No note is recorded for contacts.
func (u *ContactUseCase) UpdateStatus(ctx context.Context, id, status string) (entities.Contact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Contact{}, ErrInvalidID
	}
	if err := validation.ValidateContactStatus(status); err != nil {
		return entities.Contact{}, err
	}

	now := u.now()
	next := entities.ContactStatus(status)
	updated, err := u.repo.UpdateStatus(ctx, id, next, entities.ResolutionStamp(next, now), now)
	if err != nil {
		return entities.Contact{}, err
	}
	if updated.ID == "" {
		return entities.Contact{}, ErrContactNotFound
	}
	metrics.RecordStatusChange(string(entities.LeadKindContact), status)
	return updated, nil
}

func (u *ContactUseCase) AddNote(ctx context.Context, id, content, author string) (entities.Contact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Contact{}, ErrInvalidID
	}
	if err := validation.ValidateNote(content); err != nil {
		return entities.Contact{}, err
	}

	updated, err := u.repo.AppendNote(ctx, id, entities.NewNote(content, strings.TrimSpace(author), u.now()))
	if err != nil {
		return entities.Contact{}, err
	}
	if updated.ID == "" {
		return entities.Contact{}, ErrContactNotFound
	}
	return updated, nil
}

func (u *ContactUseCase) Update(ctx context.Context, id string, patch entities.ContactPatch) (entities.Contact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Contact{}, ErrInvalidID
	}
	if err := validation.ValidateContactPatch(patch); err != nil {
		return entities.Contact{}, err
	}
	if patch.IsEmpty() {
		return u.GetByID(ctx, id)
	}

	updated, err := u.repo.Update(ctx, id, patch, u.now())
	if err != nil {
		return entities.Contact{}, err
	}
	if updated.ID == "" {
		return entities.Contact{}, ErrContactNotFound
	}
	return updated, nil
}

func (u *ContactUseCase) Stats(ctx context.Context) (entities.ContactStats, error) {
	return cache.GetOrCompute(ctx, u.kv, u.log, contactStatsCacheKey, u.cacheTTL, u.computeStats)
}

func (u *ContactUseCase) computeStats(ctx context.Context) (entities.ContactStats, error) {
	var (
		byStatus map[entities.ContactStatus]int64
		stats    entities.ContactStats
	)
	since := u.now().Add(-recentWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = u.repo.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalContacts, err = u.repo.Count(gctx, entities.ContactFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.RecentContacts, err = u.repo.CountCreatedSince(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return entities.ContactStats{}, err
	}
	stats.StatusBreakdown = entities.SeedStatusCounts(entities.ContactStatuses, byStatus)
	return stats, nil
}

// Export returns every contact matching filter, newest first.
func (u *ContactUseCase) Export(ctx context.Context, filter entities.ContactFilter) ([]entities.Contact, error) {
	if filter.Status != "" {
		if err := validation.ValidateContactStatus(string(filter.Status)); err != nil {
			return nil, err
		}
	}
	return u.repo.List(ctx, filter, 0, 0)
}
