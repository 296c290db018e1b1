package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/domain/validation"
	"solstice_leads/internal/infrastructure/cache"
	"solstice_leads/internal/infrastructure/metrics"
	"solstice_leads/internal/usecase/interfaces"
)

var ErrInquiryNotFound = errors.New("inquiry not found")

const (
	inquiryStatsCacheKey = "stats:inquiries"
	topProductsLimit     = 10
)

// InquirySubmission is the raw public inquiry form plus request metadata.
type InquirySubmission struct {
	Name         string
	Email        string
	Company      string
	Phone        string
	Product      string
	Quantity     *float64
	QuantityUnit string
	Message      string
	Country      string
	DeliveryPort string
	Urgency      string
	Budget       string
	IPAddress    string
	UserAgent    string
	Referrer     string
}

// QuoteInput carries a quote. Nil Currency and ValidDays take the defaults
// (USD, 30 days); explicit values are validated as given.
type QuoteInput struct {
	Amount    decimal.Decimal
	Currency  *string
	ValidDays *int
	Author    string
}

type InquiryDetail struct {
	Inquiry entities.Inquiry
	Users   map[string]entities.UserRef
}

// IInquiryUseCase exposes the inquiry intake, lifecycle and read operations.
type IInquiryUseCase interface {
	Submit(ctx context.Context, in InquirySubmission) (entities.Inquiry, error)
	GetByID(ctx context.Context, id string) (entities.Inquiry, error)
	GetDetail(ctx context.Context, id string) (InquiryDetail, error)
	List(ctx context.Context, filter entities.InquiryFilter, page, limit int) (entities.Page[entities.Inquiry], error)
	Search(ctx context.Context, query string, limit int) ([]entities.Inquiry, error)
	UpdateStatus(ctx context.Context, id, status, author string) (entities.Inquiry, error)
	AddQuote(ctx context.Context, id string, in QuoteInput) (entities.Inquiry, error)
	AddNote(ctx context.Context, id, content, author string) (entities.Inquiry, error)
	Update(ctx context.Context, id string, patch entities.InquiryPatch) (entities.Inquiry, error)
	Stats(ctx context.Context) (entities.InquiryStats, error)
	Export(ctx context.Context, filter entities.InquiryFilter) ([]entities.Inquiry, error)
}

type InquiryUseCase struct {
	repo interfaces.IInquiryRepository
	options
}

var _ IInquiryUseCase = (*InquiryUseCase)(nil)

func NewInquiryUseCase(repo interfaces.IInquiryRepository, opts ...Option) *InquiryUseCase {
	o := newOptions(opts)
	o.log = o.log.Named("inquiries")
	return &InquiryUseCase{repo: repo, options: o}
}

// Submit validates the inquiry, derives priority and estimated value, stores
// it and hands it to the notifier without waiting for delivery.
func (u *InquiryUseCase) Submit(ctx context.Context, in InquirySubmission) (entities.Inquiry, error) {
	now := u.now()
	i := entities.Inquiry{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        validation.NormalizeEmail(in.Email),
		Company:      strings.TrimSpace(in.Company),
		Phone:        strings.TrimSpace(in.Phone),
		Product:      strings.TrimSpace(in.Product),
		Quantity:     in.Quantity,
		QuantityUnit: entities.QuantityUnit(strings.TrimSpace(in.QuantityUnit)),
		Message:      strings.TrimSpace(in.Message),
		Country:      strings.TrimSpace(in.Country),
		DeliveryPort: strings.TrimSpace(in.DeliveryPort),
		Urgency:      entities.Urgency(strings.TrimSpace(in.Urgency)),
		Budget:       entities.Budget(strings.TrimSpace(in.Budget)),
		IPAddress:    in.IPAddress,
		UserAgent:    in.UserAgent,
		Referrer:     in.Referrer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	i.ApplyDefaults()
	if err := validation.ValidateInquiry(i); err != nil {
		return entities.Inquiry{}, err
	}
	i.Classify()

	created, err := u.repo.Create(ctx, i)
	if err != nil {
		return entities.Inquiry{}, err
	}

	metrics.RecordSubmission(string(entities.LeadKindInquiry))
	u.log.Info("inquiry submitted",
		zap.String("id", created.ID),
		zap.String("product", created.Product),
		zap.String("priority", string(created.Priority)),
	)
	u.notify.Inquiry(created)
	return created, nil
}

func (u *InquiryUseCase) GetByID(ctx context.Context, id string) (entities.Inquiry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Inquiry{}, ErrInvalidID
	}
	i, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Inquiry{}, err
	}
	if i.ID == "" {
		return entities.Inquiry{}, ErrInquiryNotFound
	}
	return i, nil
}

func (u *InquiryUseCase) GetDetail(ctx context.Context, id string) (InquiryDetail, error) {
	i, err := u.GetByID(ctx, id)
	if err != nil {
		return InquiryDetail{}, err
	}
	ids := []string{i.AssignedTo}
	for _, n := range i.Notes {
		ids = append(ids, n.AddedBy)
	}
	return InquiryDetail{Inquiry: i, Users: u.resolveUsers(ctx, ids)}, nil
}

func (u *InquiryUseCase) validateFilter(filter entities.InquiryFilter) error {
	if filter.Status != "" {
		if err := validation.ValidateInquiryStatus(string(filter.Status)); err != nil {
			return err
		}
	}
	if filter.Priority != "" {
		return validation.ValidatePriority(string(filter.Priority))
	}
	return nil
}

func (u *InquiryUseCase) List(ctx context.Context, filter entities.InquiryFilter, page, limit int) (entities.Page[entities.Inquiry], error) {
	if err := u.validateFilter(filter); err != nil {
		return entities.Page[entities.Inquiry]{}, err
	}
	req := u.pageRequest(page, limit)

	var (
		items []entities.Inquiry
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = u.repo.List(gctx, filter, req.Offset(), req.Limit)
		return err
	})
	g.Go(func() (err error) {
		total, err = u.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return entities.Page[entities.Inquiry]{}, err
	}
	return entities.NewPage(items, req, total), nil
}

// Search ranks inquiries by term hits: name 3, company 2, product 2.
func (u *InquiryUseCase) Search(ctx context.Context, query string, limit int) ([]entities.Inquiry, error) {
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
		func(i entities.Inquiry) int {
			return relevance(terms,
				weightedField{i.Name, 3},
				weightedField{i.Company, 2},
				weightedField{i.Product, 2},
			)
		},
		func(i entities.Inquiry) time.Time { return i.CreatedAt },
		limit,
	), nil
}

// UpdateStatus moves the inquiry to status and records the move as a note,
// even when the status does not change.
func (u *InquiryUseCase) UpdateStatus(ctx context.Context, id, status, author string) (entities.Inquiry, error) {
	if strings.TrimSpace(id) == "" {
		return entities.Inquiry{}, ErrInvalidID
	}
	if err := validation.ValidateInquiryStatus(status); err != nil {
		return entities.Inquiry{}, err
	}
	current, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Inquiry{}, err
	}

	next := entities.InquiryStatus(status)
	note := current.UpdateStatus(next, strings.TrimSpace(author), u.now())

	updated, err := u.repo.UpdateStatus(ctx, current.ID, next, note)
	if err != nil {
		return entities.Inquiry{}, err
	}
	if updated.ID == "" {
		return entities.Inquiry{}, ErrInquiryNotFound
	}
	metrics.RecordStatusChange(string(entities.LeadKindInquiry), status)
	return updated, nil
}

// AddQuote replaces the quoted price, moves the inquiry to quoted and
// records the quote as a note.
func (u *InquiryUseCase) AddQuote(ctx context.Context, id string, in QuoteInput) (entities.Inquiry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Inquiry{}, ErrInvalidID
	}
	currency := entities.DefaultQuoteCurrency
	if in.Currency != nil {
		currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	validDays := entities.DefaultQuoteValidDays
	if in.ValidDays != nil {
		validDays = *in.ValidDays
	}
	if err := validation.ValidateQuote(in.Amount, currency, validDays); err != nil {
		return entities.Inquiry{}, err
	}

	current, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Inquiry{}, err
	}

	now := u.now()
	note := current.AddQuote(entities.NewQuotedPrice(in.Amount, currency, validDays, now), validDays, strings.TrimSpace(in.Author), now)

	updated, err := u.repo.SetQuote(ctx, current.ID, *current.QuotedPrice, current.Status, note)
	if err != nil {
		return entities.Inquiry{}, err
	}
	if updated.ID == "" {
		return entities.Inquiry{}, ErrInquiryNotFound
	}
	metrics.RecordQuote(currency)
	return updated, nil
}

func (u *InquiryUseCase) AddNote(ctx context.Context, id, content, author string) (entities.Inquiry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Inquiry{}, ErrInvalidID
	}
	if err := validation.ValidateNote(content); err != nil {
		return entities.Inquiry{}, err
	}

	updated, err := u.repo.AppendNote(ctx, id, entities.NewNote(content, strings.TrimSpace(author), u.now()))
	if err != nil {
		return entities.Inquiry{}, err
	}
	if updated.ID == "" {
		return entities.Inquiry{}, ErrInquiryNotFound
	}
	return updated, nil
}

func (u *InquiryUseCase) Update(ctx context.Context, id string, patch entities.InquiryPatch) (entities.Inquiry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Inquiry{}, ErrInvalidID
	}
	if err := validation.ValidateInquiryPatch(patch); err != nil {
		return entities.Inquiry{}, err
	}
	if patch.IsEmpty() {
		return u.GetByID(ctx, id)
	}

	updated, err := u.repo.Update(ctx, id, patch, u.now())
	if err != nil {
		return entities.Inquiry{}, err
	}
	if updated.ID == "" {
		return entities.Inquiry{}, ErrInquiryNotFound
	}
	return updated, nil
}

func (u *InquiryUseCase) Stats(ctx context.Context) (entities.InquiryStats, error) {
	return cache.GetOrCompute(ctx, u.kv, u.log, inquiryStatsCacheKey, u.cacheTTL, u.computeStats)
}

func (u *InquiryUseCase) computeStats(ctx context.Context) (entities.InquiryStats, error) {
	var (
		byStatus map[entities.InquiryStatus]int64
		stats    entities.InquiryStats
	)
	since := u.now().Add(-recentWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = u.repo.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TopProducts, err = u.repo.ProductStats(gctx, topProductsLimit)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalInquiries, err = u.repo.Count(gctx, entities.InquiryFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.RecentInquiries, err = u.repo.CountCreatedSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		stats.HighPriorityInquiries, err = u.repo.CountHighPriorityOpen(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalEstimatedValue, err = u.repo.TotalEstimatedValue(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return entities.InquiryStats{}, err
	}
	stats.StatusBreakdown = entities.SeedStatusCounts(entities.InquiryStatuses, byStatus)
	if stats.TopProducts == nil {
		stats.TopProducts = []entities.ProductStat{}
	}
	return stats, nil
}

// Export returns every inquiry matching filter, newest first.
func (u *InquiryUseCase) Export(ctx context.Context, filter entities.InquiryFilter) ([]entities.Inquiry, error) {
	if err := u.validateFilter(filter); err != nil {
		return nil, err
	}
	return u.repo.List(ctx, filter, 0, 0)
}
