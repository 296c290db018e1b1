package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/domain/validation"
	"solstice_leads/internal/infrastructure/cache"
	"solstice_leads/internal/usecase/interfaces"
)

const (
	dashboardCacheKey      = "dashboard:overview"
	dashboardTrendMonths   = 6
	dashboardTopProducts   = 5
	defaultActivityLimit   = 20
	maxActivityLimit       = 100
	defaultAnalyticsPeriod = 30
)

// IDashboardUseCase exposes the admin read models that span both lead kinds.
type IDashboardUseCase interface {
	Dashboard(ctx context.Context) (entities.Dashboard, error)
	RecentActivity(ctx context.Context, limit int) ([]entities.ActivityItem, error)
	Analytics(ctx context.Context, periodDays int) (entities.Analytics, error)
}

type DashboardUseCase struct {
	contacts  interfaces.IContactRepository
	inquiries interfaces.IInquiryRepository
	catalog   interfaces.ICatalogReader
	options
}

var _ IDashboardUseCase = (*DashboardUseCase)(nil)

func NewDashboardUseCase(contacts interfaces.IContactRepository, inquiries interfaces.IInquiryRepository, catalog interfaces.ICatalogReader, opts ...Option) *DashboardUseCase {
	o := newOptions(opts)
	o.log = o.log.Named("dashboard")
	return &DashboardUseCase{contacts: contacts, inquiries: inquiries, catalog: catalog, options: o}
}

func (u *DashboardUseCase) Dashboard(ctx context.Context) (entities.Dashboard, error) {
	return cache.GetOrCompute(ctx, u.kv, u.log, dashboardCacheKey, u.cacheTTL, u.computeDashboard)
}

func (u *DashboardUseCase) computeDashboard(ctx context.Context) (entities.Dashboard, error) {
	now := u.now()
	since := now.Add(-recentWindow)
	trendStart := entities.MonthlyWindowStart(dashboardTrendMonths, now)

	var (
		d              entities.Dashboard
		ov             = &d.Overview
		contactStatus  map[entities.ContactStatus]int64
		inquiryStatus  map[entities.InquiryStatus]int64
		contactPoints  []entities.LeadPoint
		inquiryPoints  []entities.LeadPoint
		pendingContact = entities.ContactFilter{Status: entities.ContactStatusNew}
		pendingInquiry = entities.InquiryFilter{Status: entities.InquiryStatusNew}
	)

	// Catalog counts belong to another collection owner; they degrade to zero.
	ov.TotalProducts, ov.TotalBlogPosts, d.ProductStats = u.catalogCounts(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ov.TotalContacts, err = u.contacts.Count(gctx, entities.ContactFilter{})
		return err
	})
	g.Go(func() (err error) {
		ov.TotalInquiries, err = u.inquiries.Count(gctx, entities.InquiryFilter{})
		return err
	})
	g.Go(func() (err error) {
		ov.RecentContacts, err = u.contacts.CountCreatedSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		ov.RecentInquiries, err = u.inquiries.CountCreatedSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		ov.PendingContacts, err = u.contacts.Count(gctx, pendingContact)
		return err
	})
	g.Go(func() (err error) {
		ov.PendingInquiries, err = u.inquiries.Count(gctx, pendingInquiry)
		return err
	})
	g.Go(func() (err error) {
		ov.HighPriorityInquiries, err = u.inquiries.CountHighPriorityOpen(gctx)
		return err
	})
	g.Go(func() (err error) {
		ov.TotalEstimatedValue, err = u.inquiries.TotalEstimatedValue(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.InquiryByProduct, err = u.inquiries.ProductStats(gctx, dashboardTopProducts)
		return err
	})
	g.Go(func() (err error) {
		contactStatus, err = u.contacts.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		inquiryStatus, err = u.inquiries.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		contactPoints, err = u.contacts.ListCreatedSince(gctx, trendStart)
		return err
	})
	g.Go(func() (err error) {
		inquiryPoints, err = u.inquiries.ListCreatedSince(gctx, trendStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return entities.Dashboard{}, err
	}

	if d.InquiryByProduct == nil {
		d.InquiryByProduct = []entities.ProductStat{}
	}
	d.ContactStatusBreakdown = entities.SeedStatusCounts(entities.ContactStatuses, contactStatus)
	d.InquiryStatusBreakdown = entities.SeedStatusCounts(entities.InquiryStatuses, inquiryStatus)
	d.MonthlyContacts = entities.MonthlyBuckets(contactPoints, dashboardTrendMonths, now)
	d.MonthlyInquiries = entities.MonthlyBuckets(inquiryPoints, dashboardTrendMonths, now)
	return d, nil
}

func (u *DashboardUseCase) catalogCounts(ctx context.Context) (products, posts int64, categories []entities.CategoryCount) {
	categories = []entities.CategoryCount{}
	if u.catalog == nil {
		return 0, 0, categories
	}
	var err error
	if products, err = u.catalog.CountProducts(ctx); err != nil {
		u.log.Warn("catalog product count unavailable", zap.Error(err))
		products = 0
	}
	if posts, err = u.catalog.CountBlogPosts(ctx); err != nil {
		u.log.Warn("catalog blog count unavailable", zap.Error(err))
		posts = 0
	}
	if cats, err := u.catalog.ProductCategoryCounts(ctx); err != nil {
		u.log.Warn("catalog category counts unavailable", zap.Error(err))
	} else if cats != nil {
		categories = cats
	}
	return products, posts, categories
}

// RecentActivity merges the newest contacts and inquiries (limit/2 of each)
// into one feed, newest first.
func (u *DashboardUseCase) RecentActivity(ctx context.Context, limit int) ([]entities.ActivityItem, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	half := limit / 2
	if half < 1 {
		half = 1
	}

	var (
		contacts  []entities.Contact
		inquiries []entities.Inquiry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		contacts, err = u.contacts.List(gctx, entities.ContactFilter{}, 0, half)
		return err
	})
	g.Go(func() (err error) {
		inquiries, err = u.inquiries.List(gctx, entities.InquiryFilter{}, 0, half)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]entities.ActivityItem, 0, len(contacts)+len(inquiries))
	for _, c := range contacts {
		items = append(items, entities.ActivityItem{
			Kind:      entities.LeadKindContact,
			ID:        c.ID,
			Title:     c.Name,
			Subtitle:  c.Subject,
			Status:    string(c.Status),
			Priority:  c.Priority,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, i := range inquiries {
		items = append(items, entities.ActivityItem{
			Kind:      entities.LeadKindInquiry,
			ID:        i.ID,
			Title:     i.Name,
			Subtitle:  i.Product + " (" + i.FormattedQuantity() + ")",
			Status:    string(i.Status),
			Priority:  i.Priority,
			CreatedAt: i.CreatedAt,
		})
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt.After(items[b].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Analytics returns daily series for both kinds over the trailing periodDays
// UTC days, today included.
func (u *DashboardUseCase) Analytics(ctx context.Context, periodDays int) (entities.Analytics, error) {
	if periodDays == 0 {
		periodDays = defaultAnalyticsPeriod
	}
	if err := validation.ValidateAnalyticsPeriod(periodDays); err != nil {
		return entities.Analytics{}, err
	}

	now := u.now()
	start := entities.DailyWindowStart(periodDays, now)

	var contactPoints, inquiryPoints []entities.LeadPoint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		contactPoints, err = u.contacts.ListCreatedSince(gctx, start)
		return err
	})
	g.Go(func() (err error) {
		inquiryPoints, err = u.inquiries.ListCreatedSince(gctx, start)
		return err
	})
	if err := g.Wait(); err != nil {
		return entities.Analytics{}, err
	}

	return entities.Analytics{
		PeriodDays: periodDays,
		Contacts:   entities.DailyBuckets(contactPoints, periodDays, now),
		Inquiries:  entities.DailyBuckets(inquiryPoints, periodDays, now),
	}, nil
}
