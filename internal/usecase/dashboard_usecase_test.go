package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/domain/validation"
	mock_interfaces "solstice_leads/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type dashboardMocks struct {
	contacts  *mock_interfaces.MockIContactRepository
	inquiries *mock_interfaces.MockIInquiryRepository
	catalog   *mock_interfaces.MockICatalogReader
}

func newDashboardMocks(t *testing.T) dashboardMocks {
	ctrl := gomock.NewController(t)
	return dashboardMocks{
		contacts:  mock_interfaces.NewMockIContactRepository(ctrl),
		inquiries: mock_interfaces.NewMockIInquiryRepository(ctrl),
		catalog:   mock_interfaces.NewMockICatalogReader(ctrl),
	}
}

func (m dashboardMocks) expectLeadReads(contactPoints, inquiryPoints []entities.LeadPoint) {
	m.contacts.EXPECT().Count(gomock.Any(), entities.ContactFilter{}).Return(int64(12), nil)
	m.contacts.EXPECT().Count(gomock.Any(), entities.ContactFilter{Status: entities.ContactStatusNew}).Return(int64(4), nil)
	m.contacts.EXPECT().CountCreatedSince(gomock.Any(), gomock.Any()).Return(int64(3), nil)
	m.contacts.EXPECT().CountByStatus(gomock.Any()).Return(map[entities.ContactStatus]int64{entities.ContactStatusNew: 4}, nil)
	m.contacts.EXPECT().ListCreatedSince(gomock.Any(), gomock.Any()).Return(contactPoints, nil)

	m.inquiries.EXPECT().Count(gomock.Any(), entities.InquiryFilter{}).Return(int64(8), nil)
	m.inquiries.EXPECT().Count(gomock.Any(), entities.InquiryFilter{Status: entities.InquiryStatusNew}).Return(int64(2), nil)
	m.inquiries.EXPECT().CountCreatedSince(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	m.inquiries.EXPECT().CountHighPriorityOpen(gomock.Any()).Return(int64(5), nil)
	m.inquiries.EXPECT().TotalEstimatedValue(gomock.Any()).Return(decimal.NewFromInt(300000), nil)
	m.inquiries.EXPECT().ProductStats(gomock.Any(), 5).Return([]entities.ProductStat{{Product: "Cashew Nuts", Count: 3}}, nil)
	m.inquiries.EXPECT().CountByStatus(gomock.Any()).Return(map[entities.InquiryStatus]int64{}, nil)
	m.inquiries.EXPECT().ListCreatedSince(gomock.Any(), gomock.Any()).Return(inquiryPoints, nil)
}

func TestDashboardUseCase_Dashboard(t *testing.T) {
	t.Run("aggregates overview, breakdowns and trends", func(t *testing.T) {
		m := newDashboardMocks(t)
		uc := NewDashboardUseCase(m.contacts, m.inquiries, m.catalog, fixedClock())

		m.expectLeadReads(
			[]entities.LeadPoint{{CreatedAt: fixedNow.AddDate(0, -1, 0)}},
			[]entities.LeadPoint{{CreatedAt: fixedNow, EstimatedValue: decimal.NewFromInt(1500)}},
		)
		m.catalog.EXPECT().CountProducts(gomock.Any()).Return(int64(9), nil)
		m.catalog.EXPECT().CountBlogPosts(gomock.Any()).Return(int64(2), nil)
		m.catalog.EXPECT().ProductCategoryCounts(gomock.Any()).Return([]entities.CategoryCount{{Category: "nuts", Count: 9}}, nil)

		d, err := uc.Dashboard(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ov := d.Overview
		if ov.TotalContacts != 12 || ov.PendingContacts != 4 || ov.TotalInquiries != 8 || ov.PendingInquiries != 2 {
			t.Fatalf("unexpected overview: %+v", ov)
		}
		if ov.TotalProducts != 9 || ov.TotalBlogPosts != 2 || ov.HighPriorityInquiries != 5 {
			t.Fatalf("unexpected overview: %+v", ov)
		}
		if len(d.ContactStatusBreakdown) != len(entities.ContactStatuses) || len(d.InquiryStatusBreakdown) != len(entities.InquiryStatuses) {
			t.Fatalf("expected zero-seeded breakdowns")
		}
		if len(d.MonthlyContacts) != 6 || len(d.MonthlyInquiries) != 6 {
			t.Fatalf("expected six monthly buckets")
		}
		last := d.MonthlyInquiries[5]
		if last.Year != 2024 || last.Month != 5 || last.Count != 1 || !last.TotalValue.Equal(decimal.NewFromInt(1500)) {
			t.Fatalf("unexpected current month bucket: %+v", last)
		}
		if d.MonthlyContacts[4].Count != 1 {
			t.Fatalf("expected April contact, got %+v", d.MonthlyContacts)
		}
	})

	t.Run("catalog failures degrade to zero", func(t *testing.T) {
		m := newDashboardMocks(t)
		uc := NewDashboardUseCase(m.contacts, m.inquiries, m.catalog, fixedClock())

		m.expectLeadReads(nil, nil)
		m.catalog.EXPECT().CountProducts(gomock.Any()).Return(int64(0), errors.New("no table"))
		m.catalog.EXPECT().CountBlogPosts(gomock.Any()).Return(int64(0), errors.New("no table"))
		m.catalog.EXPECT().ProductCategoryCounts(gomock.Any()).Return(nil, errors.New("no table"))

		d, err := uc.Dashboard(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Overview.TotalProducts != 0 || d.ProductStats == nil || len(d.ProductStats) != 0 {
			t.Fatalf("unexpected catalog section: %+v", d)
		}
	})

	t.Run("lead store failure fails the dashboard", func(t *testing.T) {
		m := newDashboardMocks(t)
		uc := NewDashboardUseCase(m.contacts, m.inquiries, nil, fixedClock())

		m.contacts.EXPECT().Count(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down")).AnyTimes()
		m.contacts.EXPECT().CountCreatedSince(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()
		m.contacts.EXPECT().CountByStatus(gomock.Any()).Return(nil, nil).AnyTimes()
		m.contacts.EXPECT().ListCreatedSince(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		m.inquiries.EXPECT().Count(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()
		m.inquiries.EXPECT().CountCreatedSince(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()
		m.inquiries.EXPECT().CountHighPriorityOpen(gomock.Any()).Return(int64(0), nil).AnyTimes()
		m.inquiries.EXPECT().TotalEstimatedValue(gomock.Any()).Return(decimal.Zero, nil).AnyTimes()
		m.inquiries.EXPECT().ProductStats(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		m.inquiries.EXPECT().CountByStatus(gomock.Any()).Return(nil, nil).AnyTimes()
		m.inquiries.EXPECT().ListCreatedSince(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

		if _, err := uc.Dashboard(context.Background()); err == nil || err.Error() != "db down" {
			t.Fatalf("expected db down, got %v", err)
		}
	})
}

func TestDashboardUseCase_RecentActivity(t *testing.T) {
	m := newDashboardMocks(t)
	uc := NewDashboardUseCase(m.contacts, m.inquiries, nil)

	m.contacts.EXPECT().List(gomock.Any(), entities.ContactFilter{}, 0, 2).Return([]entities.Contact{
		{ID: "c-new", Name: "A", Subject: "s", CreatedAt: fixedNow},
		{ID: "c-old", Name: "B", Subject: "s", CreatedAt: fixedNow.Add(-3 * time.Hour)},
	}, nil)
	m.inquiries.EXPECT().List(gomock.Any(), entities.InquiryFilter{}, 0, 2).Return([]entities.Inquiry{
		{ID: "i-mid", Name: "C", Product: "Ginger", Quantity: qty(5), QuantityUnit: entities.QuantityUnitKg, CreatedAt: fixedNow.Add(-time.Hour)},
	}, nil)

	items, err := uc.RecentActivity(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 || items[0].ID != "c-new" || items[1].ID != "i-mid" || items[2].ID != "c-old" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if items[1].Kind != entities.LeadKindInquiry || items[1].Subtitle != "Ginger (5 kg)" {
		t.Fatalf("unexpected inquiry item: %+v", items[1])
	}
}

func TestDashboardUseCase_Analytics(t *testing.T) {
	t.Run("defaults to thirty days", func(t *testing.T) {
		m := newDashboardMocks(t)
		uc := NewDashboardUseCase(m.contacts, m.inquiries, nil, fixedClock())

		start := entities.DailyWindowStart(30, fixedNow)
		m.contacts.EXPECT().ListCreatedSince(gomock.Any(), start).Return([]entities.LeadPoint{{CreatedAt: fixedNow}}, nil)
		m.inquiries.EXPECT().ListCreatedSince(gomock.Any(), start).Return(nil, nil)

		a, err := uc.Analytics(context.Background(), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.PeriodDays != 30 || len(a.Contacts) != 30 || len(a.Inquiries) != 30 {
			t.Fatalf("unexpected analytics: %+v", a)
		}
		if a.Contacts[29].Count != 1 || a.Contacts[29].Date != "2024-05-10" {
			t.Fatalf("unexpected last bucket: %+v", a.Contacts[29])
		}
	})

	t.Run("rejects out of range period", func(t *testing.T) {
		uc := NewDashboardUseCase(nil, nil, nil)
		_, err := uc.Analytics(context.Background(), 400)
		var verr *validation.Errors
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
