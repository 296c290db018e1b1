package response

import (
	"time"

	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
)

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ProductStatResponse struct {
	Product       string  `json:"product"`
	Count         int64   `json:"count"`
	TotalQuantity float64 `json:"totalQuantity"`
	AvgQuantity   float64 `json:"avgQuantity"`
}

type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type TrendBucketResponse struct {
	Year       int              `json:"year"`
	Month      int              `json:"month"`
	Count      int64            `json:"count"`
	TotalValue *decimal.Decimal `json:"totalValue,omitempty"`
}

type DailyBucketResponse struct {
	Date       string           `json:"date"`
	Count      int64            `json:"count"`
	TotalValue *decimal.Decimal `json:"totalValue,omitempty"`
}

type ContactStatsResponse struct {
	StatusBreakdown []StatusCountResponse `json:"statusBreakdown"`
	TotalContacts   int64                 `json:"totalContacts"`
	RecentContacts  int64                 `json:"recentContacts"`
}

type InquiryStatsResponse struct {
	StatusBreakdown       []StatusCountResponse `json:"statusBreakdown"`
	TopProducts           []ProductStatResponse `json:"topProducts"`
	TotalInquiries        int64                 `json:"totalInquiries"`
	RecentInquiries       int64                 `json:"recentInquiries"`
	HighPriorityInquiries int64                 `json:"highPriorityInquiries"`
	TotalEstimatedValue   decimal.Decimal       `json:"totalEstimatedValue"`
}

type OverviewResponse struct {
	TotalProducts         int64           `json:"totalProducts"`
	TotalBlogPosts        int64           `json:"totalBlogPosts"`
	TotalContacts         int64           `json:"totalContacts"`
	TotalInquiries        int64           `json:"totalInquiries"`
	RecentContacts        int64           `json:"recentContacts"`
	RecentInquiries       int64           `json:"recentInquiries"`
	PendingContacts       int64           `json:"pendingContacts"`
	PendingInquiries      int64           `json:"pendingInquiries"`
	HighPriorityInquiries int64           `json:"highPriorityInquiries"`
	TotalEstimatedValue   decimal.Decimal `json:"totalEstimatedValue"`
}

type TrendsResponse struct {
	MonthlyContacts  []TrendBucketResponse `json:"monthlyContacts"`
	MonthlyInquiries []TrendBucketResponse `json:"monthlyInquiries"`
}

type StatusBreakdownResponse struct {
	Contacts  []StatusCountResponse `json:"contacts"`
	Inquiries []StatusCountResponse `json:"inquiries"`
}

type DashboardResponse struct {
	Overview         OverviewResponse        `json:"overview"`
	ProductStats     []CategoryCountResponse `json:"productStats"`
	InquiryByProduct []ProductStatResponse   `json:"inquiryByProduct"`
	StatusBreakdown  StatusBreakdownResponse `json:"statusBreakdown"`
	Trends           TrendsResponse          `json:"trends"`
}

type ActivityResponse struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

type AnalyticsResponse struct {
	Period    int                   `json:"period"`
	Contacts  []DailyBucketResponse `json:"contacts"`
	Inquiries []DailyBucketResponse `json:"inquiries"`
}

func fromStatusCounts(in []entities.StatusCount) []StatusCountResponse {
	out := make([]StatusCountResponse, len(in))
	for k, s := range in {
		out[k] = StatusCountResponse{Status: s.Status, Count: s.Count}
	}
	return out
}

func fromProductStats(in []entities.ProductStat) []ProductStatResponse {
	out := make([]ProductStatResponse, len(in))
	for k, p := range in {
		out[k] = ProductStatResponse{Product: p.Product, Count: p.Count, TotalQuantity: p.TotalQuantity, AvgQuantity: p.AvgQuantity}
	}
	return out
}

// withValue controls whether the summed value is emitted; contacts carry no
// monetary value.
func fromTrend(in []entities.TrendBucket, withValue bool) []TrendBucketResponse {
	out := make([]TrendBucketResponse, len(in))
	for k, b := range in {
		out[k] = TrendBucketResponse{Year: b.Year, Month: b.Month, Count: b.Count}
		if withValue {
			v := b.TotalValue
			out[k].TotalValue = &v
		}
	}
	return out
}

func fromDaily(in []entities.DailyBucket, withValue bool) []DailyBucketResponse {
	out := make([]DailyBucketResponse, len(in))
	for k, b := range in {
		out[k] = DailyBucketResponse{Date: b.Date, Count: b.Count}
		if withValue {
			v := b.TotalValue
			out[k].TotalValue = &v
		}
	}
	return out
}

func FromContactStats(s entities.ContactStats) ContactStatsResponse {
	return ContactStatsResponse{
		StatusBreakdown: fromStatusCounts(s.StatusBreakdown),
		TotalContacts:   s.TotalContacts,
		RecentContacts:  s.RecentContacts,
	}
}

func FromInquiryStats(s entities.InquiryStats) InquiryStatsResponse {
	return InquiryStatsResponse{
		StatusBreakdown:       fromStatusCounts(s.StatusBreakdown),
		TopProducts:           fromProductStats(s.TopProducts),
		TotalInquiries:        s.TotalInquiries,
		RecentInquiries:       s.RecentInquiries,
		HighPriorityInquiries: s.HighPriorityInquiries,
		TotalEstimatedValue:   s.TotalEstimatedValue,
	}
}

func FromDashboard(d entities.Dashboard) DashboardResponse {
	o := d.Overview
	categories := make([]CategoryCountResponse, len(d.ProductStats))
	for k, c := range d.ProductStats {
		categories[k] = CategoryCountResponse{Category: c.Category, Count: c.Count}
	}
	return DashboardResponse{
		Overview: OverviewResponse{
			TotalProducts:         o.TotalProducts,
			TotalBlogPosts:        o.TotalBlogPosts,
			TotalContacts:         o.TotalContacts,
			TotalInquiries:        o.TotalInquiries,
			RecentContacts:        o.RecentContacts,
			RecentInquiries:       o.RecentInquiries,
			PendingContacts:       o.PendingContacts,
			PendingInquiries:      o.PendingInquiries,
			HighPriorityInquiries: o.HighPriorityInquiries,
			TotalEstimatedValue:   o.TotalEstimatedValue,
		},
		ProductStats:     categories,
		InquiryByProduct: fromProductStats(d.InquiryByProduct),
		StatusBreakdown: StatusBreakdownResponse{
			Contacts:  fromStatusCounts(d.ContactStatusBreakdown),
			Inquiries: fromStatusCounts(d.InquiryStatusBreakdown),
		},
		Trends: TrendsResponse{
			MonthlyContacts:  fromTrend(d.MonthlyContacts, false),
			MonthlyInquiries: fromTrend(d.MonthlyInquiries, true),
		},
	}
}

func FromActivity(items []entities.ActivityItem) []ActivityResponse {
	out := make([]ActivityResponse, len(items))
	for k, a := range items {
		out[k] = ActivityResponse{
			Type:      string(a.Kind),
			ID:        a.ID,
			Title:     a.Title,
			Subtitle:  a.Subtitle,
			Status:    a.Status,
			Priority:  string(a.Priority),
			CreatedAt: a.CreatedAt,
		}
	}
	return out
}

func FromAnalytics(a entities.Analytics) AnalyticsResponse {
	return AnalyticsResponse{
		Period:    a.PeriodDays,
		Contacts:  fromDaily(a.Contacts, false),
		Inquiries: fromDaily(a.Inquiries, true),
	}
}
