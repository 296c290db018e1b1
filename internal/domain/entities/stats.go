package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// SeedStatusCounts returns one entry per status, in declaration order, with
// counts taken from counts and zero for every status it does not mention.
func SeedStatusCounts[S ~string](statuses []S, counts map[S]int64) []StatusCount {
	out := make([]StatusCount, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, StatusCount{Status: string(s), Count: counts[s]})
	}
	return out
}

type ProductStat struct {
	Product       string  `json:"product"`
	Count         int64   `json:"count"`
	TotalQuantity float64 `json:"total_quantity"`
	AvgQuantity   float64 `json:"avg_quantity"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TrendBucket is one calendar month of a monthly series. TotalValue is only
// populated for inquiries.
type TrendBucket struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Count      int64           `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// DailyBucket is one UTC day of an analytics series.
type DailyBucket struct {
	Date       string          `json:"date"`
	Count      int64           `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

type ContactStats struct {
	StatusBreakdown []StatusCount `json:"status_breakdown"`
	TotalContacts   int64         `json:"total_contacts"`
	RecentContacts  int64         `json:"recent_contacts"`
}

type InquiryStats struct {
	StatusBreakdown       []StatusCount   `json:"status_breakdown"`
	TopProducts           []ProductStat   `json:"top_products"`
	TotalInquiries        int64           `json:"total_inquiries"`
	RecentInquiries       int64           `json:"recent_inquiries"`
	HighPriorityInquiries int64           `json:"high_priority_inquiries"`
	TotalEstimatedValue   decimal.Decimal `json:"total_estimated_value"`
}

type DashboardOverview struct {
	TotalProducts         int64           `json:"total_products"`
	TotalBlogPosts        int64           `json:"total_blog_posts"`
	TotalContacts         int64           `json:"total_contacts"`
	TotalInquiries        int64           `json:"total_inquiries"`
	RecentContacts        int64           `json:"recent_contacts"`
	RecentInquiries       int64           `json:"recent_inquiries"`
	PendingContacts       int64           `json:"pending_contacts"`
	PendingInquiries      int64           `json:"pending_inquiries"`
	HighPriorityInquiries int64           `json:"high_priority_inquiries"`
	TotalEstimatedValue   decimal.Decimal `json:"total_estimated_value"`
}

type Dashboard struct {
	Overview               DashboardOverview `json:"overview"`
	ProductStats           []CategoryCount   `json:"product_stats"`
	InquiryByProduct       []ProductStat     `json:"inquiry_by_product"`
	ContactStatusBreakdown []StatusCount     `json:"contact_status_breakdown"`
	InquiryStatusBreakdown []StatusCount     `json:"inquiry_status_breakdown"`
	MonthlyContacts        []TrendBucket     `json:"monthly_contacts"`
	MonthlyInquiries       []TrendBucket     `json:"monthly_inquiries"`
}

// ActivityItem is one entry of the merged admin feed.
type ActivityItem struct {
	Kind      LeadKind  `json:"kind"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Status    string    `json:"status"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type Analytics struct {
	PeriodDays int           `json:"period_days"`
	Contacts   []DailyBucket `json:"contacts"`
	Inquiries  []DailyBucket `json:"inquiries"`
}

// MonthlyBuckets groups points into exactly months calendar months (UTC)
// ending with the month containing now, oldest first, zero-filled.
func MonthlyBuckets(points []LeadPoint, months int, now time.Time) []TrendBucket {
	if months <= 0 {
		return []TrendBucket{}
	}
	start := MonthlyWindowStart(months, now)
	buckets := make([]TrendBucket, months)
	for k := range buckets {
		m := start.AddDate(0, k, 0)
		buckets[k] = TrendBucket{Year: m.Year(), Month: int(m.Month()), TotalValue: decimal.Zero}
	}
	for _, p := range points {
		t := p.CreatedAt.UTC()
		k := (t.Year()-start.Year())*12 + int(t.Month()) - int(start.Month())
		if k < 0 || k >= months {
			continue
		}
		buckets[k].Count++
		buckets[k].TotalValue = buckets[k].TotalValue.Add(p.EstimatedValue)
	}
	return buckets
}

// MonthlyWindowStart is the first instant of the oldest month in a window of
// months calendar months ending with the month containing now.
func MonthlyWindowStart(months int, now time.Time) time.Time {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(months - 1), 0)
}

// DailyBuckets groups points into days UTC days ending today, oldest first.
func DailyBuckets(points []LeadPoint, days int, now time.Time) []DailyBucket {
	if days <= 0 {
		return []DailyBucket{}
	}
	start := DailyWindowStart(days, now)
	buckets := make([]DailyBucket, days)
	for k := range buckets {
		buckets[k] = DailyBucket{Date: start.AddDate(0, 0, k).Format("2006-01-02"), TotalValue: decimal.Zero}
	}
	for _, p := range points {
		t := p.CreatedAt.UTC()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		k := int(day.Sub(start).Hours() / 24)
		if day.Before(start) || k >= days {
			continue
		}
		buckets[k].Count++
		buckets[k].TotalValue = buckets[k].TotalValue.Add(p.EstimatedValue)
	}
	return buckets
}

func DailyWindowStart(days int, now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -(days - 1))
}
