package response

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
)

func TestFromInquiry(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(49 * time.Hour)
	qty := 120.0
	value := decimal.NewFromInt(180000)
	i := entities.Inquiry{
		ID:             "0f8fad5b-d9cb-469f-a165-70867728950e",
		Product:        "Cashew",
		Quantity:       &qty,
		QuantityUnit:   entities.QuantityUnitMetricTons,
		Priority:       entities.PriorityHigh,
		EstimatedValue: &value,
		AssignedTo:     "u-1",
		CreatedAt:      created,
	}

	res := FromInquiry(i, nil, now)
	if res.ReferenceNumber != "INQ-7728950E" {
		t.Fatalf("unexpected reference %q", res.ReferenceNumber)
	}
	if res.FormattedQuantity != "120 metric tons" {
		t.Fatalf("unexpected quantity %q", res.FormattedQuantity)
	}
	if res.DaysSinceInquiry != 3 {
		t.Fatalf("expected 3 days, got %d", res.DaysSinceInquiry)
	}
	if res.AssignedTo == nil || res.AssignedTo.ID != "u-1" || res.AssignedTo.Name != "" {
		t.Fatalf("expected id-only reference, got %+v", res.AssignedTo)
	}
	if res.QuotedPrice != nil {
		t.Fatalf("expected no quote, got %+v", res.QuotedPrice)
	}
	if res.Notes == nil {
		t.Fatalf("notes should serialize as an empty list")
	}
}

func TestFromContact_ResolvesUsers(t *testing.T) {
	c := entities.Contact{
		ID:         "c-1",
		AssignedTo: "u-1",
		Notes:      []entities.Note{{Content: "x", AddedBy: "u-1"}, {Content: "y"}},
	}
	users := map[string]entities.UserRef{"u-1": {ID: "u-1", Name: "Sam", Email: "sam@solstice.test"}}

	res := FromContact(c, users, time.Now())
	if res.AssignedTo == nil || res.AssignedTo.Email != "sam@solstice.test" {
		t.Fatalf("assignee not resolved: %+v", res.AssignedTo)
	}
	if res.Notes[0].AddedBy == nil || res.Notes[0].AddedBy.Name != "Sam" {
		t.Fatalf("note author not resolved: %+v", res.Notes[0])
	}
	if res.Notes[1].AddedBy != nil {
		t.Fatalf("anonymous note should have no author: %+v", res.Notes[1])
	}
}

func TestFromPage(t *testing.T) {
	p := entities.NewPage([]entities.Contact{{ID: "a"}, {ID: "b"}}, entities.NewPageRequest(1, 2, 20, 100), 5)
	res := FromPage(p, FromContacts(p.Items, time.Now()))
	if len(res.Items) != 2 || res.Pagination.TotalPages != 3 || !res.Pagination.HasNext || res.Pagination.HasPrev {
		t.Fatalf("unexpected page: %+v", res.Pagination)
	}
}

func TestFromDashboard_OmitsContactValue(t *testing.T) {
	d := entities.Dashboard{
		MonthlyContacts:  []entities.TrendBucket{{Year: 2024, Month: 4, Count: 2}},
		MonthlyInquiries: []entities.TrendBucket{{Year: 2024, Month: 4, Count: 1, TotalValue: decimal.NewFromInt(1500)}},
	}
	raw, err := json.Marshal(FromDashboard(d))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, `"monthlyContacts":[{"year":2024,"month":4,"count":2}]`) {
		t.Fatalf("contact bucket should have no value: %s", body)
	}
	if !strings.Contains(body, `"totalValue":"1500"`) {
		t.Fatalf("inquiry bucket should carry value: %s", body)
	}
}

func TestFromAnalytics(t *testing.T) {
	a := entities.Analytics{
		PeriodDays: 2,
		Contacts:   []entities.DailyBucket{{Date: "2024-05-01", Count: 1}, {Date: "2024-05-02"}},
		Inquiries:  []entities.DailyBucket{{Date: "2024-05-01"}, {Date: "2024-05-02", Count: 2, TotalValue: decimal.NewFromInt(3000)}},
	}
	res := FromAnalytics(a)
	if res.Period != 2 || len(res.Contacts) != 2 || res.Contacts[0].TotalValue != nil {
		t.Fatalf("unexpected contacts series: %+v", res)
	}
	if res.Inquiries[1].TotalValue == nil || !res.Inquiries[1].TotalValue.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("unexpected inquiry series: %+v", res.Inquiries)
	}
}
