package request

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
)

func TestInquiryRequest_ToSubmission(t *testing.T) {
	var r InquiryRequest
	body := `{"name":"Grace","email":"grace@example.com","product":"Cashew","quantity":12.5,"quantityUnit":"containers","deliveryPort":"Lagos"}`
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := r.ToSubmission("10.0.0.1", "curl/8", "https://solstice.test/products")
	if s.Quantity == nil || *s.Quantity != 12.5 {
		t.Fatalf("expected quantity 12.5, got %v", s.Quantity)
	}
	if s.QuantityUnit != "containers" || s.DeliveryPort != "Lagos" {
		t.Fatalf("unexpected mapped fields: %+v", s)
	}
	if s.IPAddress != "10.0.0.1" || s.UserAgent != "curl/8" || s.Referrer != "https://solstice.test/products" {
		t.Fatalf("client metadata not captured: %+v", s)
	}
}

func TestInquiryRequest_MissingQuantityStaysNil(t *testing.T) {
	var r InquiryRequest
	if err := json.Unmarshal([]byte(`{"name":"Grace"}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := r.ToSubmission("", "", ""); s.Quantity != nil {
		t.Fatalf("expected nil quantity, got %v", *s.Quantity)
	}
}

func TestInquiryRequest_QuantityAcceptsNumericStrings(t *testing.T) {
	for body, want := range map[string]float64{
		`{"quantity":"120"}`:   120,
		`{"quantity":" 7.5 "}`: 7.5,
		`{"quantity":40}`:      40,
		`{"quantity":"1e2"}`:   100,
	} {
		var r InquiryRequest
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			t.Fatalf("%s: unexpected error: %v", body, err)
		}
		if s := r.ToSubmission("", "", ""); s.Quantity == nil || *s.Quantity != want {
			t.Fatalf("%s: expected %v, got %v", body, want, s.Quantity)
		}
	}
}

func TestInquiryRequest_QuantityRejectsText(t *testing.T) {
	for _, body := range []string{`{"quantity":"lots"}`, `{"quantity":""}`, `{"quantity":true}`, `{"quantity":"NaN"}`} {
		var r InquiryRequest
		err := json.Unmarshal([]byte(body), &r)
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field != "quantity" {
			t.Fatalf("%s: expected a quantity type error, got %v", body, err)
		}
	}
}

func TestContactRequest_ToSubmission(t *testing.T) {
	r := ContactRequest{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello", Country: "NG"}
	s := r.ToSubmission("127.0.0.1", "browser")
	if s.Name != "Ada" || s.Country != "NG" || s.IPAddress != "127.0.0.1" || s.UserAgent != "browser" {
		t.Fatalf("unexpected submission: %+v", s)
	}
}

func TestQuoteRequest_ToInput(t *testing.T) {
	var r QuoteRequest
	if err := json.Unmarshal([]byte(`{"amount":1999.99,"validDays":14,"userId":"u-1"}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := r.ToInput()
	if !in.Amount.Equal(decimal.RequireFromString("1999.99")) {
		t.Fatalf("expected 1999.99, got %s", in.Amount)
	}
	if in.Currency != nil {
		t.Fatalf("expected absent currency, got %q", *in.Currency)
	}
	if in.ValidDays == nil || *in.ValidDays != 14 || in.Author != "u-1" {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestPatchRequests_ToPatch(t *testing.T) {
	var c ContactPatchRequest
	if err := json.Unmarshal([]byte(`{"source":"whatsapp","followUpDate":"2024-06-01T09:00:00Z"}`), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cp := c.ToPatch()
	if cp.Source == nil || *cp.Source != entities.ContactSource("whatsapp") {
		t.Fatalf("source not converted: %+v", cp)
	}
	if cp.FollowUpDate == nil || cp.FollowUpDate.Day() != 1 {
		t.Fatalf("follow-up date not parsed: %+v", cp)
	}
	if cp.Priority != nil || cp.AssignedTo != nil {
		t.Fatalf("untouched fields should be nil: %+v", cp)
	}

	var i InquiryPatchRequest
	if err := json.Unmarshal([]byte(`{"priority":"low","source":"trade-show","assignedTo":""}`), &i); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ip := i.ToPatch()
	if ip.Priority == nil || *ip.Priority != entities.PriorityLow {
		t.Fatalf("priority not converted: %+v", ip)
	}
	if ip.Source == nil || *ip.Source != entities.InquirySource("trade-show") {
		t.Fatalf("source not converted: %+v", ip)
	}
	// an explicit empty string clears the assignee
	if ip.AssignedTo == nil || *ip.AssignedTo != "" {
		t.Fatalf("expected explicit empty assignee: %+v", ip)
	}
	if ip.EstimatedValue != nil || ip.CustomerType != nil {
		t.Fatalf("untouched fields should be nil: %+v", ip)
	}
}
