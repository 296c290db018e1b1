// Package validation checks contacts, inquiries and lifecycle inputs against
// declarative rule tables. Rules are validator/v10 tag strings so the limits
// live in data rather than code.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"solstice_leads/internal/domain/entities"
	"solstice_leads/pkg"
)

// Rule binds a field to a validator tag and the message reported when the
// tag rejects the value.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

// Errors is the full list of rejected fields. It is returned as an error so
// callers can use errors.As.
type Errors struct {
	Fields []pkg.FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Errors) add(field, message string) {
	e.Fields = append(e.Fields, pkg.FieldError{Field: field, Message: message})
}

func (e *Errors) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var ContactRules = []Rule{
	{"name", "required,max=100", "Name is required and must be at most 100 characters"},
	{"email", "required,email", "Valid email is required"},
	{"subject", "required,max=200", "Subject is required and must be at most 200 characters"},
	{"message", "required,max=2000", "Message is required and must be at most 2000 characters"},
	{"phone", "omitempty,max=20", "Phone number must be at most 20 characters"},
	{"company", "omitempty,max=200", "Company name must be at most 200 characters"},
	{"country", "omitempty,max=100", "Country name must be at most 100 characters"},
	{"status", "oneof=new in-progress resolved closed", "Invalid status"},
	{"priority", "oneof=low medium high urgent", "Invalid priority"},
	{"source", "oneof=website email phone whatsapp other", "Invalid source"},
}

var InquiryRules = []Rule{
	{"name", "required,max=100", "Name is required and must be at most 100 characters"},
	{"email", "required,email", "Valid email is required"},
	{"product", "required,max=200", "Product is required"},
	{"company", "omitempty,max=200", "Company name must be at most 200 characters"},
	{"phone", "omitempty,max=20", "Phone number must be at most 20 characters"},
	{"quantity", "gt=0", "Quantity must be a positive number"},
	{"quantityUnit", "oneof=metric-tons containers kg", "Invalid quantity unit"},
	{"message", "omitempty,max=2000", "Message must be at most 2000 characters"},
	{"country", "omitempty,max=100", "Country name must be at most 100 characters"},
	{"deliveryPort", "omitempty,max=100", "Delivery port must be at most 100 characters"},
	{"urgency", "oneof=immediate within-month within-quarter flexible", "Invalid urgency"},
	{"budget", "oneof=under-10k 10k-50k 50k-100k over-100k not-specified", "Invalid budget"},
	{"status", "oneof=new quoted negotiating confirmed shipped completed cancelled", "Invalid status"},
	{"priority", "oneof=low medium high urgent", "Invalid priority"},
	{"source", "oneof=website referral trade-show email phone other", "Invalid source"},
	{"customerType", "oneof=new returning vip", "Invalid customer type"},
}

var NoteRules = []Rule{
	{"content", "required,max=1000", "Note content must be 1-1000 characters"},
}

var QuoteRules = []Rule{
	{"amount", "gte=0", "Amount must be a non-negative number"},
	{"currency", "oneof=USD EUR GBP NGN", "Invalid currency"},
	{"validDays", "min=1,max=365", "Valid days must be between 1 and 365"},
}

var ContactPatchRules = []Rule{
	{"priority", "oneof=low medium high urgent", "Invalid priority"},
	{"source", "oneof=website email phone whatsapp other", "Invalid source"},
	{"assignedTo", "max=64", "Assignee reference too long"},
}

var InquiryPatchRules = []Rule{
	{"priority", "oneof=low medium high urgent", "Invalid priority"},
	{"source", "oneof=website referral trade-show email phone other", "Invalid source"},
	{"customerType", "oneof=new returning vip", "Invalid customer type"},
	{"estimatedValue", "gte=0", "Estimated value must be a non-negative number"},
	{"assignedTo", "max=64", "Assignee reference too long"},
}

var AnalyticsRules = []Rule{
	{"period", "min=1,max=365", "Period must be between 1 and 365 days"},
}

var validate = validator.New()

// Check runs rules over values. A field missing from values is only checked
// when its rule is required, in which case it counts as an empty string.
func Check(rules []Rule, values map[string]any) error {
	errs := &Errors{}
	for _, r := range rules {
		v, ok := values[r.Field]
		if !ok {
			if !strings.HasPrefix(r.Tag, "required") {
				continue
			}
			v = ""
		}
		if err := validate.Var(v, r.Tag); err != nil {
			errs.add(r.Field, r.Message)
		}
	}
	return errs.orNil()
}

// NormalizeEmail trims and lowercases an address before it is validated and stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateContact(c entities.Contact) error {
	return Check(ContactRules, map[string]any{
		"name":     c.Name,
		"email":    c.Email,
		"subject":  c.Subject,
		"message":  c.Message,
		"phone":    c.Phone,
		"company":  c.Company,
		"country":  c.Country,
		"status":   string(c.Status),
		"priority": string(c.Priority),
		"source":   string(c.Source),
	})
}

func ValidateInquiry(i entities.Inquiry) error {
	values := map[string]any{
		"name":         i.Name,
		"email":        i.Email,
		"product":      i.Product,
		"company":      i.Company,
		"phone":        i.Phone,
		"quantityUnit": string(i.QuantityUnit),
		"message":      i.Message,
		"country":      i.Country,
		"deliveryPort": i.DeliveryPort,
		"urgency":      string(i.Urgency),
		"budget":       string(i.Budget),
		"status":       string(i.Status),
		"priority":     string(i.Priority),
		"source":       string(i.Source),
		"customerType": string(i.CustomerType),
	}
	if i.Quantity != nil {
		values["quantity"] = *i.Quantity
	}
	return Check(InquiryRules, values)
}

func ValidateNote(content string) error {
	return Check(NoteRules, map[string]any{"content": strings.TrimSpace(content)})
}

func ValidateQuote(amount decimal.Decimal, currency string, validDays int) error {
	amt, _ := amount.Float64()
	return Check(QuoteRules, map[string]any{
		"amount":    amt,
		"currency":  currency,
		"validDays": validDays,
	})
}

func ValidateContactStatus(status string) error {
	if entities.IsValidContactStatus(status) {
		return nil
	}
	errs := &Errors{}
	errs.add("status", "Invalid status")
	return errs
}

func ValidateInquiryStatus(status string) error {
	if entities.IsValidInquiryStatus(status) {
		return nil
	}
	errs := &Errors{}
	errs.add("status", "Invalid status")
	return errs
}

func ValidateAnalyticsPeriod(days int) error {
	return Check(AnalyticsRules, map[string]any{"period": days})
}

func ValidatePriority(priority string) error {
	if entities.IsValidPriority(priority) {
		return nil
	}
	errs := &Errors{}
	errs.add("priority", "Invalid priority")
	return errs
}

func ValidateContactPatch(p entities.ContactPatch) error {
	values := map[string]any{}
	if p.Priority != nil {
		values["priority"] = string(*p.Priority)
	}
	if p.Source != nil {
		values["source"] = string(*p.Source)
	}
	if p.AssignedTo != nil {
		values["assignedTo"] = *p.AssignedTo
	}
	return Check(ContactPatchRules, values)
}

func ValidateInquiryPatch(p entities.InquiryPatch) error {
	values := map[string]any{}
	if p.Priority != nil {
		values["priority"] = string(*p.Priority)
	}
	if p.Source != nil {
		values["source"] = string(*p.Source)
	}
	if p.CustomerType != nil {
		values["customerType"] = string(*p.CustomerType)
	}
	if p.EstimatedValue != nil {
		f, _ := p.EstimatedValue.Float64()
		values["estimatedValue"] = f
	}
	if p.AssignedTo != nil {
		values["assignedTo"] = *p.AssignedTo
	}
	return Check(InquiryPatchRules, values)
}
