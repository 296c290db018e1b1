package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solstice_leads/internal/domain/entities"
)

func validContact() entities.Contact {
	c := entities.Contact{
		Name:    "Ada Obi",
		Email:   "ada@example.com",
		Subject: "Cashew pricing",
		Message: "Please send a price list.",
	}
	c.ApplyDefaults()
	return c
}

func validInquiry() entities.Inquiry {
	q := 120.0
	i := entities.Inquiry{
		Name:     "A",
		Email:    "a@b.com",
		Product:  "Cashew",
		Quantity: &q,
	}
	i.ApplyDefaults()
	return i
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *Errors
	require.True(t, errors.As(err, &verr), "expected *Errors, got %T", err)
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestValidateContact(t *testing.T) {
	require.NoError(t, ValidateContact(validContact()))

	cases := []struct {
		name   string
		mutate func(c *entities.Contact)
		field  string
	}{
		{"missing name", func(c *entities.Contact) { c.Name = "" }, "name"},
		{"long name", func(c *entities.Contact) { c.Name = strings.Repeat("n", 101) }, "name"},
		{"bad email", func(c *entities.Contact) { c.Email = "not-an-email" }, "email"},
		{"long subject", func(c *entities.Contact) { c.Subject = strings.Repeat("s", 201) }, "subject"},
		{"long message", func(c *entities.Contact) { c.Message = strings.Repeat("m", 2001) }, "message"},
		{"long phone", func(c *entities.Contact) { c.Phone = strings.Repeat("1", 21) }, "phone"},
		{"long company", func(c *entities.Contact) { c.Company = strings.Repeat("c", 201) }, "company"},
		{"long country", func(c *entities.Contact) { c.Country = strings.Repeat("c", 101) }, "country"},
		{"bad status", func(c *entities.Contact) { c.Status = "archived" }, "status"},
		{"bad source", func(c *entities.Contact) { c.Source = "fax" }, "source"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validContact()
			tc.mutate(&c)
			assert.Equal(t, []string{tc.field}, fieldNames(t, ValidateContact(c)))
		})
	}

	t.Run("limits are inclusive and count characters", func(t *testing.T) {
		c := validContact()
		c.Message = strings.Repeat("é", 2000)
		c.Name = strings.Repeat("n", 100)
		assert.NoError(t, ValidateContact(c))
	})

	t.Run("reports every violation", func(t *testing.T) {
		c := validContact()
		c.Name = ""
		c.Email = "x"
		assert.ElementsMatch(t, []string{"name", "email"}, fieldNames(t, ValidateContact(c)))
	})
}

func TestValidateInquiry(t *testing.T) {
	require.NoError(t, ValidateInquiry(validInquiry()))

	t.Run("quantity absent is fine", func(t *testing.T) {
		i := validInquiry()
		i.Quantity = nil
		assert.NoError(t, ValidateInquiry(i))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		i := validInquiry()
		zero := 0.0
		i.Quantity = &zero
		assert.Equal(t, []string{"quantity"}, fieldNames(t, ValidateInquiry(i)))
	})

	t.Run("missing product and bad enums", func(t *testing.T) {
		i := validInquiry()
		i.Product = ""
		i.Urgency = "yesterday"
		i.Budget = "lots"
		assert.ElementsMatch(t, []string{"product", "urgency", "budget"}, fieldNames(t, ValidateInquiry(i)))
	})
}

func TestValidateNote(t *testing.T) {
	assert.NoError(t, ValidateNote("Called the buyer"))
	assert.Equal(t, []string{"content"}, fieldNames(t, ValidateNote("   ")))
	assert.Equal(t, []string{"content"}, fieldNames(t, ValidateNote(strings.Repeat("x", 1001))))
	assert.NoError(t, ValidateNote(strings.Repeat("x", 1000)))
}

func TestValidateQuote(t *testing.T) {
	assert.NoError(t, ValidateQuote(decimal.NewFromInt(0), "USD", 30))
	assert.NoError(t, ValidateQuote(decimal.NewFromInt(10), "NGN", 365))
	assert.Equal(t, []string{"amount"}, fieldNames(t, ValidateQuote(decimal.NewFromInt(-1), "USD", 30)))
	assert.Equal(t, []string{"currency"}, fieldNames(t, ValidateQuote(decimal.NewFromInt(1), "JPY", 30)))
	assert.Equal(t, []string{"validDays"}, fieldNames(t, ValidateQuote(decimal.NewFromInt(1), "USD", 0)))
	assert.Equal(t, []string{"validDays"}, fieldNames(t, ValidateQuote(decimal.NewFromInt(1), "USD", 366)))
}

func TestValidateStatus(t *testing.T) {
	assert.NoError(t, ValidateContactStatus("in-progress"))
	assert.Error(t, ValidateContactStatus("quoted"))
	assert.NoError(t, ValidateInquiryStatus("quoted"))
	assert.Error(t, ValidateInquiryStatus("resolved"))
}

func TestValidatePatches(t *testing.T) {
	assert.NoError(t, ValidateContactPatch(entities.ContactPatch{}))

	bad := entities.Priority("critical")
	assert.Equal(t, []string{"priority"}, fieldNames(t, ValidateContactPatch(entities.ContactPatch{Priority: &bad})))

	neg := decimal.NewFromInt(-5)
	vip := entities.CustomerTypeVIP
	assert.Equal(t, []string{"estimatedValue"}, fieldNames(t, ValidateInquiryPatch(entities.InquiryPatch{EstimatedValue: &neg, CustomerType: &vip})))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}
