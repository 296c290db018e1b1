package entities

import (
	"testing"
	"time"
)

func TestResolutionStamp(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, st := range []ContactStatus{ContactStatusNew, ContactStatusInProgress, ContactStatusClosed} {
		if got := ResolutionStamp(st, t0); got != nil {
			t.Fatalf("%s must not stamp, got %v", st, got)
		}
	}
	got := ResolutionStamp(ContactStatusResolved, t0)
	if got == nil || !got.Equal(t0) {
		t.Fatalf("expected resolved stamp at %v, got %v", t0, got)
	}
}

func TestContact_ApplyDefaults(t *testing.T) {
	var c Contact
	c.ApplyDefaults()
	if c.Status != ContactStatusNew || c.Priority != PriorityMedium || c.Source != ContactSourceWebsite {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestDaysSince(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	if got := DaysSince(created, created); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := DaysSince(created, created.Add(time.Hour)); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := DaysSince(created, created.Add(48*time.Hour)); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestSearchText(t *testing.T) {
	c := Contact{Name: "Ada Obi", Subject: "Cashew Pricing", Message: "hello"}
	got := c.SearchText()
	if got != "ada obi \n cashew pricing \n hello" {
		t.Fatalf("unexpected search text %q", got)
	}
}
