package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"solstice_leads/internal/domain/entities"
)

type fakeNotifier struct {
	calls   atomic.Int32
	sawDone atomic.Bool
	block   chan struct{}
	err     error
}

func (f *fakeNotifier) NotifyContact(ctx context.Context, _ entities.Contact) error {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			f.sawDone.Store(true)
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeNotifier) NotifyInquiry(context.Context, entities.Inquiry) error {
	f.calls.Add(1)
	panic("boom")
}

func waitDrained(t *testing.T, d *NotificationDispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Wait(ctx); err != nil {
		t.Fatalf("dispatcher did not drain: %v", err)
	}
}

func TestNotificationDispatcher(t *testing.T) {
	t.Run("nil dispatcher is a no-op", func(t *testing.T) {
		var d *NotificationDispatcher
		d.Contact(entities.Contact{ID: "c"})
		d.Inquiry(entities.Inquiry{ID: "i"})
		if err := d.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("delivery errors are swallowed", func(t *testing.T) {
		n := &fakeNotifier{err: errors.New("smtp 550")}
		d := NewNotificationDispatcher(n, time.Second, nil)
		d.Contact(entities.Contact{ID: "c"})
		waitDrained(t, d)
		if n.calls.Load() != 1 {
			t.Fatalf("expected one call, got %d", n.calls.Load())
		}
	})

	t.Run("panics are recovered", func(t *testing.T) {
		n := &fakeNotifier{}
		d := NewNotificationDispatcher(n, time.Second, nil)
		d.Inquiry(entities.Inquiry{ID: "i"})
		waitDrained(t, d)
		if n.calls.Load() != 1 {
			t.Fatalf("expected one call, got %d", n.calls.Load())
		}
	})

	t.Run("slow notifier is cut off by timeout", func(t *testing.T) {
		n := &fakeNotifier{block: make(chan struct{})}
		d := NewNotificationDispatcher(n, 20*time.Millisecond, nil)
		d.Contact(entities.Contact{ID: "c"})
		waitDrained(t, d)
		if !n.sawDone.Load() {
			t.Fatalf("expected the send context to expire")
		}
	})

	t.Run("wait honours its own deadline", func(t *testing.T) {
		n := &fakeNotifier{block: make(chan struct{})}
		d := NewNotificationDispatcher(n, time.Minute, nil)
		d.Contact(entities.Contact{ID: "c"})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if err := d.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
		close(n.block)
		waitDrained(t, d)
	})
}

func TestRankByRelevance(t *testing.T) {
	type doc struct {
		id    string
		score int
		at    time.Time
	}
	now := time.Now()
	docs := []doc{
		{"zero", 0, now},
		{"low", 1, now},
		{"high-old", 5, now.Add(-time.Minute)},
		{"high-new", 5, now},
	}
	got := rankByRelevance(docs, func(d doc) int { return d.score }, func(d doc) time.Time { return d.at }, 0)
	if len(got) != 3 || got[0].id != "high-new" || got[1].id != "high-old" || got[2].id != "low" {
		t.Fatalf("unexpected ranking: %+v", got)
	}

	if terms := searchTerms("  Cashew  cashew NUTS "); len(terms) != 2 || terms[0] != "cashew" || terms[1] != "nuts" {
		t.Fatalf("unexpected terms: %v", terms)
	}
}
