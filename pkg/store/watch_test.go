package store

import (
	"context"
	"testing"
	"time"
)

func TestPersistenceWatchEmitsDayChanges(t *testing.T) {
	p, _ := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	if _, err := p.Save(ctx, newDay("2026-03-08", "hello world", base)); err != nil {
		t.Fatalf("save day: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventDayChanged {
				if evt.ISODate != "2026-03-08" {
					t.Fatalf("expected day '2026-03-08', got %q", evt.ISODate)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for day change event")
		}
	}
}

func TestPersistenceWatchClosesOnCancel(t *testing.T) {
	p, _ := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel not closed after cancel")
		}
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Type: EventDayChanged, ISODate: "2026-03-08"}, send)
	}
	th.Enqueue(Event{Type: EventDayChanged, ISODate: "2026-03-09"}, send)

	seen := map[string]int{}
	timeout := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case ev := <-got:
			seen[ev.ISODate]++
		case <-timeout:
			t.Fatalf("timed out, saw %v", seen)
		}
	}
	time.Sleep(50 * time.Millisecond)
	if len(got) != 0 || seen["2026-03-08"] != 1 {
		t.Fatalf("expected one event per day, saw %v and %d pending", seen, len(got))
	}
}
