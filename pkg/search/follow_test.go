package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

func TestFollowAppliesEvents(t *testing.T) {
	days := fixtures()
	src := newMemSource(days[0], days[1])
	idx := openIndex(t, t.TempDir())
	ctx := context.Background()
	// Index a day the source no longer has.
	require.NoError(t, idx.Upsert(ctx, days[2]))

	events := make(chan store.Event, 4)
	events <- store.Event{Type: store.EventDayChanged, ISODate: "2026-03-07"}
	events <- store.Event{Type: store.EventDayChanged, ISODate: "2026-03-15"}
	events <- store.Event{Type: store.EventDayChanged, ISODate: "2026-03-08"}
	close(events)

	require.NoError(t, idx.Follow(ctx, events, src))

	got, err := idx.Search(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-07", "2026-03-08"}, isoDates(got))
}

func TestFollowRebuildsOnInvalidation(t *testing.T) {
	days := fixtures()
	idx := openIndex(t, t.TempDir())
	ctx := context.Background()

	events := make(chan store.Event, 1)
	events <- store.Event{Type: store.EventInvalidated}
	close(events)
	require.NoError(t, idx.Follow(ctx, events, newMemSource(days...)))

	n, err := idx.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFollowStopsOnCancel(t *testing.T) {
	idx := openIndex(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- idx.Follow(ctx, make(chan store.Event), newMemSource())
	}()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("follow did not return after cancel")
	}
}

func TestFollowWithStore(t *testing.T) {
	root := t.TempDir()
	p, err := store.Load(store.StaticConfig{Path: root})
	require.NoError(t, err)
	idx := openIndex(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := p.Watch(ctx)
	require.NoError(t, err)
	go func() { _ = idx.Follow(ctx, events, p) }()
	time.Sleep(50 * time.Millisecond)

	d := fixtures()[0]
	d.Rose.Photos = nil
	_, err = p.Save(ctx, d)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, err := idx.Search(ctx, Query{Text: "summit"})
		return err == nil && len(got) == 1
	}, 3*time.Second, 20*time.Millisecond)
}
