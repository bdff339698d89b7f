package summary

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/layout"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

var generated = time.Date(2026, time.March, 9, 7, 30, 0, 0, time.UTC)

func TestWriteReadRoundTrip(t *testing.T) {
	l := layout.New(t.TempDir())
	s := New(l)
	ctx := context.Background()

	a := Artifact{
		Period:          daykey.Week,
		Key:             "2026-W10",
		GeneratedAt:     generated,
		ContentMarkdown: "# Week 2026-W10\n\nGood week.\n",
		Days:            4,
	}
	require.NoError(t, s.Write(ctx, a))
	assert.FileExists(t, l.SummaryPath("week", "2026-W10"))
	assert.FileExists(t, l.SummaryMetaPath("week", "2026-W10"))

	got, err := s.Read(ctx, daykey.Week, "2026-W10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ContentMarkdown, got.ContentMarkdown)
	assert.True(t, a.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, 4, got.Days)

	sidecar, err := os.ReadFile(l.SummaryMetaPath("week", "2026-W10"))
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), "period: week")
	assert.Contains(t, string(sidecar), "key: 2026-W10")
}

func TestReadAbsent(t *testing.T) {
	s := New(layout.New(t.TempDir()))
	got, err := s.Read(context.Background(), daykey.Month, "2026-03")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadWithoutSidecar(t *testing.T) {
	l := layout.New(t.TempDir())
	s := New(l)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, Artifact{Period: daykey.Year, Key: "2025", ContentMarkdown: "x"}))
	require.NoError(t, os.Remove(l.SummaryMetaPath("year", "2025")))

	got, err := s.Read(ctx, daykey.Year, "2025")
	require.NoError(t, err)
	assert.Equal(t, "x", got.ContentMarkdown)
	assert.True(t, got.GeneratedAt.IsZero())
}

func TestInvalidKeys(t *testing.T) {
	s := New(layout.New(t.TempDir()))
	ctx := context.Background()
	for _, tc := range []struct {
		p   daykey.Period
		key string
	}{
		{daykey.Week, "bad-week"},
		{daykey.Month, "2026-AA"},
		{daykey.Year, "year-2026"},
		{daykey.Month, "2026-W10"},
	} {
		assert.ErrorIs(t, s.Write(ctx, Artifact{Period: tc.p, Key: tc.key}), ErrInvalidKey, "%s %s", tc.p, tc.key)
		_, err := s.Read(ctx, tc.p, tc.key)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}
	assert.Error(t, s.Write(ctx, Artifact{Period: "decade", Key: "2020"}))
}

func TestListAndDelete(t *testing.T) {
	s := New(layout.New(t.TempDir()))
	ctx := context.Background()
	for _, k := range []string{"2026-03", "2026-01", "2026-02"} {
		require.NoError(t, s.Write(ctx, Artifact{Period: daykey.Month, Key: k, GeneratedAt: generated}))
	}
	require.NoError(t, s.Write(ctx, Artifact{Period: daykey.Year, Key: "2026", GeneratedAt: generated}))

	keys, err := s.List(ctx, daykey.Month)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01", "2026-02", "2026-03"}, keys)

	require.NoError(t, s.Delete(ctx, daykey.Month, "2026-02"))
	require.NoError(t, s.Delete(ctx, daykey.Month, "2026-02"))
	keys, err = s.List(ctx, daykey.Month)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01", "2026-03"}, keys)
}

type listFunc func(ctx context.Context, r *daykey.Interval) (store.ListResult, error)

func (f listFunc) List(ctx context.Context, r *daykey.Interval) (store.ListResult, error) {
	return f(ctx, r)
}

func TestGenerate(t *testing.T) {
	la, ok := daykey.Zone("America/Los_Angeles")
	require.True(t, ok)

	d := entry.NewDay(daykey.LocalDayKey{ISODate: "2026-03-07", TimeZoneID: la.String()})
	d.Rose.ShortText = "Went hiking"
	d.Thorn.JournalText = "Sore legs."
	d.Tags = []string{"outdoors"}

	var asked *daykey.Interval
	src := listFunc(func(_ context.Context, r *daykey.Interval) (store.ListResult, error) {
		asked = r
		return store.ListResult{Days: []*entry.Day{d}}, nil
	})

	a, skipped, err := Generate(context.Background(), src, daykey.Week, "2026-W10", la, generated)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.NotNil(t, asked)
	assert.Equal(t, 7*24*time.Hour, asked.Duration())

	assert.Equal(t, 1, a.Days)
	assert.Equal(t, generated, a.GeneratedAt)
	assert.Contains(t, a.ContentMarkdown, "# Week 2026-W10")
	assert.Contains(t, a.ContentMarkdown, "## 2026-03-07")
	assert.Contains(t, a.ContentMarkdown, "- **rose**: Went hiking")
	assert.Contains(t, a.ContentMarkdown, "- **thorn**: (journal only)")
	assert.NotContains(t, a.ContentMarkdown, "**bud**")
	assert.Contains(t, a.ContentMarkdown, "Tags: outdoors")
}

func TestGenerateRejectsBadKey(t *testing.T) {
	src := listFunc(func(context.Context, *daykey.Interval) (store.ListResult, error) {
		t.Fatal("list must not be called")
		return store.ListResult{}, nil
	})
	_, _, err := Generate(context.Background(), src, daykey.Month, "2026-13", time.UTC, generated)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
