package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
)

type testConfig struct {
	path string
}

func (t testConfig) Root() string             { return t.path }
func (t testConfig) TimeZone() *time.Location { return time.UTC }
func (t testConfig) LogLevel() string         { return "debug" }
func (t testConfig) LogFormat() string        { return "console" }

var base = time.Date(2026, time.March, 8, 9, 0, 0, 0, time.UTC)

func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := base
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func newTestStore(t *testing.T) (Persistence, string) {
	t.Helper()
	root := t.TempDir()
	p, err := Load(testConfig{path: root}, WithClock(tickingClock()))
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	return p, root
}

func laKey(iso string) daykey.LocalDayKey {
	return daykey.LocalDayKey{ISODate: iso, TimeZoneID: "America/Los_Angeles"}
}

func newDay(iso, rose string, at time.Time) *entry.Day {
	d := entry.NewDay(laKey(iso))
	d.Rose.ShortText = rose
	d.Rose.UpdatedAt = at
	return d
}

func writeAttachment(t *testing.T, p Persistence, iso, rel string) {
	t.Helper()
	path := p.Layout().AttachmentPath(iso, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write attachment: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p, _ := newTestStore(t)
	ctx := context.Background()

	d := newDay("2026-03-08", "hiking", base)
	d.Rose.JournalText = "Long **climb**."
	d.Rose.Photos = []entry.PhotoRef{{
		ID: uuid.New(), RelativePath: "attachments/p1.jpg", CreatedAt: base, PixelWidth: 640, PixelHeight: 480,
	}, {
		ID: uuid.New(), RelativePath: "attachments/p2.png", CreatedAt: base, PixelWidth: 10, PixelHeight: 20,
	}}
	d.Bud.Videos = []entry.VideoRef{{
		ID: uuid.New(), RelativePath: "attachments/v1.mp4", CreatedAt: base,
		PixelWidth: 1920, PixelHeight: 1080, DurationSeconds: 3.25, HasAudio: true,
	}}
	d.Bud.UpdatedAt = base.Add(time.Minute)
	d.Thorn.Metadata = map[string]string{"source": "widget"}
	d.Tags = []string{"trail", "family"}
	mood := 5
	d.Mood = &mood
	d.Favorite = true
	for _, rel := range []string{"attachments/p1.jpg", "attachments/p2.png", "attachments/v1.mp4"} {
		writeAttachment(t, p, "2026-03-08", rel)
	}

	res, err := p.Save(ctx, d)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Outcome != OutcomeCreated {
		t.Fatalf("expected created, got %s", res.Outcome)
	}
	if !res.Day.UpdatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("updatedAt should be the latest item timestamp, got %v", res.Day.UpdatedAt)
	}

	got, err := p.Load(ctx, d.DayKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, res.Day) {
		t.Fatalf("round trip mismatch:\nwant %#v\ngot  %#v", res.Day, got)
	}
	if len(got.Rose.Photos) != 2 || got.Rose.Photos[1].RelativePath != "attachments/p2.png" {
		t.Fatalf("photo order not preserved: %#v", got.Rose.Photos)
	}
}

func TestSaveIgnoresCallerUpdatedAt(t *testing.T) {
	p, _ := newTestStore(t)
	d := newDay("2026-03-08", "x", base)
	d.UpdatedAt = base.Add(24 * time.Hour)
	res, err := p.Save(context.Background(), d)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !res.Day.UpdatedAt.Equal(base) {
		t.Fatalf("expected store to recompute updatedAt, got %v", res.Day.UpdatedAt)
	}
	if d.UpdatedAt != base.Add(24*time.Hour) {
		t.Fatalf("save must not mutate the caller's day")
	}
}

func TestLoadAbsent(t *testing.T) {
	p, _ := newTestStore(t)
	d, err := p.Load(context.Background(), laKey("2026-01-01"))
	if err != nil || d != nil {
		t.Fatalf("expected nothing, got %v %v", d, err)
	}
}

func TestLoadRejectsMalformedDate(t *testing.T) {
	p, _ := newTestStore(t)
	if _, err := p.Load(context.Background(), laKey("../../etc")); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("expected invalid day, got %v", err)
	}
}

func TestLoadLegacyDocument(t *testing.T) {
	p, _ := newTestStore(t)
	path := p.Layout().EntryPath("2024-05-01")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	legacy := `{"schemaVersion":1,"dayKey":{"isoDate":"2024-05-01","timeZoneID":"UTC"},
"roseItem":{"category":"rose","shortText":"sun","journalText":"","photos":[],"updatedAt":"2024-05-01T08:00:00Z"},
"budItem":{"category":"bud","shortText":"","journalText":"","photos":[],"updatedAt":"2024-05-01T08:00:00Z"},
"thornItem":{"category":"thorn","shortText":"","journalText":"","photos":[],"updatedAt":"2024-05-01T08:00:00Z"},
"tags":[],"createdAt":"2024-05-01T08:00:00Z","updatedAt":"2024-05-01T08:00:00Z"}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	d, err := p.Load(context.Background(), daykey.LocalDayKey{ISODate: "2024-05-01", TimeZoneID: "UTC"})
	if err != nil {
		t.Fatalf("load legacy: %v", err)
	}
	for _, it := range d.Items() {
		if it.Videos == nil || len(it.Videos) != 0 {
			t.Fatalf("%s: expected empty videos, got %#v", it.Category, it.Videos)
		}
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	p, _ := newTestStore(t)
	path := p.Layout().EntryPath("2024-05-01")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := p.Load(context.Background(), laKey("2024-05-01"))
	var de *DecodeError
	if !errors.As(err, &de) || !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if de.Path != path {
		t.Fatalf("expected path %s, got %s", path, de.Path)
	}
}

func TestSaveNewerArchivesPrior(t *testing.T) {
	p, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := p.Save(ctx, newDay("2026-03-08", "old", base)); err != nil {
		t.Fatalf("save old: %v", err)
	}
	res, err := p.Save(ctx, newDay("2026-03-08", "new", base.Add(time.Hour)))
	if err != nil {
		t.Fatalf("save new: %v", err)
	}
	if res.Outcome != OutcomeUpdated || res.Conflict == nil {
		t.Fatalf("expected update with archived prior, got %+v", res)
	}
	if _, err := os.Stat(res.Conflict.Path); err != nil {
		t.Fatalf("conflict file missing: %v", err)
	}

	primary, err := p.Load(ctx, laKey("2026-03-08"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if primary.Rose.ShortText != "new" {
		t.Fatalf("expected newer primary, got %q", primary.Rose.ShortText)
	}

	conflicts, err := p.Conflicts(ctx, "2026-03-08")
	if err != nil {
		t.Fatalf("conflicts: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %d", len(conflicts))
	}
	archived, err := p.ReadConflict(ctx, conflicts[0])
	if err != nil {
		t.Fatalf("read conflict: %v", err)
	}
	if archived.Rose.ShortText != "old" {
		t.Fatalf("expected old version archived, got %q", archived.Rose.ShortText)
	}
	if !primary.CreatedAt.Equal(archived.CreatedAt) {
		t.Fatalf("createdAt should survive updates: %v vs %v", primary.CreatedAt, archived.CreatedAt)
	}
}

func TestSaveOlderKeepsPrimaryAndArchivesIncoming(t *testing.T) {
	p, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := p.Save(ctx, newDay("2026-03-08", "newer", base.Add(time.Hour))); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := p.Save(ctx, newDay("2026-03-08", "stale", base))
	if err != nil {
		t.Fatalf("save stale: %v", err)
	}
	if res.Outcome != OutcomeStale || res.Conflict == nil {
		t.Fatalf("expected stale outcome, got %+v", res)
	}

	primary, _ := p.Load(ctx, laKey("2026-03-08"))
	if primary.Rose.ShortText != "newer" {
		t.Fatalf("primary must keep the newest version, got %q", primary.Rose.ShortText)
	}
	archived, err := p.ReadConflict(ctx, *res.Conflict)
	if err != nil {
		t.Fatalf("read conflict: %v", err)
	}
	if archived.Rose.ShortText != "stale" {
		t.Fatalf("losing version must be archived, got %q", archived.Rose.ShortText)
	}
}

func TestSaveEqualTimestampsKeepsBothVersions(t *testing.T) {
	ctx := context.Background()
	primaries := map[string]bool{}
	for _, order := range [][2]string{{"alpha", "beta"}, {"beta", "alpha"}} {
		p, _ := newTestStore(t)
		if _, err := p.Save(ctx, newDay("2026-03-08", order[0], base)); err != nil {
			t.Fatalf("save: %v", err)
		}
		res, err := p.Save(ctx, newDay("2026-03-08", order[1], base))
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if res.Conflict == nil {
			t.Fatalf("tie must archive the loser")
		}
		primary, _ := p.Load(ctx, laKey("2026-03-08"))
		archived, _ := p.ReadConflict(ctx, *res.Conflict)
		got := map[string]bool{primary.Rose.ShortText: true, archived.Rose.ShortText: true}
		if !got["alpha"] || !got["beta"] {
			t.Fatalf("expected both versions preserved, got %v", got)
		}
		primaries[primary.Rose.ShortText] = true
	}
	if len(primaries) != 1 {
		t.Fatalf("tie-break must not depend on write order, got %v", primaries)
	}
}

func TestSaveIdenticalIsNoop(t *testing.T) {
	p, _ := newTestStore(t)
	ctx := context.Background()
	d := newDay("2026-03-08", "same", base)
	if _, err := p.Save(ctx, d); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := p.Save(ctx, d)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Outcome != OutcomeUnchanged {
		t.Fatalf("expected unchanged, got %s", res.Outcome)
	}
	conflicts, _ := p.Conflicts(ctx, "2026-03-08")
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %d", len(conflicts))
	}
}

func TestSaveOverUndecodablePrimary(t *testing.T) {
	p, _ := newTestStore(t)
	path := p.Layout().EntryPath("2026-03-08")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := p.Save(context.Background(), newDay("2026-03-08", "fresh", base))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Conflict == nil {
		t.Fatalf("expected the unreadable primary to be archived")
	}
	data, err := os.ReadFile(res.Conflict.Path)
	if err != nil || string(data) != "garbage" {
		t.Fatalf("expected verbatim archive, got %q %v", data, err)
	}
}

func TestSaveRejectsDanglingAttachment(t *testing.T) {
	p, _ := newTestStore(t)
	d := newDay("2026-03-08", "pic", base)
	d.Rose.Photos = []entry.PhotoRef{{ID: uuid.New(), RelativePath: "attachments/missing.jpg"}}
	if _, err := p.Save(context.Background(), d); !errors.Is(err, ErrDanglingAttachment) {
		t.Fatalf("expected dangling attachment error, got %v", err)
	}
	d.Rose.Photos[0].RelativePath = "../../escape.jpg"
	if _, err := p.Save(context.Background(), d); err == nil {
		t.Fatalf("expected unsafe path to be rejected")
	}
}

func TestSaveRejectsDecoupledSlot(t *testing.T) {
	p, _ := newTestStore(t)
	d := newDay("2026-03-08", "x", base)
	d.Bud.Category = entry.Thorn
	if _, err := p.Save(context.Background(), d); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDelete(t *testing.T) {
	p, _ := newTestStore(t)
	ctx := context.Background()
	if _, err := p.Save(ctx, newDay("2026-03-08", "x", base)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ok, err := p.Has(ctx, laKey("2026-03-08")); err != nil || !ok {
		t.Fatalf("expected day to exist, got %v %v", ok, err)
	}
	if err := p.Delete(ctx, laKey("2026-03-08")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := p.Has(ctx, laKey("2026-03-08")); ok {
		t.Fatalf("expected day to be gone")
	}
	if d, err := p.Load(ctx, laKey("2026-03-08")); err != nil || d != nil {
		t.Fatalf("expected nothing after delete, got %v %v", d, err)
	}
	if err := p.Delete(ctx, laKey("2026-03-08")); err != nil {
		t.Fatalf("deleting an absent day should be a no-op: %v", err)
	}
}

func TestListRangeAndBadDocuments(t *testing.T) {
	p, _ := newTestStore(t)
	ctx := context.Background()
	for _, iso := range []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-15"} {
		if _, err := p.Save(ctx, newDay(iso, iso, base)); err != nil {
			t.Fatalf("save %s: %v", iso, err)
		}
	}
	bad := p.Layout().EntryPath("2026-03-02")
	if err := os.MkdirAll(filepath.Dir(bad), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(bad, []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	all, err := p.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all.Days) != 4 || len(all.Errors) != 1 {
		t.Fatalf("expected 4 days and 1 error, got %d and %d", len(all.Days), len(all.Errors))
	}
	if !errors.Is(all.Errors[0], ErrDecode) {
		t.Fatalf("expected decode error, got %v", all.Errors[0])
	}

	la, _ := daykey.Zone("America/Los_Angeles")
	march, _ := daykey.Range(daykey.Month, "2026-03", la)
	res, err := p.List(ctx, &march)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	var got []string
	for _, d := range res.Days {
		got = append(got, d.DayKey.ISODate)
	}
	if !reflect.DeepEqual(got, []string{"2026-03-01", "2026-03-15"}) {
		t.Fatalf("unexpected days in March: %v", got)
	}

	// 2026-02-28 in Los Angeles ends at 08:00 UTC on 2026-03-01.
	utcMorning := daykey.Interval{
		Start: time.Date(2026, time.March, 1, 7, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 1, 7, 30, 0, 0, time.UTC),
	}
	res, err = p.List(ctx, &utcMorning)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Days) != 1 || res.Days[0].DayKey.ISODate != "2026-02-28" {
		t.Fatalf("expected the day in its own zone to match, got %v", res.Days)
	}
}

func TestConcurrentSavesSameDay(t *testing.T) {
	p, _ := newTestStore(t)
	ctx := context.Background()
	const writers = 12

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := newDay("2026-03-08", fmt.Sprintf("writer-%02d", i), base.Add(time.Duration(i)*time.Minute))
			if _, err := p.Save(ctx, d); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("save: %v", err)
	}

	primary, err := p.Load(ctx, laKey("2026-03-08"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if primary.Rose.ShortText != fmt.Sprintf("writer-%02d", writers-1) {
		t.Fatalf("expected the newest writer to be primary, got %q", primary.Rose.ShortText)
	}
	conflicts, err := p.Conflicts(ctx, "2026-03-08")
	if err != nil {
		t.Fatalf("conflicts: %v", err)
	}
	if len(conflicts) != writers-1 {
		t.Fatalf("expected every losing version archived, got %d", len(conflicts))
	}
	if n := p.(*persistence).locks.size(); n != 0 {
		t.Fatalf("expected locks to be released, %d held", n)
	}
}
