// Package search keeps a small on-disk index of journal days so queries never
// have to decode every entry document. The index is derived data: it can be
// thrown away and rebuilt from the store at any time.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/layout"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

const (
	shardDir     = "days"
	shardExt     = ".json"
	shardVersion = 1
)

func shardKey(iso string) string {
	return path.Join(shardDir, iso+shardExt)
}

// Shard is the persisted index record for one day.
type Shard struct {
	Version   int                         `json:"version"`
	DayKey    daykey.LocalDayKey          `json:"dayKey"`
	Tokens    map[entry.Category][]string `json:"tokens"`
	Photos    map[entry.Category]bool     `json:"photos"`
	Tags      []string                    `json:"tags"`
	Favorite  bool                        `json:"favorite"`
	UpdatedAt time.Time                   `json:"updatedAt"`

	tokenSet map[entry.Category]map[string]struct{}
}

// NewShard derives the index record for d.
func NewShard(d *entry.Day) *Shard {
	s := &Shard{
		Version:   shardVersion,
		DayKey:    d.DayKey,
		Tokens:    make(map[entry.Category][]string, 3),
		Photos:    make(map[entry.Category]bool, 3),
		Tags:      entry.NormalizeTags(d.Tags),
		Favorite:  d.Favorite,
		UpdatedAt: d.ItemsUpdatedAt(),
	}
	for _, c := range entry.Categories() {
		it := d.Item(c)
		s.Tokens[c] = Tokenize(it.ShortText + "\n" + it.JournalText)
		s.Photos[c] = len(it.Photos) > 0
	}
	s.prepare()
	return s
}

func (s *Shard) prepare() {
	s.tokenSet = make(map[entry.Category]map[string]struct{}, len(s.Tokens))
	for c, tokens := range s.Tokens {
		set := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			set[t] = struct{}{}
		}
		s.tokenSet[c] = set
	}
}

func (s *Shard) hasAny(c entry.Category, tokens []string) bool {
	set := s.tokenSet[c]
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func (s *Shard) hasTags(tags []string) bool {
	for _, want := range tags {
		i := sort.SearchStrings(s.Tags, want)
		if i == len(s.Tags) || s.Tags[i] != want {
			return false
		}
	}
	return true
}

// Query selects days. Zero fields do not constrain the result.
type Query struct {
	// Text matches a day when any of its tokens appears in a requested
	// category.
	Text string
	// Categories limits Text and HasPhoto to these facets; empty means all.
	Categories []entry.Category
	// HasPhoto requires a matching category whose photo presence equals it.
	HasPhoto *bool
	// DateRange keeps days that touch the range in their own zone.
	DateRange *daykey.Interval
	// Tags must all be present on the day.
	Tags []string
	// Favorites keeps only days marked favorite.
	Favorites bool
}

func (q Query) categories() []entry.Category {
	if len(q.Categories) == 0 {
		return entry.Categories()
	}
	return q.Categories
}

// Matches evaluates q against one shard.
func (q Query) Matches(s *Shard) bool {
	if q.DateRange != nil && !daykey.Touches(s.DayKey, *q.DateRange) {
		return false
	}
	if q.Favorites && !s.Favorite {
		return false
	}
	if !s.hasTags(entry.NormalizeTags(q.Tags)) {
		return false
	}
	var tokens []string
	text := strings.TrimSpace(q.Text) != ""
	if text {
		tokens = Tokenize(q.Text)
	}
	for _, c := range q.categories() {
		if text && !s.hasAny(c, tokens) {
			continue
		}
		if q.HasPhoto != nil && s.Photos[c] != *q.HasPhoto {
			continue
		}
		return true
	}
	return false
}

// Source is the authoritative store the index is derived from.
type Source interface {
	Load(ctx context.Context, key daykey.LocalDayKey) (*entry.Day, error)
	List(ctx context.Context, r *daykey.Interval) (store.ListResult, error)
}

// RebuildResult reports what a rebuild indexed and which documents it had to
// skip.
type RebuildResult struct {
	Days   int
	Errors []error
}

// Index is safe for concurrent use. Shards are read from disk on first use.
type Index struct {
	mu     sync.RWMutex
	d      *diskv.Diskv
	dir    string
	log    *zap.Logger
	loaded bool
	shards map[string]*Shard
}

// Option configures an Index.
type Option func(*Index)

func WithLogger(log *zap.Logger) Option {
	return func(x *Index) {
		if log != nil {
			x.log = log
		}
	}
}

// Open returns the index stored under l's search index directory.
func Open(l layout.Layout, opts ...Option) (*Index, error) {
	if strings.TrimSpace(l.Root()) == "" || l.Root() == "." {
		return nil, errors.New("search: root path required")
	}
	x := &Index{
		d:      diskv.New(l.IndexDiskOptions()),
		dir:    l.SearchIndexDir(),
		log:    zap.NewNop(),
		shards: make(map[string]*Shard),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x, nil
}

// ensureLoaded reads every shard from disk once. Unreadable shards are
// skipped; a rebuild replaces them.
func (x *Index) ensureLoaded(ctx context.Context) error {
	x.mu.RLock()
	loaded := x.loaded
	x.mu.RUnlock()
	if loaded {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if x.loaded {
		return nil
	}
	return x.loadLocked(ctx)
}

func (x *Index) loadLocked(ctx context.Context) error {
	keys, err := store.WalkKeys(ctx, x.dir, shardDir+"/")
	if err != nil {
		return err
	}
	shards := make(map[string]*Shard)
	for _, key := range keys {
		val, err := x.d.Read(key)
		if err != nil {
			return fmt.Errorf("search: read %s: %w", key, err)
		}
		var s Shard
		if err := json.Unmarshal(val, &s); err != nil || s.DayKey.IsZero() {
			x.log.Warn("skipping unreadable index shard", zap.String("key", key), zap.Error(err))
			continue
		}
		s.prepare()
		shards[s.DayKey.ISODate] = &s
	}
	x.shards = shards
	x.loaded = true
	x.log.Debug("loaded search index", zap.Int("days", len(shards)))
	return nil
}

// Upsert replaces the shard for d's day. Only that shard is rewritten.
func (x *Index) Upsert(ctx context.Context, d *entry.Day) error {
	if d == nil {
		return errors.New("search: nil day")
	}
	if _, _, _, ok := daykey.ParseISODate(d.DayKey.ISODate); !ok {
		return fmt.Errorf("search: invalid day %q", d.DayKey.ISODate)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := x.ensureLoaded(ctx); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.writeLocked(NewShard(d))
}

func (x *Index) writeLocked(s *Shard) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("search: encode shard: %w", err)
	}
	if err := x.d.Write(shardKey(s.DayKey.ISODate), data); err != nil {
		return fmt.Errorf("search: write shard %s: %w", s.DayKey.ISODate, err)
	}
	x.shards[s.DayKey.ISODate] = s
	return nil
}

// Remove drops the shard for a day. Removing an absent day is a no-op.
func (x *Index) Remove(ctx context.Context, iso string) error {
	if err := x.ensureLoaded(ctx); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.shards, iso)
	if err := x.d.Erase(shardKey(iso)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("search: remove shard %s: %w", iso, err)
	}
	return nil
}

// Search returns the keys of every day matching q, ordered by day.
func (x *Index) Search(ctx context.Context, q Query) ([]daykey.LocalDayKey, error) {
	if err := x.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	x.mu.RLock()
	defer x.mu.RUnlock()

	keys := make([]daykey.LocalDayKey, 0)
	for _, s := range x.shards {
		if q.Matches(s) {
			keys = append(keys, s.DayKey)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return daykey.Compare(keys[i], keys[j]) < 0
	})
	return keys, nil
}

// Shard returns a copy of the indexed record for a day, or nil.
func (x *Index) Shard(ctx context.Context, iso string) (*Shard, error) {
	if err := x.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	s, ok := x.shards[iso]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Len is the number of indexed days.
func (x *Index) Len(ctx context.Context) (int, error) {
	if err := x.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.shards), nil
}

// Rebuild discards the index and re-derives it from every day in src.
// Documents src cannot decode are reported, not fatal. A listing that fails
// leaves the existing index untouched. The index stays locked while src is
// listed so an Upsert racing the rebuild lands after it, not under it.
func (x *Index) Rebuild(ctx context.Context, src Source) (RebuildResult, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	res, err := src.List(ctx, nil)
	if err != nil {
		return RebuildResult{}, err
	}
	if err := x.d.EraseAll(); err != nil {
		return RebuildResult{}, fmt.Errorf("search: erase index: %w", err)
	}
	x.shards = make(map[string]*Shard, len(res.Days))
	x.loaded = true

	out := RebuildResult{Errors: res.Errors}
	for _, d := range res.Days {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := x.writeLocked(NewShard(d)); err != nil {
			return out, err
		}
		out.Days++
	}
	x.log.Info("rebuilt search index",
		zap.Int("days", out.Days),
		zap.Int("skipped", len(out.Errors)))
	return out, nil
}
