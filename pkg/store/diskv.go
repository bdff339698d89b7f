package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/layout"
)

// Persistence defines the persistence contract for journal days.
type Persistence interface {
	Save(ctx context.Context, d *entry.Day) (SaveResult, error)
	Load(ctx context.Context, key daykey.LocalDayKey) (*entry.Day, error)
	Has(ctx context.Context, key daykey.LocalDayKey) (bool, error)
	Delete(ctx context.Context, key daykey.LocalDayKey) error
	List(ctx context.Context, r *daykey.Interval) (ListResult, error)
	Conflicts(ctx context.Context, iso string) ([]Conflict, error)
	ReadConflict(ctx context.Context, c Conflict) (*entry.Day, error)
	AttachmentExists(iso, rel string) bool
	Layout() layout.Layout
	Watch(ctx context.Context) (<-chan Event, error)
}

// Outcome describes what a Save did to the primary document.
type Outcome int

const (
	// OutcomeCreated wrote the first document for the day.
	OutcomeCreated Outcome = iota
	// OutcomeUpdated replaced the primary; the previous version was archived.
	OutcomeUpdated
	// OutcomeUnchanged found an identical primary and wrote nothing.
	OutcomeUnchanged
	// OutcomeStale kept the newer primary and archived the incoming version.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeStale:
		return "stale"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText renders the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// SaveResult reports the primary document after a Save and, when a version
// was archived, where it went.
type SaveResult struct {
	Outcome  Outcome
	Day      *entry.Day
	Conflict *Conflict
}

// ListResult carries decoded days plus the documents that were skipped.
type ListResult struct {
	Days   []*entry.Day
	Errors []error
}

// Conflict is an archived document that lost a write.
type Conflict struct {
	ISODate    string    `json:"isoDate"`
	Key        string    `json:"key"`
	Path       string    `json:"path"`
	ArchivedAt time.Time `json:"archivedAt"`
}

const conflictStampLayout = "20060102T150405.000000000Z"

// Option tweaks a store created by Load.
type Option func(*persistence)

// WithLogger routes store diagnostics to log.
func WithLogger(log *zap.Logger) Option {
	return func(p *persistence) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock overrides time.Now for creation and archive stamps.
func WithClock(now func() time.Time) Option {
	return func(p *persistence) {
		if now != nil {
			p.now = now
		}
	}
}

// WithCacheSize sets the diskv read cache size in bytes.
func WithCacheSize(n uint64) Option {
	return func(p *persistence) {
		p.cacheSize = n
	}
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(cfg.Root()) == "" {
		return nil, errors.New("store: root path required")
	}

	p := &persistence{
		layout:    layout.New(cfg.Root()),
		locks:     newKeyedLocks(),
		log:       zap.NewNop(),
		now:       time.Now,
		cacheSize: 1024 * 1024, // 1MB
	}
	for _, opt := range opts {
		opt(p)
	}
	p.d = diskv.New(p.layout.DiskOptions(p.cacheSize))
	p.fsys = os.DirFS(p.layout.Root())
	return p, nil
}

type persistence struct {
	d         *diskv.Diskv
	fsys      fs.FS
	layout    layout.Layout
	locks     *keyedLocks
	log       *zap.Logger
	now       func() time.Time
	cacheSize uint64
}

func (p *persistence) Layout() layout.Layout {
	return p.layout
}

func (p *persistence) stamp() time.Time {
	return p.now().UTC().Round(0)
}

func validISO(iso string) error {
	if _, _, _, ok := daykey.ParseISODate(iso); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDay, iso)
	}
	return nil
}

// read returns the raw primary document, or nil when the day has none.
func (p *persistence) read(iso string) ([]byte, error) {
	key := layout.EntryKey(iso)
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, ioError("read", p.layout.EntryPath(iso), err)
	}
	return val, nil
}

func (p *persistence) decode(iso string, val []byte) (*entry.Day, error) {
	d, err := entry.Unmarshal(val)
	if err != nil {
		return nil, &DecodeError{Path: p.layout.EntryPath(iso), Err: err}
	}
	return d, nil
}

func (p *persistence) Load(ctx context.Context, key daykey.LocalDayKey) (*entry.Day, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validISO(key.ISODate); err != nil {
		return nil, err
	}
	unlock := p.locks.RLock(key.ISODate)
	defer unlock()

	val, err := p.read(key.ISODate)
	if err != nil || val == nil {
		return nil, err
	}
	return p.decode(key.ISODate, val)
}

// Has reports whether a primary document exists for the key's day.
func (p *persistence) Has(ctx context.Context, key daykey.LocalDayKey) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validISO(key.ISODate); err != nil {
		return false, err
	}
	unlock := p.locks.RLock(key.ISODate)
	defer unlock()
	return p.d.Has(layout.EntryKey(key.ISODate)), nil
}

// Save persists d. The store, not the caller, decides the aggregate's
// UpdatedAt: the latest of its item timestamps. When a primary already exists
// the newer version stays primary and the other one is archived under the
// day's conflicts directory. Equal timestamps with different content are
// resolved by comparing the SHA-256 of the encoded documents.
func (p *persistence) Save(ctx context.Context, d *entry.Day) (SaveResult, error) {
	if d == nil {
		return SaveResult{}, errors.New("store: nil day")
	}
	if err := ctx.Err(); err != nil {
		return SaveResult{}, err
	}
	day := d.Clone()
	day.Normalize()
	if err := validISO(day.DayKey.ISODate); err != nil {
		return SaveResult{}, err
	}
	if err := day.Validate(); err != nil {
		return SaveResult{}, fmt.Errorf("store: %w", err)
	}
	if err := p.checkAttachments(day); err != nil {
		return SaveResult{}, err
	}

	iso := day.DayKey.ISODate
	unlock := p.locks.Lock(iso)
	defer unlock()

	priorBytes, err := p.read(iso)
	if err != nil {
		return SaveResult{}, err
	}
	if priorBytes == nil {
		if day.CreatedAt.IsZero() {
			day.CreatedAt = p.stamp()
		}
		if err := p.write(iso, day); err != nil {
			return SaveResult{}, err
		}
		p.log.Debug("created day", zap.String("isoDate", iso))
		return SaveResult{Outcome: OutcomeCreated, Day: day}, nil
	}

	prior, err := entry.Unmarshal(priorBytes)
	if err != nil {
		// An unreadable primary cannot be compared; keep its bytes and replace it.
		p.log.Warn("archiving undecodable primary",
			zap.String("path", p.layout.EntryPath(iso)), zap.Error(err))
		if day.CreatedAt.IsZero() {
			day.CreatedAt = p.stamp()
		}
		c, err := p.archive(iso, priorBytes)
		if err != nil {
			return SaveResult{}, err
		}
		if err := p.write(iso, day); err != nil {
			return SaveResult{}, err
		}
		return SaveResult{Outcome: OutcomeUpdated, Day: day, Conflict: c}, nil
	}

	if !prior.CreatedAt.IsZero() {
		day.CreatedAt = prior.CreatedAt
	}
	incoming, err := entry.Marshal(day)
	if err != nil {
		return SaveResult{}, fmt.Errorf("store: encode: %w", err)
	}
	current, err := entry.Marshal(prior)
	if err != nil {
		return SaveResult{}, fmt.Errorf("store: encode: %w", err)
	}
	if bytes.Equal(incoming, current) {
		return SaveResult{Outcome: OutcomeUnchanged, Day: prior}, nil
	}

	if incomingWins(day, prior, incoming, current) {
		c, err := p.archive(iso, priorBytes)
		if err != nil {
			return SaveResult{}, err
		}
		if err := p.writeBytes(iso, incoming); err != nil {
			return SaveResult{}, err
		}
		p.log.Debug("updated day", zap.String("isoDate", iso), zap.String("archived", c.Key))
		return SaveResult{Outcome: OutcomeUpdated, Day: day, Conflict: c}, nil
	}

	c, err := p.archive(iso, incoming)
	if err != nil {
		return SaveResult{}, err
	}
	p.log.Info("kept newer primary, archived incoming version",
		zap.String("isoDate", iso),
		zap.Time("incomingUpdatedAt", day.UpdatedAt),
		zap.Time("primaryUpdatedAt", prior.ItemsUpdatedAt()),
		zap.String("archived", c.Key))
	return SaveResult{Outcome: OutcomeStale, Day: prior, Conflict: c}, nil
}

func incomingWins(incoming, prior *entry.Day, incomingDoc, priorDoc []byte) bool {
	in, cur := incoming.ItemsUpdatedAt(), prior.ItemsUpdatedAt()
	switch {
	case in.After(cur):
		return true
	case in.Before(cur):
		return false
	default:
		a, b := sha256.Sum256(incomingDoc), sha256.Sum256(priorDoc)
		return bytes.Compare(a[:], b[:]) > 0
	}
}

func (p *persistence) write(iso string, d *entry.Day) error {
	data, err := entry.Marshal(d)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	return p.writeBytes(iso, data)
}

func (p *persistence) writeBytes(iso string, data []byte) error {
	if err := p.d.Write(layout.EntryKey(iso), data); err != nil {
		return ioError("write", p.layout.EntryPath(iso), err)
	}
	return nil
}

// archive copies data into the day's conflicts directory under a unique
// timestamped name.
func (p *persistence) archive(iso string, data []byte) (*Conflict, error) {
	at := p.stamp()
	base := at.Format(conflictStampLayout)
	stamp := base
	for n := 1; p.d.Has(layout.ConflictKey(iso, stamp)); n++ {
		stamp = fmt.Sprintf("%s-%d", base, n)
	}
	key := layout.ConflictKey(iso, stamp)
	if err := p.d.Write(key, data); err != nil {
		return nil, ioError("archive", p.layout.ConflictPath(iso, stamp), err)
	}
	return &Conflict{
		ISODate:    iso,
		Key:        key,
		Path:       p.layout.ConflictPath(iso, stamp),
		ArchivedAt: at,
	}, nil
}

func (p *persistence) checkAttachments(d *entry.Day) error {
	iso := d.DayKey.ISODate
	for _, it := range d.Items() {
		for _, ph := range it.Photos {
			if err := p.checkAttachment(iso, ph.RelativePath); err != nil {
				return err
			}
		}
		for _, v := range it.Videos {
			if err := p.checkAttachment(iso, v.RelativePath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *persistence) checkAttachment(iso, rel string) error {
	if err := layout.SafeRelative(rel); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if !p.AttachmentExists(iso, rel) {
		return fmt.Errorf("%w: %s", ErrDanglingAttachment, p.layout.AttachmentPath(iso, rel))
	}
	return nil
}

func (p *persistence) AttachmentExists(iso, rel string) bool {
	if layout.SafeRelative(rel) != nil {
		return false
	}
	return p.d.Has(layout.AttachmentKey(iso, rel))
}

// Delete removes the primary document. Attachments and archived conflicts
// stay in place. Deleting an absent day is a no-op.
func (p *persistence) Delete(ctx context.Context, key daykey.LocalDayKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validISO(key.ISODate); err != nil {
		return err
	}
	unlock := p.locks.Lock(key.ISODate)
	defer unlock()

	if err := p.d.Erase(layout.EntryKey(key.ISODate)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return ioError("delete", p.layout.EntryPath(key.ISODate), err)
	}
	p.log.Debug("deleted day", zap.String("isoDate", key.ISODate))
	return nil
}

// List decodes every day touching r, or all days when r is nil. Malformed
// documents are skipped and reported in ListResult.Errors; filesystem
// failures abort the listing.
func (p *persistence) List(ctx context.Context, r *daykey.Interval) (ListResult, error) {
	var first, last string
	if r != nil {
		first, last = r.ISODates()
	}

	keys, err := p.keys(ctx, layout.EntriesPrefix())
	if err != nil {
		return ListResult{}, err
	}
	result := ListResult{Days: make([]*entry.Day, 0)}
	for _, key := range keys {
		iso, ok := layout.ISODateForEntryKey(key)
		if !ok {
			continue
		}
		if r != nil && (iso < first || iso > last) {
			continue
		}
		d, err := p.listOne(iso)
		if err != nil {
			if errors.Is(err, ErrDecode) {
				p.log.Warn("skipping entry", zap.String("isoDate", iso), zap.Error(err))
				result.Errors = append(result.Errors, err)
				continue
			}
			return result, err
		}
		if d == nil {
			// Deleted while listing.
			continue
		}
		if r != nil && !daykey.Touches(d.DayKey, *r) {
			continue
		}
		result.Days = append(result.Days, d)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	sortDays(result.Days)
	return result, nil
}

func (p *persistence) listOne(iso string) (*entry.Day, error) {
	unlock := p.locks.RLock(iso)
	defer unlock()
	val, err := p.read(iso)
	if err != nil || val == nil {
		return nil, err
	}
	return p.decode(iso, val)
}

// keys snapshots every key under prefix.
func (p *persistence) keys(ctx context.Context, prefix string) ([]string, error) {
	return walkKeys(ctx, p.fsys, p.layout.Root(), prefix)
}

// Conflicts lists archived versions for a day, oldest first.
func (p *persistence) Conflicts(ctx context.Context, iso string) ([]Conflict, error) {
	if err := validISO(iso); err != nil {
		return nil, err
	}
	keys, err := p.keys(ctx, layout.ConflictPrefix(iso))
	if err != nil {
		return nil, err
	}
	conflicts := make([]Conflict, 0)
	for _, key := range keys {
		name := strings.TrimSuffix(path.Base(key), layout.ConflictExt)
		stamp := name
		if i := strings.LastIndex(name, "-"); i > 0 {
			stamp = name[:i]
		}
		at, err := time.Parse(conflictStampLayout, stamp)
		if err != nil {
			p.log.Debug("unrecognised conflict file", zap.String("key", key))
		}
		conflicts = append(conflicts, Conflict{
			ISODate:    iso,
			Key:        key,
			Path:       p.layout.ConflictPath(iso, name),
			ArchivedAt: at,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return conflicts, nil
}

// ReadConflict decodes an archived version.
func (p *persistence) ReadConflict(ctx context.Context, c Conflict) (*entry.Day, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(c.Key, layout.ConflictPrefix(c.ISODate)) {
		return nil, fmt.Errorf("store: %q is not a conflict of %s", c.Key, c.ISODate)
	}
	val, err := p.d.Read(c.Key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, ioError("read", c.Path, err)
	}
	d, err := entry.Unmarshal(val)
	if err != nil {
		return nil, &DecodeError{Path: c.Path, Err: err}
	}
	return d, nil
}

func sortDays(days []*entry.Day) {
	sort.SliceStable(days, func(i, j int) bool {
		return daykey.Compare(days[i].DayKey, days[j].DayKey) < 0
	})
}
