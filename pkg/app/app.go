package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/search"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/summary"
)

// Attachments is the media side of a day.
type Attachments interface {
	ImportImage(ctx context.Context, src string, key daykey.LocalDayKey, c entry.Category) (entry.PhotoRef, error)
	ImportVideo(ctx context.Context, src string, key daykey.LocalDayKey, c entry.Category) (entry.VideoRef, error)
	Remove(ref entry.PhotoRef, key daykey.LocalDayKey) error
	RemoveVideo(ref entry.VideoRef, key daykey.LocalDayKey) error
	RemoveAll(ctx context.Context, key daykey.LocalDayKey) error
	Days(ctx context.Context) ([]daykey.LocalDayKey, error)
	Orphans(ctx context.Context, key daykey.LocalDayKey, d *entry.Day) ([]string, error)
	ModTime(key daykey.LocalDayKey, rel string) (time.Time, error)
}

// Index is the query side of the journal.
type Index interface {
	Upsert(ctx context.Context, d *entry.Day) error
	Remove(ctx context.Context, iso string) error
	Search(ctx context.Context, q search.Query) ([]daykey.LocalDayKey, error)
	Rebuild(ctx context.Context, src search.Source) (search.RebuildResult, error)
}

// Service provides high-level operations for journal days.
// It wraps persistence, attachments and the search index so CLIs share one
// set of rules about what a save entails.
type Service struct {
	Persistence store.Persistence
	Attachments Attachments
	Index       Index
	Summaries   *summary.Store
	Clock       func() time.Time
	Log         *zap.Logger
}

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrNoAttachments = errors.New("app: no attachment repository configured")
	ErrNoIndex       = errors.New("app: no search index configured")
)

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC().Round(0)
	}
	return time.Now().UTC().Round(0)
}

func (s *Service) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// Day returns the stored day, or nil when nothing was saved for it.
func (s *Service) Day(ctx context.Context, key daykey.LocalDayKey) (*entry.Day, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Load(ctx, key)
}

// dayOrNew loads the day or starts an empty one.
func (s *Service) dayOrNew(ctx context.Context, key daykey.LocalDayKey) (*entry.Day, error) {
	d, err := s.Day(ctx, key)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = entry.NewDay(key)
	}
	return d, nil
}

// SaveDay persists d and refreshes its index shard with whatever version
// ended up primary. The index is derived data, so an index failure is
// logged rather than returned.
func (s *Service) SaveDay(ctx context.Context, d *entry.Day) (store.SaveResult, error) {
	if s.Persistence == nil {
		return store.SaveResult{}, ErrNoPersistence
	}
	res, err := s.Persistence.Save(ctx, d)
	if err != nil {
		return res, err
	}
	if res.Conflict != nil {
		s.log().Info("archived conflicting version",
			zap.String("isoDate", res.Day.DayKey.ISODate),
			zap.Stringer("outcome", res.Outcome),
			zap.String("path", res.Conflict.Path))
	}
	if s.Index != nil && res.Outcome != store.OutcomeUnchanged {
		if err := s.Index.Upsert(ctx, res.Day); err != nil {
			s.log().Warn("index upsert failed; run reindex",
				zap.String("isoDate", res.Day.DayKey.ISODate),
				zap.Error(err))
		}
	}
	return res, nil
}

// ItemUpdate carries the fields SetItem changes. Nil fields are left alone.
type ItemUpdate struct {
	ShortText   *string
	JournalText *string
	Metadata    map[string]string
}

// SetItem edits one facet of a day, creating the day when needed.
func (s *Service) SetItem(ctx context.Context, key daykey.LocalDayKey, c entry.Category, u ItemUpdate) (store.SaveResult, error) {
	if _, err := entry.ParseCategory(string(c)); err != nil {
		return store.SaveResult{}, err
	}
	d, err := s.dayOrNew(ctx, key)
	if err != nil {
		return store.SaveResult{}, err
	}
	it := d.Item(c)
	if u.ShortText != nil {
		it.ShortText = *u.ShortText
	}
	if u.JournalText != nil {
		it.JournalText = *u.JournalText
	}
	for k, v := range u.Metadata {
		if it.Metadata == nil {
			it.Metadata = map[string]string{}
		}
		if v == "" {
			delete(it.Metadata, k)
			continue
		}
		it.Metadata[k] = v
	}
	it.UpdatedAt = s.now()
	return s.SaveDay(ctx, d)
}

// touchAll stamps every facet. The store orders versions by item timestamps
// alone, so day-level edits have to move them too.
func (s *Service) touchAll(d *entry.Day) {
	now := s.now()
	for _, it := range d.Items() {
		it.UpdatedAt = now
	}
}

// SetTags adds and removes tags on a day.
func (s *Service) SetTags(ctx context.Context, key daykey.LocalDayKey, add, remove []string) (store.SaveResult, error) {
	d, err := s.dayOrNew(ctx, key)
	if err != nil {
		return store.SaveResult{}, err
	}
	drop := make(map[string]bool, len(remove))
	for _, t := range entry.NormalizeTags(remove) {
		drop[t] = true
	}
	tags := make([]string, 0, len(d.Tags)+len(add))
	for _, t := range append(d.Tags, add...) {
		if !drop[t] {
			tags = append(tags, t)
		}
	}
	d.Tags = entry.NormalizeTags(tags)
	s.touchAll(d)
	return s.SaveDay(ctx, d)
}

// SetMood sets the day's mood; nil clears it.
func (s *Service) SetMood(ctx context.Context, key daykey.LocalDayKey, mood *int) (store.SaveResult, error) {
	d, err := s.dayOrNew(ctx, key)
	if err != nil {
		return store.SaveResult{}, err
	}
	d.Mood = mood
	s.touchAll(d)
	return s.SaveDay(ctx, d)
}

// SetFavorite marks or unmarks the day.
func (s *Service) SetFavorite(ctx context.Context, key daykey.LocalDayKey, favorite bool) (store.SaveResult, error) {
	d, err := s.dayOrNew(ctx, key)
	if err != nil {
		return store.SaveResult{}, err
	}
	d.Favorite = favorite
	s.touchAll(d)
	return s.SaveDay(ctx, d)
}

// DeleteDay removes a day completely: its document, its index shard and its
// attachments, in that order. Files are only removed once no document can
// point at them; if that cleanup fails the leftovers are orphans that
// PruneAttachments collects. Archived conflicts are kept.
func (s *Service) DeleteDay(ctx context.Context, key daykey.LocalDayKey) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	if err := s.Persistence.Delete(ctx, key); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, key.ISODate); err != nil {
			s.log().Warn("index remove failed; run reindex",
				zap.String("isoDate", key.ISODate), zap.Error(err))
		}
	}
	if s.Attachments != nil {
		if err := s.Attachments.RemoveAll(ctx, key); err != nil {
			return fmt.Errorf("app: %s deleted, attachments left for prune: %w", key.ISODate, err)
		}
	}
	return nil
}

// AttachPhoto imports src and appends it to the facet. If the save fails
// the imported copy is removed again.
func (s *Service) AttachPhoto(ctx context.Context, key daykey.LocalDayKey, c entry.Category, src string) (entry.PhotoRef, store.SaveResult, error) {
	if s.Attachments == nil {
		return entry.PhotoRef{}, store.SaveResult{}, ErrNoAttachments
	}
	d, err := s.dayOrNew(ctx, key)
	if err != nil {
		return entry.PhotoRef{}, store.SaveResult{}, err
	}
	ref, err := s.Attachments.ImportImage(ctx, src, key, c)
	if err != nil {
		return entry.PhotoRef{}, store.SaveResult{}, err
	}
	it := d.Item(c)
	it.Photos = append(it.Photos, ref)
	it.UpdatedAt = s.now()
	res, err := s.SaveDay(ctx, d)
	if err != nil {
		if rmErr := s.Attachments.Remove(ref, key); rmErr != nil {
			s.log().Warn("could not remove imported photo", zap.String("path", ref.RelativePath), zap.Error(rmErr))
		}
		return entry.PhotoRef{}, res, err
	}
	return ref, res, nil
}

// AttachVideo is AttachPhoto for videos.
func (s *Service) AttachVideo(ctx context.Context, key daykey.LocalDayKey, c entry.Category, src string) (entry.VideoRef, store.SaveResult, error) {
	if s.Attachments == nil {
		return entry.VideoRef{}, store.SaveResult{}, ErrNoAttachments
	}
	d, err := s.dayOrNew(ctx, key)
	if err != nil {
		return entry.VideoRef{}, store.SaveResult{}, err
	}
	ref, err := s.Attachments.ImportVideo(ctx, src, key, c)
	if err != nil {
		return entry.VideoRef{}, store.SaveResult{}, err
	}
	it := d.Item(c)
	it.Videos = append(it.Videos, ref)
	it.UpdatedAt = s.now()
	res, err := s.SaveDay(ctx, d)
	if err != nil {
		if rmErr := s.Attachments.RemoveVideo(ref, key); rmErr != nil {
			s.log().Warn("could not remove imported video", zap.String("path", ref.RelativePath), zap.Error(rmErr))
		}
		return entry.VideoRef{}, res, err
	}
	return ref, res, nil
}

// DetachPhoto drops the photo from its facet, saves, and then deletes the
// file. The file stays when the day was not updated, since the primary
// document may still point at it.
func (s *Service) DetachPhoto(ctx context.Context, key daykey.LocalDayKey, c entry.Category, id uuid.UUID) (store.SaveResult, error) {
	if s.Attachments == nil {
		return store.SaveResult{}, ErrNoAttachments
	}
	d, err := s.Day(ctx, key)
	if err != nil {
		return store.SaveResult{}, err
	}
	if d == nil {
		return store.SaveResult{}, store.ErrNotFound
	}
	it := d.Item(c)
	idx := -1
	for i, p := range it.Photos {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.SaveResult{}, fmt.Errorf("%w: photo %s on %s %s", store.ErrNotFound, id, key.ISODate, c)
	}
	ref := it.Photos[idx]
	it.Photos = append(it.Photos[:idx:idx], it.Photos[idx+1:]...)
	it.UpdatedAt = s.now()

	res, err := s.SaveDay(ctx, d)
	if err != nil {
		return res, err
	}
	if res.Outcome == store.OutcomeUpdated {
		if err := s.Attachments.Remove(ref, key); err != nil {
			return res, err
		}
	}
	return res, nil
}

// DetachVideo is DetachPhoto for videos.
func (s *Service) DetachVideo(ctx context.Context, key daykey.LocalDayKey, c entry.Category, id uuid.UUID) (store.SaveResult, error) {
	if s.Attachments == nil {
		return store.SaveResult{}, ErrNoAttachments
	}
	d, err := s.Day(ctx, key)
	if err != nil {
		return store.SaveResult{}, err
	}
	if d == nil {
		return store.SaveResult{}, store.ErrNotFound
	}
	it := d.Item(c)
	idx := -1
	for i, v := range it.Videos {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.SaveResult{}, fmt.Errorf("%w: video %s on %s %s", store.ErrNotFound, id, key.ISODate, c)
	}
	ref := it.Videos[idx]
	it.Videos = append(it.Videos[:idx:idx], it.Videos[idx+1:]...)
	it.UpdatedAt = s.now()

	res, err := s.SaveDay(ctx, d)
	if err != nil {
		return res, err
	}
	if res.Outcome == store.OutcomeUpdated {
		if err := s.Attachments.RemoveVideo(ref, key); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Search runs q against the index and loads the matching days. Days the
// index knows about but the store no longer has are skipped.
func (s *Service) Search(ctx context.Context, q search.Query) ([]*entry.Day, error) {
	if s.Index == nil {
		return nil, ErrNoIndex
	}
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	keys, err := s.Index.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	days := make([]*entry.Day, 0, len(keys))
	for _, k := range keys {
		d, err := s.Persistence.Load(ctx, k)
		if err != nil {
			if errors.Is(err, store.ErrDecode) {
				s.log().Warn("skipping unreadable day", zap.String("isoDate", k.ISODate), zap.Error(err))
				continue
			}
			return nil, err
		}
		if d == nil {
			s.log().Debug("index points at a missing day", zap.String("isoDate", k.ISODate))
			continue
		}
		days = append(days, d)
	}
	return days, nil
}

// Reindex rebuilds the search index from the store.
func (s *Service) Reindex(ctx context.Context) (search.RebuildResult, error) {
	if s.Index == nil {
		return search.RebuildResult{}, ErrNoIndex
	}
	if s.Persistence == nil {
		return search.RebuildResult{}, ErrNoPersistence
	}
	return s.Index.Rebuild(ctx, s.Persistence)
}

// Conflicts lists archived versions of a day.
func (s *Service) Conflicts(ctx context.Context, key daykey.LocalDayKey) ([]store.Conflict, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Conflicts(ctx, key.ISODate)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Days lists stored days touching r, or every day when r is nil.
func (s *Service) Days(ctx context.Context, r *daykey.Interval) (store.ListResult, error) {
	if s.Persistence == nil {
		return store.ListResult{}, ErrNoPersistence
	}
	return s.Persistence.List(ctx, r)
}
