// Package attachment imports photo and video files into a day's directory
// and removes them again. It never touches the day's document; callers add
// or drop the returned refs and save the day themselves.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/layout"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

var imageExt = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
}

var videoExt = map[string]bool{
	".mp4": true,
	".m4v": true,
	".mov": true,
}

// Repository stores attachments below layout.AttachmentsDir of each day.
type Repository struct {
	layout layout.Layout
	d      *diskv.Diskv
	log    *zap.Logger
	now    func() time.Time
	newID  func() uuid.UUID
	probe  VideoProber
}

// Option configures a Repository.
type Option func(*Repository)

func WithLogger(log *zap.Logger) Option {
	return func(r *Repository) {
		if log != nil {
			r.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDs overrides uuid.New for generated attachment names.
func WithIDs(newID func() uuid.UUID) Option {
	return func(r *Repository) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// WithVideoProber replaces the MP4 metadata reader.
func WithVideoProber(p VideoProber) Option {
	return func(r *Repository) {
		if p != nil {
			r.probe = p
		}
	}
}

// New returns a Repository rooted at l.
func New(l layout.Layout, opts ...Option) *Repository {
	r := &Repository{
		layout: l,
		log:    zap.NewNop(),
		now:    time.Now,
		newID:  uuid.New,
		probe:  ProbeMP4,
	}
	for _, opt := range opts {
		opt(r)
	}
	// Media files are large and read rarely; skip the cache.
	r.d = diskv.New(l.DiskOptions(0))
	return r
}

func checkTarget(key daykey.LocalDayKey, c entry.Category) error {
	if _, _, _, ok := daykey.ParseISODate(key.ISODate); !ok {
		return fmt.Errorf("%w: %q", store.ErrInvalidDay, key.ISODate)
	}
	if _, err := entry.ParseCategory(string(c)); err != nil {
		return fmt.Errorf("attachment: %w", err)
	}
	return nil
}

// ImportImage copies the JPEG, PNG or GIF at src into the day's attachment
// area and returns a ref carrying its pixel size. src is left in place.
func (r *Repository) ImportImage(ctx context.Context, src string, key daykey.LocalDayKey, c entry.Category) (entry.PhotoRef, error) {
	if err := ctx.Err(); err != nil {
		return entry.PhotoRef{}, err
	}
	if err := checkTarget(key, c); err != nil {
		return entry.PhotoRef{}, err
	}

	f, err := os.Open(src)
	if err != nil {
		return entry.PhotoRef{}, &store.DecodeError{Path: src, Err: err}
	}
	cfg, format, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return entry.PhotoRef{}, &store.DecodeError{Path: src, Err: err}
	}
	ext, ok := imageExt[format]
	if !ok {
		return entry.PhotoRef{}, &store.DecodeError{Path: src, Err: fmt.Errorf("unsupported image format %q", format)}
	}

	id := r.newID()
	rel, err := r.importFile(ctx, src, key.ISODate, id, ext)
	if err != nil {
		return entry.PhotoRef{}, err
	}
	r.log.Debug("imported photo",
		zap.String("isoDate", key.ISODate),
		zap.String("category", string(c)),
		zap.String("path", rel))
	return entry.PhotoRef{
		ID:           id,
		RelativePath: rel,
		CreatedAt:    r.now().UTC().Round(0),
		PixelWidth:   cfg.Width,
		PixelHeight:  cfg.Height,
	}, nil
}

// ImportVideo copies an MP4 or QuickTime file at src into the day's
// attachment area. Size, duration and audio presence come from the file's
// own track metadata.
func (r *Repository) ImportVideo(ctx context.Context, src string, key daykey.LocalDayKey, c entry.Category) (entry.VideoRef, error) {
	if err := ctx.Err(); err != nil {
		return entry.VideoRef{}, err
	}
	if err := checkTarget(key, c); err != nil {
		return entry.VideoRef{}, err
	}
	ext := strings.ToLower(filepath.Ext(src))
	if !videoExt[ext] {
		return entry.VideoRef{}, &store.DecodeError{Path: src, Err: fmt.Errorf("unsupported video extension %q", ext)}
	}

	f, err := os.Open(src)
	if err != nil {
		return entry.VideoRef{}, &store.DecodeError{Path: src, Err: err}
	}
	info, err := r.probe(f)
	f.Close()
	if err != nil {
		return entry.VideoRef{}, &store.DecodeError{Path: src, Err: err}
	}

	id := r.newID()
	rel, err := r.importFile(ctx, src, key.ISODate, id, ext)
	if err != nil {
		return entry.VideoRef{}, err
	}
	r.log.Debug("imported video",
		zap.String("isoDate", key.ISODate),
		zap.String("category", string(c)),
		zap.String("path", rel),
		zap.Float64("seconds", info.DurationSeconds))
	return entry.VideoRef{
		ID:              id,
		RelativePath:    rel,
		CreatedAt:       r.now().UTC().Round(0),
		PixelWidth:      info.Width,
		PixelHeight:     info.Height,
		DurationSeconds: info.DurationSeconds,
		HasAudio:        info.HasAudio,
	}, nil
}

func (r *Repository) importFile(ctx context.Context, src, iso string, id uuid.UUID, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := layout.NewAttachmentRelative(id.String(), ext)
	if err := r.d.Import(src, layout.AttachmentKey(iso, rel), false); err != nil {
		return "", &store.IOError{Op: "import", Path: r.layout.AttachmentPath(iso, rel), Err: err}
	}
	return rel, nil
}

// Remove deletes the photo's backing file. A missing file is not an error.
func (r *Repository) Remove(ref entry.PhotoRef, key daykey.LocalDayKey) error {
	return r.remove(key.ISODate, ref.RelativePath)
}

// RemoveVideo deletes the video's backing file. A missing file is not an
// error.
func (r *Repository) RemoveVideo(ref entry.VideoRef, key daykey.LocalDayKey) error {
	return r.remove(key.ISODate, ref.RelativePath)
}

func (r *Repository) remove(iso, rel string) error {
	if _, _, _, ok := daykey.ParseISODate(iso); !ok {
		return fmt.Errorf("%w: %q", store.ErrInvalidDay, iso)
	}
	if err := layout.SafeRelative(rel); err != nil {
		return fmt.Errorf("attachment: %w", err)
	}
	if err := r.d.Erase(layout.AttachmentKey(iso, rel)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &store.IOError{Op: "remove", Path: r.layout.AttachmentPath(iso, rel), Err: err}
	}
	r.log.Debug("removed attachment", zap.String("isoDate", iso), zap.String("path", rel))
	return nil
}

// Exists reports whether rel has a backing file under the day.
func (r *Repository) Exists(key daykey.LocalDayKey, rel string) bool {
	if layout.SafeRelative(rel) != nil {
		return false
	}
	return r.d.Has(layout.AttachmentKey(key.ISODate, rel))
}

// List returns the day-relative paths of every stored attachment, sorted.
func (r *Repository) List(ctx context.Context, key daykey.LocalDayKey) ([]string, error) {
	if _, _, _, ok := daykey.ParseISODate(key.ISODate); !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidDay, key.ISODate)
	}
	prefix := layout.DayKeyPrefix(key.ISODate)
	keys, err := store.WalkKeys(ctx, r.layout.Root(), prefix+layout.AttachmentsDir+"/")
	if err != nil {
		return nil, err
	}
	rels := make([]string, 0, len(keys))
	for _, k := range keys {
		rels = append(rels, strings.TrimPrefix(k, prefix))
	}
	return rels, nil
}

// Days returns every day that has at least one stored attachment, whether
// or not the day still has a document.
func (r *Repository) Days(ctx context.Context) ([]daykey.LocalDayKey, error) {
	keys, err := store.WalkKeys(ctx, r.layout.Root(), layout.EntriesPrefix())
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	days := make([]daykey.LocalDayKey, 0)
	for _, k := range keys {
		parts := strings.SplitN(k, "/", 4)
		if len(parts) < 4 || parts[2] != layout.AttachmentsDir || seen[parts[1]] {
			continue
		}
		if _, _, _, ok := daykey.ParseISODate(parts[1]); !ok {
			continue
		}
		seen[parts[1]] = true
		days = append(days, daykey.LocalDayKey{ISODate: parts[1]})
	}
	return days, nil
}

// ModTime is the last modification time of a stored attachment.
func (r *Repository) ModTime(key daykey.LocalDayKey, rel string) (time.Time, error) {
	if err := layout.SafeRelative(rel); err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(r.layout.AttachmentPath(key.ISODate, rel))
	if err != nil {
		return time.Time{}, &store.IOError{Op: "stat", Path: r.layout.AttachmentPath(key.ISODate, rel), Err: err}
	}
	return info.ModTime(), nil
}

// RemoveAll deletes every attachment stored for the day, referenced or not.
func (r *Repository) RemoveAll(ctx context.Context, key daykey.LocalDayKey) error {
	rels, err := r.List(ctx, key)
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if err := r.remove(key.ISODate, rel); err != nil {
			return err
		}
	}
	return nil
}

// Orphans lists files stored under key that no item of d references. A nil
// d means the day has no document, so every stored file is an orphan.
func (r *Repository) Orphans(ctx context.Context, key daykey.LocalDayKey, d *entry.Day) ([]string, error) {
	rels, err := r.List(ctx, key)
	if err != nil {
		return nil, err
	}
	referenced := map[string]bool{}
	if d != nil {
		for _, it := range d.Items() {
			for _, p := range it.Photos {
				referenced[path.Clean(p.RelativePath)] = true
			}
			for _, v := range it.Videos {
				referenced[path.Clean(v.RelativePath)] = true
			}
		}
	}
	orphans := make([]string, 0)
	for _, rel := range rels {
		if !referenced[rel] {
			orphans = append(orphans, rel)
		}
	}
	return orphans, nil
}
