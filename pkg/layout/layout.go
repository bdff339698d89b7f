// Package layout computes where every journal artifact lives under a root
// directory. It never touches the filesystem.
package layout

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	EntriesDir     = "entries"
	AttachmentsDir = "attachments"
	ConflictsDir   = "conflicts"
	SummariesDir   = "summaries"
	SearchIndexDir = "search-index"
	TempDirName    = ".tmp"

	EntryFile      = "entry.json"
	ConflictExt    = ".json"
	SummaryExt     = ".md"
	SummaryMetaExt = ".meta.yaml"
)

// Layout maps logical entities onto paths. A day is addressed by its iso date
// alone; two keys that differ only by zone share one directory.
type Layout struct {
	root string
}

// New returns a layout rooted at root.
func New(root string) Layout {
	return Layout{root: filepath.Clean(root)}
}

func (l Layout) Root() string {
	return l.root
}

func (l Layout) abs(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

// EntryKey is the store-relative key of a day's primary document.
func EntryKey(iso string) string {
	return path.Join(EntriesDir, iso, EntryFile)
}

// EntriesPrefix is the key prefix shared by every day.
func EntriesPrefix() string {
	return EntriesDir + "/"
}

// DayKeyPrefix is the key prefix shared by everything stored for one day.
func DayKeyPrefix(iso string) string {
	return path.Join(EntriesDir, iso) + "/"
}

// AttachmentKey resolves an attachment path relative to its day directory.
func AttachmentKey(iso, rel string) string {
	return path.Join(EntriesDir, iso, rel)
}

// NewAttachmentRelative builds the day-relative path for a new attachment.
func NewAttachmentRelative(name, ext string) string {
	return path.Join(AttachmentsDir, name+ext)
}

func ConflictPrefix(iso string) string {
	return path.Join(ConflictsDir, iso) + "/"
}

func ConflictKey(iso, stamp string) string {
	return path.Join(ConflictsDir, iso, stamp+ConflictExt)
}

func SummaryKey(period, key string) string {
	return path.Join(SummariesDir, period, key+SummaryExt)
}

func SummaryMetaKey(period, key string) string {
	return path.Join(SummariesDir, period, key+SummaryMetaExt)
}

func SummaryPrefix(period string) string {
	return path.Join(SummariesDir, period) + "/"
}

// DayDir is the directory holding one day's document and attachments.
func (l Layout) DayDir(iso string) string {
	return l.abs(path.Join(EntriesDir, iso))
}

func (l Layout) EntryPath(iso string) string {
	return l.abs(EntryKey(iso))
}

func (l Layout) AttachmentsDir(iso string) string {
	return l.abs(path.Join(EntriesDir, iso, AttachmentsDir))
}

func (l Layout) AttachmentPath(iso, rel string) string {
	return l.abs(AttachmentKey(iso, rel))
}

func (l Layout) ConflictsRoot() string {
	return l.abs(ConflictsDir)
}

func (l Layout) ConflictDir(iso string) string {
	return l.abs(path.Join(ConflictsDir, iso))
}

func (l Layout) ConflictPath(iso, stamp string) string {
	return l.abs(ConflictKey(iso, stamp))
}

// SummaryPath is the markdown body of a period summary; its metadata sits
// next to it in SummaryMetaPath.
func (l Layout) SummaryPath(period, key string) string {
	return l.abs(SummaryKey(period, key))
}

func (l Layout) SummaryMetaPath(period, key string) string {
	return l.abs(SummaryMetaKey(period, key))
}

func (l Layout) EntriesRoot() string {
	return l.abs(EntriesDir)
}

func (l Layout) SearchIndexDir() string {
	return l.abs(SearchIndexDir)
}

// TempDir receives in-flight writes before they are renamed into place. It
// must share a volume with the root.
func (l Layout) TempDir() string {
	return l.abs(TempDirName)
}

// ISODateForEntryKey extracts the day from a primary document key.
func ISODateForEntryKey(key string) (string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != EntriesDir || parts[2] != EntryFile {
		return "", false
	}
	return parts[1], true
}

// ISODateForPath extracts the day directory name from an absolute path
// anywhere below the entries root.
func (l Layout) ISODateForPath(p string) (string, bool) {
	rel, err := filepath.Rel(l.EntriesRoot(), p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if parts[0] == "" {
		return "", false
	}
	return parts[0], true
}

var ErrUnsafePath = errors.New("layout: attachment path escapes its day directory")

// SafeRelative rejects attachment paths that are absolute or climb out of the
// day directory.
func SafeRelative(rel string) error {
	if rel == "" || path.IsAbs(rel) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	clean := path.Clean(filepath.ToSlash(rel))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return nil
}

// DiskOptions configures diskv so relative keys map one-to-one onto files
// below the root, and writes land through a temp file and a rename.
func (l Layout) DiskOptions(cacheSize uint64) diskv.Options {
	return diskv.Options{
		BasePath:          l.root,
		TempDir:           l.TempDir(),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      cacheSize,
	}
}

// IndexDiskOptions is DiskOptions rooted at the search index directory. The
// index gets its own temp directory because diskv's EraseAll removes it.
func (l Layout) IndexDiskOptions() diskv.Options {
	return diskv.Options{
		BasePath:          l.SearchIndexDir(),
		TempDir:           filepath.Join(l.TempDir(), "index"),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
	}
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}
