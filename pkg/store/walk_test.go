package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// deniedFS fails to read one directory the way a chmod 000 directory does.
type deniedFS struct {
	fs.FS
	dir string
}

func (d deniedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == d.dir {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return fs.ReadDir(d.FS, name)
}

func TestWalkKeys(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"entries/2024-01-02/entry.json", "entries/2024-01-01/attachments/a.png", "entries/2024-01-01/entry.json"} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	keys, err := WalkKeys(context.Background(), root, "entries/")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	want := []string{"entries/2024-01-01/attachments/a.png", "entries/2024-01-01/entry.json", "entries/2024-01-02/entry.json"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("got %v, want %v", keys, want)
	}

	keys, err = WalkKeys(context.Background(), root, "conflicts/2024-01-01/")
	if err != nil {
		t.Fatalf("walk missing prefix: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestWalkKeysReportsUnreadableDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "entries", "2024-01-02"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fsys := deniedFS{FS: os.DirFS(root), dir: "entries/2024-01-02"}

	_, err := walkKeys(context.Background(), fsys, root, "entries/")
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) || !strings.HasSuffix(ioErr.Path, filepath.Join("entries", "2024-01-02")) {
		t.Fatalf("expected the unreadable directory in the error, got %v", err)
	}
}

func saveDays(t *testing.T, p Persistence, isos ...string) {
	t.Helper()
	for _, iso := range isos {
		if _, err := p.Save(context.Background(), newDay(iso, "day "+iso, base)); err != nil {
			t.Fatalf("save %s: %v", iso, err)
		}
	}
}

func TestListReturnsErrorInsteadOfPartialDays(t *testing.T) {
	p, root := newTestStore(t)
	saveDays(t, p, "2024-01-01", "2024-01-02", "2024-01-03")
	p.(*persistence).fsys = deniedFS{FS: os.DirFS(root), dir: "entries/2024-01-02"}

	res, err := p.List(context.Background(), nil)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if len(res.Days) != 0 {
		t.Fatalf("expected no partial result, got %d days", len(res.Days))
	}
}

func TestListUnreadableDayDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}
	p, root := newTestStore(t)
	saveDays(t, p, "2024-01-01", "2024-01-02", "2024-01-03")
	dir := filepath.Join(root, "entries", "2024-01-02")
	if err := os.Chmod(dir, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if _, err := p.List(context.Background(), nil); !errors.Is(err, ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}
