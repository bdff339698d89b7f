package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WalkKeys lists every file below prefix in root as a slash separated key
// relative to root, sorted. A missing prefix yields no keys, as does a
// directory removed mid-walk. Any other filesystem failure ends the walk and
// is returned as an *IOError.
func WalkKeys(ctx context.Context, root, prefix string) ([]string, error) {
	return walkKeys(ctx, os.DirFS(root), root, prefix)
}

func walkKeys(ctx context.Context, fsys fs.FS, root, prefix string) ([]string, error) {
	dir := strings.TrimSuffix(prefix, "/")
	if dir == "" {
		dir = "."
	}
	keys := make([]string, 0)
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return ioError("list", filepath.Join(root, filepath.FromSlash(p)), err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() {
			keys = append(keys, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
