// Package summary persists period summaries: one markdown document per
// (period, key) with a YAML sidecar describing how it was produced.
package summary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/layout"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

// Artifact is a generated summary of one period.
type Artifact struct {
	Period          daykey.Period
	Key             string
	GeneratedAt     time.Time
	ContentMarkdown string
	// Days is the number of journal days the content was built from.
	Days int
}

type sidecar struct {
	Period      string    `yaml:"period"`
	Key         string    `yaml:"key"`
	GeneratedAt time.Time `yaml:"generatedAt"`
	Days        int       `yaml:"days"`
}

// ErrInvalidKey rejects period keys that do not parse.
var ErrInvalidKey = errors.New("summary: invalid period key")

// Store reads and writes artifacts below the summaries directory.
type Store struct {
	layout layout.Layout
	d      *diskv.Diskv
	log    *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New returns a Store rooted at l.
func New(l layout.Layout, opts ...Option) *Store {
	s := &Store{layout: l, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.d = diskv.New(l.DiskOptions(0))
	return s
}

func validate(p daykey.Period, key string) error {
	if _, err := daykey.ParsePeriod(string(p)); err != nil {
		return err
	}
	if _, ok := daykey.Range(p, key, time.UTC); !ok {
		return fmt.Errorf("%w: %s %q", ErrInvalidKey, p, key)
	}
	return nil
}

// Write stores a, replacing any earlier artifact for the same period and key.
// The markdown is written before its sidecar.
func (s *Store) Write(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(a.Period, a.Key); err != nil {
		return err
	}
	meta, err := yaml.Marshal(sidecar{
		Period:      string(a.Period),
		Key:         a.Key,
		GeneratedAt: a.GeneratedAt.UTC(),
		Days:        a.Days,
	})
	if err != nil {
		return fmt.Errorf("summary: encode sidecar: %w", err)
	}

	p := string(a.Period)
	if err := s.d.Write(layout.SummaryKey(p, a.Key), []byte(a.ContentMarkdown)); err != nil {
		return &store.IOError{Op: "write", Path: s.layout.SummaryPath(p, a.Key), Err: err}
	}
	if err := s.d.Write(layout.SummaryMetaKey(p, a.Key), meta); err != nil {
		return &store.IOError{Op: "write", Path: s.layout.SummaryMetaPath(p, a.Key), Err: err}
	}
	s.log.Debug("wrote summary", zap.String("period", p), zap.String("key", a.Key))
	return nil
}

// Read returns the artifact for (p, key), or nil when none was written. A
// missing sidecar leaves GeneratedAt zero.
func (s *Store) Read(ctx context.Context, p daykey.Period, key string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate(p, key); err != nil {
		return nil, err
	}
	content, err := s.d.Read(layout.SummaryKey(string(p), key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &store.IOError{Op: "read", Path: s.layout.SummaryPath(string(p), key), Err: err}
	}
	a := &Artifact{Period: p, Key: key, ContentMarkdown: string(content)}

	raw, err := s.d.Read(layout.SummaryMetaKey(string(p), key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug("summary has no sidecar", zap.String("period", string(p)), zap.String("key", key))
	case err != nil:
		return nil, &store.IOError{Op: "read", Path: s.layout.SummaryMetaPath(string(p), key), Err: err}
	default:
		var meta sidecar
		if err := yaml.Unmarshal(raw, &meta); err != nil {
			return nil, &store.DecodeError{Path: s.layout.SummaryMetaPath(string(p), key), Err: err}
		}
		a.GeneratedAt = meta.GeneratedAt
		a.Days = meta.Days
	}
	return a, nil
}

// List returns the keys with a stored artifact for p, sorted.
func (s *Store) List(ctx context.Context, p daykey.Period) ([]string, error) {
	if _, err := daykey.ParsePeriod(string(p)); err != nil {
		return nil, err
	}
	stored, err := store.WalkKeys(ctx, s.layout.Root(), layout.SummaryPrefix(string(p)))
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(stored))
	for _, k := range stored {
		name := path.Base(k)
		if !strings.HasSuffix(name, layout.SummaryExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, layout.SummaryExt))
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes an artifact and its sidecar. Absent artifacts are ignored.
func (s *Store) Delete(ctx context.Context, p daykey.Period, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(p, key); err != nil {
		return err
	}
	for _, k := range []string{layout.SummaryMetaKey(string(p), key), layout.SummaryKey(string(p), key)} {
		if err := s.d.Erase(k); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &store.IOError{Op: "delete", Path: path.Join(s.layout.Root(), k), Err: err}
		}
	}
	return nil
}
