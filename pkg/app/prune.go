package app

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

// PruneResult lists attachment files removed because no saved item
// referenced them.
type PruneResult struct {
	Removed map[string][]string
	Skipped []error
}

// PruneAttachments deletes attachment files that no primary document points
// at, such as copies left behind when a save lost a race or a day whose
// document was deleted. Files referenced by archived conflicts are kept so
// those versions stay complete. Each day's document is re-read right before
// its files are checked, and files modified after the prune started are left
// alone since they may belong to an attach whose save has not landed yet.
// Days whose document cannot be decoded are skipped, not pruned.
func (s *Service) PruneAttachments(ctx context.Context, dryRun bool) (PruneResult, error) {
	if s.Persistence == nil {
		return PruneResult{}, ErrNoPersistence
	}
	if s.Attachments == nil {
		return PruneResult{}, ErrNoAttachments
	}
	// File times come from the filesystem, so compare against the wall clock.
	started := time.Now()

	days, err := s.Attachments.Days(ctx)
	if err != nil {
		return PruneResult{}, err
	}
	out := PruneResult{Removed: map[string][]string{}}
	for _, key := range days {
		d, err := s.Persistence.Load(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrDecode) {
				s.log().Warn("not pruning undecodable day", zap.String("isoDate", key.ISODate), zap.Error(err))
				out.Skipped = append(out.Skipped, err)
				continue
			}
			return out, err
		}
		if d != nil {
			key = d.DayKey
		}
		orphans, err := s.Attachments.Orphans(ctx, key, d)
		if err != nil {
			return out, err
		}
		if len(orphans) == 0 {
			continue
		}
		kept, err := s.conflictRefs(ctx, key.ISODate)
		if err != nil {
			return out, err
		}
		for _, rel := range orphans {
			if kept[rel] {
				continue
			}
			mod, err := s.Attachments.ModTime(key, rel)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return out, err
			}
			if mod.After(started) {
				continue
			}
			if !dryRun {
				if err := s.Attachments.Remove(entry.PhotoRef{RelativePath: rel}, key); err != nil {
					return out, err
				}
			}
			out.Removed[key.ISODate] = append(out.Removed[key.ISODate], rel)
		}
		if n := len(out.Removed[key.ISODate]); n > 0 {
			s.log().Info("pruned attachments",
				zap.String("isoDate", key.ISODate),
				zap.Int("files", n),
				zap.Bool("dryRun", dryRun))
		}
	}
	return out, nil
}

// conflictRefs collects every attachment path an archived version of the day
// uses.
func (s *Service) conflictRefs(ctx context.Context, iso string) (map[string]bool, error) {
	refs := map[string]bool{}
	conflicts, err := s.Persistence.Conflicts(ctx, iso)
	if err != nil {
		return nil, err
	}
	for _, c := range conflicts {
		archived, err := s.Persistence.ReadConflict(ctx, c)
		if err != nil {
			if errors.Is(err, store.ErrDecode) {
				continue
			}
			return nil, err
		}
		for _, it := range archived.Items() {
			for _, p := range it.Photos {
				refs[path.Clean(p.RelativePath)] = true
			}
			for _, v := range it.Videos {
				refs[path.Clean(v.RelativePath)] = true
			}
		}
	}
	return refs, nil
}
