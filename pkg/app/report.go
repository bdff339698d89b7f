package app

import (
	"context"
	"fmt"
	"time"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/summary"
)

// ReportSection groups the non-empty items of one category.
type ReportSection struct {
	Category entry.Category
	Days     []*entry.Day
	Photos   int
	Videos   int
}

// ReportResult summarises a period.
type ReportResult struct {
	Period   daykey.Period
	Key      string
	Range    daykey.Interval
	Days     []*entry.Day
	Sections []ReportSection
	Skipped  []error
}

// Period returns every day in the period, ordered by day. Documents the store
// could not decode are returned separately.
func (s *Service) Period(ctx context.Context, p daykey.Period, key string, loc *time.Location) ([]*entry.Day, []error, error) {
	if s.Persistence == nil {
		return nil, nil, ErrNoPersistence
	}
	if loc == nil {
		loc = time.Local
	}
	r, ok := daykey.Range(p, key, loc)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s %q", summary.ErrInvalidKey, p, key)
	}
	res, err := s.Persistence.List(ctx, &r)
	if err != nil {
		return nil, nil, err
	}
	return res.Days, res.Errors, nil
}

// Report groups a period's days by category.
func (s *Service) Report(ctx context.Context, p daykey.Period, key string, loc *time.Location) (ReportResult, error) {
	if loc == nil {
		loc = time.Local
	}
	days, skipped, err := s.Period(ctx, p, key, loc)
	if err != nil {
		return ReportResult{}, err
	}
	r, _ := daykey.Range(p, key, loc)
	out := ReportResult{Period: p, Key: key, Range: r, Days: days, Skipped: skipped}
	for _, c := range entry.Categories() {
		section := ReportSection{Category: c}
		for _, d := range days {
			it := d.Item(c)
			if it.IsEmpty() {
				continue
			}
			section.Days = append(section.Days, d)
			section.Photos += len(it.Photos)
			section.Videos += len(it.Videos)
		}
		out.Sections = append(out.Sections, section)
	}
	return out, nil
}

// Summarize generates the period's markdown digest and stores it.
func (s *Service) Summarize(ctx context.Context, p daykey.Period, key string, loc *time.Location) (summary.Artifact, []error, error) {
	if s.Persistence == nil {
		return summary.Artifact{}, nil, ErrNoPersistence
	}
	if s.Summaries == nil {
		return summary.Artifact{}, nil, fmt.Errorf("app: no summary store configured")
	}
	a, skipped, err := summary.Generate(ctx, s.Persistence, p, key, loc, s.now())
	if err != nil {
		return summary.Artifact{}, nil, err
	}
	if err := s.Summaries.Write(ctx, a); err != nil {
		return summary.Artifact{}, skipped, err
	}
	return a, skipped, nil
}
