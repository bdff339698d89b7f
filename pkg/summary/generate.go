package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

// Lister is the slice of the store a summary is built from.
type Lister interface {
	List(ctx context.Context, r *daykey.Interval) (store.ListResult, error)
}

// Generate renders a markdown digest of every day in the period. Days that
// fail to decode are left out and returned alongside the artifact.
func Generate(ctx context.Context, src Lister, p daykey.Period, key string, loc *time.Location, now time.Time) (Artifact, []error, error) {
	if loc == nil {
		loc = time.UTC
	}
	r, ok := daykey.Range(p, key, loc)
	if !ok {
		return Artifact{}, nil, fmt.Errorf("%w: %s %q", ErrInvalidKey, p, key)
	}
	res, err := src.List(ctx, &r)
	if err != nil {
		return Artifact{}, nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n", heading(p), key)
	if len(res.Days) == 0 {
		b.WriteString("\nNo entries.\n")
	}
	counts := map[entry.Category]int{}
	for _, d := range res.Days {
		fmt.Fprintf(&b, "\n## %s\n", d.DayKey.ISODate)
		if len(d.Tags) > 0 {
			fmt.Fprintf(&b, "\nTags: %s\n", strings.Join(d.Tags, ", "))
		}
		b.WriteString("\n")
		for _, it := range d.Items() {
			if it.IsEmpty() {
				continue
			}
			counts[it.Category]++
			text := strings.TrimSpace(it.ShortText)
			if text == "" {
				text = "(journal only)"
			}
			fmt.Fprintf(&b, "- **%s**: %s", it.Category, text)
			if n := len(it.Photos) + len(it.Videos); n > 0 {
				fmt.Fprintf(&b, " (%d attachments)", n)
			}
			b.WriteString("\n")
		}
	}
	if len(res.Days) > 0 {
		b.WriteString("\n## Totals\n\n")
		for _, c := range entry.Categories() {
			fmt.Fprintf(&b, "- %s: %d\n", c, counts[c])
		}
	}

	return Artifact{
		Period:          p,
		Key:             key,
		GeneratedAt:     now.UTC().Round(0),
		ContentMarkdown: b.String(),
		Days:            len(res.Days),
	}, res.Errors, nil
}

func heading(p daykey.Period) string {
	s := string(p)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
