package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/app"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/summary"
)

// Report prints a period grouped by category.
func (pp *PrettyPrint) Report(r app.ReportResult) {
	first := r.Range.Start.Format("2006-01-02")
	last := r.Range.End.Add(-time.Nanosecond).Format("2006-01-02")
	pp.TitleWithCount(fmt.Sprintf("%s %s (%s → %s)", r.Period, r.Key, first, last), len(r.Days))

	faint := color.New(color.Faint)
	for _, section := range r.Sections {
		c, ok := categoryColor[section.Category]
		if !ok {
			c = color.New(color.Bold)
		}
		_, _ = c.Fprintf(color.Output, "\n%s", section.Category)
		_, _ = faint.Fprintf(color.Output, "  %s\n", section.Category.Meaning())
		if len(section.Days) == 0 {
			_, _ = faint.Fprintln(color.Output, spacing+"none")
			continue
		}
		for _, d := range section.Days {
			it := d.Item(section.Category)
			text := strings.TrimSpace(it.ShortText)
			if text == "" {
				text = "(journal only)"
			}
			_, _ = fmt.Fprintf(color.Output, "%s%s  %s", spacing, d.DayKey.ISODate, text)
			if n := len(it.Photos) + len(it.Videos); n > 0 {
				_, _ = faint.Fprintf(color.Output, " [%d]", n)
			}
			_, _ = fmt.Fprintln(color.Output, "")
		}
		if section.Photos+section.Videos > 0 {
			_, _ = faint.Fprintf(color.Output, "%s%d photos, %d videos\n", spacing, section.Photos, section.Videos)
		}
	}
	pp.Skipped(r.Skipped)
	pp.NewLine()
}

// Skipped lists documents a bulk read could not decode.
func (pp *PrettyPrint) Skipped(errs []error) {
	if len(errs) == 0 {
		return
	}
	w := color.New(color.FgHiYellow)
	_, _ = w.Fprintf(color.Output, "\nskipped %d unreadable day(s):\n", len(errs))
	for _, err := range errs {
		_, _ = w.Fprintf(color.Output, "%s%v\n", spacing, err)
	}
}

// Summary prints a stored artifact.
func (pp *PrettyPrint) Summary(a *summary.Artifact) {
	if a == nil {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(color.Output, " no summary stored\n\n")
		return
	}
	faint := color.New(color.Faint)
	_, _ = faint.Fprintf(color.Output, "generated %s from %d days\n\n", a.GeneratedAt.Local().Format("2006-01-02 15:04"), a.Days)
	_, _ = fmt.Fprintln(color.Output, strings.TrimRight(a.ContentMarkdown, "\n"))
	pp.NewLine()
}
