package printers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/store"
)

type PrettyPrint struct {
	ShowID bool
}

const layoutLong = "Monday, January 2, 2006"

var (
	spacing = strings.Repeat(" ", len("rose  "))

	categoryColor = map[entry.Category]*color.Color{
		entry.Rose:  color.New(color.FgHiRed, color.Bold),
		entry.Bud:   color.New(color.FgHiGreen, color.Bold),
		entry.Thorn: color.New(color.FgHiYellow, color.Bold),
	}
)

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(color.Output, "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(color.Output, title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(color.Output, title)
	_, _ = c.Fprintf(color.Output, " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(color.Output, " day")
	default:
		_, _ = c.Fprintln(color.Output, " days")
	}
}

// DayTitle renders the key as a long date in its own zone, falling back to
// the raw iso date.
func DayTitle(k daykey.LocalDayKey) string {
	if t, ok := daykey.Date(k); ok {
		return t.Format(layoutLong)
	}
	return k.ISODate
}

// Day prints every facet of d, then its tags and mood.
func (pp *PrettyPrint) Day(d *entry.Day) {
	if d == nil {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(color.Output, " nothing recorded\n\n")
		return
	}
	pp.Title(DayTitle(d.DayKey))

	faint := color.New(color.Faint)
	if line := dayline(d); line != "" {
		_, _ = faint.Fprintln(color.Output, line)
	}
	for _, it := range d.Items() {
		pp.Item(it)
	}
	pp.NewLine()
}

func dayline(d *entry.Day) string {
	parts := []string{}
	if d.Favorite {
		parts = append(parts, "★ favorite")
	}
	if d.Mood != nil {
		parts = append(parts, fmt.Sprintf("mood %d", *d.Mood))
	}
	if len(d.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(d.Tags, " #"))
	}
	return strings.Join(parts, "  ")
}

func (pp *PrettyPrint) Item(it *entry.Item) {
	c, ok := categoryColor[it.Category]
	if !ok {
		c = color.New(color.Bold)
	}
	faint := color.New(color.Faint)
	italic := color.New(color.Faint, color.Italic)

	_, _ = c.Fprintf(color.Output, "%-6s", it.Category)
	if it.IsEmpty() {
		_, _ = italic.Fprintln(color.Output, "-")
		return
	}
	short := it.ShortText
	if strings.TrimSpace(short) == "" {
		short = "(journal only)"
	}
	_, _ = fmt.Fprintln(color.Output, short)
	if j := strings.TrimSpace(it.JournalText); j != "" {
		for _, line := range strings.Split(j, "\n") {
			_, _ = faint.Fprintf(color.Output, "%s%s\n", spacing, line)
		}
	}
	for _, p := range it.Photos {
		pp.media("photo", p.ID.String(), p.RelativePath, fmt.Sprintf("%dx%d", p.PixelWidth, p.PixelHeight))
	}
	for _, v := range it.Videos {
		detail := fmt.Sprintf("%dx%d %.1fs", v.PixelWidth, v.PixelHeight, v.DurationSeconds)
		if v.HasAudio {
			detail += " audio"
		}
		pp.media("video", v.ID.String(), v.RelativePath, detail)
	}
}

func (pp *PrettyPrint) media(kind, id, rel, detail string) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)
	_, _ = faint.Fprintf(color.Output, "%s%s %s (%s)", spacing, kind, rel, detail)
	if pp.ShowID {
		_, _ = y.Fprintf(color.Output, "  %s", id)
	}
	_, _ = fmt.Fprintln(color.Output, "")
}

// Days prints one row per day with the short text of each facet.
func (pp *PrettyPrint) Days(days []*entry.Day) {
	if len(days) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(color.Output, " none\n\n")
		return
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("Day"), categoryColor[entry.Rose].Sprint("Rose"),
		categoryColor[entry.Bud].Sprint("Bud"), categoryColor[entry.Thorn].Sprint("Thorn"),
		bold.Sprint("Tags"))
	for _, d := range days {
		day := d.DayKey.ISODate
		if d.Favorite {
			day += " ★"
		}
		tbl.AddRow(day, short(&d.Rose), short(&d.Bud), short(&d.Thorn), strings.Join(d.Tags, ", "))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

func short(it *entry.Item) string {
	s := strings.TrimSpace(it.ShortText)
	if s == "" && strings.TrimSpace(it.JournalText) != "" {
		s = "…"
	}
	if n := len(it.Photos) + len(it.Videos); n > 0 {
		s = fmt.Sprintf("%s [%d]", s, n)
	}
	return strings.TrimSpace(s)
}

// Conflicts lists archived versions, oldest first.
func (pp *PrettyPrint) Conflicts(iso string, cs []store.Conflict) {
	pp.TitleWithCount("Conflicts for "+iso, len(cs))
	if len(cs) == 0 {
		pp.NewLine()
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Archived"), bold.Sprint("Path"))
	for _, c := range cs {
		tbl.AddRow(c.ArchivedAt.Local().Format("2006-01-02 15:04:05"), c.Path)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	pp.NewLine()
}

// JSON writes v indented.
func JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(color.Output, string(b))
	return err
}

// Outcome reports what a save did and where a losing version went.
func (pp *PrettyPrint) Outcome(what string, res store.SaveResult) {
	faint := color.New(color.Faint)
	day := ""
	if res.Day != nil {
		day = res.Day.DayKey.ISODate
	}
	switch res.Outcome {
	case store.OutcomeStale:
		w := color.New(color.FgHiYellow)
		_, _ = w.Fprintf(color.Output, "%s for %s was older than the stored day and was not applied\n", what, day)
	case store.OutcomeUnchanged:
		_, _ = faint.Fprintf(color.Output, "%s for %s: nothing changed\n", what, day)
	default:
		g := color.New(color.FgHiGreen)
		_, _ = g.Fprintf(color.Output, "%s for %s %s\n", what, day, res.Outcome)
	}
	if res.Conflict != nil {
		_, _ = faint.Fprintf(color.Output, "%sarchived %s\n", spacing, res.Conflict.Path)
	}
}

// Warn prints a highlighted line.
func Warn(format string, args ...interface{}) {
	w := color.New(color.FgHiYellow)
	_, _ = w.Fprintf(color.Output, format+"\n", args...)
}
