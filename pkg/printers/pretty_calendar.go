package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/entry"
)

// Calendar prints the month containing then, highlighting recorded days.
func (pp *PrettyPrint) Calendar(then time.Time, days ...*entry.Day) {
	pp.PrintMonthCount(then, countDays(then, days))
}

// CalendarYear prints all twelve months of then's year.
func (pp *PrettyPrint) CalendarYear(then time.Time, days ...*entry.Day) {
	m := time.Date(then.Year(), time.January, 1, 12, 0, 0, 0, then.Location())
	for i := 0; i < 12; i++ {
		pp.Calendar(m, days...)
		m = NextMonth(m)
	}
}

const width = len("11 12 13 14 15 16 17") // an example week

func countDays(then time.Time, days []*entry.Day) []int {
	count := make([]int, DaysIn(then))
	for _, d := range days {
		y, m, dd, ok := daykey.ParseISODate(d.DayKey.ISODate)
		if !ok || y != then.Year() || m != then.Month() {
			continue
		}
		for _, it := range d.Items() {
			if !it.IsEmpty() {
				count[dd-1]++
			}
		}
	}
	return count
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := fmt.Sprintf("%s %d", then.Month(), then.Year())
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(color.Output, "%s%s\n", strings.Repeat(" ", mid), m)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(color.Output, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	l3 := color.New(color.Bold, color.FgHiGreen)

	for i := 0; i < DaysIn(then); i++ {
		printer := l1
		switch {
		case i < len(count) && count[i] == len(entry.Categories()):
			printer = l3
		case i < len(count) && count[i] > 0:
			printer = l2
		}
		_, _ = printer.Fprintf(color.Output, "%2d ", i+1)

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(color.Output, "\n")
		}
	}
	_, _ = fmt.Fprint(color.Output, "\n\n")
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 12, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 12, 0, 0, 0, time.UTC).Weekday()
}
