package entry

import (
	"fmt"
	"strings"
)

// Category names one of the three facets of a day.
type Category string

const (
	Rose  Category = "rose"
	Bud   Category = "bud"
	Thorn Category = "thorn"
)

// Categories returns the facets in display order.
func Categories() []Category {
	return []Category{Rose, Bud, Thorn}
}

// ParseCategory converts a string to a Category or returns an error for unknown values.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range Categories() {
		if candidate == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("entry: unknown category %q", raw)
}

// Meaning is a short gloss for help text.
func (c Category) Meaning() string {
	switch c {
	case Rose:
		return "something positive"
	case Bud:
		return "something you are looking forward to"
	case Thorn:
		return "something difficult"
	default:
		return ""
	}
}
