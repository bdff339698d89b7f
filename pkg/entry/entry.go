// Package entry defines the journal aggregate: one rose, one bud and one thorn
// per day, along with their media references.
package entry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
)

// PhotoRef points at an image stored next to its day. RelativePath is
// relative to the day directory so the root can move.
type PhotoRef struct {
	ID           uuid.UUID `json:"id"`
	RelativePath string    `json:"relativePath"`
	CreatedAt    time.Time `json:"createdAt"`
	PixelWidth   int       `json:"pixelWidth"`
	PixelHeight  int       `json:"pixelHeight"`
}

// VideoRef points at a video stored next to its day.
type VideoRef struct {
	ID              uuid.UUID `json:"id"`
	RelativePath    string    `json:"relativePath"`
	CreatedAt       time.Time `json:"createdAt"`
	PixelWidth      int       `json:"pixelWidth"`
	PixelHeight     int       `json:"pixelHeight"`
	DurationSeconds float64   `json:"durationSeconds"`
	HasAudio        bool      `json:"hasAudio"`
}

// Item is one facet of a day.
type Item struct {
	Category    Category          `json:"category"`
	ShortText   string            `json:"shortText"`
	JournalText string            `json:"journalText"`
	Photos      []PhotoRef        `json:"photos"`
	Videos      []VideoRef        `json:"videos"`
	Metadata    map[string]string `json:"metadata"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewItem returns an empty item for c.
func NewItem(c Category) Item {
	return Item{
		Category: c,
		Photos:   []PhotoRef{},
		Videos:   []VideoRef{},
		Metadata: map[string]string{},
	}
}

// IsEmpty reports whether the item carries no text and no media.
func (i Item) IsEmpty() bool {
	return strings.TrimSpace(i.ShortText) == "" &&
		strings.TrimSpace(i.JournalText) == "" &&
		len(i.Photos) == 0 && len(i.Videos) == 0
}

// Day is the aggregate persisted for one calendar day.
type Day struct {
	DayKey    daykey.LocalDayKey `json:"dayKey"`
	Rose      Item               `json:"roseItem"`
	Bud       Item               `json:"budItem"`
	Thorn     Item               `json:"thornItem"`
	Tags      []string           `json:"tags"`
	Mood      *int               `json:"mood,omitempty"`
	Favorite  bool               `json:"favorite"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// NewDay returns an empty day with every slot tagged with its category.
func NewDay(key daykey.LocalDayKey) *Day {
	return &Day{
		DayKey: key,
		Rose:   NewItem(Rose),
		Bud:    NewItem(Bud),
		Thorn:  NewItem(Thorn),
		Tags:   []string{},
	}
}

// Item returns the slot for c, or nil for an unknown category.
func (d *Day) Item(c Category) *Item {
	switch c {
	case Rose:
		return &d.Rose
	case Bud:
		return &d.Bud
	case Thorn:
		return &d.Thorn
	default:
		return nil
	}
}

// Items returns the three slots in display order.
func (d *Day) Items() []*Item {
	return []*Item{&d.Rose, &d.Bud, &d.Thorn}
}

// ItemsUpdatedAt is the latest item timestamp.
func (d *Day) ItemsUpdatedAt() time.Time {
	var latest time.Time
	for _, it := range d.Items() {
		if it.UpdatedAt.After(latest) {
			latest = it.UpdatedAt
		}
	}
	return latest
}

// HasPhotos reports whether the slot for c holds at least one photo.
func (d *Day) HasPhotos(c Category) bool {
	it := d.Item(c)
	return it != nil && len(it.Photos) > 0
}

// Validate reports a slot whose category tag disagrees with its position.
func (d *Day) Validate() error {
	for _, c := range Categories() {
		if got := d.Item(c).Category; got != c {
			return fmt.Errorf("entry: %s slot holds a %q item", c, got)
		}
	}
	if d.DayKey.IsZero() {
		return fmt.Errorf("entry: day key required")
	}
	return nil
}

// Normalize tags empty slots with their category, fills nil collections,
// dedupes tags and recomputes UpdatedAt from the items.
func (d *Day) Normalize() {
	for _, c := range Categories() {
		it := d.Item(c)
		if it.Category == "" {
			it.Category = c
		}
		if it.Photos == nil {
			it.Photos = []PhotoRef{}
		}
		if it.Videos == nil {
			it.Videos = []VideoRef{}
		}
		if it.Metadata == nil {
			it.Metadata = map[string]string{}
		}
	}
	d.Tags = NormalizeTags(d.Tags)
	d.UpdatedAt = d.ItemsUpdatedAt()
}

// NormalizeTags trims, dedupes and sorts a tag set.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (d *Day) Clone() *Day {
	if d == nil {
		return nil
	}
	cp := *d
	for _, c := range Categories() {
		*cp.Item(c) = d.Item(c).clone()
	}
	if d.Tags != nil {
		cp.Tags = make([]string, len(d.Tags))
		copy(cp.Tags, d.Tags)
	}
	if d.Mood != nil {
		m := *d.Mood
		cp.Mood = &m
	}
	return &cp
}

func (i Item) clone() Item {
	cp := i
	if i.Photos != nil {
		cp.Photos = make([]PhotoRef, len(i.Photos))
		copy(cp.Photos, i.Photos)
	}
	if i.Videos != nil {
		cp.Videos = make([]VideoRef, len(i.Videos))
		copy(cp.Videos, i.Videos)
	}
	if i.Metadata != nil {
		cp.Metadata = make(map[string]string, len(i.Metadata))
		for k, v := range i.Metadata {
			cp.Metadata[k] = v
		}
	}
	return cp
}
