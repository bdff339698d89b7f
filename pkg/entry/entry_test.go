package entry

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/markcoleman/rose-bud-thorn-sub001/pkg/daykey"
)

func sampleDay() *Day {
	at := time.Date(2026, time.March, 8, 9, 0, 0, 0, time.UTC)
	mood := 4
	d := NewDay(daykey.LocalDayKey{ISODate: "2026-03-08", TimeZoneID: "America/Los_Angeles"})
	d.Rose.ShortText = "Went hiking"
	d.Rose.JournalText = "# Trail\nLong climb, great view."
	d.Rose.UpdatedAt = at
	d.Rose.Photos = []PhotoRef{{
		ID:           uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427"),
		RelativePath: "attachments/1b4e28ba.jpg",
		CreatedAt:    at,
		PixelWidth:   4032,
		PixelHeight:  3024,
	}}
	d.Thorn.Videos = []VideoRef{{
		ID:              uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		RelativePath:    "attachments/6ba7b810.mp4",
		CreatedAt:       at,
		PixelWidth:      1920,
		PixelHeight:     1080,
		DurationSeconds: 12.5,
		HasAudio:        true,
	}}
	d.Thorn.UpdatedAt = at.Add(time.Hour)
	d.Bud.Metadata = map[string]string{"weather": "rain"}
	d.Tags = []string{"outdoors", "family", "outdoors"}
	d.Mood = &mood
	d.Favorite = true
	d.CreatedAt = at
	d.Normalize()
	return d
}

func TestNormalize(t *testing.T) {
	d := sampleDay()
	if !reflect.DeepEqual(d.Tags, []string{"family", "outdoors"}) {
		t.Fatalf("unexpected tags %v", d.Tags)
	}
	if want := time.Date(2026, time.March, 8, 10, 0, 0, 0, time.UTC); !d.UpdatedAt.Equal(want) {
		t.Fatalf("expected updatedAt %v, got %v", want, d.UpdatedAt)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	d := sampleDay()
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"schemaVersion": 2`) {
		t.Fatalf("expected schema version in %s", data)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, d) {
		t.Fatalf("round trip mismatch:\nwant %#v\ngot  %#v", d, got)
	}
}

func TestUnmarshalLegacyDocumentWithoutVideos(t *testing.T) {
	legacy := `{
  "schemaVersion": 1,
  "dayKey": {"isoDate": "2024-05-01", "timeZoneID": "Europe/London"},
  "roseItem": {"category": "rose", "shortText": "sunny", "journalText": "", "photos": [], "updatedAt": "2024-05-01T08:00:00Z"},
  "budItem": {"category": "bud", "shortText": "", "journalText": "", "photos": [], "updatedAt": "2024-05-01T08:00:00Z"},
  "thornItem": {"shortText": "tired", "journalText": "", "photos": [], "updatedAt": "2024-05-01T09:00:00Z"},
  "tags": ["work"],
  "createdAt": "2024-05-01T08:00:00Z",
  "updatedAt": "2024-05-01T09:00:00Z"
}`
	d, err := Unmarshal([]byte(legacy))
	if err != nil {
		t.Fatalf("legacy document should decode: %v", err)
	}
	for _, it := range d.Items() {
		if it.Videos == nil || len(it.Videos) != 0 {
			t.Fatalf("%s: expected empty video list, got %#v", it.Category, it.Videos)
		}
		if it.Metadata == nil {
			t.Fatalf("%s: expected metadata map", it.Category)
		}
	}
	if d.Thorn.Category != Thorn {
		t.Fatalf("missing category should default to slot, got %q", d.Thorn.Category)
	}
	if d.Favorite || d.Mood != nil {
		t.Fatalf("absent optional fields should default")
	}
	if d.Rose.ShortText != "sunny" {
		t.Fatalf("unexpected rose text %q", d.Rose.ShortText)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	doc := `{"schemaVersion": 9, "dayKey": {"isoDate": "2024-05-01", "timeZoneID": "UTC"}, "hologram": {"x": 1}}`
	d, err := Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("newer document should decode: %v", err)
	}
	if d.Rose.Category != Rose || d.Bud.Category != Bud || d.Thorn.Category != Thorn {
		t.Fatalf("slots should be tagged: %+v", d)
	}
}

func TestUnmarshalRejectsDecoupledSlot(t *testing.T) {
	doc := `{"schemaVersion": 2, "dayKey": {"isoDate": "2024-05-01", "timeZoneID": "UTC"}, "roseItem": {"category": "thorn"}}`
	if _, err := Unmarshal([]byte(doc)); err == nil {
		t.Fatalf("expected slot mismatch to fail")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := Unmarshal([]byte(`{"schemaVersion": 2}`)); err == nil {
		t.Fatalf("expected missing day key to fail")
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := sampleDay()
	cp := d.Clone()
	cp.Rose.Photos[0].PixelWidth = 1
	cp.Bud.Metadata["weather"] = "sun"
	*cp.Mood = 1
	if d.Rose.Photos[0].PixelWidth == 1 || d.Bud.Metadata["weather"] == "sun" || *d.Mood == 1 {
		t.Fatalf("clone shares state with original")
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory(" Thorn"); err != nil || c != Thorn {
		t.Fatalf("unexpected %q %v", c, err)
	}
	if _, err := ParseCategory("petal"); err == nil {
		t.Fatalf("expected error")
	}
}
