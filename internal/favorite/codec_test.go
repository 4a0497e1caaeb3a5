package favorite

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

var codecNow = time.UnixMilli(1750000000000)

func hasNote(notes []string, substr string) bool {
	for _, n := range notes {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	records := []Record{sampleRecord()}

	data, err := EncodeCollection(records)
	if err != nil {
		t.Fatalf("EncodeCollection() error = %v", err)
	}

	decoded, repairs, err := DecodeCollection(data, codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if len(repairs) != 0 {
		t.Errorf("clean data produced repairs: %v", repairs)
	}
	if !reflect.DeepEqual(decoded, records) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, records)
	}
}

func TestEncodeCollectionNil(t *testing.T) {
	data, err := EncodeCollection(nil)
	if err != nil {
		t.Fatalf("EncodeCollection(nil) error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("EncodeCollection(nil) = %s, want []", data)
	}
}

func TestDecodeCollectionNumericID(t *testing.T) {
	input := `[{"id":123,"width":50,"height":30,"createdAt":1700000000000,"lastModified":1700000000000}]`

	records, _, err := DecodeCollection([]byte(input), codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ID != "123" {
		t.Errorf("ID = %q, want %q", records[0].ID, "123")
	}
}

func TestDecodeCollectionStringNumbers(t *testing.T) {
	input := `[{"id":"a","width":"60.5","height":"40","radius":"15","createdAt":"1700000000000","lastModified":1700000000000}]`

	records, _, err := DecodeCollection([]byte(input), codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	r := records[0]
	if r.Width != 60.5 {
		t.Errorf("Width = %v, want 60.5", r.Width)
	}
	if r.Height != 40 {
		t.Errorf("Height = %v, want 40", r.Height)
	}
	if r.Radius != 15 {
		t.Errorf("Radius = %d, want 15", r.Radius)
	}
	if r.CreatedAt != 1700000000000 {
		t.Errorf("CreatedAt = %d, want 1700000000000", r.CreatedAt)
	}
}

func TestDecodeCollectionOffsetAlias(t *testing.T) {
	t.Run("alias fills missing coordinates", func(t *testing.T) {
		input := `[{"id":"a","width":50,"height":30,"offsetX":25,"offsetY":15,"createdAt":1,"lastModified":1}]`
		records, _, err := DecodeCollection([]byte(input), codecNow)
		if err != nil {
			t.Fatalf("DecodeCollection() error = %v", err)
		}
		r := records[0]
		if r.X == nil || *r.X != 25 {
			t.Errorf("X = %v, want 25", r.X)
		}
		if r.Y == nil || *r.Y != 15 {
			t.Errorf("Y = %v, want 15", r.Y)
		}
	})

	t.Run("primary wins over alias", func(t *testing.T) {
		input := `[{"id":"a","width":50,"height":30,"x":10,"offsetX":99,"createdAt":1,"lastModified":1}]`
		records, _, err := DecodeCollection([]byte(input), codecNow)
		if err != nil {
			t.Fatalf("DecodeCollection() error = %v", err)
		}
		if records[0].X == nil || *records[0].X != 10 {
			t.Errorf("X = %v, want 10", records[0].X)
		}
	})
}

func TestDecodeCollectionRepairsEmptyEntry(t *testing.T) {
	records, repairs, err := DecodeCollection([]byte(`[{}]`), codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]

	if !strings.HasPrefix(r.ID, "fav_") {
		t.Errorf("synthesized ID = %q, want fav_ prefix", r.ID)
	}
	if r.Width != 0 || r.Height != 0 {
		t.Errorf("dimensions = %vx%v, want 0x0", r.Width, r.Height)
	}
	if r.CreatedAt != codecNow.UnixMilli() {
		t.Errorf("CreatedAt = %d, want %d", r.CreatedAt, codecNow.UnixMilli())
	}
	if r.LastModified != r.CreatedAt {
		t.Errorf("LastModified = %d, want %d", r.LastModified, r.CreatedAt)
	}

	for _, want := range []string{"missing id", "missing width", "missing height", "missing createdAt", "missing lastModified"} {
		if !hasNote(repairs, want) {
			t.Errorf("repairs missing %q: %v", want, repairs)
		}
	}
	if !hasNote(repairs, "favorites[0]") {
		t.Errorf("repairs not indexed: %v", repairs)
	}
}

func TestDecodeCollectionSynthesizesCreatedAtFromID(t *testing.T) {
	input := `[{"id":"fav_1600000000000_zzzzzzz","width":10,"height":10}]`

	records, repairs, err := DecodeCollection([]byte(input), codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if records[0].CreatedAt != 1600000000000 {
		t.Errorf("CreatedAt = %d, want id-embedded 1600000000000", records[0].CreatedAt)
	}
	if !hasNote(repairs, "missing createdAt") {
		t.Errorf("repairs missing note: %v", repairs)
	}
}

func TestDecodeCollectionNegativeDimensions(t *testing.T) {
	input := `[{"id":"a","width":-5,"height":30,"createdAt":1,"lastModified":1}]`

	records, repairs, err := DecodeCollection([]byte(input), codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if records[0].Width != 0 {
		t.Errorf("Width = %v, want 0", records[0].Width)
	}
	if !hasNote(repairs, "negative width") {
		t.Errorf("repairs missing note: %v", repairs)
	}
}

func TestDecodeCollectionFixesModifiedBeforeCreated(t *testing.T) {
	input := `[{"id":"a","width":10,"height":10,"createdAt":2000,"lastModified":1000}]`

	records, repairs, err := DecodeCollection([]byte(input), codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if records[0].LastModified != 2000 {
		t.Errorf("LastModified = %d, want 2000", records[0].LastModified)
	}
	if !hasNote(repairs, "lastModified before createdAt") {
		t.Errorf("repairs missing note: %v", repairs)
	}
}

func TestDecodeCollectionClampsRadius(t *testing.T) {
	input := `[{"id":"a","width":10,"height":10,"radius":250,"createdAt":1,"lastModified":1},` +
		`{"id":"b","width":10,"height":10,"radius":-5,"createdAt":1,"lastModified":1}]`

	records, _, err := DecodeCollection([]byte(input), codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if records[0].Radius != 100 {
		t.Errorf("Radius = %d, want 100", records[0].Radius)
	}
	if records[1].Radius != 0 {
		t.Errorf("Radius = %d, want 0", records[1].Radius)
	}
}

func TestDecodeCollectionDuplicateIDs(t *testing.T) {
	t.Run("exact duplicate", func(t *testing.T) {
		input := `[{"id":"a","width":10,"height":10,"createdAt":1,"lastModified":1},` +
			`{"id":"a","width":20,"height":20,"createdAt":2,"lastModified":2}]`

		records, repairs, err := DecodeCollection([]byte(input), codecNow)
		if err != nil {
			t.Fatalf("DecodeCollection() error = %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0].ID != "a" {
			t.Errorf("first ID = %q, want a", records[0].ID)
		}
		if records[1].ID == "a" {
			t.Error("second duplicate kept its id")
		}
		if !strings.HasPrefix(records[1].ID, "fav_") {
			t.Errorf("reassigned ID = %q, want fav_ prefix", records[1].ID)
		}
		if !hasNote(repairs, "duplicate id") {
			t.Errorf("repairs missing note: %v", repairs)
		}
	})

	t.Run("numeric spellings collide", func(t *testing.T) {
		input := `[{"id":"7","width":10,"height":10,"createdAt":1,"lastModified":1},` +
			`{"id":"07","width":20,"height":20,"createdAt":2,"lastModified":2}]`

		records, repairs, err := DecodeCollection([]byte(input), codecNow)
		if err != nil {
			t.Fatalf("DecodeCollection() error = %v", err)
		}
		if records[1].ID == "7" {
			t.Error("canonically equal id kept as duplicate")
		}
		if !hasNote(repairs, "duplicate id") {
			t.Errorf("repairs missing note: %v", repairs)
		}
	})
}

func TestDecodeCollectionDropsUnreadableEntries(t *testing.T) {
	input := `[null, 42, "junk", {"id":"keep","width":10,"height":10,"createdAt":1,"lastModified":1}]`

	records, repairs, err := DecodeCollection([]byte(input), codecNow)
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ID != "keep" {
		t.Errorf("kept ID = %q, want keep", records[0].ID)
	}
	if !hasNote(repairs, "favorites[0]: dropped null entry") {
		t.Errorf("repairs missing null note: %v", repairs)
	}
	if !hasNote(repairs, "favorites[1]: dropped unreadable entry") {
		t.Errorf("repairs missing index-1 note: %v", repairs)
	}
	if !hasNote(repairs, "favorites[2]: dropped unreadable entry") {
		t.Errorf("repairs missing index-2 note: %v", repairs)
	}
}

func TestDecodeCollectionNotArray(t *testing.T) {
	for _, input := range []string{`{"a":1}`, `garbage`, `true`} {
		if _, _, err := DecodeCollection([]byte(input), codecNow); err == nil {
			t.Errorf("DecodeCollection(%q) error = nil, want error", input)
		}
	}
}

func TestDecodeImport(t *testing.T) {
	records := []Record{sampleRecord()}

	t.Run("envelope", func(t *testing.T) {
		data, err := EncodeEnvelope(records, "01J0000000000000000000000", 1750000000000)
		if err != nil {
			t.Fatalf("EncodeEnvelope() error = %v", err)
		}
		decoded, repairs, err := DecodeImport(data, codecNow)
		if err != nil {
			t.Fatalf("DecodeImport() error = %v", err)
		}
		if len(repairs) != 0 {
			t.Errorf("clean envelope produced repairs: %v", repairs)
		}
		if !reflect.DeepEqual(decoded, records) {
			t.Errorf("envelope round trip mismatch:\n got %+v\nwant %+v", decoded, records)
		}
	})

	t.Run("bare array", func(t *testing.T) {
		data, err := EncodeCollection(records)
		if err != nil {
			t.Fatalf("EncodeCollection() error = %v", err)
		}
		decoded, _, err := DecodeImport(data, codecNow)
		if err != nil {
			t.Fatalf("DecodeImport() error = %v", err)
		}
		if !reflect.DeepEqual(decoded, records) {
			t.Errorf("bare array mismatch:\n got %+v\nwant %+v", decoded, records)
		}
	})

	t.Run("envelope without favorites", func(t *testing.T) {
		if _, _, err := DecodeImport([]byte(`{"version":"1"}`), codecNow); err == nil {
			t.Error("DecodeImport() error = nil, want error")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		for _, input := range []string{"", "   ", "\n"} {
			if _, _, err := DecodeImport([]byte(input), codecNow); err == nil {
				t.Errorf("DecodeImport(%q) error = nil, want error", input)
			}
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		if _, _, err := DecodeImport([]byte(`{nonsense`), codecNow); err == nil {
			t.Error("DecodeImport() error = nil, want error")
		}
	})
}

func TestEncodeEnvelopeShape(t *testing.T) {
	data, err := EncodeEnvelope([]Record{sampleRecord()}, "export-1", 1750000000000)
	if err != nil {
		t.Fatalf("EncodeEnvelope() error = %v", err)
	}

	var env Envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Version != SchemaVersion {
		t.Errorf("Version = %q, want %q", env.Version, SchemaVersion)
	}
	if env.ExportID != "export-1" {
		t.Errorf("ExportID = %q, want export-1", env.ExportID)
	}
	if env.ExportedAt != 1750000000000 {
		t.Errorf("ExportedAt = %d, want 1750000000000", env.ExportedAt)
	}
	if len(env.Favorites) != 1 {
		t.Errorf("Favorites length = %d, want 1", len(env.Favorites))
	}
}
