package favorite

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/padfav/padfav/internal/geometry"
)

// rawRecord is the lenient decode form for persisted and imported entries.
// Legacy data may carry numeric ids, stringified numbers, or the
// offsetX/offsetY aliases; none of that should fail the whole element.
type rawRecord struct {
	ID           idValue    `json:"id"`
	Width        *flexFloat `json:"width"`
	Height       *flexFloat `json:"height"`
	X            *flexFloat `json:"x"`
	Y            *flexFloat `json:"y"`
	OffsetX      *flexFloat `json:"offsetX"`
	OffsetY      *flexFloat `json:"offsetY"`
	Ratio        *flexFloat `json:"ratio"`
	Radius       *flexFloat `json:"radius"`
	TabletW      *flexFloat `json:"tabletW"`
	TabletH      *flexFloat `json:"tabletH"`
	PresetInfo   flexString `json:"presetInfo"`
	Title        flexString `json:"title"`
	Description  flexString `json:"description"`
	CreatedAt    *flexInt   `json:"createdAt"`
	LastModified *flexInt   `json:"lastModified"`
}

// toRecord normalizes a raw entry into a Record, synthesizing id and
// timestamps where absent. The returned reasons are non-empty when the
// entry needed repair and the collection should be re-persisted.
func (rr rawRecord) toRecord(now time.Time) (Record, []string) {
	var reasons []string

	rec := Record{
		PresetInfo:  string(rr.PresetInfo),
		Title:       string(rr.Title),
		Description: string(rr.Description),
	}

	rec.ID = string(rr.ID)
	if rec.ID == "" {
		rec.ID = NewID(now)
		reasons = append(reasons, "missing id")
	}

	if v, ok := floatVal(rr.Width); ok {
		rec.Width = v
	} else {
		reasons = append(reasons, "missing width")
	}
	if v, ok := floatVal(rr.Height); ok {
		rec.Height = v
	} else {
		reasons = append(reasons, "missing height")
	}
	if rec.Width < 0 {
		rec.Width = 0
		reasons = append(reasons, "negative width")
	}
	if rec.Height < 0 {
		rec.Height = 0
		reasons = append(reasons, "negative height")
	}

	rec.X = optFloat(rr.X, rr.OffsetX)
	rec.Y = optFloat(rr.Y, rr.OffsetY)
	rec.Ratio = optFloat(rr.Ratio, nil)
	rec.TabletW = optFloat(rr.TabletW, nil)
	rec.TabletH = optFloat(rr.TabletH, nil)

	if v, ok := floatVal(rr.Radius); ok {
		rec.Radius = geometry.ClampInt(int(v), 0, 100)
	}

	if rr.CreatedAt != nil && int64(*rr.CreatedAt) > 0 {
		rec.CreatedAt = int64(*rr.CreatedAt)
	} else {
		rec.CreatedAt = synthesizedCreatedAt(rec.ID, now)
		reasons = append(reasons, "missing createdAt")
	}
	if rr.LastModified != nil && int64(*rr.LastModified) > 0 {
		rec.LastModified = int64(*rr.LastModified)
	} else {
		rec.LastModified = rec.CreatedAt
		reasons = append(reasons, "missing lastModified")
	}
	if rec.LastModified < rec.CreatedAt {
		rec.LastModified = rec.CreatedAt
		reasons = append(reasons, "lastModified before createdAt")
	}

	return rec, reasons
}

// synthesizedCreatedAt prefers the id's embedded creation millis so repair
// stays deterministic across reads; only unstamped ids fall back to now.
func synthesizedCreatedAt(id string, now time.Time) int64 {
	if m := idStampRegex.FindStringSubmatch(id); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return n
		}
	}
	return now.UnixMilli()
}

func floatVal(f *flexFloat) (float64, bool) {
	if f == nil || math.IsNaN(float64(*f)) {
		return 0, false
	}
	return float64(*f), true
}

func optFloat(primary, alias *flexFloat) *float64 {
	if v, ok := floatVal(primary); ok {
		return &v
	}
	if v, ok := floatVal(alias); ok {
		return &v
	}
	return nil
}

// flexFloat accepts a JSON number or a numeric string. Any other value
// decodes to NaN so the field reads as absent instead of failing the entry.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = flexFloat(math.NaN())
		return nil
	}
	if s[0] == '"' {
		var unq string
		if err := sonic.Unmarshal(data, &unq); err != nil {
			*f = flexFloat(math.NaN())
			return nil
		}
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = flexFloat(math.NaN())
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON number (truncating float forms) or a numeric
// string. Any other value decodes to 0.
type flexInt int64

func (v *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	if s[0] == '"' {
		var unq string
		if err := sonic.Unmarshal(data, &unq); err != nil {
			*v = 0
			return nil
		}
		s = strings.TrimSpace(unq)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*v = flexInt(n)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*v = 0
		return nil
	}
	*v = flexInt(int64(f))
	return nil
}

// flexString accepts a JSON string, or stringifies a bare number so a
// numeric title does not drop the whole entry. Other values decode to "".
type flexString string

func (v *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*v = ""
		return nil
	}
	if s[0] == '"' {
		var unq string
		if err := sonic.Unmarshal(data, &unq); err != nil {
			*v = ""
			return nil
		}
		*v = flexString(unq)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		*v = flexString(s)
		return nil
	}
	*v = ""
	return nil
}

// idValue accepts a string or number id and stores the canonical form.
type idValue string

func (v *idValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*v = ""
		return nil
	}
	if s[0] == '"' {
		var unq string
		if err := sonic.Unmarshal(data, &unq); err != nil {
			*v = ""
			return nil
		}
		*v = idValue(CanonicalID(unq))
		return nil
	}
	if s[0] == '{' || s[0] == '[' || s == "true" || s == "false" {
		*v = ""
		return nil
	}
	*v = idValue(CanonicalID(s))
	return nil
}
