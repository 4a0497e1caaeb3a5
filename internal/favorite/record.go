// Package favorite defines the favorite record model and the pure logic
// that operates on it: id canonicalization, display-text indirection,
// repair of persisted data, sorting, and the JSON codec.
package favorite

// Record represents a saved tablet-area configuration snapshot.
// Field names match the persisted JSON layout.
type Record struct {
	// ID uniquely identifies this favorite. Assigned at creation, immutable,
	// and doubles as the creation-order proxy for the default sort.
	ID string `json:"id"`

	// Width and Height are the area dimensions in millimeters.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// X and Y are the center-offset coordinates within tablet bounds.
	// Nil means the area has not been positioned yet.
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	// Ratio is an optional width/height hint for locked-ratio editing.
	Ratio *float64 `json:"ratio,omitempty"`

	// Radius is the corner rounding percentage, 0-100.
	Radius int `json:"radius"`

	// TabletW and TabletH are the tablet physical dimensions for the snapshot.
	TabletW *float64 `json:"tabletW,omitempty"`
	TabletH *float64 `json:"tabletH,omitempty"`

	// PresetInfo is a literal label or an "i18n:<key>" indirection.
	PresetInfo string `json:"presetInfo,omitempty"`

	// Title is user text or an "i18n:<key>" indirection, stored verbatim.
	Title string `json:"title"`

	// Description is free-form user text.
	Description string `json:"description"`

	// CreatedAt and LastModified are epoch-millisecond timestamps.
	CreatedAt    int64 `json:"createdAt"`
	LastModified int64 `json:"lastModified"`
}

// FormValues is the set of visualizer form inputs a favorite can be loaded
// into or saved from: geometry, tablet dimensions, and preset label.
type FormValues struct {
	Width      float64
	Height     float64
	X          *float64
	Y          *float64
	Ratio      *float64
	Radius     int
	TabletW    *float64
	TabletH    *float64
	PresetInfo string
}

// Snapshot captures a record's editable fields for cancel-to-restore.
type Snapshot struct {
	FormValues
	Title       string
	Description string
}

// Patch carries a shallow field update; nil fields are left unchanged.
type Patch struct {
	Width       *float64
	Height      *float64
	X           *float64
	Y           *float64
	Ratio       *float64
	Radius      *int
	TabletW     *float64
	TabletH     *float64
	PresetInfo  *string
	Title       *string
	Description *string
}

// ToFormValues extracts the visualizer form fields from a record.
func (r Record) ToFormValues() FormValues {
	return FormValues{
		Width:      r.Width,
		Height:     r.Height,
		X:          clonePtr(r.X),
		Y:          clonePtr(r.Y),
		Ratio:      clonePtr(r.Ratio),
		Radius:     r.Radius,
		TabletW:    clonePtr(r.TabletW),
		TabletH:    clonePtr(r.TabletH),
		PresetInfo: r.PresetInfo,
	}
}

// ToSnapshot captures the editable fields for an edit session.
func (r Record) ToSnapshot() Snapshot {
	return Snapshot{
		FormValues:  r.ToFormValues(),
		Title:       r.Title,
		Description: r.Description,
	}
}

// Apply merges the set fields of a patch into the record.
func (r *Record) Apply(p Patch) {
	if p.Width != nil {
		r.Width = *p.Width
	}
	if p.Height != nil {
		r.Height = *p.Height
	}
	if p.X != nil {
		r.X = clonePtr(p.X)
	}
	if p.Y != nil {
		r.Y = clonePtr(p.Y)
	}
	if p.Ratio != nil {
		r.Ratio = clonePtr(p.Ratio)
	}
	if p.Radius != nil {
		r.Radius = *p.Radius
	}
	if p.TabletW != nil {
		r.TabletW = clonePtr(p.TabletW)
	}
	if p.TabletH != nil {
		r.TabletH = clonePtr(p.TabletH)
	}
	if p.PresetInfo != nil {
		r.PresetInfo = *p.PresetInfo
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
}

// IsZero reports whether the patch carries no field at all.
func (p Patch) IsZero() bool {
	return p.Width == nil && p.Height == nil && p.X == nil && p.Y == nil &&
		p.Ratio == nil && p.Radius == nil && p.TabletW == nil && p.TabletH == nil &&
		p.PresetInfo == nil && p.Title == nil && p.Description == nil
}

// Clone returns a deep copy; pointer fields are re-allocated so the copy
// can be handed out without exposing cached data.
func (r Record) Clone() Record {
	c := r
	c.X = clonePtr(r.X)
	c.Y = clonePtr(r.Y)
	c.Ratio = clonePtr(r.Ratio)
	c.TabletW = clonePtr(r.TabletW)
	c.TabletH = clonePtr(r.TabletH)
	return c
}

// CloneAll deep-copies a record slice.
func CloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
