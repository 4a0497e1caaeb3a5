package favorite

import "strconv"

// DisplayTitle resolves the string a surface should show for a record:
// the title (translating indirections), falling back to the preset label,
// falling back to a shortened id.
func DisplayTitle(r Record, tr Translator) string {
	if r.Title != "" {
		return ParseDisplayText(r.Title).Resolve(tr)
	}
	if r.PresetInfo != "" {
		return ParseDisplayText(r.PresetInfo).Resolve(tr)
	}
	return ShortID(r.ID)
}

// DisplayPreset resolves the preset label for display.
func DisplayPreset(r Record, tr Translator) string {
	return ParseDisplayText(r.PresetInfo).Resolve(tr)
}

// ShortID returns a truncated id form for display.
func ShortID(id string) string {
	if len(id) > 10 {
		return id[:10] + "..."
	}
	return id
}

// FormatDimensions renders "WxH" with the given decimal precision.
func FormatDimensions(r Record, decimals int) string {
	return strconv.FormatFloat(r.Width, 'f', decimals, 64) + "x" +
		strconv.FormatFloat(r.Height, 'f', decimals, 64)
}

// Area returns width*height in square millimeters.
func Area(r Record) float64 {
	return r.Width * r.Height
}
