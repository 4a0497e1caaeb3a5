package favorite

const (
	// TitleMaxRunes is the title cap applied to literal titles.
	TitleMaxRunes = 32

	// DescriptionMaxRunes is the description cap.
	DescriptionMaxRunes = 144
)

// TruncateRunes cuts s to at most max runes (not bytes).
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// LimitTitle applies the title cap. Translation-key indirections are never
// truncated; the raw key must survive intact to stay resolvable.
func LimitTitle(title string) string {
	if ParseDisplayText(title).IsRef() {
		return title
	}
	return TruncateRunes(title, TitleMaxRunes)
}

// LimitDescription applies the description cap.
func LimitDescription(description string) string {
	return TruncateRunes(description, DescriptionMaxRunes)
}
