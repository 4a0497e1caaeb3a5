package favorite

import "strings"

// TranslationPrefix marks a stored string as a translation-key indirection.
const TranslationPrefix = "i18n:"

// DefaultNameKey is the translation key new favorites carry as their title
// until the user renames them.
const DefaultNameKey = "favorites.defaultName"

// DefaultTitle is the stored form of the default title.
const DefaultTitle = TranslationPrefix + DefaultNameKey

// Translator resolves translation keys. Implementations return the key
// unchanged when no translation exists.
type Translator interface {
	Translate(key string) string
}

// DisplayText is a stored display string parsed into its tagged form:
// either a literal or a reference to a translation key. The raw string is
// what gets persisted; parsing happens only at render/compare boundaries.
type DisplayText struct {
	raw string
}

// ParseDisplayText wraps a raw stored string.
func ParseDisplayText(raw string) DisplayText {
	return DisplayText{raw: raw}
}

// IsRef reports whether the value is a translation-key indirection.
func (d DisplayText) IsRef() bool {
	return strings.HasPrefix(d.raw, TranslationPrefix)
}

// Key returns the translation key for a reference, or "" for a literal.
func (d DisplayText) Key() string {
	if !d.IsRef() {
		return ""
	}
	return strings.TrimPrefix(d.raw, TranslationPrefix)
}

// Raw returns the stored form.
func (d DisplayText) Raw() string {
	return d.raw
}

// Resolve produces the display string: literals pass through, references
// go through the translator.
func (d DisplayText) Resolve(tr Translator) string {
	if !d.IsRef() {
		return d.raw
	}
	if tr == nil {
		return d.Key()
	}
	return tr.Translate(d.Key())
}
