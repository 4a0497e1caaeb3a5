// Package i18n resolves translation keys against embedded locale catalogs.
// Stored favorites reference keys through the i18n: indirection; resolution
// happens only when a surface renders them.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/padfav/padfav/internal/favorite"
)

//go:embed locales/*.toml
var localeFS embed.FS

// DefaultLanguage is the fallback locale and the one guaranteed complete.
const DefaultLanguage = "en"

// DefaultNameKey is the translation key new favorites carry as their title
// until the user renames them.
const DefaultNameKey = favorite.DefaultNameKey

// Catalog resolves keys for one language with English fallback. The
// language is fixed at construction; build another Catalog to switch.
type Catalog struct {
	language string
	tables   map[string]map[string]string // language -> dotted key -> text
}

var _ favorite.Translator = (*Catalog)(nil)

// New parses the embedded locales and returns a catalog for lang.
// An unknown or empty lang falls back to English.
func New(lang string) (*Catalog, error) {
	tables, err := loadLocales(localeFS)
	if err != nil {
		return nil, err
	}
	c := &Catalog{language: DefaultLanguage, tables: tables}
	if _, ok := tables[lang]; ok {
		c.language = lang
	}
	return c, nil
}

// Language returns the active language code.
func (c *Catalog) Language() string {
	return c.language
}

// Languages lists the shipped locales, sorted.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.tables))
	for lang := range c.tables {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Translate resolves key through the active language, then English.
// Untranslated keys come back unchanged.
func (c *Catalog) Translate(key string) string {
	if text, ok := c.lookup(c.language, key); ok {
		return text
	}
	if text, ok := c.lookup(DefaultLanguage, key); ok {
		return text
	}
	return key
}

// TranslateWithFallback resolves key, returning fallback when no locale
// has it.
func (c *Catalog) TranslateWithFallback(key, fallback string) string {
	if text, ok := c.lookup(c.language, key); ok {
		return text
	}
	if text, ok := c.lookup(DefaultLanguage, key); ok {
		return text
	}
	return fallback
}

// DefaultNameVariants returns every shipped translation of the default
// favorite name, deduplicated, in stable order. Surfaces use it to
// recognize an unchanged default title regardless of the language it was
// rendered in.
func (c *Catalog) DefaultNameVariants() []string {
	seen := make(map[string]bool)
	variants := make([]string, 0, len(c.tables))
	for _, lang := range c.Languages() {
		if text, ok := c.lookup(lang, DefaultNameKey); ok && !seen[text] {
			seen[text] = true
			variants = append(variants, text)
		}
	}
	return variants
}

func (c *Catalog) lookup(lang, key string) (string, bool) {
	table, ok := c.tables[lang]
	if !ok {
		return "", false
	}
	text, ok := table[key]
	return text, ok
}

// loadLocales parses every embedded locale file into a flat dotted-key
// table, keyed by the filename's language code.
func loadLocales(fsys fs.FS) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(fsys, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	tables := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".toml") {
			continue
		}

		data, err := fs.ReadFile(fsys, "locales/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", name, err)
		}

		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", name, err)
		}

		flat := make(map[string]string)
		flatten("", doc, flat)
		tables[strings.TrimSuffix(name, ".toml")] = flat
	}

	return tables, nil
}

// flatten walks nested tables into dotted keys, keeping string leaves.
func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		}
	}
}
