package i18n

import (
	"reflect"
	"testing"
)

func TestNewUnknownLanguageFallsBack(t *testing.T) {
	c, err := New("xx")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Language() != "en" {
		t.Errorf("Language() = %q, want %q", c.Language(), "en")
	}
}

func TestLanguages(t *testing.T) {
	c, err := New("en")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := []string{"de", "en", "es", "fr", "ja", "zh"}
	if got := c.Languages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Languages() = %v, want %v", got, want)
	}
}

func TestTranslate(t *testing.T) {
	c, err := New("de")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := c.Translate("favorites.defaultName"); got != "Neuer Favorit" {
		t.Errorf("Translate(favorites.defaultName) = %q, want %q", got, "Neuer Favorit")
	}
	// Keys with no translation anywhere come back unchanged
	if got := c.Translate("no.such.key"); got != "no.such.key" {
		t.Errorf("Translate(no.such.key) = %q, want the key itself", got)
	}
}

func TestTranslateFallsBackToEnglish(t *testing.T) {
	c, err := New("de")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Preset labels ship in English only; other locales fall through
	if got := c.Translate("wacom.intuos_pro_m"); got != "Wacom Intuos Pro M" {
		t.Errorf("Translate(wacom.intuos_pro_m) = %q, want English fallback", got)
	}
}

func TestTranslateWithFallback(t *testing.T) {
	c, err := New("fr")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := c.TranslateWithFallback("favorites.added", "x"); got != "Favori ajouté" {
		t.Errorf("TranslateWithFallback(favorites.added) = %q, want %q", got, "Favori ajouté")
	}
	if got := c.TranslateWithFallback("no.such.key", "fallback text"); got != "fallback text" {
		t.Errorf("TranslateWithFallback(no.such.key) = %q, want the fallback", got)
	}
}

func TestDefaultNameVariants(t *testing.T) {
	c, err := New("en")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	variants := c.DefaultNameVariants()
	if len(variants) != 6 {
		t.Fatalf("DefaultNameVariants() length = %d, want 6: %v", len(variants), variants)
	}

	seen := make(map[string]bool)
	for _, v := range variants {
		if seen[v] {
			t.Errorf("DefaultNameVariants() contains duplicate %q", v)
		}
		seen[v] = true
	}
	for _, want := range []string{"New favorite", "Neuer Favorit", "新しいお気に入り"} {
		if !seen[want] {
			t.Errorf("DefaultNameVariants() missing %q", want)
		}
	}
}

func TestAllLocalesCoverCoreKeys(t *testing.T) {
	c, err := New("en")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	coreKeys := []string{
		"favorites.defaultName",
		"favorites.added",
		"favorites.deleted",
		"favorites.deleteConfirm",
		"sort.date",
		"sort.name",
		"sort.size",
		"sort.modified",
		"form.width",
		"form.height",
	}

	for _, lang := range c.Languages() {
		for _, key := range coreKeys {
			if _, ok := c.lookup(lang, key); !ok {
				t.Errorf("locale %s missing key %s", lang, key)
			}
		}
	}
}
