package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/kv"
)

func TestAddRoundTrip(t *testing.T) {
	s, _, clk := newTestStore(t)
	ctx := context.Background()

	input := AddInput{
		Width:       floatPtr(60),
		Height:      floatPtr(40),
		X:           floatPtr(30),
		Y:           floatPtr(20),
		Ratio:       floatPtr(1.5),
		Radius:      10,
		TabletW:     floatPtr(216),
		TabletH:     floatPtr(135),
		PresetInfo:  "i18n:wacom.intuos_pro_m",
		Title:       "my area",
		Description: "left half",
	}

	added, err := s.Add(ctx, input)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !strings.HasPrefix(added.ID, "fav_") {
		t.Errorf("ID = %q, want generated fav_ id", added.ID)
	}
	wantMillis := clk.Now().UnixMilli()
	if added.CreatedAt != wantMillis || added.LastModified != wantMillis {
		t.Errorf("timestamps = %d/%d, want %d", added.CreatedAt, added.LastModified, wantMillis)
	}

	rec, err := s.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.Width != 60 || rec.Height != 40 {
		t.Errorf("dimensions = %vx%v, want 60x40", rec.Width, rec.Height)
	}
	if rec.X == nil || *rec.X != 30 || rec.Y == nil || *rec.Y != 20 {
		t.Errorf("position = %v/%v, want 30/20", rec.X, rec.Y)
	}
	if rec.Ratio == nil || *rec.Ratio != 1.5 {
		t.Errorf("Ratio = %v, want 1.5", rec.Ratio)
	}
	if rec.Radius != 10 {
		t.Errorf("Radius = %d, want 10", rec.Radius)
	}
	if rec.TabletW == nil || *rec.TabletW != 216 || rec.TabletH == nil || *rec.TabletH != 135 {
		t.Errorf("tablet = %v/%v, want 216/135", rec.TabletW, rec.TabletH)
	}
	if rec.PresetInfo != input.PresetInfo {
		t.Errorf("PresetInfo = %q, want %q", rec.PresetInfo, input.PresetInfo)
	}
	if rec.Title != "my area" || rec.Description != "left half" {
		t.Errorf("title/description = %q/%q", rec.Title, rec.Description)
	}
}

func TestAddDefaultsMissingDimensions(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, AddInput{Height: floatPtr(-5)})
	if err != nil {
		t.Fatalf("Add() error = %v, want defaulted success", err)
	}
	if added.Width != 0 {
		t.Errorf("Width = %v, want defaulted 0", added.Width)
	}
	if added.Height != 0 {
		t.Errorf("Height = %v, want negative clamped to 0", added.Height)
	}
}

func TestAddSanitizesInput(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	longTitle := strings.Repeat("a", 40)
	added, err := s.Add(ctx, AddInput{
		Width: floatPtr(10), Height: floatPtr(10),
		Radius: 250,
		Title:  longTitle,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if added.Radius != 100 {
		t.Errorf("Radius = %d, want clamped 100", added.Radius)
	}
	if got := len([]rune(added.Title)); got != 32 {
		t.Errorf("title runes = %d, want 32", got)
	}
}

func TestAddPersistFailure(t *testing.T) {
	flaky := &flakyBackend{Memory: kv.NewMemory(), setErr: errPersistFailed}
	s, err := New(Options{Backend: flaky})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	_, err = s.Add(ctx, AddInput{Width: floatPtr(10), Height: floatPtr(10)})
	if err == nil {
		t.Fatal("Add() error = nil, want storage failure")
	}
	if !errors.Is(err, errors.ErrStorageUnavailable) {
		t.Errorf("Add() error = %v, want STORAGE_UNAVAILABLE", err)
	}
	if got := s.Count(ctx); got != 0 {
		t.Errorf("Count() after failed add = %d, want 0", got)
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	s, _, clk := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, AddInput{
		Width: floatPtr(60), Height: floatPtr(40), Title: "before",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	before := added.LastModified

	clk.Advance(2 * time.Second)

	updated, err := s.Update(ctx, added.ID, favorite.Patch{Title: strPtr("x")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "x" {
		t.Errorf("Title = %q, want x", updated.Title)
	}

	rec, err := s.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.Title != "x" {
		t.Errorf("Title = %q, want x", rec.Title)
	}
	if rec.ID != added.ID || rec.Width != 60 || rec.Height != 40 {
		t.Errorf("identity fields changed: id=%q w=%v h=%v", rec.ID, rec.Width, rec.Height)
	}
	if rec.LastModified <= before {
		t.Errorf("LastModified = %d, want > %d", rec.LastModified, before)
	}
	if rec.CreatedAt != added.CreatedAt {
		t.Errorf("CreatedAt changed: %d -> %d", added.CreatedAt, rec.CreatedAt)
	}
}

func TestUpdateByCanonicalID(t *testing.T) {
	s, mem, _ := newTestStore(t)
	ctx := context.Background()

	stored := `[{"id":"7","width":10,"height":10,"createdAt":1,"lastModified":1}]`
	if err := mem.Set(ctx, DefaultStorageKey, stored); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Update(ctx, "07", favorite.Patch{Title: strPtr("renamed")}); err != nil {
		t.Fatalf("Update(canonical spelling) error = %v", err)
	}
	rec, err := s.GetByID(ctx, "7")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.Title != "renamed" {
		t.Errorf("Title = %q, want renamed", rec.Title)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.Update(context.Background(), "missing", favorite.Patch{Title: strPtr("x")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Update() error = %v, want NOT_FOUND", err)
	}
}

func TestUpdateEmptyPatch(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, AddInput{Width: floatPtr(10), Height: floatPtr(10)})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	_, err = s.Update(ctx, added.ID, favorite.Patch{})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Update(empty patch) error = %v, want INVALID_REQUEST", err)
	}
}

func TestUpdateSanitizes(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, AddInput{Width: floatPtr(10), Height: floatPtr(10)})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	updated, err := s.Update(ctx, added.ID, favorite.Patch{
		Width:  floatPtr(-5),
		Radius: intPtr(500),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Width != 0 {
		t.Errorf("Width = %v, want negative clamped to 0", updated.Width)
	}
	if updated.Radius != 100 {
		t.Errorf("Radius = %d, want clamped 100", updated.Radius)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, AddInput{Width: floatPtr(10), Height: floatPtr(10)})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.Remove(ctx, added.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := s.GetByID(ctx, added.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID() after remove error = %v, want NOT_FOUND", err)
	}

	// A second remove of the same id also succeeds.
	if err := s.Remove(ctx, added.ID); err != nil {
		t.Fatalf("Remove(absent) error = %v", err)
	}
	if _, err := s.GetByID(ctx, added.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID() after second remove error = %v, want NOT_FOUND", err)
	}
}

func TestRemovePersistsRemainder(t *testing.T) {
	s, mem, _ := newTestStore(t)
	ctx := context.Background()

	// Remove on an empty store still persists the (empty) remainder.
	if err := s.Remove(ctx, "anything"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	value, ok, err := mem.Get(ctx, DefaultStorageKey)
	if err != nil || !ok {
		t.Fatalf("backend read = ok=%v, err=%v", ok, err)
	}
	if value != "[]" {
		t.Errorf("persisted remainder = %q, want []", value)
	}
}

func TestRemoveByCanonicalID(t *testing.T) {
	s, mem, _ := newTestStore(t)
	ctx := context.Background()

	stored := `[{"id":"7","width":10,"height":10,"createdAt":1,"lastModified":1}]`
	if err := mem.Set(ctx, DefaultStorageKey, stored); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(ctx, "07"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := s.Count(ctx); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}
