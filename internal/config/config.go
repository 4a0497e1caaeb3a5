package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/kv"
)

// Config holds application configuration.
type Config struct {
	// Backend selects the storage backend: sqlite (default), file, memory.
	Backend string `json:"backend,omitempty"`

	// BaseDir overrides the data directory. The config file itself is always
	// read from the default location (~/.padfav); this only moves the data.
	BaseDir string `json:"base_dir,omitempty"`

	// StorageKey is the backend key the favorites array is persisted under.
	StorageKey string `json:"storage_key,omitempty"`

	// Language selects the locale for i18n: indirections (en, de, es, fr, ja, zh).
	Language string `json:"language,omitempty"`

	// DefaultSort is the ordering applied when none is requested:
	// date, name, size, modified.
	DefaultSort string `json:"default_sort,omitempty"`

	// LogLevel is the minimum level written: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat is text or json.
	LogFormat string `json:"log_format,omitempty"`

	// Timings carries the delay and throttle intervals in milliseconds.
	Timings Timings `json:"timings,omitempty"`

	// Formatting carries decimal precision for rendered dimensions.
	Formatting Formatting `json:"formatting,omitempty"`

	// CacheTTLMinutes is how long a cached read stays valid before the next
	// read goes back to the backend. 0 means the default (5).
	CacheTTLMinutes int `json:"cache_ttl_minutes,omitempty"`

	// Web configures the web panel listener.
	Web Web `json:"web,omitempty"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside ~/.padfav/exports require either being in this list or
	// AllowUnsafePaths=true. Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// When true, any directory is allowed (but symlink and extension checks
	// still apply). Use with caution: enables file read/write outside
	// ~/.padfav/exports.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`
}

// Timings holds the delay and throttle intervals, all in milliseconds.
type Timings struct {
	// AutosaveDelayMs is the quiet window before edited details are committed.
	AutosaveDelayMs int `json:"autosave_delay_ms,omitempty"`

	// RefreshDelayMs is the pause before a list refresh after a mutation.
	RefreshDelayMs int `json:"refresh_delay_ms,omitempty"`

	// DisplayThrottleMs limits how often the area display re-renders.
	DisplayThrottleMs int `json:"display_throttle_ms,omitempty"`

	// ResizeThrottleMs limits how often resize events are handled.
	ResizeThrottleMs int `json:"resize_throttle_ms,omitempty"`
}

// Formatting holds decimal precision for rendered values. Pointers so an
// explicit 0 survives the merge (0 decimals is a valid setting).
type Formatting struct {
	// DefaultDecimals is the precision for dimensions (default 1).
	DefaultDecimals *int `json:"default_decimals,omitempty"`

	// CoordinateDecimals is the precision for offsets (default 1).
	CoordinateDecimals *int `json:"coordinate_decimals,omitempty"`
}

// Web holds the web panel settings.
type Web struct {
	// Addr is the listen address (default 127.0.0.1:8532).
	Addr string `json:"addr,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	one := 1
	coord := 1
	return &Config{
		Backend:     kv.KindSQLite,
		StorageKey:  "tabletFavorites",
		Language:    "en",
		DefaultSort: string(favorite.DefaultCriterion),
		LogLevel:    "info",
		LogFormat:   "text",
		Timings: Timings{
			AutosaveDelayMs:   600,
			RefreshDelayMs:    100,
			DisplayThrottleMs: 16,
			ResizeThrottleMs:  100,
		},
		Formatting: Formatting{
			DefaultDecimals:    &one,
			CoordinateDecimals: &coord,
		},
		CacheTTLMinutes: 5,
		Web:             Web{Addr: "127.0.0.1:8532"},
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.padfav.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, return zero config
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for set scalars; arrays are merged and
// deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Backend = mergeString(base.Backend, overlay.Backend)
	result.BaseDir = mergeString(base.BaseDir, overlay.BaseDir)
	result.StorageKey = mergeString(base.StorageKey, overlay.StorageKey)
	result.Language = mergeString(base.Language, overlay.Language)
	result.DefaultSort = mergeString(base.DefaultSort, overlay.DefaultSort)
	result.LogLevel = mergeString(base.LogLevel, overlay.LogLevel)
	result.LogFormat = mergeString(base.LogFormat, overlay.LogFormat)

	result.Timings = Timings{
		AutosaveDelayMs:   mergeInt(base.Timings.AutosaveDelayMs, overlay.Timings.AutosaveDelayMs),
		RefreshDelayMs:    mergeInt(base.Timings.RefreshDelayMs, overlay.Timings.RefreshDelayMs),
		DisplayThrottleMs: mergeInt(base.Timings.DisplayThrottleMs, overlay.Timings.DisplayThrottleMs),
		ResizeThrottleMs:  mergeInt(base.Timings.ResizeThrottleMs, overlay.Timings.ResizeThrottleMs),
	}

	result.Formatting = Formatting{
		DefaultDecimals:    mergeIntPtr(base.Formatting.DefaultDecimals, overlay.Formatting.DefaultDecimals),
		CoordinateDecimals: mergeIntPtr(base.Formatting.CoordinateDecimals, overlay.Formatting.CoordinateDecimals),
	}

	result.CacheTTLMinutes = mergeInt(base.CacheTTLMinutes, overlay.CacheTTLMinutes)
	result.Web = Web{Addr: mergeString(base.Web.Addr, overlay.Web.Addr)}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)

	return result
}

// Validate checks enum fields and interval ranges. Call on a merged config;
// an unmerged overlay has legitimate zero values.
func (c *Config) Validate() error {
	switch c.Backend {
	case kv.KindSQLite, kv.KindFile, kv.KindMemory:
	default:
		return fmt.Errorf("unknown backend %q (valid: sqlite, file, memory)", c.Backend)
	}

	if !favorite.Criterion(c.DefaultSort).IsValid() {
		return fmt.Errorf("unknown default_sort %q (valid: date, name, size, modified)", c.DefaultSort)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (valid: text, json)", c.LogFormat)
	}

	timings := map[string]int{
		"timings.autosave_delay_ms":   c.Timings.AutosaveDelayMs,
		"timings.refresh_delay_ms":    c.Timings.RefreshDelayMs,
		"timings.display_throttle_ms": c.Timings.DisplayThrottleMs,
		"timings.resize_throttle_ms":  c.Timings.ResizeThrottleMs,
	}
	for field, value := range timings {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", field, value)
		}
	}

	for field, value := range map[string]*int{
		"formatting.default_decimals":    c.Formatting.DefaultDecimals,
		"formatting.coordinate_decimals": c.Formatting.CoordinateDecimals,
	} {
		if value != nil && (*value < 0 || *value > 6) {
			return fmt.Errorf("%s must be between 0 and 6, got %d", field, *value)
		}
	}

	if c.CacheTTLMinutes < 0 {
		return fmt.Errorf("cache_ttl_minutes must not be negative, got %d", c.CacheTTLMinutes)
	}

	return nil
}

// DefaultDecimals returns the dimension precision, falling back to 1.
func (c *Config) DefaultDecimals() int {
	if c.Formatting.DefaultDecimals != nil {
		return *c.Formatting.DefaultDecimals
	}
	return 1
}

// CoordinateDecimals returns the offset precision, falling back to 1.
func (c *Config) CoordinateDecimals() int {
	if c.Formatting.CoordinateDecimals != nil {
		return *c.Formatting.CoordinateDecimals
	}
	return 1
}

// mergeString returns overlay when set, else base.
func mergeString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeInt returns overlay when non-zero, else base.
func mergeInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeIntPtr returns overlay when set, else base.
func mergeIntPtr(base, overlay *int) *int {
	if overlay != nil {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
