// Package geometry provides the numeric parsing, clamping, and unit
// conversion math shared by the area visualizer and the favorites panel.
package geometry

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloat parses s as a float64, returning def when s is empty,
// unparseable, or non-finite.
func ParseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// ParseInt parses s as an int, returning def when s is empty or unparseable.
// Float-form input is truncated toward zero.
func ParseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return int(f)
}

// Clamp limits v to [min, max]. An inverted range (min > max) collapses to
// the midpoint rather than producing an invalid bound.
func Clamp(v, min, max float64) float64 {
	if min > max {
		return (min + max) / 2
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampInt limits v to [min, max].
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Round rounds v to the given number of decimal places.
func Round(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
