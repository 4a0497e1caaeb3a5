package geometry

import (
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   float64
		want  float64
	}{
		{
			name:  "plain float",
			input: "60.5",
			def:   0,
			want:  60.5,
		},
		{
			name:  "integer form",
			input: "40",
			def:   0,
			want:  40,
		},
		{
			name:  "surrounding whitespace",
			input: "  12.5  ",
			def:   0,
			want:  12.5,
		},
		{
			name:  "negative",
			input: "-3.25",
			def:   0,
			want:  -3.25,
		},
		{
			name:  "empty falls back",
			input: "",
			def:   7,
			want:  7,
		},
		{
			name:  "garbage falls back",
			input: "abc",
			def:   7,
			want:  7,
		},
		{
			name:  "NaN falls back",
			input: "NaN",
			def:   1,
			want:  1,
		},
		{
			name:  "Inf falls back",
			input: "+Inf",
			def:   2,
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFloat(tt.input, tt.def)
			if got != tt.want {
				t.Errorf("ParseFloat(%q, %v) = %v, want %v", tt.input, tt.def, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   int
		want  int
	}{
		{
			name:  "plain int",
			input: "10",
			def:   0,
			want:  10,
		},
		{
			name:  "float truncates toward zero",
			input: "10.9",
			def:   0,
			want:  10,
		},
		{
			name:  "negative float truncates toward zero",
			input: "-10.9",
			def:   0,
			want:  -10,
		},
		{
			name:  "empty falls back",
			input: "",
			def:   5,
			want:  5,
		},
		{
			name:  "garbage falls back",
			input: "x10",
			def:   5,
			want:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInt(tt.input, tt.def)
			if got != tt.want {
				t.Errorf("ParseInt(%q, %d) = %d, want %d", tt.input, tt.def, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		v, min, max   float64
		want          float64
	}{
		{
			name: "inside range",
			v:    5, min: 0, max: 10,
			want: 5,
		},
		{
			name: "below min",
			v:    -1, min: 0, max: 10,
			want: 0,
		},
		{
			name: "above max",
			v:    11, min: 0, max: 10,
			want: 10,
		},
		{
			name: "at boundary",
			v:    10, min: 0, max: 10,
			want: 10,
		},
		{
			name: "inverted range collapses to midpoint",
			v:    3, min: 110, max: 106,
			want: 108,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.v, tt.min, tt.max)
			if got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(150, 0, 100); got != 100 {
		t.Errorf("ClampInt(150, 0, 100) = %d, want 100", got)
	}
	if got := ClampInt(-5, 0, 100); got != 0 {
		t.Errorf("ClampInt(-5, 0, 100) = %d, want 0", got)
	}
	if got := ClampInt(42, 0, 100); got != 42 {
		t.Errorf("ClampInt(42, 0, 100) = %d, want 42", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		decimals int
		want     float64
	}{
		{
			name: "one decimal",
			v:    12.34, decimals: 1,
			want: 12.3,
		},
		{
			name: "rounds half away from zero",
			v:    12.25, decimals: 1,
			want: 12.3,
		},
		{
			name: "zero decimals",
			v:    12.6, decimals: 0,
			want: 13,
		},
		{
			name: "negative decimals treated as zero",
			v:    12.6, decimals: -1,
			want: 13,
		},
		{
			name: "two decimals",
			v:    0.125, decimals: 2,
			want: 0.13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round(tt.v, tt.decimals)
			if got != tt.want {
				t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.decimals, got, tt.want)
			}
		})
	}
}
