package gcode

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const prusaTrailer = `G1 X10 Y10 E0.5
M107
; filament used [mm] = 1234.56
; estimated first layer printing time (normal mode) = 55s
; estimated printing time (normal mode) = 2h 15m 30s
; estimated printing time (silent mode) = 2h 22m 3s
; total filament used [g] = 12.34
`

func TestExtractDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		mode     string
		expected int
	}{
		{"hours and minutes", "; estimated printing time (normal mode) = 1h 30m", "", 5400},
		{"all components", "; estimated printing time (normal mode) = 1d 2h 3m 4s", "", 86400 + 7200 + 180 + 4},
		{"seconds only", "; estimated printing time (silent mode) = 42s", "", 42},
		{"days and seconds", "; estimated printing time (normal mode) = 2d 5s", "", 2*86400 + 5},
		{"minutes and seconds", "; estimated printing time (normal mode) = 7m 8s", "", 428},
		{"no mode label", "; estimated printing time = 3h", "", 10800},
		{"malformed value is zero", "; estimated printing time (normal mode) = soon", "", 0},
		{"empty value is zero", "; estimated printing time (normal mode) =", "", 0},
		{"first line wins", prusaTrailer, "", 2*3600 + 15*60 + 30},
		{"silent mode pinned", prusaTrailer, "silent", 2*3600 + 22*60 + 3},
		{"normal mode pinned", prusaTrailer, "normal", 2*3600 + 15*60 + 30},
		{"leading whitespace", "   ; estimated printing time (normal mode) = 10m", "", 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDurationString(tt.input, tt.mode)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ExtractDurationString() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestExtractDurationOutOfRange(t *testing.T) {
	inputs := map[string]string{
		"too many digits": "; estimated printing time (normal mode) = 99999999999999999999s",
		"days overflow":   "; estimated printing time (normal mode) = 9223372036854775807d",
		"sum overflows":   "; estimated printing time (normal mode) = 106751991167300d 23h 59m 59s",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := ExtractDurationString(input, "")
			if !errors.Is(err, ErrDurationOutOfRange) {
				t.Errorf("ExtractDurationString() = %d, %v; want ErrDurationOutOfRange", got, err)
			}
		})
	}
}

func TestExtractDurationNotFound(t *testing.T) {
	inputs := map[string]string{
		"empty":             "",
		"no annotation":     "G28\nG1 X0 Y0\n",
		"first layer only":  "; estimated first layer printing time (normal mode) = 55s\n",
		"other mode pinned": "; estimated printing time (normal mode) = 1h\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			mode := ""
			if name == "other mode pinned" {
				mode = "silent"
			}
			_, err := ExtractDurationString(input, mode)
			if !errors.Is(err, ErrDurationNotFound) {
				t.Errorf("Expected ErrDurationNotFound, got %v", err)
			}
		})
	}
}

func TestExtractDurationLongLines(t *testing.T) {
	// thumbnails and comments can exceed bufio's default token size
	input := "; thumbnail " + strings.Repeat("A", 100*1024) + "\n; estimated printing time (normal mode) = 1m\n"
	got, err := ExtractDurationString(input, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != 60 {
		t.Errorf("Expected 60, got %d", got)
	}
}

func TestExtractDurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part_gcode.gcode")
	if err := os.WriteFile(path, []byte(prusaTrailer), 0o644); err != nil {
		t.Fatalf("Failed to write G-code: %v", err)
	}

	// Re-reading unchanged input gives the same value
	for i := 0; i < 2; i++ {
		got, err := ExtractDurationFile(path, "silent")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != 8523 {
			t.Errorf("Expected 8523, got %d", got)
		}
	}

	if _, err := ExtractDurationFile(filepath.Join(t.TempDir(), "missing.gcode"), ""); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestIndex(t *testing.T) {
	index := NewIndex()
	index.Add("MK3S", "a.stl", 600)
	index.Add("Mini", "a.stl", 100)

	if got, err := index.Lookup("MK3S", "a.stl"); err != nil || got != 600 {
		t.Errorf("Lookup(MK3S, a.stl) = %d, %v", got, err)
	}
	if got, err := index.Lookup("Mini", "a.stl"); err != nil || got != 100 {
		t.Errorf("Lookup(Mini, a.stl) = %d, %v", got, err)
	}

	_, err := index.Lookup("MK3S", "b.stl")
	if !errors.Is(err, ErrDurationNotFound) {
		t.Errorf("Expected ErrDurationNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "MK3S/b.stl") {
		t.Errorf("Error should name the job, got %v", err)
	}

	if index.Len() != 2 {
		t.Errorf("Len() = %d, want 2", index.Len())
	}
}
