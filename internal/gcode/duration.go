// Package gcode reads print-time estimates out of sliced G-code.
package gcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrDurationNotFound is returned when G-code carries no print-time estimate,
// or when the print-time index has no entry for a job.
var ErrDurationNotFound = errors.New("duration not found")

// ErrDurationOutOfRange is returned for an estimate too large to count in seconds
var ErrDurationOutOfRange = errors.New("duration out of range")

var (
	// "; estimated printing time (normal mode) = 1d 2h 3m 4s"
	annotationRegexp = regexp.MustCompile(`^;\s*estimated printing time\s*(?:\(([^)]*)\))?\s*=(.*)$`)
	componentsRegexp = regexp.MustCompile(`^\s*(?:(\d+)d)?\s*(?:(\d+)h)?\s*(?:(\d+)m)?\s*(?:(\d+)s)?`)
)

const maxLineLength = 1024 * 1024

// ExtractDuration scans G-code for the first estimated printing time line and
// returns it in seconds. mode restricts the match to "<mode> mode" labels;
// an empty mode accepts any label.
func ExtractDuration(r io.Reader, mode string) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for scanner.Scan() {
		match := annotationRegexp.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		if mode != "" && !strings.EqualFold(strings.TrimSpace(match[1]), mode+" mode") {
			continue
		}
		return parseComponents(match[2])
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("error reading G-code: %w", err)
	}

	return 0, ErrDurationNotFound
}

// ExtractDurationString is ExtractDuration over an in-memory G-code text
func ExtractDurationString(text, mode string) (int, error) {
	return ExtractDuration(strings.NewReader(text), mode)
}

// ExtractDurationFile is ExtractDuration over a G-code file
func ExtractDurationFile(path, mode string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	seconds, err := ExtractDuration(file, mode)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return seconds, nil
}

// parseComponents turns "1d 2h 3m 4s" (any part optional) into seconds.
// A value without any recognised component yields 0.
func parseComponents(value string) (int, error) {
	match := componentsRegexp.FindStringSubmatch(value)
	if match == nil {
		return 0, nil
	}

	total := 0
	for i, unit := range []int{86400, 3600, 60, 1} {
		if match[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i+1])
		if err != nil || n > (math.MaxInt-total)/unit {
			return 0, fmt.Errorf("%w: %q", ErrDurationOutOfRange, strings.TrimSpace(value))
		}
		total += n * unit
	}
	return total, nil
}
