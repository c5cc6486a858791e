package gcode

import "fmt"

type indexKey struct {
	printer string
	file    string
}

// Index maps a job (printer key + model file name) to its estimated duration
type Index struct {
	seconds map[indexKey]int
}

// NewIndex creates an empty print-time index
func NewIndex() *Index {
	return &Index{seconds: make(map[indexKey]int)}
}

// Add records the duration of a job, replacing any previous value
func (i *Index) Add(printer, file string, seconds int) {
	i.seconds[indexKey{printer, file}] = seconds
}

// Lookup returns the duration of a job. A missing job is an error, never zero.
func (i *Index) Lookup(printer, file string) (int, error) {
	seconds, ok := i.seconds[indexKey{printer, file}]
	if !ok {
		return 0, fmt.Errorf("%w for %s/%s", ErrDurationNotFound, printer, file)
	}
	return seconds, nil
}

// Len returns the number of indexed jobs
func (i *Index) Len() int {
	return len(i.seconds)
}
