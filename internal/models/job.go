package models

import "fmt"

// Footprint is the padded build-plate projection of a model (X by Y, in mm)
type Footprint struct {
	Length float64
	Width  float64
}

// Area returns Length * Width
func (f Footprint) Area() float64 {
	return f.Length * f.Width
}

// Ratio returns the aspect ratio Length / Width
func (f Footprint) Ratio() float64 {
	if f.Width == 0 {
		return 0
	}
	return f.Length / f.Width
}

func (f Footprint) String() string {
	return fmt.Sprintf("%.1fx%.1f", f.Length, f.Width)
}

// Bed is the usable build-plate area of a printer
type Bed struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (b Bed) String() string {
	return fmt.Sprintf("%gx%g", b.Width, b.Height)
}

// Fits reports whether an unrotated footprint fits on the bed
func (b Bed) Fits(f Footprint) bool {
	return f.Length <= b.Width && f.Width <= b.Height
}

// PrinterProfile is a configured printer: slicer settings plus bed capacity
type PrinterProfile struct {
	Key        string `yaml:"key"`
	ConfigFile string `yaml:"config"`
	Bed        Bed    `yaml:"bed"`
	// TimeMode pins the estimate label ("normal" or "silent"); empty accepts any
	TimeMode string `yaml:"time_mode,omitempty"`
}

// Job is one model file assigned to a printer
type Job struct {
	Name      string
	Printer   string
	Path      string
	Footprint Footprint
	Duration  int
}

// Placement is the position of a job inside a batch's bed
type Placement struct {
	Job  string
	X, Y float64
}

// Batch is the set of jobs printed together in one run
type Batch struct {
	Printer    string
	Index      int
	Bed        Bed
	Jobs       []Job
	Placements []Placement
	Duration   int
}

// Names returns the job names in batch order
func (b Batch) Names() []string {
	names := make([]string, len(b.Jobs))
	for i, job := range b.Jobs {
		names[i] = job.Name
	}
	return names
}
