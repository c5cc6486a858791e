package batch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/philipparndt/platebatch/internal/gcode"
	"github.com/philipparndt/platebatch/internal/geometry"
	"github.com/philipparndt/platebatch/internal/models"
	log "github.com/sirupsen/logrus"
)

// ErrUnplaceableFootprint is returned when a job is larger than its printer's bed
var ErrUnplaceableFootprint = errors.New("footprint does not fit the bed")

// Packer assigns the jobs of one printer to as few bed-sized batches as it can
type Packer struct {
	// Margin is an extra gap in mm kept between neighbouring items
	Margin float64
	// Log receives debug output; nil uses the standard logger
	Log *log.Entry
}

// NewPacker creates a packer with no extra margin
func NewPacker() *Packer {
	return &Packer{}
}

type bin struct {
	packer *geometry.GuillotinePacker
	jobs   []models.Job
	placed []models.Placement
}

// Pack places every job on a bed of the given profile and returns the batches
// in the order they were opened. The whole pass fails if any job cannot fit
// an empty bed or has no print time in the index.
func (p *Packer) Pack(profile models.PrinterProfile, jobs []models.Job, index *gcode.Index) ([]models.Batch, error) {
	for _, job := range jobs {
		if !profile.Bed.Fits(job.Footprint) {
			return nil, fmt.Errorf("%w: %s (%s) on %s bed %s",
				ErrUnplaceableFootprint, job.Name, job.Footprint, profile.Key, profile.Bed)
		}
	}

	logger := p.Log
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	var bins []*bin
	for _, job := range order(jobs) {
		w, h := job.Footprint.Length, job.Footprint.Width

		target := -1
		bestLeftover := 0.0
		for i, b := range bins {
			leftover, ok := b.packer.Score(w, h)
			if ok && (target < 0 || leftover < bestLeftover) {
				target = i
				bestLeftover = leftover
			}
		}

		if target < 0 {
			bins = append(bins, &bin{
				packer: geometry.NewGuillotinePacker(profile.Bed.Width, profile.Bed.Height, p.Margin),
			})
			target = len(bins) - 1
			logger.WithFields(log.Fields{"printer": profile.Key, "batch": len(bins)}).Debug("Opened batch")
		}

		b := bins[target]
		r, ok := b.packer.Insert(w, h)
		if !ok {
			// Fits was checked above, so an empty bin always takes the item
			return nil, fmt.Errorf("%w: %s (%s) on %s bed %s",
				ErrUnplaceableFootprint, job.Name, job.Footprint, profile.Key, profile.Bed)
		}
		b.jobs = append(b.jobs, job)
		b.placed = append(b.placed, models.Placement{Job: job.Name, X: r.X, Y: r.Y})
	}

	batches := make([]models.Batch, 0, len(bins))
	for i, b := range bins {
		duration, err := aggregate(profile.Key, b.jobs, index)
		if err != nil {
			return nil, err
		}
		batches = append(batches, models.Batch{
			Printer:    profile.Key,
			Index:      i + 1,
			Bed:        profile.Bed,
			Jobs:       b.jobs,
			Placements: b.placed,
			Duration:   duration,
		})
		logger.WithFields(log.Fields{
			"printer":   profile.Key,
			"batch":     i + 1,
			"jobs":      len(b.jobs),
			"occupancy": fmt.Sprintf("%.0f%%", b.packer.Occupancy()*100),
		}).Debug("Packed batch")
	}

	return batches, nil
}

// Group is the job set of one printer
type Group struct {
	Profile models.PrinterProfile
	Jobs    []models.Job
}

// Plan packs each group in the given order and concatenates the batches
func (p *Packer) Plan(groups []Group, index *gcode.Index) ([]models.Batch, error) {
	var all []models.Batch
	for _, g := range groups {
		batches, err := p.Pack(g.Profile, g.Jobs, index)
		if err != nil {
			return nil, err
		}
		all = append(all, batches...)
	}
	return all, nil
}

// TotalDuration sums the durations of all batches
func TotalDuration(batches []models.Batch) int {
	total := 0
	for _, b := range batches {
		total += b.Duration
	}
	return total
}

// order sorts a copy of jobs by aspect ratio, then area (both descending),
// then file name
func order(jobs []models.Job) []models.Job {
	sorted := make([]models.Job, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Footprint, sorted[j].Footprint
		if a.Ratio() != b.Ratio() {
			return a.Ratio() > b.Ratio()
		}
		if a.Area() != b.Area() {
			return a.Area() > b.Area()
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// aggregate sets each job's duration from the index and returns their sum
func aggregate(printer string, jobs []models.Job, index *gcode.Index) (int, error) {
	total := 0
	for i := range jobs {
		seconds, err := index.Lookup(printer, jobs[i].Name)
		if err != nil {
			return 0, err
		}
		jobs[i].Duration = seconds
		total += seconds
	}
	return total, nil
}
