package buildplan

import (
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/platebatch/internal/batch"
	"github.com/philipparndt/platebatch/internal/cache"
	"github.com/philipparndt/platebatch/internal/gcode"
	"github.com/philipparndt/platebatch/internal/models"
	"github.com/philipparndt/platebatch/internal/slicer"
	"github.com/philipparndt/platebatch/internal/ui"
	log "github.com/sirupsen/logrus"
)

// Options are the inputs of a batch run
type Options struct {
	ConfigPath string
	// Padding overrides the configured padding when set
	Padding *float64
	// CacheBackend overrides the configured cache backend when set
	CacheBackend string
	// NoSlice fails instead of running the slicer for uncached models
	NoSlice bool
	// Margin is an extra gap in mm between packed items
	Margin float64
	// Placements adds item positions to the report
	Placements bool
	// Output receives the report; defaults to stdout
	Output io.Writer
	// SlicerOutput receives the slicer's own output; defaults to stdout/stderr
	SlicerOutput io.Writer
}

// Context holds shared data between build steps of one run
type Context struct {
	Options Options
	Log     *log.Entry

	Config *models.YamlConfig
	Cache  cache.Cache
	Slicer *slicer.Slicer
	// Models lists the model files of each printer, sorted by name
	Models  map[string][]string
	Index   *gcode.Index
	Groups  []batch.Group
	Batches []models.Batch
}

// BuildStep represents a single step in the build plan
type BuildStep interface {
	Name() string
	Execute(ctx *Context) error
}

// BuildPlan contains all steps of a batch run and the state they share
type BuildPlan struct {
	Steps   []BuildStep
	context *Context
}

// Planner creates build plans
type Planner struct{}

// NewPlanner creates a new build planner
func NewPlanner() *Planner {
	return &Planner{}
}

// CreatePlan creates the plan that slices, measures, packs and reports
func (p *Planner) CreatePlan(opts Options, logger *log.Entry) (*BuildPlan, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("no configuration file given")
	}
	if opts.Margin < 0 {
		return nil, fmt.Errorf("margin must not be negative (got %g)", opts.Margin)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	plan := &BuildPlan{
		context: &Context{
			Options: opts,
			Log:     logger,
			Models:  make(map[string][]string),
			Index:   gcode.NewIndex(),
		},
	}

	plan.Steps = append(plan.Steps,
		&LoadConfigStep{},
		&CheckPreconditionsStep{},
		&DiscoverModelsStep{},
		&SliceModelsStep{},
		&ExtractDurationsStep{},
		&MeasureFootprintsStep{},
		&PackBatchesStep{},
		&ReportStep{},
	)

	return plan, nil
}

// Context returns the state shared by the plan's steps
func (p *BuildPlan) Context() *Context {
	return p.context
}

// Execute runs all steps in the plan, stopping at the first error
func (p *BuildPlan) Execute() error {
	ctx := p.context
	defer func() {
		if ctx.Cache != nil {
			if err := ctx.Cache.Close(); err != nil {
				ctx.Log.WithError(err).Warn("Failed to close cache")
			}
		}
	}()

	if ui.IsVerbose() {
		ui.PrintTitle("Build Plan Execution")
		ui.PrintInfo(fmt.Sprintf("Total steps: %d", len(p.Steps)))
		ui.PrintSeparator()
	}

	for i, step := range p.Steps {
		if ui.IsVerbose() {
			ui.PrintHeader(fmt.Sprintf("Step %d/%d: %s", i+1, len(p.Steps), step.Name()))
		}
		ctx.Log.WithField("step", step.Name()).Debug("Running step")
		if err := step.Execute(ctx); err != nil {
			ctx.Log.WithField("step", step.Name()).WithError(err).Debug("Step failed")
			return err
		}
	}

	return nil
}

// pluralize returns "s" if count != 1, empty string otherwise
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
