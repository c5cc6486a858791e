package buildplan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/platebatch/internal/batch"
	"github.com/philipparndt/platebatch/internal/cache"
	"github.com/philipparndt/platebatch/internal/config"
	"github.com/philipparndt/platebatch/internal/gcode"
	"github.com/philipparndt/platebatch/internal/geometry"
	"github.com/philipparndt/platebatch/internal/models"
	"github.com/philipparndt/platebatch/internal/preconditions"
	"github.com/philipparndt/platebatch/internal/report"
	"github.com/philipparndt/platebatch/internal/slicer"
	"github.com/philipparndt/platebatch/internal/ui"
	log "github.com/sirupsen/logrus"
)

// LoadConfigStep loads the configuration and applies command line overrides
type LoadConfigStep struct{}

func (s *LoadConfigStep) Name() string {
	return "Load configuration"
}

func (s *LoadConfigStep) Execute(ctx *Context) error {
	opts := ctx.Options
	cfg, err := config.NewLoader().Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.Padding != nil {
		if *opts.Padding < 0 {
			return fmt.Errorf("padding must not be negative (got %g)", *opts.Padding)
		}
		cfg.Padding = *opts.Padding
	}

	if opts.CacheBackend != "" && opts.CacheBackend != cfg.Cache.Backend {
		cfg.Cache.Backend = opts.CacheBackend
		if cfg.Cache.Backend == models.CacheBolt && cfg.Cache.Path == "" {
			configDir, err := filepath.Abs(filepath.Dir(opts.ConfigPath))
			if err != nil {
				return fmt.Errorf("failed to get absolute path of config directory: %w", err)
			}
			cfg.Cache.Path = filepath.Join(configDir, config.DefaultBoltPath)
		}
	}

	ctx.Config = cfg
	ui.PrintSuccess(fmt.Sprintf("Loaded configuration with %d printer%s", len(cfg.Printers), pluralize(len(cfg.Printers))))

	if ui.IsVerbose() {
		for _, p := range cfg.Printers {
			mode := p.TimeMode
			if mode == "" {
				mode = "any"
			}
			ui.PrintItem(fmt.Sprintf("%s: bed %s mm, %s, time mode %s", p.Key, p.Bed, filepath.Base(p.ConfigFile), mode))
		}
		ui.PrintKeyValue("Padding", fmt.Sprintf("%g mm", cfg.Padding))
		ui.PrintKeyValue("Cache", cfg.Cache.Backend)
	}
	return nil
}

// CheckPreconditionsStep checks the models tree and, when slicing, the slicer
type CheckPreconditionsStep struct{}

func (s *CheckPreconditionsStep) Name() string {
	return "Check preconditions"
}

func (s *CheckPreconditionsStep) Execute(ctx *Context) error {
	if err := preconditions.Check(ctx.Config, !ctx.Options.NoSlice); err != nil {
		return fmt.Errorf("precondition failed: %w", err)
	}
	if ui.IsVerbose() {
		ui.PrintSuccess("✓ Preconditions met")
	}
	return nil
}

// DiscoverModelsStep lists <models_dir>/<printer>/*.stl|*.3mf for every printer
type DiscoverModelsStep struct{}

func (s *DiscoverModelsStep) Name() string {
	return "Discover models"
}

func (s *DiscoverModelsStep) Execute(ctx *Context) error {
	total := 0
	for _, printer := range ctx.Config.Printers {
		files, err := DiscoverModels(filepath.Join(ctx.Config.ModelsDir, printer.Key))
		if err != nil {
			return err
		}
		ctx.Models[printer.Key] = files
		total += len(files)
		if len(files) == 0 {
			ui.PrintWarning(fmt.Sprintf("No models found for printer %s", printer.Key))
		}

		ctx.Log.WithFields(log.Fields{"printer": printer.Key, "models": len(files)}).Debug("Discovered models")
		if ui.IsVerbose() {
			for _, f := range files {
				ui.PrintItem(fmt.Sprintf("%s/%s", printer.Key, filepath.Base(f)))
			}
		}
	}

	ui.PrintSuccess(fmt.Sprintf("Found %d model%s", total, pluralize(total)))
	return nil
}

// DiscoverModels returns the model files directly inside dir, sorted by name
func DiscoverModels(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list models in %s: %w", dir, err)
	}

	// os.ReadDir sorts by file name
	var files []string
	for _, e := range entries {
		if e.IsDir() || !geometry.IsModelFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// SliceModelsStep makes sure every model has sliced G-code in the cache
type SliceModelsStep struct{}

func (s *SliceModelsStep) Name() string {
	return "Slice models"
}

func (s *SliceModelsStep) Execute(ctx *Context) error {
	c, err := cache.Open(ctx.Config.Cache, ctx.Log)
	if err != nil {
		return err
	}
	ctx.Cache = c

	if !ctx.Options.NoSlice {
		ctx.Slicer = slicer.New(ctx.Config.Slicer)
		ctx.Slicer.Log = ctx.Log
		if w := ctx.Options.SlicerOutput; w != nil {
			ctx.Slicer.Stdout = w
			ctx.Slicer.Stderr = w
		}
	}

	type pending struct {
		profile models.PrinterProfile
		key     cache.Key
	}
	var todo []pending
	for _, printer := range ctx.Config.Printers {
		for _, model := range ctx.Models[printer.Key] {
			key := cache.Key{Printer: printer.Key, Model: model}
			cached, err := c.HasCachedOutput(key)
			if err != nil {
				return err
			}
			if cached {
				ctx.Log.WithField("model", key.String()).Debug("Using cached G-code")
				continue
			}
			if ctx.Options.NoSlice {
				return fmt.Errorf("no cached G-code for %s and slicing is disabled", key)
			}
			todo = append(todo, pending{printer, key})
		}
	}

	if len(todo) == 0 {
		ui.PrintSuccess("All models already sliced")
		return nil
	}

	ui.PrintInfo(fmt.Sprintf("Slicing %d model%s...", len(todo), pluralize(len(todo))))
	for i, p := range todo {
		data, err := ctx.Slicer.Slice(p.profile, p.key.Model)
		if err != nil {
			return err
		}
		if err := c.WriteOutput(p.key, data); err != nil {
			return err
		}
		ui.PrintProgress(i+1, len(todo), p.key.Name())
		if ui.IsVerbose() {
			ui.PrintItem(fmt.Sprintf("✓ %s", p.key))
		}
	}

	ui.PrintSuccess(fmt.Sprintf("Sliced %d model%s", len(todo), pluralize(len(todo))))
	return nil
}

// ExtractDurationsStep fills the print-time index from the cached G-code
type ExtractDurationsStep struct{}

func (s *ExtractDurationsStep) Name() string {
	return "Extract print times"
}

func (s *ExtractDurationsStep) Execute(ctx *Context) error {
	for _, printer := range ctx.Config.Printers {
		for _, model := range ctx.Models[printer.Key] {
			key := cache.Key{Printer: printer.Key, Model: model}
			data, err := ctx.Cache.ReadOutput(key)
			if err != nil {
				return err
			}

			seconds, err := gcode.ExtractDuration(bytes.NewReader(data), printer.TimeMode)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			ctx.Index.Add(printer.Key, key.Name(), seconds)
			ctx.Log.WithFields(log.Fields{"model": key.String(), "seconds": seconds}).Debug("Extracted print time")
		}
	}

	ui.PrintSuccess(fmt.Sprintf("Extracted %d print time%s", ctx.Index.Len(), pluralize(ctx.Index.Len())))
	return nil
}

// MeasureFootprintsStep turns every model into a job with its padded footprint
type MeasureFootprintsStep struct{}

func (s *MeasureFootprintsStep) Name() string {
	return "Measure footprints"
}

func (s *MeasureFootprintsStep) Execute(ctx *Context) error {
	provider := geometry.NewFootprintProvider(ctx.Config.Padding)

	ctx.Groups = nil
	for _, printer := range ctx.Config.Printers {
		group := batch.Group{Profile: printer}
		for _, model := range ctx.Models[printer.Key] {
			fp, err := provider.Footprint(model)
			if err != nil {
				return err
			}

			name := filepath.Base(model)
			seconds, err := ctx.Index.Lookup(printer.Key, name)
			if err != nil {
				return err
			}
			group.Jobs = append(group.Jobs, models.Job{
				Name:      name,
				Printer:   printer.Key,
				Path:      model,
				Footprint: fp,
				Duration:  seconds,
			})

			if ui.IsVerbose() {
				ui.PrintItem(fmt.Sprintf("%s/%s: %s mm", printer.Key, name, fp))
			}
		}
		ctx.Groups = append(ctx.Groups, group)
	}
	return nil
}

// PackBatchesStep packs each printer's jobs into batches
type PackBatchesStep struct{}

func (s *PackBatchesStep) Name() string {
	return "Pack batches"
}

func (s *PackBatchesStep) Execute(ctx *Context) error {
	packer := &batch.Packer{Margin: ctx.Options.Margin, Log: ctx.Log}
	batches, err := packer.Plan(ctx.Groups, ctx.Index)
	if err != nil {
		return err
	}
	ctx.Batches = batches

	ui.PrintSuccess(fmt.Sprintf("Packed into %d batch%s", len(batches), pluralizeES(len(batches))))
	return nil
}

// ReportStep writes the batch report
type ReportStep struct{}

func (s *ReportStep) Name() string {
	return "Report"
}

func (s *ReportStep) Execute(ctx *Context) error {
	fmt.Fprintln(ctx.Options.Output)
	r := report.NewRenderer(ctx.Options.Output)
	r.Placements = ctx.Options.Placements
	if err := r.Render(ctx.Batches); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func pluralizeES(count int) string {
	if count == 1 {
		return ""
	}
	return "es"
}
