package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/kong"
	"github.com/philipparndt/platebatch/internal/buildplan"
	"github.com/philipparndt/platebatch/internal/config"
	"github.com/philipparndt/platebatch/internal/inspect"
	"github.com/philipparndt/platebatch/internal/logging"
	"github.com/philipparndt/platebatch/internal/models"
	"github.com/philipparndt/platebatch/internal/ui"
	"github.com/philipparndt/platebatch/version"
	log "github.com/sirupsen/logrus"
)

type CLI struct {
	Verbose bool   `help:"Show every step and debug logging" short:"v"`
	LogFile string `help:"Write log output to this file instead of stderr" name:"log-file" type:"path"`

	Batch      BatchCmd      `cmd:"" help:"Slice models, pack them onto build plates and report print runs"`
	Inspect    InspectCmd    `cmd:"" help:"Show the footprint of a model and which beds it fits"`
	Profiles   ProfilesCmd   `cmd:"" help:"Show the resolved printer configuration"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completion script"`
}

type BatchCmd struct {
	Config     string  `help:"Configuration file" short:"c" default:"platebatch.yaml" type:"path"`
	Padding    float64 `help:"Padding in mm added to every model; negative uses the configured value" default:"-1"`
	Margin     float64 `help:"Extra gap in mm between models on a plate" default:"0"`
	Cache      string  `help:"Cache backend (file or bolt); empty uses the configured backend"`
	NoSlice    bool    `help:"Never run the slicer; every model must have cached G-code" name:"no-slice"`
	Placements bool    `help:"Show model positions in the report"`
}

// Help adds additional help text with examples
func (c *BatchCmd) Help() string {
	return renderBatchHelp()
}

func (c *BatchCmd) Run(logger *log.Entry) error {
	opts := buildplan.Options{
		ConfigPath:   c.Config,
		CacheBackend: c.Cache,
		NoSlice:      c.NoSlice,
		Margin:       c.Margin,
		Placements:   c.Placements,
	}
	if c.Padding >= 0 {
		padding := c.Padding
		opts.Padding = &padding
	}

	plan, err := buildplan.NewPlanner().CreatePlan(opts, logger)
	if err != nil {
		return fmt.Errorf("failed to create build plan: %w", err)
	}
	return plan.Execute()
}

type InspectCmd struct {
	File    string  `arg:"" help:"STL or 3MF file to inspect" type:"path"`
	Config  string  `help:"Configuration file with the printers to check against" short:"c" default:"platebatch.yaml" type:"path"`
	Padding float64 `help:"Padding in mm; negative uses the configured value" default:"-1"`
}

func (c *InspectCmd) Run() error {
	cfg, err := loadOptionalConfig(c.Config)
	if err != nil {
		return err
	}

	padding := 0.0
	var printers []models.PrinterProfile
	if cfg != nil {
		padding = cfg.Padding
		printers = cfg.Printers
	}
	if c.Padding >= 0 {
		padding = c.Padding
	}

	return inspect.NewInspector(padding, printers).Inspect(c.File)
}

// loadOptionalConfig loads path, or returns nil when it does not exist
func loadOptionalConfig(path string) (*models.YamlConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	cfg, err := config.NewLoader().Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

type ProfilesCmd struct {
	Config string `help:"Configuration file" short:"c" default:"platebatch.yaml" type:"path"`
	Plain  bool   `help:"Print without syntax highlighting"`
	Style  string `help:"Highlighting style" default:"monokai"`
}

func (c *ProfilesCmd) Run() error {
	return c.print(os.Stdout)
}

func (c *ProfilesCmd) print(w io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := loader.Marshal(cfg)
	if err != nil {
		return err
	}

	if c.Plain {
		_, err = w.Write(data)
		return err
	}
	return quick.Highlight(w, string(data), "yaml", "terminal256", c.Style)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := version.Get()
	fmt.Println(info.String())
	return nil
}

// Parse parses command line arguments and executes the appropriate command
func Parse() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("platebatch"),
		kong.Description("Slice 3D models and pack them onto as few print runs as possible"),
		kong.UsageOnError(),
	)

	if err := run(ctx, cli); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(ctx *kong.Context, cli *CLI) error {
	ui.SetVerbose(cli.Verbose)
	logger := logging.Setup(os.Stderr, cli.Verbose)
	if cli.LogFile != "" {
		closeLog, err := logging.OpenFile(cli.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()
	}

	if err := ctx.Run(logger); err != nil {
		logger.WithError(err).Debug("Command failed")
		return err
	}
	return nil
}
