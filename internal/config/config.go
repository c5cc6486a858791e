package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/platebatch/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is looked up in the working directory when no --config is given
	DefaultFile = "platebatch.yaml"
	// DefaultBoltPath is the bolt cache location, relative to the config file
	DefaultBoltPath = ".platebatch/gcode.db"

	defaultModelsDir = "stl"
)

// Loader handles loading and validating YAML configuration files
type Loader struct{}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a YAML configuration file
func (l *Loader) Load(configPath string) (*models.YamlConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := l.Parse(data)
	if err != nil {
		return nil, err
	}

	if err := l.Validate(config, configPath); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Convert relative paths to absolute paths (relative to config file)
	absConfigDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of config directory: %w", err)
	}

	config.ModelsDir = resolve(absConfigDir, config.ModelsDir)
	config.Cache.Path = resolve(absConfigDir, config.Cache.Path)
	for i := range config.Printers {
		config.Printers[i].ConfigFile = resolve(absConfigDir, config.Printers[i].ConfigFile)
	}

	return config, nil
}

// Parse decodes YAML and applies defaults without touching the filesystem
func (l *Loader) Parse(data []byte) (*models.YamlConfig, error) {
	var config models.YamlConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.ModelsDir == "" {
		config.ModelsDir = defaultModelsDir
	}
	if config.Cache.Backend == "" {
		config.Cache.Backend = models.CacheFile
	}
	if config.Cache.Backend == models.CacheBolt && config.Cache.Path == "" {
		config.Cache.Path = DefaultBoltPath
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (l *Loader) Validate(config *models.YamlConfig, configPath string) error {
	if len(config.Printers) == 0 {
		return fmt.Errorf("at least one printer must be defined")
	}

	if config.Padding < 0 {
		return fmt.Errorf("padding must not be negative (got %g)", config.Padding)
	}

	switch config.Cache.Backend {
	case models.CacheFile, models.CacheBolt:
	default:
		return fmt.Errorf("unknown cache backend %q (use %q or %q)", config.Cache.Backend, models.CacheFile, models.CacheBolt)
	}

	configDir := filepath.Dir(configPath)
	seen := make(map[string]bool)
	for i, printer := range config.Printers {
		if err := l.validatePrinter(printer, i, configDir); err != nil {
			return err
		}
		if seen[printer.Key] {
			return fmt.Errorf("printer %s: defined more than once", printer.Key)
		}
		seen[printer.Key] = true
	}

	return nil
}

// validatePrinter validates a single printer profile
func (l *Loader) validatePrinter(printer models.PrinterProfile, index int, configDir string) error {
	if printer.Key == "" {
		return fmt.Errorf("printer %d: key is required", index)
	}

	if printer.Bed.Width <= 0 || printer.Bed.Height <= 0 {
		return fmt.Errorf("printer %s: bed width and height must be positive (got %s)", printer.Key, printer.Bed)
	}

	switch printer.TimeMode {
	case "", "normal", "silent":
	default:
		return fmt.Errorf("printer %s: time_mode must be normal or silent (got %q)", printer.Key, printer.TimeMode)
	}

	if printer.ConfigFile == "" {
		return fmt.Errorf("printer %s: config is required", printer.Key)
	}

	filePath := printer.ConfigFile
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(configDir, filePath)
	}
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("printer %s: slicer config not found: %s", printer.Key, printer.ConfigFile)
	}

	return nil
}

// Marshal renders the configuration back to YAML
func (l *Loader) Marshal(config *models.YamlConfig) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
