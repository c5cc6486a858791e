package models

// Cache backends
const (
	CacheFile = "file"
	CacheBolt = "bolt"
)

// YamlConfig represents the platebatch.yaml configuration
type YamlConfig struct {
	ModelsDir string           `yaml:"models_dir"`
	Slicer    string           `yaml:"slicer"`
	Padding   float64          `yaml:"padding"`
	Cache     CacheConfig      `yaml:"cache"`
	Printers  []PrinterProfile `yaml:"printers"`
}

// CacheConfig selects where sliced G-code is kept between runs
type CacheConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

// Printer returns the profile for key, or false if it is not configured
func (c *YamlConfig) Printer(key string) (PrinterProfile, bool) {
	for _, p := range c.Printers {
		if p.Key == key {
			return p, true
		}
	}
	return PrinterProfile{}, false
}
