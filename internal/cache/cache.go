// Package cache stores sliced G-code so models are only sliced once.
package cache

import (
	"fmt"
	"path/filepath"

	"github.com/philipparndt/platebatch/internal/models"
	log "github.com/sirupsen/logrus"
)

// Key identifies the sliced output of one model for one printer
type Key struct {
	Printer string
	// Model is the path of the model file
	Model string
}

// Name returns the model file name
func (k Key) Name() string {
	return filepath.Base(k.Model)
}

func (k Key) String() string {
	return k.Printer + "/" + k.Name()
}

// Cache is the sliced output store
type Cache interface {
	HasCachedOutput(key Key) (bool, error)
	ReadOutput(key Key) ([]byte, error)
	WriteOutput(key Key, data []byte) error
	Close() error
}

// Open returns the backend configured in cfg. logger may be nil.
func Open(cfg models.CacheConfig, logger *log.Entry) (Cache, error) {
	switch cfg.Backend {
	case "", models.CacheFile:
		return NewFileCache(), nil
	case models.CacheBolt:
		c, err := OpenBoltCache(cfg.Path)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			c.Log = logger
		}
		c.Log.WithField("path", cfg.Path).Debug("Opened G-code cache")
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
