package cache

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

// BoltCache keeps all G-code in one bbolt database: a bucket per printer,
// one entry per model file name. Each entry starts with the SHA-256 of the
// model it was sliced from, so editing a model invalidates its entry.
type BoltCache struct {
	// Log receives debug output; it defaults to the standard logger
	Log *log.Entry

	db *bolt.DB
}

// OpenBoltCache opens (or creates) the database at path
func OpenBoltCache(path string) (*BoltCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("cannot open cache %s: %w", path, err)
	}

	return &BoltCache{Log: log.NewEntry(log.StandardLogger()), db: db}, nil
}

func (c *BoltCache) HasCachedOutput(key Key) (bool, error) {
	sum, err := modelHash(key.Model)
	if err != nil {
		return false, err
	}

	found := false
	err = c.db.View(func(tx *bolt.Tx) error {
		value := get(tx, key)
		found = value != nil && bytes.Equal(value[:sha256.Size], sum)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("cannot look up cached output for %s: %w", key, err)
	}

	if !found {
		c.Log.WithField("model", key.String()).Debug("Cache miss")
	}
	return found, nil
}

func (c *BoltCache) ReadOutput(key Key) ([]byte, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		value := get(tx, key)
		if value == nil {
			return fmt.Errorf("no cached output")
		}
		// Values are only valid inside the transaction
		data = append([]byte(nil), value[sha256.Size:]...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot read cached output for %s: %w", key, err)
	}
	return data, nil
}

func (c *BoltCache) WriteOutput(key Key, data []byte) error {
	sum, err := modelHash(key.Model)
	if err != nil {
		return err
	}

	value := make([]byte, 0, len(sum)+len(data))
	value = append(value, sum...)
	value = append(value, data...)

	err = c.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(key.Printer))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key.Name()), value)
	})
	if err != nil {
		return fmt.Errorf("cannot write cached output for %s: %w", key, err)
	}
	return nil
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}

// get returns the raw entry for key, or nil when it is missing or too short
// to carry a hash
func get(tx *bolt.Tx, key Key) []byte {
	bucket := tx.Bucket([]byte(key.Printer))
	if bucket == nil {
		return nil
	}
	value := bucket.Get([]byte(key.Name()))
	if len(value) < sha256.Size {
		return nil
	}
	return value
}

func modelHash(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot hash model: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("cannot hash model: %w", err)
	}
	return h.Sum(nil), nil
}
