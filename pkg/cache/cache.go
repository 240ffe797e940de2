// Package cache is a TTL cache for fetched artifacts. Values are stored as
// JSON, lz4 block-compressed, one file per key, with a write-through
// in-memory layer for repeated lookups within a run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const fileSuffix = ".json.lz4"

type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// Cache stores JSON-encodable values under string keys with a fixed TTL.
// A TTL of zero or less never expires.
type Cache struct {
	dir string
	ttl time.Duration

	mu  sync.RWMutex
	mem map[string]entry

	now func() time.Time
}

// New opens a cache rooted at dir, creating it if needed.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}

	return &Cache{dir: dir, ttl: ttl, mem: map[string]entry{}, now: time.Now}, nil
}

// Get unmarshals the cached value for key into out and reports a hit.
// Absent, expired, and corrupt entries miss; corrupt entries are removed.
func (c *Cache) Get(key string, out any) bool {
	c.mu.RLock()
	cached, ok := c.mem[key]
	c.mu.RUnlock()

	if ok && c.fresh(cached) {
		return json.Unmarshal(cached.Value, out) == nil
	}

	path := c.path(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	stored, err := decodeEntry(raw)
	if err != nil {
		_ = os.Remove(path)

		return false
	}

	if !c.fresh(stored) {
		return false
	}

	if json.Unmarshal(stored.Value, out) != nil {
		_ = os.Remove(path)

		return false
	}

	c.mu.Lock()
	c.mem[key] = stored
	c.mu.Unlock()

	return true
}

// Set stores value under key, stamped with the current time.
func (c *Cache) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	stored := entry{StoredAt: c.now(), Value: raw}

	blob, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := writeAtomic(c.dir, c.path(key), encodeBlob(blob)); err != nil {
		return err
	}

	c.mu.Lock()
	c.mem[key] = stored
	c.mu.Unlock()

	return nil
}

// Delete removes key from both layers. Deleting an absent key is not an
// error.
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()

	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete cache entry: %w", err)
	}

	return nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.mem = map[string]entry{}
	c.mu.Unlock()

	paths, err := c.files()
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clear cache: %w", err)
		}
	}

	return nil
}

// Stats summarizes the on-disk state.
type Stats struct {
	// Entries is the total file count, including undecodable leftovers.
	Entries int `json:"entries"`

	// Live entries decode and are within TTL.
	Live int `json:"live"`

	// Expired is everything else.
	Expired int `json:"expired"`
}

// Stats scans the cache directory and classifies every entry.
func (c *Cache) Stats() (Stats, error) {
	paths, err := c.files()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Entries: len(paths)}

	for _, path := range paths {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}

		if stored, decodeErr := decodeEntry(raw); decodeErr == nil && c.fresh(stored) {
			stats.Live++
		}
	}

	stats.Expired = stats.Entries - stats.Live

	return stats, nil
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))

	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+fileSuffix)
}

func (c *Cache) fresh(stored entry) bool {
	if c.ttl <= 0 {
		return true
	}

	return c.now().Before(stored.StoredAt.Add(c.ttl))
}

func (c *Cache) files() ([]string, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read cache dir: %w", err)
	}

	var paths []string

	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() && strings.HasSuffix(dirEntry.Name(), fileSuffix) {
			paths = append(paths, filepath.Join(c.dir, dirEntry.Name()))
		}
	}

	return paths, nil
}

// writeAtomic stages the payload in a temp file and renames it into place so
// concurrent readers never see a partial entry.
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "write-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write cache entry: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("close cache entry: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("store cache entry: %w", err)
	}

	return nil
}
