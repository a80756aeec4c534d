package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/inkjournal/pkg/core"
)

const cacheVersion = 1

// indexEntry is the cached listing view of a single record file.
type indexEntry struct {
	Summary      core.Summary `json:"summary"`
	LastModified time.Time    `json:"lastModified"`
}

// index represents the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // Key is the record file name (e.g. "<id>.json")
	dirty   bool
	mu      sync.RWMutex
}

// cache manages the loading, updating, and saving of the summary index.
type cache struct {
	Path   string // Path to .inkjournal/index.json
	index  *index
	loaded bool
}

// newCache initializes a cache at {root}/{systemDir}/index.json.
func newCache(root, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(root, systemDir, "index.json"),
		index: &index{
			Version: cacheVersion,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk once. A missing or corrupt file yields an
// empty index so the cache heals itself on the next Save.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if c.loaded {
		return nil
	}
	c.loaded = true

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(data, c.index); err != nil || c.index.Version != cacheVersion {
		c.index.Version = cacheVersion
		c.index.Entries = make(map[string]*indexEntry)
		c.index.dirty = true
		return nil
	}
	if c.index.Entries == nil {
		c.index.Entries = make(map[string]*indexEntry)
	}

	c.index.dirty = false
	return nil
}

// Save persists the cache to disk if it's dirty.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()

	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}

	if err := WriteFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()

	return nil
}

// Get retrieves an entry if it exists and matches the file's mtime.
func (c *cache) Get(name string, currentMtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[name]
	if !ok || !entry.LastModified.Equal(currentMtime) {
		return nil, false
	}
	return entry, true
}

// Set updates an entry in the cache.
func (c *cache) Set(name string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[name] = entry
	c.index.dirty = true
}

// Prune removes entries that are not in the keep set.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for name := range c.index.Entries {
		if !keep[name] {
			delete(c.index.Entries, name)
			c.index.dirty = true
		}
	}
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(name string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if _, ok := c.index.Entries[name]; ok {
		delete(c.index.Entries, name)
		c.index.dirty = true
	}
}

// Snapshot returns the mtimes of all cached entries.
func (c *cache) Snapshot() map[string]time.Time {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	out := make(map[string]time.Time, len(c.index.Entries))
	for name, e := range c.index.Entries {
		out[name] = e.LastModified
	}
	return out
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
