// Package cachefile implements the incremental-scan cache: a persisted
// file-hash -> segment-set map that lets a scan skip files whose content
// hasn't changed since the last index run (spec §4.4, §5 "Persisted
// state"). The format is process-local and opaque to consumers.
package cachefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// FileEntry is one cached file's last-seen hash and the segment hashes it
// produced, keyed by block identity ("type:startLine:endLine").
type FileEntry struct {
	FileHash string            `json:"fileHash"`
	Segments map[string]string `json:"segments"` // blockKey -> segmentHash
}

// Cache is a JSON-persisted file-hash cache: a plain map guarded by a
// sync.RWMutex (concurrent reads, exclusive writes), made to survive across
// process runs via an atomic on-disk snapshot.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]FileEntry // filePath -> entry
	path    string
}

// New creates an empty cache bound to path (used by Save/Load).
func New(path string) *Cache {
	return &Cache{entries: make(map[string]FileEntry), path: path}
}

// HashBytes computes the cache's content-hash function: hex-encoded
// xxhash, matching internal/parse's hashing so cache keys and CodeBlock
// hashes are computed identically.
func HashBytes(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

// Unchanged reports whether filePath's cached hash matches currentHash —
// the scanner's skip-unchanged test.
func (c *Cache) Unchanged(filePath, currentHash string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[filePath]
	return ok && entry.FileHash == currentHash
}

// Put records filePath's current hash and per-block segment hashes,
// replacing any prior entry.
func (c *Cache) Put(filePath, fileHash string, segments map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[filePath] = FileEntry{FileHash: fileHash, Segments: segments}
}

// Delete drops filePath's cached entry (used on file removal, and on
// indexFile's "delete all existing nodes for filePath" step).
func (c *Cache) Delete(filePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, filePath)
}

// Clear empties the cache in memory; callers persist with Save.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]FileEntry)
}

// Len returns the number of cached file entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Save persists the cache to its path by writing to a sibling temp file and
// renaming over the destination, so a crash mid-write never leaves a
// corrupt cache file behind (spec §5 "written atomically").
func (c *Cache) Save() error {
	c.mu.RLock()
	data, err := json.Marshal(c.entries)
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".cachefile-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, c.path)
}

// Load reads the cache from its path. A missing file is not an error: it
// means no prior scan exists, so the cache starts empty.
func (c *Cache) Load() error {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries map[string]FileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}
