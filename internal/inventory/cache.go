package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MetadataDirName is the fixed subdirectory of the scanned root that holds
// one cached inventory JSON document per source file for the duration of a
// run.
const MetadataDirName = "apimesh_file_information"

// pathSeparatorSentinel replaces path separators in cache file names. The
// substitution is reversible because the sentinel cannot occur in a path
// separator position.
const pathSeparatorSentinel = "_q_"

// MetadataFileName derives the cache file name for a source path: separators
// become the sentinel sequence and the source extension becomes .json.
func MetadataFileName(filePath string) string {
	sanitized := strings.ReplaceAll(filePath, "/", pathSeparatorSentinel)
	sanitized = strings.ReplaceAll(sanitized, "\\", pathSeparatorSentinel)
	ext := filepath.Ext(sanitized)
	return strings.TrimSuffix(sanitized, ext) + ".json"
}

// Cache persists inventories under <root>/apimesh_file_information and keeps
// them in memory for the snapshot handed to the concurrent phase. It is
// written single-threaded during the initial walk, strictly before any
// endpoint worker starts.
type Cache struct {
	dir     string
	entries map[string]*FileInventory
}

// NewCache creates the metadata directory beneath rootDir.
func NewCache(rootDir string) (*Cache, error) {
	dir := filepath.Join(rootDir, MetadataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create metadata dir: %w", err)
	}
	return &Cache{
		dir:     dir,
		entries: make(map[string]*FileInventory),
	}, nil
}

// Dir returns the on-disk location of the cache.
func (c *Cache) Dir() string { return c.dir }

// Put stores one inventory in memory and on disk.
func (c *Cache) Put(inv *FileInventory) error {
	c.entries[inv.FilePath] = inv

	data, err := json.MarshalIndent(inv, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal inventory for %s: %w", inv.FilePath, err)
	}
	target := filepath.Join(c.dir, MetadataFileName(inv.FilePath))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write inventory for %s: %w", inv.FilePath, err)
	}
	return nil
}

// Load reads one inventory back from disk. It returns false when the file
// was never cached (e.g. its extraction failed during the walk).
func (c *Cache) Load(filePath string) (*FileInventory, bool) {
	data, err := os.ReadFile(filepath.Join(c.dir, MetadataFileName(filePath)))
	if err != nil {
		return nil, false
	}
	var inv FileInventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, false
	}
	return &inv, true
}

// Snapshot returns a read-only view of everything cached so far. The
// snapshot is built once, before the concurrent phase begins, so workers
// need no synchronization around it.
func (c *Cache) Snapshot() *Snapshot {
	byPath := make(map[string]*FileInventory, len(c.entries))
	for path, inv := range c.entries {
		byPath[path] = inv
	}
	return &Snapshot{byPath: byPath}
}

// Remove deletes the on-disk cache. Best effort: the cache is transient and
// a leftover directory is harmless.
func (c *Cache) Remove() {
	os.RemoveAll(c.dir)
}

// Snapshot is an immutable path→inventory map shared by endpoint workers.
type Snapshot struct {
	byPath map[string]*FileInventory
}

// Get looks up the inventory for an absolute file path.
func (s *Snapshot) Get(filePath string) (*FileInventory, bool) {
	inv, ok := s.byPath[filePath]
	return inv, ok
}

// Len returns the number of cached inventories.
func (s *Snapshot) Len() int { return len(s.byPath) }

// NewSnapshot builds a snapshot directly from inventories. Intended for
// tests that exercise the slicer without running the full walk.
func NewSnapshot(inventories ...*FileInventory) *Snapshot {
	byPath := make(map[string]*FileInventory, len(inventories))
	for _, inv := range inventories {
		byPath[inv.FilePath] = inv
	}
	return &Snapshot{byPath: byPath}
}
