package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotSchemaVersion invalidates every cached snapshot when the
// on-disk layout changes.
const snapshotSchemaVersion = 1

// ExportSnapshot is a module's exported interface rendered to plain
// data: the values an importer can see with their types, and the
// exposed type names. Content-addressed, so a matching digest means the
// interface is known without re-analysis.
type ExportSnapshot struct {
	ModuleName string            `msgpack:"module"`
	Values     map[string]string `msgpack:"values"`
	Types      []string          `msgpack:"types"`
}

// SnapshotCache persists export snapshots under a directory, keyed by
// the sha256 digest of the module's source text and the schema version.
type SnapshotCache struct {
	dir string
}

func NewSnapshotCache(dir string) (*SnapshotCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot cache dir: %w", err)
	}
	return &SnapshotCache{dir: dir}, nil
}

// Key derives the content-addressed cache key for a module source.
func Key(src string) string {
	h := sha256.New()
	fmt.Fprintf(h, "v%d\x00", snapshotSchemaVersion)
	h.Write([]byte(src))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *SnapshotCache) path(key string) string {
	return filepath.Join(c.dir, key+".snapshot")
}

// Get loads the snapshot for a source digest. A missing or unreadable
// entry is a cache miss, never an error.
func (c *SnapshotCache) Get(key string) (*ExportSnapshot, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	var snap ExportSnapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// Put stores a snapshot under a source digest. The write lands in a
// uniquely named temp file first and is renamed into place, so a
// concurrent reader never observes a partial entry.
func (c *SnapshotCache) Put(key string, snap *ExportSnapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := filepath.Join(c.dir, key+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}
