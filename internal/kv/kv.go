// Package kv provides the key-value storage backends the favorites store
// persists into. A backend maps string keys to string payloads; callers
// decide what the payload encodes. Backend errors are plain errors, the
// store layer maps them into the user-facing taxonomy.
package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend is the persistence contract. Implementations must be safe for
// concurrent use.
type Backend interface {
	// Get returns the value for key. The second return is false when the
	// key is absent; err is reserved for backend failures.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindSQLite = "sqlite"
	KindFile   = "file"
	KindMemory = "memory"
)

// Open constructs the backend named by kind, rooted at baseDir. An empty
// kind selects SQLite.
func Open(kind, baseDir string) (Backend, error) {
	switch kind {
	case KindSQLite, "":
		return OpenSQLite(baseDir)
	case KindFile:
		if err := prepareBaseDir(baseDir); err != nil {
			return nil, err
		}
		return OpenFile(filepath.Join(baseDir, "favorites.json"))
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// prepareBaseDir creates the data directory and its exports subdirectory
// with restricted permissions.
func prepareBaseDir(baseDir string) error {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	exportsDir := filepath.Join(baseDir, "exports")
	if err := os.MkdirAll(exportsDir, 0700); err != nil {
		return fmt.Errorf("failed to create exports directory: %w", err)
	}
	_ = os.Chmod(exportsDir, 0700)

	return nil
}

// ExportsDir returns the default directory for export files under baseDir.
func ExportsDir(baseDir string) string {
	return filepath.Join(baseDir, "exports")
}
