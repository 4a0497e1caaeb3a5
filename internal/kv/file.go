package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File stores key-value pairs as a single JSON object on disk. Mutations
// rewrite the file atomically; reads are served from memory.
type File struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
}

// OpenFile loads the store at path, or starts an empty store if the file
// does not exist. Returns an error only on unexpected I/O failures.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Missing file means a fresh store.
			return f, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &f.entries); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	if f.entries == nil {
		f.entries = make(map[string]string)
	}
	return f, nil
}

// Get returns the value stored under key.
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.entries[key]
	return value, ok, nil
}

// Set stores value under key and rewrites the file.
func (f *File) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.entries[key]
	f.entries[key] = value
	if err := f.writeAtomic(); err != nil {
		// Roll back the in-memory state so it matches disk.
		if had {
			f.entries[key] = prev
		} else {
			delete(f.entries, key)
		}
		return err
	}
	return nil
}

// Delete removes key and rewrites the file. Deleting an absent key is a
// no-op.
func (f *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.entries[key]
	if !had {
		return nil
	}
	delete(f.entries, key)
	if err := f.writeAtomic(); err != nil {
		f.entries[key] = prev
		return err
	}
	return nil
}

// Close is a no-op; the file is rewritten on every mutation.
func (f *File) Close() error {
	return nil
}

// writeAtomic writes to a temp file then renames it over path.
// Caller must hold f.mu.
func (f *File) writeAtomic() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
