package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
)

// ExportAll serializes the whole collection as a JSON array string, the
// same layout the backend persists.
func (s *Store) ExportAll(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	data, err := favorite.EncodeCollection(records)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return string(data), nil
}

// ExportFileInput contains parameters for ExportToFile.
type ExportFileInput struct {
	Path string // optional, default: <exportsDir>/favorites-<timestamp>.json
}

// ExportFileOutput contains the result of ExportToFile.
type ExportFileOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportID   string `json:"export_id"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportToFile writes the collection to a versioned export envelope on
// disk. The file is written to a temp path and atomically renamed into
// place so an existing export survives a failed write.
func (s *Store) ExportToFile(ctx context.Context, input ExportFileInput) (*ExportFileOutput, error) {
	now := s.now()
	exportedAt := now.UnixMilli()

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = s.defaultExportPath(now)
		if err != nil {
			return nil, err
		}
	}

	// Validate all paths, including the default, before touching disk.
	if err := s.validatePath(exportPath, pathCheckWrite); err != nil {
		return nil, err
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	s.mu.Lock()
	records, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	records = favorite.CloneAll(records)
	s.mu.Unlock()

	exportID, err := generateULID(now)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate export id: %w", err))
	}

	data, err := favorite.EncodeEnvelope(records, exportID, exportedAt)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Write to temp file first, then atomic rename to preserve any
	// existing file on failure.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	// Clean up temp file on failure (original file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return nil, errors.NewInternal(err)
	}
	if _, err := file.Write([]byte("\n")); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// Check if destination is a symlink (os.Rename would follow it)
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	s.log.Info("favorites exported", "path", exportPath, "count", len(records))
	return &ExportFileOutput{
		Path:       exportPath,
		Count:      len(records),
		ExportID:   exportID,
		ExportedAt: exportedAt,
	}, nil
}

// defaultExportPath generates the default export path.
// Format: <exportsDir>/favorites-<timestamp>.json
func (s *Store) defaultExportPath(now time.Time) (string, error) {
	if s.exportsDir == "" {
		return "", errors.NewInvalidRequest("path is required when no exports directory is configured")
	}
	timestamp := now.Format("2006-01-02T150405")
	return filepath.Join(s.exportsDir, fmt.Sprintf("favorites-%s.json", timestamp)), nil
}

// generateULID generates a new ULID stamped with the given time.
func generateULID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
