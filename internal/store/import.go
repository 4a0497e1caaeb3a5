package store

import (
	"context"
	"fmt"
	"io"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
)

// maxImportSize bounds how much import data is read from a file.
const maxImportSize = 16 << 20 // 16 MiB

// ImportResult contains the outcome of an import.
type ImportResult struct {
	Added    int `json:"added"`
	Replaced int `json:"replaced"`
	Repaired int `json:"repaired"`
	Total    int `json:"total"`
}

// ImportAll merges records parsed from data into the collection: ids
// already present are overwritten by the imported record, new ids are
// appended. Missing ids and timestamps are synthesized. The existing
// data is mutated only when the input parses.
func (s *Store) ImportAll(ctx context.Context, data string) (*ImportResult, error) {
	incoming, repairs, err := favorite.DecodeImport([]byte(data), s.now())
	if err != nil {
		return nil, errors.NewParseFailure(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	merged := favorite.CloneAll(records)
	index := make(map[string]int, len(merged))
	for i := range merged {
		index[favorite.CanonicalID(merged[i].ID)] = i
	}

	result := &ImportResult{Repaired: len(repairs)}
	for _, rec := range incoming {
		if i, ok := index[favorite.CanonicalID(rec.ID)]; ok {
			merged[i] = rec
			result.Replaced++
			continue
		}
		index[favorite.CanonicalID(rec.ID)] = len(merged)
		merged = append(merged, rec)
		result.Added++
	}

	if err := s.persist(ctx, merged); err != nil {
		return nil, err
	}
	result.Total = len(merged)

	if len(repairs) > 0 {
		s.log.Warn("imported favorites needed repair", "repairs", len(repairs))
		for _, note := range repairs {
			s.log.Debug("import repair", "note", note)
		}
	}
	s.log.Info("favorites imported", "added", result.Added, "replaced", result.Replaced)
	return result, nil
}

// ImportFileInput contains parameters for ImportFromFile.
type ImportFileInput struct {
	Path string // required
}

// ImportFromFile reads an export file and merges its records into the
// collection with ImportAll semantics.
func (s *Store) ImportFromFile(ctx context.Context, input ImportFileInput) (*ImportResult, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if err := s.validatePath(input.Path, pathCheckRead); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > maxImportSize {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import file exceeds %d bytes", maxImportSize))
	}

	return s.ImportAll(ctx, string(data))
}
