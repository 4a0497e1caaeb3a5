package favorite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// SchemaVersion identifies the export envelope layout.
const SchemaVersion = "1"

// Envelope wraps an exported collection with provenance metadata.
type Envelope struct {
	Version    string   `json:"version"`
	ExportID   string   `json:"exportId"`
	ExportedAt int64    `json:"exportedAt"`
	Favorites  []Record `json:"favorites"`
}

// rawEnvelope is the lenient decode form of an envelope.
type rawEnvelope struct {
	Version   string            `json:"version"`
	Favorites []json.RawMessage `json:"favorites"`
}

// EncodeCollection serializes records as the persisted JSON array.
func EncodeCollection(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return sonic.Marshal(records)
}

// DecodeCollection parses a persisted JSON array into records, repairing
// malformed entries: missing ids/timestamps are synthesized, missing
// dimensions default to 0, duplicate ids are reassigned, and unreadable
// elements are dropped. The returned repair notes are non-empty when the
// collection should be re-persisted in its repaired form. The error is
// non-nil only when data is not a JSON array at all.
func DecodeCollection(data []byte, now time.Time) ([]Record, []string, error) {
	var elems []json.RawMessage
	if err := sonic.Unmarshal(data, &elems); err != nil {
		return nil, nil, err
	}
	return decodeElements(elems, now)
}

// DecodeImport parses import input: either an export envelope or a bare
// record array (the persisted layout).
func DecodeImport(data []byte, now time.Time) ([]Record, []string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("empty input")
	}
	if trimmed[0] == '{' {
		var env rawEnvelope
		if err := sonic.Unmarshal(trimmed, &env); err != nil {
			return nil, nil, err
		}
		if env.Favorites == nil {
			return nil, nil, fmt.Errorf("envelope has no favorites array")
		}
		return decodeElements(env.Favorites, now)
	}
	return DecodeCollection(trimmed, now)
}

// EncodeEnvelope serializes an export envelope, indented for file output.
func EncodeEnvelope(records []Record, exportID string, exportedAt int64) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	env := Envelope{
		Version:    SchemaVersion,
		ExportID:   exportID,
		ExportedAt: exportedAt,
		Favorites:  records,
	}
	return sonic.MarshalIndent(env, "", "  ")
}

func decodeElements(elems []json.RawMessage, now time.Time) ([]Record, []string, error) {
	records := make([]Record, 0, len(elems))
	var repairs []string
	seen := make(map[string]bool, len(elems))

	for i, raw := range elems {
		if string(bytes.TrimSpace(raw)) == "null" {
			repairs = append(repairs, fmt.Sprintf("favorites[%d]: dropped null entry", i))
			continue
		}
		var rr rawRecord
		if err := sonic.Unmarshal(raw, &rr); err != nil {
			repairs = append(repairs, fmt.Sprintf("favorites[%d]: dropped unreadable entry", i))
			continue
		}
		rec, reasons := rr.toRecord(now)
		if seen[CanonicalID(rec.ID)] {
			rec.ID = NewID(now)
			reasons = append(reasons, "duplicate id")
		}
		seen[CanonicalID(rec.ID)] = true
		for _, reason := range reasons {
			repairs = append(repairs, fmt.Sprintf("favorites[%d]: %s", i, reason))
		}
		records = append(records, rec)
	}

	return records, repairs, nil
}
