package favorite

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Criterion selects the ordering applied by Sort.
type Criterion string

const (
	// CriterionDate orders by creation, newest first. The default.
	CriterionDate Criterion = "date"
	// CriterionName orders by title with locale-aware, case-insensitive
	// comparison, ascending.
	CriterionName Criterion = "name"
	// CriterionSize orders by area, largest first.
	CriterionSize Criterion = "size"
	// CriterionModified orders by last modification, most recent first.
	CriterionModified Criterion = "modified"
)

// DefaultCriterion is used when no criterion is given.
const DefaultCriterion = CriterionDate

// Criteria lists the valid criteria in display order.
func Criteria() []Criterion {
	return []Criterion{CriterionDate, CriterionName, CriterionSize, CriterionModified}
}

// IsValid reports whether the criterion is one of the known values.
func (c Criterion) IsValid() bool {
	switch c {
	case CriterionDate, CriterionName, CriterionSize, CriterionModified:
		return true
	}
	return false
}

// String returns the criterion as a string.
func (c Criterion) String() string {
	return string(c)
}

// ParseCriterion maps a string to a Criterion; unrecognized values fall
// back to the default.
func ParseCriterion(s string) Criterion {
	c := Criterion(s)
	if !c.IsValid() {
		return DefaultCriterion
	}
	return c
}

// Sort returns a new slice ordered by the criterion. The input is never
// mutated and ties keep their relative input order.
func Sort(records []Record, criterion Criterion) []Record {
	if !criterion.IsValid() {
		criterion = DefaultCriterion
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)

	var less func(a, b Record) bool
	switch criterion {
	case CriterionName:
		coll := collate.New(language.Und, collate.IgnoreCase)
		less = func(a, b Record) bool {
			return coll.CompareString(nameKey(a), nameKey(b)) < 0
		}
	case CriterionSize:
		less = func(a, b Record) bool {
			return a.Width*a.Height > b.Width*b.Height
		}
	case CriterionModified:
		less = func(a, b Record) bool {
			return modifiedStamp(a) > modifiedStamp(b)
		}
	default: // CriterionDate
		less = func(a, b Record) bool {
			return a.CreationStamp() > b.CreationStamp()
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// nameKey picks the string the name criterion compares: title, falling
// back to description, falling back to empty.
func nameKey(r Record) string {
	if r.Title != "" {
		return r.Title
	}
	if r.Description != "" {
		return r.Description
	}
	return ""
}

// modifiedStamp is lastModified when present, else the id's numeric
// creation proxy.
func modifiedStamp(r Record) int64 {
	if r.LastModified > 0 {
		return r.LastModified
	}
	return r.CreationStamp()
}
