package favorite

import (
	"crypto/rand"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const idSuffixLen = 7

const idSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// idStampRegex extracts the embedded creation millis of a generated id.
var idStampRegex = regexp.MustCompile(`^fav_(\d+)_[0-9a-z]+$`)

// intStringRegex matches a plain decimal integer.
var intStringRegex = regexp.MustCompile(`^-?\d+$`)

// NewID generates a favorite id of the form fav_<epochMillis>_<suffix>,
// where the suffix is 7 random lowercase base36 characters.
func NewID(now time.Time) string {
	buf := make([]byte, idSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		// Time-derived suffix when crypto/rand is unavailable.
		return fmt.Sprintf("fav_%d_%07d", now.UnixMilli(), now.Nanosecond()%10000000)
	}
	suffix := make([]byte, idSuffixLen)
	for i, b := range buf {
		suffix[i] = idSuffixAlphabet[int(b)%len(idSuffixAlphabet)]
	}
	return fmt.Sprintf("fav_%d_%s", now.UnixMilli(), suffix)
}

// CanonicalID normalizes an id for comparison: whitespace is trimmed and
// numeric spellings of the same value ("7", "07", "7.0", a JSON number)
// collapse to one canonical decimal form. Non-numeric ids pass through
// trimmed.
func CanonicalID(id string) string {
	s := strings.TrimSpace(id)
	if s == "" {
		return ""
	}
	if intStringRegex.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

// CreationStamp returns the numeric creation-order proxy for a record:
// the millis embedded in a generated id, else a wholly numeric id's value,
// else createdAt, else 0.
func (r Record) CreationStamp() int64 {
	if m := idStampRegex.FindStringSubmatch(r.ID); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return n
		}
	}
	s := CanonicalID(r.ID)
	if intStringRegex.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	if r.CreatedAt > 0 {
		return r.CreatedAt
	}
	return 0
}
