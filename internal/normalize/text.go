// Package normalize coerces raw table cells into canonical record fields.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rerite/openscience-explorer/internal/record"
)

// ErrInvalidCoordinate is returned when an embedding coordinate is missing
// or not a finite number.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// placeholders are cell values that stand for a missing value.
var placeholders = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
}

// IsMissing reports whether a cell holds no value.
func IsMissing(s string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(s))]
}

// Text trims a cell and maps placeholder values to "".
func Text(s string) string {
	if IsMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// Year returns the cell as text, dropping a float suffix such as "2020.0"
// left behind by spreadsheet exports.
func Year(s string) string {
	s = Text(s)
	if whole, frac, ok := strings.Cut(s, "."); ok && strings.Trim(frac, "0") == "" {
		if _, err := strconv.Atoi(whole); err == nil {
			return whole
		}
	}
	return s
}

// Topic returns the topic label, or the Unknown bucket when it is missing.
func Topic(s string) string {
	if t := Text(s); t != "" {
		return t
	}
	return record.UnknownTopic
}

// Coordinate parses a finite embedding coordinate.
func Coordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return 0, fmt.Errorf("%w: missing", ErrInvalidCoordinate)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return v, nil
}

// Bool coerces a boolean-like cell. Missing values are false; values that
// are neither recognizably true nor false count as true when non-empty.
func Bool(s string) bool {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return false
	}
	switch strings.ToLower(s) {
	case "yes", "y":
		return true
	case "no", "n":
		return false
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}
	return true
}
