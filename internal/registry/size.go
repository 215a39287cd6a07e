// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// sizeUnits maps the recognized suffixes to their 1024-based exponent.
// Index 0 is plain bytes.
var sizeUnits = []string{"b", "kb", "mb", "gb", "tb"}

// SizeError indicates a human-readable size string that cannot be parsed.
// It fails the single record refresh that produced it, never a whole batch.
type SizeError struct {
	Input  string
	Reason string
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("invalid size string %q: %s", e.Input, e.Reason)
}

// ParseSize converts a catalog size string such as "1,024 MB" into bytes.
// The magnitude may carry thousands separators and a decimal fraction; the
// unit is one of b/kb/mb/gb/tb with binary (1024) multipliers. A bare
// magnitude is taken as bytes.
func ParseSize(s string) (uint64, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 || len(fields) > 2 {
		return 0, &SizeError{Input: s, Reason: "expected \"<magnitude> <unit>\""}
	}

	magnitude, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil {
		return 0, &SizeError{Input: s, Reason: "magnitude is not a number"}
	}
	if magnitude < 0 {
		return 0, &SizeError{Input: s, Reason: "magnitude is negative"}
	}

	exponent := 0
	if len(fields) == 2 {
		unit := strings.ToLower(fields[1])
		idx := -1
		for i, u := range sizeUnits {
			if u == unit {
				idx = i
				break
			}
		}
		if idx < 0 {
			return 0, &SizeError{Input: s, Reason: fmt.Sprintf("unknown unit %q", fields[1])}
		}
		exponent = idx
	}

	for i := 0; i < exponent; i++ {
		magnitude *= 1024
	}
	return uint64(magnitude), nil
}

// FormatSize renders bytes as the two-decimal megabyte figure used across
// all reports.
func FormatSize(bytes uint64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}
