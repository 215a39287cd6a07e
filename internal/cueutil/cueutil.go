// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds shared helpers for working with CUE documents:
// error formatting with JSON-path locations and input size guarding.
package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// DefaultMaxFileSize bounds how large a CUE document may be before parsing.
const DefaultMaxFileSize int64 = 1 << 20 // 1 MiB

// FormatError renders a CUE error as "<file>: <json-path>: <message>",
// flattening multi-error validations into one message per line.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	var lines []string
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path inside the message itself.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		if pathStr != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath converts a CUE error path slice such as ["catalog", "0", "url"]
// to the JSON-path notation "catalog[0].url".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, part := range path {
		isIndex := part != ""
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		switch {
		case isIndex && i > 0:
			sb.WriteString("[")
			sb.WriteString(part)
			sb.WriteString("]")
		case i > 0:
			sb.WriteString(".")
			sb.WriteString(part)
		default:
			sb.WriteString(part)
		}
	}
	return sb.String()
}

// CheckFileSize rejects documents larger than maxSize before they reach the
// CUE compiler.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
