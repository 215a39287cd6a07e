// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"testing"
)

func TestParseSize(t *testing.T) {
	t.Parallel()
	frac := 123.456
	tests := []struct {
		input string
		want  uint64
	}{
		{"512", 512},
		{"512 b", 512},
		{"1 KB", 1024},
		{"1.5 KB", 1536},
		{"1,024 MB", 1024 * 1024 * 1024},
		{"2 GB", 2 * 1024 * 1024 * 1024},
		{"1 TB", 1024 * 1024 * 1024 * 1024},
		{"123.456 MB", uint64(frac * 1024 * 1024)},
		{"  34 mb ", 34 * 1024 * 1024},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSize_Invalid(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"", "MB", "1 XB", "1 2 MB", "one MB", "-5 MB"} {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := ParseSize(input)
			var sizeErr *SizeError
			if !errors.As(err, &sizeErr) {
				t.Fatalf("expected *SizeError for %q, got %v", input, err)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()
	if got := FormatSize(1024 * 1024 * 1024); got != "1024.00 MB" {
		t.Errorf("expected 1024.00 MB, got %q", got)
	}
	if got := FormatSize(0); got != "0.00 MB" {
		t.Errorf("expected 0.00 MB, got %q", got)
	}
}
