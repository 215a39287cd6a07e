// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

func TestFormatError_NilPassthrough(t *testing.T) {
	t.Parallel()
	if err := FormatError(nil, "config.cue"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestFormatError_IncludesPathAndFile(t *testing.T) {
	t.Parallel()
	ctx := cuecontext.New()
	schema := ctx.CompileString(`#C: { catalog: { max_retries: int } }`).
		LookupPath(cue.ParsePath("#C"))
	user := ctx.CompileString(`catalog: max_retries: "three"`)

	err := schema.Unify(user).Validate(cue.Concrete(false))
	if err == nil {
		t.Fatal("expected validation error")
	}

	formatted := FormatError(err, "config.cue")
	msg := formatted.Error()
	if !strings.Contains(msg, "config.cue") {
		t.Errorf("expected file path in message, got %q", msg)
	}
	if !strings.Contains(msg, "max_retries") {
		t.Errorf("expected field path in message, got %q", msg)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"catalog"}, "catalog"},
		{[]string{"catalog", "base_url"}, "catalog.base_url"},
		{[]string{"items", "0", "id"}, "items[0].id"},
	}
	for _, tc := range cases {
		if got := formatPath(tc.path); got != tc.want {
			t.Errorf("formatPath(%v) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()
	if err := CheckFileSize(make([]byte, 100), 100, "ok.cue"); err != nil {
		t.Errorf("at-limit data must pass, got %v", err)
	}
	err := CheckFileSize(make([]byte, 101), 100, "big.cue")
	if err == nil || !strings.Contains(err.Error(), "big.cue") {
		t.Errorf("expected size error naming the file, got %v", err)
	}
}
