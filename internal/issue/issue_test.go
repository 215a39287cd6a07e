// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Message(t *testing.T) {
	t.Parallel()
	cause := errors.New("executable file not found in $PATH")
	err := New("download workshop items").
		Resource("steamcmd").
		Wrap(cause)

	want := "failed to download workshop items: steamcmd: executable file not found in $PATH"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause must stay reachable via errors.Is")
	}
}

func TestActionableError_FormatSuggestions(t *testing.T) {
	t.Parallel()
	err := New("search the workshop").
		Suggest("Set the app id first: workshopctl set appid <appid>")

	out := err.Format(false)
	if !strings.Contains(out, "• Set the app id first") {
		t.Errorf("expected suggestion bullet, got %q", out)
	}
	if strings.Contains(out, "Error chain") {
		t.Error("non-verbose format must not include the error chain")
	}
}

func TestActionableError_FormatVerboseChain(t *testing.T) {
	t.Parallel()
	inner := errors.New("connection refused")
	err := New("fetch item details").Wrap(inner)

	out := err.Format(true)
	if !strings.Contains(out, "Error chain:") || !strings.Contains(out, "1. connection refused") {
		t.Errorf("expected error chain in verbose output, got %q", out)
	}
}
