// SPDX-License-Identifier: MPL-2.0

package steamcmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"workshopctl/internal/issue"
	"workshopctl/internal/settings"
)

func testSettings() settings.DownloadSettings {
	return settings.DownloadSettings{
		InstallDir: "/opt/steam",
		AppID:      "294100",
		Login:      settings.Credentials{Username: "alice", Password: "hunter2"},
	}
}

func TestArgs(t *testing.T) {
	t.Parallel()
	got := Args(testSettings(), []string{"111111", "222222"})

	want := []string{
		"+login", "alice", "hunter2",
		"+force_install_dir", "/opt/steam",
		"+workshop_download_item", "294100", "111111", "validate",
		"+workshop_download_item", "294100", "222222", "validate",
		"+quit",
	}
	if !slices.Equal(got, want) {
		t.Errorf("args mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestDownload_SingleSession(t *testing.T) {
	t.Parallel()
	var gotName string
	var gotArgs []string
	calls := 0

	d := New("", func(_ context.Context, name string, args []string, _, _ *os.File) error {
		calls++
		gotName = name
		gotArgs = args
		return nil
	})

	if err := d.Download(context.Background(), testSettings(), []string{"111111", "222222"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one session for all items, got %d", calls)
	}
	if gotName != DefaultBinary {
		t.Errorf("binary = %q", gotName)
	}
	if !slices.Contains(gotArgs, "222222") || gotArgs[len(gotArgs)-1] != "+quit" {
		t.Errorf("unexpected args %v", gotArgs)
	}
}

func TestDownload_NothingToDo(t *testing.T) {
	t.Parallel()
	d := New("", func(context.Context, string, []string, *os.File, *os.File) error {
		t.Error("no process must run for an empty item list")
		return nil
	})
	if err := d.Download(context.Background(), testSettings(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDownload_MissingBinary(t *testing.T) {
	t.Parallel()
	d := New("steamcmd", func(context.Context, string, []string, *os.File, *os.File) error {
		return exec.ErrNotFound
	})

	err := d.Download(context.Background(), testSettings(), []string{"111111"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("expected actionable error, got %T", err)
	}
	if !strings.Contains(actionable.Format(false), "Install SteamCMD") {
		t.Errorf("expected install suggestion, got %q", actionable.Format(false))
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Error("cause must stay reachable")
	}
}
