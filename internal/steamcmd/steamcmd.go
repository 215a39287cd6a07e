// SPDX-License-Identifier: MPL-2.0

// Package steamcmd drives the external steamcmd binary to download workshop
// content. It only builds argument vectors and runs the process; deciding
// what to download is the planner's job.
package steamcmd

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"workshopctl/internal/issue"
	"workshopctl/internal/settings"
)

// DefaultBinary is the steamcmd executable looked up on PATH.
const DefaultBinary = "steamcmd"

type (
	// RunFunc executes one external command attached to the given streams.
	// Swapped out by tests.
	RunFunc func(ctx context.Context, name string, args []string, stdout, stderr *os.File) error

	// Downloader runs steamcmd download sessions.
	Downloader struct {
		binary string
		run    RunFunc
	}
)

// New creates a Downloader for the given binary. An empty binary means
// DefaultBinary; a nil run means executing the real process.
func New(binary string, run RunFunc) *Downloader {
	if binary == "" {
		binary = DefaultBinary
	}
	if run == nil {
		run = execRun
	}
	return &Downloader{binary: binary, run: run}
}

func execRun(ctx context.Context, name string, args []string, stdout, stderr *os.File) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Args builds the steamcmd argument vector for downloading itemIDs: one
// login, one install dir, one download directive per item, then quit. The
// validate flag makes steamcmd re-check files already on disk, which is what
// turns a download into an update.
func Args(ds settings.DownloadSettings, itemIDs []string) []string {
	args := []string{
		"+login", ds.Login.Username, ds.Login.Password,
		"+force_install_dir", ds.InstallDir,
	}
	for _, id := range itemIDs {
		args = append(args, "+workshop_download_item", ds.AppID, id, "validate")
	}
	return append(args, "+quit")
}

// Download runs one steamcmd session downloading every id in itemIDs into
// the configured install dir. All items share a single session so the login
// handshake happens once.
func (d *Downloader) Download(ctx context.Context, ds settings.DownloadSettings, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	args := Args(ds, itemIDs)
	log.Debug("running steamcmd", "binary", d.binary, "items", len(itemIDs))

	err := d.run(ctx, d.binary, args, os.Stdout, os.Stderr)
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return issue.New("download workshop items").
			Resource(d.binary).
			Suggest("Install SteamCMD first: https://developer.valvesoftware.com/wiki/SteamCMD").
			Suggest("If it is installed elsewhere, point the steamcmd config key at the binary").
			Wrap(err)
	}
	return issue.New("download workshop items").
		Resource(d.binary).
		Suggest("Check the steamcmd output above for login or disk errors").
		Wrap(err)
}
