// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"workshopctl/internal/appstate"
	"workshopctl/internal/config"
	"workshopctl/internal/registry"
	"workshopctl/internal/settings"
	"workshopctl/internal/steamcmd"
	"workshopctl/internal/workshop"
)

type (
	// Catalog is the workshop lookup surface the commands consume.
	Catalog interface {
		registry.Lookup
		Exists(ctx context.Context, id string) (bool, error)
		Search(ctx context.Context, appID, text, sort string) ([]string, error)
	}

	// Downloader runs the external download sessions.
	Downloader interface {
		Download(ctx context.Context, ds settings.DownloadSettings, itemIDs []string) error
	}

	// App wires the services behind the CLI commands. It is the composition
	// root for the CLI layer; every command handler delegates through it.
	App struct {
		Config     *config.Config
		Catalog    Catalog
		Downloader Downloader
		Registry   *registry.Registry
		Settings   *settings.Settings

		stdout io.Writer
		stderr io.Writer
		stdin  io.Reader

		assumeYes bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp; tests supply
	// fakes for the pieces they exercise.
	Dependencies struct {
		Config     *config.Config
		Catalog    Catalog
		Downloader Downloader
		Registry   *registry.Registry
		Settings   *settings.Settings
		Stdout     io.Writer
		Stderr     io.Writer
		Stdin      io.Reader
		AssumeYes  bool
	}
)

// NewApp builds an App, filling nil dependencies with production defaults
// derived from the configuration.
func NewApp(ctx context.Context, deps Dependencies) (*App, error) {
	cfg := deps.Config
	if cfg == nil {
		loaded, _, err := config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	app := &App{
		Config:     cfg,
		Catalog:    deps.Catalog,
		Downloader: deps.Downloader,
		Registry:   deps.Registry,
		Settings:   deps.Settings,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		stdin:      deps.Stdin,
		assumeYes:  deps.AssumeYes || cfg.UI.AssumeYes,
	}

	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.Catalog == nil {
		app.Catalog = workshop.New(
			workshop.WithBaseURL(cfg.Catalog.BaseURL),
			workshop.WithMaxRetries(cfg.Catalog.MaxRetries),
		)
	}
	if app.Downloader == nil {
		app.Downloader = steamcmd.New(cfg.SteamCmd, nil)
	}
	if app.Registry == nil {
		reg, err := registry.Open(cfg.RegistryPath())
		if err != nil {
			return nil, err
		}
		app.Registry = reg
	}
	if app.Settings == nil {
		st, err := settings.Open(cfg.SettingsPath())
		if err != nil {
			return nil, err
		}
		app.Settings = st
	}

	return app, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.stdout, args...)
}

func (a *App) warnf(format string, args ...any) {
	fmt.Fprintln(a.stderr, WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// confirm asks the user to proceed. Yes is the default; only an explicit
// "n" declines. The prompt is skipped entirely under --yes.
func (a *App) confirm(prompt string) bool {
	if a.assumeYes {
		return true
	}
	fmt.Fprintf(a.stdout, "%s [Y/n]: ", prompt)

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) != "n"
}

// stampVersions records the downloaded revision of each item next to its
// content directory, so later updates can tell what is stale. Failures are
// reported but never fail the command; the download itself succeeded.
func (a *App) stampVersions(installDir, appID string, itemIDs []string) {
	if len(itemIDs) == 0 {
		return
	}

	if _, err := appstate.Locate(installDir, appID); err != nil {
		log.Debug("skipping version stamps", "error", err)
		return
	}

	for id, err := range appstate.StampVersions(installDir, appID, itemIDs) {
		a.warnf("version stamp for %s failed: %v", id, err)
	}
}
