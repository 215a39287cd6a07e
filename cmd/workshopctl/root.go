// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for workshopctl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"workshopctl/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug output.
	verbose bool
	// quiet suppresses everything but errors.
	quiet bool
	// assumeYes answers yes to all confirmations.
	assumeYes bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	appOnce     sync.Once
	appInstance *App
	appErr      error

	// rootCmd represents the base command when called without subcommands.
	rootCmd = &cobra.Command{
		Use:   "workshopctl",
		Short: "Install and update Steam Workshop content",
		Long: TitleStyle.Render("workshopctl") + SubtitleStyle.Render(" - Steam Workshop content manager") + `

workshopctl installs, removes, and updates Steam Workshop items from the
command line, resolving item requirements automatically and keeping a local
registry of what is installed.

` + SubtitleStyle.Render("Quick Start:") + `
  1. workshopctl set appid <appid>
  2. workshopctl set install_dir <directory>
  3. workshopctl set login <username> <password>
  4. workshopctl install <workshop-id>...

` + SubtitleStyle.Render("Examples:") + `
  workshopctl search quarry        Search the workshop
  workshopctl install 731604991    Install an item and its requirements
  workshopctl update               Update everything installed
  workshopctl list                 List installed items`,
		PersistentPreRun: func(*cobra.Command, []string) {
			switch {
			case quiet:
				log.SetLevel(log.ErrorLevel)
			case verbose:
				log.SetLevel(log.DebugLevel)
			default:
				log.SetLevel(log.InfoLevel)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "yes to all confirmations")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/workshopctl/config.cue)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(guideCmd)
}

// getApp builds the shared App on first use, after flags are parsed.
func getApp(ctx context.Context) (*App, error) {
	appOnce.Do(func() {
		appInstance, appErr = NewApp(ctx, Dependencies{AssumeYes: assumeYes})
	})
	return appInstance, appErr
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		// fang prints the bare message; actionable errors carry
		// remediation hints worth showing as well.
		var ae *issue.ActionableError
		if errors.As(err, &ae) && len(ae.Suggestions) > 0 {
			fmt.Fprintln(os.Stderr, formatErrorForDisplay(err, verbose))
		}

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay renders err for the user: actionable errors print
// their suggestions, verbose mode adds the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
