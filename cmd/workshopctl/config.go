// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"workshopctl/internal/config"
)

// configCmd is the `workshopctl config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage workshopctl configuration",
	Long: `Manage workshopctl configuration.

Configuration is stored as a CUE file under the platform config
directory, e.g. ~/.config/workshopctl/config.cue on Linux.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			return app.ShowConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateDefaultConfig(); err != nil {
				return err
			}
			fmt.Println(SuccessStyle.Render("Configuration initialized at ") +
				filepath.Join(config.ConfigDir(), config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(filepath.Join(config.ConfigDir(), config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := config.Set(app.Config, args[0], args[1]); err != nil {
				return err
			}
			return config.Save(app.Config)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(app.Config))
			return nil
		},
	})
}

// ShowConfig prints the effective configuration, one key per line.
func (a *App) ShowConfig() error {
	key := IDStyle
	value := SuccessStyle

	a.println(TitleStyle.Render("Current Configuration"))
	a.println()
	a.println(key.Render("data_dir:            ") + value.Render(a.Config.DataDir))
	a.println(key.Render("steamcmd:            ") + value.Render(a.Config.SteamCmd))
	a.println(key.Render("catalog.base_url:    ") + value.Render(a.Config.Catalog.BaseURL))
	a.println(key.Render("catalog.max_retries: ") + value.Render(fmt.Sprintf("%d", a.Config.Catalog.MaxRetries)))
	a.println(key.Render("ui.verbose:          ") + value.Render(fmt.Sprintf("%v", a.Config.UI.Verbose)))
	a.println(key.Render("ui.assume_yes:       ") + value.Render(fmt.Sprintf("%v", a.Config.UI.AssumeYes)))
	return nil
}
