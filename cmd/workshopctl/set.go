// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set workshop manager settings",
	Long: `Set the persistent settings used by install and update:

  workshopctl set appid <appid>
  workshopctl set install_dir <directory>
  workshopctl set login <username> <password>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	setCmd.AddCommand(&cobra.Command{
		Use:   "appid <appid>",
		Short: "Set the steam application id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			return app.Settings.SetAppID(args[0])
		},
	})

	setCmd.AddCommand(&cobra.Command{
		Use:   "install_dir <directory>",
		Short: "Set the installation directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			return app.Settings.SetInstallDir(args[0])
		},
	})

	setCmd.AddCommand(&cobra.Command{
		Use:   "login <username> <password>",
		Short: "Set the steam login credentials",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			return app.Settings.SetLogin(args[0], args[1])
		},
	})
}
