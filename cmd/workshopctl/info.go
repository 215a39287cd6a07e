// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <workshop-id>",
	Short: "Show detailed information about one workshop item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd.Context())
		if err != nil {
			return err
		}
		return app.Info(cmd.Context(), args[0])
	},
}

// Info prints the full record for one item. Installed items are shown from
// the registry; everything else is fetched from the catalog.
func (a *App) Info(ctx context.Context, id string) error {
	if _, err := a.Settings.RequireAppID(); err != nil {
		return err
	}

	item, installed := a.Registry.Get(id)
	if !installed {
		fetched, err := a.Catalog.Details(ctx, id)
		if err != nil {
			return err
		}
		item = fetched
	}

	a.println(item.String())
	if installed {
		a.println("Installed:", SuccessStyle.Render("yes"))
	} else {
		a.println("Installed: no")
	}
	return nil
}
