// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <workshop-id>...",
	Short: "Remove workshop items from the registry",
	Long: `Remove the given workshop items from the local registry.

Downloaded files stay on disk; the vendor tooling owns the content
folders and cleans them up on its own.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd.Context())
		if err != nil {
			return err
		}
		return app.Remove(cmd.Context(), args)
	},
}

// Remove deletes registry entries. Unknown ids are reported and skipped.
func (a *App) Remove(_ context.Context, ids []string) error {
	for _, id := range ids {
		item, removed, err := a.Registry.Remove(id)
		if err != nil {
			return err
		}
		if !removed {
			a.println(id, "not installed.")
			continue
		}
		a.println(item.Name, "removed.")
	}
	return nil
}
