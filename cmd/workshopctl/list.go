// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"workshopctl/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed workshop items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd.Context())
		if err != nil {
			return err
		}
		return app.List(cmd.Context())
	},
}

// List prints the registry contents plus the requirement ids that are not
// themselves registered. Runs fully offline.
func (a *App) List(_ context.Context) error {
	items := a.Registry.List()

	var totalSize uint64
	var dependencies []string
	depSeen := make(map[string]bool)

	a.println(TitleStyle.Render("Installed:"))
	for _, item := range items {
		totalSize += item.SizeBytes
		a.println("", item.OneLine())
		for _, req := range item.Requires {
			if !a.Registry.IsInstalled(req) && !depSeen[req] {
				depSeen[req] = true
				dependencies = append(dependencies, req)
			}
		}
	}

	if len(dependencies) > 0 {
		a.println(TitleStyle.Render("Dependencies:"))
		for _, id := range dependencies {
			a.println("", IDStyle.Render(id))
		}
	}

	a.println("\nSummary\n==============================")
	a.printf("%10s %12d Workshop item%s\n", "Installed", len(items), plural(len(items)))
	a.printf("%10s %15s\n\n", "Size", registry.FormatSize(totalSize))
	return nil
}
