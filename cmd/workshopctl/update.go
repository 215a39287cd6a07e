// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [workshop-id]... | all",
	Short: "Update installed workshop items",
	Long: `Update the given workshop items, or everything installed when no ids
(or the literal "all") are passed. Requirements of the updated items are
refreshed too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd.Context())
		if err != nil {
			return err
		}
		return app.Update(cmd.Context(), args)
	},
}

// Update re-downloads installed items plus their requirements. An empty id
// list or the single literal "all" means everything in the registry. All
// items share one download session; steamcmd validates files in place, so
// an update is just a download over existing content.
func (a *App) Update(ctx context.Context, ids []string) error {
	ds, err := a.Settings.RequireDownload()
	if err != nil {
		return err
	}

	if len(ids) == 0 || (len(ids) == 1 && ids[0] == "all") {
		ids = a.Registry.IDs()
	}

	seen := make(map[string]bool)
	var download []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			download = append(download, id)
		}
	}

	for _, id := range ids {
		item, ok := a.Registry.Get(id)
		if !ok {
			a.println(id, "not installed.")
			continue
		}
		a.println("updating", item.Name)
		add(item.ID)
		for _, req := range item.Requires {
			add(req)
		}
	}

	if len(download) == 0 {
		a.println("Nothing to update.")
		return nil
	}

	if err := a.Downloader.Download(ctx, ds, download); err != nil {
		return err
	}

	a.stampVersions(ds.InstallDir, ds.AppID, download)
	a.println(SuccessStyle.Render("Done."))
	return nil
}
