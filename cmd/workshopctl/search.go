// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"workshopctl/internal/registry"
)

var searchSort string

var searchCmd = &cobra.Command{
	Use:   "search <term>...",
	Short: "Search the steam workshop",
	Long: `Search the steam workshop for items matching the given terms.

Requires the app id setting so results are scoped to one application.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd.Context())
		if err != nil {
			return err
		}
		return app.Search(cmd.Context(), args, searchSort)
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchSort, "sort", "s", "textsearch",
		"result sorting: mostrecent, trend, totaluniquesubscribers or textsearch")
}

// Search queries the workshop and prints one table row per result.
func (a *App) Search(ctx context.Context, terms []string, sort string) error {
	appID, err := a.Settings.RequireAppID()
	if err != nil {
		return err
	}

	ids, err := a.Catalog.Search(ctx, appID, strings.Join(terms, " "), sort)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		a.println("Nothing found.")
		return nil
	}

	a.println(TitleStyle.Render("Found:"))
	table := tablewriter.NewTable(a.stdout)
	table.Header([]string{"ID", "Name", "Size", "Requires"})

	for _, id := range ids {
		item, err := a.Catalog.Details(ctx, id)
		if err != nil {
			// One unreadable result page must not sink the whole search.
			log.Debug("skipping search result", "id", id, "error", err)
			continue
		}
		_ = table.Append([]string{
			item.ID,
			item.Name,
			registry.FormatSize(item.SizeBytes),
			strings.Join(item.Requires, ", "),
		})
	}
	return table.Render()
}
