// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"workshopctl/internal/registry"
	"workshopctl/internal/resolver"
)

var installCmd = &cobra.Command{
	Use:   "install <workshop-id>...",
	Short: "Install workshop items",
	Long: `Install the given workshop items and everything they require.

The full requirement closure is resolved first and shown as an install
plan; nothing is downloaded before the plan is confirmed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd.Context())
		if err != nil {
			return err
		}
		return app.Install(cmd.Context(), args)
	},
}

// Install resolves, confirms, downloads, and registers the given ids.
func (a *App) Install(ctx context.Context, ids []string) error {
	ds, err := a.Settings.RequireDownload()
	if err != nil {
		return err
	}

	plan, err := resolver.New(a.Catalog, a.Registry.IsInstalled).PlanInstall(ctx, ids)
	if err != nil {
		return err
	}

	a.renderPlan(plan)
	if plan.Empty() {
		a.println("Nothing to install.")
		return nil
	}

	if !a.confirm("Is this ok") {
		a.println("Installation aborted.")
		return nil
	}

	// Register before downloading: a download interrupted halfway is
	// repaired by `update`, while an unrecorded item would be orphaned.
	if err := a.Registry.InstallAll(plan.ToInstall); err != nil {
		return err
	}

	if err := a.Downloader.Download(ctx, ds, plan.InstallIDs()); err != nil {
		return err
	}

	a.stampVersions(ds.InstallDir, ds.AppID, plan.InstallIDs())
	a.println(SuccessStyle.Render("Done."))
	return nil
}

// renderPlan prints the install plan the way every report in this tool is
// shaped: item lines first, then the summary block.
func (a *App) renderPlan(plan resolver.Plan) {
	if len(plan.ToInstall) > 0 {
		a.println(TitleStyle.Render("Installing:"))
		for _, item := range plan.ToInstall {
			a.println("", item.OneLine())
		}
	}
	if len(plan.Dependencies) > 0 {
		a.println(TitleStyle.Render("Installing dependencies:"))
		for _, item := range plan.Dependencies {
			a.println("", item.OneLine())
		}
	}
	for _, id := range plan.Unresolved {
		a.warnf("requirement %s cannot be resolved and will be skipped", id)
	}

	a.println("\nSummary\n==============================")
	if n := len(plan.AlreadyInstalled); n > 0 {
		a.printf("%10s %12d Workshop item%s\n", "Existing", n, plural(n))
	}
	if n := len(plan.NotFound); n > 0 {
		a.printf("%10s %12d %v\n", "Not Found", n, plan.NotFound)
	}
	n := len(plan.ToInstall) + len(plan.Dependencies)
	a.printf("%10s %12d Workshop item%s\n", "Install", n, plural(n))
	a.printf("%10s %15s\n\n", "Size", registry.FormatSize(plan.TotalSize()))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
