// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type (
	// Manifest is the shareable TOML snapshot of an installed item set.
	Manifest struct {
		Name  string         `toml:"name,omitempty"`
		Items []ManifestItem `toml:"items"`
	}

	// ManifestItem is one registry entry in manifest form.
	ManifestItem struct {
		ID       string   `toml:"id"`
		ItemName string   `toml:"name"`
		Requires []string `toml:"requires,omitempty"`
	}
)

var exportName string

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the installed item set as a TOML manifest",
	Long: `Export the registry as a TOML manifest that can be imported on another
machine. Without a file argument the manifest goes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd.Context())
		if err != nil {
			return err
		}

		out := app.stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create manifest file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}
		return app.Export(out, exportName)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Install every item listed in a TOML manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd.Context())
		if err != nil {
			return err
		}
		return app.Import(cmd.Context(), args[0])
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportName, "name", "", "name to embed in the manifest")
}

// Export writes the registry as a TOML manifest.
func (a *App) Export(w io.Writer, name string) error {
	manifest := Manifest{Name: name}
	for _, item := range a.Registry.List() {
		manifest.Items = append(manifest.Items, ManifestItem{
			ID:       item.ID,
			ItemName: item.Name,
			Requires: item.Requires,
		})
	}

	enc := toml.NewEncoder(w)
	if err := enc.Encode(manifest); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// Import reads a manifest and runs the regular install flow over its item
// ids. Records are refetched from the catalog rather than trusted from the
// file, so stale manifests still install current requirements.
func (a *App) Import(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(manifest.Items) == 0 {
		a.println("Manifest lists no items.")
		return nil
	}

	if manifest.Name != "" {
		a.println("Importing", TitleStyle.Render(manifest.Name))
	}

	ids := make([]string, 0, len(manifest.Items))
	for _, item := range manifest.Items {
		ids = append(ids, item.ID)
	}
	return a.Install(ctx, ids)
}
