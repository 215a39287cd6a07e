// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed guide.md
var guideMarkdown string

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the workshopctl usage guide",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}

		out, err := renderer.Render(guideMarkdown)
		if err != nil {
			return fmt.Errorf("render guide: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}
