package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var zoomCmd = &cobra.Command{
	Use:   "zoom <project> <pane>",
	Short: "Toggle zoom on a pane",
	Long: `Toggle zoom on one pane of a project session, expanding it to fill the
window (or restoring the layout if already zoomed).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]
		index, err := strconv.Atoi(args[1])
		if err != nil || index < 0 {
			return fmt.Errorf("pane index %q must be a non-negative integer", args[1])
		}

		ctx := cmd.Context()

		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		pane, err := paneByIndex(ctx, m, project, index)
		if err != nil {
			return err
		}
		return m.ZoomPane(ctx, pane.ID)
	},
}

func init() {
	rootCmd.AddCommand(zoomCmd)
}
