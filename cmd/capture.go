package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagCapturePane  int
	flagCaptureLines int
)

var captureCmd = &cobra.Command{
	Use:   "capture <project>",
	Short: "Print the visible content of a pane",
	Long: `Capture the visible content of one pane and print it to stdout.

This is pure transport — the text is not interpreted. Defaults to pane 0;
use --pane to pick an agent pane and --lines to include scrollback.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]
		ctx := cmd.Context()

		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		pane, err := paneByIndex(ctx, m, project, flagCapturePane)
		if err != nil {
			return err
		}

		content, err := m.CapturePane(ctx, pane.ID, flagCaptureLines)
		if err != nil {
			return fmt.Errorf("capture pane %d of %q: %w", flagCapturePane, project, err)
		}

		fmt.Fprint(os.Stdout, content)
		return nil
	},
}

func init() {
	captureCmd.Flags().IntVar(&flagCapturePane, "pane", 0, "pane index to capture")
	captureCmd.Flags().IntVar(&flagCaptureLines, "lines", 0, "scrollback lines to include (0 = visible screen only)")
	rootCmd.AddCommand(captureCmd)
}
