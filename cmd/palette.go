package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentmux/agentmux/internal/palette"
)

var flagPaletteFile string

var paletteCmd = &cobra.Command{
	Use:   "palette <project>",
	Short: "Pick a canned command and send it to agents",
	Long: `Open the interactive command palette: pick a canned command from the
palette file, pick a target (all agents, one group, or a specific pane),
and the command's prompt is dispatched to the matching panes.

The palette file is re-read on every invocation, so edits take effect
immediately. Two formats are accepted: markdown headings
("## key | label" followed by the prompt body) and the older
"| key | prompt |" table rows. Cancelling with Esc sends nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := cfg.Palette
		if flagPaletteFile != "" {
			path = flagPaletteFile
		}

		records, err := palette.Load(path)
		if err != nil {
			return fmt.Errorf("palette file: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("palette file %s contains no commands", path)
		}

		sel, err := (&palette.Selector{Records: records}).Run()
		if err != nil {
			return err
		}
		if sel.Canceled {
			fmt.Fprintln(os.Stderr, "canceled, nothing sent")
			return nil
		}

		tel := setupTelemetry(ctx, cfg)
		if tel != nil {
			defer tel.Shutdown(ctx)
		}

		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		count, err := newDispatcher(m, cfg, metricsOf(tel)).Dispatch(ctx, project, sel.Target, sel.Record.Body())
		if err != nil {
			return err
		}
		metricsOf(tel).RecordPaletteSelection(ctx, sel.Record.Key)

		if count == 0 {
			fmt.Fprintf(os.Stderr, "no panes matched %s in session %q\n", sel.Target, project)
			return nil
		}
		fmt.Fprintf(os.Stderr, "sent %q to %d pane(s)\n", sel.Record.Key, count)
		return nil
	},
}

func init() {
	paletteCmd.Flags().StringVar(&flagPaletteFile, "file", "", "palette file path (overrides config)")
	rootCmd.AddCommand(paletteCmd)
}
