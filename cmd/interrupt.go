package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var interruptCmd = &cobra.Command{
	Use:   "interrupt <project>",
	Short: "Send Ctrl-C to every agent pane",
	Long: `Send an interrupt (Ctrl-C) to every labeled agent pane in the session.
Pane 0 (your pane) carries no agent label and is never interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tel := setupTelemetry(ctx, cfg)
		if tel != nil {
			defer tel.Shutdown(ctx)
		}

		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		count, err := newDispatcher(m, cfg, metricsOf(tel)).Interrupt(ctx, project)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "interrupted %d agent pane(s)\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interruptCmd)
}
