package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart <project>",
	Short: "Interrupt and relaunch every agent in a session",
	Long: `Interrupt each labeled agent pane and relaunch its group's agent there.
Pane labels and ordinals are preserved; pane 0 is untouched.`,
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

		dir, err := newResolver(cfg).Resolve(project)
		if err != nil {
			return err
		}

		restarted, err := newManager(m, cfg).Restart(ctx, project, dir)
		if err != nil {
			return fmt.Errorf("restarted %d agents: %w", restarted, err)
		}

		fmt.Fprintf(os.Stderr, "restarted %d agent(s) in session %q\n", restarted, project)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
}
