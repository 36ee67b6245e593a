package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentmux/agentmux/internal/address"
)

var addCmd = &cobra.Command{
	Use:   "add <project> [claude [codex [gemini]]]",
	Short: "Add agents to a running session",
	Long: `Add agents to an existing session. Each new agent gets a freshly split
pane; labels carry an "added" marker and ordinals continue after the
group's existing agents (demo__cc_added_3).

The session must already exist — use "agentmux spawn" to create one.`,
	Args: cobra.RangeArgs(1, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]

		counts, err := parseCounts(args[1:])
		if err != nil {
			return err
		}

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

		added, err := newManager(m, cfg).AddAgents(ctx, project, dir, counts)
		if err != nil {
			return fmt.Errorf("added %d of %d agents: %w", added, counts.Total(), err)
		}

		metrics := metricsOf(tel)
		for _, g := range address.Groups {
			if n := counts.For(g); n > 0 {
				metrics.RecordSpawn(ctx, string(g), n)
			}
		}

		fmt.Fprintf(os.Stderr, "session %q: added %d agent(s)\n", project, added)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
