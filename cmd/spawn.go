package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentmux/agentmux/internal/address"
	"github.com/agentmux/agentmux/internal/session"
)

var spawnCmd = &cobra.Command{
	Use:   "spawn <project> [claude [codex [gemini]]]",
	Short: "Create a session and spawn agents into labeled panes",
	Long: `Create (or reuse) the tmux session for a project and spawn the given
number of agents per group into labeled panes.

The session is named after the project and rooted at <base_dir>/<project>;
a missing project directory triggers a confirmation prompt. Pane 0 is
reserved for you and never gets an agent. Counts default to one Claude
agent when omitted.

Spawning into an already-populated session starts a second set of agents:
use "agentmux add" to grow a running session instead.

Examples:
  agentmux spawn myapp          # 1 claude
  agentmux spawn myapp 2 1 1    # 2 claude, 1 codex, 1 gemini`,
	Args: cobra.RangeArgs(1, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]

		// Validate counts before any side effect.
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

		mgr := newManager(m, cfg)
		if err := mgr.Ensure(ctx, project, dir); err != nil {
			return err
		}
		// One pane per agent plus the reserved user pane.
		if err := mgr.EnsurePaneCount(ctx, project, dir, counts.Total()+1); err != nil {
			return err
		}

		spawned, err := mgr.SpawnAgents(ctx, project, dir, counts)
		if err != nil {
			return fmt.Errorf("spawned %d of %d agents: %w", spawned, counts.Total(), err)
		}

		metrics := metricsOf(tel)
		for _, g := range address.Groups {
			if n := counts.For(g); n > 0 {
				metrics.RecordSpawn(ctx, string(g), n)
			}
		}

		fmt.Fprintf(os.Stderr, "session %q: spawned %d agent(s)\n", project, spawned)
		fmt.Fprintf(os.Stderr, "attach with: agentmux attach %s\n", project)
		return nil
	},
}

// parseCounts parses per-group agent counts. Missing counts default to
// one Claude agent and nothing else.
func parseCounts(args []string) (session.Counts, error) {
	if len(args) == 0 {
		return session.Counts{Claude: 1}, nil
	}
	parsed := make([]int, 3)
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return session.Counts{}, fmt.Errorf("agent count %q must be a non-negative integer", arg)
		}
		parsed[i] = n
	}
	return session.Counts{Claude: parsed[0], Codex: parsed[1], Gemini: parsed[2]}, nil
}

func init() {
	rootCmd.AddCommand(spawnCmd)
}
