package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentmux/agentmux/internal/address"
	"github.com/agentmux/agentmux/internal/status"
)

var groupColors = map[address.Group]*color.Color{
	address.Claude: color.New(color.FgYellow),
	address.Codex:  color.New(color.FgCyan),
	address.Gemini: color.New(color.FgMagenta),
}

var statusCmd = &cobra.Command{
	Use:   "status <project>",
	Short: "Show the pane inventory of a session",
	Long: `Show every pane of a project session: index, label, running command and
size, plus agent counts per group. Pure read — nothing is sent to any
pane.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]

		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		report, err := (&status.Reporter{Mux: m}).Report(cmd.Context(), project)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		dim := color.New(color.Faint)

		bold.Printf("session %s", report.Session)
		fmt.Printf(" — %d pane(s)\n", len(report.Panes))

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  IDX\tGROUP\tLABEL\tCOMMAND\tSIZE")
		for _, p := range report.Panes {
			group := "-"
			label := p.Label
			if p.Agent {
				group = groupColors[p.Group].Sprint(p.Group)
			} else if label == "" {
				label = dim.Sprint("(user)")
			}
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n", p.Index, group, label, p.Command, p.Size)
		}
		w.Flush()

		fmt.Printf("agents: %s %d, %s %d, %s %d\n",
			groupColors[address.Claude].Sprint("claude"), report.Counts[address.Claude],
			groupColors[address.Codex].Sprint("codex"), report.Counts[address.Codex],
			groupColors[address.Gemini].Sprint("gemini"), report.Counts[address.Gemini])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
