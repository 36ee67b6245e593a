package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagKillForce bool

var killCmd = &cobra.Command{
	Use:   "kill <project>",
	Short: "Kill a session and every agent in it",
	Long: `Kill the project session. Every agent process in it is terminated.
Prompts for confirmation unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]

		if !flagKillForce && !confirm(fmt.Sprintf("kill session %q and all agents in it?", project)) {
			fmt.Fprintln(os.Stderr, "aborted")
			return nil
		}

		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		if err := m.KillSession(cmd.Context(), project); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "killed session %q\n", project)
		return nil
	},
}

func init() {
	killCmd.Flags().BoolVarP(&flagKillForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(killCmd)
}
