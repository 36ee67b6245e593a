package cmd

import (
	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <project>",
	Short: "Attach to a project session",
	Long: `Attach the terminal to a project session. Inside tmux this switches the
current client instead of nesting.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getMultiplexer()
		if err != nil {
			return err
		}
		return m.Attach(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
