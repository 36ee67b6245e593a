package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Long:  `List the names of all live sessions, one per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getMultiplexer()
		if err != nil {
			return err
		}

		sessions, err := m.ListSessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		for _, s := range sessions {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
