package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentmux/agentmux/internal/address"
)

var (
	flagSendGroup string
	flagSendPane  int
	flagSendAll   bool
)

var sendCmd = &cobra.Command{
	Use:   "send <project> <message...>",
	Short: "Send a prompt to agent panes",
	Long: `Send a message to panes of a project session. The message is typed into
each matching pane as literal input followed by a separate Enter.

By default the message goes to every pane except pane 0 (your pane).
Use --group to reach one agent group, --pane for a single pane by index,
or --all to include pane 0 as well.

The pane inventory is read fresh on every send: agents added since the
last command are included, closed panes are skipped. A send that matches
no panes reports 0 and succeeds.

Examples:
  agentmux send myapp run the test suite and fix failures
  agentmux send myapp --group cc summarize your progress
  agentmux send myapp --pane 2 try a different approach`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := args[0]
		payload := strings.Join(args[1:], " ")

		target, err := sendTarget()
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

		d := newDispatcher(m, cfg, metricsOf(tel))
		count, err := d.Dispatch(ctx, project, target, payload)
		if err != nil {
			return err
		}

		if count == 0 {
			fmt.Fprintf(os.Stderr, "no panes matched %s in session %q\n", target, project)
			return nil
		}
		fmt.Fprintf(os.Stderr, "sent to %d pane(s)\n", count)
		return nil
	},
}

// sendTarget builds the dispatch target from the flag combination.
// The selectors are mutually exclusive.
func sendTarget() (address.Target, error) {
	selectors := 0
	if flagSendGroup != "" {
		selectors++
	}
	if flagSendPane >= 0 {
		selectors++
	}
	if flagSendAll {
		selectors++
	}
	if selectors > 1 {
		return address.Target{}, fmt.Errorf("--group, --pane and --all are mutually exclusive")
	}

	switch {
	case flagSendGroup != "":
		g, err := address.FromName(flagSendGroup)
		if err != nil {
			return address.Target{}, err
		}
		return address.ForGroup(g), nil
	case flagSendPane >= 0:
		return address.Pane(flagSendPane), nil
	case flagSendAll:
		return address.AllPanes(), nil
	default:
		return address.AllExceptFirst(), nil
	}
}

func init() {
	sendCmd.Flags().StringVar(&flagSendGroup, "group", "", "send only to one agent group: cc, cx, gm (or claude, codex, gemini)")
	sendCmd.Flags().IntVar(&flagSendPane, "pane", -1, "send only to the pane with this index")
	sendCmd.Flags().BoolVar(&flagSendAll, "all", false, "include pane 0 (your pane) in the broadcast")
	rootCmd.AddCommand(sendCmd)
}
