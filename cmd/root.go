package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/agentmux/agentmux/internal/address"
	"github.com/agentmux/agentmux/internal/config"
	"github.com/agentmux/agentmux/internal/dispatch"
	"github.com/agentmux/agentmux/internal/mux"
	telem "github.com/agentmux/agentmux/internal/otel"
	"github.com/agentmux/agentmux/internal/session"
	"github.com/agentmux/agentmux/internal/workdir"
)

// Version is injected at build time via ldflags.
var Version = "dev"

// Delays for pane input. Fresh panes need the shell up before the cd
// lands, and agent CLIs need payload text fully received before the
// submit keystroke is processed.
const (
	launchSettle = 300 * time.Millisecond
	submitDelay  = 150 * time.Millisecond
)

var (
	// Global flags.
	flagMux string
)

var rootCmd = &cobra.Command{
	Use:   "agentmux",
	Short: "Orchestrate multiple AI coding agents in a shared tmux session",
	Long: `agentmux runs Claude Code, Codex, and Gemini CLI agents side by side
in labeled panes of a single tmux session, and lets you broadcast
prompts to all of them, a single agent group, or one specific pane.

Pane 0 is always reserved for you. Agent panes are labeled
"<session>__<group>_<ordinal>" (groups: cc, cx, gm) and addressed by
that label — agentmux never reads or interprets agent output.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("AGENTMUX_MUX", ""), "terminal multiplexer: tmux (default: auto-detect)")
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	if flagMux != "" {
		return mux.FromName(flagMux)
	}
	return mux.Detect()
}

// loadConfig loads configuration and reports the file used, if any.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}
	return cfg, nil
}

// setupTelemetry initializes OTEL (no-op without an endpoint). A failed
// init is a warning, never fatal: telemetry must not block orchestration.
func setupTelemetry(ctx context.Context, cfg *config.Config) *telem.Telemetry {
	telem.Version = Version
	tel, err := telem.Init(ctx, telem.Config{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
		return nil
	}
	return tel
}

func metricsOf(tel *telem.Telemetry) *telem.Metrics {
	if tel == nil {
		return nil
	}
	return tel.Metrics
}

// newManager builds a session manager from config.
func newManager(m mux.Multiplexer, cfg *config.Config) *session.Manager {
	return &session.Manager{
		Mux: m,
		Launch: map[address.Group]string{
			address.Claude: cfg.ClaudeCommand,
			address.Codex:  cfg.CodexCommand,
			address.Gemini: cfg.GeminiCommand,
		},
		Layout: cfg.Layout,
		Settle: launchSettle,
	}
}

// newDispatcher builds a dispatcher from config.
func newDispatcher(m mux.Multiplexer, cfg *config.Config, metrics *telem.Metrics) *dispatch.Dispatcher {
	return &dispatch.Dispatcher{
		Mux:         m,
		SubmitDelay: submitDelay,
		Stagger:     cfg.StaggerDuration,
		Metrics:     metrics,
	}
}

// newResolver builds a workdir resolver that prompts before creating a
// missing project directory.
func newResolver(cfg *config.Config) *workdir.Resolver {
	return &workdir.Resolver{
		BaseDir: cfg.BaseDir,
		Confirm: confirm,
	}
}

// confirm asks a yes/no question on the terminal. Non-interactive runs
// (no TTY on stdin) decline: nothing is created without a human answer.
func confirm(prompt string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// paneByIndex looks up a session pane by its index.
func paneByIndex(ctx context.Context, m mux.Multiplexer, session string, index int) (mux.Pane, error) {
	panes, err := m.ListPanes(ctx, session)
	if err != nil {
		return mux.Pane{}, err
	}
	for _, p := range panes {
		if p.Index == index {
			return p, nil
		}
	}
	return mux.Pane{}, fmt.Errorf("session %q has no pane with index %d", session, index)
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
