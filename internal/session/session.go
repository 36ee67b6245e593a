// Package session manages the lifecycle of an agent session: creating the
// tmux session, growing its pane set, and spawning agent processes into
// labeled panes.
package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agentmux/agentmux/internal/address"
	"github.com/agentmux/agentmux/internal/mux"
)

// Counts holds the number of agents to spawn per group.
type Counts struct {
	Claude int
	Codex  int
	Gemini int
}

// For returns the count for a group.
func (c Counts) For(g address.Group) int {
	switch g {
	case address.Claude:
		return c.Claude
	case address.Codex:
		return c.Codex
	case address.Gemini:
		return c.Gemini
	}
	return 0
}

// Total returns the total agent count.
func (c Counts) Total() int {
	return c.Claude + c.Codex + c.Gemini
}

// Manager drives session and pane lifecycle against a multiplexer.
// All fields are set at construction; Manager reads no ambient state.
type Manager struct {
	Mux mux.Multiplexer

	// Launch maps each group to the shell command that starts its agent.
	Launch map[address.Group]string

	// Layout is applied after pane splits to keep the window balanced.
	Layout string

	// Settle is the pause between sending a command to a fresh pane and
	// sending the next one, giving the shell time to come up. Zero means
	// no pause.
	Settle time.Duration
}

// launchCommand returns the launch command for a group, falling back to
// the group's agent name.
func (m *Manager) launchCommand(g address.Group) string {
	if cmd, ok := m.Launch[g]; ok && cmd != "" {
		return cmd
	}
	switch g {
	case address.Claude:
		return "claude"
	case address.Codex:
		return "codex"
	default:
		return "gemini"
	}
}

func (m *Manager) layout() string {
	if m.Layout != "" {
		return m.Layout
	}
	return "tiled"
}

// Ensure creates the session if it does not exist. Idempotent: an existing
// session is left untouched and is not an error.
func (m *Manager) Ensure(ctx context.Context, name, dir string) error {
	if err := mux.ValidateSessionName(name); err != nil {
		return err
	}
	exists, err := m.Mux.HasSession(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.Mux.NewSession(ctx, name, dir)
}

// require returns ErrSessionNotFound with a remediation hint when the
// session is absent.
func (m *Manager) require(ctx context.Context, session string) error {
	exists, err := m.Mux.HasSession(ctx, session)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %q (run `agentmux spawn %s` to create it)",
			mux.ErrSessionNotFound, session, session)
	}
	return nil
}

// EnsurePaneCount grows the session's pane set to at least required panes,
// re-tiling after each split so the window stays balanced. Panes are never
// removed: running the same call twice leaves max(existing, required) panes.
func (m *Manager) EnsurePaneCount(ctx context.Context, session, dir string, required int) error {
	if err := m.require(ctx, session); err != nil {
		return err
	}
	panes, err := m.Mux.ListPanes(ctx, session)
	if err != nil {
		return err
	}
	for missing := required - len(panes); missing > 0; missing-- {
		if _, err := m.Mux.SplitPane(ctx, session, dir); err != nil {
			return err
		}
		if err := m.Mux.SelectLayout(ctx, session, m.layout()); err != nil {
			return err
		}
	}
	return nil
}

// SpawnAgents starts agents in the session's unlabeled panes, in fixed
// group order (Claude, Codex, Gemini). Pane 0 is the reserved user pane and
// is never labeled. When the unlabeled allocation runs out, additional
// panes are split on demand.
//
// Spawn is deliberately not idempotent: it does not consult existing labels
// to detect already-running agents, so calling it twice spawns a second set.
// Session creation (Ensure) is the idempotent step, not this one.
func (m *Manager) SpawnAgents(ctx context.Context, session, dir string, counts Counts) (int, error) {
	if err := m.require(ctx, session); err != nil {
		return 0, err
	}
	panes, err := m.Mux.ListPanes(ctx, session)
	if err != nil {
		return 0, err
	}

	free := unlabeledPanes(panes)
	spawned := 0
	for _, g := range address.Groups {
		for ordinal := 1; ordinal <= counts.For(g); ordinal++ {
			var pane mux.Pane
			if len(free) > 0 {
				pane = free[0]
				free = free[1:]
			} else {
				pane, err = m.Mux.SplitPane(ctx, session, dir)
				if err != nil {
					return spawned, err
				}
				if err := m.Mux.SelectLayout(ctx, session, m.layout()); err != nil {
					return spawned, err
				}
			}
			label := address.Encode(session, g, ordinal, false)
			if err := m.launchInto(ctx, pane, label, dir, g); err != nil {
				return spawned, err
			}
			spawned++
		}
	}
	return spawned, nil
}

// AddAgents appends agents to a running session. Unlike SpawnAgents it
// always splits a fresh pane per agent (split, label, launch, interleaved)
// and labels carry the "added" marker. Ordinals continue after the group's
// existing panes.
func (m *Manager) AddAgents(ctx context.Context, session, dir string, counts Counts) (int, error) {
	if err := m.require(ctx, session); err != nil {
		return 0, err
	}
	panes, err := m.Mux.ListPanes(ctx, session)
	if err != nil {
		return 0, err
	}

	existing := map[address.Group]int{}
	for _, p := range panes {
		if g, ok := address.GroupOf(p.Title); ok {
			existing[g]++
		}
	}

	added := 0
	for _, g := range address.Groups {
		for i := 1; i <= counts.For(g); i++ {
			pane, err := m.Mux.SplitPane(ctx, session, dir)
			if err != nil {
				return added, err
			}
			if err := m.Mux.SelectLayout(ctx, session, m.layout()); err != nil {
				return added, err
			}
			label := address.Encode(session, g, existing[g]+i, true)
			if err := m.launchInto(ctx, pane, label, dir, g); err != nil {
				return added, err
			}
			added++
		}
	}
	return added, nil
}

// Restart interrupts every labeled agent pane and relaunches its group's
// agent there. The user pane is untouched.
func (m *Manager) Restart(ctx context.Context, session, dir string) (int, error) {
	if err := m.require(ctx, session); err != nil {
		return 0, err
	}
	panes, err := m.Mux.ListPanes(ctx, session)
	if err != nil {
		return 0, err
	}

	restarted := 0
	for _, p := range panes {
		g, ok := address.GroupOf(p.Title)
		if !ok {
			continue
		}
		if err := m.Mux.Interrupt(ctx, p.ID); err != nil {
			return restarted, err
		}
		m.settle()
		if err := m.launch(ctx, p.ID, dir, g); err != nil {
			return restarted, err
		}
		restarted++
	}
	return restarted, nil
}

// launchInto labels a pane and starts an agent in it.
func (m *Manager) launchInto(ctx context.Context, pane mux.Pane, label, dir string, g address.Group) error {
	if err := m.Mux.SetPaneTitle(ctx, pane.ID, label); err != nil {
		return err
	}
	return m.launch(ctx, pane.ID, dir, g)
}

// launch sends the change-directory and agent launch command to a pane,
// each followed by a discrete submit.
func (m *Manager) launch(ctx context.Context, paneID, dir string, g address.Group) error {
	if err := m.sendLine(ctx, paneID, "cd "+shellQuote(dir)); err != nil {
		return err
	}
	m.settle()
	return m.sendLine(ctx, paneID, m.launchCommand(g))
}

// sendLine transmits text followed by a separate Enter. Two transmissions,
// not one: agent CLIs need the text fully received before the submit
// keystroke is processed.
func (m *Manager) sendLine(ctx context.Context, paneID, text string) error {
	if err := m.Mux.SendLiteral(ctx, paneID, text); err != nil {
		return err
	}
	m.settle()
	return m.Mux.SendKey(ctx, paneID, "Enter")
}

func (m *Manager) settle() {
	if m.Settle > 0 {
		time.Sleep(m.Settle)
	}
}

// unlabeledPanes returns panes without an agent label, in index order,
// excluding the reserved user pane at the lowest index.
func unlabeledPanes(panes []mux.Pane) []mux.Pane {
	sorted := make([]mux.Pane, len(panes))
	copy(sorted, panes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	var free []mux.Pane
	for i, p := range sorted {
		if i == 0 {
			continue // user pane
		}
		if address.MatchesAny(p.Title) {
			continue
		}
		free = append(free, p)
	}
	return free
}

// shellQuote single-quotes a string for the pane's shell, escaping any
// embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
