package mux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// paneFormat is the tmux -F format for pane listings. Tab-separated with
// the title last: titles are free text, so every other field must come
// before it and the parser splits with a bounded SplitN.
const paneFormat = "#{pane_id}\t#{pane_index}\t#{pane_width}\t#{pane_height}\t#{pane_current_command}\t#{pane_title}"

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct{}

// NewTmux creates a new tmux multiplexer.
func NewTmux() *Tmux {
	return &Tmux{}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// HasSession reports whether the named session exists.
func (t *Tmux) HasSession(ctx context.Context, session string) (bool, error) {
	cmd := exec.CommandContext(ctx, "tmux", "has-session", "-t", "="+session)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// has-session exits non-zero both when the session is absent
			// and when no server is running; either way it does not exist.
			return false, nil
		}
		return false, fmt.Errorf("tmux has-session: %w", err)
	}
	return true, nil
}

// NewSession creates a detached session rooted at dir.
func (t *Tmux) NewSession(ctx context.Context, session, dir string) error {
	if err := ValidateSessionName(session); err != nil {
		return err
	}
	_, err := t.run(ctx, "new-session", "-d", "-s", session, "-c", dir)
	if err != nil {
		return fmt.Errorf("tmux new-session: %w", err)
	}
	return nil
}

// KillSession destroys the named session.
func (t *Tmux) KillSession(ctx context.Context, session string) error {
	if _, err := t.run(ctx, "kill-session", "-t", "="+session); err != nil {
		return fmt.Errorf("tmux kill-session: %w", err)
	}
	return nil
}

// ListSessions returns the names of all live sessions. A missing server
// means no sessions, not an error.
func (t *Tmux) ListSessions(ctx context.Context) ([]string, error) {
	out, err := t.run(ctx, "list-sessions", "-F", "#{session_name}")
	if err != nil {
		if strings.Contains(err.Error(), "no server running") {
			return nil, nil
		}
		return nil, fmt.Errorf("tmux list-sessions: %w", err)
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// ListPanes returns the session's panes in current index order.
func (t *Tmux) ListPanes(ctx context.Context, session string) ([]Pane, error) {
	out, err := t.run(ctx, "list-panes", "-t", "="+session, "-F", paneFormat)
	if err != nil {
		return nil, fmt.Errorf("tmux list-panes: %w", err)
	}
	var panes []Pane
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		pane, err := parsePaneLine(line)
		if err != nil {
			continue
		}
		panes = append(panes, pane)
	}
	return panes, nil
}

// SplitPane splits a new pane into the session's window and returns it.
// The -P/-F print flags make split-window report the pane it created, so
// no follow-up inventory query is needed.
func (t *Tmux) SplitPane(ctx context.Context, session, dir string) (Pane, error) {
	args := []string{"split-window", "-t", "=" + session, "-d", "-P", "-F", paneFormat}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	out, err := t.run(ctx, args...)
	if err != nil {
		return Pane{}, fmt.Errorf("tmux split-window: %w", err)
	}
	return parsePaneLine(strings.TrimRight(out, "\n"))
}

// SelectLayout re-tiles the session's window.
func (t *Tmux) SelectLayout(ctx context.Context, session, layout string) error {
	if _, err := t.run(ctx, "select-layout", "-t", "="+session, layout); err != nil {
		return fmt.Errorf("tmux select-layout: %w", err)
	}
	return nil
}

// SetPaneTitle sets a pane's label and disables title rewriting by the
// pane's own process. Agents emit OSC title escapes that would otherwise
// clobber the address label.
func (t *Tmux) SetPaneTitle(ctx context.Context, paneID, title string) error {
	if _, err := t.run(ctx, "select-pane", "-t", paneID, "-T", title); err != nil {
		return fmt.Errorf("tmux select-pane -T: %w", err)
	}
	_, _ = t.run(ctx, "set-option", "-p", "-t", paneID, "allow-set-title", "off")
	return nil
}

// SendLiteral transmits text to a pane as literal input. Single-line text
// goes through send-keys -l. Multi-line text is loaded into a uniquely
// named buffer and pasted, which preserves embedded newlines without the
// pane's shell interpreting each line as a submit.
func (t *Tmux) SendLiteral(ctx context.Context, paneID, text string) error {
	if !strings.Contains(text, "\n") {
		if _, err := t.run(ctx, "send-keys", "-t", paneID, "-l", "--", text); err != nil {
			return fmt.Errorf("tmux send-keys -l: %w", err)
		}
		return nil
	}

	bufferName := "agentmux-" + uuid.NewString()
	load := exec.CommandContext(ctx, "tmux", "load-buffer", "-b", bufferName, "-")
	load.Stdin = strings.NewReader(text)
	if out, err := load.CombinedOutput(); err != nil {
		return fmt.Errorf("tmux load-buffer: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}
	if _, err := t.run(ctx, "paste-buffer", "-p", "-d", "-b", bufferName, "-t", paneID); err != nil {
		_, _ = t.run(ctx, "delete-buffer", "-b", bufferName)
		return fmt.Errorf("tmux paste-buffer: %w", err)
	}
	return nil
}

// SendKey transmits a single key name (e.g. "Enter").
func (t *Tmux) SendKey(ctx context.Context, paneID, key string) error {
	if _, err := t.run(ctx, "send-keys", "-t", paneID, key); err != nil {
		return fmt.Errorf("tmux send-keys %s: %w", key, err)
	}
	return nil
}

// Interrupt sends C-c to a pane.
func (t *Tmux) Interrupt(ctx context.Context, paneID string) error {
	return t.SendKey(ctx, paneID, "C-c")
}

// CapturePane returns the last lines of a pane's visible text.
func (t *Tmux) CapturePane(ctx context.Context, paneID string, lines int) (string, error) {
	args := []string{"capture-pane", "-t", paneID, "-p"}
	if lines > 0 {
		args = append(args, "-S", fmt.Sprintf("-%d", lines))
	}
	out, err := t.run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("tmux capture-pane -t %s: %w", paneID, err)
	}
	return out, nil
}

// ZoomPane toggles zoom on a pane.
func (t *Tmux) ZoomPane(ctx context.Context, paneID string) error {
	if _, err := t.run(ctx, "resize-pane", "-t", paneID, "-Z"); err != nil {
		return fmt.Errorf("tmux resize-pane -Z: %w", err)
	}
	return nil
}

// Attach connects the current client to a session. Inside tmux this is a
// switch-client (attach would nest); outside it is a regular attach with
// the terminal wired through.
func (t *Tmux) Attach(ctx context.Context, session string) error {
	if os.Getenv("TMUX") != "" {
		if _, err := t.run(ctx, "switch-client", "-t", "="+session); err != nil {
			return fmt.Errorf("tmux switch-client: %w", err)
		}
		return nil
	}
	cmd := exec.CommandContext(ctx, "tmux", "attach-session", "-t", "="+session)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// run executes a tmux command and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// parsePaneLine parses one paneFormat line into a Pane. The title is the
// final field and may contain tabs, hence the bounded split.
func parsePaneLine(line string) (Pane, error) {
	parts := strings.SplitN(line, "\t", 6)
	if len(parts) != 6 {
		return Pane{}, fmt.Errorf("invalid pane line %q", line)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return Pane{}, fmt.Errorf("invalid pane index in %q: %w", line, err)
	}
	width, _ := strconv.Atoi(parts[2])
	height, _ := strconv.Atoi(parts[3])
	return Pane{
		ID:      parts[0],
		Index:   index,
		Width:   width,
		Height:  height,
		Command: strings.TrimSpace(parts[4]),
		Title:   strings.TrimSpace(parts[5]),
	}, nil
}
