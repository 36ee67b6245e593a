// Package mux provides an abstraction over terminal multiplexers (tmux,
// zellij).
//
// This package is pure transport: it creates sessions and panes, labels
// them, and moves raw bytes in and out. It never interprets pane content —
// the agents running inside the panes are opaque subprocesses.
package mux

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidSessionName = errors.New("invalid session name")
)

// Pane describes one pane of a session as reported by the multiplexer.
type Pane struct {
	// ID is the multiplexer-assigned pane identifier (e.g. "%3").
	// Opaque and stable for the pane's life, unlike Index.
	ID string
	// Index is the pane's position within its window. Renumbered by the
	// multiplexer when other panes close.
	Index int
	// Title is the pane's mutable label. Agent panes carry an address
	// label; the user pane keeps whatever tmux assigned.
	Title string
	// Command is the command currently running in the pane.
	Command string
	// Width and Height are the pane dimensions in cells.
	Width, Height int
}

// Multiplexer abstracts the terminal multiplexer operations the
// orchestrator needs. Implementations exist for tmux; zellij is a
// placeholder.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g. "tmux").
	Name() string

	// HasSession reports whether a session with the given name exists.
	HasSession(ctx context.Context, session string) (bool, error)

	// NewSession creates a detached session rooted at dir.
	NewSession(ctx context.Context, session, dir string) error

	// KillSession destroys a session and every process in it.
	KillSession(ctx context.Context, session string) error

	// ListSessions returns the names of all live sessions.
	ListSessions(ctx context.Context) ([]string, error)

	// ListPanes returns the session's panes in current index order.
	ListPanes(ctx context.Context, session string) ([]Pane, error)

	// SplitPane splits a new pane into the session's window, rooted at
	// dir, and returns the created pane directly. Returning the pane from
	// the split avoids re-querying the inventory and racing against
	// concurrent renumbering.
	SplitPane(ctx context.Context, session, dir string) (Pane, error)

	// SelectLayout re-tiles the session's window with the named layout.
	SelectLayout(ctx context.Context, session, layout string) error

	// SetPaneTitle sets a pane's label.
	SetPaneTitle(ctx context.Context, paneID, title string) error

	// SendLiteral transmits text to a pane as literal input, without a
	// trailing submit. Multi-line text is delivered intact.
	SendLiteral(ctx context.Context, paneID, text string) error

	// SendKey transmits a single key name (e.g. "Enter", "Escape").
	SendKey(ctx context.Context, paneID, key string) error

	// Interrupt sends an interrupt signal (C-c) to a pane.
	Interrupt(ctx context.Context, paneID string) error

	// CapturePane returns the last lines of a pane's visible text.
	// lines <= 0 captures the full visible screen.
	CapturePane(ctx context.Context, paneID string, lines int) (string, error)

	// ZoomPane toggles zoom on a pane.
	ZoomPane(ctx context.Context, paneID string) error

	// Attach attaches the current client to a session, or switches the
	// client when already running inside the multiplexer.
	Attach(ctx context.Context, session string) error
}

// ValidateSessionName checks that a session name is usable as a tmux
// target. Names containing ':' or '.' collide with the target path syntax
// ("session:window.pane") and cause cryptic failures, so they are rejected
// up front. Names that happen to embed a group marker substring are
// accepted; that ambiguity is documented in package address.
func ValidateSessionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidSessionName)
	}
	if strings.ContainsAny(name, ":.") {
		return fmt.Errorf("%w %q: must not contain ':' or '.'", ErrInvalidSessionName, name)
	}
	return nil
}
