// Package address defines the pane labeling convention used to identify
// agent panes inside a shared tmux session.
//
// An agent pane is labeled "<session>__<group>_<ordinal>", e.g. "demo__cc_1".
// The double underscore before the group marker keeps false-positive
// substring matches against ordinary session or project names unlikely.
// It is a convention, not a guarantee: a session whose name itself contains
// "__cc" would satisfy the Claude group filter. Session name validation
// rejects tmux-reserved characters but deliberately does not reject such
// names (see DESIGN.md).
package address

import (
	"fmt"
	"strings"
)

// Group identifies one of the supported agent kinds.
type Group string

const (
	// Claude is the Claude Code agent group (marker "cc").
	Claude Group = "cc"
	// Codex is the Codex agent group (marker "cx").
	Codex Group = "cx"
	// Gemini is the Gemini agent group (marker "gm").
	Gemini Group = "gm"
)

// Groups lists all agent groups in spawn order. The order is fixed:
// spawn and restart always iterate Claude, then Codex, then Gemini.
var Groups = []Group{Claude, Codex, Gemini}

// FromName resolves a user-supplied group name to a Group.
// Accepts both the short marker ("cc") and the agent name ("claude").
func FromName(name string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cc", "claude":
		return Claude, nil
	case "cx", "codex":
		return Codex, nil
	case "gm", "gemini":
		return Gemini, nil
	}
	return "", fmt.Errorf("unknown agent group %q (supported: cc, cx, gm)", name)
}

// String returns the group marker.
func (g Group) String() string { return string(g) }

// Marker returns the label substring that identifies this group,
// including the double-underscore separator.
func (g Group) Marker() string { return "__" + string(g) }

// Encode builds the pane label for an agent. When added is true the label
// carries an "added" segment before the ordinal, marking agents appended
// after the initial spawn: "demo__cc_added_2".
func Encode(session string, group Group, ordinal int, added bool) string {
	if added {
		return fmt.Sprintf("%s__%s_added_%d", session, group, ordinal)
	}
	return fmt.Sprintf("%s__%s_%d", session, group, ordinal)
}

// Matches reports whether a pane label belongs to the given group.
// Pure substring containment on the group marker — no parsing.
func Matches(label string, group Group) bool {
	return strings.Contains(label, group.Marker())
}

// MatchesAny reports whether a pane label belongs to any agent group.
// Used by the interrupt dispatch, which must reach every agent pane while
// skipping the unlabeled user pane.
func MatchesAny(label string) bool {
	for _, g := range Groups {
		if Matches(label, g) {
			return true
		}
	}
	return false
}

// GroupOf returns the group a label belongs to. The second return value is
// false for unlabeled panes (e.g. the user pane).
func GroupOf(label string) (Group, bool) {
	for _, g := range Groups {
		if Matches(label, g) {
			return g, true
		}
	}
	return "", false
}
