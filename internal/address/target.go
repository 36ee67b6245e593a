package address

import (
	"fmt"

	"github.com/agentmux/agentmux/internal/mux"
)

// targetKind discriminates the Target variants.
type targetKind int

const (
	kindAll targetKind = iota
	kindAllExceptFirst
	kindGroup
	kindPane
)

// Target describes which panes a dispatch should reach. It is a tagged
// variant: exactly one of the four constructors produces a valid Target,
// and Resolve is the only consumer.
type Target struct {
	kind  targetKind
	group Group
	pane  int
}

// AllPanes targets every pane in the session, including the user pane.
func AllPanes() Target { return Target{kind: kindAll} }

// AllExceptFirst targets every pane except the one at the lowest index,
// which by convention is the reserved user pane.
func AllExceptFirst() Target { return Target{kind: kindAllExceptFirst} }

// ForGroup targets panes whose label contains the group marker.
func ForGroup(g Group) Target { return Target{kind: kindGroup, group: g} }

// Pane targets the single pane at the given index, regardless of label.
func Pane(index int) Target { return Target{kind: kindPane, pane: index} }

// String renders the target for diagnostics.
func (t Target) String() string {
	switch t.kind {
	case kindAll:
		return "all"
	case kindAllExceptFirst:
		return "all-except-first"
	case kindGroup:
		return "group:" + string(t.group)
	default:
		return fmt.Sprintf("pane:%d", t.pane)
	}
}

// Resolve applies the target to a live pane inventory and returns the
// matching panes in inventory order. The inventory must be read immediately
// before each dispatch — targets are never resolved against cached state.
//
// A group or broadcast target matching zero panes is not an error; the
// empty result is informational. A pane-index target that names a missing
// index is an error.
func Resolve(t Target, panes []mux.Pane) ([]mux.Pane, error) {
	switch t.kind {
	case kindAll:
		return panes, nil

	case kindAllExceptFirst:
		if len(panes) == 0 {
			return nil, nil
		}
		lowest := 0
		for i, p := range panes {
			if p.Index < panes[lowest].Index {
				lowest = i
			}
		}
		out := make([]mux.Pane, 0, len(panes)-1)
		for i, p := range panes {
			if i == lowest {
				continue
			}
			out = append(out, p)
		}
		return out, nil

	case kindGroup:
		var out []mux.Pane
		for _, p := range panes {
			if Matches(p.Title, t.group) {
				out = append(out, p)
			}
		}
		return out, nil

	case kindPane:
		for _, p := range panes {
			if p.Index == t.pane {
				return []mux.Pane{p}, nil
			}
		}
		return nil, fmt.Errorf("no pane with index %d", t.pane)
	}
	return nil, fmt.Errorf("unresolvable target %v", t)
}
