// Package status reports the pane inventory of an agent session.
package status

import (
	"context"
	"fmt"

	"github.com/agentmux/agentmux/internal/address"
	"github.com/agentmux/agentmux/internal/mux"
)

// PaneStatus is the per-pane view of a session.
type PaneStatus struct {
	Index   int
	Label   string
	Command string
	Size    string // "WxH"
	Group   address.Group
	Agent   bool
}

// Report aggregates a session's panes and per-group counts.
type Report struct {
	Session string
	Panes   []PaneStatus
	Counts  map[address.Group]int
}

// Reporter produces Reports from the live inventory. Pure read: one
// inventory query, no side effects.
type Reporter struct {
	Mux mux.Multiplexer
}

// Report reads the session's pane inventory and partitions labels by
// group-marker containment.
func (r *Reporter) Report(ctx context.Context, session string) (*Report, error) {
	exists, err := r.Mux.HasSession(ctx, session)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", mux.ErrSessionNotFound, session)
	}

	panes, err := r.Mux.ListPanes(ctx, session)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Session: session,
		Counts:  map[address.Group]int{},
	}
	for _, p := range panes {
		ps := PaneStatus{
			Index:   p.Index,
			Label:   p.Title,
			Command: p.Command,
			Size:    fmt.Sprintf("%dx%d", p.Width, p.Height),
		}
		if g, ok := address.GroupOf(p.Title); ok {
			ps.Group = g
			ps.Agent = true
			report.Counts[g]++
		}
		report.Panes = append(report.Panes, ps)
	}
	return report, nil
}
