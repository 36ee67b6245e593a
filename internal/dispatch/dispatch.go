// Package dispatch transmits payloads to targeted sets of panes.
package dispatch

import (
	"context"
	"time"

	"github.com/agentmux/agentmux/internal/address"
	"github.com/agentmux/agentmux/internal/mux"
	"github.com/agentmux/agentmux/internal/otel"
)

// Dispatcher resolves a target against the live pane inventory and
// transmits input to each matching pane, one at a time in index order.
type Dispatcher struct {
	Mux mux.Multiplexer

	// SubmitDelay is the pause between sending payload text and the
	// submit keystroke. Agent CLIs need the text fully received before
	// the submit is processed.
	SubmitDelay time.Duration

	// Stagger is the pause between successive panes during a broadcast.
	// A plain sleep: once started it runs to completion.
	Stagger time.Duration

	// Metrics is optional; nil disables recording.
	Metrics *otel.Metrics
}

// Dispatch sends payload to every pane the target resolves to, each as a
// literal transmission followed by a discrete Enter. The inventory is read
// fresh on every call — never cached — so panes spawned since the last
// read are included and panes gone are skipped.
//
// Returns the number of panes reached. Zero matches is informational, not
// an error.
func (d *Dispatcher) Dispatch(ctx context.Context, session string, target address.Target, payload string) (int, error) {
	panes, err := d.Mux.ListPanes(ctx, session)
	if err != nil {
		return 0, err
	}
	matched, err := address.Resolve(target, panes)
	if err != nil {
		return 0, err
	}

	for i, pane := range matched {
		if i > 0 && d.Stagger > 0 {
			time.Sleep(d.Stagger)
		}
		if err := d.Mux.SendLiteral(ctx, pane.ID, payload); err != nil {
			return i, err
		}
		if d.SubmitDelay > 0 {
			time.Sleep(d.SubmitDelay)
		}
		if err := d.Mux.SendKey(ctx, pane.ID, "Enter"); err != nil {
			return i, err
		}
	}

	d.Metrics.RecordDispatch(ctx, target.String(), len(matched))
	return len(matched), nil
}

// Interrupt sends the interrupt signal to every labeled agent pane in the
// session. The user pane is excluded by construction: it carries no agent
// label.
func (d *Dispatcher) Interrupt(ctx context.Context, session string) (int, error) {
	panes, err := d.Mux.ListPanes(ctx, session)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, pane := range panes {
		if !address.MatchesAny(pane.Title) {
			continue
		}
		if err := d.Mux.Interrupt(ctx, pane.ID); err != nil {
			return count, err
		}
		count++
	}

	d.Metrics.RecordInterrupt(ctx, count)
	return count, nil
}
