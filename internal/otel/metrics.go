package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "agentmux"

// Metrics holds all OTEL metric instruments for agentmux.
// All counters are cumulative (monotonic) and safe for concurrent use.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Dispatch counters (partitioned by target kind via attributes)
	Dispatches      metric.Int64Counter
	DispatchedPanes metric.Int64Counter

	// Lifecycle counters
	SpawnedAgents metric.Int64Counter
	Interrupts    metric.Int64Counter

	// Palette counters
	PaletteSelections metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Dispatches, err = meter.Int64Counter("dispatch.total",
		metric.WithDescription("Total dispatch operations partitioned by target kind"))
	if err != nil {
		return nil, err
	}

	m.DispatchedPanes, err = meter.Int64Counter("dispatch.panes",
		metric.WithDescription("Total panes reached by dispatch operations"),
		metric.WithUnit("{pane}"))
	if err != nil {
		return nil, err
	}

	m.SpawnedAgents, err = meter.Int64Counter("agents.spawned",
		metric.WithDescription("Total agent processes spawned, partitioned by group"),
		metric.WithUnit("{agent}"))
	if err != nil {
		return nil, err
	}

	m.Interrupts, err = meter.Int64Counter("interrupts.total",
		metric.WithDescription("Total interrupt signals sent to agent panes"))
	if err != nil {
		return nil, err
	}

	m.PaletteSelections, err = meter.Int64Counter("palette.selections",
		metric.WithDescription("Total palette records dispatched"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDispatch records one dispatch operation and the panes it reached.
func (m *Metrics) RecordDispatch(ctx context.Context, target string, panes int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("dispatch.target", target))
	m.Dispatches.Add(ctx, 1, attrs)
	m.DispatchedPanes.Add(ctx, int64(panes), attrs)
}

// RecordSpawn records spawned agents for a group.
func (m *Metrics) RecordSpawn(ctx context.Context, group string, count int) {
	if m == nil {
		return
	}
	m.SpawnedAgents.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("agent.group", group),
	))
}

// RecordInterrupt records interrupt signals sent.
func (m *Metrics) RecordInterrupt(ctx context.Context, count int) {
	if m == nil {
		return
	}
	m.Interrupts.Add(ctx, int64(count))
}

// RecordPaletteSelection records one palette record dispatched.
func (m *Metrics) RecordPaletteSelection(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.PaletteSelections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("palette.key", key),
	))
}
