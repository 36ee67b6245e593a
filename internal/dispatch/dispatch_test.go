package dispatch

import (
	"context"
	"fmt"
	"testing"

	"github.com/agentmux/agentmux/internal/address"
	"github.com/agentmux/agentmux/internal/mux"
)

// fakeMux serves a fixed inventory and records transmissions in order.
type fakeMux struct {
	panes []mux.Pane
	log   []string // "lit:<id>:<text>", "key:<id>:<key>", "int:<id>"
}

func (f *fakeMux) Name() string { return "fake" }

func (f *fakeMux) HasSession(context.Context, string) (bool, error) { return true, nil }
func (f *fakeMux) NewSession(context.Context, string, string) error { return nil }
func (f *fakeMux) KillSession(context.Context, string) error        { return nil }
func (f *fakeMux) ListSessions(context.Context) ([]string, error)   { return nil, nil }

func (f *fakeMux) ListPanes(context.Context, string) ([]mux.Pane, error) {
	return f.panes, nil
}

func (f *fakeMux) SplitPane(context.Context, string, string) (mux.Pane, error) {
	return mux.Pane{}, fmt.Errorf("not supported")
}

func (f *fakeMux) SelectLayout(context.Context, string, string) error { return nil }
func (f *fakeMux) SetPaneTitle(context.Context, string, string) error { return nil }

func (f *fakeMux) SendLiteral(_ context.Context, paneID, text string) error {
	f.log = append(f.log, fmt.Sprintf("lit:%s:%s", paneID, text))
	return nil
}

func (f *fakeMux) SendKey(_ context.Context, paneID, key string) error {
	f.log = append(f.log, fmt.Sprintf("key:%s:%s", paneID, key))
	return nil
}

func (f *fakeMux) Interrupt(_ context.Context, paneID string) error {
	f.log = append(f.log, "int:"+paneID)
	return nil
}

func (f *fakeMux) CapturePane(context.Context, string, int) (string, error) { return "", nil }
func (f *fakeMux) ZoomPane(context.Context, string) error                   { return nil }
func (f *fakeMux) Attach(context.Context, string) error                     { return nil }

func demoInventory() []mux.Pane {
	return []mux.Pane{
		{ID: "%0", Index: 0, Title: "shell"},
		{ID: "%1", Index: 1, Title: "demo__cc_1"},
		{ID: "%2", Index: 2, Title: "demo__cx_1"},
	}
}

func TestDispatchGroupFilter(t *testing.T) {
	f := &fakeMux{panes: demoInventory()}
	d := &Dispatcher{Mux: f}

	count, err := d.Dispatch(context.Background(), "demo", address.ForGroup(address.Claude), "hello")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	want := []string{"lit:%1:hello", "key:%1:Enter"}
	if len(f.log) != len(want) {
		t.Fatalf("log = %v, want %v", f.log, want)
	}
	for i := range want {
		if f.log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, f.log[i], want[i])
		}
	}
}

func TestDispatchPayloadBeforeSubmit(t *testing.T) {
	f := &fakeMux{panes: demoInventory()}
	d := &Dispatcher{Mux: f}

	if _, err := d.Dispatch(context.Background(), "demo", address.AllPanes(), "run tests"); err != nil {
		t.Fatal(err)
	}
	// Per pane: text first, submit second, before moving to the next pane.
	want := []string{
		"lit:%0:run tests", "key:%0:Enter",
		"lit:%1:run tests", "key:%1:Enter",
		"lit:%2:run tests", "key:%2:Enter",
	}
	for i := range want {
		if f.log[i] != want[i] {
			t.Fatalf("log = %v, want %v", f.log, want)
		}
	}
}

func TestDispatchAllExceptFirst(t *testing.T) {
	f := &fakeMux{panes: demoInventory()}
	d := &Dispatcher{Mux: f}

	count, err := d.Dispatch(context.Background(), "demo", address.AllExceptFirst(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	for _, entry := range f.log {
		if entry == "lit:%0:x" {
			t.Error("user pane received a skip-first broadcast")
		}
	}
}

func TestDispatchZeroMatchesInformational(t *testing.T) {
	f := &fakeMux{panes: demoInventory()}
	d := &Dispatcher{Mux: f}

	count, err := d.Dispatch(context.Background(), "demo", address.ForGroup(address.Gemini), "x")
	if err != nil {
		t.Fatalf("zero matches must not be an error, got %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if len(f.log) != 0 {
		t.Errorf("zero-match dispatch transmitted %v", f.log)
	}
}

func TestDispatchMissingPaneIndex(t *testing.T) {
	f := &fakeMux{panes: demoInventory()}
	d := &Dispatcher{Mux: f}

	if _, err := d.Dispatch(context.Background(), "demo", address.Pane(7), "x"); err == nil {
		t.Fatal("dispatch to missing pane index: want error, got nil")
	}
	if len(f.log) != 0 {
		t.Errorf("failed resolution must not transmit, got %v", f.log)
	}
}

func TestInterruptSkipsUserPane(t *testing.T) {
	f := &fakeMux{panes: demoInventory()}
	d := &Dispatcher{Mux: f}

	count, err := d.Interrupt(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Interrupt: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	want := []string{"int:%1", "int:%2"}
	if len(f.log) != len(want) {
		t.Fatalf("log = %v, want %v", f.log, want)
	}
	for i := range want {
		if f.log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, f.log[i], want[i])
		}
	}
}

func TestInterruptNoAgents(t *testing.T) {
	f := &fakeMux{panes: []mux.Pane{{ID: "%0", Index: 0, Title: "shell"}}}
	d := &Dispatcher{Mux: f}

	count, err := d.Interrupt(context.Background(), "demo")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 || len(f.log) != 0 {
		t.Errorf("count = %d, log = %v, want no signals", count, f.log)
	}
}
