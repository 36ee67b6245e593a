package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/agentmux/agentmux/internal/address"
	"github.com/agentmux/agentmux/internal/mux"
)

// fakeMux is an in-memory Multiplexer for lifecycle tests. It records
// every transmission per pane as "lit:<text>", "key:<key>" or "int".
type fakeMux struct {
	sessions map[string][]mux.Pane
	nextID   int
	sent     map[string][]string
	layouts  int
	splits   int
}

func newFakeMux() *fakeMux {
	return &fakeMux{
		sessions: map[string][]mux.Pane{},
		sent:     map[string][]string{},
	}
}

func (f *fakeMux) Name() string { return "fake" }

func (f *fakeMux) HasSession(_ context.Context, session string) (bool, error) {
	_, ok := f.sessions[session]
	return ok, nil
}

func (f *fakeMux) NewSession(_ context.Context, session, dir string) error {
	if _, ok := f.sessions[session]; ok {
		return fmt.Errorf("duplicate session %q", session)
	}
	f.sessions[session] = []mux.Pane{{ID: f.id(), Index: 0, Title: "shell", Command: "zsh"}}
	return nil
}

func (f *fakeMux) KillSession(_ context.Context, session string) error {
	delete(f.sessions, session)
	return nil
}

func (f *fakeMux) ListSessions(_ context.Context) ([]string, error) {
	var names []string
	for name := range f.sessions {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeMux) ListPanes(_ context.Context, session string) ([]mux.Pane, error) {
	panes, ok := f.sessions[session]
	if !ok {
		return nil, fmt.Errorf("no session %q", session)
	}
	out := make([]mux.Pane, len(panes))
	copy(out, panes)
	return out, nil
}

func (f *fakeMux) SplitPane(_ context.Context, session, dir string) (mux.Pane, error) {
	panes, ok := f.sessions[session]
	if !ok {
		return mux.Pane{}, fmt.Errorf("no session %q", session)
	}
	pane := mux.Pane{ID: f.id(), Index: len(panes), Command: "zsh"}
	f.sessions[session] = append(panes, pane)
	f.splits++
	return pane, nil
}

func (f *fakeMux) SelectLayout(_ context.Context, session, layout string) error {
	f.layouts++
	return nil
}

func (f *fakeMux) SetPaneTitle(_ context.Context, paneID, title string) error {
	for session, panes := range f.sessions {
		for i, p := range panes {
			if p.ID == paneID {
				f.sessions[session][i].Title = title
				return nil
			}
		}
	}
	return fmt.Errorf("no pane %q", paneID)
}

func (f *fakeMux) SendLiteral(_ context.Context, paneID, text string) error {
	f.sent[paneID] = append(f.sent[paneID], "lit:"+text)
	return nil
}

func (f *fakeMux) SendKey(_ context.Context, paneID, key string) error {
	f.sent[paneID] = append(f.sent[paneID], "key:"+key)
	return nil
}

func (f *fakeMux) Interrupt(_ context.Context, paneID string) error {
	f.sent[paneID] = append(f.sent[paneID], "int")
	return nil
}

func (f *fakeMux) CapturePane(_ context.Context, paneID string, lines int) (string, error) {
	return "", nil
}

func (f *fakeMux) ZoomPane(_ context.Context, paneID string) error { return nil }

func (f *fakeMux) Attach(_ context.Context, session string) error { return nil }

func (f *fakeMux) id() string {
	id := fmt.Sprintf("%%%d", f.nextID)
	f.nextID++
	return id
}

func (f *fakeMux) titleByIndex(t *testing.T, session string, index int) string {
	t.Helper()
	for _, p := range f.sessions[session] {
		if p.Index == index {
			return p.Title
		}
	}
	t.Fatalf("no pane with index %d in %q", index, session)
	return ""
}

func newManager(f *fakeMux) *Manager {
	return &Manager{Mux: f}
}

func TestEnsureIdempotent(t *testing.T) {
	f := newFakeMux()
	m := newManager(f)
	ctx := context.Background()

	if err := m.Ensure(ctx, "demo", "/tmp/demo"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	// Second Ensure must not attempt a second create (fakeMux errors on
	// duplicate NewSession).
	if err := m.Ensure(ctx, "demo", "/tmp/demo"); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if len(f.sessions["demo"]) != 1 {
		t.Errorf("session has %d panes, want 1", len(f.sessions["demo"]))
	}
}

func TestEnsureRejectsReservedCharacters(t *testing.T) {
	m := newManager(newFakeMux())
	for _, name := range []string{"a:b", "a.b", ""} {
		if err := m.Ensure(context.Background(), name, "/tmp"); !errors.Is(err, mux.ErrInvalidSessionName) {
			t.Errorf("Ensure(%q) error = %v, want ErrInvalidSessionName", name, err)
		}
	}
}

func TestEnsurePaneCountGrowsAndNeverShrinks(t *testing.T) {
	f := newFakeMux()
	m := newManager(f)
	ctx := context.Background()

	if err := m.Ensure(ctx, "demo", "/tmp/demo"); err != nil {
		t.Fatal(err)
	}
	if err := m.EnsurePaneCount(ctx, "demo", "/tmp/demo", 4); err != nil {
		t.Fatalf("EnsurePaneCount: %v", err)
	}
	if got := len(f.sessions["demo"]); got != 4 {
		t.Fatalf("pane count = %d, want 4", got)
	}
	if f.layouts != 3 {
		t.Errorf("layout re-tiled %d times, want 3 (once per split)", f.layouts)
	}

	// Same call again: no change. Smaller requirement: no shrink.
	if err := m.EnsurePaneCount(ctx, "demo", "/tmp/demo", 4); err != nil {
		t.Fatal(err)
	}
	if err := m.EnsurePaneCount(ctx, "demo", "/tmp/demo", 2); err != nil {
		t.Fatal(err)
	}
	if got := len(f.sessions["demo"]); got != 4 {
		t.Errorf("pane count after repeat/shrink calls = %d, want 4", got)
	}
}

func TestEnsurePaneCountMissingSession(t *testing.T) {
	m := newManager(newFakeMux())
	err := m.EnsurePaneCount(context.Background(), "ghost", "/tmp", 3)
	if !errors.Is(err, mux.ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestSpawnAgentsLabelsAndLaunches(t *testing.T) {
	f := newFakeMux()
	m := newManager(f)
	m.Launch = map[address.Group]string{address.Claude: "claude", address.Codex: "codex"}
	ctx := context.Background()

	if err := m.Ensure(ctx, "demo", "/work/demo"); err != nil {
		t.Fatal(err)
	}
	if err := m.EnsurePaneCount(ctx, "demo", "/work/demo", 4); err != nil {
		t.Fatal(err)
	}

	n, err := m.SpawnAgents(ctx, "demo", "/work/demo", Counts{Claude: 2, Codex: 1})
	if err != nil {
		t.Fatalf("SpawnAgents: %v", err)
	}
	if n != 3 {
		t.Errorf("spawned %d agents, want 3", n)
	}

	// Pane 0 stays unlabeled; groups fill in fixed order by pane index.
	if got := f.titleByIndex(t, "demo", 0); got != "shell" {
		t.Errorf("user pane title = %q, want untouched", got)
	}
	wantTitles := map[int]string{
		1: "demo__cc_1",
		2: "demo__cc_2",
		3: "demo__cx_1",
	}
	for index, want := range wantTitles {
		if got := f.titleByIndex(t, "demo", index); got != want {
			t.Errorf("pane %d title = %q, want %q", index, got, want)
		}
	}

	// Each agent pane got: cd line + Enter, then launch + Enter.
	for _, p := range f.sessions["demo"][1:] {
		sent := f.sent[p.ID]
		if len(sent) != 4 {
			t.Fatalf("pane %s: %d transmissions, want 4: %v", p.ID, len(sent), sent)
		}
		if !strings.HasPrefix(sent[0], "lit:cd '/work/demo'") || sent[1] != "key:Enter" {
			t.Errorf("pane %s: first line = %v, want cd + Enter", p.ID, sent[:2])
		}
		if sent[3] != "key:Enter" {
			t.Errorf("pane %s: launch not submitted: %v", p.ID, sent)
		}
	}
	if got := f.sent[f.sessions["demo"][3].ID][2]; got != "lit:codex" {
		t.Errorf("codex pane launch = %q, want lit:codex", got)
	}
}

func TestSpawnAgentsSplitsWhenAllocationExhausted(t *testing.T) {
	f := newFakeMux()
	m := newManager(f)
	ctx := context.Background()

	if err := m.Ensure(ctx, "demo", "/tmp/demo"); err != nil {
		t.Fatal(err)
	}
	// Only the user pane exists; both agents need fresh splits.
	n, err := m.SpawnAgents(ctx, "demo", "/tmp/demo", Counts{Gemini: 2})
	if err != nil {
		t.Fatalf("SpawnAgents: %v", err)
	}
	if n != 2 {
		t.Errorf("spawned %d, want 2", n)
	}
	if f.splits != 2 {
		t.Errorf("splits = %d, want 2", f.splits)
	}
	if got := f.titleByIndex(t, "demo", 2); got != "demo__gm_2" {
		t.Errorf("pane 2 title = %q, want demo__gm_2", got)
	}
}

func TestSpawnAgentsNotIdempotent(t *testing.T) {
	f := newFakeMux()
	m := newManager(f)
	ctx := context.Background()

	if err := m.Ensure(ctx, "demo", "/tmp/demo"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SpawnAgents(ctx, "demo", "/tmp/demo", Counts{Claude: 1}); err != nil {
		t.Fatal(err)
	}
	// A second spawn does not detect the running agent; it splits a new
	// pane for a second cc_1. Documented tradeoff.
	if _, err := m.SpawnAgents(ctx, "demo", "/tmp/demo", Counts{Claude: 1}); err != nil {
		t.Fatal(err)
	}
	labeled := 0
	for _, p := range f.sessions["demo"] {
		if address.Matches(p.Title, address.Claude) {
			labeled++
		}
	}
	if labeled != 2 {
		t.Errorf("labeled cc panes = %d, want 2 (spawn is not idempotent)", labeled)
	}
}

func TestSpawnAgentsMissingSession(t *testing.T) {
	m := newManager(newFakeMux())
	_, err := m.SpawnAgents(context.Background(), "ghost", "/tmp", Counts{Claude: 1})
	if !errors.Is(err, mux.ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestAddAgentsUsesAddedLabels(t *testing.T) {
	f := newFakeMux()
	m := newManager(f)
	ctx := context.Background()

	if err := m.Ensure(ctx, "demo", "/tmp/demo"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SpawnAgents(ctx, "demo", "/tmp/demo", Counts{Claude: 2}); err != nil {
		t.Fatal(err)
	}

	splitsBefore := f.splits
	n, err := m.AddAgents(ctx, "demo", "/tmp/demo", Counts{Claude: 1, Gemini: 1})
	if err != nil {
		t.Fatalf("AddAgents: %v", err)
	}
	if n != 2 {
		t.Errorf("added %d, want 2", n)
	}
	if f.splits != splitsBefore+2 {
		t.Errorf("AddAgents split %d panes, want 2 (always splits)", f.splits-splitsBefore)
	}

	var titles []string
	for _, p := range f.sessions["demo"] {
		titles = append(titles, p.Title)
	}
	joined := strings.Join(titles, " ")
	if !strings.Contains(joined, "demo__cc_added_3") {
		t.Errorf("cc ordinal should continue after existing panes: %v", titles)
	}
	if !strings.Contains(joined, "demo__gm_added_1") {
		t.Errorf("gm added label missing: %v", titles)
	}
}

func TestRestartInterruptsAndRelaunches(t *testing.T) {
	f := newFakeMux()
	m := newManager(f)
	ctx := context.Background()

	if err := m.Ensure(ctx, "demo", "/tmp/demo"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SpawnAgents(ctx, "demo", "/tmp/demo", Counts{Claude: 1, Codex: 1}); err != nil {
		t.Fatal(err)
	}
	for id := range f.sent {
		f.sent[id] = nil
	}

	n, err := m.Restart(ctx, "demo", "/tmp/demo")
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if n != 2 {
		t.Errorf("restarted %d, want 2", n)
	}

	userPane := f.sessions["demo"][0]
	if len(f.sent[userPane.ID]) != 0 {
		t.Errorf("user pane received %v during restart", f.sent[userPane.ID])
	}
	for _, p := range f.sessions["demo"][1:] {
		sent := f.sent[p.ID]
		if len(sent) == 0 || sent[0] != "int" {
			t.Errorf("pane %s: restart did not interrupt first: %v", p.ID, sent)
		}
		if len(sent) != 5 {
			t.Errorf("pane %s: %d transmissions, want interrupt + cd/Enter + launch/Enter: %v", p.ID, len(sent), sent)
		}
	}
}
