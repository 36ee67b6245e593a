package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentmux/agentmux/internal/address"
)

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// view mode
type viewMode int

const (
	modeRecordList viewMode = iota
	modeTargetList
	modePaneInput
)

// Selection is the outcome of an interactive palette run. Canceled is
// true when the user backed out at any step; a canceled run dispatches
// nothing and is not an error.
type Selection struct {
	Record   Record
	Target   address.Target
	Canceled bool
}

// targetChoice is one row of the fixed target menu.
type targetChoice struct {
	label  string
	target address.Target
	pane   bool // prompts for a pane index instead of a fixed target
}

func targetChoices() []targetChoice {
	return []targetChoice{
		{label: "all agents", target: address.AllExceptFirst()},
		{label: "claude (cc)", target: address.ForGroup(address.Claude)},
		{label: "codex (cx)", target: address.ForGroup(address.Codex)},
		{label: "gemini (gm)", target: address.ForGroup(address.Gemini)},
		{label: "specific pane...", pane: true},
	}
}

// Selector runs the interactive two-step command picker: choose a
// record, then choose a dispatch target.
type Selector struct {
	Records []Record
}

// Run blocks until the user picks a record and target, or cancels.
func (s *Selector) Run() (Selection, error) {
	ti := textinput.New()
	ti.Placeholder = "Filter commands..."
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	pi := textinput.New()
	pi.Placeholder = "Pane index"
	pi.CharLimit = 4
	pi.Width = 10

	m := &selectorModel{
		records:   s.Records,
		filter:    ti,
		paneInput: pi,
		targets:   targetChoices(),
	}
	m.refilter()

	p := tea.NewProgram(m, tea.WithAltScreen())
	out, err := p.Run()
	if err != nil {
		return Selection{Canceled: true}, err
	}
	final, ok := out.(*selectorModel)
	if !ok || !final.done {
		return Selection{Canceled: true}, nil
	}
	return Selection{Record: final.chosen, Target: final.target}, nil
}

// selectorModel implements tea.Model.
type selectorModel struct {
	records []Record
	mode    viewMode

	// record list state
	filter   textinput.Model
	filtered []int // indices into records
	cursor   int

	// target menu state
	targets      []targetChoice
	targetCursor int
	paneInput    textinput.Model
	paneErr      string

	// outcome
	done   bool
	chosen Record
	target address.Target

	width  int
	height int
}

func (m *selectorModel) Init() tea.Cmd {
	return textinput.Blink
}

// refilter rebuilds the visible record list from the filter text.
// Matching is a case-insensitive substring test over key and label.
func (m *selectorModel) refilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.filtered = m.filtered[:0]
	for i, r := range m.records {
		if query == "" ||
			strings.Contains(strings.ToLower(r.Key), query) ||
			strings.Contains(strings.ToLower(r.Label), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

func (m *selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeRecordList:
			return m.handleRecordKey(msg)
		case modeTargetList:
			return m.handleTargetKey(msg)
		case modePaneInput:
			return m.handlePaneKey(msg)
		}
	}
	return m, nil
}

func (m *selectorModel) handleRecordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if m.cursor < 0 || m.cursor >= len(m.filtered) {
			return m, nil
		}
		m.chosen = m.records[m.filtered[m.cursor]]
		m.mode = modeTargetList
		m.targetCursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *selectorModel) handleTargetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "ctrl+p", "k":
		if m.targetCursor > 0 {
			m.targetCursor--
		}

	case "down", "ctrl+n", "j":
		if m.targetCursor < len(m.targets)-1 {
			m.targetCursor++
		}

	case "enter":
		choice := m.targets[m.targetCursor]
		if choice.pane {
			m.mode = modePaneInput
			m.paneErr = ""
			m.paneInput.SetValue("")
			m.paneInput.Focus()
			return m, textinput.Blink
		}
		m.target = choice.target
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *selectorModel) handlePaneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m, tea.Quit

	case "enter":
		idx, err := strconv.Atoi(strings.TrimSpace(m.paneInput.Value()))
		if err != nil || idx < 0 {
			m.paneErr = "pane index must be a non-negative integer"
			return m, nil
		}
		m.target = address.Pane(idx)
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.paneInput, cmd = m.paneInput.Update(msg)
	return m, cmd
}

func (m *selectorModel) View() string {
	switch m.mode {
	case modeRecordList:
		return m.viewRecordList()
	case modeTargetList:
		return m.viewTargetList()
	case modePaneInput:
		return m.viewPaneInput()
	}
	return ""
}

func (m *selectorModel) viewRecordList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Command Palette"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("↑↓=select  Enter=choose  Esc=cancel"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.filter.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  No matching commands.\n"))
		return b.String()
	}

	keyWidth := 0
	for _, ri := range m.filtered {
		if len(m.records[ri].Key) > keyWidth {
			keyWidth = len(m.records[ri].Key)
		}
	}

	for i, ri := range m.filtered {
		r := m.records[ri]
		line := fmt.Sprintf("  %-*s  %s", keyWidth, r.Key, r.Label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("→" + line[1:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	// Preview the first lines of the selected prompt.
	if m.cursor >= 0 && m.cursor < len(m.filtered) {
		body := m.records[m.filtered[m.cursor]].Body()
		b.WriteString("\n")
		for i, line := range strings.Split(body, "\n") {
			if i >= 6 {
				b.WriteString(dimStyle.Render("  ..."))
				b.WriteString("\n")
				break
			}
			b.WriteString(dimStyle.Render("  " + truncate(line, 76)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m *selectorModel) viewTargetList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Send To"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("↑↓=select  Enter=send  Esc=cancel"))
	b.WriteString("\n\n")
	b.WriteString("  " + labelStyle.Render(m.chosen.Key))
	b.WriteString(dimStyle.Render("  " + truncate(m.chosen.Label, 60)))
	b.WriteString("\n\n")

	for i, c := range m.targets {
		line := "  " + c.label
		if i == m.targetCursor {
			b.WriteString(selectedStyle.Render("→" + line[1:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *selectorModel) viewPaneInput() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pane Index"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Enter=send  Esc=cancel"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.paneInput.View())
	b.WriteString("\n")
	if m.paneErr != "" {
		b.WriteString(dimStyle.Render("  " + m.paneErr))
		b.WriteString("\n")
	}
	return b.String()
}

// truncate cuts a string to at most maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
