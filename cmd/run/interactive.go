package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/plugin-runtime/runtime"
	"github.com/wippyai/plugin-runtime/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	inputEchoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD580"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// historyLimit bounds the scrollback kept on screen.
const historyLimit = 20

type entry struct {
	input    string
	output   string
	warnings []string
	isErr    bool
}

type replModel struct {
	st      *store.Store
	rt      *runtime.Runtime
	input   textinput.Model
	history []entry
}

func newReplModel(arenaSize int) *replModel {
	ti := textinput.New()
	ti.Placeholder = `{"json": "document"}`
	ti.Prompt = "> "
	ti.Width = 72
	ti.Focus()

	st := store.New()
	return &replModel{
		st:    st,
		rt:    runtime.New(st, runtime.WithArenaSize(arenaSize)),
		input: ti,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

// eval decodes one document and re-encodes it through the runtime. The
// value store persists across entries, so handles accumulate.
func (m *replModel) eval(doc string) entry {
	before := len(m.st.Warnings())
	e := entry{input: doc}

	root, err := m.rt.FromJSON([]byte(doc))
	if err != nil {
		e.output, e.isErr = err.Error(), true
	} else if out, err := m.rt.ToJSON(root); err != nil {
		e.output, e.isErr = err.Error(), true
	} else {
		e.output = fmt.Sprintf("%s  (%s)", m.st.StringBytes(out), m.st.TypeOf(root))
	}

	e.warnings = m.st.Warnings()[before:]
	return e
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			doc := strings.TrimSpace(m.input.Value())
			if doc == "" {
				return m, nil
			}
			m.history = append(m.history, m.eval(doc))
			if len(m.history) > historyLimit {
				m.history = m.history[len(m.history)-historyLimit:]
			}
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("JSON Plugin REPL"))
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(inputEchoStyle.Render("> " + e.input))
		b.WriteString("\n")
		if e.isErr {
			b.WriteString(errorStyle.Render("  " + e.output))
		} else {
			b.WriteString(resultStyle.Render("  " + e.output))
		}
		b.WriteString("\n")
		for _, w := range e.warnings {
			b.WriteString(warnStyle.Render("  warning: " + w))
			b.WriteString("\n")
		}
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"values %d • arena %d/%d • enter eval • esc quit",
		m.st.Len(), m.rt.Arena().Offset(), m.rt.Arena().Cap())))
	b.WriteString("\n")

	return b.String()
}

func runInteractive(arenaSize int) error {
	p := tea.NewProgram(newReplModel(arenaSize), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
