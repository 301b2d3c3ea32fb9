package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lorekeeper/internal/app"
	"lorekeeper/internal/command"
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// runRepl drives the interactive session until the user quits.
func runRepl(ctx context.Context, a *app.App) error {
	model := newReplModel(ctx, a)
	program := tea.NewProgram(model)
	_, err := program.Run()
	return err
}

type replModel struct {
	ctx         context.Context
	app         *app.App
	input       textinput.Model
	history     []string
	suggestions []command.Suggestion
	selected    int
}

func newReplModel(ctx context.Context, a *app.App) *replModel {
	input := textinput.New()
	input.Prompt = promptStyle.Render("> ")
	input.Placeholder = `try "about"`
	input.Focus()

	return &replModel{
		ctx:      ctx,
		app:      a,
		input:    input,
		selected: -1,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return m, tea.Quit

	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		if line == "quit" || line == "exit" {
			return m, tea.Quit
		}
		m.submit()
		return m, nil

	case tea.KeyTab:
		m.cycleSuggestion(1)
		return m, nil

	case tea.KeyShiftTab:
		m.cycleSuggestion(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *replModel) submit() {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return
	}

	output, err := m.app.Command(m.ctx, line)
	if err != nil {
		output = errorStyle.Render(err.Error())
	} else if rendered, renderErr := renderMarkdown(output); renderErr == nil {
		output = rendered
	}

	m.history = append(m.history, promptStyle.Render("> ")+line, output)
	m.input.SetValue("")
	m.suggestions = nil
	m.selected = -1
}

func (m *replModel) refreshSuggestions() {
	m.suggestions = m.app.Autocomplete(m.ctx, m.input.Value())
	m.selected = -1
}

// cycleSuggestion moves the highlight and copies the highlighted term into
// the input.
func (m *replModel) cycleSuggestion(direction int) {
	if len(m.suggestions) == 0 {
		return
	}
	m.selected = (m.selected + direction + len(m.suggestions) + 1) % (len(m.suggestions) + 1)
	if m.selected == len(m.suggestions) {
		m.selected = -1
		return
	}
	m.input.SetValue(m.suggestions[m.selected].Term)
	m.input.CursorEnd()
}

func (m *replModel) View() string {
	var b strings.Builder

	for _, entry := range m.history {
		b.WriteString(entry)
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")

	for i, suggestion := range m.suggestions {
		line := fmt.Sprintf("  %-30s %s", suggestion.Term, suggestion.Description)
		if i == m.selected {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(suggestionStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
