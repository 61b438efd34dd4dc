package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// confirmKeyMap defines key bindings for the confirm prompt.
type confirmKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Yes    key.Binding
	No     key.Binding
	Quit   key.Binding
	Escape key.Binding
}

var confirmKeys = confirmKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "no"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// confirmModel is a yes/no Bubble Tea prompt. The cursor starts on No.
type confirmModel struct {
	question      string
	yesLabel      string
	noLabel       string
	confirmCursor int // 0 = Yes, 1 = No
	done          bool
	confirmed     bool
}

func newConfirmModel(question, yesLabel, noLabel string) confirmModel {
	return confirmModel{
		question:      question,
		yesLabel:      yesLabel,
		noLabel:       noLabel,
		confirmCursor: 1,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, confirmKeys.Up):
		if m.confirmCursor > 0 {
			m.confirmCursor--
		}
	case key.Matches(keyMsg, confirmKeys.Down):
		if m.confirmCursor < 1 {
			m.confirmCursor++
		}
	case key.Matches(keyMsg, confirmKeys.Yes):
		m.confirmCursor = 0
		return m.finish()
	case key.Matches(keyMsg, confirmKeys.No):
		m.confirmCursor = 1
		return m.finish()
	case key.Matches(keyMsg, confirmKeys.Enter):
		return m.finish()
	case key.Matches(keyMsg, confirmKeys.Quit), key.Matches(keyMsg, confirmKeys.Escape):
		m.confirmed = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) finish() (tea.Model, tea.Cmd) {
	m.confirmed = m.confirmCursor == 0
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(boldStyle.Render("? " + m.question))
	b.WriteString("\n\n")

	options := []string{m.yesLabel, m.noLabel}
	for i, label := range options {
		if i == m.confirmCursor {
			b.WriteString(highlightStyle.Render("  > " + label))
		} else {
			b.WriteString("    " + label)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("↑/↓ to navigate, enter to select, y/n for quick select, q to quit"))
	b.WriteString("\n")
	return b.String()
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// runConfirmPrompt asks question and returns the answer.
func runConfirmPrompt(question, yesLabel, noLabel string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(question, yesLabel, noLabel))

	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running prompt: %w", err)
	}
	if m, ok := finalModel.(confirmModel); ok {
		return m.confirmed, nil
	}
	return false, fmt.Errorf("unexpected model type")
}

// confirmTagOverwrite asks whether an existing tag should be moved. Outside
// a terminal it answers no.
func confirmTagOverwrite(tag string) (bool, error) {
	if !isInteractive() {
		return false, nil
	}
	return runConfirmPrompt(
		fmt.Sprintf("Tag %s already exists. Overwrite?", tag),
		"Yes, move the tag to the release commit",
		"No, keep the existing tag",
	)
}
