package cmd

import "github.com/charmbracelet/lipgloss"

// Common styles used across commands
var (
	// Version styles
	versionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")) // Blue
	newVersionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	// Status styles
	dryRunStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // Yellow/Orange
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44")) // Cyan
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// Text styles
	faintStyle     = lipgloss.NewStyle().Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BD93F9"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	boldStyle      = lipgloss.NewStyle().Bold(true)
)

func dryRunPrefix() string {
	return dryRunStyle.Render("[DRY RUN]")
}
