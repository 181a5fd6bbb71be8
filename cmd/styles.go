package cmd

import "github.com/charmbracelet/lipgloss"

// Common styles used across commands
var (
	// Status styles
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true) // Green
	updateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))           // Yellow/Orange

	// Version styles
	versionStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("39")) // Blue
	updateAvailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C"))

	// Text styles
	faintStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BD93F9"))
)
