package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	subtle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	panel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	cardTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cardValue   = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	statusOn   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	statusRisk = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	statusOff  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)
