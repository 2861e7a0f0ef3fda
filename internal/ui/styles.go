package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	metStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	labelStyle    = lipgloss.NewStyle().Width(18)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	incomeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dirtyMarker   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("*")
	historyHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)
