package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}).
		Bold(true).
		Margin(0, 0, 1, 0)

	tabStyle = lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(lipgloss.AdaptiveColor{Light: "#262626", Dark: "#d9d9d9"})

	activeTabStyle = tabStyle.
		Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}).
		Background(lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}).
		Bold(true)

	sectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}).
		Bold(true).
		Margin(1, 0, 0, 0)

	cardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}).
		Padding(0, 1).
		Width(24)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}).
		Bold(true)

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#a8a8a8"})

	selectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#d33682", Dark: "#ff79c6"}).
		Bold(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#a8a8a8"}).
		Margin(1, 0, 0, 0)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#dc322f", Dark: "#ff5555"}).
		Bold(true)
)
