package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(11)

	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barOverStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
