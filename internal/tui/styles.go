package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorTabOff   lipgloss.Color = "#7f849c"
	colorMantle   lipgloss.Color = "#181825"
	colorSurface0 lipgloss.Color = "#313244"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle).
			Foreground(colorText)
	activeTabStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(colorMantle).
				Foreground(colorTabOff).
				Padding(0, 1)

	breadcrumbStyle = lipgloss.NewStyle().Foreground(colorMuted)

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(colorBorder).
			PaddingRight(1)
	menuGroupStyle    = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	menuItemStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	menuSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Background(colorSurface0)
	statusErrBarStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0)

	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)

	cursorStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	barStyle      = lipgloss.NewStyle().Foreground(colorAccent)
	panelStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(colorAccent)
)
