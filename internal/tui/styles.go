package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#40916c")
	inkColor    = lipgloss.Color("#0f0f0f")
)

var (
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	taglineStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	sectionHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle          = lipgloss.NewStyle().Bold(true)
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helperStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	previewStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(2)
	dimmedStyle         = lipgloss.NewStyle().Faint(true)
	spinnerStyle        = lipgloss.NewStyle().Foreground(accentColor)
	buttonStyle         = lipgloss.NewStyle().Bold(true).Foreground(inkColor).Background(lipgloss.Color("#95d5b2")).Padding(0, 2)
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")).Padding(0, 2)
	statusBarStyle      = lipgloss.NewStyle().Foreground(inkColor).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle            = lipgloss.NewStyle().Bold(true).Foreground(inkColor).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
)
