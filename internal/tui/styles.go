package tui

import "github.com/charmbracelet/lipgloss"

// Color palette based on TUI design
var (
	// Status colors
	Completed   = lipgloss.Color("#95E1A3") // Green
	SyncPending = lipgloss.Color("#FFE66D") // Yellow
	SyncError   = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary    = lipgloss.Color("#4ECDC4")
	Background = lipgloss.Color("#1a1a2e")
	Surface    = lipgloss.Color("#16213e")
	TextMuted  = lipgloss.Color("#888888")
	Border     = lipgloss.Color("#333333")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Calendar pane
	CalendarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Day cell states
	DayCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	DayCellSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	DayCellTodayStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(Primary).
				Bold(true)

	// Day list pane
	DayListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TodoItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TodoItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TodoDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// TagStyle renders text in a category's own color.
func TagStyle(hexColor string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
}
