package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, close to the printed worksheet colors.
var (
	Primary = lipgloss.Color("#1D4ED8") // Brand blue
	Light   = lipgloss.Color("#93C5FD") // Light blue
	Accent  = lipgloss.Color("#F59E0B") // Amber
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#F43F5E") // Rose
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	BgDark  = lipgloss.Color("#0F172A") // Deep Navy
	BgCard  = lipgloss.Color("#1E293B") // Dark Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Light)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Label = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Focused = lipgloss.NewStyle().
		Foreground(Light).
		Bold(true)

	Blurred = lipgloss.NewStyle().
		Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	ErrorBanner = lipgloss.NewStyle().
			Foreground(Error).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Error).
			Padding(0, 1)

	Status = lipgloss.NewStyle().
		Foreground(Accent)
)

// Containers
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	FocusedCard = Card.
			BorderForeground(Primary)

	Button = lipgloss.NewStyle().
		Background(Primary).
		Foreground(Text).
		Bold(true).
		Padding(0, 2)

	ButtonDisabled = lipgloss.NewStyle().
			Background(Border).
			Foreground(TextDim).
			Padding(0, 2)
)
