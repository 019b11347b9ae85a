package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the pre-computed lipgloss styles for the UI.
type Styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	Badge    lipgloss.Style
	Input    lipgloss.Style
	Focused  lipgloss.Style
	Panel    lipgloss.Style
}

// NewStyles builds the default dark style set.
func NewStyles() *Styles {
	var (
		primary = lipgloss.Color("#7aa2f7")
		dim     = lipgloss.Color("#565f89")
		errCol  = lipgloss.Color("#f7768e")
		sel     = lipgloss.Color("#33467c")
		border  = lipgloss.Color("#3b4261")
	)
	return &Styles{
		Title:    lipgloss.NewStyle().Foreground(primary).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(dim),
		Item:     lipgloss.NewStyle().Padding(0, 2),
		Selected: lipgloss.NewStyle().Foreground(primary).Background(sel).Padding(0, 2).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(errCol).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(dim).Padding(1, 2),
		HelpKey:  lipgloss.NewStyle().Foreground(primary).Bold(true),
		Badge:    lipgloss.NewStyle().Padding(0, 1).MarginRight(1).Foreground(primary),
		Input: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(border).Padding(0, 1),
		Focused: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).Padding(0, 1),
		Panel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(border).Padding(1, 2),
	}
}
