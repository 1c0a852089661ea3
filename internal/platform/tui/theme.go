package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of the spectator view.
type Theme struct {
	// Arena cells
	Wall   lipgloss.Style
	Floor  lipgloss.Style
	Corpse lipgloss.Style

	// One style per fighter, cycled by index
	Fighters []lipgloss.Style

	// HP bar
	HPFull  lipgloss.Style
	HPEmpty lipgloss.Style

	// HUD
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Separator lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Event     lipgloss.Style
	Help      lipgloss.Style

	// Panels
	Panel lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Wall:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Floor:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Corpse: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),

		Fighters: []lipgloss.Style{
			lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),  // Cyan
			lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true), // Hot pink
			lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true), // Yellow
			lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),  // Lime
		},

		HPFull:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		HPEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),

		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Value:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Italic(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Event:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// Fighter returns the style of fighter i.
func (t Theme) Fighter(i int) lipgloss.Style {
	if len(t.Fighters) == 0 {
		return lipgloss.NewStyle()
	}
	return t.Fighters[i%len(t.Fighters)]
}
