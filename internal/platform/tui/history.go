package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/qfighter/internal/storage"
)

// History layout constants
const (
	historyMinRows = 5
	maxHistory     = 200 // Records kept in memory
)

// HistoryLoader is implemented by stores that can list past generations.
type HistoryLoader interface {
	History(ctx context.Context, limit int) ([]storage.GenerationRecord, error)
}

// newHistoryTable creates the generation history table for n fighters.
func newHistoryTable(fighters, height int) table.Model {
	columns := []table.Column{
		{Title: "Gen", Width: 6},
		{Title: "Ticks", Width: 6},
		{Title: "Winner", Width: 7},
	}
	for i := 0; i < fighters; i++ {
		columns = append(columns, table.Column{Title: "Score " + fighterGlyph(i), Width: 9})
	}
	columns = append(columns, table.Column{Title: "ε", Width: 6})

	if height < historyMinRows {
		height = historyMinRows
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// historyRows converts records to table rows, newest first.
func historyRows(records []storage.GenerationRecord, fighters int) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		winner := "draw"
		if !r.Draw() {
			winner = fighterGlyph(r.Winner)
		}
		row := table.Row{
			fmt.Sprintf("%d", r.Generation),
			fmt.Sprintf("%d", r.Ticks),
			winner,
		}
		for f := 0; f < fighters; f++ {
			score := "-"
			if f < len(r.Scores) {
				score = fmt.Sprintf("%.1f", r.Scores[f])
			}
			row = append(row, score)
		}
		explore := "-"
		if len(r.Exploration) > 0 {
			explore = fmt.Sprintf("%.3f", r.Exploration[0])
		}
		rows = append(rows, append(row, explore))
	}
	return rows
}
