package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/qfighter/internal/agent"
	"github.com/vovakirdan/qfighter/internal/arena"
	"github.com/vovakirdan/qfighter/internal/core"
	"github.com/vovakirdan/qfighter/internal/fight"
)

const hpBarWidth = 10

// fighterGlyph returns the single-character label of fighter i.
func fighterGlyph(i int) string {
	return string(rune('A' + i%26))
}

// RenderArena draws the arena with the fighters on it. Living fighters
// hide corpses that share their cell.
func RenderArena(ar *arena.Arena, agents []*agent.Agent, theme Theme) string {
	occupant := make(map[core.Position]*agent.Agent, len(agents))
	for _, a := range agents {
		if cur, ok := occupant[a.State()]; ok && cur.Alive() {
			continue
		}
		occupant[a.State()] = a
	}

	var sb strings.Builder
	for row := 0; row < ar.Height(); row++ {
		if row > 0 {
			sb.WriteRune('\n')
		}
		for col := 0; col < ar.Width(); col++ {
			pos := core.P(row, col)
			kind, ok := ar.Kind(pos)
			switch {
			case !ok:
				sb.WriteRune(' ')
			case kind == arena.CellWall:
				sb.WriteString(theme.Wall.Render("█"))
			case occupant[pos] != nil:
				a := occupant[pos]
				if a.Alive() {
					sb.WriteString(theme.Fighter(a.Index()).Render(fighterGlyph(a.Index())))
				} else {
					sb.WriteString(theme.Corpse.Render("x"))
				}
			default:
				sb.WriteString(theme.Floor.Render("·"))
			}
		}
	}
	return sb.String()
}

// RenderHPBar draws a health bar scaled to hpBarWidth cells.
func RenderHPBar(health, maxHP int, theme Theme) string {
	filled := 0
	if maxHP > 0 {
		filled = core.Clamp(health*hpBarWidth/maxHP, 0, hpBarWidth)
		if health > 0 && filled == 0 {
			filled = 1
		}
	}
	return theme.HPFull.Render(strings.Repeat("█", filled)) +
		theme.HPEmpty.Render(strings.Repeat("░", hpBarWidth-filled))
}

// RenderFighter draws one fighter's status line.
func RenderFighter(a *agent.Agent, theme Theme) string {
	name := theme.Fighter(a.Index()).Render(fmt.Sprintf("Fighter %s", fighterGlyph(a.Index())))
	state := theme.Value.Render(fmt.Sprintf("%2d/%d", a.Health(), a.MaxHP()))
	if !a.Alive() {
		state = theme.Error.Render("KO   ")
	}

	fields := []string{
		name,
		RenderHPBar(a.Health(), a.MaxHP(), theme),
		state,
		theme.Label.Render("score ") + theme.Value.Render(fmt.Sprintf("%8.1f", a.Score())),
		theme.Label.Render("last ") + theme.Value.Render(fmt.Sprintf("%-5s", a.LastAction())),
		theme.Label.Render("ε ") + theme.Value.Render(fmt.Sprintf("%.3f", a.Exploration())),
		theme.Label.Render("Q ") + theme.Value.Render(fmt.Sprintf("%d", a.QTableSize())),
	}
	return strings.Join(fields, "  ")
}

// RenderOutcome formats one resolved action for the event log.
func RenderOutcome(out fight.Outcome) string {
	line := fmt.Sprintf("%s %s %-12s %+7.1f", fighterGlyph(out.Agent), out.Action.Short(), out.Kind, out.Reward)
	if out.Moved() {
		line += fmt.Sprintf("  → %s", out.To)
	}
	return line
}

// RenderHUD draws the header line.
func RenderHUD(generation, tick, maxTicks int, priority bool, paused bool, tickRate int, theme Theme) string {
	sep := theme.Separator.Render(" │ ")
	first := "A"
	if !priority {
		first = "B"
	}
	parts := []string{
		theme.Title.Render("QFIGHTER"),
		theme.Label.Render("gen ") + theme.Value.Render(fmt.Sprintf("%d", generation)),
		theme.Label.Render("tick ") + theme.Value.Render(fmt.Sprintf("%d/%d", tick, maxTicks)),
		theme.Label.Render("first ") + theme.Value.Render(first),
		theme.Label.Render("speed ") + theme.Value.Render(fmt.Sprintf("%d/s", tickRate)),
	}
	if paused {
		parts = append(parts, theme.Status.Render("PAUSED"))
	}
	return strings.Join(parts, sep)
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
