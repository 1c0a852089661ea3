package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/qfighter/internal/population"
	"github.com/vovakirdan/qfighter/internal/storage"
	"github.com/vovakirdan/qfighter/internal/training"
)

// Watch limits
const (
	minTickRate = 1
	maxTickRate = 60
	eventLines  = 6
)

// WatchOptions configures the spectator view.
type WatchOptions struct {
	TickRate    int           // Ticks per second
	AllowSave   bool          // Whether the save key writes tables
	History     HistoryLoader // Optional source of past generations
	HistoryRows int
}

// WatchModel is the Bubble Tea model that runs and displays a session.
type WatchModel struct {
	session     *training.Session
	opts        WatchOptions
	keys        WatchKeyMap
	help        help.Model
	theme       Theme
	history     table.Model
	records     []storage.GenerationRecord
	events      []string
	status      string
	statusErr   bool
	tickRate    int
	paused      bool
	showHistory bool
	width       int
	height      int
	quitting    bool
}

// NewWatchModel creates the spectator model for session.
func NewWatchModel(session *training.Session, opts WatchOptions) WatchModel {
	if opts.TickRate < minTickRate {
		opts.TickRate = 10
	}
	if opts.HistoryRows <= 0 {
		opts.HistoryRows = 10
	}

	h := help.New()
	h.ShowAll = false

	m := WatchModel{
		session:  session,
		opts:     opts,
		keys:     DefaultWatchKeyMap(),
		help:     h,
		theme:    DefaultTheme(),
		tickRate: opts.TickRate,
	}
	m.keys.Save.SetEnabled(opts.AllowSave)
	m.history = newHistoryTable(session.Manager().Len(), opts.HistoryRows)

	if opts.History != nil {
		records, err := opts.History.History(context.Background(), maxHistory)
		if err != nil {
			m.setError(fmt.Errorf("history unavailable: %w", err))
		} else {
			m.records = records
		}
	}
	m.history.SetRows(historyRows(m.records, session.Manager().Len()))
	return m
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tickCmd(m.tickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.step()
		}

	case key.Matches(msg, m.keys.Faster):
		m.tickRate = min(m.tickRate*2, maxTickRate)

	case key.Matches(msg, m.keys.Slower):
		m.tickRate = max(m.tickRate/2, minTickRate)

	case key.Matches(msg, m.keys.Reset):
		m.session.Restart()
		m.events = nil
		m.setStatus("generation %d restarted", m.session.Generation())

	case key.Matches(msg, m.keys.Priority):
		first := "A"
		if !m.session.Manager().TogglePriority() {
			first = "B"
		}
		m.setStatus("fighter %s now resolves first", first)

	case key.Matches(msg, m.keys.Save):
		if err := m.session.Save(ctx); err != nil {
			m.setError(err)
		} else {
			m.setStatus("tables saved")
		}

	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory

	case m.showHistory && (msg.String() == "up" || msg.String() == "down" || msg.String() == "k" || msg.String() == "j"):
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	default:
		if mode, ok := m.keys.loadMode(msg); ok {
			m.load(ctx, mode)
		}
	}

	return m, nil
}

// step advances the session by one tick.
func (m *WatchModel) step() {
	res, err := m.session.Step(context.Background())
	defer func() {
		if err != nil {
			m.setError(err)
			m.paused = true
		}
	}()

	for _, out := range res.Tick.Outcomes {
		m.events = append(m.events, RenderOutcome(out))
	}
	if len(m.events) > eventLines {
		m.events = m.events[len(m.events)-eventLines:]
	}

	if gen := res.Finished; gen != nil {
		m.records = append(m.records, gen.Record())
		if len(m.records) > maxHistory {
			m.records = m.records[len(m.records)-maxHistory:]
		}
		m.history.SetRows(historyRows(m.records, m.session.Manager().Len()))
		m.events = nil

		switch {
		case gen.Capped:
			m.setStatus("generation %d: draw after %d ticks", gen.Generation, gen.Ticks)
		case gen.Draw():
			m.setStatus("generation %d: nobody left standing", gen.Generation)
		default:
			m.setStatus("generation %d: fighter %s wins in %d ticks", gen.Generation, fighterGlyph(gen.Winner), gen.Ticks)
		}
	}
}

func (m *WatchModel) load(ctx context.Context, mode population.LoadMode) {
	report, err := m.session.Load(ctx, mode)
	if err != nil {
		m.setError(err)
		return
	}
	m.events = nil
	if mode == population.LoadFresh {
		m.setStatus("tables cleared")
		return
	}
	m.setStatus("loaded %s: %d tables, %d fresh", mode, len(report.Loaded), len(report.Missing))
}

func (m *WatchModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *WatchModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// View renders the current state to a string for display.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	mgr := m.session.Manager()
	var b strings.Builder

	b.WriteString(RenderHUD(m.session.Generation(), m.session.Tick(), m.session.MaxTicks(),
		mgr.Priority(), m.paused, m.tickRate, m.theme))
	b.WriteString("\n\n")

	b.WriteString(m.center(m.theme.Panel.Render(RenderArena(mgr.Environment().Arena(), mgr.Agents(), m.theme))))
	b.WriteString("\n\n")

	for _, a := range mgr.Agents() {
		b.WriteString(RenderFighter(a, m.theme))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i := 0; i < eventLines; i++ {
		if i < len(m.events) {
			b.WriteString(m.theme.Event.Render(m.events[i]))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		style := m.theme.Status
		if m.statusErr {
			style = m.theme.Error
		}
		b.WriteString(style.Render(m.status))
	}
	b.WriteString("\n")

	if m.showHistory {
		b.WriteString("\n")
		if len(m.records) == 0 {
			b.WriteString(m.theme.Label.Italic(true).Render("No generations finished yet."))
		} else {
			b.WriteString(m.theme.Panel.Render(m.history.View()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys)))

	return b.String()
}

func (m WatchModel) center(s string) string {
	if m.width == 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	block := lipgloss.Width(s)
	for i, line := range lines {
		lines[i] = centerText(line, m.width-block+lipgloss.Width(line))
	}
	return strings.Join(lines, "\n")
}

// Paused reports whether the tick loop is paused.
func (m WatchModel) Paused() bool { return m.paused }

// Status returns the last status line.
func (m WatchModel) Status() string { return m.status }

// Records returns the generations shown in the history table.
func (m WatchModel) Records() []storage.GenerationRecord { return m.records }

// Run starts the Bubble Tea program for session.
func Run(session *training.Session, opts WatchOptions) error {
	p := tea.NewProgram(
		NewWatchModel(session, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
