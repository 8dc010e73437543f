package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/storage"
)

const maxResults = 100

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle        = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle  = tabStyle.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	frameStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextPlayer key.Binding
	PrevPlayer key.Binding
	Quit       key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPlayer, k.PrevPlayer, k.Quit}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns the scoreboard bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextPlayer: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next player")),
		PrevPlayer: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev player")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel browses stored results with one tab per player plus a
// leading tab for everyone.
type ScoreboardModel struct {
	store  *storage.Store
	stats  []storage.PlayerStats
	tab    int // 0 is everyone, i > 0 is stats[i-1]
	rows   int
	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int
	err    error
}

// NewScoreboardModel creates a scoreboard over store.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.stats, m.err = store.Stats()
	m.table = newResultsTable(height)
	m.load()
	return m
}

func newResultsTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Player", Width: 14},
			{Title: "Lines", Width: 6},
			{Title: "Pieces", Width: 7},
			{Title: "T-Spins", Width: 7},
			{Title: "End", Width: 7},
			{Title: "Seed", Width: 12},
			{Title: "Date", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(max(3, height-10)),
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

// load refills the table for the selected tab.
func (m *ScoreboardModel) load() {
	results, err := m.store.TopResults(m.Player(), maxResults)
	if err != nil {
		m.err = err
	}

	rows := make([]table.Row, 0, len(results))
	for i, r := range results {
		end := "limit"
		if r.ToppedOut {
			end = "top-out"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Player,
			strconv.Itoa(r.Lines),
			strconv.Itoa(r.Pieces),
			strconv.Itoa(r.TSpins),
			end,
			strconv.FormatInt(r.Seed, 10),
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.rows = len(rows)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ScoreboardModel) Init() tea.Cmd { return nil }

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tabs := len(m.stats) + 1

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextPlayer):
			m.tab = (m.tab + 1) % tabs
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.PrevPlayer):
			m.tab = (m.tab + tabs - 1) % tabs
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, msg.Height-10))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Player returns the player of the selected tab, "" for everyone.
func (m ScoreboardModel) Player() string {
	if m.tab == 0 || m.tab > len(m.stats) {
		return ""
	}
	return m.stats[m.tab-1].Player
}

func (m ScoreboardModel) View() string {
	var b strings.Builder

	b.WriteString(boardTitleStyle.Render("TETRIS RESULTS"))
	b.WriteString("\n\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.summary()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(frameStyle.Render("Cannot read results: " + m.err.Error()))
	case m.rows == 0:
		b.WriteString(frameStyle.Render(dimStyle.Italic(true).Padding(1, 2).Render("No games recorded yet.")))
	default:
		b.WriteString(frameStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) tabs() string {
	names := make([]string, 0, len(m.stats)+1)
	names = append(names, "everyone")
	for _, ps := range m.stats {
		names = append(names, ps.Player)
	}

	rendered := make([]string, len(names))
	for i, name := range names {
		if i == m.tab {
			rendered[i] = activeTabStyle.Render(name)
		} else {
			rendered[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// summary aggregates the selected tab.
func (m ScoreboardModel) summary() string {
	if m.tab == 0 {
		var games, best int
		for _, ps := range m.stats {
			games += ps.Games
			best = max(best, ps.BestLines)
		}
		return fmt.Sprintf("%d players, %d games, best %d lines", len(m.stats), games, best)
	}
	ps := m.stats[m.tab-1]
	return fmt.Sprintf("%d games, best %d lines, average %.1f, last played %s",
		ps.Games, ps.BestLines, ps.AvgLines, ps.LastPlayed.Format("Jan 02 15:04"))
}

// RunScoreboard shows the scoreboard until the user quits.
func RunScoreboard(store *storage.Store, width, height int) error {
	_, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	return err
}
