package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Terminals report key presses but not releases. A press that arrives
// within repeatGap ticks of the previous press of the same key is taken as
// auto-repeat, and the key counts as released after releaseGap quiet ticks.
const (
	repeatGap  = 4
	releaseGap = 6
)

// Options configures a player session.
type Options struct {
	Config  config.TetrisConfig
	Runtime core.RuntimeConfig
	Store   *storage.Store // optional
	Player  string
}

// heldKey tracks a shift key the terminal is auto-repeating.
type heldKey struct {
	action    tetris.Action
	active    bool
	repeating bool
	last      int
}

// Model is the Bubble Tea model for a human player.
type Model struct {
	game       *tetris.Game
	cfg        config.TetrisConfig
	runtime    core.RuntimeConfig
	curve      config.Gravity
	gravity    *core.FrameTimer
	shiftTimer *core.FrameTimer
	downTimer  *core.FrameTimer
	garbage    *tetris.Xorshift
	held       heldKey

	screen *core.Screen
	keys   KeyMap
	help   help.Model

	store   *storage.Store
	player  string
	best    int
	saved   bool
	started time.Time

	ticks      int
	status     string
	statusLeft int
	width      int
	height     int
	quitting   bool
}

// NewModel creates a player model and starts its first game.
func NewModel(opts Options) Model {
	runtime := opts.Runtime.Resolved()
	player := opts.Player
	if player == "" {
		player = "player"
	}

	gp := opts.Config.Gameplay
	m := Model{
		game:       tetris.NewGame(),
		cfg:        opts.Config,
		runtime:    runtime,
		curve:      config.NewGravity(gp, opts.Config.Difficulty),
		gravity:    core.NewFrameTimer(0, max(1, gp.GravityTicks)),
		shiftTimer: core.NewFrameTimer(max(0, gp.DASDelay), max(1, gp.DASPeriod)),
		downTimer:  core.NewFrameTimer(0, max(1, gp.DASPeriod)),
		screen:     core.NewScreen(screenW, screenH),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		store:      opts.Store,
		player:     player,
	}
	m.restart(runtime.Seed)
	return m
}

func (m *Model) restart(seed int64) {
	m.runtime.Seed = seed
	m.game.Start(seed)
	m.garbage = tetris.NewXorshift(seed + 1)
	m.gravity.Reset()
	m.held = heldKey{}
	m.ticks = 0
	m.status, m.statusLeft = "", 0
	m.saved = false
	m.started = time.Now()
	if m.store != nil {
		if best, err := m.store.HighScore(m.player); err == nil {
			m.best = best
		}
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		m.step()
		return m, tickCmd(m.runtime)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Restart):
		m.restart(time.Now().UnixNano())
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.game.TogglePause()
		m.held = heldKey{}
		return m, nil
	}

	if m.game.State() != tetris.StateActive {
		return m, nil
	}
	if action, ok := m.keys.Action(msg); ok {
		m.press(action)
	}
	return m, nil
}

// press applies a key's action. Shift keys start DAS once the terminal
// begins auto-repeating them.
func (m *Model) press(a tetris.Action) {
	switch a {
	case tetris.ActionShiftLeft, tetris.ActionShiftRight, tetris.ActionShiftDown:
		if m.held.active && m.held.action == a && m.ticks-m.held.last <= repeatGap {
			m.held.last = m.ticks
			m.held.repeating = true
			return
		}
		m.held = heldKey{action: a, active: true, last: m.ticks}
		m.shiftTimer.Reset()
		m.downTimer.Reset()
	default:
		m.held = heldKey{}
	}
	m.apply(a)
	m.gravity.Reset()
}

func (m *Model) apply(a tetris.Action) {
	m.afterLock(m.game.Apply(a))
}

func (m *Model) afterLock(res tetris.Result) {
	if !res.Locked {
		return
	}
	if label := res.Lock.Label(); label != "" {
		m.status = label
		m.statusLeft = m.cfg.Gameplay.StatusTicks
	}
	gp := m.cfg.Gameplay
	if gp.GarbageEvery > 0 && !m.game.Finished() && m.game.Stats().Pieces%gp.GarbageEvery == 0 {
		m.game.AddGarbage(m.garbage.Intn(tetris.BoardWidth), max(1, gp.GarbageHeight))
	}
}

// step advances one frame: held keys, gravity, status text and the
// end-of-game bookkeeping.
func (m *Model) step() {
	if m.statusLeft > 0 {
		m.statusLeft--
		if m.statusLeft == 0 {
			m.status = ""
		}
	}
	if m.game.State() != tetris.StateActive {
		m.saveResult()
		return
	}
	m.ticks++

	if m.held.active {
		if m.ticks-m.held.last > releaseGap {
			m.held = heldKey{}
		} else if m.held.repeating {
			timer := m.shiftTimer
			if m.held.action == tetris.ActionShiftDown {
				timer = m.downTimer
			}
			if timer.Tick() {
				m.apply(m.held.action)
			}
		}
	}

	m.gravity.SetPeriod(m.gravityPeriod())
	if m.gravity.Tick() {
		m.afterLock(m.game.GravityShift())
	}
	if m.game.Finished() {
		m.saveResult()
	}
}

func (m *Model) gravityPeriod() int {
	return m.curve.Ticks(m.game.Score(), m.ticks)
}

func (m *Model) saveResult() {
	if !m.game.Finished() || m.saved {
		return
	}
	m.saved = true
	if m.store == nil || m.game.Stats().Pieces == 0 {
		return
	}
	st := m.game.Stats()
	//nolint:errcheck // Best-effort save, the game screen stays up regardless
	m.store.SaveResult(storage.Result{
		Player:    m.player,
		Seed:      m.game.Seed(),
		Lines:     m.game.Score(),
		Pieces:    st.Pieces,
		TSpins:    st.TSpins,
		ToppedOut: true,
		Duration:  time.Since(m.started),
	})
	m.best = max(m.best, m.game.Score())
}

// Game returns the game being played.
func (m Model) Game() *tetris.Game { return m.game }

// Status returns the clear label currently shown.
func (m Model) Status() string { return m.status }

// View renders the game and the help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width > 0 && (m.width < screenW || m.height < screenH+1) {
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", screenW, screenH+1, m.width, m.height)
	}

	drawGame(m.screen, gameView{
		game:   m.game,
		title:  " TETRIS ",
		status: m.status,
		info: []string{
			fmt.Sprintf("Best %d", max(m.best, m.game.Score())),
			fmt.Sprintf("Speed %d", m.gravityPeriod()),
			fmt.Sprintf("Seed %d", m.game.Seed()%100000),
		},
	})

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Run starts a player session in the current terminal.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
