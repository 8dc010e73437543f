package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/agent"
	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// SpectatorOptions configures a session where an agent plays.
type SpectatorOptions struct {
	Config  config.TetrisConfig
	Runtime core.RuntimeConfig
	Agent   registry.Agent
	Logger  *log.Logger
	Store   *storage.Store // optional
}

// workerMsg carries a worker message into the Bubble Tea loop.
type workerMsg protocol.WorkerResponse

// workerDoneMsg reports that the worker stopped.
type workerDoneMsg struct{ err error }

// waitForWorker returns a command that delivers the next worker message.
func waitForWorker(w *agent.Worker) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-w.Responses()
		if !ok {
			return workerDoneMsg{err: w.Err()}
		}
		return workerMsg(resp)
	}
}

// SpectatorModel shows an agent playing. Decisions come from a worker
// goroutine so a slow agent never stalls rendering.
type SpectatorModel struct {
	cancel context.CancelFunc
	worker *agent.Worker
	driver *agent.Driver
	timer  *core.FrameTimer
	name   string

	cfg     config.TetrisConfig
	runtime core.RuntimeConfig
	garbage *tetris.Xorshift
	store   *storage.Store
	saved   bool
	started time.Time

	screen *core.Screen
	keys   KeyMap
	help   help.Model

	status     string
	statusLeft int
	width      int
	height     int
	err        error
	quitting   bool
}

// NewSpectatorModel creates a spectator for opts.Agent and starts its
// worker. The worker stops when the model quits or ctx is cancelled.
func NewSpectatorModel(ctx context.Context, opts SpectatorOptions) SpectatorModel {
	runtime := opts.Runtime.Resolved()

	ctx, cancel := context.WithCancel(ctx)
	name := opts.Agent.Name()
	worker := agent.NewWorker(map[string]registry.Agent{name: opts.Agent}, opts.Logger)
	worker.Start(ctx)

	game := tetris.NewGame()
	driver := agent.NewDriver(game, name, worker.Post)
	driver.SetTimeout(opts.Config.Agent.TimeoutTicks)

	m := SpectatorModel{
		cancel:  cancel,
		worker:  worker,
		driver:  driver,
		timer:   core.NewFrameTimer(0, opts.Config.Agent.ActionPeriod()),
		name:    name,
		cfg:     opts.Config,
		runtime: runtime,
		store:   opts.Store,
		screen:  core.NewScreen(screenW, screenH),
		keys:    SpectatorKeyMap(),
		help:    help.New(),
	}
	m.restart(runtime.Seed)
	return m
}

func (m *SpectatorModel) restart(seed int64) {
	m.runtime.Seed = seed
	m.driver.Reset(seed)
	m.garbage = tetris.NewXorshift(seed + 1)
	m.timer.Reset()
	m.status, m.statusLeft = "", 0
	m.saved = false
	m.started = time.Now()
}

// Init starts the tick loop and the worker listener.
func (m SpectatorModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.runtime), waitForWorker(m.worker))
}

// Update handles messages and updates the model state.
func (m SpectatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.driver.Game().TogglePause()
		case key.Matches(msg, m.keys.Restart):
			m.restart(time.Now().UnixNano())
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case workerMsg:
		m.driver.Handle(protocol.WorkerResponse(msg))
		return m, waitForWorker(m.worker)

	case workerDoneMsg:
		if msg.err != nil && !m.quitting {
			m.err = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case TickMsg:
		m.step()
		return m, tickCmd(m.runtime)
	}
	return m, nil
}

func (m *SpectatorModel) step() {
	if m.statusLeft > 0 {
		m.statusLeft--
		if m.statusLeft == 0 {
			m.status = ""
		}
	}
	g := m.driver.Game()
	if g.State() != tetris.StateActive || !m.timer.Tick() {
		m.saveResult()
		return
	}

	res := m.driver.Step()
	if res.Locked {
		if label := res.Lock.Label(); label != "" {
			m.status = label
			m.statusLeft = m.cfg.Gameplay.StatusTicks
		}
		gp := m.cfg.Gameplay
		if gp.GarbageEvery > 0 && !g.Finished() && g.Stats().Pieces%gp.GarbageEvery == 0 {
			g.AddGarbage(m.garbage.Intn(tetris.BoardWidth), max(1, gp.GarbageHeight))
		}
	}
	m.saveResult()
}

func (m *SpectatorModel) saveResult() {
	g := m.driver.Game()
	if !g.Finished() || m.saved {
		return
	}
	m.saved = true
	if m.store == nil || g.Stats().Pieces == 0 {
		return
	}
	st := g.Stats()
	//nolint:errcheck // Best-effort save, the game screen stays up regardless
	m.store.SaveResult(storage.Result{
		Player:    m.name,
		Seed:      g.Seed(),
		Lines:     g.Score(),
		Pieces:    st.Pieces,
		TSpins:    st.TSpins,
		ToppedOut: true,
		Duration:  time.Since(m.started),
	})
}

// Err returns the agent failure that ended the session, if any.
func (m SpectatorModel) Err() error { return m.err }

// Driver returns the driver feeding the game.
func (m SpectatorModel) Driver() *agent.Driver { return m.driver }

// View renders the game, the agent's last message and the help line.
func (m SpectatorModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width > 0 && (m.width < screenW || m.height < screenH+1) {
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", screenW, screenH+1, m.width, m.height)
	}

	info := []string{"Agent " + m.name, fmt.Sprintf("Speed %d", m.cfg.Agent.Speed)}
	if msg := m.driver.Message(); msg != "" {
		info = append(info, "")
		info = append(info, strings.Split(msg, "\n")...)
	}
	drawGame(m.screen, gameView{
		game:   m.driver.Game(),
		title:  " WATCH ",
		status: m.status,
		info:   info,
	})

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// RunSpectator shows opts.Agent playing in the current terminal until the
// user quits or the agent fails. The caller still owns and closes the agent.
func RunSpectator(ctx context.Context, opts SpectatorOptions) error {
	model := NewSpectatorModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if sm, ok := final.(SpectatorModel); ok && sm.Err() != nil {
		return fmt.Errorf("tui: agent %s stopped: %w", sm.name, sm.Err())
	}
	return nil
}
