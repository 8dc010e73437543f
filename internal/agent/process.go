package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// ErrAgentUnavailable is returned when an agent can no longer answer:
// its process exited, its connection dropped or a request was abandoned.
// It is not retryable.
var ErrAgentUnavailable = errors.New("agent: unavailable")

// maxLineSize bounds a single protocol line read from an agent.
const maxLineSize = 1 << 20

func init() {
	registry.Register("process", "External program speaking JSON lines on stdin/stdout", func(opts registry.Options) (registry.Agent, error) {
		if opts.Command == "" {
			return nil, errors.New("agent: process agent needs a command")
		}
		return StartProcess(context.Background(), opts.Command, opts.Args, ProcessOptions{
			Logger: opts.Logger,
			OnExit: opts.OnExit,
		})
	})
}

// ProcessOptions configures a process agent.
type ProcessOptions struct {
	Logger *log.Logger
	// OnExit runs when the child exits without Close being called.
	OnExit func(error)
	// Env replaces the child's environment when non-nil.
	Env []string
	// StopTimeout is how long the child gets after SIGTERM before it is
	// killed. Defaults to two seconds.
	StopTimeout time.Duration
}

// ProcessAgent drives an external program. Each request is written as one
// JSON line on the child's stdin and exactly one line is read back from its
// stdout before the next request is sent. The child's stderr is logged.
type ProcessAgent struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan string
	broken chan struct{} // closed when stdout can no longer be read
	exited chan struct{}
	cancel context.CancelFunc
	logger *log.Logger
	onExit func(error)

	mu      sync.Mutex // one request in flight
	skip    int        // answers owed to abandoned requests
	closing atomic.Bool
	once    sync.Once
	waitErr error
	readErr error
}

// StartProcess spawns command and returns an agent speaking to it.
// The child receives SIGTERM when ctx is cancelled or Close is called.
func StartProcess(ctx context.Context, command string, args []string, opts ProcessOptions) (*ProcessAgent, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "agent"})
	}
	stopTimeout := opts.StopTimeout
	if stopTimeout <= 0 {
		stopTimeout = 2 * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = stopTimeout
	if opts.Env != nil {
		cmd.Env = opts.Env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("agent: cannot open stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("agent: cannot open stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("agent: cannot open stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("agent: cannot start %q: %w", command, err)
	}

	a := &ProcessAgent{
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan string),
		broken: make(chan struct{}),
		exited: make(chan struct{}),
		cancel: cancel,
		logger: logger.With("pid", cmd.Process.Pid),
		onExit: opts.OnExit,
	}
	a.logger.Info("agent started", "command", command)

	go a.readStdout(stdout)
	go a.relayStderr(stderr)
	go a.wait()

	return a, nil
}

func (a *ProcessAgent) readStdout(r io.Reader) {
	defer close(a.broken)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		select {
		case a.lines <- scanner.Text():
		case <-a.exited:
			return
		}
	}
	a.readErr = scanner.Err()
	if a.readErr == nil {
		a.readErr = io.EOF
	}
	if !a.closing.Load() {
		a.logger.Error("cannot read agent output", "err", a.readErr)
	}
}

func (a *ProcessAgent) relayStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		a.logger.Info(scanner.Text(), "stream", "stderr")
	}
}

func (a *ProcessAgent) wait() {
	err := a.cmd.Wait()
	a.waitErr = err
	close(a.exited)
	if a.closing.Load() {
		a.logger.Debug("agent stopped")
		return
	}
	a.logger.Error("agent exited", "err", err)
	if a.onExit != nil {
		a.onExit(err)
	}
}

func (a *ProcessAgent) Name() string { return "process" }

// Exited is closed once the child process has terminated.
func (a *ProcessAgent) Exited() <-chan struct{} { return a.exited }

// Err returns the child's exit error once it has terminated.
func (a *ProcessAgent) Err() error {
	select {
	case <-a.exited:
		return a.waitErr
	default:
		return nil
	}
}

// Evaluate sends req and waits for the matching line. A reply that fails
// validation is logged and reported as no decision.
func (a *ProcessAgent) Evaluate(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.exited:
		return nil, ErrAgentUnavailable
	case <-a.broken:
		return nil, fmt.Errorf("%w: read: %v", ErrAgentUnavailable, a.readErr)
	default:
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("agent: cannot encode request: %w", err)
	}
	data = append(data, '\n')
	if _, err := a.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("%w: write: %v", ErrAgentUnavailable, err)
	}

	for {
		var line string
		select {
		case line = <-a.lines:
		case <-a.exited:
			return nil, ErrAgentUnavailable
		case <-a.broken:
			return nil, fmt.Errorf("%w: read: %v", ErrAgentUnavailable, a.readErr)
		case <-ctx.Done():
			a.skip++
			return nil, ctx.Err()
		}
		if a.skip > 0 {
			a.skip--
			continue
		}
		resp, err := protocol.DecodeResponse([]byte(line))
		if err != nil {
			a.logger.Warn("discarding agent response", "err", err)
			return nil, nil
		}
		return resp, nil
	}
}

// Close terminates the child with SIGTERM and waits for it to exit.
func (a *ProcessAgent) Close() error {
	a.once.Do(func() {
		a.closing.Store(true)
		_ = a.stdin.Close()
		a.cancel()
		<-a.exited
	})
	return nil
}
