package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// Worker evaluates positions on its own goroutine so the caller never
// blocks on an agent. It posts a ready message when it starts and one
// evaluate response per request.
type Worker struct {
	agents    map[string]registry.Agent
	requests  chan protocol.WorkerRequest
	responses chan protocol.WorkerResponse
	logger    *log.Logger
	done      chan struct{}
	err       error
}

// NewWorker returns a worker serving the given agents, keyed by the name
// requests refer to them by.
func NewWorker(agents map[string]registry.Agent, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.Default()
	}
	return &Worker{
		agents:    agents,
		requests:  make(chan protocol.WorkerRequest, 4),
		responses: make(chan protocol.WorkerResponse, 4),
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start runs the worker until ctx is cancelled or an agent fails.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.err = w.run(ctx)
		close(w.responses)
		close(w.done)
	}()
}

// Post queues a request without blocking. It reports false when the
// worker is saturated or stopped.
func (w *Worker) Post(req protocol.WorkerRequest) bool {
	select {
	case <-w.done:
		return false
	default:
	}
	select {
	case w.requests <- req:
		return true
	default:
		return false
	}
}

// Responses delivers worker messages. It is closed when the worker stops.
func (w *Worker) Responses() <-chan protocol.WorkerResponse { return w.responses }

// Done is closed when the worker stops.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Err returns why the worker stopped. It is nil while running and after a
// clean shutdown.
func (w *Worker) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

func (w *Worker) run(ctx context.Context) error {
	if !w.send(ctx, protocol.Ready()) {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-w.requests:
			if req.Type != protocol.TypeEvaluate {
				w.logger.Warn("ignoring worker request", "type", req.Type)
				continue
			}
			resp, err := w.evaluate(ctx, req)
			if err != nil {
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return nil
				}
				return err
			}
			if !w.send(ctx, resp) {
				return nil
			}
		}
	}
}

func (w *Worker) send(ctx context.Context, resp protocol.WorkerResponse) bool {
	select {
	case w.responses <- resp:
		return true
	case <-ctx.Done():
		return false
	}
}

func (w *Worker) evaluate(ctx context.Context, req protocol.WorkerRequest) (protocol.WorkerResponse, error) {
	out := protocol.WorkerResponse{Type: protocol.TypeEvaluate, ID: req.ID}

	a, ok := w.agents[req.AI]
	if !ok {
		out.Message = fmt.Sprintf("unknown agent %q", req.AI)
		return out, nil
	}

	start := time.Now()
	resp, err := a.Evaluate(ctx, &req.Game)
	if err != nil {
		return out, fmt.Errorf("agent %s: %w", req.AI, err)
	}
	elapsed := time.Since(start).Milliseconds()
	if elapsed < 1 {
		elapsed = 1
	}

	if resp == nil {
		out.Message = fmt.Sprintf("Time: %d ms\nNo decision", elapsed)
		return out, nil
	}
	out.Success = true
	out.Actions = resp.Actions()
	score := "none"
	if resp.Score != nil {
		score = fmt.Sprintf("%.2f", *resp.Score)
	}
	out.Message = fmt.Sprintf("Time: %d ms\nScore: %s", elapsed, score)
	return out, nil
}
