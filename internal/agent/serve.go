package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// ServeLines answers JSON line requests from r on w using a, one line per
// request, until r is exhausted or ctx is cancelled. Invalid requests are
// answered with null. This is the agent side of the process transport.
func ServeLines(ctx context.Context, a registry.Agent, r io.Reader, w io.Writer, logger *log.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		reply, err := Answer(ctx, a, scanner.Bytes(), logger)
		if err != nil {
			return err
		}
		reply = append(reply, '\n')
		if _, err := out.Write(reply); err != nil {
			return fmt.Errorf("agent: cannot write reply: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("agent: cannot write reply: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("agent: cannot read requests: %w", err)
	}
	return nil
}

// Answer evaluates one encoded request and returns the encoded reply.
// Invalid requests and missing decisions encode as null; an error is
// returned only when the agent itself fails.
func Answer(ctx context.Context, a registry.Agent, data []byte, logger *log.Logger) ([]byte, error) {
	req, err := protocol.DecodeRequest(data)
	if err != nil {
		if logger != nil {
			logger.Warn("invalid request", "err", err)
		}
		return []byte("null"), nil
	}
	resp, err := a.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return []byte("null"), nil
	}
	return json.Marshal(resp)
}
