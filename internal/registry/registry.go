// Package registry provides a global registry for move-evaluation agents.
// Agent implementations register themselves in init() functions, allowing
// drivers and servers to instantiate agents by name without hardcoded
// dependencies.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
)

// Agent evaluates a position and decides which moves to play.
type Agent interface {
	// Name returns the identifier the agent was registered under.
	Name() string

	// Evaluate returns the agent's decision for req.
	// A nil response with a nil error means the agent made no decision
	// (for example because its reply failed validation). An error means the
	// agent itself is unusable; callers must not retry it.
	Evaluate(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

	// Close releases the agent's resources, terminating any child process.
	Close() error
}

// Options carries the settings a factory may need. Fields an agent does not
// use are ignored.
type Options struct {
	Seed    int64
	Command string
	Args    []string
	URL     string
	Logger  *log.Logger
	// OnExit is called when an external agent terminates on its own.
	OnExit func(error)
}

// AgentInfo contains metadata about a registered agent.
type AgentInfo struct {
	Name        string
	Description string
}

// Factory creates a new agent instance.
type Factory func(opts Options) (Agent, error)

type entry struct {
	factory     Factory
	description string
}

var (
	factories = make(map[string]entry)
	mu        sync.RWMutex
)

// Register adds an agent factory to the registry.
// Typically called from an init() function.
// Panics if an agent with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: agent %q already registered", name))
	}

	factories[name] = entry{factory: f, description: description}
}

// List returns information about all registered agents, sorted by name.
func List() []AgentInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]AgentInfo, 0, len(factories))
	for name, e := range factories {
		result = append(result, AgentInfo{
			Name:        name,
			Description: e.description,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a new agent by its name.
// Returns an error if the name is not registered or the factory fails.
func Create(name string, opts Options) (Agent, error) {
	mu.RLock()
	e, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown agent %q", name)
	}

	a, err := e.factory(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: cannot create agent %q: %w", name, err)
	}
	return a, nil
}

// Exists checks if an agent with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
