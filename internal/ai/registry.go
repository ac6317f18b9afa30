package ai

import (
	"fmt"
	"sync"

	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// RunnerRegistry maps provider names to their Runner implementations,
// with thread-safe registration and lookup.
type RunnerRegistry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRunnerRegistry creates an empty registry.
func NewRunnerRegistry() *RunnerRegistry {
	return &RunnerRegistry{runners: make(map[string]Runner)}
}

// Register adds (or replaces) the runner for a provider name.
func (r *RunnerRegistry) Register(provider string, runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[provider] = runner
}

// Get retrieves the runner for a provider name.
func (r *RunnerRegistry) Get(provider string) (Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runner, ok := r.runners[provider]
	if !ok {
		return nil, fmt.Errorf("%w: provider %q not registered", atlaserrors.ErrPlannerFailed, provider)
	}
	return runner, nil
}

// Has reports whether a runner is registered for provider.
func (r *RunnerRegistry) Has(provider string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.runners[provider]
	return ok
}

// Providers returns all registered provider names.
func (r *RunnerRegistry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	return names
}
