// Package workflow implements the Workflow Model & Authoring Rules (C6):
// loading a handler's workflows.yaml, validating its author contracts, and
// substituting "{name}" parameter placeholders.
package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// fileWorkflows is the on-disk shape of a handler's workflows.yaml.
type fileWorkflows struct {
	Workflows []domain.Workflow `yaml:"workflows"`
	Screens   []screenFile      `yaml:"screens"`
}

// screenFile declares one screen's detection indicators, in priority order
// matching domain.ScreenDetector.Order.
type screenFile struct {
	Name       string               `yaml:"name"`
	Indicators []indicatorFile      `yaml:"indicators"`
}

type indicatorFile struct {
	ReferenceName string `yaml:"referenceName"`
	Fallback      bool   `yaml:"fallback,omitempty"`
}

// Table holds every workflow declared by one handler, keyed by name, plus
// its screen detector, loaded once at handler startup and immutable after.
type Table struct {
	byName   map[string]domain.Workflow
	detector domain.ScreenDetector
}

// Load reads path (a handler's workflows.yaml), validates every workflow's
// author contracts (§4.6), and returns the resulting Table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the module registry's own discovered layout
	if err != nil {
		return nil, fmt.Errorf("%w: read workflows file %s: %w", atlaserrors.ErrWorkflowNotFound, path, err)
	}

	var file fileWorkflows
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse workflows file %s: %w", atlaserrors.ErrConfigInvalid, path, err)
	}

	table := &Table{
		byName: make(map[string]domain.Workflow, len(file.Workflows)),
		detector: domain.ScreenDetector{
			Indicators: make(map[domain.ScreenState][]domain.ScreenIndicator, len(file.Screens)),
		},
	}

	for _, s := range file.Screens {
		state := domain.ScreenState(s.Name)
		table.detector.Order = append(table.detector.Order, state)
		for _, ind := range s.Indicators {
			table.detector.Indicators[state] = append(table.detector.Indicators[state], domain.ScreenIndicator{
				ReferenceName: ind.ReferenceName,
				Fallback:      ind.Fallback,
			})
		}
	}

	for _, wf := range file.Workflows {
		if err := Validate(wf); err != nil {
			return nil, fmt.Errorf("workflow %q: %w", wf.Name, err)
		}
		table.byName[wf.Name] = wf
	}

	return table, nil
}

// Get returns the named workflow.
func (t *Table) Get(name string) (domain.Workflow, bool) {
	wf, ok := t.byName[name]
	return wf, ok
}

// Detector returns the handler's screen detector, built from the same file.
func (t *Table) Detector() domain.ScreenDetector {
	return t.detector
}

// Names returns every declared workflow name, in no particular order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	return names
}
