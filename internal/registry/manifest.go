package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// loadManifest reads and parses one handler's manifest.yaml into a
// domain.ModuleInfo.
func loadManifest(path string) (domain.ModuleInfo, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from a fixed apps/ directory walk
	if err != nil {
		return domain.ModuleInfo{}, fmt.Errorf("%w: read manifest %s: %w", atlaserrors.ErrHandlerNotFound, path, err)
	}

	var info domain.ModuleInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return domain.ModuleInfo{}, fmt.Errorf("%w: parse manifest %s: %w", atlaserrors.ErrHandlerNotFound, path, err)
	}
	if info.Name == "" {
		return domain.ModuleInfo{}, fmt.Errorf("%w: manifest %s has no name", atlaserrors.ErrHandlerNotFound, path)
	}
	return info, nil
}

// taskTemplateFile is the YAML shape of an optional task-templates file
// (§6 "Optional task templates"): a list of named pattern-matched step
// sequences. Their patterns feed the registry's template-score routing
// signal; the task runner does not execute their steps.
type taskTemplateFile struct {
	Templates []domain.TaskTemplate `yaml:"templates"`
}

// loadTaskTemplates reads an optional task-templates file. A missing file
// is not an error: a handler may route purely on keywords/package id.
func loadTaskTemplates(path string) ([]domain.TaskTemplate, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from a fixed apps/ directory walk
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read task templates %s: %w", atlaserrors.ErrHandlerNotFound, path, err)
	}

	var parsed taskTemplateFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse task templates %s: %w", atlaserrors.ErrHandlerNotFound, path, err)
	}
	return parsed.Templates, nil
}
