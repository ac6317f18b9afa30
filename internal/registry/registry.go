// Package registry implements the Module Registry (C4): discovery of app
// handlers from a directory layout and scored routing of an utterance to
// a handler.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// handlerEntry is one discovered handler's static, immutable-after-load data.
type handlerEntry struct {
	dir              string
	info             domain.ModuleInfo
	templates        []domain.TaskTemplate
	templatePatterns []*regexp.Regexp
}

// Registry holds every handler discovered under an apps/ root, in
// discovery order, and routes utterances to the best-scoring one.
type Registry struct {
	appsRoot string
	handlers []*handlerEntry
	byName   map[string]*handlerEntry
	logger   zerolog.Logger
}

// Load discovers every sub-directory of appsRoot carrying a manifest.yaml
// and builds a Registry from them.
func Load(appsRoot string, logger zerolog.Logger) (*Registry, error) {
	entries, err := os.ReadDir(appsRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: read apps root %s: %w", atlaserrors.ErrHandlerNotFound, appsRoot, err)
	}

	reg := &Registry{appsRoot: appsRoot, byName: make(map[string]*handlerEntry), logger: logger}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(appsRoot, entry.Name())
		manifestPath := filepath.Join(dir, constants.ManifestFileName)
		if _, statErr := os.Stat(manifestPath); statErr != nil {
			continue
		}

		info, err := loadManifest(manifestPath)
		if err != nil {
			return nil, err
		}

		templates, err := loadTaskTemplates(filepath.Join(dir, constants.TaskTemplatesFileName))
		if err != nil {
			return nil, err
		}

		handler := &handlerEntry{dir: dir, info: info, templates: templates}
		handler.templatePatterns = compilePatterns(templates, logger)

		reg.handlers = append(reg.handlers, handler)
		reg.byName[entry.Name()] = handler

		logger.Debug().Str("component", "registry").Str("handler", entry.Name()).
			Int("keywords", len(info.Keywords)).Int("templates", len(templates)).Msg("handler discovered")
	}

	return reg, nil
}

func compilePatterns(templates []domain.TaskTemplate, logger zerolog.Logger) []*regexp.Regexp {
	var patterns []*regexp.Regexp
	for _, tmpl := range templates {
		for _, raw := range tmpl.Patterns {
			re, err := regexp.Compile(raw)
			if err != nil {
				logger.Warn().Str("component", "registry").Str("pattern", raw).Err(err).Msg("invalid task template pattern, skipped")
				continue
			}
			patterns = append(patterns, re)
		}
	}
	return patterns
}

// Dir returns the on-disk directory for a discovered handler by directory
// name (not its manifest-declared display Name).
func (r *Registry) Dir(dirName string) (string, bool) {
	h, ok := r.byName[dirName]
	if !ok {
		return "", false
	}
	return h.dir, true
}

// Info returns the discovered manifest for a handler by directory name,
// used by process wiring to pair each handler's dir and package ID with its
// constructed Executor.
func (r *Registry) Info(dirName string) (domain.ModuleInfo, bool) {
	h, ok := r.byName[dirName]
	if !ok {
		return domain.ModuleInfo{}, false
	}
	return h.info, true
}

// Templates returns the task templates declared for a handler by directory
// name. Routing does not use it (score matches the compiled patterns), and
// the task runner does not execute template steps.
func (r *Registry) Templates(dirName string) []domain.TaskTemplate {
	h, ok := r.byName[dirName]
	if !ok {
		return nil
	}
	return h.templates
}

// List returns every discovered handler's manifest, in discovery order.
func (r *Registry) List() []domain.ModuleInfo {
	infos := make([]domain.ModuleInfo, 0, len(r.handlers))
	for _, h := range r.handlers {
		infos = append(infos, h.info)
	}
	return infos
}

// scoredHandler pairs a discovered handler's directory name with its
// routing score against one utterance.
type scoredHandler struct {
	dirName string
	score   float64
}

// Route scores every discovered handler against utterance and returns the
// directory name of the best match, or constants.DefaultHandlerName when
// the best score is below constants.RoutingMinScore.
func (r *Registry) Route(utterance string) string {
	var scored []scoredHandler
	for dirName, h := range r.byName {
		scored = append(scored, scoredHandler{dirName: dirName, score: h.score(utterance)})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].dirName < scored[j].dirName
	})

	if len(scored) == 0 || scored[0].score < constants.RoutingMinScore {
		r.logger.Debug().Str("component", "registry").Float64("best_score", bestScore(scored)).Msg("no handler cleared routing threshold, using default")
		return constants.DefaultHandlerName
	}

	r.logger.Debug().Str("component", "registry").Str("handler", scored[0].dirName).Float64("score", scored[0].score).Msg("routed utterance to handler")
	return scored[0].dirName
}

func bestScore(scored []scoredHandler) float64 {
	if len(scored) == 0 {
		return 0
	}
	return scored[0].score
}

// ByType routes directly to a handler when the classifier already produced
// a recognized ParsedTask.Type, bypassing keyword scoring entirely, per
// §2's dataflow note "C8 -> (if fixed-prefix) C5.fast -> C4.byType". The
// mapping from type to handler is handler-declared via its manifest's
// keywords matching the type name itself (e.g. "send_msg" keyword). It
// returns false when no handler declares it; the runner then uses
// constants.DefaultHandlerName.
func (r *Registry) ByType(taskType string) (string, bool) {
	for dirName, h := range r.byName {
		for _, kw := range h.info.Keywords {
			if kw == taskType {
				return dirName, true
			}
		}
	}
	return "", false
}
