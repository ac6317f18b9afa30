// Package classifier implements the Task Classifier (C5): fast-form
// parsing of the "ss:" fixed grammar, a model path with a regex
// down-degrade, and the mapping from parsed task to task class.
package classifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
)

// Classifier classifies an utterance into a ParsedTask plus its derived
// TaskClass, following §4.5's fast path -> model path -> regex degrade
// order. Constructed explicitly; no package-level singleton.
type Classifier struct {
	cfg       *config.ClassifierConfig
	primary   ai.Runner
	secondary ai.Runner
	logger    zerolog.Logger
}

// New constructs a Classifier. secondary may be nil when no cheaper model
// is configured (cfg.Secondary.Provider empty), in which case the model
// path always uses primary.
func New(cfg *config.ClassifierConfig, primary, secondary ai.Runner, logger zerolog.Logger) *Classifier {
	return &Classifier{cfg: cfg, primary: primary, secondary: secondary, logger: logger}
}

// Classify returns the parsed task and its task class for utterance. When
// the task is classified as simple-but-unparsed (regex degrade path),
// parsed.Type is empty and the caller (task runner) is expected to fall
// back to a handler's task-template pattern table.
func (c *Classifier) Classify(ctx context.Context, utterance string) (domain.ParsedTask, domain.TaskClass) {
	trimmed := normalize(utterance)

	if isTrivialInput(trimmed) {
		return domain.ParsedTask{Type: constants.TaskTypeInvalid}, domain.ClassInvalid
	}

	if parsed, ok := tryFastPath(trimmed); ok {
		return parsed, domain.DeriveClass(parsed.Type)
	}

	if c.cfg != nil && c.cfg.Mode == constants.ClassifierModeRegex {
		return c.degrade(trimmed)
	}

	runner := c.primary
	if c.secondary != nil {
		runner = c.secondary
	}

	parsed, err := runModel(ctx, runner, trimmed)
	if err != nil {
		c.logger.Warn().Str("component", "classifier").Err(err).Msg("model path failed, degrading to regex classifier")
		return c.degrade(trimmed)
	}

	return parsed, domain.DeriveClass(parsed.Type)
}

// FastPath exposes the fixed-form fast path in isolation (§4.8 step 2): a
// caller that already knows the utterance is prefixed, and needs to tell a
// fast-path success apart from a need to fall through to the model path on
// a stripped utterance, calls this instead of Classify.
func (c *Classifier) FastPath(utterance string) (domain.ParsedTask, bool) {
	return tryFastPath(normalize(utterance))
}

// Model exposes the model path in isolation (§4.8 step 3), for a caller
// that has already stripped the fixed-form prefix itself.
func (c *Classifier) Model(ctx context.Context, utterance string) (domain.ParsedTask, error) {
	runner := c.primary
	if c.secondary != nil {
		runner = c.secondary
	}
	return runModel(ctx, runner, normalize(utterance))
}

// degrade applies the regex down-degrade path: no recipient or content is
// parsed. A complex utterance gets Type "others"; a simple one gets an
// empty ParsedTask.Type signaling "unparsed" to the caller.
func (c *Classifier) degrade(utterance string) (domain.ParsedTask, domain.TaskClass) {
	if regexDegrade(utterance) {
		return domain.ParsedTask{Type: constants.TaskTypeOthers}, domain.ClassComplex
	}
	return domain.ParsedTask{}, domain.ClassSimple
}
