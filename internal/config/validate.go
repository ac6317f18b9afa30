package config

import (
	"fmt"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/errors"
)

// Validate checks cfg for internally-inconsistent or out-of-range values.
// It never mutates cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", errors.ErrConfigInvalid)
	}

	if cfg.Debug.Mode {
		if cfg.Debug.ScreenWidth <= 0 || cfg.Debug.ScreenHeight <= 0 {
			return fmt.Errorf("%w: debug screen dimensions must be positive", errors.ErrConfigInvalid)
		}
	}

	switch cfg.Classifier.Mode {
	case constants.ClassifierModeRegex, constants.ClassifierModeLLM:
	default:
		return fmt.Errorf("%w: classifier mode %q must be %q or %q",
			errors.ErrConfigInvalid, cfg.Classifier.Mode, constants.ClassifierModeRegex, constants.ClassifierModeLLM)
	}

	if cfg.Classifier.Mode == constants.ClassifierModeLLM && cfg.LLM.Provider == "" {
		return fmt.Errorf("%w: classifier mode %q requires LLM_PROVIDER", errors.ErrConfigInvalid, constants.ClassifierModeLLM)
	}

	if cfg.Workflow.MaxStepRetries < 1 {
		return fmt.Errorf("%w: workflow.max_step_retries must be at least 1", errors.ErrConfigInvalid)
	}
	if cfg.Workflow.HomeMaxAttempts < 1 {
		return fmt.Errorf("%w: workflow.home_max_attempts must be at least 1", errors.ErrConfigInvalid)
	}
	if cfg.Screenshot.Default < 0 {
		return fmt.Errorf("%w: screenshot.default wait cannot be negative", errors.ErrConfigInvalid)
	}

	switch cfg.Locator.Strategy {
	case constants.LocatorStrategyOpenCVOnly, constants.LocatorStrategyAIOnly, constants.LocatorStrategyOpenCVFirst:
	default:
		return fmt.Errorf("%w: locator strategy %q must be %q, %q or %q", errors.ErrConfigInvalid,
			cfg.Locator.Strategy, constants.LocatorStrategyOpenCVOnly, constants.LocatorStrategyAIOnly, constants.LocatorStrategyOpenCVFirst)
	}

	return nil
}
