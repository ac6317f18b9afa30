package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/taskpilot/droidtask/internal/errors"
)

// envBindings lists every recognized environment variable and the viper key
// it feeds, per §6's "Environment variables (recognized)" table. Unlike a
// prefixed ATLAS_* scheme, these names are used verbatim by the original
// shell surface, so each is bound individually rather than through a single
// key replacer.
//
//nolint:gochecknoglobals // static binding table, read-only after init
var envBindings = map[string]string{
	"DEBUG_MODE":           "debug.mode",
	"DEBUG_DEVICE_NAME":    "debug.device_name",
	"DEBUG_SCREEN_WIDTH":   "debug.screen_width",
	"DEBUG_SCREEN_HEIGHT":  "debug.screen_height",
	"DEFAULT_DEVICE":       "device.default",
	"ADB_PATH":             "device.bridge_path",
	"DEVICE_COMMAND_TIMEOUT":    "device.command_timeout",
	"DEVICE_SCREENSHOT_TIMEOUT": "device.screenshot_timeout",
	"OPERATION_DELAY":          "device.operation_delay",
	"LLM_PROVIDER":         "llm.provider",
	"LLM_API_KEY":          "llm.api_key",
	"LLM_URL":              "llm.base_url",
	"LLM_MODEL":            "llm.model",
	"LLM_MAX_TOKENS":       "llm.max_tokens",
	"LLM_TEMPERATURE":      "llm.temperature",
	"LLM_TIMEOUT":          "llm.timeout",
	"TASK_CLASSIFIER_MODE": "classifier.mode",
	"CLASSIFIER_LLM_PROVIDER": "classifier.secondary.provider",
	"CLASSIFIER_LLM_API_KEY":  "classifier.secondary.api_key",
	"CLASSIFIER_LLM_MODEL":    "classifier.secondary.model",
	"SCREENSHOT_WAIT_DEFAULT": "screenshot.default",

	"WORKFLOW_MAX_STEP_RETRIES":    "workflow.max_step_retries",
	"WORKFLOW_MAX_BACK_PRESSES":    "workflow.max_back_presses",
	"WORKFLOW_BACK_PRESS_INTERVAL": "workflow.back_press_interval",
	"WORKFLOW_HOME_MAX_ATTEMPTS":   "workflow.home_max_attempts",
	"WORKFLOW_AI_FALLBACK_ATTEMPTS": "workflow.ai_fallback_attempts",
	"WORKFLOW_RECOVER_NAV_ATTEMPTS": "workflow.recover_nav_attempts",

	"LOCATOR_STRATEGY":        "locator.strategy",
	"SMALL_MODEL_PROVIDER":    "locator.small_model.provider",
	"SMALL_MODEL_API_KEY":     "locator.small_model.api_key",
	"SMALL_MODEL_URL":         "locator.small_model.base_url",
	"SMALL_MODEL_MODEL":       "locator.small_model.model",

	"NOTIFY_BELL": "notifications.bell",
}

// screenshotWaitHandlerEnvVars lists the per-handler screenshot wait
// overrides this build ships (SCREENSHOT_WAIT_<HANDLER>); new handlers that
// need their own override should add an entry here.
//
//nolint:gochecknoglobals // static table, read-only after init
var screenshotWaitHandlerEnvVars = map[string]string{
	"SCREENSHOT_WAIT_WECHAT": "wechat",
	"SCREENSHOT_WAIT_CHROME": "chrome",
	"SCREENSHOT_WAIT_SYSTEM": "system",
}

func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for envVar, key := range envBindings {
		_ = v.BindEnv(key, envVar)
	}
	return v
}

// setDefaults seeds v with DefaultConfig's values so unset keys still
// unmarshal to a usable Config.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("debug.mode", def.Debug.Mode)
	v.SetDefault("debug.device_name", def.Debug.DeviceName)
	v.SetDefault("debug.screen_width", def.Debug.ScreenWidth)
	v.SetDefault("debug.screen_height", def.Debug.ScreenHeight)
	v.SetDefault("device.bridge_path", def.Device.BridgePath)
	v.SetDefault("device.command_timeout", def.Device.CommandTimeout)
	v.SetDefault("device.screenshot_timeout", def.Device.ScreenshotTimeout)
	v.SetDefault("device.operation_delay", def.Device.OperationDelay)
	v.SetDefault("llm.max_tokens", def.LLM.MaxTokens)
	v.SetDefault("llm.temperature", def.LLM.Temperature)
	v.SetDefault("llm.timeout", def.LLM.Timeout)
	v.SetDefault("classifier.mode", def.Classifier.Mode)
	v.SetDefault("screenshot.default", def.Screenshot.Default)
	v.SetDefault("workflow.max_step_retries", def.Workflow.MaxStepRetries)
	v.SetDefault("workflow.max_back_presses", def.Workflow.MaxBackPresses)
	v.SetDefault("workflow.back_press_interval", def.Workflow.BackPressInterval)
	v.SetDefault("workflow.home_max_attempts", def.Workflow.HomeMaxAttempts)
	v.SetDefault("workflow.ai_fallback_attempts", def.Workflow.AIFallbackAttempts)
	v.SetDefault("workflow.recover_nav_attempts", def.Workflow.RecoverNavAttempts)
	v.SetDefault("locator.strategy", def.Locator.Strategy)
	v.SetDefault("notifications.bell", def.Notifications.Bell)
}

// Load reads configuration from environment variables, layered over the
// built-in defaults, and validates the result.
//
// The context parameter carries a logger for debug-level tracing of what
// was loaded; config reads themselves are not cancellable (pure env lookups).
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	readPerHandlerScreenshotWaits(v, &cfg)

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Bool("debug.mode", cfg.Debug.Mode).
		Str("classifier.mode", cfg.Classifier.Mode).
		Dur("screenshot.default", cfg.Screenshot.Default).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// readPerHandlerScreenshotWaits fills cfg.Screenshot.PerHandler from any set
// SCREENSHOT_WAIT_<HANDLER> environment variables.
func readPerHandlerScreenshotWaits(v *viper.Viper, cfg *Config) {
	if cfg.Screenshot.PerHandler == nil {
		cfg.Screenshot.PerHandler = make(map[string]time.Duration)
	}
	for envVar, handlerName := range screenshotWaitHandlerEnvVars {
		key := "screenshot.per_handler." + handlerName
		_ = v.BindEnv(key, envVar)
		if !v.IsSet(key) {
			continue
		}
		cfg.Screenshot.PerHandler[handlerName] = v.GetDuration(key)
	}
}
