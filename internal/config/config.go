// Package config provides configuration loading for the orchestrator, read
// entirely from environment variables (no project/global YAML files — this
// system has no per-project state to layer, unlike a development-workflow
// tool). Precedence is simply: environment variables > defaults. No CLI
// flag feeds a Config field.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure, populated by Load.
type Config struct {
	// Debug contains settings for the mock device used in local development.
	Debug DebugConfig `mapstructure:"debug"`

	// Device identifies which real device binding to use when Debug.Mode is false.
	Device DeviceConfig `mapstructure:"device"`

	// LLM contains settings for the primary remote model provider, used by
	// the classifier's model path, the locator's remote-model stage, and
	// the executor's replanner.
	LLM LLMConfig `mapstructure:"llm"`

	// Classifier contains settings for the Task Classifier (C5).
	Classifier ClassifierConfig `mapstructure:"classifier"`

	// Screenshot contains per-app capture-readiness wait overrides.
	Screenshot ScreenshotConfig `mapstructure:"screenshot"`

	// Workflow contains retry/attempt budgets for the Workflow Executor (C7).
	Workflow WorkflowConfig `mapstructure:"workflow"`

	// Locator contains strategy forcing and the optional small-model tier
	// for the Hybrid Locator (C2).
	Locator LocatorConfig `mapstructure:"locator"`

	// Notifications contains terminal-bell alerting settings for the CLI.
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

// NotificationsConfig controls terminal-bell alerts on task completion.
type NotificationsConfig struct {
	// Bell, when true, emits a terminal bell (\a) after run/interactive
	// dispatch the task completes, successfully or not. Env: NOTIFY_BELL.
	// Default: false.
	Bell bool `mapstructure:"bell"`
}

// LocatorConfig controls the Hybrid Locator (C2): forced strategy and the
// optional small on-device vision-model stage tried before the remote
// model stage.
type LocatorConfig struct {
	// Strategy forces opencv_only, ai_only, or opencv_first (default).
	// Env: LOCATOR_STRATEGY.
	Strategy string `mapstructure:"strategy"`

	// SmallModel is an optional cheaper/local vision provider tried before
	// the remote-model stage. Disabled (stage skipped) when Provider is
	// empty. Env: SMALL_MODEL_PROVIDER / _API_KEY / _URL / _MODEL.
	SmallModel LLMConfig `mapstructure:"small_model"`
}

// DebugConfig controls the mock device surface (DEBUG_* env vars, §6).
type DebugConfig struct {
	// Mode, when true, binds to the mock device instead of a real bridge.
	// Env: DEBUG_MODE. Default: false.
	Mode bool `mapstructure:"mode"`

	// DeviceName is the mock device's reported serial.
	// Env: DEBUG_DEVICE_NAME.
	DeviceName string `mapstructure:"device_name"`

	// ScreenWidth/ScreenHeight size the mock device's synthetic screenshot.
	// Env: DEBUG_SCREEN_WIDTH / DEBUG_SCREEN_HEIGHT.
	ScreenWidth  int `mapstructure:"screen_width"`
	ScreenHeight int `mapstructure:"screen_height"`
}

// DeviceConfig identifies the real device binding.
type DeviceConfig struct {
	// Default is the device identifier (adb serial or equivalent).
	// Env: DEFAULT_DEVICE.
	Default string `mapstructure:"default"`

	// BridgePath is the shell-bridge binary invoked for every device
	// command. Env: ADB_PATH. Default: "adb" (resolved from PATH).
	BridgePath string `mapstructure:"bridge_path"`

	// CommandTimeout bounds a single bridge command (tap, swipe, shell
	// query, …). Env: DEVICE_COMMAND_TIMEOUT.
	CommandTimeout time.Duration `mapstructure:"command_timeout"`

	// ScreenshotTimeout bounds a capture + pull round trip.
	// Env: DEVICE_SCREENSHOT_TIMEOUT.
	ScreenshotTimeout time.Duration `mapstructure:"screenshot_timeout"`

	// OperationDelay is the settle pause applied after every input
	// operation (tap, swipe, text, keyevent). Env: OPERATION_DELAY.
	OperationDelay time.Duration `mapstructure:"operation_delay"`
}

// LLMConfig is a remote model provider triple plus call tuning, used for
// both the primary and (when set) secondary classifier provider.
type LLMConfig struct {
	// Provider selects the backend (e.g. "openai", "anthropic", "gemini").
	// Env: LLM_PROVIDER.
	Provider string `mapstructure:"provider"`

	// APIKey authenticates against Provider. Env: LLM_API_KEY.
	APIKey string `mapstructure:"api_key"`

	// BaseURL overrides the provider's default endpoint. Env: LLM_URL.
	BaseURL string `mapstructure:"base_url"`

	// Model is the model identifier to request. Env: LLM_MODEL.
	Model string `mapstructure:"model"`

	// MaxTokens bounds the response length. Env: LLM_MAX_TOKENS.
	MaxTokens int `mapstructure:"max_tokens"`

	// Temperature controls sampling randomness. Env: LLM_TEMPERATURE.
	Temperature float64 `mapstructure:"temperature"`

	// Timeout bounds a single call. Env: LLM_TIMEOUT.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ClassifierConfig controls the Task Classifier's model path.
type ClassifierConfig struct {
	// Mode is "regex" or "llm". Env: TASK_CLASSIFIER_MODE. Default: "llm".
	Mode string `mapstructure:"mode"`

	// Secondary is an optional cheaper provider triple used for
	// classification instead of the primary LLMConfig, when its Provider
	// field is non-empty. Env: CLASSIFIER_LLM_PROVIDER / _API_KEY / _MODEL.
	Secondary LLMConfig `mapstructure:"secondary"`
}

// ScreenshotConfig holds the default capture-readiness wait plus per-handler
// overrides (SCREENSHOT_WAIT_DEFAULT and SCREENSHOT_WAIT_<HANDLER>, §6).
type ScreenshotConfig struct {
	// Default is SCREENSHOT_WAIT_DEFAULT.
	Default time.Duration `mapstructure:"default"`

	// PerHandler maps a lowercase handler name (wechat, chrome, system, …)
	// to its override, read from SCREENSHOT_WAIT_<HANDLER> when set.
	PerHandler map[string]time.Duration `mapstructure:"per_handler"`
}

// WaitFor returns the configured wait for handlerName, falling back to
// Default when no per-handler override is set.
func (s ScreenshotConfig) WaitFor(handlerName string) time.Duration {
	if d, ok := s.PerHandler[handlerName]; ok {
		return d
	}
	return s.Default
}

// WorkflowConfig holds the Workflow Executor's retry/attempt budgets
// (WORKFLOW_* env vars, §6).
type WorkflowConfig struct {
	// MaxStepRetries is N_step. Env: WORKFLOW_MAX_STEP_RETRIES. Default: 3.
	MaxStepRetries int `mapstructure:"max_step_retries"`

	// MaxBackPresses bounds fallback back-key presses during ensure-home.
	// Env: WORKFLOW_MAX_BACK_PRESSES. Default: 5.
	MaxBackPresses int `mapstructure:"max_back_presses"`

	// BackPressInterval is the pause between fallback back-key presses.
	// Env: WORKFLOW_BACK_PRESS_INTERVAL. Default: 500ms.
	BackPressInterval time.Duration `mapstructure:"back_press_interval"`

	// HomeMaxAttempts is N_home. Env: WORKFLOW_HOME_MAX_ATTEMPTS. Default: 5.
	HomeMaxAttempts int `mapstructure:"home_max_attempts"`

	// AIFallbackAttempts bounds AI-assisted navigate-to-home retries.
	// Env: WORKFLOW_AI_FALLBACK_ATTEMPTS. Default: 3.
	AIFallbackAttempts int `mapstructure:"ai_fallback_attempts"`

	// RecoverNavAttempts bounds recovery's navigate-to-home attempts.
	// Env: WORKFLOW_RECOVER_NAV_ATTEMPTS. Default: 3.
	RecoverNavAttempts int `mapstructure:"recover_nav_attempts"`
}
