package config

import (
	"time"

	"github.com/taskpilot/droidtask/internal/constants"
)

// DefaultConfig returns a Config populated with the documented defaults.
// This is the base layer; environment variables override it.
func DefaultConfig() *Config {
	return &Config{
		Debug: DebugConfig{
			Mode:         false,
			DeviceName:   constants.DefaultMockDeviceName,
			ScreenWidth:  constants.DefaultMockScreenWidth,
			ScreenHeight: constants.DefaultMockScreenHeight,
		},
		Device: DeviceConfig{
			Default:           "",
			BridgePath:        "adb",
			CommandTimeout:    constants.DefaultDeviceCommandTimeout,
			ScreenshotTimeout: constants.DefaultScreenshotTimeout,
			OperationDelay:    constants.DefaultOperationDelay,
		},
		LLM: LLMConfig{
			MaxTokens:   1024,
			Temperature: 0.2,
			Timeout:     constants.DefaultModelCallTimeout,
		},
		Classifier: ClassifierConfig{
			Mode: constants.ClassifierModeLLM,
		},
		Screenshot: ScreenshotConfig{
			Default:    constants.DefaultScreenshotWait,
			PerHandler: map[string]time.Duration{},
		},
		Workflow: WorkflowConfig{
			MaxStepRetries:     constants.DefaultStepRetries,
			MaxBackPresses:     constants.DefaultMaxBackPresses,
			BackPressInterval:  constants.DefaultBackPressInterval,
			HomeMaxAttempts:    constants.DefaultHomeMaxAttempts,
			AIFallbackAttempts: constants.DefaultAIFallbackAttempts,
			RecoverNavAttempts: constants.DefaultRecoverNavAttempts,
		},
		Locator: LocatorConfig{
			Strategy: constants.LocatorStrategyOpenCVFirst,
		},
		Notifications: NotificationsConfig{
			Bell: false,
		},
	}
}
