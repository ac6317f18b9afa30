package domain

// ScreenState names one recognized screen within a handler's app-local
// enumeration. Every handler declares its own states, always including
// home, unknown, and other; app-specific states (chat, search, profile, …)
// are added by the handler's manifest-adjacent workflow definitions.
type ScreenState string

// States shared by every handler's enumeration.
const (
	ScreenHome    ScreenState = "home"
	ScreenUnknown ScreenState = "unknown"
	ScreenOther   ScreenState = "other"
)

// ScreenIndicator pairs a reference name used to visually detect a screen
// with whether it is the primary or a fallback indicator.
type ScreenIndicator struct {
	// ReferenceName is resolved through the asset store.
	ReferenceName string

	// Fallback indicates this indicator is tried only after the primary
	// indicator for the same screen misses.
	Fallback bool
}

// ScreenDetector maps each screen in priority order to its indicators. A
// handler builds one at startup from its workflow/manifest definitions.
type ScreenDetector struct {
	// Order lists screens in the fixed priority order detection attempts them.
	Order []ScreenState

	// Indicators maps each screen to its primary indicator followed by any
	// fallback indicators, in try-order.
	Indicators map[ScreenState][]ScreenIndicator
}
