package port

// ColorSchemePreference represents the resolved color scheme preference.
type ColorSchemePreference struct {
	// PrefersDark indicates whether dark mode is preferred.
	PrefersDark bool

	// Source identifies which detector provided this preference.
	Source string
}

// ColorSchemeDetector detects the environment's color scheme preference.
// Multiple detectors can be registered with different priorities.
type ColorSchemeDetector interface {
	// Name returns a human-readable name for this detector.
	Name() string

	// Priority returns the detector's priority.
	// Higher values are checked first.
	Priority() int

	// Available returns true if this detector can be used.
	Available() bool

	// Detect returns the detected preference and whether detection succeeded.
	Detect() (prefersDark bool, ok bool)
}

// ColorSchemeResolver resolves the effective color scheme preference.
// An explicit "dark" or "light" setting wins over every detector.
type ColorSchemeResolver interface {
	// Resolve returns the current color scheme preference.
	// If all detectors fail, defaults to dark mode.
	Resolve() ColorSchemePreference

	// RegisterDetector adds a detector to the resolver.
	RegisterDetector(detector ColorSchemeDetector)

	// Refresh forces re-evaluation, e.g. after a config reload.
	Refresh() ColorSchemePreference

	// OnChange registers a callback invoked when Refresh changes the preference.
	// Returns a function to unregister the callback.
	OnChange(callback func(ColorSchemePreference)) func()
}
