// Package colorscheme resolves whether the console should use its dark or light palette.
package colorscheme

import (
	"sort"
	"strings"
	"sync"

	"github.com/bnema/buildsel/internal/application/port"
)

const (
	// sourceFallback indicates no detector provided the preference.
	sourceFallback = "fallback"
	// sourceConfig indicates the preference came from user config.
	sourceConfig = "config"
)

// ConfigProvider provides access to the color scheme configuration.
type ConfigProvider interface {
	// GetColorScheme returns "auto", "dark" or "light".
	GetColorScheme() string
}

// callbackWrapper wraps a callback function to enable pointer comparison for removal.
type callbackWrapper struct {
	fn func(port.ColorSchemePreference)
}

// Resolver implements port.ColorSchemeResolver.
type Resolver struct {
	mu        sync.RWMutex
	config    ConfigProvider
	detectors []port.ColorSchemeDetector
	current   port.ColorSchemePreference
	callbacks []*callbackWrapper
}

// NewResolver creates a resolver with no detectors.
func NewResolver(config ConfigProvider) *Resolver {
	return &Resolver{
		config: config,
		current: port.ColorSchemePreference{
			PrefersDark: true,
			Source:      sourceFallback,
		},
	}
}

// NewDefaultResolver creates a resolver with the terminal, env and gsettings detectors.
func NewDefaultResolver(config ConfigProvider) *Resolver {
	r := NewResolver(config)
	r.RegisterDetector(NewTerminalDetector())
	r.RegisterDetector(NewEnvDetector())
	r.RegisterDetector(NewGsettingsDetector())
	return r
}

// Resolve implements port.ColorSchemeResolver.
func (r *Resolver) Resolve() port.ColorSchemePreference {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked()
}

func (r *Resolver) resolveLocked() port.ColorSchemePreference {
	if r.config != nil {
		switch strings.ToLower(r.config.GetColorScheme()) {
		case "dark":
			return port.ColorSchemePreference{PrefersDark: true, Source: sourceConfig}
		case "light":
			return port.ColorSchemePreference{PrefersDark: false, Source: sourceConfig}
		}
	}

	sorted := make([]port.ColorSchemeDetector, len(r.detectors))
	copy(sorted, r.detectors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	for _, detector := range sorted {
		if !detector.Available() {
			continue
		}
		if prefersDark, ok := detector.Detect(); ok {
			return port.ColorSchemePreference{PrefersDark: prefersDark, Source: detector.Name()}
		}
	}

	return port.ColorSchemePreference{PrefersDark: true, Source: sourceFallback}
}

// RegisterDetector implements port.ColorSchemeResolver.
func (r *Resolver) RegisterDetector(detector port.ColorSchemeDetector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors = append(r.detectors, detector)
}

// Refresh implements port.ColorSchemeResolver.
func (r *Resolver) Refresh() port.ColorSchemePreference {
	r.mu.Lock()
	pref := r.resolveLocked()
	changed := pref.PrefersDark != r.current.PrefersDark
	r.current = pref
	var callbacks []*callbackWrapper
	if changed {
		callbacks = make([]*callbackWrapper, len(r.callbacks))
		copy(callbacks, r.callbacks)
	}
	r.mu.Unlock()

	for _, cb := range callbacks {
		cb.fn(pref)
	}
	return pref
}

// OnChange implements port.ColorSchemeResolver.
func (r *Resolver) OnChange(callback func(port.ColorSchemePreference)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	wrapper := &callbackWrapper{fn: callback}
	r.callbacks = append(r.callbacks, wrapper)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, cb := range r.callbacks {
			if cb == wrapper {
				r.callbacks = append(r.callbacks[:i], r.callbacks[i+1:]...)
				return
			}
		}
	}
}

var _ port.ColorSchemeResolver = (*Resolver)(nil)
