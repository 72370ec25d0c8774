package driving

import "github.com/custodia-labs/nexova-agent/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.Settings, error)

	// Set parses and persists a single config file value.
	Set(key, value string) error

	// Keys returns the recognised config keys in display order.
	Keys() []string
}
