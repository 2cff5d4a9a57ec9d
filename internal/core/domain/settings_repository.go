package domain

import "context"

// SettingsRepository is the abstraction for persisting the engine settings.
type SettingsRepository interface {
	// InitSettings stores the initial settings. It is a no-op if settings
	// already exist.
	InitSettings(ctx context.Context, settings Settings) error
	// GetSettings returns the current settings, or ErrSettingsNotInitialized.
	GetSettings(ctx context.Context) (*Settings, error)
	// UpdateSettings commits multiple changes transactionally.
	UpdateSettings(
		ctx context.Context,
		updateFn func(s *Settings) (*Settings, error),
	) error
}
