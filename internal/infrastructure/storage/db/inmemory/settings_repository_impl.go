package inmemory

import (
	"context"

	"github.com/payerswap/payerd/internal/core/domain"
)

type settingsRepositoryImpl struct {
	store *settingsInmemoryStore
}

// newSettingsRepositoryImpl returns a new inmemory SettingsRepository implementation.
func newSettingsRepositoryImpl(store *settingsInmemoryStore) domain.SettingsRepository {
	return &settingsRepositoryImpl{store}
}

func (r settingsRepositoryImpl) InitSettings(
	_ context.Context, settings domain.Settings,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.settings != nil {
		return nil
	}
	r.store.settings = &settings
	return nil
}

func (r settingsRepositoryImpl) GetSettings(
	_ context.Context,
) (*domain.Settings, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.settings == nil {
		return nil, domain.ErrSettingsNotInitialized
	}
	settings := *r.store.settings
	return &settings, nil
}

func (r settingsRepositoryImpl) UpdateSettings(
	_ context.Context,
	updateFn func(s *domain.Settings) (*domain.Settings, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.settings == nil {
		return domain.ErrSettingsNotInitialized
	}

	settings := *r.store.settings
	updated, err := updateFn(&settings)
	if err != nil {
		return err
	}

	r.store.settings = updated
	return nil
}
