package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/payerswap/payerd/internal/core/domain"
)

const settingsKey = "settings"

type settingsRepositoryImpl struct {
	db *DbManager
}

func newSettingsRepositoryImpl(db *DbManager) domain.SettingsRepository {
	return settingsRepositoryImpl{db}
}

func (r settingsRepositoryImpl) InitSettings(
	ctx context.Context, settings domain.Settings,
) error {
	if _, err := r.GetSettings(ctx); err == nil {
		return nil
	}
	return r.db.MainStore.Insert(settingsKey, settings)
}

func (r settingsRepositoryImpl) GetSettings(
	_ context.Context,
) (*domain.Settings, error) {
	var settings domain.Settings
	if err := r.db.MainStore.Get(settingsKey, &settings); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrSettingsNotInitialized
		}
		return nil, err
	}
	return &settings, nil
}

func (r settingsRepositoryImpl) UpdateSettings(
	ctx context.Context,
	updateFn func(s *domain.Settings) (*domain.Settings, error),
) error {
	settings, err := r.GetSettings(ctx)
	if err != nil {
		return err
	}

	updated, err := updateFn(settings)
	if err != nil {
		return err
	}

	return r.db.MainStore.Update(settingsKey, *updated)
}
