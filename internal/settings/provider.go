package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"go.uber.org/zap"
)

const (
	cacheKey = "settings"
	cacheTTL = 5 * time.Minute
)

// Store постоянное хранилище настроек ключ-значение.
type Store interface {
	LoadSettings(ctx context.Context) (map[string]string, error)
	SaveSettings(ctx context.Context, values map[string]string) error
}

// Cache кэш значений из хранилища. Может отсутствовать.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Provider собирает Settings из значений по умолчанию и хранилища.
type Provider struct {
	store    Store
	cache    Cache
	defaults Settings
}

func NewProvider(store Store, cache Cache, defaults Settings) *Provider {
	return &Provider{store: store, cache: cache, defaults: defaults}
}

// Load возвращает актуальные настройки. Ошибки кэша только логируются.
func (p *Provider) Load(ctx context.Context) (Settings, error) {
	values, err := p.values(ctx)
	if err != nil {
		return Settings{}, err
	}

	s, skipped := p.defaults.With(values)
	for key, err := range skipped {
		logger.Log.Warn("Некорректное значение настройки пропущено",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return s, nil
}

func (p *Provider) values(ctx context.Context) (map[string]string, error) {
	if p.cache != nil {
		var cached map[string]string
		found, err := p.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			logger.Log.Warn("Не удалось прочитать настройки из кэша", zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	values, err := p.store.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки настроек: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, cacheKey, values, cacheTTL); err != nil {
			logger.Log.Warn("Не удалось сохранить настройки в кэш", zap.Error(err))
		}
	}

	return values, nil
}

// Update проверяет и сохраняет значения, затем сбрасывает кэш.
func (p *Provider) Update(ctx context.Context, values map[string]string) error {
	if err := Check(values); err != nil {
		return err
	}

	if err := p.store.SaveSettings(ctx, values); err != nil {
		return fmt.Errorf("ошибка сохранения настроек: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Delete(ctx, cacheKey); err != nil {
			logger.Log.Warn("Не удалось сбросить кэш настроек", zap.Error(err))
		}
	}

	return nil
}
