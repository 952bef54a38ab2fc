package decorators

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/talluriprudhvi/llm-agents/internal/models"
)

type weatherGetterService interface {
	GetCurrent(ctx context.Context, loc models.Location) (models.WeatherData, error)
	GetForecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

// CachedService is a read-through cache in front of the provider chain.
type CachedService struct {
	inner     weatherGetterService
	current   cacheClient[models.WeatherData]
	forecasts cacheClient[models.Forecast]
	logger    zerolog.Logger
}

func NewCachedService(
	inner weatherGetterService,
	current cacheClient[models.WeatherData],
	forecasts cacheClient[models.Forecast],
	logger zerolog.Logger,
) *CachedService {
	return &CachedService{inner: inner, current: current, forecasts: forecasts, logger: logger}
}

func (s *CachedService) GetCurrent(ctx context.Context, loc models.Location) (models.WeatherData, error) {
	key := fmt.Sprintf("weather:%s", loc.Key())

	weather, err := s.current.Get(ctx, key)
	if err == nil {
		s.logger.Info().
			Ctx(ctx).
			Str("key", key).
			Msg("cache hit")
		return weather, nil
	}
	s.logger.Info().
		Ctx(ctx).
		Str("key", key).
		Err(err).
		Msg("cache miss")

	weather, err = s.inner.GetCurrent(ctx, loc)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("inner service failed")
		return models.WeatherData{}, err
	}

	if err := s.current.Set(ctx, key, weather); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("cache set failed")
	}

	return weather, nil
}

func (s *CachedService) GetForecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error) {
	key := fmt.Sprintf("forecast:%s:%d", loc.Key(), days)

	forecast, err := s.forecasts.Get(ctx, key)
	if err == nil {
		s.logger.Info().
			Ctx(ctx).
			Str("key", key).
			Msg("cache hit")
		return forecast, nil
	}
	s.logger.Info().
		Ctx(ctx).
		Str("key", key).
		Err(err).
		Msg("cache miss")

	forecast, err = s.inner.GetForecast(ctx, loc, days)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("inner service failed")
		return models.Forecast{}, err
	}

	if err := s.forecasts.Set(ctx, key, forecast); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("cache set failed")
	}

	return forecast, nil
}
