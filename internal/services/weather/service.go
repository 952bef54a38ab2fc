package weather

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/talluriprudhvi/llm-agents/internal/models"
)

var ErrAllProvidersFailed = errors.New("all weather API clients failed")

// APIError reports a non-2xx reply from an upstream weather API. Status lets
// callers distinguish a bad location from an outage.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client fetches readings from one upstream weather API.
type Client interface {
	Name() string
	Current(ctx context.Context, loc models.Location) (models.WeatherData, error)
	Forecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type providerRecorder interface {
	RecordProvider(provider, result string)
}

// ServiceProvider walks an ordered chain of weather clients and returns the
// first successful answer.
type ServiceProvider struct {
	logger   zerolog.Logger
	recorder providerRecorder
	clients  []Client
}

func NewService(logger zerolog.Logger, recorder providerRecorder, clients ...Client) *ServiceProvider {
	return &ServiceProvider{clients: clients, logger: logger, recorder: recorder}
}

func (s *ServiceProvider) GetCurrent(ctx context.Context, loc models.Location) (models.WeatherData, error) {
	var lastErr error
	for _, cl := range s.clients {
		s.logger.Info().
			Ctx(ctx).
			Str("client", cl.Name()).
			Str("location", loc.Query).
			Msg("calling Current")
		data, err := cl.Current(ctx, loc)
		if err != nil {
			lastErr = err
			s.record(cl.Name(), "error")
			s.logger.Error().
				Ctx(ctx).
				Str("client", cl.Name()).
				Err(err).
				Msg("current fetch failed")
			continue
		}
		s.record(cl.Name(), "success")
		return data, nil
	}
	s.logger.Error().
		Ctx(ctx).
		Str("location", loc.Query).
		Msg("GetCurrent giving up")
	// keep the last client error so callers can tell a bad location apart
	// from an outage
	return models.WeatherData{}, errors.Join(ErrAllProvidersFailed, lastErr)
}

func (s *ServiceProvider) GetForecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error) {
	var lastErr error
	for _, cl := range s.clients {
		s.logger.Info().
			Ctx(ctx).
			Str("client", cl.Name()).
			Str("location", loc.Query).
			Int("days", days).
			Msg("calling Forecast")
		data, err := cl.Forecast(ctx, loc, days)
		if err != nil {
			lastErr = err
			s.record(cl.Name(), "error")
			s.logger.Error().
				Ctx(ctx).
				Str("client", cl.Name()).
				Err(err).
				Msg("forecast fetch failed")
			continue
		}
		s.record(cl.Name(), "success")
		return data, nil
	}
	s.logger.Error().
		Ctx(ctx).
		Str("location", loc.Query).
		Msg("GetForecast giving up")
	return models.Forecast{}, errors.Join(ErrAllProvidersFailed, lastErr)
}

func (s *ServiceProvider) record(provider, result string) {
	if s.recorder != nil {
		s.recorder.RecordProvider(provider, result)
	}
}
