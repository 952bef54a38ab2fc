package decorators_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/talluriprudhvi/llm-agents/internal/models"
	"github.com/talluriprudhvi/llm-agents/internal/services/weather/decorators"
)

type mockInner struct {
	mock.Mock
}

func (m *mockInner) GetCurrent(ctx context.Context, loc models.Location) (models.WeatherData, error) {
	args := m.Called(ctx, loc)
	data, ok := args.Get(0).(models.WeatherData)
	if !ok {
		return models.WeatherData{}, args.Error(1)
	}
	return data, args.Error(1)
}

func (m *mockInner) GetForecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error) {
	args := m.Called(ctx, loc, days)
	data, ok := args.Get(0).(models.Forecast)
	if !ok {
		return models.Forecast{}, args.Error(1)
	}
	return data, args.Error(1)
}

type mockCache[T any] struct {
	mock.Mock
}

func (m *mockCache[T]) Set(ctx context.Context, key string, value T) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

//nolint:ireturn
func (m *mockCache[T]) Get(ctx context.Context, key string) (T, error) {
	args := m.Called(ctx, key)
	value, ok := args.Get(0).(T)
	if !ok {
		var zero T
		return zero, args.Error(1)
	}
	return value, args.Error(1)
}

var errCacheMiss = errors.New("cache miss")

var kyivLoc = models.Location{Query: "Kyiv", Country: "ua"}

func TestCachedService_GetCurrent_CacheHit(t *testing.T) {
	inner := &mockInner{}
	current := &mockCache[models.WeatherData]{}
	forecasts := &mockCache[models.Forecast]{}
	cached := models.WeatherData{Location: "Kyiv", Temperature: 20, Condition: "Clear"}

	current.On("Get", mock.Anything, "weather:kyiv,ua").Return(cached, nil).Once()

	svc := decorators.NewCachedService(inner, current, forecasts, zerolog.Nop())

	data, err := svc.GetCurrent(context.Background(), kyivLoc)
	assert.NoError(t, err)
	assert.Equal(t, cached, data)

	current.AssertExpectations(t)
	inner.AssertNotCalled(t, "GetCurrent", mock.Anything, mock.Anything)
}

func TestCachedService_GetCurrent_MissPopulatesCache(t *testing.T) {
	inner := &mockInner{}
	current := &mockCache[models.WeatherData]{}
	forecasts := &mockCache[models.Forecast]{}
	fetched := models.WeatherData{Location: "Kyiv", Temperature: 19, Condition: "Cloudy"}

	current.On("Get", mock.Anything, "weather:kyiv,ua").
		Return(models.WeatherData{}, errCacheMiss).Once()
	inner.On("GetCurrent", mock.Anything, kyivLoc).Return(fetched, nil).Once()
	current.On("Set", mock.Anything, "weather:kyiv,ua", fetched).Return(nil).Once()

	svc := decorators.NewCachedService(inner, current, forecasts, zerolog.Nop())

	data, err := svc.GetCurrent(context.Background(), kyivLoc)
	assert.NoError(t, err)
	assert.Equal(t, fetched, data)

	current.AssertExpectations(t)
	inner.AssertExpectations(t)
}

func TestCachedService_GetCurrent_InnerFailure(t *testing.T) {
	inner := &mockInner{}
	current := &mockCache[models.WeatherData]{}
	forecasts := &mockCache[models.Forecast]{}

	current.On("Get", mock.Anything, "weather:kyiv,ua").
		Return(models.WeatherData{}, errCacheMiss).Once()
	inner.On("GetCurrent", mock.Anything, kyivLoc).
		Return(models.WeatherData{}, errors.New("all providers down")).Once()

	svc := decorators.NewCachedService(inner, current, forecasts, zerolog.Nop())

	data, err := svc.GetCurrent(context.Background(), kyivLoc)
	assert.Error(t, err)
	assert.Equal(t, models.WeatherData{}, data)

	current.AssertExpectations(t)
	inner.AssertExpectations(t)
	current.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedService_GetForecast_KeyIncludesDays(t *testing.T) {
	inner := &mockInner{}
	current := &mockCache[models.WeatherData]{}
	forecasts := &mockCache[models.Forecast]{}
	fetched := models.Forecast{Location: "Kyiv", Days: []models.ForecastDay{{Date: "2026-08-30"}}}

	forecasts.On("Get", mock.Anything, "forecast:kyiv,ua:3").
		Return(models.Forecast{}, errCacheMiss).Once()
	inner.On("GetForecast", mock.Anything, kyivLoc, 3).Return(fetched, nil).Once()
	forecasts.On("Set", mock.Anything, "forecast:kyiv,ua:3", fetched).Return(nil).Once()

	svc := decorators.NewCachedService(inner, current, forecasts, zerolog.Nop())

	data, err := svc.GetForecast(context.Background(), kyivLoc, 3)
	assert.NoError(t, err)
	assert.Equal(t, fetched, data)

	forecasts.AssertExpectations(t)
	inner.AssertExpectations(t)
}

func TestCachedService_GetCurrent_SetFailureStillReturnsData(t *testing.T) {
	inner := &mockInner{}
	current := &mockCache[models.WeatherData]{}
	forecasts := &mockCache[models.Forecast]{}
	fetched := models.WeatherData{Location: "Kyiv", Temperature: 19, Condition: "Cloudy"}

	current.On("Get", mock.Anything, "weather:kyiv,ua").
		Return(models.WeatherData{}, errCacheMiss).Once()
	inner.On("GetCurrent", mock.Anything, kyivLoc).Return(fetched, nil).Once()
	current.On("Set", mock.Anything, "weather:kyiv,ua", fetched).
		Return(errors.New("redis down")).Once()

	svc := decorators.NewCachedService(inner, current, forecasts, zerolog.Nop())

	data, err := svc.GetCurrent(context.Background(), kyivLoc)
	assert.NoError(t, err)
	assert.Equal(t, fetched, data)
}
