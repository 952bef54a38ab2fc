package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/talluriprudhvi/llm-agents/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerClient shields a provider behind a circuit breaker so a flapping
// upstream stops being called until its timeout elapses.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped Client
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped Client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Name() string { return b.name }

func (b *BreakerClient) Current(ctx context.Context, loc models.Location) (models.WeatherData, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Current(ctx, loc)
	})
	if err != nil {
		return models.WeatherData{},
			fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	res, ok := result.(models.WeatherData)
	if !ok {
		return models.WeatherData{},
			fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}

func (b *BreakerClient) Forecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Forecast(ctx, loc, days)
	})
	if err != nil {
		return models.Forecast{},
			fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	res, ok := result.(models.Forecast)
	if !ok {
		return models.Forecast{},
			fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}
