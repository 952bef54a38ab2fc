package warmup

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/talluriprudhvi/llm-agents/internal/models"
)

const runTimeout = 2 * time.Minute

type locationSource interface {
	TopLocations(ctx context.Context, n int) ([]models.Location, error)
}

type weatherService interface {
	GetCurrent(ctx context.Context, loc models.Location) (models.WeatherData, error)
}

// Warmer periodically refreshes the most queried locations through the
// cached weather service so popular answers stay warm.
type Warmer struct {
	source  locationSource
	weather weatherService
	logger  zerolog.Logger
	cron    *cron.Cron

	schedule string
	topN     int
}

func New(source locationSource, weatherSvc weatherService, logger zerolog.Logger, schedule string, topN int) *Warmer {
	return &Warmer{
		source:   source,
		weather:  weatherSvc,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
		topN:     topN,
	}
}

func (w *Warmer) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := w.RunOnce(ctx); err != nil {
			w.logger.Error().Err(err).Msg("warmup run failed")
		}
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	w.logger.Info().
		Str("schedule", w.schedule).
		Int("top_locations", w.topN).
		Msg("cache warmer started")
	return nil
}

func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
	w.logger.Info().Msg("cache warmer stopped")
}

func (w *Warmer) RunOnce(ctx context.Context) error {
	locs, err := w.source.TopLocations(ctx, w.topN)
	if err != nil {
		return err
	}
	if len(locs) == 0 {
		w.logger.Info().Msg("no popular locations to warm")
		return nil
	}

	for _, loc := range locs {
		if _, err := w.weather.GetCurrent(ctx, loc); err != nil {
			w.logger.Error().
				Str("location", loc.Query).
				Err(err).
				Msg("warmup fetch failed")
		}
	}
	return nil
}
