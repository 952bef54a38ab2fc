package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var ErrAllBackendsFailed = errors.New("all model backends failed")

// Completer sends a prompt to a model backend and returns the reply text.
type Completer interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

type modelRecorder interface {
	RecordModel(backend string, d time.Duration)
}

// ServiceProvider walks an ordered chain of model backends and returns the
// first successful completion.
type ServiceProvider struct {
	logger   zerolog.Logger
	recorder modelRecorder
	backends []Completer
}

func NewService(logger zerolog.Logger, recorder modelRecorder, backends ...Completer) *ServiceProvider {
	return &ServiceProvider{backends: backends, logger: logger, recorder: recorder}
}

func (s *ServiceProvider) Complete(ctx context.Context, system, user string) (string, error) {
	for _, backend := range s.backends {
		s.logger.Info().
			Ctx(ctx).
			Str("backend", backend.Name()).
			Msg("calling Complete")
		start := time.Now()
		text, err := backend.Complete(ctx, system, user)
		if s.recorder != nil {
			s.recorder.RecordModel(backend.Name(), time.Since(start))
		}
		if err != nil {
			s.logger.Error().
				Ctx(ctx).
				Str("backend", backend.Name()).
				Err(err).
				Msg("completion failed")
			continue
		}
		s.logger.Info().
			Ctx(ctx).
			Str("backend", backend.Name()).
			Msg("completion succeeded")
		return text, nil
	}
	return "", ErrAllBackendsFailed
}
