package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/talluriprudhvi/llm-agents/internal/models"
	"github.com/talluriprudhvi/llm-agents/internal/services/intent"
	"github.com/talluriprudhvi/llm-agents/internal/services/weather"
)

var ErrEmptyMessage = errors.New("message must not be empty")

const systemPrompt = "You are a friendly weather assistant. Answer briefly and conversationally. " +
	"When weather readings are provided, base your answer on them and do not invent values."

const clarifyReply = "I can check the weather for you - which city or zip code should I look up?"

type weatherService interface {
	GetCurrent(ctx context.Context, loc models.Location) (models.WeatherData, error)
	GetForecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error)
}

type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type historyRepository interface {
	CreateConversation(ctx context.Context) (string, error)
	Touch(ctx context.Context, conversationID string) error
	AppendMessage(ctx context.Context, conversationID, role, content string) error
	RecentMessages(ctx context.Context, conversationID string, n int) ([]models.Message, error)
	RecordLookup(ctx context.Context, loc models.Location) error
}

type detector interface {
	Detect(text string) intent.Query
}

type turnRecorder interface {
	RecordTurn(outcome string)
}

// Service runs one conversational turn: classify the prompt, fetch live
// weather when asked for, and relay everything to the model backend.
type Service struct {
	weather  weatherService
	model    completer
	history  historyRepository
	detector detector
	recorder turnRecorder
	logger   zerolog.Logger
	units    string
	window   int
}

func NewService(
	weatherSvc weatherService,
	model completer,
	history historyRepository,
	det detector,
	recorder turnRecorder,
	logger zerolog.Logger,
	units string,
	window int,
) *Service {
	return &Service{
		weather:  weatherSvc,
		model:    model,
		history:  history,
		detector: det,
		recorder: recorder,
		logger:   logger,
		units:    units,
		window:   window,
	}
}

func (s *Service) Chat(ctx context.Context, conversationID, message string) (models.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return models.Reply{}, ErrEmptyMessage
	}

	var err error
	if conversationID == "" {
		conversationID, err = s.history.CreateConversation(ctx)
		if err != nil {
			return models.Reply{}, err
		}
	} else if err = s.history.Touch(ctx, conversationID); err != nil {
		return models.Reply{}, err
	}

	past, err := s.history.RecentMessages(ctx, conversationID, s.window)
	if err != nil {
		return models.Reply{}, err
	}

	if err := s.history.AppendMessage(ctx, conversationID, models.RoleUser, message); err != nil {
		return models.Reply{}, err
	}

	reply := s.answer(ctx, conversationID, message, past)

	if err := s.history.AppendMessage(ctx, conversationID, models.RoleAssistant, reply.Text); err != nil {
		return models.Reply{}, err
	}

	return reply, nil
}

func (s *Service) answer(ctx context.Context, conversationID, message string, past []models.Message) models.Reply {
	q := s.detector.Detect(message)

	if q.Kind == intent.KindNone {
		text, err := s.model.Complete(ctx, s.prompt("", past), message)
		if err != nil {
			s.record("model_error")
			s.logger.Error().Ctx(ctx).Err(err).Msg("model failed on small talk")
			text = "Sorry, I couldn't reach the model right now. Please try again."
		} else {
			s.record("ok")
		}
		return models.Reply{ConversationID: conversationID, Text: text}
	}

	if q.Location.Query == "" {
		s.record("clarify")
		return models.Reply{ConversationID: conversationID, Text: clarifyReply}
	}

	readings, err := s.fetch(ctx, q)
	if err != nil {
		s.record("provider_error")
		s.logger.Error().
			Ctx(ctx).
			Str("location", q.Location.Query).
			Err(err).
			Msg("weather fetch failed")
		return models.Reply{
			ConversationID: conversationID,
			Text: fmt.Sprintf("I couldn't reach the weather service for %q right now, please try again shortly.",
				q.Location.Query),
		}
	}

	if err := s.history.RecordLookup(ctx, q.Location); err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Msg("failed to record lookup")
	}

	text, err := s.model.Complete(ctx, s.prompt(readings, past), message)
	if err != nil {
		// The fetch already succeeded, so hand the user the raw readings.
		s.record("degraded")
		s.logger.Error().Ctx(ctx).Err(err).Msg("model failed, replying with raw readings")
		return models.Reply{ConversationID: conversationID, Text: readings, WeatherUsed: true}
	}

	s.record("ok")
	return models.Reply{ConversationID: conversationID, Text: text, WeatherUsed: true}
}

func (s *Service) fetch(ctx context.Context, q intent.Query) (string, error) {
	if q.Kind == intent.KindForecast {
		forecast, err := s.weather.GetForecast(ctx, q.Location, q.Days)
		if err != nil {
			return "", err
		}
		return weather.FormatForecast(forecast, s.units), nil
	}

	data, err := s.weather.GetCurrent(ctx, q.Location)
	if err != nil {
		return "", err
	}
	return weather.FormatCurrent(data, s.units), nil
}

// prompt assembles the system prompt from the base instructions, the fetched
// readings, and the recent history window.
func (s *Service) prompt(readings string, past []models.Message) string {
	var b strings.Builder
	b.WriteString(systemPrompt)

	if readings != "" {
		b.WriteString("\n\nLive weather readings:\n")
		b.WriteString(readings)
	}

	if len(past) > 0 {
		b.WriteString("\n\nRecent conversation:\n")
		for _, msg := range past {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
	}

	return b.String()
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordTurn(outcome)
	}
}
