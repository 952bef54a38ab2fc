package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/talluriprudhvi/llm-agents/internal/models"
)

const hourStep = 3 // sample hourly forecasts down to 3-hour increments

type ClientWeatherAPI struct {
	APIKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewClientWeatherAPI(apiKey, apiURL string, httpClient HTTPClient, logger zerolog.Logger) *ClientWeatherAPI {
	return &ClientWeatherAPI{APIKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

func (s *ClientWeatherAPI) Name() string { return "WeatherAPI" }

func (s *ClientWeatherAPI) Current(ctx context.Context, loc models.Location) (models.WeatherData, error) {
	endpoint := fmt.Sprintf("%s/current.json?key=%s&q=%s", s.apiURL, s.APIKey, url.QueryEscape(loc.Query))

	var raw struct {
		Location struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"location"`
		Current struct {
			TempF     float64 `json:"temp_f"`
			FeelsF    float64 `json:"feelslike_f"`
			Humidity  int     `json:"humidity"`
			WindMph   float64 `json:"wind_mph"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := s.get(ctx, endpoint, &raw); err != nil {
		return models.WeatherData{}, err
	}

	return models.WeatherData{
		Location:    raw.Location.Name,
		Country:     raw.Location.Country,
		Condition:   raw.Current.Condition.Text,
		Temperature: raw.Current.TempF,
		FeelsLike:   raw.Current.FeelsF,
		Humidity:    raw.Current.Humidity,
		WindSpeed:   raw.Current.WindMph,
	}, nil
}

func (s *ClientWeatherAPI) Forecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error) {
	endpoint := fmt.Sprintf("%s/forecast.json?key=%s&q=%s&days=%d",
		s.apiURL, s.APIKey, url.QueryEscape(loc.Query), days)

	var raw struct {
		Location struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"location"`
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Hour []struct {
					TimeEpoch int64   `json:"time_epoch"`
					TempF     float64 `json:"temp_f"`
					Condition struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := s.get(ctx, endpoint, &raw); err != nil {
		return models.Forecast{}, err
	}

	forecast := models.Forecast{Location: raw.Location.Name, Country: raw.Location.Country}
	for _, day := range raw.Forecast.ForecastDay {
		fd := models.ForecastDay{Date: day.Date}
		for i, h := range day.Hour {
			if i%hourStep != 0 {
				continue
			}
			fd.Points = append(fd.Points, models.ForecastPoint{
				Time:        time.Unix(h.TimeEpoch, 0),
				Temperature: h.TempF,
				Condition:   h.Condition.Text,
			})
		}
		forecast.Days = append(forecast.Days, fd)
	}
	return forecast, nil
}

func (s *ClientWeatherAPI) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			s.logger.Error().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("weather API error: status %s", resp.Status),
		}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
