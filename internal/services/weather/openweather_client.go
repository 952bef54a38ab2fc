package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/talluriprudhvi/llm-agents/internal/models"
)

const (
	pointsPerDay = 8 // the API returns 3-hour increments
	maxPoints    = 40
)

type owmCurrentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
	Weather  []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecastResponse struct {
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

type ClientOpenWeatherMap struct {
	APIKey string
	apiURL string
	units  string
	client HTTPClient
	logger zerolog.Logger
}

func NewOpenWeatherMapClient(apiKey, apiURL, units string, httpClient HTTPClient, logger zerolog.Logger) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{APIKey: apiKey, apiURL: apiURL, units: units, client: httpClient, logger: logger}
}

func (s *ClientOpenWeatherMap) Name() string { return "OpenWeatherMap" }

func (s *ClientOpenWeatherMap) Current(ctx context.Context, loc models.Location) (models.WeatherData, error) {
	endpoint := s.apiURL + "/weather?" + s.query(loc, nil)

	var raw owmCurrentResponse
	if err := s.get(ctx, endpoint, &raw); err != nil {
		return models.WeatherData{}, err
	}
	if len(raw.Weather) == 0 {
		return models.WeatherData{}, fmt.Errorf("openweathermap: empty weather block for %q", loc.Query)
	}

	tz := time.FixedZone("", raw.Timezone)

	return models.WeatherData{
		Location:    raw.Name,
		Country:     raw.Sys.Country,
		Condition:   capitalize(raw.Weather[0].Description),
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		Sunrise:     time.Unix(raw.Sys.Sunrise, 0).In(tz).Format("15:04"),
		Sunset:      time.Unix(raw.Sys.Sunset, 0).In(tz).Format("15:04"),
	}, nil
}

func (s *ClientOpenWeatherMap) Forecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error) {
	cnt := days * pointsPerDay
	if cnt > maxPoints {
		cnt = maxPoints
	}
	endpoint := s.apiURL + "/forecast?" + s.query(loc, map[string]string{"cnt": fmt.Sprint(cnt)})

	var raw owmForecastResponse
	if err := s.get(ctx, endpoint, &raw); err != nil {
		return models.Forecast{}, err
	}

	tz := time.FixedZone("", raw.City.Timezone)

	byDay := map[string][]models.ForecastPoint{}
	for _, item := range raw.List {
		cond := ""
		if len(item.Weather) > 0 {
			cond = capitalize(item.Weather[0].Description)
		}
		at := time.Unix(item.Dt, 0).In(tz)
		day := at.Format("2006-01-02")
		byDay[day] = append(byDay[day], models.ForecastPoint{
			Time:        at,
			Temperature: item.Main.Temp,
			Condition:   cond,
		})
	}

	dayKeys := make([]string, 0, len(byDay))
	for day := range byDay {
		dayKeys = append(dayKeys, day)
	}
	sort.Strings(dayKeys)
	if len(dayKeys) > days {
		dayKeys = dayKeys[:days]
	}

	forecast := models.Forecast{Location: raw.City.Name, Country: raw.City.Country}
	for _, day := range dayKeys {
		forecast.Days = append(forecast.Days, models.ForecastDay{Date: day, Points: byDay[day]})
	}
	return forecast, nil
}

// query builds the shared parameter set: credentials, units, and either a
// city (q) or postal-code (zip) selector suffixed with the country code.
func (s *ClientOpenWeatherMap) query(loc models.Location, extra map[string]string) string {
	params := url.Values{}
	params.Set("appid", s.APIKey)
	params.Set("units", s.units)
	if loc.Zip {
		params.Set("zip", loc.Query+","+loc.Country)
	} else {
		params.Set("q", loc.Query+","+loc.Country)
	}
	for k, v := range extra {
		params.Set(k, v)
	}
	return params.Encode()
}

func (s *ClientOpenWeatherMap) get(ctx context.Context, endpoint string, out any) error {
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
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = "Unknown error"
		}
		return &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("API Error (%d): %s", resp.StatusCode, apiErr.Message),
		}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
