package weather_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/talluriprudhvi/llm-agents/internal/models"
	"github.com/talluriprudhvi/llm-agents/internal/services/weather"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, ok := args.Get(0).(*http.Response)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

const owmCurrentBody = `{
  "name": "London",
  "sys": {"country": "GB", "sunrise": 1700030000, "sunset": 1700062400},
  "timezone": 0,
  "weather": [{"main": "Rain", "description": "light rain"}],
  "main": {"temp": 52.3, "feels_like": 49.1, "humidity": 81},
  "wind": {"speed": 9.2}
}`

func Test_OpenWeatherMap_Current_Success(t *testing.T) {
	m := &mockHTTPClient{}

	var gotURL string
	m.On("Do", mock.Anything).Run(func(args mock.Arguments) {
		req, ok := args.Get(0).(*http.Request)
		require.True(t, ok)
		gotURL = req.URL.String()
	}).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(owmCurrentBody)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewOpenWeatherMapClient("1234567890", "https://api.example.com/data/2.5", "imperial", m, zerolog.Nop())

	data, err := client.Current(context.Background(), models.Location{Query: "London", Country: "gb"})
	assert.NoError(t, err)
	assert.Equal(t, "London", data.Location)
	assert.Equal(t, "GB", data.Country)
	assert.Equal(t, "Light rain", data.Condition)
	assert.Equal(t, 52.3, data.Temperature)
	assert.Equal(t, 49.1, data.FeelsLike)
	assert.Equal(t, 81, data.Humidity)
	assert.Equal(t, 9.2, data.WindSpeed)
	assert.NotEmpty(t, data.Sunrise)
	assert.NotEmpty(t, data.Sunset)

	assert.Contains(t, gotURL, "appid=1234567890")
	assert.Contains(t, gotURL, "units=imperial")
	assert.Contains(t, gotURL, "q=London%2Cgb")
}

func Test_OpenWeatherMap_Current_ZipQuery(t *testing.T) {
	m := &mockHTTPClient{}

	var gotURL string
	m.On("Do", mock.Anything).Run(func(args mock.Arguments) {
		req, ok := args.Get(0).(*http.Request)
		require.True(t, ok)
		gotURL = req.URL.String()
	}).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(owmCurrentBody)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewOpenWeatherMapClient("1234567890", "https://api.example.com/data/2.5", "imperial", m, zerolog.Nop())

	_, err := client.Current(context.Background(), models.Location{Query: "10001", Zip: true, Country: "us"})
	assert.NoError(t, err)
	assert.Contains(t, gotURL, "zip=10001%2Cus")
	assert.NotContains(t, gotURL, "q=")
}

func Test_OpenWeatherMap_Current_CityNotFound(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`{"cod": "404", "message": "city not found"}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewOpenWeatherMapClient("1234567890", "https://api.example.com/data/2.5", "imperial", m, zerolog.Nop())

	data, err := client.Current(context.Background(), models.Location{Query: "UnknownCity", Country: "us"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API Error (404): city not found")
	assert.Equal(t, models.WeatherData{}, data)

	var apiErr *weather.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func Test_OpenWeatherMap_Current_ErrorWithoutMessage(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(strings.NewReader(`boom`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewOpenWeatherMapClient("1234567890", "https://api.example.com/data/2.5", "imperial", m, zerolog.Nop())

	_, err := client.Current(context.Background(), models.Location{Query: "London", Country: "us"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API Error (500): Unknown error")
}

func Test_OpenWeatherMap_Forecast_GroupsByDay(t *testing.T) {
	m := &mockHTTPClient{}

	body := `{
	  "city": {"name": "Kyiv", "country": "UA", "timezone": 0},
	  "list": [
		{"dt": 86400, "main": {"temp": 40.1}, "weather": [{"description": "overcast clouds"}]},
		{"dt": 97200, "main": {"temp": 42.7}, "weather": [{"description": "light snow"}]},
		{"dt": 172800, "main": {"temp": 38.5}, "weather": [{"description": "clear sky"}]}
	  ]
	}`

	var gotURL string
	m.On("Do", mock.Anything).Run(func(args mock.Arguments) {
		req, ok := args.Get(0).(*http.Request)
		require.True(t, ok)
		gotURL = req.URL.String()
	}).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewOpenWeatherMapClient("1234567890", "https://api.example.com/data/2.5", "imperial", m, zerolog.Nop())

	forecast, err := client.Forecast(context.Background(), models.Location{Query: "Kyiv", Country: "ua"}, 2)
	require.NoError(t, err)

	assert.Equal(t, "Kyiv", forecast.Location)
	assert.Equal(t, "UA", forecast.Country)
	require.Len(t, forecast.Days, 2)
	assert.Len(t, forecast.Days[0].Points, 2)
	assert.Len(t, forecast.Days[1].Points, 1)
	assert.Equal(t, "Overcast clouds", forecast.Days[0].Points[0].Condition)

	assert.Contains(t, gotURL, "cnt=16")
}

func Test_OpenWeatherMap_Forecast_CntCappedAtForty(t *testing.T) {
	m := &mockHTTPClient{}

	var gotURL string
	m.On("Do", mock.Anything).Run(func(args mock.Arguments) {
		req, ok := args.Get(0).(*http.Request)
		require.True(t, ok)
		gotURL = req.URL.String()
	}).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"city": {"name": "Kyiv", "country": "UA"}, "list": []}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := weather.NewOpenWeatherMapClient("1234567890", "https://api.example.com/data/2.5", "imperial", m, zerolog.Nop())

	_, err := client.Forecast(context.Background(), models.Location{Query: "Kyiv", Country: "ua"}, 7)
	require.NoError(t, err)
	assert.Contains(t, gotURL, "cnt=40")
}
