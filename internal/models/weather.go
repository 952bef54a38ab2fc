package models

import (
	"strings"
	"time"
)

// WeatherData is a current-conditions reading normalized across providers.
type WeatherData struct {
	Location    string  `json:"location"`
	Country     string  `json:"country,omitempty"`
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Sunrise     string  `json:"sunrise"`
	Sunset      string  `json:"sunset"`
}

// ForecastPoint is a single 3-hourly forecast entry.
type ForecastPoint struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
}

// ForecastDay groups the points that fall on one calendar day.
type ForecastDay struct {
	Date   string          `json:"date"`
	Points []ForecastPoint `json:"points"`
}

type Forecast struct {
	Location string        `json:"location"`
	Country  string        `json:"country,omitempty"`
	Days     []ForecastDay `json:"days"`
}

// Location identifies a place to query. Query holds either a city name or,
// when Zip is set, a postal code. Country is a two-letter code.
type Location struct {
	Query   string `json:"query"`
	Zip     bool   `json:"zip"`
	Country string `json:"country"`
}

// Key normalizes a location for use as a cache or lookup key.
func (l Location) Key() string {
	q := strings.ToLower(strings.TrimSpace(l.Query))
	c := strings.ToLower(strings.TrimSpace(l.Country))
	if l.Zip {
		return "zip:" + q + "," + c
	}
	return q + "," + c
}
