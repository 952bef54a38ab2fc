package weather

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/talluriprudhvi/llm-agents/internal/models"
)

// tempUnit maps the API units parameter to a display suffix.
func tempUnit(units string) string {
	if units == "metric" {
		return "°C"
	}
	return "°F"
}

func windUnit(units string) string {
	if units == "metric" {
		return "m/s"
	}
	return "mph"
}

// FormatCurrent renders a reading as a single human-readable block, used by
// the CLI and as the degraded reply when the model backend is down.
func FormatCurrent(data models.WeatherData, units string) string {
	var b strings.Builder

	place := data.Location
	if data.Country != "" {
		place += ", " + data.Country
	}
	fmt.Fprintf(&b, "Current weather in %s: %s, %.1f%s (feels like %.1f%s), humidity %d%%, wind %.1f %s",
		place, data.Condition,
		data.Temperature, tempUnit(units),
		data.FeelsLike, tempUnit(units),
		data.Humidity,
		data.WindSpeed, windUnit(units),
	)
	if data.Sunrise != "" && data.Sunset != "" {
		fmt.Fprintf(&b, ", sunrise %s, sunset %s", data.Sunrise, data.Sunset)
	}
	b.WriteString(".")
	return b.String()
}

// FormatForecast renders a forecast grouped by day, one line per 3-hour point.
func FormatForecast(forecast models.Forecast, units string) string {
	var b strings.Builder

	place := forecast.Location
	if forecast.Country != "" {
		place += ", " + forecast.Country
	}
	fmt.Fprintf(&b, "\nWeather Forecast for %s:\n", place)

	for _, day := range forecast.Days {
		header := day.Date
		if parsed, err := time.Parse("2006-01-02", day.Date); err == nil {
			header = parsed.Format("Monday, Jan 02")
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", header, strings.Repeat("=", len(header)+1))

		for _, p := range day.Points {
			fmt.Fprintf(&b, "%s: %.1f%s - %s\n",
				p.Time.Format("15:04"), p.Temperature, tempUnit(units), p.Condition)
		}
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
