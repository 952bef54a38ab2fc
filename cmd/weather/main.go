// Command weather is a direct weather lookup tool: it prints the current
// conditions for a city or zip code and, optionally, a multi-day forecast.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/talluriprudhvi/llm-agents/internal/config"
	"github.com/talluriprudhvi/llm-agents/internal/models"
	"github.com/talluriprudhvi/llm-agents/internal/services/weather"
)

const requestTimeout = 15 * time.Second

// weatherClients builds the provider chain; weatherapi.com joins only when
// its key is configured.
func weatherClients(cfg *config.Config, httpClient weather.HTTPClient, l zerolog.Logger) []weather.Client {
	clients := []weather.Client{
		weather.NewOpenWeatherMapClient(cfg.OpenWeatherMapAPIKey, cfg.OpenWeatherMapURL, cfg.Units, httpClient, l),
	}
	if cfg.WeatherAPIKey != "" {
		clients = append(clients, weather.NewClientWeatherAPI(cfg.WeatherAPIKey, cfg.WeatherAPIURL, httpClient, l))
	}
	return clients
}

func main() {
	zip := flag.Bool("zip", false, "indicate that the location is a zip code")
	country := flag.String("country", "us", "two-letter country code")
	forecast := flag.Bool("forecast", false, "show forecast")
	days := flag.Int("days", 3, "number of days for forecast")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: weather [flags] <city or zip code>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	l := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	httpClient := &http.Client{Timeout: requestTimeout}

	svc := weather.NewService(l, nil, weatherClients(cfg, httpClient, l)...)

	loc := models.Location{
		Query:   flag.Arg(0),
		Zip:     *zip,
		Country: *country,
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	current, err := svc.GetCurrent(ctx, loc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(weather.FormatCurrent(current, cfg.Units))

	if *forecast {
		fc, err := svc.GetForecast(ctx, loc, *days)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(weather.FormatForecast(fc, cfg.Units))
	}
}
