package weather

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talluriprudhvi/llm-agents/internal/models"
	serviceWeather "github.com/talluriprudhvi/llm-agents/internal/services/weather"
)

const (
	timeoutDuration = 10 * time.Second

	defaultDays = 3
	maxDays     = 5
)

type WeatherServicer interface {
	GetCurrent(ctx context.Context, loc models.Location) (models.WeatherData, error)
	GetForecast(ctx context.Context, loc models.Location, days int) (models.Forecast, error)
}

type Handler struct {
	service        WeatherServicer
	defaultCountry string
}

func NewHandler(svc WeatherServicer, defaultCountry string) *Handler {
	return &Handler{service: svc, defaultCountry: defaultCountry}
}

// GetWeather returns the current conditions for a location.
func (h *Handler) GetWeather(c *gin.Context) {
	loc, ok := h.location(c)
	if !ok {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	data, err := h.service.GetCurrent(ctxWithTimeout, loc)
	if err != nil {
		respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetForecast returns a grouped multi-day forecast for a location.
func (h *Handler) GetForecast(c *gin.Context) {
	loc, ok := h.location(c)
	if !ok {
		return
	}

	days := defaultDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}
	if days > maxDays {
		days = maxDays
	}

	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	forecast, err := h.service.GetForecast(ctxWithTimeout, loc, days)
	if err != nil {
		respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// location reads either location=<city> or zip=<postal code>, with an
// optional country override.
func (h *Handler) location(c *gin.Context) (models.Location, bool) {
	query := c.Query("location")
	zip := c.Query("zip")
	if query == "" && zip == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location or zip query parameter is required"})
		return models.Location{}, false
	}

	country := c.Query("country")
	if country == "" {
		country = h.defaultCountry
	}

	if zip != "" {
		return models.Location{Query: zip, Zip: true, Country: country}, true
	}
	return models.Location{Query: query, Country: country}, true
}

func respondFetchError(c *gin.Context, err error) {
	var apiErr *serviceWeather.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
