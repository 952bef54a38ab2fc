package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/talluriprudhvi/llm-agents/internal/config"
	chatHandler "github.com/talluriprudhvi/llm-agents/internal/handlers/chat"
	weatherHandler "github.com/talluriprudhvi/llm-agents/internal/handlers/weather"
	"github.com/talluriprudhvi/llm-agents/internal/models"
	"github.com/talluriprudhvi/llm-agents/internal/repository"
	"github.com/talluriprudhvi/llm-agents/internal/services/agent"
	"github.com/talluriprudhvi/llm-agents/internal/services/cache"
	"github.com/talluriprudhvi/llm-agents/internal/services/intent"
	"github.com/talluriprudhvi/llm-agents/internal/services/llm"
	loggerT "github.com/talluriprudhvi/llm-agents/internal/services/logger"
	metricsSvc "github.com/talluriprudhvi/llm-agents/internal/services/metrics"
	serviceWeather "github.com/talluriprudhvi/llm-agents/internal/services/weather"
	"github.com/talluriprudhvi/llm-agents/internal/services/weather/decorators"
	"github.com/talluriprudhvi/llm-agents/internal/warmup"
)

const timeoutDuration = 5 * time.Second

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

// ServiceContainer holds initialized dependencies for the server.
type ServiceContainer struct {
	WeatherService *decorators.CachedService
	AgentService   *agent.Service
	History        *repository.HistoryRepository
	Warmer         *warmup.Warmer

	Router     *gin.Engine
	Srv        *http.Server
	Db         *sql.DB
	Redis      *redis.Client
	fileLogger *zap.Logger
}

func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().Msg("initializing agent service")

	db, err := CreateSqliteDb(a.cfg.DB.Dialect, a.cfg.DB.Source)
	if err != nil {
		return ServiceContainer{}, err
	}

	if err := InitSqliteDb(db, a.cfg.DB.Dialect, a.cfg.DB.MigrationsPath); err != nil {
		return ServiceContainer{}, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: a.cfg.Redis.Host + ":" + a.cfg.Redis.Port,
		DB:   a.cfg.Redis.DbType,
	})

	fileLogger, err := loggerT.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		return ServiceContainer{}, err
	}

	httpLogClient := &http.Client{
		Transport: loggerT.NewRoundTripper(fileLogger),
	}

	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	openWeather := serviceWeather.NewBreakerClient("OpenWeatherMap", breakerCfg,
		serviceWeather.NewOpenWeatherMapClient(
			a.cfg.OpenWeatherMapAPIKey,
			a.cfg.OpenWeatherMapURL,
			a.cfg.Units,
			httpLogClient,
			a.l,
		),
	)
	providers := []serviceWeather.Client{openWeather}
	if a.cfg.WeatherAPIKey != "" {
		providers = append(providers, serviceWeather.NewBreakerClient("WeatherAPI", breakerCfg,
			serviceWeather.NewClientWeatherAPI(
				a.cfg.WeatherAPIKey,
				a.cfg.WeatherAPIURL,
				httpLogClient,
				a.l,
			),
		))
	}
	rawWeather := serviceWeather.NewService(a.l, a.m, providers...)

	ttl := time.Duration(a.cfg.Redis.LiveTime) * time.Minute
	collector := metricsSvc.NewPromCollector()
	currentCache := cache.NewMetricsDecorator[models.WeatherData](
		cache.NewRedisClient[models.WeatherData](redisClient, a.l, ttl),
		collector,
	)
	forecastCache := cache.NewMetricsDecorator[models.Forecast](
		cache.NewRedisClient[models.Forecast](redisClient, a.l, ttl),
		collector,
	)
	weatherService := decorators.NewCachedService(rawWeather, currentCache, forecastCache, a.l)

	modelService := llm.NewService(a.l, a.m, a.modelBackends(ctx, httpLogClient)...)

	history := repository.NewHistoryRepository(db, a.l)

	agentService := agent.NewService(
		weatherService,
		modelService,
		history,
		intent.NewDetector(a.cfg.DefaultCountry),
		a.m,
		a.l,
		a.cfg.Units,
		a.cfg.HistoryWindow,
	)

	warmer := warmup.New(history, weatherService, a.l, a.cfg.Warmup.Schedule, a.cfg.Warmup.TopLocations)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(a.m.HTTPMiddleware())

	apiServer := &http.Server{
		Addr:        a.cfg.Server.Address,
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		WeatherService: weatherService,
		AgentService:   agentService,
		History:        history,
		Warmer:         warmer,

		Router:     router,
		Srv:        apiServer,
		Db:         db,
		Redis:      redisClient,
		fileLogger: fileLogger,
	}, nil
}

// modelBackends assembles the inference chain: Bedrock first when AWS
// credentials are present, then any OpenAI-compatible endpoint.
func (a *App) modelBackends(ctx context.Context, httpClient *http.Client) []llm.Completer {
	var backends []llm.Completer

	bedrock, err := llm.NewBedrockClient(ctx, llm.BedrockConfig{
		AccessKeyID:     a.cfg.Bedrock.AccessKeyID,
		SecretAccessKey: a.cfg.Bedrock.SecretAccessKey,
		Region:          a.cfg.Bedrock.Region,
		ModelID:         a.cfg.Bedrock.ModelID,
	}, a.l)
	if err != nil {
		a.l.Warn().Err(err).Msg("bedrock backend disabled")
	} else {
		backends = append(backends, bedrock)
	}

	if a.cfg.OpenAI.APIKey != "" {
		backends = append(backends, llm.NewOpenAIClient(
			a.cfg.OpenAI.APIKey,
			a.cfg.OpenAI.URL,
			a.cfg.OpenAI.Model,
			httpClient,
			a.l,
		))
	}

	if len(backends) == 0 {
		a.l.Warn().Msg("no model backends configured, chat replies will degrade to raw readings")
	}
	return backends
}

func (a *App) Start(srvContainer ServiceContainer) error {
	a.l.Info().Str("address", a.cfg.Server.Address).Msg("starting server")

	chHandler := chatHandler.NewHandler(srvContainer.AgentService, srvContainer.History)
	wHandler := weatherHandler.NewHandler(srvContainer.WeatherService, a.cfg.DefaultCountry)

	api := srvContainer.Router.Group("/api")
	{
		api.POST("/chat", chHandler.PostChat)
		api.GET("/conversations/:id/messages", chHandler.GetMessages)
		api.GET("/weather", wHandler.GetWeather)
		api.GET("/forecast", wHandler.GetForecast)
	}
	srvContainer.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	srvContainer.Router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := srvContainer.Warmer.Start(); err != nil {
		return err
	}

	if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Stop(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping application")

	srvContainer.Warmer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	if err := srvContainer.Redis.Close(); err != nil {
		a.l.Error().Err(err).Msg("redis close error")
	}

	if err := srvContainer.Db.Close(); err != nil {
		a.l.Error().Err(err).Msg("DB close error")
	} else {
		a.l.Info().Msg("database closed")
	}

	if err := srvContainer.fileLogger.Sync(); err != nil {
		a.l.Error().Err(err).Msg("failed to sync file logger")
	}

	a.l.Info().Msg("shutdown complete")
	return nil
}

func CreateSqliteDb(dialect, name string) (*sql.DB, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}
	connectionString := "file:" + name + "?cache=shared&mode=rwc"
	db, err := sql.Open(dialect, connectionString)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitSqliteDb(db *sql.DB, dialect, migrationPath string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	return goose.Up(db, migrationPath)
}
