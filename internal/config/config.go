package config

import "github.com/kelseyhightower/envconfig"

type Server struct {
	Address     string `envconfig:"SERVER_ADDRESS" default:":8080"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Redis struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DbType   int    `envconfig:"REDIS_DB_TYPE" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"10"`
}

type DB struct {
	Dialect        string `envconfig:"DB_DIALECT" default:"sqlite"`
	Source         string `envconfig:"DB_SOURCE" default:"./data/agent.db"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"./migrations"`
}

type Bedrock struct {
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
	ModelID         string `envconfig:"BEDROCK_MODEL_ID" default:"anthropic.claude-3-haiku-20240307-v1:0"`
}

type OpenAI struct {
	APIKey string `envconfig:"OPENAI_API_KEY"`
	URL    string `envconfig:"OPENAI_URL" default:"https://api.openai.com/v1/chat/completions"`
	Model  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
}

type Warmup struct {
	Schedule     string `envconfig:"WARMUP_SCHEDULE" default:"@every 30m"`
	TopLocations int    `envconfig:"WARMUP_TOP_LOCATIONS" default:"10"`
}

type Config struct {
	OpenWeatherMapAPIKey string `envconfig:"OPENWEATHER_API_KEY" required:"true"`
	OpenWeatherMapURL    string `envconfig:"OPENWEATHER_URL" default:"https://api.openweathermap.org/data/2.5"`

	WeatherAPIKey string `envconfig:"WEATHER_API_KEY"`
	WeatherAPIURL string `envconfig:"WEATHER_API_URL" default:"https://api.weatherapi.com/v1"`

	DefaultCountry string `envconfig:"DEFAULT_COUNTRY" default:"us"`
	Units          string `envconfig:"WEATHER_UNITS" default:"imperial"`

	HistoryWindow int `envconfig:"HISTORY_WINDOW" default:"10"`

	Server  Server
	Breaker Breaker
	Redis   Redis
	DB      DB
	Bedrock Bedrock
	OpenAI  OpenAI
	Warmup  Warmup

	// separate files: the service log rotates, the HTTP trace log must not
	// share its path or rotation orphans the trace writer's fd
	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/llm-agents.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/llm-agents-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
