package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/talluriprudhvi/llm-agents/internal/app"
	"github.com/talluriprudhvi/llm-agents/internal/config"
	"github.com/talluriprudhvi/llm-agents/internal/services/metrics"
	"github.com/talluriprudhvi/llm-agents/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.LogsPath, "llm-agents")
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	met := metrics.NewMetrics("llm_agents")

	application := app.New(*cfg, l, met)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := application.Init(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize application")
	}

	go func() {
		<-ctx.Done()
		if err := application.Stop(container); err != nil {
			l.Error().Err(err).Msg("failed to shutdown application")
		}
	}()

	if err := application.Start(container); err != nil {
		l.Fatal().Err(err).Msg("server exited with error")
	}

	l.Info().Msg("application shutdown successfully")
}
