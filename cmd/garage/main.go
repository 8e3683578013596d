package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/pipisou/garage/adapter/cli"
	"github.com/pipisou/garage/adapter/cli/appointment"
	"github.com/pipisou/garage/adapter/cli/catalog"
	"github.com/pipisou/garage/adapter/cli/mechanic"
	"github.com/pipisou/garage/adapter/cli/quote"
	"github.com/pipisou/garage/internal/app"
	"github.com/pipisou/garage/pkg/config"
	"github.com/pipisou/garage/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := observability.LoggerFromEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = cli.Version
	logger = observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			return 1
		}
		// version and help still work without a database
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		if cfg.OutboxProcessorEnabled {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				logger.Warn("failed to start outbox processor", "error", err)
			}
		} else {
			logger.Debug("outbox processor disabled in CLI")
		}

		cliApp := cli.NewApp(container)
		if cfg.ActorID != "" {
			actorID, err := uuid.Parse(cfg.ActorID)
			if err != nil {
				logger.Error("invalid GARAGE_ACTOR_ID", "error", err)
				return 1
			}
			cliApp.SetActorID(actorID)
		}
		cli.SetApp(cliApp)
	}

	cli.AddCommand(mechanic.Cmd)
	cli.AddCommand(catalog.Cmd)
	cli.AddCommand(quote.Cmd)
	cli.AddCommand(appointment.Cmd)

	// cobra has already printed the error
	if err := cli.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
