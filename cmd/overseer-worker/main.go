package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/hyvern/overseer/pkg/cmd"
	"github.com/hyvern/overseer/pkg/config"
	"github.com/hyvern/overseer/pkg/gateway"
	"github.com/hyvern/overseer/pkg/log"
	"github.com/hyvern/overseer/pkg/workflow"
)

func main() {
	command := &cli.Command{
		Name:                  "overseer-worker",
		EnableShellCompletion: true,
		Usage:                 "Start a worker that executes work-item workflows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence (redis:// or a file root)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "kafka",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "config-file",
				Usage:   "Path to the worker YAML config",
				Value:   "",
				Sources: cli.EnvVars("WORKER_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "gateway-url",
				Usage:   "Agent gateway RPC endpoint (overrides the config file)",
				Value:   "",
				Sources: cli.EnvVars("GATEWAY_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("overseer-worker").With("worker_id", workerID)

			logger.InfoContext(ctx, "Initializing Overseer worker")

			cfg := config.Default()

			if path := command.String("config-file"); path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}

				cfg = loaded
			}

			if url := command.String("gateway-url"); url != "" {
				cfg.Gateway.URL = url
			}

			if err := config.Validate(cfg); err != nil {
				return err
			}

			if !cfg.Enabled || !cfg.Workflow.Enabled {
				logger.WarnContext(ctx, "Worker disabled by configuration, exiting")

				return nil
			}

			eventBus := cmd.NewEventBus(command.String("event-bus"), "overseer-worker", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(command.String("database-url"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			client := gateway.NewHTTPClient(cfg.Gateway.URL, logger)
			engine := workflow.NewEngine(client, client, cfg, logger)

			worker := NewWorker(workerID, persistence, eventBus, engine, logger)

			if err := worker.Start(ctx); err != nil {
				logger.ErrorContext(ctx, "Worker stopped with error", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		log.WithModule("overseer-worker").Error("Worker exited", "error", err)
		os.Exit(1)
	}
}
