package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/hyvern/overseer/pkg/cmd"
	"github.com/hyvern/overseer/pkg/log"
	"github.com/hyvern/overseer/pkg/web"
)

const defaultPort = 9120

func main() {
	logger := log.WithModule("overseer-api")

	command := &cli.Command{
		Name:                  "overseer-api",
		Usage:                 "Enqueue work items and inspect workflow runs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
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
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Overseer API")

			persistence := cmd.NewPersistence(command.String("database-url"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "overseer-api", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			app := fiber.New(fiber.Config{AppName: "overseer-api"})

			handlers := web.NewAPIHandlers(persistence, eventBus, validator.New(), logger)
			handlers.RegisterRoutes(app)

			return app.Listen(fmt.Sprintf(":%d", command.Int("port")))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("API exited", "error", err)
		os.Exit(1)
	}
}
