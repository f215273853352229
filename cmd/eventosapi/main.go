package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"eventosapi/config"
	_ "eventosapi/docs"
	"eventosapi/internal/adapters/calendar"
	"eventosapi/internal/adapters/email"
	deliveryhttp "eventosapi/internal/delivery/http"
	"eventosapi/internal/delivery/http/controllers"
	"eventosapi/internal/repository/postgres"
	"eventosapi/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title Eventos API
// @version 1.0
// @description Events with capacity, attendance confirmation and reminders.
// @BasePath /
func main() {
	app := &cli.App{
		Name:  "eventosapi",
		Usage: "Events REST backend with attendance confirmation and reminders.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "err", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "Create the eventos table before serving."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := postgres.Open(ctx, cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			if c.Bool("migrate") {
				if err := postgres.EnsureSchema(ctx, db); err != nil {
					return err
				}
			}

			mailer, err := email.NewMailer(email.MailerConfig{
				Provider:    cfg.Email.Provider,
				FromAddress: cfg.Email.FromAddress,
				FromName:    cfg.Email.FromName,
				SES: email.SESConfig{
					Region:             cfg.Email.AWSRegion,
					AccessKeyID:        cfg.Email.AWSAccessKeyID,
					SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
					InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
				},
			}, logger)
			if err != nil {
				return err
			}
			renderer, err := email.NewTemplateRenderer()
			if err != nil {
				return err
			}

			eventService := services.NewEventService(
				postgres.NewEventRepository(db),
				services.NewReminderEvaluator(renderer, cfg.ReminderLocation),
				services.NewEmailService(logger, mailer),
				calendar.NewICSEncoder(cfg.CalendarUIDDomain),
				cfg.ContextTimeout,
			)
			eventController := controllers.NewEventController(logger, eventService)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           deliveryhttp.NewRouter(eventController, logger, cfg.AllowedOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the eventos document table if it does not exist.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg)

			db, err := postgres.Open(c.Context, cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.EnsureSchema(c.Context, db); err != nil {
				return err
			}
			logger.Info("schema is up to date")
			return nil
		},
	}
}
