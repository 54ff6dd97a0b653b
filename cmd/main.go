// Package main wires the gabojait matching service.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"

	"github.com/gabojait/gabojait-spring-sub005/config"
	"github.com/gabojait/gabojait-spring-sub005/internal/auth"
	"github.com/gabojait/gabojait-spring-sub005/internal/notify"
	"github.com/gabojait/gabojait-spring-sub005/internal/repository"
	"github.com/gabojait/gabojait-spring-sub005/internal/repository/postgres"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/middleware"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/server/handlers-fiber"
	"github.com/gabojait/gabojait-spring-sub005/internal/usecase"
	"github.com/gabojait/gabojait-spring-sub005/pkg/logger"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "gabojait",
		Short:        "Team matching service",
		Long:         "Serves offers, reviews and favorites for project team matching.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", config.DefaultEnvFile, "path to .env file")

	rootCmd.AddCommand(serveCmd(), migrateCmd(), tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig(envFile)
			if err != nil {
				return err
			}
			if cfg.Repository.Backend != "postgres" {
				return fmt.Errorf("migrate requires the postgres backend, got %q", cfg.Repository.Backend)
			}
			return postgres.Migrate(cmd.Context(), cfg.Postgres)
		},
	}
}

func tokenCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return errors.New("--user-id must be positive")
			}
			cfg, err := config.NewConfig(envFile)
			if err != nil {
				return err
			}
			token, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(userID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "user id to put in the subject claim")
	return cmd
}

func serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig(envFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	repo, err := repository.New(ctx, cfg.Repository.Backend, log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return err
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return err
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	dispatcher := notify.New(log, notify.NewLogSink(log), cfg.Notifier.BufferSize, cfg.Notifier.Workers)
	dispatcher.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := dispatcher.Stop(stopCtx); err != nil {
			log.Warnw("notifier stop", "error", err)
		}
	}()

	timeout := cfg.HTTP.RequestTimeout
	uc := usecase.New(log, ctx, repo, dispatcher, timeout)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h := handlers_fiber.NewHandler(log, uc, issuer)
	handlers_fiber.RegisterHandlers(serv, h, middleware.Auth(issuer))

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
	return nil
}
