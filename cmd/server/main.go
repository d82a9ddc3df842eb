package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/cache"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/config"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/db"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/server"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)

	conn, err := db.Connect(cfg.Database.DSN, log)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if cfg.Database.Seed {
		if err := db.Seed(conn); err != nil {
			return fmt.Errorf("seed db: %w", err)
		}
	}

	redisCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password)
	if cfg.Redis.Addr != "" && redisCache == nil {
		log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unreachable, stats cache disabled")
	}

	handler := server.New(conn, cfg, log, redisCache)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("env", cfg.Env).Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-cmd.Context().Done():
	}
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
	return nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := db.RunSQLMigrations(cfg.Database.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:           "ohms-server",
		Short:         "Hospital management REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Run SQL migrations and exit",
			RunE:  runMigrate,
		},
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
