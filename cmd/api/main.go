package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskflow/backend/internal/config"
	"taskflow/backend/internal/database"
	"taskflow/backend/internal/logger"
	"taskflow/backend/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	log, err := logger.New(cfg.Env, os.Stdout)
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to init logger")
	}
	log.Info().Str("env", cfg.Env).Msg("loaded config")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	defer func() {
		db.Close()
		log.Info().Msg("disconnected from database")
	}()
	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	if err := database.Bootstrap(context.Background(), db, cfg.Database.Driver, cfg.Database.Seed, log); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap schema")
	}

	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(db, log, cfg.HTTP.CORSAllowOrigins)

	if err := serve(cfg.HTTP, router, log); err != nil {
		log.Error().Err(err).Msg("http server stopped with error")
	}
}

// serve runs the HTTP server until SIGINT or SIGTERM and then shuts it down
// within the configured timeout.
func serve(cfg config.HTTPConfig, handler http.Handler, log zerolog.Logger) error {
	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("host", cfg.Host).Str("port", cfg.Port).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info().Msg("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("shut down http server")
	return nil
}
