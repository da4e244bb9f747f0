package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trajgen/trajgen/internal/config"
	"github.com/trajgen/trajgen/internal/domain/trajectory"
	"github.com/trajgen/trajgen/internal/platform/inference"
	"github.com/trajgen/trajgen/internal/platform/middleware"
	"github.com/trajgen/trajgen/internal/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trajgen-server",
		Short: "Synthetic patient trajectory generator",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the trajectory generator server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.HFToken == "" {
		logger.Warn().Msg("HF_TOKEN is not set; generation requests will fail until it is configured")
	}

	// Inference client. Construction is deferred to the first generation so
	// the server can boot (and render the form) without a credential; the
	// lazy wrapper serializes the one-time construction and retries it after
	// a failure instead of caching it.
	client := inference.NewLazyClient(func() (inference.Client, error) {
		return inference.NewHTTPClient(inference.Config{
			BaseURL: cfg.InferenceBaseURL,
			Model:   cfg.ModelID,
			Token:   cfg.HFToken,
			Timeout: cfg.InferenceTimeoutDuration(),
		})
	})

	// Generation service
	svc := trajectory.NewService(client, logger, trajectory.Options{
		SummaryMode:    trajectory.SummaryMode(cfg.SummaryMode),
		SummaryFailure: trajectory.SummaryFailurePolicy(cfg.SummaryFailure),
		AgeMin:         cfg.AgeMin,
		AgeMax:         cfg.AgeMax,
	})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.RequestTimeout(cfg.RequestTimeoutDuration()))

	handler := trajectory.NewHandler(svc, trajectory.ErrorMode(cfg.ErrorMode), logger)
	handler.RegisterRoutes(apiV1)

	// Form UI
	web.RegisterRoutes(e)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().
			Str("addr", addr).
			Str("model", cfg.ModelID).
			Str("summary_mode", cfg.SummaryMode).
			Str("error_mode", cfg.ErrorMode).
			Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
