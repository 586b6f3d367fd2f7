package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gefest173/meteora/config"
	"github.com/gefest173/meteora/internal/email"
	"github.com/gefest173/meteora/internal/health"
	"github.com/gefest173/meteora/internal/infrastructure/postgres"
	redisinfra "github.com/gefest173/meteora/internal/infrastructure/redis"
	ctxlog "github.com/gefest173/meteora/internal/log"
	"github.com/gefest173/meteora/internal/metrics"
	"github.com/gefest173/meteora/internal/token"
	httptransport "github.com/gefest173/meteora/internal/transport/http"
	"github.com/gefest173/meteora/internal/transport/http/handler"
	"github.com/gefest173/meteora/internal/usecase"
	"github.com/gefest173/meteora/internal/weather"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisinfra.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		stop()
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	// Auth
	userRepo := postgres.NewUserRepository(pool)
	secretStore := redisinfra.NewSecretStore(redisClient)
	notifier := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.AccessTokenTTL())
	authUsecase := usecase.NewAuthUsecase(userRepo, secretStore, notifier, issuer, cfg.CodeTTL(), cfg.NotifyTimeout())
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Weather
	locationRepo := postgres.NewLocationRepository(pool)
	historyRepo := postgres.NewSearchHistoryRepository(pool)
	reportCache := redisinfra.NewReportCache(redisClient)
	weatherUsecase := usecase.NewWeatherUsecase(
		weather.NewClient(), locationRepo, historyRepo, reportCache,
		cfg.WeatherCacheTTL(), cfg.MaxHistoryItems,
	)
	weatherHandler := handler.NewWeatherHandler(weatherUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(
		pool,
		health.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		logger,
		prometheus.DefaultRegisterer,
	)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, weatherHandler, userRepo, issuer),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
