package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/gometeo/cityweather/internal/api/handlers"
	"github.com/gometeo/cityweather/internal/catalog"
	"github.com/gometeo/cityweather/internal/config"
	"github.com/gometeo/cityweather/internal/controller"
	"github.com/gometeo/cityweather/internal/country"
	"github.com/gometeo/cityweather/internal/events"
	"github.com/gometeo/cityweather/internal/session"
	"github.com/gometeo/cityweather/internal/view"
	"github.com/gometeo/cityweather/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Env, cfg.LogLevel)
	logger.Info("starting cityweather",
		"port", cfg.HTTPPort,
		"cities", cfg.CitiesPath,
		"session_backend", cfg.SessionBackend,
		"reset_on_repeat", cfg.ResetOnRepeat)

	// 1. City catalog
	cities, err := catalog.Load(cfg.CitiesPath)
	if err != nil {
		logger.Error("failed to load city catalog", "path", cfg.CitiesPath, "error", err)
		os.Exit(1)
	}
	logger.Info("city catalog loaded", "cities", cities.Len())

	// 2. Session store
	store, err := newSessionStore(cfg, logger)
	if err != nil {
		logger.Error("failed to connect session store", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	sessions := session.NewManager(store, cfg.SecretKey, cfg.SessionTTL, cfg.Env == "production", logger)

	// 3. Selection events
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Error("failed to connect kafka", "brokers", cfg.KafkaBrokers, "error", err)
			os.Exit(1)
		}
		publisher = kp
		logger.Info("publishing selection events", "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	// 4. Upstream clients and controller
	weatherClient := weather.NewRateLimitedFetcher(
		weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.HTTPTimeout, logger),
		cfg.WeatherRPS,
		cfg.WeatherBurst,
	)
	countryClient := country.NewClient(cfg.CountryBaseURL, cfg.HTTPTimeout, logger)

	ctl := controller.New(cities, weatherClient, countryClient, publisher, controller.Options{
		ResetOnRepeat: cfg.ResetOnRepeat,
	}, logger)

	views, err := view.New()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// 5. Router
	router := mux.NewRouter()
	handlers.NewWebHandler(ctl, sessions, views, cfg.MapsAPIKey, logger).Register(router)
	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))),
	).Methods(http.MethodGet)
	router.Use(handlers.LoggingMiddleware(logger))

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stopChan
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	} else {
		logger.Info("server stopped")
	}
}

func newSessionStore(cfg *config.Config, logger *slog.Logger) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		return session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL, logger)
	case config.SessionBackendPostgres:
		return session.NewPostgresStore(cfg.DBDSN, cfg.SessionTTL, logger)
	default:
		logger.Info("session store ready", "backend", config.SessionBackendMemory)
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}
}

func setupLogger(env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)

	// JSON in production
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
