package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/api"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/availability"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/booking"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/config"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/database"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/events"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/metrics"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("RESERVAS_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial load + hot reload of the spaces catalog.
	if err := config.WatchSpaces(ctx, cfg.SpacesConfigPath, 30*time.Second, func(updated *config.SpacesConfig) {
		if updated == nil {
			return
		}
		if err := db.SyncSpacesFromConfig(ctx, updated); err != nil {
			logger.Error().Err(err).Msg("failed to apply spaces config")
			return
		}
		logger.Info().Time("reloaded_at", time.Now()).Msg("spaces config applied")
	}); err != nil {
		logger.Fatal().Err(err).Msg("spaces config load failed")
	}

	var (
		rdb       *redis.Client
		publisher booking.EventPublisher
	)
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		publisher = events.NewRedisPublisher(rdb, cfg.RedisStream(), &logger)
		logger.Info().Str("stream", cfg.RedisStream()).Msg("Redis event publisher enabled")
	} else {
		publisher = events.NewBus()
	}

	engine := booking.NewEngine(db, booking.SystemClock(), buildRules(cfg), publisher, &logger)
	checker := availability.NewChecker(db)

	server := api.NewServer(engine, db, db, checker, api.Options{
		RateLimitRPS: cfg.Server.RateLimitRPS,
		RateBurst:    cfg.Server.RateBurst,
	}, &logger)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, database.BackupOptions{
			Enabled:       true,
			StoragePath:   cfg.Backup.StoragePath,
			RetentionDays: cfg.Backup.RetentionDays,
			Interval:      time.Duration(cfg.Backup.IntervalHours) * time.Hour,
		}, &logger)
		go backup.Start(ctx)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Reservation service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// buildRules converts the YAML policy section into engine rules, keeping
// the standing defaults for anything the config does not mention.
func buildRules(cfg *config.Config) booking.Rules {
	rules := booking.DefaultRules()
	rules.CutoffMinutes = cfg.BookingCutoffMinutes()
	for name, rc := range cfg.Booking.Rules {
		category, err := models.ParseCategory(name)
		if err != nil {
			continue
		}
		rules.Limits[category] = booking.BlockLimit{
			MinBlocks: rc.MinBlocks,
			MaxBlocks: rc.MaxBlocks,
		}
	}
	return rules
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
