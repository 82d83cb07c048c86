package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecoshield/climate-insight/internal/adapter/firms"
	httpadapter "github.com/ecoshield/climate-insight/internal/adapter/http"
	kafkaadapter "github.com/ecoshield/climate-insight/internal/adapter/kafka"
	"github.com/ecoshield/climate-insight/internal/adapter/nominatim"
	"github.com/ecoshield/climate-insight/internal/adapter/power"
	"github.com/ecoshield/climate-insight/internal/assess"
	"github.com/ecoshield/climate-insight/internal/config"
	"github.com/ecoshield/climate-insight/internal/domain"
	"github.com/ecoshield/climate-insight/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	climate := power.NewClient(cfg.PowerBaseURL, cfg.PowerCommunity, cfg.PowerTimeout, metrics, logger)

	var geocoder domain.Geocoder = nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimTimeout, metrics, logger)
	geocoder = nominatim.NewCachedGeocoder(geocoder, cfg.GeocodeCacheSize, metrics)

	fires := firms.NewClient(cfg.FirmsBaseURL, cfg.FirmsMapKey, cfg.FirmsTimeout, metrics, logger)
	if cfg.FirmsMapKey == "" {
		logger.Warn("no FIRMS map key configured, fire lookups will be rejected")
	}

	// Assessment publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher assess.EventPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		metrics.PublisherEnabled.Set(1)
		logger.Info("assessment publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("assessment publishing disabled")
	}

	assessor := assess.New(climate, geocoder, fires, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, assessor, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
