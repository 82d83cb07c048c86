package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NASA POWER climate provider.
	PowerBaseURL   string
	PowerCommunity string
	PowerTimeout   time.Duration

	// OSM Nominatim geocoding provider.
	NominatimBaseURL string
	NominatimTimeout time.Duration
	GeocodeCacheSize int

	// NASA FIRMS fire-detection provider. The map key is optional; without
	// it the fires endpoint reports an authorization failure.
	FirmsBaseURL string
	FirmsMapKey  string
	FirmsTimeout time.Duration

	// Optional Kafka assessment-event publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	powerTimeout, err := parseDuration("POWER_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	nominatimTimeout, err := parseDuration("NOMINATIM_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}
	firmsTimeout, err := parseDuration("FIRMS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PowerBaseURL:   envOrDefault("POWER_BASE_URL", "https://power.larc.nasa.gov"),
		PowerCommunity: envOrDefault("POWER_COMMUNITY", "AG"),
		PowerTimeout:   powerTimeout,

		NominatimBaseURL: envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimTimeout: nominatimTimeout,
		GeocodeCacheSize: parseGeocodeCacheSize(),

		FirmsBaseURL: envOrDefault("FIRMS_BASE_URL", "https://firms.modaps.eosdis.nasa.gov"),
		FirmsMapKey:  os.Getenv("FIRMS_MAP_KEY"),
		FirmsTimeout: firmsTimeout,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "climate-assessments"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseGeocodeCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
