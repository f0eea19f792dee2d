package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Geocoder providers accepted by GEOCODER.
const (
	GeocoderNone      = "none"
	GeocoderMapbox    = "mapbox"
	GeocoderNominatim = "nominatim"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	BatchSize int

	// Geocoding configuration.
	Geocoder        string
	GeocodeTimeout  time.Duration
	GeocodeCacheTTL time.Duration
	GeocodeMissTTL  time.Duration

	MapboxToken string

	NominatimURL       string
	NominatimUserAgent string
	NominatimRPS       float64

	// Kafka sink configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// GeocodingEnabled reports whether a geocoding provider is configured.
func (c *Config) GeocodingEnabled() bool {
	return c.Geocoder != GeocoderNone
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	geocodeTimeout, err := parsePositiveDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("GEOCODE_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}
	missTTL, err := parsePositiveDuration("GEOCODE_MISS_TTL", "10m")
	if err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NOMINATIM_RPS", "1"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid NOMINATIM_RPS")
	}

	kafkaEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("KAFKA_ENABLED", "false"))
	if err != nil {
		return nil, errors.New("invalid KAFKA_ENABLED")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	geocoder, err := parseGeocoder(os.Getenv("GEOCODER"), mapboxToken)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		BatchSize:       batchSize,

		Geocoder:        geocoder,
		GeocodeTimeout:  geocodeTimeout,
		GeocodeCacheTTL: cacheTTL,
		GeocodeMissTTL:  missTTL,

		MapboxToken: mapboxToken,

		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "disease_outbreak_tracker"),
		NominatimRPS:       rps,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "outbreak-records"),
	}

	if cfg.Geocoder == GeocoderMapbox && cfg.MapboxToken == "" {
		return nil, errors.New("GEOCODER is mapbox but MAPBOX_TOKEN is not set")
	}
	if cfg.Geocoder == GeocoderNominatim && cfg.NominatimUserAgent == "" {
		return nil, errors.New("NOMINATIM_USER_AGENT is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required")
		}
	}

	return cfg, nil
}

// parseGeocoder resolves GEOCODER. When unset, a Mapbox token selects Mapbox.
func parseGeocoder(v, mapboxToken string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		if mapboxToken != "" {
			return GeocoderMapbox, nil
		}
		return GeocoderNone, nil
	case GeocoderNone:
		return GeocoderNone, nil
	case GeocoderMapbox:
		return GeocoderMapbox, nil
	case GeocoderNominatim:
		return GeocoderNominatim, nil
	default:
		return "", fmt.Errorf("invalid GEOCODER %q: want none, mapbox or nominatim", v)
	}
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
