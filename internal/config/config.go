package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for the dataset endpoints. All three are small public files; the
// build fetches them once per run.
const (
	defaultAirportsURL    = "https://raw.githubusercontent.com/mborsetti/airportsdata/main/airportsdata/airports.csv"
	defaultOurAirportsURL = "https://davidmegginson.github.io/ourairports-data/airports.csv"
	defaultRoutesURL      = "https://raw.githubusercontent.com/jpatokal/openflights/master/data/routes.dat"
)

// Config holds all generator settings, populated from environment variables.
// Per-invocation knobs (input/output paths, year, caps) can also be set via
// CLI flags, which take precedence in the commands.
type Config struct {
	LogLevel  string
	LogFormat string

	// TargetYear is the calendar year to freeze DST rules for; 0 means the
	// current year at build time.
	TargetYear int

	// PerBucketCap bounds codes per bucket; PerGroupSeed bounds ranked codes
	// seeded into each standard-offset group before placement.
	PerBucketCap int
	PerGroupSeed int

	// Dataset endpoints.
	RankingURL     string
	AirportsURL    string
	OurAirportsURL string
	RoutesURL      string
	HTTPTimeout    time.Duration

	// ZoneinfoDir overrides the OS zoneinfo search path for the city table.
	ZoneinfoDir string

	// Snapshot publishing (optional).
	SnapshotEnabled bool
	KafkaBrokers    []string
	SnapshotTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	targetYear, err := parseIntEnv("TARGET_YEAR", 0)
	if err != nil {
		return nil, err
	}
	perBucketCap, err := parseIntEnv("PER_BUCKET_CAP", 3)
	if err != nil {
		return nil, err
	}
	perGroupSeed, err := parseIntEnv("PER_GROUP_SEED", 10)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := parseDurationEnv("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		TargetYear:   targetYear,
		PerBucketCap: perBucketCap,
		PerGroupSeed: perGroupSeed,

		RankingURL:     os.Getenv("RANKING_URL"),
		AirportsURL:    envOrDefault("AIRPORTS_URL", defaultAirportsURL),
		OurAirportsURL: envOrDefault("OURAIRPORTS_URL", defaultOurAirportsURL),
		RoutesURL:      envOrDefault("ROUTES_URL", defaultRoutesURL),
		HTTPTimeout:    httpTimeout,

		ZoneinfoDir: os.Getenv("ZONEINFO_DIR"),

		SnapshotEnabled: os.Getenv("SNAPSHOT_ENABLED") == "true",
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		SnapshotTopic:   envOrDefault("SNAPSHOT_TOPIC", "tz-snapshots"),
	}

	if cfg.PerBucketCap <= 0 {
		return nil, errors.New("PER_BUCKET_CAP must be positive")
	}
	if cfg.PerGroupSeed <= 0 {
		return nil, errors.New("PER_GROUP_SEED must be positive")
	}
	if cfg.TargetYear != 0 && (cfg.TargetYear < 1970 || cfg.TargetYear > 9999) {
		return nil, errors.New("TARGET_YEAR out of range")
	}
	if cfg.SnapshotEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("SNAPSHOT_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.SnapshotTopic == "" {
			return nil, errors.New("SNAPSHOT_ENABLED is true but SNAPSHOT_TOPIC is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
