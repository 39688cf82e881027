package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/potluckapp/potluck/pkg/observability"
	"github.com/potluckapp/potluck/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Import pipeline configuration
	Import ImportConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// CORSOrigins lists allowed browser origins. Empty disables CORS.
	CORSOrigins []string
}

// ImportConfig holds recipe import pipeline settings
type ImportConfig struct {
	// ExtractorURL is the endpoint of the recipe extraction service. Empty
	// disables the import pipeline.
	ExtractorURL string

	// BlocklistPath is the path to the domain blocklist file. Empty disables
	// the blocklist.
	BlocklistPath string

	// QuotaLimit is the number of imports allowed per user per window.
	QuotaLimit int

	// QuotaWindow is the quota window duration.
	QuotaWindow time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Import:        loadImportConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("POTLUCK_HOST", "0.0.0.0"),
		Port:            getEnv("POTLUCK_PORT", "8080"),
		ReadTimeout:     getEnvDuration("POTLUCK_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("POTLUCK_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("POTLUCK_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("POTLUCK_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("POTLUCK_HEALTH_PORT", "9090"),
		CORSOrigins:     getEnvList("POTLUCK_CORS_ORIGINS"),
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	cfg.PostgresURL = getEnv("POTLUCK_POSTGRES_URL", "")
	cfg.PostgresReplicaURLs = getEnv("POTLUCK_POSTGRES_REPLICA_URLS", "")
	if maxConns := getEnvInt("POTLUCK_POSTGRES_MAX_CONNS", 0); maxConns > 0 {
		cfg.PostgresMaxConns = maxConns
	}
	if minConns := getEnvInt("POTLUCK_POSTGRES_MIN_CONNS", 0); minConns > 0 {
		cfg.PostgresMinConns = minConns
	}
	if timeout := getEnvDuration("POTLUCK_POSTGRES_TIMEOUT", 0); timeout > 0 {
		cfg.PostgresTimeout = timeout
	}

	cfg.RedisURL = getEnv("POTLUCK_REDIS_URL", "")
	cfg.RedisPassword = getEnv("POTLUCK_REDIS_PASSWORD", "")
	if redisDB := getEnvInt("POTLUCK_REDIS_DB", -1); redisDB >= 0 {
		cfg.RedisDB = redisDB
	}
	if redisMaxRetries := getEnvInt("POTLUCK_REDIS_MAX_RETRIES", 0); redisMaxRetries > 0 {
		cfg.RedisMaxRetries = redisMaxRetries
	}
	if redisPoolSize := getEnvInt("POTLUCK_REDIS_POOL_SIZE", 0); redisPoolSize > 0 {
		cfg.RedisPoolSize = redisPoolSize
	}

	return cfg
}

// loadImportConfig loads import pipeline configuration from environment
func loadImportConfig() ImportConfig {
	return ImportConfig{
		ExtractorURL:  getEnv("POTLUCK_IMPORT_EXTRACTOR_URL", ""),
		BlocklistPath: getEnv("POTLUCK_IMPORT_BLOCKLIST", ""),
		QuotaLimit:    getEnvInt("POTLUCK_IMPORT_QUOTA_LIMIT", 10),
		QuotaWindow:   getEnvDuration("POTLUCK_IMPORT_QUOTA_WINDOW", time.Hour),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("POTLUCK_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("POTLUCK_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("POTLUCK_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("POTLUCK_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("POTLUCK_OTEL_SERVICE_NAME", "potluck-api"),
		OTelServiceVersion: getEnv("POTLUCK_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("POTLUCK_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Storage.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Import.QuotaLimit <= 0 {
		return fmt.Errorf("import quota limit must be positive")
	}
	if c.Import.QuotaWindow <= 0 {
		return fmt.Errorf("import quota window must be positive")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable as a slice
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
