package config

import (
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/potluckapp/potluck/pkg/observability"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests the getEnvBool helper function
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		want         bool
	}{
		{
			name:         "returns true for 'true'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "true",
			want:         true,
		},
		{
			name:         "returns true for '1'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "1",
			want:         true,
		},
		{
			name:         "returns false for 'false'",
			key:          "TEST_BOOL",
			defaultValue: true,
			envValue:     "false",
			want:         false,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_BOOL_NOT_SET",
			defaultValue: true,
			envValue:     "",
			want:         true,
		},
		{
			name:         "returns true for 'TRUE' (case insensitive)",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "TRUE",
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvInt tests the getEnvInt helper function
func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		want         int
	}{
		{
			name:         "returns parsed int",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "42",
			want:         42,
		},
		{
			name:         "returns default for invalid int",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "invalid",
			want:         10,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_INT_NOT_SET",
			defaultValue: 10,
			envValue:     "",
			want:         10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		want         time.Duration
	}{
		{
			name:         "returns parsed duration",
			key:          "TEST_DURATION",
			defaultValue: 10 * time.Second,
			envValue:     "30s",
			want:         30 * time.Second,
		},
		{
			name:         "returns default for invalid duration",
			key:          "TEST_DURATION",
			defaultValue: 10 * time.Second,
			envValue:     "invalid",
			want:         10 * time.Second,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_DURATION_NOT_SET",
			defaultValue: 10 * time.Second,
			envValue:     "",
			want:         10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnvDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestParseLogLevel tests the parseLogLevel function
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  observability.LogLevel
	}{
		{name: "debug", level: "debug", want: observability.DebugLevel},
		{name: "DEBUG uppercase", level: "DEBUG", want: observability.DebugLevel},
		{name: "info", level: "info", want: observability.InfoLevel},
		{name: "warn", level: "warn", want: observability.WarnLevel},
		{name: "warning", level: "warning", want: observability.WarnLevel},
		{name: "error", level: "error", want: observability.ErrorLevel},
		{name: "invalid defaults to info", level: "invalid", want: observability.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLogLevel(tt.level)
			if got != tt.want {
				t.Errorf("parseLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestLoadServerConfig tests the loadServerConfig function
func TestLoadServerConfig(t *testing.T) {
	envVars := []string{
		"POTLUCK_HOST",
		"POTLUCK_PORT",
		"POTLUCK_READ_TIMEOUT",
		"POTLUCK_WRITE_TIMEOUT",
		"POTLUCK_IDLE_TIMEOUT",
		"POTLUCK_SHUTDOWN_TIMEOUT",
		"POTLUCK_HEALTH_PORT",
		"POTLUCK_CORS_ORIGINS",
	}
	originalEnv := saveEnv(envVars)
	defer restoreEnv(originalEnv)

	tests := []struct {
		name string
		env  map[string]string
		want ServerConfig
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: ServerConfig{
				Host:            "0.0.0.0",
				Port:            "8080",
				ReadTimeout:     15 * time.Second,
				WriteTimeout:    15 * time.Second,
				IdleTimeout:     60 * time.Second,
				ShutdownTimeout: 30 * time.Second,
				HealthPort:      "9090",
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"POTLUCK_HOST":             "localhost",
				"POTLUCK_PORT":             "3000",
				"POTLUCK_READ_TIMEOUT":     "30s",
				"POTLUCK_WRITE_TIMEOUT":    "30s",
				"POTLUCK_IDLE_TIMEOUT":     "120s",
				"POTLUCK_SHUTDOWN_TIMEOUT": "60s",
				"POTLUCK_HEALTH_PORT":      "9091",
				"POTLUCK_CORS_ORIGINS":     "https://app.example.com, https://staging.example.com",
			},
			want: ServerConfig{
				Host:            "localhost",
				Port:            "3000",
				ReadTimeout:     30 * time.Second,
				WriteTimeout:    30 * time.Second,
				IdleTimeout:     120 * time.Second,
				ShutdownTimeout: 60 * time.Second,
				HealthPort:      "9091",
				CORSOrigins:     []string{"https://app.example.com", "https://staging.example.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range envVars {
				os.Unsetenv(k)
			}
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			got := loadServerConfig()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("loadServerConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestLoadStorageConfig tests the loadStorageConfig function
func TestLoadStorageConfig(t *testing.T) {
	envVars := []string{
		"POTLUCK_POSTGRES_URL",
		"POTLUCK_POSTGRES_REPLICA_URLS",
		"POTLUCK_POSTGRES_MAX_CONNS",
		"POTLUCK_POSTGRES_MIN_CONNS",
		"POTLUCK_POSTGRES_TIMEOUT",
		"POTLUCK_REDIS_URL",
		"POTLUCK_REDIS_PASSWORD",
		"POTLUCK_REDIS_DB",
		"POTLUCK_REDIS_MAX_RETRIES",
		"POTLUCK_REDIS_POOL_SIZE",
	}
	originalEnv := saveEnv(envVars)
	defer restoreEnv(originalEnv)

	t.Run("loads postgres config from env", func(t *testing.T) {
		for _, k := range envVars {
			os.Unsetenv(k)
		}

		os.Setenv("POTLUCK_POSTGRES_URL", "postgres://localhost/potluck")
		os.Setenv("POTLUCK_POSTGRES_REPLICA_URLS", "postgres://replica1,postgres://replica2")
		os.Setenv("POTLUCK_POSTGRES_MAX_CONNS", "50")
		os.Setenv("POTLUCK_POSTGRES_MIN_CONNS", "5")
		os.Setenv("POTLUCK_POSTGRES_TIMEOUT", "20s")

		cfg := loadStorageConfig()
		if cfg.PostgresURL != "postgres://localhost/potluck" {
			t.Errorf("PostgresURL = %v", cfg.PostgresURL)
		}
		if cfg.PostgresReplicaURLs != "postgres://replica1,postgres://replica2" {
			t.Errorf("PostgresReplicaURLs = %v", cfg.PostgresReplicaURLs)
		}
		if cfg.PostgresMaxConns != 50 {
			t.Errorf("PostgresMaxConns = %v, want 50", cfg.PostgresMaxConns)
		}
		if cfg.PostgresMinConns != 5 {
			t.Errorf("PostgresMinConns = %v, want 5", cfg.PostgresMinConns)
		}
		if cfg.PostgresTimeout != 20*time.Second {
			t.Errorf("PostgresTimeout = %v, want 20s", cfg.PostgresTimeout)
		}
	})

	t.Run("loads redis config from env", func(t *testing.T) {
		for _, k := range envVars {
			os.Unsetenv(k)
		}

		os.Setenv("POTLUCK_REDIS_URL", "redis://localhost:6379")
		os.Setenv("POTLUCK_REDIS_PASSWORD", "password")
		os.Setenv("POTLUCK_REDIS_DB", "1")
		os.Setenv("POTLUCK_REDIS_MAX_RETRIES", "5")
		os.Setenv("POTLUCK_REDIS_POOL_SIZE", "20")

		cfg := loadStorageConfig()
		if cfg.RedisURL != "redis://localhost:6379" {
			t.Errorf("RedisURL = %v", cfg.RedisURL)
		}
		if cfg.RedisPassword != "password" {
			t.Errorf("RedisPassword = %v", cfg.RedisPassword)
		}
		if cfg.RedisDB != 1 {
			t.Errorf("RedisDB = %v, want 1", cfg.RedisDB)
		}
		if cfg.RedisMaxRetries != 5 {
			t.Errorf("RedisMaxRetries = %v, want 5", cfg.RedisMaxRetries)
		}
		if cfg.RedisPoolSize != 20 {
			t.Errorf("RedisPoolSize = %v, want 20", cfg.RedisPoolSize)
		}
	})

	t.Run("ignores invalid postgres max conns", func(t *testing.T) {
		for _, k := range envVars {
			os.Unsetenv(k)
		}

		os.Setenv("POTLUCK_POSTGRES_MAX_CONNS", "0")

		cfg := loadStorageConfig()
		if cfg.PostgresMaxConns != 20 {
			t.Errorf("PostgresMaxConns = %v, want 20 (default)", cfg.PostgresMaxConns)
		}
	})
}

// TestLoadImportConfig tests the loadImportConfig function
func TestLoadImportConfig(t *testing.T) {
	envVars := []string{
		"POTLUCK_IMPORT_EXTRACTOR_URL",
		"POTLUCK_IMPORT_BLOCKLIST",
		"POTLUCK_IMPORT_QUOTA_LIMIT",
		"POTLUCK_IMPORT_QUOTA_WINDOW",
	}
	originalEnv := saveEnv(envVars)
	defer restoreEnv(originalEnv)

	t.Run("defaults", func(t *testing.T) {
		for _, k := range envVars {
			os.Unsetenv(k)
		}

		cfg := loadImportConfig()
		if cfg.ExtractorURL != "" {
			t.Errorf("ExtractorURL = %v, want empty", cfg.ExtractorURL)
		}
		if cfg.BlocklistPath != "" {
			t.Errorf("BlocklistPath = %v, want empty", cfg.BlocklistPath)
		}
		if cfg.QuotaLimit != 10 {
			t.Errorf("QuotaLimit = %v, want 10", cfg.QuotaLimit)
		}
		if cfg.QuotaWindow != time.Hour {
			t.Errorf("QuotaWindow = %v, want 1h", cfg.QuotaWindow)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		for _, k := range envVars {
			os.Unsetenv(k)
		}

		os.Setenv("POTLUCK_IMPORT_EXTRACTOR_URL", "http://extractor:9000/extract")
		os.Setenv("POTLUCK_IMPORT_BLOCKLIST", "/etc/potluck/blocklist.txt")
		os.Setenv("POTLUCK_IMPORT_QUOTA_LIMIT", "25")
		os.Setenv("POTLUCK_IMPORT_QUOTA_WINDOW", "30m")

		cfg := loadImportConfig()
		if cfg.ExtractorURL != "http://extractor:9000/extract" {
			t.Errorf("ExtractorURL = %v", cfg.ExtractorURL)
		}
		if cfg.BlocklistPath != "/etc/potluck/blocklist.txt" {
			t.Errorf("BlocklistPath = %v", cfg.BlocklistPath)
		}
		if cfg.QuotaLimit != 25 {
			t.Errorf("QuotaLimit = %v, want 25", cfg.QuotaLimit)
		}
		if cfg.QuotaWindow != 30*time.Minute {
			t.Errorf("QuotaWindow = %v, want 30m", cfg.QuotaWindow)
		}
	})
}

// TestConfigValidate tests the Config.Validate method
func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{
			Server: ServerConfig{
				Port:       "8080",
				HealthPort: "9090",
			},
			Import: ImportConfig{
				QuotaLimit:  10,
				QuotaWindow: time.Hour,
			},
		}
		cfg.Storage.PostgresURL = "postgres://localhost/potluck"
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() unexpected error = %v", err)
		}
	})

	t.Run("missing server port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = ""
		err := cfg.Validate()
		if err == nil || err.Error() != "server port is required" {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("missing health port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.HealthPort = ""
		err := cfg.Validate()
		if err == nil || err.Error() != "health port is required" {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("same server and health port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.HealthPort = cfg.Server.Port
		err := cfg.Validate()
		if err == nil || err.Error() != "server port and health port must be different" {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("missing postgres url", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.PostgresURL = ""
		err := cfg.Validate()
		if err == nil || err.Error() != "postgres URL is required" {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("zero import quota", func(t *testing.T) {
		cfg := valid()
		cfg.Import.QuotaLimit = 0
		err := cfg.Validate()
		if err == nil || err.Error() != "import quota limit must be positive" {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("zero import window", func(t *testing.T) {
		cfg := valid()
		cfg.Import.QuotaWindow = 0
		err := cfg.Validate()
		if err == nil || err.Error() != "import quota window must be positive" {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("otel enabled without endpoint", func(t *testing.T) {
		cfg := valid()
		cfg.Observability.OTelEnabled = true
		cfg.Observability.OTelServiceName = "test"
		err := cfg.Validate()
		if err == nil || err.Error() != "OpenTelemetry endpoint is required when OTel is enabled" {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("otel enabled without service name", func(t *testing.T) {
		cfg := valid()
		cfg.Observability.OTelEnabled = true
		cfg.Observability.OTelEndpoint = "localhost:4317"
		err := cfg.Validate()
		if err == nil || err.Error() != "OpenTelemetry service name is required when OTel is enabled" {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

// TestLoadConfig tests the LoadConfig function
func TestLoadConfig(t *testing.T) {
	envVars := []string{
		"POTLUCK_PORT",
		"POTLUCK_HEALTH_PORT",
		"POTLUCK_POSTGRES_URL",
	}
	originalEnv := saveEnv(envVars)
	defer restoreEnv(originalEnv)

	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "valid config",
			env: map[string]string{
				"POTLUCK_PORT":         "8080",
				"POTLUCK_HEALTH_PORT":  "9090",
				"POTLUCK_POSTGRES_URL": "postgres://localhost/potluck",
			},
			wantErr: false,
		},
		{
			name: "invalid config - same ports",
			env: map[string]string{
				"POTLUCK_PORT":         "8080",
				"POTLUCK_HEALTH_PORT":  "8080",
				"POTLUCK_POSTGRES_URL": "postgres://localhost/potluck",
			},
			wantErr: true,
		},
		{
			name: "invalid config - no postgres",
			env: map[string]string{
				"POTLUCK_PORT":        "8080",
				"POTLUCK_HEALTH_PORT": "9090",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range envVars {
				os.Unsetenv(k)
			}
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && cfg == nil {
				t.Error("LoadConfig() returned nil config without error")
			}
		})
	}
}

func saveEnv(keys []string) map[string]string {
	saved := make(map[string]string, len(keys))
	for _, k := range keys {
		saved[k] = os.Getenv(k)
	}
	return saved
}

func restoreEnv(saved map[string]string) {
	for k, v := range saved {
		if v == "" {
			os.Unsetenv(k)
		} else {
			os.Setenv(k, v)
		}
	}
}
