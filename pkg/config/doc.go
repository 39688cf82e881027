// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings except the database URL.
//
// # Configuration Structure
//
// Server settings:
//
//	POTLUCK_HOST="0.0.0.0"
//	POTLUCK_PORT="8080"
//	POTLUCK_HEALTH_PORT="9090"
//	POTLUCK_READ_TIMEOUT="15s"
//	POTLUCK_WRITE_TIMEOUT="15s"
//	POTLUCK_CORS_ORIGINS="https://app.example.com,https://staging.example.com"
//
// Storage settings:
//
//	POTLUCK_POSTGRES_URL="postgres://localhost/potluck"
//	POTLUCK_POSTGRES_REPLICA_URLS="postgres://replica1,postgres://replica2"
//	POTLUCK_POSTGRES_MAX_CONNS="20"
//	POTLUCK_REDIS_URL="redis://localhost:6379"
//	POTLUCK_REDIS_POOL_SIZE="10"
//
// Import pipeline settings:
//
//	POTLUCK_IMPORT_EXTRACTOR_URL="http://extractor:9000/extract"
//	POTLUCK_IMPORT_BLOCKLIST="/etc/potluck/blocklist.txt"
//	POTLUCK_IMPORT_QUOTA_LIMIT="10"
//	POTLUCK_IMPORT_QUOTA_WINDOW="1h"
//
// Observability settings:
//
//	POTLUCK_LOG_LEVEL="info"  # debug, info, warn, error
//	POTLUCK_METRICS_ENABLED="true"
//	POTLUCK_OTEL_ENABLED="false"
//	POTLUCK_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Redis is optional: with no POTLUCK_REDIS_URL the import quota is disabled
// and everything else works normally.
//
// # Related Packages
//
//   - pkg/storage: Uses storage configuration
//   - pkg/observability: Uses observability configuration
//   - pkg/importer: Uses import pipeline configuration
package config
