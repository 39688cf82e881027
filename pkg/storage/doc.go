// Package storage provides the persistence layer: PostgreSQL connections
// and schema migrations, plus the optional Redis client used by the import
// quota.
//
// # PostgreSQL
//
// The postgres subpackage manages a primary connection with optional read
// replicas and applies the schema on startup:
//
//	cm, err := postgres.NewConnectionManager(postgres.ConnectionConfig{
//		PrimaryURL: cfg.Storage.PostgresURL,
//		MaxConns:   cfg.Storage.PostgresMaxConns,
//	}, logger)
//	if err != nil {
//		return err
//	}
//	if err := postgres.Migrate(ctx, cm.Primary()); err != nil {
//		return err
//	}
//
// Domain services (pkg/groups, pkg/recipes, pkg/comments, pkg/auth) take a
// plain *sql.DB, so tests run them against the SQLite mirror in storagetest.
//
// # Redis
//
// Redis only backs the import quota, which fails open. Connection failures
// at startup should degrade, not abort:
//
//	redisClient, err := storage.NewRedisClient(cfg.Storage)
//	if err != nil {
//		logger.WithError(err).Warn("redis unavailable, import quota disabled")
//	}
//
// # Testing
//
// The storagetest subpackage provides an in-memory SQLite database with the
// same tables and constraints as the Postgres schema, plus seed helpers.
package storage
