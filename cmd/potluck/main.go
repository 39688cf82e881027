package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/potluckapp/potluck/pkg/api"
	"github.com/potluckapp/potluck/pkg/audit"
	"github.com/potluckapp/potluck/pkg/config"
	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/importer"
	"github.com/potluckapp/potluck/pkg/observability"
	"github.com/potluckapp/potluck/pkg/recipes"
	"github.com/potluckapp/potluck/pkg/storage"
	"github.com/potluckapp/potluck/pkg/storage/postgres"
)

// invitationCleanupSchedule prunes expired invitations nightly, off-peak.
const invitationCleanupSchedule = "17 3 * * *"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "potluck: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	// ctx governs the background routines (pool health checks, stats
	// polling); cancelling it is the first step of shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database: primary plus optional read replicas, then schema bootstrap.
	cm, err := postgres.NewConnectionManager(postgres.ConnectionConfig{
		PrimaryURL:  cfg.Storage.PostgresURL,
		ReplicaURLs: postgres.ParseReplicaURLs(cfg.Storage.PostgresReplicaURLs),
		MaxConns:    cfg.Storage.PostgresMaxConns,
		MinConns:    cfg.Storage.PostgresMinConns,
		Timeout:     cfg.Storage.PostgresTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db := cm.Primary()
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	cm.StartHealthCheckRoutine(ctx, time.Minute)

	// Redis backs the import quota and nothing else. Starting without it
	// degrades imports instead of failing the whole service.
	var redisClient *redis.Client
	if cfg.Storage.RedisURL != "" {
		redisClient, err = storage.NewRedisClient(cfg.Storage)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, recipe import disabled")
			redisClient = nil
		}
	}

	var blocklist *importer.Blocklist
	var importSvc *importer.Service
	switch {
	case cfg.Import.ExtractorURL == "":
		logger.Info("No extractor endpoint configured, recipe import disabled")
	case redisClient == nil:
		logger.Info("No Redis connection, recipe import disabled")
	default:
		blocklist, err = importer.NewBlocklist(cfg.Import.BlocklistPath)
		if err != nil {
			return fmt.Errorf("failed to load import blocklist: %w", err)
		}
		quota := importer.NewQuota(redisClient, &importer.QuotaConfig{
			ImportsPerWindow: cfg.Import.QuotaLimit,
			WindowDuration:   cfg.Import.QuotaWindow,
		})
		importSvc = importer.NewService(
			importer.NewHTTPExtractor(cfg.Import.ExtractorURL),
			quota,
			blocklist,
			recipes.NewPostgresService(db),
		)
	}

	auditLog, err := audit.NewDBLogger(db)
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	registry := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
		go pollStats(ctx, metrics, cm, blocklist, logger)
	}

	var providers *observability.OTelProviders
	if cfg.Observability.OTelEnabled {
		providers, err = observability.InitOTel(ctx, observability.OTelConfig{
			Enabled:        true,
			Endpoint:       cfg.Observability.OTelEndpoint,
			ServiceName:    cfg.Observability.OTelServiceName,
			ServiceVersion: cfg.Observability.OTelServiceVersion,
			Insecure:       cfg.Observability.OTelInsecure,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	server := api.NewServer(db, api.Options{
		Importer:    importSvc,
		Audit:       auditLog,
		Logger:      logger,
		Metrics:     metrics,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// Health and metrics on a separate port, out of the API's middleware
	// chain, so probes never hit auth or rate limits.
	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(db, redisClient))
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}
	go func() {
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	// Nightly invitation cleanup.
	scheduler := cron.New()
	groupService := groups.NewPostgresService(db)
	if _, err := scheduler.AddFunc(invitationCleanupSchedule, func() {
		removed, err := groupService.CleanupExpiredInvitations(context.Background())
		if err != nil {
			logger.WithError(err).Error("Invitation cleanup failed")
			return
		}
		if removed > 0 {
			logger.WithField("removed", removed).Info("Pruned expired invitations")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule invitation cleanup: %w", err)
	}
	scheduler.Start()

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sm := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	sm.RegisterShutdownFunc(func(shutdownCtx context.Context) error {
		cancel()
		healthServer.Shutdown(shutdownCtx)
		<-scheduler.Stop().Done()
		return nil
	})
	if providers != nil {
		sm.RegisterShutdownFunc(func(ctx context.Context) error {
			return observability.ShutdownOTel(ctx, providers, logger)
		})
	}
	if blocklist != nil {
		sm.RegisterShutdownFunc(func(ctx context.Context) error { return blocklist.Close() })
	}
	if redisClient != nil {
		sm.RegisterShutdownFunc(func(ctx context.Context) error { return redisClient.Close() })
	}
	sm.RegisterShutdownFunc(func(ctx context.Context) error { return cm.Close() })

	go func() {
		logger.WithFields(map[string]interface{}{
			"addr":        httpServer.Addr,
			"health_addr": healthServer.Addr,
		}).Info("Potluck API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("HTTP server failed")
		}
	}()

	return sm.WaitForShutdown()
}

// pollStats feeds the connection pool, business, and blocklist gauges
// every 15 seconds. Counts come off a replica when one is configured.
func pollStats(ctx context.Context, metrics *observability.Metrics, cm *postgres.ConnectionManager, blocklist *importer.Blocklist, logger *observability.Logger) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.UpdateDBStats(cm.Stats())
			if blocklist != nil {
				metrics.BlockedDomainsTotal.Set(float64(blocklist.Len()))
			}
			stats, err := gatherBusinessStats(ctx, cm.Replica())
			if err != nil {
				logger.WithError(err).Warn("Failed to gather business stats")
				continue
			}
			metrics.UpdateBusinessStats(stats)
		case <-ctx.Done():
			return
		}
	}
}

func gatherBusinessStats(ctx context.Context, db *sql.DB) (observability.BusinessStats, error) {
	var stats observability.BusinessStats
	queries := []struct {
		dest  *int64
		query string
	}{
		{&stats.Groups, `SELECT COUNT(*) FROM groups`},
		{&stats.DraftRecipes, `SELECT COUNT(*) FROM recipes WHERE status = 'draft'`},
		{&stats.PublishedRecipes, `SELECT COUNT(*) FROM recipes WHERE status = 'published'`},
		{&stats.Comments, `SELECT COUNT(*) FROM comments`},
		{&stats.ActiveUsers, `SELECT COUNT(*) FROM users WHERE is_active`},
		{&stats.ActiveTokens, `SELECT COUNT(*) FROM api_tokens WHERE revoked_at IS NULL AND (expires_at IS NULL OR expires_at > CURRENT_TIMESTAMP)`},
	}
	for _, q := range queries {
		if err := db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return stats, fmt.Errorf("business stats query failed: %w", err)
		}
	}
	return stats, nil
}
