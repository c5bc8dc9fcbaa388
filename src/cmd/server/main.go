package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"

	httpadapter "mastodonbridge/src/adapters/http"
	"mastodonbridge/src/domain"
	"mastodonbridge/src/helper/config"
	"mastodonbridge/src/infra/activitypub"
	"mastodonbridge/src/infra/postgres"
	"mastodonbridge/src/infra/redis"
	"mastodonbridge/src/repositories"
	"mastodonbridge/src/services/resources"
	"mastodonbridge/src/services/translation"

	"go.uber.org/fx"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting API server with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newConfig,
			newLogger,
			newReadWriteClient,
			newEntityCache,
			newRemoteFetcher,
			newEntityQueryRepository,
			newCachedEntityRepository,
			newEntityWriteRepository,
			newEntityStore,
			newTranslationService,
			newResourceService,
			newServer,
		),

		// Invocations
		fx.Invoke(runMigrations, registerServerHooks),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}
}

func newConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func newReadWriteClient(lc fx.Lifecycle, cfg *config.Config) (*postgres.ReadWriteClient, error) {
	client, err := postgres.NewReadWriteClient(cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			client.Close()
			return nil
		},
	})

	return client, nil
}

// newEntityCache returns nil when redis is not configured.
func newEntityCache(lc fx.Lifecycle, logger *slog.Logger, cfg *config.Config) repositories.EntityCache {
	if !cfg.Redis.Enabled() {
		logger.Info("Redis not configured, entity cache disabled")
		return nil
	}

	client := redis.NewRedisClient(cfg.Redis.Hosts, cfg.Redis.PoolSize, cfg.Redis.TTL)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.HealthCheck(ctx); err != nil {
				logger.Warn("Redis health check failed, reads will fall back to postgres", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

// newRemoteFetcher returns nil when remote resolution is disabled.
func newRemoteFetcher(cfg *config.Config) repositories.RemoteFetcher {
	if !cfg.Remote.Enabled {
		return nil
	}
	return activitypub.NewClient(cfg.Remote.Timeout, cfg.Remote.UserAgent)
}

func newEntityQueryRepository(client *postgres.ReadWriteClient) *repositories.EntityQueryRepository {
	return repositories.NewEntityQueryRepository(client.GetReadPool())
}

func newCachedEntityRepository(
	logger *slog.Logger,
	queryRepository *repositories.EntityQueryRepository,
	cache repositories.EntityCache,
) *repositories.CachedEntityRepository {
	return repositories.NewCachedEntityRepository(logger, queryRepository, cache)
}

func newEntityWriteRepository(
	logger *slog.Logger,
	client *postgres.ReadWriteClient,
	cachedRepository *repositories.CachedEntityRepository,
) *repositories.EntityWriteRepository {
	return repositories.NewEntityWriteRepository(logger, client.GetWritePool(), cachedRepository)
}

func newEntityStore(
	logger *slog.Logger,
	cachedRepository *repositories.CachedEntityRepository,
	queryRepository *repositories.EntityQueryRepository,
	writeRepository *repositories.EntityWriteRepository,
	fetcher repositories.RemoteFetcher,
) *repositories.EntityStore {
	return repositories.NewEntityStore(logger, cachedRepository, queryRepository, writeRepository, fetcher)
}

func newTranslationService(
	logger *slog.Logger,
	cfg *config.Config,
	store *repositories.EntityStore,
) *translation.TranslationService {
	application := domain.Application{
		Name:    cfg.Instance.ApplicationName,
		Website: cfg.Instance.ApplicationWebsite,
	}
	return translation.NewTranslationService(logger, store, application)
}

func newResourceService(
	logger *slog.Logger,
	store *repositories.EntityStore,
	translator *translation.TranslationService,
) *resources.ResourceService {
	return resources.NewResourceService(logger, store, store, translator)
}

func newServer(
	logger *slog.Logger,
	cfg *config.Config,
	resourceService *resources.ResourceService,
) *httpadapter.Server {
	return httpadapter.NewServer(logger, cfg.Server, resourceService)
}

func runMigrations(lc fx.Lifecycle, logger *slog.Logger, cfg *config.Config, client *postgres.ReadWriteClient) {
	if !cfg.Database.MigrateOnStart {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return postgres.Migrate(ctx, logger, client.GetWritePool())
		},
	})
}

// registerServerHooks registers lifecycle hooks for the HTTP server
func registerServerHooks(lc fx.Lifecycle, logger *slog.Logger, cfg *config.Config, srv *httpadapter.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server forced to shutdown", "error", err)
				return err
			}
			logger.Info("Server exited gracefully")
			return nil
		},
	})
}
