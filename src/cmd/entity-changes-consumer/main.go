package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mastodonbridge/src/adapters/kafka/consumers"
	"mastodonbridge/src/helper/config"
	"mastodonbridge/src/infra/kafka"
	"mastodonbridge/src/infra/postgres"
	"mastodonbridge/src/infra/redis"
	"mastodonbridge/src/repositories"

	"go.uber.org/fx"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting Entity Changes Consumer with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newConfig,
			newLogger,
			newReadWriteClient,
			newEntityCache,
			newKafkaClient,
			newCachedEntityRepository,
			newEntityWriteRepository,
			newEntityChangesConsumer,
		),

		// Invocations
		fx.Invoke(runMigrations, startConsumer),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start consumer application: %v", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down entity changes consumer...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}

	log.Println("Entity changes consumer shutdown complete")
}

func newConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}

	if err := cfg.ValidateKafka(); err != nil {
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

// newEntityCache returns nil when redis is not configured; there is then
// nothing to invalidate.
func newEntityCache(lc fx.Lifecycle, cfg *config.Config) repositories.EntityCache {
	if !cfg.Redis.Enabled() {
		return nil
	}

	client := redis.NewRedisClient(cfg.Redis.Hosts, cfg.Redis.PoolSize, cfg.Redis.TTL)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

func newKafkaClient(logger *slog.Logger, cfg *config.Config) (*kafka.KafkaClient, error) {
	return kafka.NewKafkaClient(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BatchSize)
}

// The consumer only invalidates, so the cached repository has no read source.
func newCachedEntityRepository(
	logger *slog.Logger,
	cache repositories.EntityCache,
) *repositories.CachedEntityRepository {
	return repositories.NewCachedEntityRepository(logger, nil, cache)
}

func newEntityWriteRepository(
	logger *slog.Logger,
	client *postgres.ReadWriteClient,
	cachedRepository *repositories.CachedEntityRepository,
) *repositories.EntityWriteRepository {
	return repositories.NewEntityWriteRepository(logger, client.GetWritePool(), cachedRepository)
}

func newEntityChangesConsumer(
	logger *slog.Logger,
	writeRepository *repositories.EntityWriteRepository,
) *consumers.EntityChangesConsumer {
	return consumers.NewEntityChangesConsumer(logger, writeRepository)
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

func startConsumer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	cfg *config.Config,
	kafkaClient *kafka.KafkaClient,
	entityChangesConsumer *consumers.EntityChangesConsumer,
) {
	// O contexto do OnStart expira junto com o start; o consumer precisa do seu.
	consumerCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := entityChangesConsumer.Start(consumerCtx, kafkaClient, cfg.Kafka.Topic); err != nil {
					logger.Error("Consumer failed", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			logger.Info("Shutting down Kafka client...")
			if err := kafkaClient.Close(); err != nil {
				logger.Error("Failed to close Kafka client", "error", err)
				return err
			}
			logger.Info("Kafka client shut down gracefully")
			return nil
		},
	})
}
