package repositories

import (
	"context"

	"camdeck/internal/core/ports"
	"camdeck/internal/infrastructure/repositories/memory"
	"camdeck/internal/infrastructure/repositories/postgres"
	redisrepo "camdeck/internal/infrastructure/repositories/redis"
	"camdeck/pkg/config"
	"camdeck/pkg/retry"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories for the configured storage driver,
// falling back to memory when the backing store is unreachable.
type RepositoryFactory struct {
	driver      string
	redisClient *redis.Client
	pgPool      *pgxpool.Pool
	logger      *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		driver: cfg.Storage.Driver,
		logger: logger,
	}

	retryCfg := retry.DefaultConfig()

	switch cfg.Storage.Driver {
	case config.StorageRedis:
		err := retry.Do(ctx, retryCfg, func() error {
			client, err := redisrepo.NewRedisClient(
				cfg.Storage.Redis.Address,
				cfg.Storage.Redis.Password,
				cfg.Storage.Redis.DB,
				cfg.Storage.Redis.PoolSize,
				logger,
			)
			if err != nil {
				return err
			}
			factory.redisClient = client
			return nil
		})
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.driver = config.StorageMemory
		}

	case config.StoragePostgres:
		err := retry.Do(ctx, retryCfg, func() error {
			pool, err := postgres.NewPool(ctx, cfg.Storage.Postgres.DSN, cfg.Storage.Postgres.MaxConns, logger)
			if err != nil {
				return err
			}
			factory.pgPool = pool
			return nil
		})
		if err != nil {
			logger.Warnw("failed to connect to Postgres, falling back to memory repositories",
				"error", err,
			)
			factory.driver = config.StorageMemory
		}
	}

	logger.Infow("storage driver selected", "driver", factory.driver)
	return factory, nil
}

// CreateUserRepository creates a user repository for the selected driver
func (f *RepositoryFactory) CreateUserRepository() ports.UserRepository {
	switch f.driver {
	case config.StorageRedis:
		return redisrepo.NewRedisUserRepository(f.redisClient)
	case config.StoragePostgres:
		return postgres.NewPostgresUserRepository(f.pgPool)
	default:
		return memory.NewMemoryUserRepository()
	}
}

// CreateRecordingRepository creates a recording repository for the selected driver
func (f *RepositoryFactory) CreateRecordingRepository() ports.RecordingRepository {
	switch f.driver {
	case config.StorageRedis:
		return redisrepo.NewRedisRecordingRepository(f.redisClient)
	case config.StoragePostgres:
		return postgres.NewPostgresRecordingRepository(f.pgPool)
	default:
		return memory.NewMemoryRecordingRepository()
	}
}

// HealthCheck checks backing store health
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	switch f.driver {
	case config.StorageRedis:
		return f.redisClient.Ping(ctx).Err()
	case config.StoragePostgres:
		return f.pgPool.Ping(ctx)
	default:
		return nil
	}
}

// Close releases backing store connections
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	if f.pgPool != nil {
		f.pgPool.Close()
	}
	return nil
}
