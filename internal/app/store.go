package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/config"
	"github.com/shestoi/magazyn/internal/repository"
	"github.com/shestoi/magazyn/internal/repository/memory"
	mongorepo "github.com/shestoi/magazyn/internal/repository/mongo"
	"github.com/shestoi/magazyn/internal/repository/postgres"
	"github.com/shestoi/magazyn/internal/repository/postgrest"
	platformshutdown "github.com/shestoi/magazyn/platform/shutdown"
)

// CloseFunc освобождает ресурсы драйвера таблицы
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// OpenTable создаёт драйвер таблицы по cfg.StoreDriver.
// Соединение создаётся один раз; close регистрируется в shutdown manager вызывающим.
func OpenTable(ctx context.Context, cfg config.Config, logger *zap.Logger) (repository.Table, CloseFunc, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgREST:
		logger.Info("Using PostgREST table",
			zap.String("table", cfg.SupabaseTable),
			zap.Int("key_len", len(cfg.SupabaseKey)),
		)
		table, err := postgrest.NewRepository(logger, postgrest.Config{
			URL:     cfg.SupabaseURL,
			APIKey:  cfg.SupabaseKey,
			Table:   cfg.SupabaseTable,
			Timeout: cfg.StoreTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		return table, noopClose, nil

	case config.DriverPostgres:
		logger.Info("Connecting to PostgreSQL")
		poolCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: POSTGRES_DSN: %v", config.ErrInvalidConfig, err)
		}
		poolCfg.ConnConfig.ConnectTimeout = cfg.StoreTimeout
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
		}
		return postgres.NewRepository(pool, cfg.SupabaseTable), platformshutdown.ClosePool(pool), nil

	case config.DriverMongo:
		logger.Info("Connecting to MongoDB", zap.String("db", cfg.MongoDB))
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(cfg.MongoURI).
			SetTimeout(cfg.StoreTimeout))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
		}
		return mongorepo.NewRepository(client, cfg.MongoDB, cfg.SupabaseTable), platformshutdown.DisconnectMongo(client), nil

	case config.DriverMemory:
		logger.Warn("Using in-memory table, data is lost on exit")
		return memory.NewMemoryRepository(), noopClose, nil
	}

	return nil, nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", config.ErrInvalidConfig, cfg.StoreDriver)
}
