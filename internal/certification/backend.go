package certification

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/pkg/config"
	"github.com/wonny/quotecert/pkg/database"
	"github.com/wonny/quotecert/pkg/logger"
	"github.com/wonny/quotecert/pkg/redis"
)

// Backend bundles the configured store with the connections it owns
type Backend struct {
	Store contracts.CertificationRepository
	DB    *database.DB  // CERT_STORE=postgres 일 때만
	Redis *redis.Client // 비활성 클라이언트일 수 있음

	mongo  *mongo.Client
	sqlite *SQLiteStore
}

// OpenBackend opens the store selected by CERT_STORE, wrapped by the Redis cache when enabled
func OpenBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Certification.Store {
	case config.StoreMemory:
		b.Store = NewMemoryStore()

	case config.StorePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.DB = db
		b.Store = NewPostgresStore(db.Pool)

	case config.StoreMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		b.mongo = client
		store := NewMongoStore(client, cfg.Mongo.Database)
		if err := store.EnsureIndexes(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.Store = store

	case config.StoreSQLite:
		store, err := OpenSQLiteStore(ctx, cfg.Certification.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.sqlite = store
		b.Store = store

	default:
		return nil, fmt.Errorf("unknown certification store %q", cfg.Certification.Store)
	}

	rc, err := redis.New(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Redis = rc
	if rc.Enabled() {
		b.Store = NewCachedStore(b.Store, redis.NewCache(rc, "quotecert"), cfg.Certification.CacheTTL, log)
	}

	log.WithFields(map[string]interface{}{
		"store": cfg.Certification.Store,
		"cache": rc.Enabled(),
	}).Info("Certification store ready")

	return b, nil
}

// Ping checks every owned connection; the first failure wins
func (b *Backend) Ping(ctx context.Context) error {
	if b.DB != nil {
		if err := b.DB.Ping(ctx); err != nil {
			return err
		}
	}
	if b.mongo != nil {
		if err := b.mongo.Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongo ping failed: %w", err)
		}
	}
	if b.sqlite != nil {
		if err := b.sqlite.Ping(ctx); err != nil {
			return fmt.Errorf("sqlite ping failed: %w", err)
		}
	}
	if b.Redis != nil && b.Redis.Enabled() {
		if err := b.Redis.Redis().Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}
	return nil
}

// Close releases every owned connection
func (b *Backend) Close() {
	if b.DB != nil {
		b.DB.Close()
	}
	if b.mongo != nil {
		_ = b.mongo.Disconnect(context.Background())
	}
	if b.sqlite != nil {
		_ = b.sqlite.Close()
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
}
