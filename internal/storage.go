package internal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/calisthenics/internal/config"
	"github.com/2beens/calisthenics/internal/db"
	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/store/postgres"
	"github.com/2beens/calisthenics/internal/store/sqlite"
)

type OpenStoreParams struct {
	PostgresUser     string
	PostgresPassword string
	TracingEnabled   bool
}

// Storage is the opened store backend. DBPool is only set for postgres.
type Storage struct {
	Store  store.Store
	DBPool *pgxpool.Pool
}

// OpenStore opens the backend selected by cfg.StoreDriver. Postgres tables
// are created when missing.
func OpenStore(ctx context.Context, cfg *config.Config, params OpenStoreParams) (*Storage, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warnln("using in-memory store, logs are lost on restart")
		return &Storage{Store: store.NewMemory()}, nil
	case config.StoreSQLite:
		sqliteStore, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Debugf("using sqlite store: %s", cfg.SQLitePath)
		return &Storage{Store: sqliteStore}, nil
	case config.StorePostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         params.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		pgStore := postgres.New(dbPool)
		if err := pgStore.Migrate(ctx); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate postgres store: %w", err)
		}
		log.Debugf("using postgres store: %s/%s", cfg.PostgresHost, cfg.PostgresDBName)
		return &Storage{Store: pgStore, DBPool: dbPool}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

func (s *Storage) Close() {
	if err := s.Store.Close(); err != nil {
		log.Errorf("failed to close store: %s", err)
	}
	if s.DBPool != nil {
		log.Debugln("closing db pool ...")
		s.DBPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
}
