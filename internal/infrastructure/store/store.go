// Package store selecciona el backend de persistencia (SQLite o PostgreSQL) según la configuración.
package store

import (
	"context"
	"fmt"

	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/postgres"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/sqlite"
	"github.com/drb-alger/gestion-magasin/pkg/config"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

// Store repositorios de lectura, runner transaccional y cierre del backend elegido.
type Store struct {
	Products repository.ProductRepository
	History  repository.HistoryRepository
	Tx       inventory.TxRunner
	close    func() error
}

// Close libera las conexiones.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open abre el backend configurado y asegura el esquema.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.OpenDB(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("abrir sqlite %s: %w", cfg.Path, err)
		}
		log.Info().Str("driver", cfg.Driver).Str("path", cfg.Path).Msg("base de datos lista")
		return &Store{
			Products: sqlite.NewProductRepository(db),
			History:  sqlite.NewHistoryRepository(db),
			Tx:       sqlite.NewTxRunner(db),
			close:    db.Close,
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.Driver).Msg("base de datos lista")
		return &Store{
			Products: postgres.NewProductRepository(pool),
			History:  postgres.NewHistoryRepository(pool),
			Tx:       postgres.NewTxRunner(pool),
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil
	default:
		return nil, fmt.Errorf("driver desconocido %q", cfg.Driver)
	}
}
