package inventory

import (
	"context"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error) error
}

// EventPublisher publica hechos ya confirmados. Se invoca solo después del commit.
type EventPublisher interface {
	MovementRecorded(ctx context.Context, movement *entity.Movement, product *entity.Product) error
	LowStockReached(ctx context.Context, product *entity.Product) error
}

// Metrics contadores del motor de movimientos.
type Metrics interface {
	MovementCommitted(movementType string, quantity int64)
	MovementRejected(movementType, reason string)
	LowStockObserved(count int)
}

// NopPublisher descarta los eventos (Kafka desactivado).
type NopPublisher struct{}

func (NopPublisher) MovementRecorded(context.Context, *entity.Movement, *entity.Product) error {
	return nil
}

func (NopPublisher) LowStockReached(context.Context, *entity.Product) error { return nil }

// NopMetrics descarta las métricas.
type NopMetrics struct{}

func (NopMetrics) MovementCommitted(string, int64) {}
func (NopMetrics) MovementRejected(string, string) {}
func (NopMetrics) LowStockObserved(int)            {}

var (
	_ EventPublisher = NopPublisher{}
	_ Metrics        = NopMetrics{}
)
