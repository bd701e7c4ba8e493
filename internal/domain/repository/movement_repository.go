package repository

import (
	"context"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
)

// MovementRepository puerto de persistencia del diario de movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	CountByProduct(ctx context.Context, productID int64) (int, error)
	// ListByProduct ordena por timestamp DESC, id DESC.
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Movement, error)
}
