package repository

import (
	"context"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
)

// HistoryRepository consulta de solo lectura sobre movimientos unidos a productos.
// Resultados ordenados por timestamp DESC, id DESC y limitados a filter.Limit filas.
type HistoryRepository interface {
	Query(ctx context.Context, filter entity.HistoryFilter) ([]entity.HistoryRow, error)
}
