package inventory

import (
	"math"

	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
)

// ApplyMovement calcula el stock resultante de aplicar un movimiento (servicio de dominio).
// SORTIE nunca deja el stock negativo; ENTREE solo está acotada por el rango de int64.
func ApplyMovement(productID, current int64, movementType string, quantity int64) (int64, error) {
	if !entity.IsValidMovementType(movementType) {
		return current, domain.Invalid("type", "debe ser ENTREE o SORTIE")
	}
	if quantity <= 0 {
		return current, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	if movementType == entity.MovementTypeSortie {
		if current < quantity {
			return current, &domain.InsufficientStockError{ProductID: productID, Available: current, Requested: quantity}
		}
		return current - quantity, nil
	}
	if current > math.MaxInt64-quantity {
		return current, domain.Invalid("quantity", "excede el rango permitido")
	}
	return current + quantity, nil
}

// Replay reconstruye el stock a partir de la cantidad inicial y los movimientos confirmados.
// El orden no importa: la suma de deltas es conmutativa.
func Replay(initial int64, movements []*entity.Movement) int64 {
	q := initial
	for _, m := range movements {
		q += m.SignedQuantity()
	}
	return q
}

// CrossedIntoLowStock indica si el paso de before a after hace entrar al producto en stock bajo.
func CrossedIntoLowStock(minThreshold, before, after int64) bool {
	if minThreshold <= 0 {
		return false
	}
	return before >= minThreshold && after < minThreshold
}
