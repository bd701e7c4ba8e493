package inventory

import (
	"context"
	"sort"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
)

// ReplenishmentUseCase lista los productos en stock bajo con la cantidad que falta
// para volver al umbral mínimo.
type ReplenishmentUseCase struct {
	repo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repo: repo}
}

// LowStockList devuelve los productos con quantity < min_threshold, primero los de mayor déficit.
func (uc *ReplenishmentUseCase) LowStockList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	list, err := uc.repo.List(ctx, entity.ProductFilter{})
	if err != nil {
		return nil, domain.StoreError(err)
	}
	out := make([]dto.ReplenishmentSuggestion, 0)
	for _, p := range list {
		if !p.IsLowStock() {
			continue
		}
		out = append(out, dto.ReplenishmentSuggestion{
			Product:   *toProductResponse(p),
			Shortfall: p.MinThreshold - p.Quantity,
		})
	}
	// Ordenar: mayor déficit primero; a igualdad, el orden por nombre del listado
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Shortfall > out[j].Shortfall
	})
	return out, nil
}
