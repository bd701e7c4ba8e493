package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

// ProductUseCase ciclo de vida de los productos y cálculo de stock bajo.
// El stock cambia vía movimientos; Update y AdjustQuantityDirect lo editan sin dejar traza.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner TxRunner
	metrics  Metrics
	catalog  entity.Catalog
	log      *logger.Logger
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso. metrics nil = no-op.
func NewProductUseCase(
	repo repository.ProductRepository,
	txRunner TxRunner,
	metrics Metrics,
	catalog entity.Catalog,
	log *logger.Logger,
) *ProductUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ProductUseCase{
		repo:     repo,
		txRunner: txRunner,
		metrics:  metrics,
		catalog:  catalog,
		log:      log,
		now:      time.Now,
	}
}

// Create crea un producto. DateAdded vacío toma la fecha de hoy.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{
		Name:         in.Name,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Price:        in.Price,
		MinThreshold: in.MinThreshold,
		DateAdded:    in.DateAdded,
		Observation:  in.Observation,
	}
	if product.DateAdded == "" {
		product.DateAdded = uc.now().Format(entity.DateLayout)
	}
	if err := inventory.NormalizeProduct(product); err != nil {
		return nil, err
	}
	uc.checkCategory(product)
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, uc.storeFailure(err, "alta de producto")
	}
	uc.log.Info().Int64("product_id", product.ID).Str("name", product.Name).
		Int64("quantity", product.Quantity).Msg("producto creado")
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, uc.storeFailure(err, "lectura de producto")
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update sobrescribe todos los campos editables, incluida la cantidad (sin movimiento).
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	next := &entity.Product{
		ID:           id,
		Name:         in.Name,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Price:        in.Price,
		MinThreshold: in.MinThreshold,
		DateAdded:    in.DateAdded,
		Observation:  in.Observation,
	}
	if err := inventory.NormalizeProduct(next); err != nil {
		return nil, err
	}
	uc.checkCategory(next)

	var previous int64
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.MovementRepository) error {
		current, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		previous = current.Quantity
		return products.Update(ctx, next)
	})
	if err != nil {
		return nil, uc.storeFailure(err, "modificación de producto")
	}
	if previous != next.Quantity {
		uc.log.Warn().Int64("product_id", id).Int64("from", previous).Int64("to", next.Quantity).
			Msg("cantidad modificada sin movimiento")
	}
	uc.log.Info().Int64("product_id", id).Msg("producto modificado")
	return toProductResponse(next), nil
}

// AdjustQuantityDirect fija la cantidad sin registrar movimiento (corrección de inventario).
func (uc *ProductUseCase) AdjustQuantityDirect(ctx context.Context, id int64, quantity int64) (*dto.ProductResponse, error) {
	if quantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.MovementRepository) error {
		p, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := products.UpdateQuantity(ctx, id, quantity); err != nil {
			return err
		}
		uc.log.Warn().Int64("product_id", id).Int64("from", p.Quantity).Int64("to", quantity).
			Msg("ajuste directo de cantidad sin movimiento")
		p.Quantity = quantity
		product = p
		return nil
	})
	if err != nil {
		return nil, uc.storeFailure(err, "ajuste de cantidad")
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto sin movimientos. Con movimientos: domain.ErrHasMovements.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, movements repository.MovementRepository) error {
		p, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		n, err := movements.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrHasMovements
		}
		return products.Delete(ctx, id)
	})
	if err != nil {
		return uc.storeFailure(err, "baja de producto")
	}
	uc.log.Info().Int64("product_id", id).Msg("producto eliminado")
	return nil
}

// Movements devuelve el diario de movimientos del producto y verifica que encadena con el stock actual.
func (uc *ProductUseCase) Movements(ctx context.Context, id int64) (*dto.ProductMovementsResponse, error) {
	var (
		product *entity.Product
		list    []*entity.Movement
	)
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, movements repository.MovementRepository) error {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if list, err = movements.ListByProduct(ctx, id); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, uc.storeFailure(err, "diario de movimientos")
	}

	initial := product.Quantity - inventory.Replay(0, list)
	// stock_after sigue el orden de commit (id), no la fecha declarada
	byCommit := make([]*entity.Movement, len(list))
	copy(byCommit, list)
	sort.Slice(byCommit, func(i, j int) bool { return byCommit[i].ID < byCommit[j].ID })
	consistent := true
	running := initial
	for _, m := range byCommit {
		running += m.SignedQuantity()
		if m.StockAfter != running {
			consistent = false
		}
	}
	if !consistent {
		uc.log.Warn().Int64("product_id", id).Msg("diario de movimientos no encadena con el stock actual")
	}

	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.ProductMovementsResponse{
		ProductID:       product.ID,
		Quantity:        product.Quantity,
		InitialQuantity: initial,
		Consistent:      consistent,
		Items:           items,
		Count:           len(items),
	}, nil
}

// List lista productos por nombre (contiene, sin distinguir mayúsculas) y categoría exacta,
// ordenados por nombre y luego id.
func (uc *ProductUseCase) List(ctx context.Context, filter entity.ProductFilter) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, uc.storeFailure(err, "listado de productos")
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Count: len(items)}, nil
}

// CountLowStock cuenta productos con quantity < min_threshold (min_threshold > 0).
// Se recalcula en cada llamada.
func (uc *ProductUseCase) CountLowStock(ctx context.Context) (int, error) {
	n, err := uc.repo.CountLowStock(ctx)
	if err != nil {
		return 0, uc.storeFailure(err, "conteo de stock bajo")
	}
	uc.metrics.LowStockObserved(n)
	return n, nil
}

func (uc *ProductUseCase) checkCategory(p *entity.Product) {
	if !uc.catalog.KnownCategory(p.Category) {
		uc.log.Warn().Str("category", p.Category).Str("name", p.Name).Msg("categoría fuera del catálogo")
	}
}

// storeFailure registra en ERROR los fallos de almacenamiento; los de dominio pasan tal cual.
func (uc *ProductUseCase) storeFailure(err error, op string) error {
	err = domain.StoreError(err)
	if errors.Is(err, domain.ErrStore) {
		uc.log.Error().Err(err).Str("op", op).Msg("fallo del almacenamiento")
	}
	return err
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Quantity:     p.Quantity,
		Price:        p.Price,
		MinThreshold: p.MinThreshold,
		DateAdded:    p.DateAdded,
		Observation:  p.Observation,
		Value:        p.Value(),
		LowStock:     p.IsLowStock(),
	}
}
