package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

// MovementUseCase registra afectaciones (SORTIE) y reposiciones (ENTREE) de forma transaccional:
// bloqueo de la fila del producto, actualización del stock y alta del movimiento en la misma tx.
type MovementUseCase struct {
	txRunner  TxRunner
	publisher EventPublisher
	metrics   Metrics
	catalog   entity.Catalog
	log       *logger.Logger
	now       func() time.Time
}

// NewMovementUseCase construye el caso de uso. publisher y metrics nil = no-op.
func NewMovementUseCase(
	txRunner TxRunner,
	publisher EventPublisher,
	metrics Metrics,
	catalog entity.Catalog,
	log *logger.Logger,
) *MovementUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &MovementUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		metrics:   metrics,
		catalog:   catalog,
		log:       log,
		now:       time.Now,
	}
}

// movementInput movimiento propuesto, aún no validado contra el stock.
type movementInput struct {
	ProductID   int64
	Type        string
	Quantity    int64
	Recipient   string
	Observation string
	Timestamp   time.Time
}

// Allocate registra una salida (SORTIE) hacia un service con fecha actual.
func (uc *MovementUseCase) Allocate(ctx context.Context, in dto.AllocateRequest) (*dto.MovementResult, error) {
	return uc.record(ctx, movementInput{
		ProductID:   in.ProductID,
		Type:        entity.MovementTypeSortie,
		Quantity:    in.Quantity,
		Recipient:   in.Recipient,
		Observation: in.Observation,
		Timestamp:   uc.now(),
	})
}

// Restock registra una entrada o salida con fecha opcional (YYYY-MM-DD o YYYY-MM-DD HH:MM:SS).
func (uc *MovementUseCase) Restock(ctx context.Context, in dto.RestockRequest) (*dto.MovementResult, error) {
	at, err := inventory.ParseMovementDate(in.Date, uc.now())
	if err != nil {
		uc.metrics.MovementRejected(in.Type, rejectReason(err))
		return nil, err
	}
	return uc.record(ctx, movementInput{
		ProductID:   in.ProductID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Recipient:   in.Recipient,
		Observation: in.Observation,
		Timestamp:   at,
	})
}

// record: proposed -> validated -> committed | rejected.
// Los efectos externos (métricas, eventos) ocurren solo tras el commit.
func (uc *MovementUseCase) record(ctx context.Context, in movementInput) (*dto.MovementResult, error) {
	if !entity.IsValidMovementType(in.Type) {
		return nil, uc.reject(in, domain.Invalid("type", "debe ser ENTREE o SORTIE"))
	}
	if in.Quantity <= 0 {
		return nil, uc.reject(in, domain.Invalid("quantity", "debe ser mayor que 0"))
	}
	if !uc.catalog.KnownRecipient(in.Recipient) {
		uc.log.Warn().Str("recipient", in.Recipient).Int64("product_id", in.ProductID).
			Msg("destinatario fuera del catálogo")
	}

	var (
		movement *entity.Movement
		product  *entity.Product
		crossed  bool
	)
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, movements repository.MovementRepository) error {
		// Bloquea la fila del producto (SELECT FOR UPDATE) para evitar condiciones de carrera
		p, err := products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		before := p.Quantity
		after, err := inventory.ApplyMovement(p.ID, before, in.Type, in.Quantity)
		if err != nil {
			return err
		}
		if err := products.UpdateQuantity(ctx, p.ID, after); err != nil {
			return err
		}
		m := &entity.Movement{
			ProductID:   p.ID,
			Type:        in.Type,
			Quantity:    in.Quantity,
			Timestamp:   in.Timestamp.Truncate(time.Second),
			Recipient:   in.Recipient,
			Observation: in.Observation,
			StockAfter:  after,
		}
		if err := movements.Create(ctx, m); err != nil {
			return err
		}
		p.Quantity = after
		movement, product = m, p
		crossed = inventory.CrossedIntoLowStock(p.MinThreshold, before, after)
		return nil
	})
	if err != nil {
		return nil, uc.reject(in, domain.StoreError(err))
	}

	uc.metrics.MovementCommitted(movement.Type, movement.Quantity)
	uc.log.Info().
		Int64("movement_id", movement.ID).
		Int64("product_id", product.ID).
		Str("type", movement.Type).
		Int64("quantity", movement.Quantity).
		Int64("stock", product.Quantity).
		Msg("movimiento registrado")

	if err := uc.publisher.MovementRecorded(ctx, movement, product); err != nil {
		uc.log.Error().Err(err).Int64("movement_id", movement.ID).Msg("publicación del movimiento fallida")
	}
	if crossed {
		uc.log.Warn().Int64("product_id", product.ID).Str("name", product.Name).
			Int64("quantity", product.Quantity).Int64("min_threshold", product.MinThreshold).
			Msg("producto en stock bajo")
		if err := uc.publisher.LowStockReached(ctx, product); err != nil {
			uc.log.Error().Err(err).Int64("product_id", product.ID).Msg("publicación de stock bajo fallida")
		}
	}

	return &dto.MovementResult{
		NewQuantity: product.Quantity,
		Movement:    toMovementResponse(movement),
		LowStock:    product.IsLowStock(),
	}, nil
}

func (uc *MovementUseCase) reject(in movementInput, err error) error {
	reason := rejectReason(err)
	uc.metrics.MovementRejected(in.Type, reason)
	ev := uc.log.Info()
	if reason == "store" {
		ev = uc.log.Error().Err(err)
	}
	ev.Int64("product_id", in.ProductID).Str("type", in.Type).Int64("quantity", in.Quantity).
		Str("reason", reason).Msg("movimiento rechazado")
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "store"
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Timestamp:   m.Timestamp.Format(entity.TimestampLayout),
		Recipient:   m.Recipient,
		Observation: m.Observation,
		StockAfter:  m.StockAfter,
	}
}
