package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

// Límites por defecto del historial.
const (
	DefaultHistoryLimit = 2000
	MaxHistoryLimit     = 5000
)

// AllTypes valor del filtro de tipo que equivale a "sin filtro".
const AllTypes = "Tous"

// HistoryUseCase consulta de solo lectura del historial de movimientos.
type HistoryUseCase struct {
	repo         repository.HistoryRepository
	defaultLimit int
	maxLimit     int
	log          *logger.Logger
}

// NewHistoryUseCase construye el caso de uso. Límites <= 0 toman los valores por defecto.
func NewHistoryUseCase(repo repository.HistoryRepository, defaultLimit, maxLimit int, log *logger.Logger) *HistoryUseCase {
	if maxLimit <= 0 {
		maxLimit = MaxHistoryLimit
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultHistoryLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &HistoryUseCase{repo: repo, defaultLimit: defaultLimit, maxLimit: maxLimit, log: log}
}

// Filter normaliza y valida la consulta. Tipo vacío o "Tous" = todos; límite acotado a maxLimit.
func (uc *HistoryUseCase) Filter(in dto.HistoryQuery) (entity.HistoryFilter, error) {
	f := entity.HistoryFilter{
		ProductID: in.ProductID,
		Article:   strings.TrimSpace(in.Article),
		Recipient: strings.TrimSpace(in.Recipient),
		Type:      strings.ToUpper(strings.TrimSpace(in.Type)),
		Limit:     in.Limit,
	}
	if strings.EqualFold(f.Type, AllTypes) {
		f.Type = ""
	}
	if f.Type != "" && !entity.IsValidMovementType(f.Type) {
		return f, domain.Invalid("type", "debe ser ENTREE, SORTIE o Tous")
	}
	if f.ProductID != nil {
		// la selección de un artículo tiene prioridad sobre el texto
		f.Article = ""
	}
	switch {
	case f.Limit < 0:
		return f, domain.Invalid("limit", "no puede ser negativo")
	case f.Limit == 0:
		f.Limit = uc.defaultLimit
	case f.Limit > uc.maxLimit:
		f.Limit = uc.maxLimit
	}
	return f, nil
}

// Rows ejecuta la consulta devolviendo filas de dominio (usado por los exports).
func (uc *HistoryUseCase) Rows(ctx context.Context, in dto.HistoryQuery) ([]entity.HistoryRow, entity.HistoryFilter, error) {
	f, err := uc.Filter(in)
	if err != nil {
		return nil, f, err
	}
	rows, err := uc.repo.Query(ctx, f)
	if err != nil {
		err = domain.StoreError(err)
		if errors.Is(err, domain.ErrStore) {
			uc.log.Error().Err(err).Msg("consulta del historial fallida")
		}
		return nil, f, err
	}
	return rows, f, nil
}

// Query devuelve los movimientos más recientes primero (timestamp DESC, id DESC).
// ResultingStock es el stock actual del producto; StockAtMovement la foto del momento.
func (uc *HistoryUseCase) Query(ctx context.Context, in dto.HistoryQuery) (*dto.HistoryResponse, error) {
	rows, f, err := uc.Rows(ctx, in)
	if err != nil {
		return nil, err
	}
	items := make([]dto.HistoryRowResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.HistoryRowResponse{
			MovementID:      r.MovementID,
			Date:            r.Date.Format(entity.TimestampLayout),
			ProductID:       r.ProductID,
			ProductName:     r.ProductName,
			Type:            r.Type,
			Quantity:        r.Quantity,
			Recipient:       r.Recipient,
			Observation:     r.Observation,
			ResultingStock:  r.ResultingStock,
			StockAtMovement: r.StockAtMovement,
		})
	}
	return &dto.HistoryResponse{Items: items, Count: len(items), Limit: f.Limit}, nil
}
