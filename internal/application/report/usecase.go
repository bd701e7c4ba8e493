package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

// Títulos por defecto.
const (
	InventoryTitle = "Inventaire Magasin"
	HistoryTitle   = "Historique Mouvements"
)

// Document archivo generado, listo para descarga o escritura.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportRequest parámetros de un export a archivo.
type ExportRequest struct {
	Format   Format
	Path     string // vacío = nombre sugerido en el directorio actual
	Products entity.ProductFilter
	History  dto.HistoryQuery
}

// UseCase construye las filas de los exports y delega el formato en un Renderer.
type UseCase struct {
	products  repository.ProductRepository
	history   *inventory.HistoryUseCase
	renderers map[Format]Renderer
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso con los renderers disponibles.
func NewUseCase(products repository.ProductRepository, history *inventory.HistoryUseCase, log *logger.Logger, renderers ...Renderer) *UseCase {
	m := make(map[Format]Renderer, len(renderers))
	for _, r := range renderers {
		m[r.Format()] = r
	}
	return &UseCase{products: products, history: history, renderers: m, log: log, now: time.Now}
}

// RenderInventory genera el inventario filtrado en el formato pedido.
func (uc *UseCase) RenderInventory(ctx context.Context, format Format, filter entity.ProductFilter) (*Document, error) {
	r, err := uc.renderer(format)
	if err != nil {
		return nil, err
	}
	list, err := uc.products.List(ctx, filter)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	data, err := r.RenderInventory(ctx, InventoryTitle, InventoryRows(list))
	if err != nil {
		return nil, fmt.Errorf("report: inventario %s: %w", format, err)
	}
	return &Document{
		Filename:    uc.filename("inventaire", format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// RenderHistory genera el historial filtrado en el formato pedido.
func (uc *UseCase) RenderHistory(ctx context.Context, format Format, query dto.HistoryQuery) (*Document, error) {
	r, err := uc.renderer(format)
	if err != nil {
		return nil, err
	}
	rows, f, err := uc.history.Rows(ctx, query)
	if err != nil {
		return nil, err
	}
	data, err := r.RenderHistory(ctx, historyTitle(f, rows), HistoryRows(rows))
	if err != nil {
		return nil, fmt.Errorf("report: historial %s: %w", format, err)
	}
	return &Document{
		Filename:    uc.filename("historique", format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// ExportInventory escribe el inventario en req.Path y devuelve la ruta escrita.
func (uc *UseCase) ExportInventory(ctx context.Context, req ExportRequest) (string, error) {
	doc, err := uc.RenderInventory(ctx, req.Format, req.Products)
	if err != nil {
		return "", err
	}
	return uc.write(req.Path, doc)
}

// ExportHistory escribe el historial en req.Path y devuelve la ruta escrita.
func (uc *UseCase) ExportHistory(ctx context.Context, req ExportRequest) (string, error) {
	doc, err := uc.RenderHistory(ctx, req.Format, req.History)
	if err != nil {
		return "", err
	}
	return uc.write(req.Path, doc)
}

func (uc *UseCase) write(path string, doc *Document) (string, error) {
	if path == "" {
		path = doc.Filename
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		uc.log.Error().Err(err).Str("path", path).Msg("escritura del export fallida")
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	uc.log.Info().Str("path", path).Int("bytes", len(doc.Data)).Msg("export escrito")
	return path, nil
}

func (uc *UseCase) renderer(format Format) (Renderer, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, domain.Invalid("format", fmt.Sprintf("formato no disponible %q", format))
	}
	return r, nil
}

func (uc *UseCase) filename(prefix string, format Format) string {
	return fmt.Sprintf("%s_%s.%s", prefix, uc.now().Format("20060102"), format)
}

// InventoryRows convierte productos en filas de inventario con la columna valor.
func InventoryRows(list []*entity.Product) []InventoryRow {
	rows := make([]InventoryRow, 0, len(list))
	for _, p := range list {
		rows = append(rows, InventoryRow{
			Article:      p.Name,
			Category:     p.Category,
			Quantity:     p.Quantity,
			Price:        p.Price,
			MinThreshold: p.MinThreshold,
			DateAdded:    p.DateAdded,
			Observation:  p.Observation,
			Value:        p.Value(),
		})
	}
	return rows
}

// HistoryRows convierte filas del historial; las salidas se muestran en negativo.
func HistoryRows(list []entity.HistoryRow) []HistoryReportRow {
	rows := make([]HistoryReportRow, 0, len(list))
	for _, h := range list {
		q := h.Quantity
		if h.Type == entity.MovementTypeSortie {
			q = -q
		}
		rows = append(rows, HistoryReportRow{
			Date:        h.Date.Format(entity.TimestampLayout),
			Type:        h.Type,
			Article:     h.ProductName,
			Quantity:    q,
			Recipient:   h.Recipient,
			Observation: h.Observation,
			StockAfter:  h.ResultingStock,
		})
	}
	return rows
}

func historyTitle(f entity.HistoryFilter, rows []entity.HistoryRow) string {
	switch {
	case f.ProductID != nil && len(rows) > 0:
		return "Historique - " + rows[0].ProductName
	case f.Article != "":
		return "Historique - " + f.Article
	case f.Recipient != "":
		return "Historique - " + f.Recipient
	}
	return HistoryTitle
}
