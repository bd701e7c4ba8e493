package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/drb-alger/gestion-magasin/internal/domain"
)

// Format formato de salida de un export.
type Format string

const (
	FormatXLSX Format = "xlsx" // hoja de cálculo
	FormatPDF  Format = "pdf"  // documento
)

// ParseFormat acepta "xlsx" o "pdf" (sin distinguir mayúsculas).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", domain.Invalid("format", fmt.Sprintf("formato desconocido %q (xlsx|pdf)", s))
}

// ContentType tipo MIME del formato.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Cabeceras de columnas de los exports.
var (
	InventoryHeaders = []string{"Article", "Nature", "Quantité", "Prix", "Seuil mini", "Date ajout", "Observation", "Valeur (Qté*Prix)"}
	HistoryHeaders   = []string{"Date", "Type", "Article", "Qté", "Destinataire", "Observation", "Stock après"}
)

// InventoryRow fila del inventario. Value = Quantity * Price.
type InventoryRow struct {
	Article      string
	Category     string
	Quantity     int64
	Price        decimal.Decimal
	MinThreshold int64
	DateAdded    string
	Observation  string
	Value        decimal.Decimal
}

// HistoryReportRow fila del historial. Quantity negativa para SORTIE; StockAfter es el stock actual.
type HistoryReportRow struct {
	Date        string
	Type        string
	Article     string
	Quantity    int64
	Recipient   string
	Observation string
	StockAfter  int64
}

// Renderer convierte un conjunto de filas en los bytes de un archivo. Sin estado.
type Renderer interface {
	Format() Format
	RenderInventory(ctx context.Context, title string, rows []InventoryRow) ([]byte, error)
	RenderHistory(ctx context.Context, title string, rows []HistoryReportRow) ([]byte, error)
}
