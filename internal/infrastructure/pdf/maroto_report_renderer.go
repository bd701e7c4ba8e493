// Package pdf genera los exports en formato documento (PDF) con Maroto v2.
//
// Layout de la página A4 apaisada:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  TÍTULO (azul)                               Fecha de edición │
//	│  ──────────────────────────────────────────────────────────  │
//	│  CABECERA: fondo azul, texto blanco en negrita                │
//	│  FILAS: fondo alterno blanco / azul claro                     │
//	│  ──────────────────────────────────────────────────────────  │
//	│  Total de filas                                              │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/drb-alger/gestion-magasin/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 25, Green: 118, Blue: 210} // #1976D2
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorSmoke   = &props.Color{Red: 245, Green: 245, Blue: 245}
	colorLight   = &props.Color{Red: 227, Green: 242, Blue: 253} // #E3F2FD
	colorGrid    = &props.Color{Red: 176, Green: 190, Blue: 197} // #B0BEC5
)

// Anchos de columna (sobre 12).
var (
	inventoryWidths = []int{2, 2, 1, 1, 1, 1, 2, 2}
	historyWidths   = []int{2, 1, 3, 1, 2, 2, 1}
)

// column alineación por columna de datos.
type column struct {
	size  int
	align align.Type
}

// ReportRenderer implementa report.Renderer para PDF.
type ReportRenderer struct {
	author string
	now    func() time.Time
}

var _ report.Renderer = (*ReportRenderer)(nil)

// NewReportRenderer construye el renderer. author figura en los metadatos del PDF.
func NewReportRenderer(author string) *ReportRenderer {
	return &ReportRenderer{author: author, now: time.Now}
}

// Format devuelve report.FormatPDF.
func (g *ReportRenderer) Format() report.Format { return report.FormatPDF }

// RenderInventory genera la tabla de inventario.
func (g *ReportRenderer) RenderInventory(_ context.Context, title string, rows []report.InventoryRow) ([]byte, error) {
	cols := columns(inventoryWidths, align.Left, align.Left, align.Center, align.Center,
		align.Center, align.Center, align.Left, align.Right)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Article,
			r.Category,
			strconv.FormatInt(r.Quantity, 10),
			r.Price.String(),
			strconv.FormatInt(r.MinThreshold, 10),
			r.DateAdded,
			r.Observation,
			r.Value.StringFixed(2),
		})
	}
	return g.render(title, report.InventoryHeaders, cols, cells)
}

// RenderHistory genera la tabla del historial.
func (g *ReportRenderer) RenderHistory(_ context.Context, title string, rows []report.HistoryReportRow) ([]byte, error) {
	cols := columns(historyWidths, align.Left, align.Center, align.Left, align.Center,
		align.Left, align.Left, align.Right)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Date,
			r.Type,
			r.Article,
			strconv.FormatInt(r.Quantity, 10),
			r.Recipient,
			r.Observation,
			strconv.FormatInt(r.StockAfter, 10),
		})
	}
	return g.render(title, report.HistoryHeaders, cols, cells)
}

func (g *ReportRenderer) render(title string, headers []string, cols []column, cells [][]string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(title, g.now()))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(headerRow(headers, cols))
	for i, c := range cells {
		m.AddRows(dataRow(c, cols, i))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorGrid, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total : %d ligne(s)", len(cells)), props.Text{
			Size: 8, Color: colorGray, Align: align.Right,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título (izq) y fecha de edición (der).
func titleRow(title string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(9).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 2,
		})),
		col.New(3).Add(text.New("Édité le "+at.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 6,
		})),
	)
}

// headerRow: cabecera de la tabla con fondo azul.
func headerRow(headers []string, cols []column) core.Row {
	r := row.New(8)
	for i, h := range headers {
		r.Add(col.New(cols[i].size).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// dataRow: una fila de datos con fondo alterno.
func dataRow(cells []string, cols []column, index int) core.Row {
	r := row.New(7)
	for i, v := range cells {
		r.Add(col.New(cols[i].size).Add(text.New(v, props.Text{
			Size: 8, Align: cols[i].align, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	bg := colorSmoke
	if index%2 == 1 {
		bg = colorLight
	}
	return r.WithStyle(&props.Cell{BackgroundColor: bg})
}

// ── helpers ───────────────────────────────────────────────────────────────────

func columns(widths []int, aligns ...align.Type) []column {
	out := make([]column, len(widths))
	for i, w := range widths {
		out[i] = column{size: w, align: aligns[i]}
	}
	return out
}
